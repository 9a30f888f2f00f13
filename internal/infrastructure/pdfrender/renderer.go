package pdfrender

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/leadops/lead-console/internal/core/domain"
)

// Renderer turns an export document into a PDF. Layout mirrors the on-screen
// summary: document title, generation timestamp, then one headed block per
// section with every line printed in full.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(doc domain.ExportDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, doc.Title, "", "L", false)

	if doc.GeneratedAt != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.MultiCell(0, 5, "Generated "+doc.GeneratedAt, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, section.Heading, "", "L", false)

		pdf.SetFont("Helvetica", "", 10)
		if len(section.Lines) == 0 {
			pdf.MultiCell(0, 5.5, "-", "", "L", false)
		}
		for _, line := range section.Lines {
			pdf.MultiCell(0, 5.5, line, "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
