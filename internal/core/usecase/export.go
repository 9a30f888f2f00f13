package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/core/ports"
)

// ExportUseCase produces the two summary downloads: the verbatim JSON record
// and a printable document with every section expanded.
type ExportUseCase struct {
	renderer ports.DocumentRenderer
	now      func() time.Time
}

func NewExportUseCase(renderer ports.DocumentRenderer) *ExportUseCase {
	return &ExportUseCase{renderer: renderer, now: time.Now}
}

// ExportFile is a rendered download: bytes plus the filename and content type
// the response should carry.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportJSON emits the summary exactly as the summary service produced it,
// pretty printed but otherwise untouched.
func (uc *ExportUseCase) ExportJSON(summary domain.Summary) (ExportFile, error) {
	if summary.Empty() {
		return ExportFile{}, domain.WrapError(domain.ErrInvalidInput, "export json", fmt.Errorf("no summary to export"))
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, summary.Raw(), "", "  "); err != nil {
		return ExportFile{}, domain.WrapError(domain.ErrInvalidInput, "export json", err)
	}

	return ExportFile{
		Name:        fmt.Sprintf("summary-data-%s.json", uc.now().Format("2006-01-02")),
		ContentType: "application/json",
		Data:        indented.Bytes(),
	}, nil
}

// ExportPDF renders the summary as a document. Collapse state is ignored:
// every section appears in full.
func (uc *ExportUseCase) ExportPDF(summary domain.Summary) (ExportFile, error) {
	if summary.Empty() {
		return ExportFile{}, domain.WrapError(domain.ErrInvalidInput, "export pdf", fmt.Errorf("no summary to export"))
	}

	data, err := uc.renderer.Render(BuildExportDocument(summary, uc.now()))
	if err != nil {
		return ExportFile{}, domain.WrapError(domain.ErrUpstream, "export pdf", err)
	}

	return ExportFile{
		Name:        fmt.Sprintf("conversation-summary-%s.pdf", uc.now().Format("2006-01-02")),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// BuildExportDocument flattens the summary into headed text sections with all
// content force expanded.
func BuildExportDocument(summary domain.Summary, generatedAt time.Time) domain.ExportDocument {
	doc := domain.ExportDocument{
		Title:       "Conversation Summary",
		GeneratedAt: generatedAt.Format("2 Jan 2006, 15:04"),
	}

	view := BuildSummaryView(summary, func(int) bool { return true })
	for _, section := range view.Sections {
		doc.Sections = append(doc.Sections, domain.ExportSection{
			Heading: section.Heading,
			Lines:   splitLines(section.Content),
		})
	}

	for _, group := range view.Requirements {
		section := domain.ExportSection{Heading: group.Title}
		for _, row := range group.Rows {
			section.Lines = append(section.Lines, fmt.Sprintf("%s: %s", row.Label, row.Value))
		}
		doc.Sections = append(doc.Sections, section)
	}

	if len(view.Tasks) > 0 || view.LastAgentResponse != "" || view.SuggestedNextStep != "" {
		section := domain.ExportSection{Heading: "Tasks And Actionables"}
		for _, task := range view.Tasks {
			line := fmt.Sprintf("[%s] %s: %s", task.Badge, task.Type, task.Description)
			if task.Due != "" {
				line += fmt.Sprintf(" (due %s)", task.Due)
			}
			section.Lines = append(section.Lines, line)
		}
		if view.LastAgentResponse != "" {
			section.Lines = append(section.Lines, "Last Agent Response: "+view.LastAgentResponse)
		}
		if view.SuggestedNextStep != "" {
			section.Lines = append(section.Lines, "Suggested Next Step: "+view.SuggestedNextStep)
		}
		doc.Sections = append(doc.Sections, section)
	}

	return doc
}

func splitLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
