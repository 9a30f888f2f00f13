package usecase

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
)

type fakeRenderer struct {
	doc  domain.ExportDocument
	data []byte
	err  error
}

func (f *fakeRenderer) Render(doc domain.ExportDocument) ([]byte, error) {
	f.doc = doc
	return f.data, f.err
}

func exportSummary(t *testing.T) domain.Summary {
	t.Helper()
	return domain.NewSummary([]byte(`{
		"conversation_summary": {"overview": "Asha is moving to Leeds.", "next_steps": "Send contract."},
		"requirements": {"user_persona": {"name": "Asha"}},
		"internal_scores": {"intent": 0.91}
	}`))
}

func TestExportJSONIsLossless(t *testing.T) {
	uc := NewExportUseCase(&fakeRenderer{})
	uc.now = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }

	file, err := uc.ExportJSON(exportSummary(t))
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	if file.Name != "summary-data-2024-03-05.json" {
		t.Fatalf("file name = %q", file.Name)
	}
	if file.ContentType != "application/json" {
		t.Fatalf("content type = %q", file.ContentType)
	}

	// Unrecognized fields survive the round trip untouched.
	var decoded map[string]any
	if err := json.Unmarshal(file.Data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if _, ok := decoded["internal_scores"]; !ok {
		t.Fatalf("unrecognized field dropped from export: %v", decoded)
	}
}

func TestExportJSONEmptySummary(t *testing.T) {
	uc := NewExportUseCase(&fakeRenderer{})
	var empty domain.Summary
	if _, err := uc.ExportJSON(empty); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestExportPDFForceExpandsEverything(t *testing.T) {
	renderer := &fakeRenderer{data: []byte("%PDF-1.4 fake")}
	uc := NewExportUseCase(renderer)
	uc.now = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }

	file, err := uc.ExportPDF(exportSummary(t))
	if err != nil {
		t.Fatalf("ExportPDF() error = %v", err)
	}
	if file.Name != "conversation-summary-2024-03-05.pdf" {
		t.Fatalf("file name = %q", file.Name)
	}
	if !strings.HasPrefix(string(file.Data), "%PDF") {
		t.Fatalf("pdf bytes = %q", file.Data)
	}

	if len(renderer.doc.Sections) < 3 {
		t.Fatalf("document sections = %d, want conversation plus requirements", len(renderer.doc.Sections))
	}
	if renderer.doc.Sections[0].Heading != "Overview" {
		t.Fatalf("first heading = %q", renderer.doc.Sections[0].Heading)
	}
	// Collapsed-by-default sections must still carry content.
	if len(renderer.doc.Sections[1].Lines) == 0 {
		t.Fatalf("second section rendered empty: %+v", renderer.doc.Sections[1])
	}
}

func TestExportPDFRendererFailure(t *testing.T) {
	uc := NewExportUseCase(&fakeRenderer{err: errors.New("font missing")})
	if _, err := uc.ExportPDF(exportSummary(t)); !domain.IsKind(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestBuildExportDocumentIncludesTasks(t *testing.T) {
	summary := domain.NewSummary([]byte(`{
		"conversation_summary": {"overview": "text"},
		"tasks_and_actionables": {"tasks": [{"type":"follow_up","description":"call back","status":"pending"}]}
	}`))

	doc := BuildExportDocument(summary, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))
	if doc.GeneratedAt != "5 Mar 2024, 09:00" {
		t.Fatalf("generated at = %q", doc.GeneratedAt)
	}
	last := doc.Sections[len(doc.Sections)-1]
	if last.Heading != "Tasks And Actionables" {
		t.Fatalf("last heading = %q", last.Heading)
	}
	if len(last.Lines) != 1 || !strings.Contains(last.Lines[0], "call back") {
		t.Fatalf("task lines = %v", last.Lines)
	}
}
