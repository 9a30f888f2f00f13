package usecase

import (
	"strings"
	"testing"

	"github.com/leadops/lead-console/internal/core/domain"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value any
		want  string
	}{
		{"nil", "field", nil, "None"},
		{"empty string", "field", "", "None"},
		{"string", "field", "Leeds", "Leeds"},
		{"true", "field", true, "Yes"},
		{"false", "field", false, "No"},
		{"number", "field", float64(3), "3"},
		{"array", "field", []any{"pool", "gym"}, "pool, gym"},
		{"empty array", "field", []any{}, "None"},
		{"budget", "budget", map[string]any{"min": float64(100), "max": float64(250), "currency": "GBP"}, "250 GBP"},
		{"plain object", "field", map[string]any{"city": "Leeds"}, "City: Leeds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatValue(tc.key, tc.value); got != tc.want {
				t.Fatalf("FormatValue(%q, %v) = %q, want %q", tc.key, tc.value, got, tc.want)
			}
		})
	}
}

func TestBuildSummaryViewStructuredSections(t *testing.T) {
	summary := domain.NewSummary([]byte(`{
		"conversation_summary": {
			"overview": "Asha is moving to Leeds.",
			"preferences": {"room_type": "studio", "pets": "Not mentioned"},
			"next_steps": "Send contract."
		}
	}`))

	view := BuildSummaryView(summary, nil)
	if !view.HasData || !view.Structured {
		t.Fatalf("view flags = %+v", view)
	}
	if len(view.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(view.Sections))
	}
	if view.Sections[0].Heading != "Overview" || view.Sections[2].Heading != "Next Steps" {
		t.Fatalf("headings = %q, %q", view.Sections[0].Heading, view.Sections[2].Heading)
	}
	if !view.Sections[0].Open || view.Sections[1].Open || view.Sections[2].Open {
		t.Fatalf("default open state wrong: %+v", view.Sections)
	}
	if view.Sections[1].Content != "Room Type: studio." {
		t.Fatalf("object section content = %q", view.Sections[1].Content)
	}
}

func TestBuildSummaryViewMarkdownFallback(t *testing.T) {
	summary := domain.NewSummary([]byte(`{"markdown":"## Overview\nAll good.\n## Next Steps\nCall tomorrow."}`))

	view := BuildSummaryView(summary, nil)
	if view.Structured {
		t.Fatalf("markdown summary flagged structured")
	}
	if len(view.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(view.Sections))
	}
	if view.Sections[0].Heading != "Overview" || view.Sections[0].Content != "All good." {
		t.Fatalf("first section = %+v", view.Sections[0])
	}
	if view.Sections[1].Heading != "Next Steps" {
		t.Fatalf("second heading = %q", view.Sections[1].Heading)
	}
}

func TestBuildSummaryViewHonorsOpenState(t *testing.T) {
	summary := domain.NewSummary([]byte(`{"conversation_summary":{"a":"x","b":"y"}}`))

	view := BuildSummaryView(summary, func(index int) bool { return index == 1 })
	if view.Sections[0].Open || !view.Sections[1].Open {
		t.Fatalf("open state not applied: %+v", view.Sections)
	}
}

func TestBuildSummaryViewEmptySectionFallback(t *testing.T) {
	summary := domain.NewSummary([]byte(`{"conversation_summary":{"sparse":{"a":"Not mentioned","b":null}}}`))

	view := BuildSummaryView(summary, nil)
	if view.Sections[0].Content != emptySectionFallback {
		t.Fatalf("sparse section content = %q", view.Sections[0].Content)
	}
}

func TestBuildSummaryViewRequirements(t *testing.T) {
	summary := domain.NewSummary([]byte(`{
		"conversation_summary": {"overview": "text"},
		"requirements": {
			"user_persona": {"name": "Asha", "is_student": true},
			"accommodation_requirements": {
				"budget": {"max": 250, "currency": "GBP"},
				"amenities": ["pool", "gym"]
			}
		}
	}`))

	view := BuildSummaryView(summary, nil)
	if len(view.Requirements) != 2 {
		t.Fatalf("requirement groups = %d", len(view.Requirements))
	}
	persona := view.Requirements[0]
	if persona.Title != "User Persona" {
		t.Fatalf("group title = %q", persona.Title)
	}
	if persona.Rows[0].Label != "Name" || persona.Rows[0].Value != "Asha" {
		t.Fatalf("persona row = %+v", persona.Rows[0])
	}
	if persona.Rows[1].Value != "Yes" {
		t.Fatalf("bool row = %+v", persona.Rows[1])
	}

	accommodation := view.Requirements[1]
	if accommodation.Rows[0].Label != "Budget" || accommodation.Rows[0].Value != "250 GBP" {
		t.Fatalf("budget row = %+v", accommodation.Rows[0])
	}
	if accommodation.Rows[1].Value != "pool, gym" {
		t.Fatalf("amenities row = %+v", accommodation.Rows[1])
	}
}

func TestBuildSummaryViewTasks(t *testing.T) {
	summary := domain.NewSummary([]byte(`{
		"conversation_summary": {"overview": "text"},
		"tasks_and_actionables": {
			"tasks": [
				{"type":"follow_up","description":"call back","status":"pending","due":"2024-03-05"},
				{"type":"send_docs","description":"contract","status":"weird"}
			],
			"last_agent_response": "Spoke on Friday.",
			"suggested_next_step": "Confirm move-in date."
		}
	}`))

	view := BuildSummaryView(summary, nil)
	if len(view.Tasks) != 2 {
		t.Fatalf("tasks = %d", len(view.Tasks))
	}
	if view.Tasks[0].Badge != domain.TaskPending || view.Tasks[0].Type != "Follow Up" {
		t.Fatalf("first task = %+v", view.Tasks[0])
	}
	if view.Tasks[1].Badge != domain.TaskOther {
		t.Fatalf("unknown status badge = %s", view.Tasks[1].Badge)
	}
	if view.LastAgentResponse == "" || view.SuggestedNextStep == "" {
		t.Fatalf("agent context missing: %+v", view)
	}
}

func TestBuildSummaryViewEmpty(t *testing.T) {
	var summary domain.Summary
	view := BuildSummaryView(summary, nil)
	if view.HasData || len(view.Sections) != 0 {
		t.Fatalf("empty summary produced a view: %+v", view)
	}
}

func TestHumanizeKey(t *testing.T) {
	if got := humanizeKey("accommodation_requirements"); got != "Accommodation Requirements" {
		t.Fatalf("humanizeKey = %q", got)
	}
	if got := humanizeKey("overview"); got != "Overview" {
		t.Fatalf("humanizeKey = %q", got)
	}
}

func TestSectionContentDropsPlaceholders(t *testing.T) {
	content := sectionContent([]byte(`{"city":"Leeds","university":"Unknown","notes":""}`))
	if strings.Contains(content, "Unknown") || strings.Contains(content, "Notes") {
		t.Fatalf("placeholder leaked into content: %q", content)
	}
	if content != "City: Leeds." {
		t.Fatalf("content = %q", content)
	}
}
