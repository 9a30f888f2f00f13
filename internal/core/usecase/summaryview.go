package usecase

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/leadops/lead-console/internal/core/domain"
)

const emptySectionFallback = "No specific information available for this section."

// SummarySectionView is one collapsible section of the rendered summary.
type SummarySectionView struct {
	Index   int    `json:"index"`
	Heading string `json:"heading"`
	Content string `json:"content"`
	Open    bool   `json:"open"`
}

// RequirementGroup is one block of the requirements view (user persona,
// accommodation requirements, ...).
type RequirementGroup struct {
	Title string     `json:"title"`
	Rows  []FieldRow `json:"rows"`
}

// TaskView is one task row with its normalized status badge.
type TaskView struct {
	Type            string            `json:"type"`
	Description     string            `json:"description"`
	Due             string            `json:"due,omitempty"`
	TaskFor         string            `json:"task_for,omitempty"`
	SourceReference string            `json:"source_reference,omitempty"`
	Status          string            `json:"status"`
	Badge           domain.TaskStatus `json:"badge"`
}

// SummaryView is the rendered summary: collapsible conversation sections plus
// the optional requirements and tasks panels.
type SummaryView struct {
	HasData           bool                 `json:"has_data"`
	Structured        bool                 `json:"structured"`
	Sections          []SummarySectionView `json:"sections,omitempty"`
	Requirements      []RequirementGroup   `json:"requirements,omitempty"`
	Tasks             []TaskView           `json:"tasks,omitempty"`
	LastAgentResponse string               `json:"last_agent_response,omitempty"`
	SuggestedNextStep string               `json:"suggested_next_step,omitempty"`
}

// SectionOpen answers whether a section index is currently open.
type SectionOpen func(index int) bool

var markdownHeading = regexp.MustCompile(`(?m)^## `)

// BuildSummaryView renders a summary. Structured sections win; a markdown
// body is the fallback. The open callback carries the session's toggle state;
// by default only the first section is open.
func BuildSummaryView(summary domain.Summary, open SectionOpen) SummaryView {
	if summary.Empty() {
		return SummaryView{}
	}
	if open == nil {
		open = func(index int) bool { return index == 0 }
	}

	view := SummaryView{HasData: true}

	if sections, ok := summary.ConversationSections(); ok {
		view.Structured = true
		for i, section := range sections {
			view.Sections = append(view.Sections, SummarySectionView{
				Index:   i,
				Heading: humanizeKey(section.Key),
				Content: sectionContent(section.Raw),
				Open:    open(i),
			})
		}
	} else if markdown, ok := summary.MarkdownSummary(); ok {
		for _, block := range markdownHeading.Split(markdown, -1) {
			block = strings.TrimSpace(block)
			if block == "" {
				continue
			}
			heading, content, _ := strings.Cut(block, "\n")
			index := len(view.Sections)
			view.Sections = append(view.Sections, SummarySectionView{
				Index:   index,
				Heading: strings.TrimSpace(heading),
				Content: strings.TrimSpace(content),
				Open:    open(index),
			})
		}
	}

	view.Requirements = buildRequirements(summary)

	var tasks domain.TasksAndActionables
	if ok, err := summary.Field("tasks_and_actionables", &tasks); err == nil && ok {
		for _, task := range tasks.Tasks {
			view.Tasks = append(view.Tasks, TaskView{
				Type:            humanizeKey(task.Type),
				Description:     task.Description,
				Due:             task.Due,
				TaskFor:         task.TaskFor,
				SourceReference: task.SourceReference,
				Status:          task.Status,
				Badge:           domain.NormalizeTaskStatus(task.Status),
			})
		}
		view.LastAgentResponse = tasks.LastAgentResponse
		view.SuggestedNextStep = tasks.SuggestedNextStep
	}

	return view
}

func buildRequirements(summary domain.Summary) []RequirementGroup {
	var requirements json.RawMessage
	if ok, err := summary.Field("requirements", &requirements); err != nil || !ok {
		return nil
	}
	groups, err := domain.OrderedFields(requirements)
	if err != nil {
		return nil
	}

	var out []RequirementGroup
	for _, group := range groups {
		fields, err := domain.OrderedFields(group.Raw)
		if err != nil {
			continue
		}
		rendered := RequirementGroup{Title: humanizeKey(group.Key)}
		for _, field := range fields {
			var value any
			if err := json.Unmarshal(field.Raw, &value); err != nil {
				continue
			}
			rendered.Rows = append(rendered.Rows, FieldRow{
				Label: humanizeKey(field.Key),
				Value: FormatValue(field.Key, value),
			})
		}
		out = append(out, rendered)
	}
	return out
}

// sectionContent turns one structured section into readable text. String
// sections pass through; object sections become sentences of "Field: value"
// pairs with unknown/empty entries dropped.
func sectionContent(raw json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return emptySectionFallback
		}
		return asString
	}

	fields, err := domain.OrderedFields(raw)
	if err != nil {
		return emptySectionFallback
	}

	var sentences []string
	for _, field := range fields {
		var value any
		if err := json.Unmarshal(field.Raw, &value); err != nil {
			continue
		}
		if !meaningful(value) {
			continue
		}
		if _, ok := value.(map[string]any); ok {
			pairs := nestedPairs(field.Raw)
			if pairs == "" {
				continue
			}
			sentences = append(sentences, fmt.Sprintf("%s: %s", humanizeKey(field.Key), pairs))
			continue
		}
		sentences = append(sentences, fmt.Sprintf("%s: %s", humanizeKey(field.Key), formatScalar(value)))
	}
	if len(sentences) == 0 {
		return emptySectionFallback
	}
	return strings.Join(sentences, ". ") + "."
}

func nestedPairs(raw json.RawMessage) string {
	fields, err := domain.OrderedFields(raw)
	if err != nil {
		return ""
	}
	var pairs []string
	for _, field := range fields {
		var value any
		if err := json.Unmarshal(field.Raw, &value); err != nil {
			continue
		}
		if !meaningful(value) {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s: %s", humanizeKey(field.Key), formatScalar(value)))
	}
	return strings.Join(pairs, ", ")
}

// meaningful drops nulls, empties and the "not known" placeholder strings the
// summary service emits.
func meaningful(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != "" && v != "Not mentioned" && v != "Unknown"
	default:
		return true
	}
}

// FormatValue renders one structured field value for display. Empties render
// as "None", booleans as Yes/No, arrays comma-joined, and a budget object
// with max and currency as "<max> <currency>".
func FormatValue(key string, value any) string {
	switch v := value.(type) {
	case nil:
		return "None"
	case string:
		if v == "" {
			return "None"
		}
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return formatNumber(v)
	case []any:
		var parts []string
		for _, element := range v {
			part := formatScalar(element)
			if part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			return "None"
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if key == "budget" {
			max, hasMax := v["max"]
			currency, hasCurrency := v["currency"]
			if hasMax && hasCurrency && meaningful(max) && meaningful(currency) {
				return fmt.Sprintf("%s %s", formatScalar(max), formatScalar(currency))
			}
		}
		pairs := sortedPairs(v)
		if len(pairs) == 0 {
			return "None"
		}
		return strings.Join(pairs, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sortedPairs(object map[string]any) []string {
	// Decoded maps have lost document order; fall back to a stable key sort
	// so repeated renders agree.
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var pairs []string
	for _, key := range keys {
		value := object[key]
		if !meaningful(value) {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s: %s", humanizeKey(key), formatScalar(value)))
	}
	return pairs
}

func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return formatNumber(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func humanizeKey(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
