package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Summary is the open-ended record the summary service returns. The raw bytes
// are kept verbatim so exports round-trip losslessly; typed views below are
// decoded on demand with presence checks only, never shape validation.
type Summary struct {
	raw json.RawMessage
}

func NewSummary(raw []byte) Summary {
	buf := make(json.RawMessage, len(raw))
	copy(buf, raw)
	return Summary{raw: buf}
}

func (s *Summary) UnmarshalJSON(data []byte) error {
	s.raw = make(json.RawMessage, len(data))
	copy(s.raw, data)
	return nil
}

func (s Summary) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// Raw returns the verbatim summary bytes.
func (s Summary) Raw() json.RawMessage {
	return s.raw
}

func (s Summary) Empty() bool {
	return len(s.raw) == 0
}

// Field decodes one top-level field into out, reporting whether it exists.
func (s Summary) Field(name string, out any) (bool, error) {
	raw, ok := s.rawField(name)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode summary field %q: %w", name, err)
	}
	return true, nil
}

func (s Summary) rawField(name string) (json.RawMessage, bool) {
	if len(s.raw) == 0 {
		return nil, false
	}
	var object map[string]json.RawMessage
	if err := json.Unmarshal(s.raw, &object); err != nil {
		return nil, false
	}
	raw, ok := object[name]
	return raw, ok
}

// SectionKV is one key of a JSON object with its undecoded value, in the
// object's own order. encoding/json maps lose order, and section order is
// part of the display contract.
type SectionKV struct {
	Key string
	Raw json.RawMessage
}

// OrderedFields walks a JSON object and returns its fields in document order.
func OrderedFields(raw json.RawMessage) ([]SectionKV, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	open, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if delim, ok := open.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode object: not a JSON object")
	}

	var fields []SectionKV
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode object key: %w", err)
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("decode object key: unexpected token %v", keyToken)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode object value for %q: %w", key, err)
		}
		fields = append(fields, SectionKV{Key: key, Raw: value})
	}
	return fields, nil
}

// ConversationSections resolves the structured conversation summary in
// document order. The service has shipped it both directly under
// conversation_summary and double nested; both are accepted, and an inner
// "sections" wrapper is unwrapped when present.
func (s Summary) ConversationSections() ([]SectionKV, bool) {
	raw, ok := s.rawField("conversation_summary")
	if !ok {
		return nil, false
	}

	for unwrapped := true; unwrapped; {
		unwrapped = false
		fields, err := OrderedFields(raw)
		if err != nil {
			return nil, false
		}
		for _, field := range fields {
			if field.Key == "conversation_summary" || field.Key == "sections" {
				raw = field.Raw
				unwrapped = true
				break
			}
		}
	}

	fields, err := OrderedFields(raw)
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	return fields, true
}

// MarkdownSummary returns the freeform markdown fallback when the summary
// carries one instead of structured sections.
func (s Summary) MarkdownSummary() (string, bool) {
	var markdown string
	if ok, err := s.Field("markdown", &markdown); err == nil && ok && markdown != "" {
		return markdown, true
	}
	if raw, ok := s.rawField("conversation_summary"); ok {
		if err := json.Unmarshal(raw, &markdown); err == nil && markdown != "" {
			return markdown, true
		}
	}
	return "", false
}

// TaskStatus values carry dedicated badges; anything else renders neutrally.
type TaskStatus string

const (
	TaskCompleted  TaskStatus = "completed"
	TaskInProgress TaskStatus = "in_progress"
	TaskPending    TaskStatus = "pending"
	TaskOther      TaskStatus = "other"
)

func NormalizeTaskStatus(raw string) TaskStatus {
	switch TaskStatus(raw) {
	case TaskCompleted, TaskInProgress, TaskPending:
		return TaskStatus(raw)
	default:
		return TaskOther
	}
}

// Task is one row of the tasks_and_actionables view.
type Task struct {
	Type            string `json:"type"`
	Description     string `json:"description"`
	Due             string `json:"due,omitempty"`
	Status          string `json:"status"`
	TaskFor         string `json:"task_for,omitempty"`
	SourceReference string `json:"source_reference,omitempty"`
}

type TasksAndActionables struct {
	Tasks             []Task `json:"tasks"`
	LastAgentResponse string `json:"last_agent_response,omitempty"`
	SuggestedNextStep string `json:"suggested_next_step,omitempty"`
}
