package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventKind string

const (
	EventWhatsAppPack EventKind = "whatsapp_pack"
	EventCall         EventKind = "call"
	EventEmail        EventKind = "email"
	EventLeadInfo     EventKind = "lead_info"
	EventOther        EventKind = "other"
)

// TimelineEvent is a tagged union over the event shapes the timeline service
// returns. Exactly one variant pointer is non-nil; Kind names it. Events are
// immutable after decoding; transcripts live in a separate per-session map and
// are joined at render time.
type TimelineEvent struct {
	Kind EventKind

	WhatsAppPack *WhatsAppPack
	Call         *CallEvent
	Email        *EmailEvent
	LeadInfo     *LeadInfoEvent
	Other        *OtherEvent
}

// WhatsAppPack bundles the WhatsApp messages of one session window into a
// single timeline event.
type WhatsAppPack struct {
	StartTimestamp string            `json:"start_timestamp"`
	EndTimestamp   string            `json:"end_timestamp"`
	MessageCount   int               `json:"message_count,omitempty"`
	Messages       []WhatsAppMessage `json:"messages"`
}

type WhatsAppMessage struct {
	Timestamp      string `json:"timestamp"`
	FromNumber     string `json:"from_number"`
	ToNumber       string `json:"to_number"`
	MessageContent string `json:"message_content"`
	SenderType     string `json:"sender_type"`
}

type CallEvent struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	Duration   string `json:"duration"`
	ToNumber   string `json:"to_number"`
	FromNumber string `json:"from_number"`
	Source     string `json:"source"`
	RecordURL  string `json:"record_url,omitempty"`
}

type EmailEvent struct {
	Timestamp      string `json:"timestamp"`
	SenderEmail    string `json:"sender_email"`
	RecipientEmail string `json:"recipient_email"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	Snippet        string `json:"snippet,omitempty"`
	Direction      string `json:"direction"`
	SenderType     string `json:"sender_type"`
}

type LeadInfoEvent struct {
	Timestamp  string `json:"timestamp"`
	LeadID     string `json:"lead_id"`
	UserName   string `json:"user_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	University string `json:"university,omitempty"`
	MoveInDate string `json:"move_in_date,omitempty"`
	Budget     string `json:"budget,omitempty"`
}

// OtherEvent keeps an event with an unrecognized type tag displayable instead
// of dropping it.
type OtherEvent struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

type eventEnvelope struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

func (e *TimelineEvent) UnmarshalJSON(data []byte) error {
	var envelope eventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decode timeline event envelope: %w", err)
	}

	switch EventKind(envelope.Type) {
	case EventWhatsAppPack:
		var pack WhatsAppPack
		if err := json.Unmarshal(data, &pack); err != nil {
			return fmt.Errorf("decode whatsapp pack: %w", err)
		}
		*e = TimelineEvent{Kind: EventWhatsAppPack, WhatsAppPack: &pack}
	case EventCall:
		var call CallEvent
		if err := json.Unmarshal(data, &call); err != nil {
			return fmt.Errorf("decode call event: %w", err)
		}
		*e = TimelineEvent{Kind: EventCall, Call: &call}
	case EventEmail:
		var email EmailEvent
		if err := json.Unmarshal(data, &email); err != nil {
			return fmt.Errorf("decode email event: %w", err)
		}
		*e = TimelineEvent{Kind: EventEmail, Email: &email}
	case EventLeadInfo:
		var lead LeadInfoEvent
		if err := json.Unmarshal(data, &lead); err != nil {
			return fmt.Errorf("decode lead info event: %w", err)
		}
		*e = TimelineEvent{Kind: EventLeadInfo, LeadInfo: &lead}
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		*e = TimelineEvent{Kind: EventOther, Other: &OtherEvent{
			Type:      envelope.Type,
			Timestamp: envelope.Timestamp,
			Raw:       raw,
		}}
	}
	return nil
}

func (e TimelineEvent) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EventWhatsAppPack:
		return marshalTagged(string(EventWhatsAppPack), e.WhatsAppPack)
	case EventCall:
		return marshalTagged(string(EventCall), e.Call)
	case EventEmail:
		return marshalTagged(string(EventEmail), e.Email)
	case EventLeadInfo:
		return marshalTagged(string(EventLeadInfo), e.LeadInfo)
	case EventOther:
		if e.Other != nil && len(e.Other.Raw) > 0 {
			return e.Other.Raw, nil
		}
		return marshalTagged(e.Other.Type, struct{}{})
	default:
		return nil, fmt.Errorf("marshal timeline event: unknown kind %q", e.Kind)
	}
}

func marshalTagged(tag string, variant any) ([]byte, error) {
	body, err := json.Marshal(variant)
	if err != nil {
		return nil, err
	}
	tagged := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &tagged); err != nil {
		return nil, err
	}
	tagged["type"], _ = json.Marshal(tag)
	return json.Marshal(tagged)
}

// Timestamp returns the event's display timestamp: the start of the window
// for WhatsApp packs, the single timestamp otherwise.
func (e TimelineEvent) Timestamp() string {
	switch e.Kind {
	case EventWhatsAppPack:
		return e.WhatsAppPack.StartTimestamp
	case EventCall:
		return e.Call.Timestamp
	case EventEmail:
		return e.Email.Timestamp
	case EventLeadInfo:
		return e.LeadInfo.Timestamp
	case EventOther:
		return e.Other.Timestamp
	default:
		return ""
	}
}

// Identifier returns the event's own id when the variant carries one. No id
// is guaranteed present on any variant.
func (e TimelineEvent) Identifier() string {
	switch e.Kind {
	case EventCall:
		return e.Call.ID
	case EventLeadInfo:
		return e.LeadInfo.LeadID
	default:
		return ""
	}
}

// DecodeTimeline parses the timeline service response body.
func DecodeTimeline(data []byte) ([]TimelineEvent, error) {
	var events []TimelineEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	return events, nil
}

// timestampLayouts are tried in order when parsing upstream timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an upstream ISO-ish timestamp. The zero time is
// returned when no layout matches.
func ParseTimestamp(value string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
