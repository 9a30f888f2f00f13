package usecase

import (
	"fmt"
	"strconv"

	"github.com/leadops/lead-console/internal/core/domain"
)

// TimelineItemView is the display form of one timeline event: a collapsed
// one-liner plus optional expanded detail. Transcripts are joined in from the
// session's transcript map at build time.
type TimelineItemView struct {
	Key         string           `json:"key"`
	Type        domain.EventKind `json:"type"`
	Title       string           `json:"title"`
	Subtitle    string           `json:"subtitle,omitempty"`
	Badge       string           `json:"badge,omitempty"`
	TimeDisplay string           `json:"time_display"`
	Expanded    bool             `json:"expanded"`
	Details     []FieldRow       `json:"details,omitempty"`
	Body        string           `json:"body,omitempty"`
	RecordURL   string           `json:"record_url,omitempty"`
	Transcript  string           `json:"transcript,omitempty"`
}

// FieldRow is one label/value pair of an expanded detail grid.
type FieldRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TimelineView is the rendered timeline plus the transcription batch state
// that is displayed alongside it.
type TimelineView struct {
	EventCount       int                `json:"event_count"`
	Items            []TimelineItemView `json:"items"`
	Transcribing     bool               `json:"transcribing"`
	Progress         int                `json:"progress"`
	TranscribeErrors []string           `json:"transcribe_errors,omitempty"`
}

// ExpandState answers whether a display key is currently expanded, either by
// the operator or by a forced-expand flag.
type ExpandState func(key string) bool

// BuildTimelineView maps every event to its view through an exhaustive switch
// on the variant. Missing optional fields degrade instead of failing: a pack
// without message_count counts its messages, a call without a parsable
// duration shows 0:00.
func BuildTimelineView(
	events []domain.TimelineEvent,
	expanded ExpandState,
	transcripts map[string]string,
) []TimelineItemView {
	items := make([]TimelineItemView, 0, len(events))
	for position, event := range events {
		key := domain.DisplayKey(event, position)
		item := TimelineItemView{
			Key:      key,
			Type:     event.Kind,
			Expanded: expanded(key),
		}

		switch event.Kind {
		case domain.EventWhatsAppPack:
			pack := event.WhatsAppPack
			item.Title = "WhatsApp Session"
			item.Badge = fmt.Sprintf("%d messages", packMessageCount(pack))
			item.TimeDisplay = fmt.Sprintf("%s - %s", formatDate(pack.StartTimestamp), formatDate(pack.EndTimestamp))
		case domain.EventCall:
			call := event.Call
			item.Title = "Phone Call"
			item.Badge = FormatDuration(call.Duration)
			item.TimeDisplay = formatDate(call.Timestamp)
			item.RecordURL = call.RecordURL
			item.Transcript = transcripts[key]
			if item.Expanded {
				item.Details = []FieldRow{
					{Label: "From", Value: call.FromNumber},
					{Label: "To", Value: call.ToNumber},
					{Label: "Duration", Value: FormatDuration(call.Duration)},
					{Label: "Source", Value: call.Source},
					{Label: "Call ID", Value: call.ID},
					{Label: "Full Timestamp", Value: formatFullDate(call.Timestamp)},
				}
			}
		case domain.EventEmail:
			email := event.Email
			item.Title = "Email"
			item.Subtitle = email.Subject
			item.Badge = emailDirectionBadge(email.Direction)
			item.TimeDisplay = formatDate(email.Timestamp)
			if item.Expanded {
				item.Details = []FieldRow{
					{Label: "From", Value: email.SenderEmail},
					{Label: "To", Value: email.RecipientEmail},
					{Label: "Subject", Value: email.Subject},
					{Label: "Type", Value: email.SenderType},
					{Label: "Direction", Value: email.Direction},
					{Label: "Full Timestamp", Value: formatFullDate(email.Timestamp)},
				}
				item.Body = email.Message
			}
		case domain.EventLeadInfo:
			lead := event.LeadInfo
			item.Title = "Lead Information"
			item.Subtitle = lead.UserName
			item.TimeDisplay = formatDate(lead.Timestamp)
			if item.Expanded {
				item.Details = []FieldRow{
					{Label: "Name", Value: lead.UserName},
					{Label: "Email", Value: lead.Email},
					{Label: "Phone", Value: lead.Phone},
					{Label: "University", Value: lead.University},
					{Label: "Move-in Date", Value: lead.MoveInDate},
					{Label: "Budget", Value: lead.Budget},
					{Label: "Lead ID", Value: lead.LeadID},
				}
			}
		case domain.EventOther:
			item.Title = event.Other.Type
			item.TimeDisplay = formatDate(event.Other.Timestamp)
		}

		items = append(items, item)
	}
	return items
}

func packMessageCount(pack *domain.WhatsAppPack) int {
	if pack.MessageCount > 0 {
		return pack.MessageCount
	}
	return len(pack.Messages)
}

func emailDirectionBadge(direction string) string {
	if direction == "inbound" {
		return "Inbound"
	}
	return "Outbound"
}

// FormatDuration renders a whole-second duration string as M:SS, seconds
// zero-padded, minutes not. Anything unparsable renders as 0:00.
func FormatDuration(seconds string) string {
	total, err := strconv.Atoi(seconds)
	if err != nil || total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func formatDate(timestamp string) string {
	t := domain.ParseTimestamp(timestamp)
	if t.IsZero() {
		return timestamp
	}
	return t.Local().Format("2 Jan 2006, 15:04")
}

func formatFullDate(timestamp string) string {
	t := domain.ParseTimestamp(timestamp)
	if t.IsZero() {
		return timestamp
	}
	return t.Local().Format("Monday, 2 January 2006 15:04:05")
}

// PackByKey resolves a whatsapp pack by display key so message views address
// the same item the timeline renders.
func PackByKey(events []domain.TimelineEvent, key string) (*domain.WhatsAppPack, bool) {
	for position, event := range events {
		if event.Kind == domain.EventWhatsAppPack && domain.DisplayKey(event, position) == key {
			return event.WhatsAppPack, true
		}
	}
	return nil, false
}

// CallByKey resolves a call event by display key.
func CallByKey(events []domain.TimelineEvent, key string) (*domain.CallEvent, bool) {
	for position, event := range events {
		if event.Kind == domain.EventCall && domain.DisplayKey(event, position) == key {
			return event.Call, true
		}
	}
	return nil, false
}
