package usecase

import (
	"sort"

	"github.com/leadops/lead-console/internal/core/domain"
)

const truncatedMessageLimit = 6

// DayGroup is one calendar day's worth of chat messages, original order
// preserved.
type DayGroup struct {
	Key      string                   `json:"key"`
	Label    string                   `json:"label"`
	Messages []domain.WhatsAppMessage `json:"messages"`
}

// GroupMessagesByDay partitions messages into local calendar days. Every
// message lands in exactly one group, relative order inside a group follows
// the input, and groups come back ascending by date.
func GroupMessagesByDay(messages []domain.WhatsAppMessage) []DayGroup {
	buckets := make(map[string]*DayGroup)
	var keys []string

	for _, message := range messages {
		day := domain.ParseTimestamp(message.Timestamp).Local()
		key := day.Format("2006-01-02")
		group, ok := buckets[key]
		if !ok {
			group = &DayGroup{
				Key:   key,
				Label: day.Format("2 Jan"),
			}
			buckets[key] = group
			keys = append(keys, key)
		}
		group.Messages = append(group.Messages, message)
	}

	sort.Strings(keys)
	groups := make([]DayGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, *buckets[key])
	}
	return groups
}

// DaySummary is the chip row above the full message list.
type DaySummary struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MessageView is the rendered message list of one WhatsApp pack: either the
// truncated head of the conversation or the full list, optionally narrowed to
// a single selected day.
type MessageView struct {
	Total        int                      `json:"total"`
	AgentCount   int                      `json:"agent_count"`
	StudentCount int                      `json:"student_count"`
	DayCount     int                      `json:"day_count"`
	Days         []DaySummary             `json:"days,omitempty"`
	SelectedDay  string                   `json:"selected_day,omitempty"`
	Messages     []domain.WhatsAppMessage `json:"messages"`
	HiddenCount  int                      `json:"hidden_count,omitempty"`
}

// BuildMessageView renders a pack's messages. showAll false yields the first
// six messages in original order; showAll true yields everything, filtered to
// selectedDay when it names an existing group.
func BuildMessageView(messages []domain.WhatsAppMessage, showAll bool, selectedDay string) MessageView {
	groups := GroupMessagesByDay(messages)

	view := MessageView{
		Total:    len(messages),
		DayCount: len(groups),
	}
	for _, message := range messages {
		switch message.SenderType {
		case "agent":
			view.AgentCount++
		case "student":
			view.StudentCount++
		}
	}

	if !showAll {
		view.Messages = messages
		if len(messages) > truncatedMessageLimit {
			view.Messages = messages[:truncatedMessageLimit]
			view.HiddenCount = len(messages) - truncatedMessageLimit
		}
		return view
	}

	for _, group := range groups {
		view.Days = append(view.Days, DaySummary{
			Key:   group.Key,
			Label: group.Label,
			Count: len(group.Messages),
		})
		if group.Key == selectedDay {
			view.SelectedDay = selectedDay
			view.Messages = group.Messages
		}
	}
	if view.SelectedDay == "" {
		view.Messages = messages
	}
	return view
}
