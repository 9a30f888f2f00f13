package domain

import (
	"fmt"
	"time"
)

type UploadCategory string

const (
	UploadLeads    UploadCategory = "leads"
	UploadWhatsApp UploadCategory = "whatsapp"
	UploadEmails   UploadCategory = "emails"
	UploadCalls    UploadCategory = "calls"
	UploadOther    UploadCategory = "other"
)

// UploadCategories lists the five fixed upload slots in display order.
var UploadCategories = []UploadCategory{
	UploadLeads,
	UploadWhatsApp,
	UploadEmails,
	UploadCalls,
	UploadOther,
}

func ParseUploadCategory(raw string) (UploadCategory, error) {
	for _, category := range UploadCategories {
		if raw == string(category) {
			return category, nil
		}
	}
	return "", WrapError(ErrInvalidInput, "parse upload category", fmt.Errorf("unknown category %q", raw))
}

// UploadedFile records metadata for one uploaded file. Contents are never
// parsed; a re-upload replaces the slot wholesale.
type UploadedFile struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}
