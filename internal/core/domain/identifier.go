package domain

import (
	"errors"
	"regexp"
	"strings"
)

type IdentifierKind string

const (
	IdentifierEmail IdentifierKind = "email"
	IdentifierPhone IdentifierKind = "phone"
)

// Identifier is a syntactically valid lead lookup key: an email address or a
// phone number with an optional leading plus and 10-15 digits.
type Identifier struct {
	Kind  IdentifierKind `json:"kind"`
	Value string         `json:"value"`
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// ParseIdentifier classifies raw input as email or phone and gates it
// syntactically. The presence of '@' decides the branch; no normalization is
// applied beyond the emptiness check.
func ParseIdentifier(raw string) (Identifier, error) {
	if strings.TrimSpace(raw) == "" {
		return Identifier{}, WrapError(ErrInvalidInput, "parse identifier", errors.New("empty input"))
	}
	if strings.Contains(raw, "@") {
		if !emailPattern.MatchString(raw) {
			return Identifier{}, WrapError(ErrInvalidInput, "parse identifier", errors.New("malformed email address"))
		}
		return Identifier{Kind: IdentifierEmail, Value: raw}, nil
	}
	if !phonePattern.MatchString(raw) {
		return Identifier{}, WrapError(ErrInvalidInput, "parse identifier", errors.New("malformed phone number"))
	}
	return Identifier{Kind: IdentifierPhone, Value: raw}, nil
}

// ValidIdentifier reports whether raw would pass ParseIdentifier.
func ValidIdentifier(raw string) bool {
	_, err := ParseIdentifier(raw)
	return err == nil
}

// QueryParam returns the upstream query parameter name for this identifier
// kind: "email" for emails, "mobile" for phone numbers.
func (id Identifier) QueryParam() string {
	if id.Kind == IdentifierEmail {
		return "email"
	}
	return "mobile"
}
