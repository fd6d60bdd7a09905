package errors

import (
	"strings"
	"time"
	"unicode"
)

// MaxNameLength is the longest accepted display name in runes.
const MaxNameLength = 256

// ValidateDisplayName validates a person's display name for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Uniqueness is not checked here; the store reports duplicates as CONFLICT.
func ValidateDisplayName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", field)
	}

	if len([]rune(name)) > MaxNameLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}

	return nil
}

// ValidateBirthDate rejects birth dates after now.
// A nil date is valid. The clock is passed in because this check depends on
// wall-clock time and therefore lives at the boundary, not in the store.
func ValidateBirthDate(birth *time.Time, now time.Time) error {
	if birth == nil {
		return nil
	}
	if birth.After(now) {
		return New(ErrCodeInvalidInput, "birth date %s is in the future", birth.Format(time.DateOnly))
	}
	return nil
}

// ValidateBirthOrder reports whether parent is strictly older than child when
// both birth dates are known.
func ValidateBirthOrder(childID, parentID string, child, parent *time.Time) error {
	if child == nil || parent == nil {
		return nil
	}
	if !parent.Before(*child) {
		return Relationship(RuleBirthOrder, childID, []string{parentID},
			"parent born %s is not older than child born %s",
			parent.Format(time.DateOnly), child.Format(time.DateOnly))
	}
	return nil
}
