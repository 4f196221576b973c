// Package validation holds the field-level validators shared by every resource
// service. Each validator takes the raw (possibly absent) value, a required
// flag, and field-specific constraints, and returns the sanitized value or a
// ValidationError. Services validate every field before touching the database.
package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
)

// Name validates a required-capable name field: trimmed, non-empty, bounded.
// Returns the trimmed value. A nil value with required=false yields ("", nil)
// with ok=false so callers can skip absent optional fields.
func Name(field string, value *string, required bool, maxLen int) (string, bool, error) {
	if value == nil {
		if required {
			return "", false, apperrors.Validation("%s is required", field)
		}
		return "", false, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return "", false, apperrors.Validation("%s cannot be empty", field)
	}
	// limits are in characters, not bytes
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", false, apperrors.Validation("%s cannot exceed %d characters", field, maxLen)
	}
	return trimmed, true, nil
}

// Text validates an optional free-text field. Trimmed; an empty string
// collapses to absent (ok=false).
func Text(field string, value *string, maxLen int) (string, bool, error) {
	if value == nil {
		return "", false, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return "", false, nil
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", false, apperrors.Validation("%s cannot exceed %d characters", field, maxLen)
	}
	return trimmed, true, nil
}

// Email validates an email address field: trimmed, parseable, bounded.
func Email(field string, value *string, required bool, maxLen int) (string, bool, error) {
	trimmed, ok, err := Name(field, value, required, maxLen)
	if err != nil || !ok {
		return "", ok, err
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", false, apperrors.Validation("%s must be a valid email address", field)
	}
	return trimmed, true, nil
}

// Attribute validates one of the six base attributes, constrained to [1,20].
func Attribute(field string, value *int, required bool) (int, bool, error) {
	return IntInRange(field, value, required, 1, 20)
}

// ResourceStat validates health/stamina/mana, which must be at least 1.
func ResourceStat(field string, value *int, required bool) (int, bool, error) {
	return IntMin(field, value, required, 1)
}

// IntMin validates an integer field with a lower bound only.
func IntMin(field string, value *int, required bool, min int) (int, bool, error) {
	if value == nil {
		if required {
			return 0, false, apperrors.Validation("%s is required", field)
		}
		return 0, false, nil
	}
	if *value < min {
		return 0, false, apperrors.Validation("%s must be at least %d", field, min)
	}
	return *value, true, nil
}

// IntInRange validates an integer field against an inclusive range.
func IntInRange(field string, value *int, required bool, min, max int) (int, bool, error) {
	if value == nil {
		if required {
			return 0, false, apperrors.Validation("%s is required", field)
		}
		return 0, false, nil
	}
	if *value < min || *value > max {
		return 0, false, apperrors.Validation("%s must be between %d and %d", field, min, max)
	}
	return *value, true, nil
}

// ID validates a positive-integer identifier or foreign key.
func ID(field string, value *uint, required bool) (uint, bool, error) {
	if value == nil {
		if required {
			return 0, false, apperrors.Validation("%s is required", field)
		}
		return 0, false, nil
	}
	if *value == 0 {
		return 0, false, apperrors.Validation("%s must be a positive integer", field)
	}
	return *value, true, nil
}

// RequireID validates a path/payload id that must always be present.
func RequireID(field string, value uint) error {
	if value == 0 {
		return apperrors.Validation("%s must be a positive integer", field)
	}
	return nil
}
