package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidEventID     = errors.New("invalid_event_id")
	ErrInvalidPricingType = errors.New("invalid_pricing_type")
	ErrInvalidAgeCategory = errors.New("invalid_age_category")
	ErrInvalidAttendees   = errors.New("invalid_attendee_count")
	ErrNoApplicablePrice  = errors.New("no_applicable_price")
	ErrNotFound           = errors.New("not_found")
)

// FieldError is a single save-time validation failure. Field names the
// offending input ("group_tiers[1]", "dual.child_price") so a UI can highlight it.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (v *ValidationErrors) Error() string {
	codes := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		codes = append(codes, e.Code)
	}
	return "pricing validation failed: " + strings.Join(codes, ",")
}
