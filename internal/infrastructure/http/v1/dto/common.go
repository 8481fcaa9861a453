// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strings"
	"time"

	"edumaster/internal/core/apperror"
)

// DateLayout is the wire format of admission and joining dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in DateLayout, RFC 3339 is accepted too.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.NewValidation("invalid date").
		WithDetail("field", field).
		WithDetail("value", value).
		WithDetail("layout", DateLayout)
}

// ErrorResponse is the body written by middleware.ErrorHandler.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
