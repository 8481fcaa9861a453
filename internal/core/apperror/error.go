// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All allocation and enrollment errors use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal         = "INTERNAL_ERROR"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Data quality / business rule violations (422)
	CodeMalformedPriorRecord = "MALFORMED_PRIOR_RECORD"
	CodePartitionExhausted   = "PARTITION_EXHAUSTED"

	// Conflict (409)
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (partition, identifier, width)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewStoreUnavailable is returned when the record store lookup or the
// counter reservation could not complete. Allocation is aborted.
func NewStoreUnavailable(err error) *AppError {
	return &AppError{
		Code:       CodeStoreUnavailable,
		Message:    "Record store is unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewMalformedPriorRecord describes a stored identifier whose sequence
// suffix cannot be parsed.
func NewMalformedPriorRecord(partition, identifier, reason string) *AppError {
	return &AppError{
		Code:       CodeMalformedPriorRecord,
		Message:    fmt.Sprintf("identifier %q has no valid sequence suffix: %s", identifier, reason),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"partition":  partition,
			"identifier": identifier,
			"reason":     reason,
		},
	}
}

// NewPartitionExhausted is returned when the next sequence number does not
// fit the configured display width.
func NewPartitionExhausted(partition string, seq int64, width int) *AppError {
	return &AppError{
		Code:       CodePartitionExhausted,
		Message:    fmt.Sprintf("partition %s exhausted: sequence %d exceeds %d digits", partition, seq, width),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"partition": partition,
			"sequence":  seq,
			"width":     width,
		},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether the error chain carries an AppError with code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsStoreUnavailable checks if error is CodeStoreUnavailable
func IsStoreUnavailable(err error) bool {
	return HasCode(err, CodeStoreUnavailable)
}

// IsDuplicate checks if error is CodeDuplicate
func IsDuplicate(err error) bool {
	return HasCode(err, CodeDuplicate)
}
