// Package errors provides standardized error handling for the compliance
// engine and its collaborators. The engine core favors defensive defaulting
// and never raises; these types cover the boundaries around it: row intake,
// stores, caches and notification dispatch.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeRecordRejected   ErrorCode = "RECORD_REJECTED"
	ErrCodeInvalidHorizon   ErrorCode = "INVALID_HORIZON"

	ErrCodeStoreConnectionFailed ErrorCode = "STORE_CONNECTION_FAILED"
	ErrCodeStoreQueryFailed      ErrorCode = "STORE_QUERY_FAILED"
	ErrCodeStoreQueryTimeout     ErrorCode = "STORE_QUERY_TIMEOUT"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeUnknownAction          ErrorCode = "UNKNOWN_ACTION"

	ErrCodeUnknownContractor ErrorCode = "UNKNOWN_CONTRACTOR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationFailedError flags a malformed input shape. Not retryable:
// the same input will fail the same way.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordRejectedError flags a reporting-view row that failed boundary
// validation and was excluded from scoring.
func NewRecordRejectedError(contractorID, documentCode, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordRejected,
		Message:   "Progress record rejected at intake",
		Details:   details,
		Retryable: false,
		Metadata: map[string]interface{}{
			"contractorId": contractorID,
			"documentCode": documentCode,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidHorizonError flags a projection horizon outside {7, 30, 90}.
func NewInvalidHorizonError(horizonDays int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidHorizon,
		Message:   "Projection horizon must be 7, 30 or 90 days",
		Details:   fmt.Sprintf("horizonDays: %d", horizonDays),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreConnectionFailedError creates a retryable store connection error.
func NewStoreConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreConnectionFailed,
		Message:   "Reporting store connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryFailedError creates a retryable store query error.
func NewStoreQueryFailedError(view string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   "Reporting view query error",
		Details:   fmt.Sprintf("view: %s, error: %s", view, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryTimeoutError creates a retryable store timeout error.
func NewStoreQueryTimeoutError(view string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryTimeout,
		Message:   "Reporting view query timeout",
		Details:   fmt.Sprintf("view: %s", view),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError flags a cache failure. Retryable, and callers
// are expected to fall through to a fresh evaluation meanwhile.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Evaluation cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownActionError flags an action label the dispatcher does not know.
func NewUnknownActionError(action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownAction,
		Message:   "Unknown suggested action",
		Details:   fmt.Sprintf("action: %s", action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownContractorError flags a contractor id absent from the summary view.
func NewUnknownContractorError(contractorID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownContractor,
		Message:   "Contractor not present in KPI summary view",
		Details:   fmt.Sprintf("contractorId: %s", contractorID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStoreConnectionFailed,
		ErrCodeStoreQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeStoreQueryTimeout,
		ErrCodeCacheUnavailable:
		return 2

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "REJECTED") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "STORE"):
		return "STORE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "ACTION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
