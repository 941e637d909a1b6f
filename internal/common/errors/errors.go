// Package errors provides the standardized error taxonomy for search sessions
// and the resolution engine bridge.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Input validation errors. Recoverable, surfaced while capturing input.
const (
	ErrCodeEmptyInput         ErrorCode = "EMPTY_INPUT"
	ErrCodeEmptyBatch         ErrorCode = "EMPTY_BATCH"
	ErrCodeInvalidInputSource ErrorCode = "INVALID_INPUT_SOURCE"
)

// Resolution bridge errors. These move a session to Failed.
const (
	ErrCodeEngineUnreachable       ErrorCode = "ENGINE_UNREACHABLE"
	ErrCodeEngineRejected          ErrorCode = "ENGINE_REJECTED"
	ErrCodeEngineResponseMalformed ErrorCode = "ENGINE_RESPONSE_MALFORMED"
	ErrCodeInvalidRequest          ErrorCode = "INVALID_REQUEST"
)

// Session state machine errors.
const (
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeAlreadySubmitting ErrorCode = "ALREADY_SUBMITTING"
	ErrCodeUnknownMode       ErrorCode = "UNKNOWN_MODE"
	ErrCodeSessionAbandoned  ErrorCode = "SESSION_ABANDONED"
)

// Infrastructure errors raised by collaborators around the session.
const (
	ErrCodeSpreadsheetUnreadable ErrorCode = "SPREADSHEET_UNREADABLE"
	ErrCodeCatalogLoadFailed     ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeAuditWriteFailed      ErrorCode = "AUDIT_WRITE_FAILED"
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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target is a StandardError carrying the same code, so
// errors.Is(err, errors.New...(...)) style sentinels compare by code only.
func (e *StandardError) Is(target error) bool {
	var other *StandardError
	if !stderrors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// Sentinel values for errors.Is comparisons.
var (
	ErrEmptyInput              = &StandardError{Code: ErrCodeEmptyInput}
	ErrEmptyBatch              = &StandardError{Code: ErrCodeEmptyBatch}
	ErrInvalidInputSource      = &StandardError{Code: ErrCodeInvalidInputSource}
	ErrEngineUnreachable       = &StandardError{Code: ErrCodeEngineUnreachable}
	ErrEngineRejected          = &StandardError{Code: ErrCodeEngineRejected}
	ErrEngineResponseMalformed = &StandardError{Code: ErrCodeEngineResponseMalformed}
	ErrInvalidRequest          = &StandardError{Code: ErrCodeInvalidRequest}
	ErrInvalidTransition       = &StandardError{Code: ErrCodeInvalidTransition}
	ErrAlreadySubmitting       = &StandardError{Code: ErrCodeAlreadySubmitting}
	ErrUnknownMode             = &StandardError{Code: ErrCodeUnknownMode}
	ErrSessionAbandoned        = &StandardError{Code: ErrCodeSessionAbandoned}
	ErrSpreadsheetUnreadable   = &StandardError{Code: ErrCodeSpreadsheetUnreadable}
	ErrCatalogLoadFailed       = &StandardError{Code: ErrCodeCatalogLoadFailed}
	ErrAuditWriteFailed        = &StandardError{Code: ErrCodeAuditWriteFailed}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewEmptyInputError reports an individual entry that is blank after trimming.
func NewEmptyInputError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyInput,
		Message:   "Search entry is empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyBatchError reports a batch column with no usable values.
func NewEmptyBatchError(scanned int) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyBatch,
		Message:   "Batch contains no entries",
		Details:   fmt.Sprintf("scanned %d cells, none usable", scanned),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidInputSourceError(mode string, got interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInputSource,
		Message:   "Input source does not match search mode",
		Details:   fmt.Sprintf("mode: %s, source type: %T", mode, got),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEngineUnreachableError is used when no response was received at all.
func NewEngineUnreachableError(command string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEngineUnreachable,
		Message:   "Resolution engine could not be reached",
		Details:   fmt.Sprintf("command: %s, error: %s", command, errString(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEngineRejectedError carries the engine's own error message.
func NewEngineRejectedError(command, engineMessage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEngineRejected,
		Message:   "Resolution engine rejected the request",
		Details:   engineMessage,
		Retryable: true,
		Metadata:  map[string]interface{}{"command": command},
		Timestamp: time.Now().UTC(),
	}
}

func NewEngineResponseMalformedError(command string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEngineResponseMalformed,
		Message:   "Resolution engine response could not be interpreted",
		Details:   fmt.Sprintf("command: %s, error: %s", command, errString(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError marks an internal invariant violation. Not retryable.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Search request violates the submission contract",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidTransitionError(from, action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Action not allowed in current step",
		Details:   fmt.Sprintf("step: %s, action: %s", from, action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAlreadySubmittingError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadySubmitting,
		Message:   "A submission is already in flight for this session",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnknownModeError(mode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownMode,
		Message:   "Unsupported search mode",
		Details:   fmt.Sprintf("mode: %q", mode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionAbandonedError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionAbandoned,
		Message:   "Session was abandoned",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSpreadsheetUnreadableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSpreadsheetUnreadable,
		Message:   "Spreadsheet could not be decoded",
		Details:   errString(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewCatalogLoadFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Jurisdiction catalog could not be loaded",
		Details:   fmt.Sprintf("source: %s, error: %s", source, errString(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuditWriteFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditWriteFailed,
		Message:   "Submission audit record could not be written",
		Details:   fmt.Sprintf("index: %s, error: %s", index, errString(err)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf extracts the code from err, or "" if err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsRetryableErrorCode reports whether an operator retry can succeed.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeEngineUnreachable,
		ErrCodeEngineRejected,
		ErrCodeEngineResponseMalformed,
		ErrCodeCatalogLoadFailed,
		ErrCodeAuditWriteFailed:
		return true
	default:
		return false
	}
}

// IsDefect reports whether the code indicates an internal invariant violation
// that should be logged as a bug rather than only displayed.
func IsDefect(code ErrorCode) bool {
	return code == ErrCodeInvalidRequest
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case code == ErrCodeInvalidRequest:
		return "ENGINE"
	case strings.HasPrefix(codeStr, "ENGINE"):
		return "ENGINE"
	case strings.Contains(codeStr, "EMPTY") || strings.Contains(codeStr, "INVALID_INPUT"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TRANSITION") ||
		strings.Contains(codeStr, "SUBMITTING") ||
		strings.Contains(codeStr, "MODE") ||
		strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "SPREADSHEET") ||
		strings.Contains(codeStr, "CATALOG") ||
		strings.Contains(codeStr, "AUDIT"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
