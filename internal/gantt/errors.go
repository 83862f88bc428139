package gantt

import "fmt"

// ErrorCode is a symbolic request-level error code. These map 1:1 to
// user-facing conditions at the delivery boundary; row-level defects never
// surface as one of these, they become skip reasons or warnings instead.
type ErrorCode string

const (
	ErrDatasetNotSpecified  ErrorCode = "DATASET_NOT_SPECIFIED"
	ErrColumnNotFound       ErrorCode = "COLUMN_NOT_FOUND"
	ErrEmptyDataset         ErrorCode = "EMPTY_DATASET"
	ErrNoValidTasks         ErrorCode = "NO_VALID_TASKS"
	ErrInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
	ErrInternal             ErrorCode = "INTERNAL_ERROR"
)

// RequestError is a request-level failure with a symbolic code, a
// human-readable message, and optional structured details such as the
// offending column name. Diagnostic detail like stack traces never goes in
// here; it is logged server-side only.
type RequestError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewRequestError builds a RequestError. details may be nil.
func NewRequestError(code ErrorCode, message string, details map[string]any) *RequestError {
	return &RequestError{Code: code, Message: message, Details: details}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
