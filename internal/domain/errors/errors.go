package errors

import (
	"fmt"
	"net/http"
)

// AppError is a custom error type for application errors
type AppError struct {
	Code       string
	Message    string
	StatusCode int // Same rule as HTTP status codes
	Err        error
	Details    map[string]interface{}
}

// Error returns a string representation of the error
func (e AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is implements the errors.Is interface
func (e AppError) Is(target error) bool {
	if target, ok := target.(AppError); ok {
		return target.Code == e.Code
	}
	return false
}

// Unwrap returns the underlying error
func (e AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e AppError) WithDetails(details map[string]interface{}) AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail to the error
func (e AppError) WithDetail(key string, value interface{}) AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewPeriodLockedError creates an error for mutations attempted on a closed period
func NewPeriodLockedError(period string) AppError {
	return AppError{
		Code:       "PERIOD_LOCKED",
		Message:    fmt.Sprintf("period %s is closed and cannot be modified", period),
		StatusCode: http.StatusConflict,
	}
}

// NewReviewedImmutableError creates an error for delete attempts on reviewed
// transactions. blocking is the number of reviewed transactions preventing the
// operation.
func NewReviewedImmutableError(blocking int) AppError {
	return AppError{
		Code:       "REVIEWED_IMMUTABLE",
		Message:    "reviewed transactions cannot be deleted",
		StatusCode: http.StatusConflict,
		Details:    map[string]interface{}{"blockingCount": blocking},
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) AppError {
	return AppError{
		Code:       "NOT_FOUND",
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewSchemaError creates an error for import files missing required columns
func NewSchemaError(message string) AppError {
	return AppError{
		Code:       "SCHEMA_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewParseError creates an error for unparseable input
func NewParseError(message string, err error) AppError {
	return AppError{
		Code:       "PARSE_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) AppError {
	return AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewConfirmationDeclinedError creates an error for destructive operations the
// operator declined to confirm. State is left unchanged.
func NewConfirmationDeclinedError(operation string) AppError {
	return AppError{
		Code:       "CONFIRMATION_DECLINED",
		Message:    fmt.Sprintf("%s was not confirmed", operation),
		StatusCode: http.StatusBadRequest,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) AppError {
	return AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}
