package response

import (
	"net/http"
	"time"

	"github.com/hirosato/bookkeeper/internal/domain/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success          bool             `json:"success"`
	Error            string           `json:"error"`
	ErrorDescription ErrorDescription `json:"error_description"`
	Metadata         ResponseMetadata `json:"metadata"`
}

// ErrorDescription represents the error details
type ErrorDescription struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// WriteError writes an error response, mapping AppError code and status
// where available and falling back to a generic internal error otherwise
func WriteError(w http.ResponseWriter, err error, requestID string) {
	statusCode := http.StatusInternalServerError
	errorCode := "INTERNAL_ERROR"
	message := "An unexpected error occurred"
	var details map[string]interface{}

	if appErr, ok := err.(errors.AppError); ok {
		statusCode = appErr.StatusCode
		errorCode = appErr.Code
		message = appErr.Message
		details = appErr.Details
	} else {
		message = err.Error()
	}

	resp := ErrorResponse{
		Success: false,
		Error:   errorCode,
		ErrorDescription: ErrorDescription{
			Message: message,
			Details: details,
		},
		Metadata: ResponseMetadata{
			Version:   "1.0",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: requestID,
		},
	}
	WriteJSON(w, statusCode, resp)
}

// WriteValidationError writes a validation error response
func WriteValidationError(w http.ResponseWriter, message string, requestID string) {
	WriteError(w, errors.NewValidationError(message), requestID)
}

// WriteNotFound writes a not found error response
func WriteNotFound(w http.ResponseWriter, message string, requestID string) {
	WriteError(w, errors.NewNotFoundError(message), requestID)
}
