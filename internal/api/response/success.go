package response

import (
	"encoding/json"
	"net/http"
	"time"
)

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success  bool             `json:"success"`
	Data     interface{}      `json:"data"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata represents the metadata for responses
type ResponseMetadata struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId,omitempty"`
}

// WriteSuccess writes a success envelope with the given status code
func WriteSuccess(w http.ResponseWriter, statusCode int, data interface{}, requestID string) {
	resp := SuccessResponse{
		Success: true,
		Data:    data,
		Metadata: ResponseMetadata{
			Version:   "1.0",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			RequestID: requestID,
		},
	}
	WriteJSON(w, statusCode, resp)
}

// WriteOK writes a standard OK (200) success envelope
func WriteOK(w http.ResponseWriter, data interface{}, requestID string) {
	WriteSuccess(w, http.StatusOK, data, requestID)
}

// WriteCreated writes a standard Created (201) success envelope
func WriteCreated(w http.ResponseWriter, data interface{}, requestID string) {
	WriteSuccess(w, http.StatusCreated, data, requestID)
}

// WriteNoContent writes a No Content (204) response to the provided writer
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteJSON writes data directly serialized as JSON with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"INTERNAL_ERROR","error_description":{"message":"Failed to marshal response"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}
