package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Error types, one per taxonomy entry. HTTP statuses are chosen by callers.
const (
	TypeValidation     = "validation_error"
	TypeAuthentication = "authentication_error"
	TypeAuthorization  = "authorization_error"
	TypeNotFound       = "not_found"
	TypeRateLimited    = "rate_limited"
	TypeFileUpload     = "file_upload_error"
	TypeInternal       = "internal_error"
)

type Error struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Details   any       `json:"details,omitempty"`
}

// Envelope is the uniform response shape: every endpoint returns success plus
// either data/message or an error object, so the client can handle any
// response generically.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func SuccessMessage(w http.ResponseWriter, message string, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, errType, message, requestID string) {
	WriteJSON(w, status, Envelope{
		Success:   false,
		Error:     &Error{Type: errType, Message: message, Timestamp: time.Now().UTC()},
		RequestID: requestID,
	})
}

func FailWithDetails(w http.ResponseWriter, status int, errType, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{
		Success:   false,
		Error:     &Error{Type: errType, Message: message, Timestamp: time.Now().UTC(), Details: details},
		RequestID: requestID,
	})
}
