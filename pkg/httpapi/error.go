package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
)

// ErrorEnvelope standardizes JSON error responses across API namespaces.
type ErrorEnvelope struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, requestID, code, message string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:      code,
		Message:   message,
		RequestID: requestID,
	})
}

func WriteFieldErrors(w http.ResponseWriter, requestID string, fields map[string]string) error {
	return WriteJSON(w, http.StatusUnprocessableEntity, &ErrorEnvelope{
		Code:      "VALIDATION_FAILED",
		Message:   "request validation failed",
		RequestID: requestID,
		Fields:    fields,
	})
}

// DecodeJSON reads a request body into dst, rejecting unknown fields.
func DecodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
