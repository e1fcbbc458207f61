package http

import (
	"encoding/json"
	"net/http"
)

// apiError is the body of every error response. Details is only set for
// validation failures.
type apiError struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, title, message string) {
	writeJSON(w, statusCode, apiError{Error: title, Message: message})
}

func writeValidation(w http.ResponseWriter, details []FieldError) {
	writeJSON(w, http.StatusBadRequest, apiError{Error: "Validation Failed", Details: details})
}
