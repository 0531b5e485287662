// Package api holds the JSON response helpers shared by every HTTP surface.
//
// Error bodies are the flat {"error": "<message>"} shape the public gateway
// has always returned; clients key retry UI off the message text, so the
// shape is part of the contract.
package api

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// Convenience helpers
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

func RateLimited(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message)
}

func Internal(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	WriteError(w, http.StatusInternalServerError, message)
}
