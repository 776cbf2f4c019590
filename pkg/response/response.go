// Package response writes the platform's JSON envelope:
// {"success": true, ...payload} on success and
// {"success": false, "message": "...", "errors": {...}} on failure.
package response

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/tavolo/tavolo/pkg/logger"
)

// Envelope is a free-form payload merged with the success flag.
type Envelope map[string]any

func JSON(w http.ResponseWriter, status int, payload Envelope) {
	body := Envelope{"success": status < http.StatusBadRequest}
	for k, v := range payload {
		body[k] = v
	}
	write(w, status, body)
}

func OK(w http.ResponseWriter, payload Envelope) {
	JSON(w, http.StatusOK, payload)
}

func Created(w http.ResponseWriter, payload Envelope) {
	JSON(w, http.StatusCreated, payload)
}

func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{"success": false, "message": message})
}

// Invalid reports validation failures. "errors" stays array-shaped on
// the wire because consumers unwrap the first message; the per-field
// map rides along under "field_errors".
func Invalid(w http.ResponseWriter, message string, fieldErrors map[string]string) {
	messages := make([]string, 0, len(fieldErrors))
	for _, msg := range fieldErrors {
		messages = append(messages, msg)
	}
	sort.Strings(messages)
	write(w, http.StatusUnprocessableEntity, Envelope{
		"success":      false,
		"message":      message,
		"errors":       messages,
		"field_errors": fieldErrors,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "unauthorized"
	}
	Error(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "not found"
	}
	Error(w, http.StatusNotFound, message)
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
