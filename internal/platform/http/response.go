package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/donseba/go-htmx"
)

// ErrorBody is the JSON sent for any failed request.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// JSON writes v as the body with the status code.
func JSON(h *htmx.Handler, status int, v any) {
	h.Header().Set("Content-Type", "application/json")
	h.WriteHeader(status)

	if err := json.NewEncoder(h).Encode(v); err != nil {
		slog.Error("failed to write json response", "error", err)
	}
}

// Error writes an ErrorBody, field is left out when empty.
func Error(h *htmx.Handler, status int, msg string, field string) {
	JSON(h, status, ErrorBody{Error: msg, Field: field})
}

// InternalError logs err and writes a generic 500.
func InternalError(h *htmx.Handler, msg string, err error) {
	slog.Error(msg, "error", err)
	Error(h, http.StatusInternalServerError, msg, "")
}
