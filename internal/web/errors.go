package web

// errors.go provides unified error response handling for the web layer.
// Technical details are logged server-side with the request ID; clients
// receive a sanitized JSON message.

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/devShop-studio/medway-import-core-sub000/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError logs the error with request context and writes a sanitized
// JSON error body.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", message,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: sanitizeErrorMessage(message)})
}

// respondJSON encodes v as JSON. Encoding errors are logged since headers
// are already sent.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

// sanitizeErrorMessage strips internal details (paths, line noise) from a
// message before it reaches a client.
func sanitizeErrorMessage(message string) string {
	// Keep only the outermost wrap segment.
	if idx := strings.Index(message, ": "); idx > 0 {
		head := message[:idx]
		switch head {
		case "read upload", "open workbook", "decode delimited text":
			return head + " failed"
		}
	}
	return message
}
