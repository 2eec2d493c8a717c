// ABOUTME: JSON error responses and panic recovery for middleware
// ABOUTME: Error bodies match the API's {error, code} format

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}{
		Error: message,
		Code:  code,
	})
}

// Recover turns a handler panic into a 500 JSON response.
func Recover(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("Handler panic",
					"request_id", RequestID(r.Context()),
					"path", sanitizePath(r.URL.Path),
					"error", err,
					"stack", string(debug.Stack()),
				)
				writeJSONError(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}
