// ABOUTME: CORS middleware for API cross-origin requests
// ABOUTME: Allows any origin or a configured list, and answers preflight requests

package middleware

import (
	"net/http"
	"slices"
)

// CORS returns middleware that adds CORS headers to responses. With no
// allowed origins every origin is accepted; otherwise the request origin is
// echoed only when listed. OPTIONS preflight requests get 204 without
// reaching the wrapped handler.
func CORS(allowedOrigins []string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case len(allowedOrigins) == 0:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next(w, r)
		}
	}
}
