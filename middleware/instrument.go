// ABOUTME: Prometheus instrumentation middleware for API routes
// ABOUTME: Records request counts and latency labelled by route pattern

package middleware

import (
	"net/http"
	"time"

	"github.com/ulix1808/AppdyLicCalc/metrics"
)

// Instrument records each request under the route pattern, not the raw
// URL path.
func Instrument(monitor *metrics.Monitor, pattern string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if monitor == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)
			next(wrapped, r)
			monitor.ObserveRequest(pattern, r.Method, wrapped.statusCode, time.Since(start))
		}
	}
}
