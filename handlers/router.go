// ABOUTME: HTTP router assembling the route table with its middleware chain
// ABOUTME: Shared by main and the end-to-end tests so both serve the same stack

package handlers

import (
	"net/http"
	"time"

	"github.com/ulix1808/AppdyLicCalc/config"
	"github.com/ulix1808/AppdyLicCalc/metrics"
	"github.com/ulix1808/AppdyLicCalc/middleware"
)

// rateLimitWindow is the fixed window both limiters count requests in
const rateLimitWindow = time.Minute

// NewRouter registers every route on a new mux. Each route runs through
// request logging, panic recovery, CORS, rate limiting and, when monitor is
// set, Prometheus instrumentation. Preflight requests are answered for every
// route path. The metrics endpoint is mounted at /metrics when monitor is non-nil.
func NewRouter(h *Handler, cfg *config.Config, monitor *metrics.Monitor) *http.ServeMux {
	var origins []string
	var defaultLimiter, uploadLimiter *middleware.RateLimiter
	if cfg != nil {
		origins = cfg.CORSAllowedOrigins
		if cfg.RateLimitEnabled {
			defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, rateLimitWindow)
			uploadLimiter = middleware.NewRateLimiter(cfg.RateLimitUpload, rateLimitWindow)
		}
	}
	cors := middleware.CORS(origins)

	mux := http.NewServeMux()
	preflight := map[string]bool{}
	for _, route := range h.Routes() {
		limiter := defaultLimiter
		if route.Upload {
			limiter = uploadLimiter
		}
		mux.HandleFunc(route.Method+" "+route.Path, middleware.Chain(route.Handler,
			middleware.LogRequest,
			middleware.Recover,
			cors,
			middleware.RateLimit(limiter, middleware.ClientIP),
			middleware.Instrument(monitor, route.Path),
		))

		// CORS answers preflight before reaching the handler
		if !preflight[route.Path] {
			preflight[route.Path] = true
			mux.HandleFunc(http.MethodOptions+" "+route.Path, cors(http.NotFound))
		}
	}

	if monitor != nil {
		mux.Handle("GET /metrics", monitor.Handler())
	}
	return mux
}
