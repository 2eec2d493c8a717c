// ABOUTME: HTTP handler wiring for the license calculator API
// ABOUTME: Holds engines, caches and optional inventory discovery shared by all endpoints

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ulix1808/AppdyLicCalc/cache"
	"github.com/ulix1808/AppdyLicCalc/config"
	"github.com/ulix1808/AppdyLicCalc/metrics"
	"github.com/ulix1808/AppdyLicCalc/models"
	"github.com/ulix1808/AppdyLicCalc/services"
)

// maxRequestBodySize limits JSON request bodies to 1MB
const maxRequestBodySize = 1 << 20

// defaultMaxUploadBytes applies when no config is given
const defaultMaxUploadBytes = 16 << 20

// InventorySource discovers servers for server-visibility-only licensing.
// *services.VSphereClient satisfies it.
type InventorySource interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	DiscoverServers(ctx context.Context, pattern string) ([]models.ServerVisibilityOnly, error)
}

type Handler struct {
	cfg            *config.Config
	importCache    *cache.Cache[models.ImportResult]
	importGroup    singleflight.Group
	inventoryCache *cache.Cache[[]models.ServerVisibilityOnly]
	licenseCalc    *services.LicenseCalculator
	networkCalc    *services.NetworkTestCalculator
	importer       *services.WorkbookImporter
	inventory      InventorySource
	inventoryMu    sync.Mutex
	monitor        *metrics.Monitor
	ratesSource    string
}

// Option customizes a Handler.
type Option func(*Handler)

// WithRates replaces the default business rates. source names where they
// came from and is reported by the health endpoint.
func WithRates(rates models.LicenseRates, source string) Option {
	return func(h *Handler) {
		h.licenseCalc = services.NewLicenseCalculator(rates)
		h.networkCalc = services.NewNetworkTestCalculator(rates)
		h.ratesSource = source
	}
}

// WithMonitor records engine and import activity on m.
func WithMonitor(m *metrics.Monitor) Option {
	return func(h *Handler) { h.monitor = m }
}

// WithInventorySource overrides the vSphere client built from config.
func WithInventorySource(src InventorySource) Option {
	return func(h *Handler) { h.inventory = src }
}

// NewHandler builds a handler. cfg and importCache may be nil.
func NewHandler(cfg *config.Config, importCache *cache.Cache[models.ImportResult], opts ...Option) *Handler {
	rates := models.DefaultLicenseRates()
	h := &Handler{
		cfg:         cfg,
		importCache: importCache,
		licenseCalc: services.NewLicenseCalculator(rates),
		networkCalc: services.NewNetworkTestCalculator(rates),
		importer:    services.NewWorkbookImporter(),
		ratesSource: "defaults",
	}

	// vSphere client is optional
	if cfg != nil && cfg.VSphereConfigured() {
		h.inventory = services.VSphereClientFromEnv(
			cfg.VSphereHost,
			cfg.VSphereUsername,
			cfg.VSpherePassword,
			cfg.VSphereDatacenter,
			cfg.VSphereInsecure,
		)
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.inventory != nil {
		ttl := 300 * time.Second
		if cfg != nil {
			ttl = time.Duration(cfg.CacheTTL) * time.Second
		}
		h.inventoryCache = cache.New[[]models.ServerVisibilityOnly](ttl)
	}
	return h
}

// Close stops background cache sweeps owned by the handler.
func (h *Handler) Close() {
	if h.inventoryCache != nil {
		h.inventoryCache.Close()
	}
}

func (h *Handler) maxUploadBytes() int64 {
	if h.cfg == nil {
		return defaultMaxUploadBytes
	}
	return h.cfg.MaxUploadBytes()
}

func (h *Handler) importTTL() time.Duration {
	if h.cfg == nil {
		return 10 * time.Minute
	}
	return time.Duration(h.cfg.ImportCacheTTL) * time.Second
}

// decodeJSON reads a size-limited JSON body into v, writing the 400
// response itself on failure.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return false
		}
		slog.Debug("Rejected request body", "path", r.URL.Path, "error", err)
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeErrorDetails(w, message, "", code)
}

func (h *Handler) writeErrorDetails(w http.ResponseWriter, message, details string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error:   message,
		Details: details,
		Code:    code,
	})
}
