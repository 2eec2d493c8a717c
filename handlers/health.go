// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports service status, discovery availability and rate source

package handlers

import (
	"net/http"
	"time"

	"github.com/ulix1808/AppdyLicCalc/models"
)

// Health returns API health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:            "ok",
		VSphereConfigured: h.inventory != nil,
		RatesSource:       h.ratesSource,
		Timestamp:         time.Now().UTC(),
	})
}
