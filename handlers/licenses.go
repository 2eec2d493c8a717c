// ABOUTME: HTTP handlers for the two license engines
// ABOUTME: Convert loose JSON payloads, run the engines and expose the test catalog

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ulix1808/AppdyLicCalc/metrics"
	"github.com/ulix1808/AppdyLicCalc/models"
)

// CalculateLicenses computes infrastructure licensing for a six-category
// inventory. Missing categories count as empty.
func (h *Handler) CalculateLicenses(w http.ResponseWriter, r *http.Request) {
	var req models.CalculateRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result := h.licenseCalc.Calculate(req.ToInventory())
	h.monitor.ObserveCalculation(metrics.EngineInfrastructure)

	slog.Debug("Licenses calculated",
		"apm_cores", result.TotalAPMCores(),
		"infrastructure_cores", result.TotalInfrastructureCores(),
	)
	h.writeJSON(w, http.StatusOK, result.Response())
}

// CalculateNetworkTests computes network-test units. Entries without a
// test_type are skipped.
func (h *Handler) CalculateNetworkTests(w http.ResponseWriter, r *http.Request) {
	var req models.NetworkTestRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result := h.networkCalc.Calculate(req.ToTests())
	h.monitor.ObserveCalculation(metrics.EngineNetworkTests)
	h.monitor.ObserveNetworkTestUnits(result.TotalUnits)

	h.writeJSON(w, http.StatusOK, result)
}

// NetworkTestCatalog lists the selectable test kinds with help texts,
// thresholds and form defaults.
func (h *Handler) NetworkTestCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.networkCalc.Help())
}
