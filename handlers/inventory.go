// ABOUTME: HTTP handler for vSphere inventory discovery
// ABOUTME: Lists running VMs as server-visibility-only assets

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ulix1808/AppdyLicCalc/models"
	"github.com/ulix1808/AppdyLicCalc/services"
)

const discoveryTimeout = 30 * time.Second

// DiscoverInventory returns running VMs matching the optional "pattern"
// query parameter, ready to paste into a calculation request.
func (h *Handler) DiscoverInventory(w http.ResponseWriter, r *http.Request) {
	if h.inventory == nil {
		h.writeError(w, "vSphere not configured. Set VSPHERE_HOST, VSPHERE_USERNAME, VSPHERE_PASSWORD, and VSPHERE_DATACENTER environment variables.", http.StatusServiceUnavailable)
		return
	}

	pattern := r.URL.Query().Get("pattern")
	if err := services.ValidateVMPattern(pattern); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if pattern == "" {
		pattern = "*"
	}

	cacheKey := "vsphere:" + pattern
	if servers, found := h.inventoryCache.Get(cacheKey); found {
		h.writeJSON(w, http.StatusOK, discoveryResponse(servers, pattern, true))
		return
	}

	// One session at a time: the client keeps a single connection
	h.inventoryMu.Lock()
	defer h.inventoryMu.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), discoveryTimeout)
	defer cancel()

	if err := h.inventory.Connect(ctx); err != nil {
		slog.Error("vSphere connection failed", "error", err)
		h.writeError(w, "Inventory service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}
	defer h.inventory.Disconnect(context.Background())

	servers, err := h.inventory.DiscoverServers(ctx, pattern)
	if err != nil {
		slog.Error("vSphere discovery failed", "error", err)
		h.writeError(w, "Failed to retrieve inventory", http.StatusInternalServerError)
		return
	}

	h.inventoryCache.Set(cacheKey, servers)
	h.writeJSON(w, http.StatusOK, discoveryResponse(servers, pattern, false))
}

func discoveryResponse(servers []models.ServerVisibilityOnly, pattern string, cached bool) models.InventoryDiscoveryResponse {
	req := models.NewCalculateRequest(models.Inventory{ServerVisibilityOnly: servers})
	return models.InventoryDiscoveryResponse{
		ServerVisibilityOnly: req.ServerVisibilityOnly,
		Pattern:              pattern,
		Cached:               cached,
		Timestamp:            time.Now().UTC(),
	}
}
