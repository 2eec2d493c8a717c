// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
	Upload  bool             // accepts multipart uploads; gets the upload rate limit
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},

		// Engines
		{Method: http.MethodPost, Path: "/api/v1/licenses/calculate", Handler: h.CalculateLicenses},
		{Method: http.MethodPost, Path: "/api/v1/thousandeyes/calculate", Handler: h.CalculateNetworkTests},
		{Method: http.MethodGet, Path: "/api/v1/thousandeyes/catalog", Handler: h.NetworkTestCatalog},

		// Ingestion
		{Method: http.MethodPost, Path: "/api/v1/workbooks/import", Handler: h.ImportWorkbook, Upload: true},
		{Method: http.MethodGet, Path: "/api/v1/inventory/vsphere", Handler: h.DiscoverInventory},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}
