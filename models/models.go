// ABOUTME: API envelope models shared by the handlers and the CLI
// ABOUTME: JSON-serializable structures for health, error and discovery responses

package models

import "time"

// HealthResponse reports service status
type HealthResponse struct {
	Status            string    `json:"status"`
	VSphereConfigured bool      `json:"vsphere_configured"`
	RatesSource       string    `json:"rates_source"`
	Timestamp         time.Time `json:"timestamp"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}

// InventoryDiscoveryResponse lists servers found by inventory discovery in
// the shape the license calculation endpoint accepts.
type InventoryDiscoveryResponse struct {
	ServerVisibilityOnly []ServerVisibilityOnlyInput `json:"server_visibility_only"`
	Pattern              string                      `json:"pattern"`
	Cached               bool                        `json:"cached"`
	Timestamp            time.Time                   `json:"timestamp"`
}
