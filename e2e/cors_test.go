// ABOUTME: Integration tests for CORS through the full router
// ABOUTME: Verifies allow-list echoing, wildcard default and preflight handling

package e2e

import (
	"net/http"
	"testing"
)

func TestCORSIntegration_AllowList(t *testing.T) {
	cfg := baseConfig()
	cfg.CORSAllowedOrigins = []string{"https://example.com", "http://localhost:5173"}
	server := newTestServer(t, cfg)

	tests := []struct {
		name           string
		origin         string
		expectedOrigin string
	}{
		{"allowed origin", "https://example.com", "https://example.com"},
		{"localhost dev origin", "http://localhost:5173", "http://localhost:5173"},
		{"disallowed origin", "https://evil.com", ""},
		{"different port", "http://localhost:3000", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/v1/health", nil)
			req.Header.Set("Origin", tt.origin)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()

			// Request succeeds regardless of origin
			if resp.StatusCode != http.StatusOK {
				t.Errorf("Expected status 200, got %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.expectedOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.expectedOrigin)
			}
		})
	}
}

func TestCORSIntegration_WildcardWithoutConfig(t *testing.T) {
	server := newTestServer(t, baseConfig())

	resp := server.get(t, "/api/v1/thousandeyes/catalog")
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestCORSIntegration_Preflight(t *testing.T) {
	cfg := baseConfig()
	cfg.CORSAllowedOrigins = []string{"https://example.com"}
	server := newTestServer(t, cfg)

	for _, path := range []string{"/api/v1/licenses/calculate", "/api/v1/workbooks/import"} {
		req, _ := http.NewRequest(http.MethodOptions, server.URL+path, nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Preflight failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("%s: preflight status = %d, want 204", path, resp.StatusCode)
		}
		if got := resp.Header.Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
			t.Errorf("%s: Access-Control-Allow-Methods = %q", path, got)
		}
	}
}
