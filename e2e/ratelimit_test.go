// ABOUTME: End-to-end tests for rate limiting through the full router
// ABOUTME: Verifies the default and upload tiers are counted separately, and disable mode

package e2e

import (
	"net/http"
	"testing"
)

func TestRateLimit_E2E_DefaultTier(t *testing.T) {
	cfg := baseConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitDefault = 3
	server := newTestServer(t, cfg)

	for i := range 3 {
		if resp := server.get(t, "/api/v1/health"); resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d should succeed, got %d", i+1, resp.StatusCode)
		}
	}

	resp := server.get(t, "/api/v1/thousandeyes/catalog")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 once the default tier is spent, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
	body := decodeBody[struct {
		Error      string `json:"error"`
		Code       int    `json:"code"`
		RetryAfter int    `json:"retry_after"`
	}](t, resp)
	if body.Code != http.StatusTooManyRequests || body.RetryAfter < 1 {
		t.Errorf("unexpected 429 body: %+v", body)
	}
}

func TestRateLimit_E2E_UploadTierIsSeparate(t *testing.T) {
	cfg := baseConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitDefault = 100
	cfg.RateLimitUpload = 2
	server := newTestServer(t, cfg)
	workbook := sizingWorkbook(t)

	for i := range 2 {
		if resp := server.upload(t, "sizing.xlsx", workbook); resp.StatusCode != http.StatusOK {
			t.Fatalf("Upload %d should succeed, got %d", i+1, resp.StatusCode)
		}
	}
	if resp := server.upload(t, "sizing.xlsx", workbook); resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected 429 for third upload, got %d", resp.StatusCode)
	}

	// Other endpoints still have their own budget
	if resp := server.get(t, "/api/v1/health"); resp.StatusCode != http.StatusOK {
		t.Errorf("Expected health to pass, got %d", resp.StatusCode)
	}
}

func TestRateLimit_E2E_Disabled(t *testing.T) {
	cfg := baseConfig()
	cfg.RateLimitEnabled = false
	cfg.RateLimitDefault = 1
	server := newTestServer(t, cfg)

	for i := range 5 {
		if resp := server.get(t, "/api/v1/health"); resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d should pass with rate limiting disabled, got %d", i+1, resp.StatusCode)
		}
	}
}
