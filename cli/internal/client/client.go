// ABOUTME: HTTP client for the license calculator API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/ulix1808/AppdyLicCalc/models"
)

// Client is the API client for the license calculator backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Health calls GET /api/v1/health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// CalculateLicenses calls POST /api/v1/licenses/calculate
func (c *Client) CalculateLicenses(ctx context.Context, input models.CalculateRequest) (*models.LicenseResponse, error) {
	var result models.LicenseResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/licenses/calculate", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CalculateNetworkTests calls POST /api/v1/thousandeyes/calculate
func (c *Client) CalculateNetworkTests(ctx context.Context, input models.NetworkTestRequest) (*models.NetworkTestResult, error) {
	var result models.NetworkTestResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/thousandeyes/calculate", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Catalog calls GET /api/v1/thousandeyes/catalog
func (c *Client) Catalog(ctx context.Context) (*models.NetworkTestHelp, error) {
	var help models.NetworkTestHelp
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/thousandeyes/catalog", nil, &help); err != nil {
		return nil, err
	}
	return &help, nil
}

// DiscoverInventory calls GET /api/v1/inventory/vsphere
func (c *Client) DiscoverInventory(ctx context.Context, pattern string) (*models.InventoryDiscoveryResponse, error) {
	path := "/api/v1/inventory/vsphere"
	if pattern != "" {
		path += "?pattern=" + url.QueryEscape(pattern)
	}
	var inv models.InventoryDiscoveryResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ImportWorkbook uploads a sizing workbook to POST /api/v1/workbooks/import
func (c *Client) ImportWorkbook(ctx context.Context, filename string, workbook io.Reader) (*models.ImportResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, workbook); err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/workbooks/import", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result models.ImportResult
	if err := c.send(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(ctx, req, out)
}

func (c *Client) send(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if errResp.Details != "" {
		return fmt.Errorf("backend error: %s (%s)", errResp.Error, errResp.Details)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}
