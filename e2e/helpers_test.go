// ABOUTME: Test helpers for e2e tests
// ABOUTME: Starts the full router on an httptest server and builds sizing workbooks

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xuri/excelize/v2"

	"github.com/ulix1808/AppdyLicCalc/cache"
	"github.com/ulix1808/AppdyLicCalc/config"
	"github.com/ulix1808/AppdyLicCalc/handlers"
	"github.com/ulix1808/AppdyLicCalc/metrics"
	"github.com/ulix1808/AppdyLicCalc/models"
	"github.com/ulix1808/AppdyLicCalc/services"
)

// baseConfig mirrors config.Load defaults without touching the environment.
func baseConfig() *config.Config {
	return &config.Config{
		Port:             "8080",
		CacheTTL:         300,
		ImportCacheTTL:   600,
		MaxUploadMB:      4,
		RateLimitEnabled: false,
		RateLimitDefault: 100,
		RateLimitUpload:  10,
	}
}

type testServer struct {
	*httptest.Server
	Monitor *metrics.Monitor
}

// newTestServer serves the production router for cfg.
func newTestServer(t *testing.T, cfg *config.Config, opts ...handlers.Option) *testServer {
	t.Helper()

	monitor := metrics.NewMonitor(prometheus.NewRegistry())
	importCache := cache.New[models.ImportResult](time.Duration(cfg.ImportCacheTTL) * time.Second)
	t.Cleanup(importCache.Close)

	h := handlers.NewHandler(cfg, importCache, append([]handlers.Option{handlers.WithMonitor(monitor)}, opts...)...)
	t.Cleanup(h.Close)

	server := httptest.NewServer(handlers.NewRouter(h, cfg, monitor))
	t.Cleanup(server.Close)
	return &testServer{Server: server, Monitor: monitor}
}

func (s *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(s.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testServer) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encoding body: %v", err)
	}
	resp, err := http.Post(s.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testServer) upload(t *testing.T, filename string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	part.Write(data)
	mw.Close()

	resp, err := http.Post(s.URL+"/api/v1/workbooks/import", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}
	return string(data)
}

// sizingWorkbook builds a workbook laid out like the customer sizing
// template: one web application, one database, one SAP system, one mobile
// app and two network tests.
func sizingWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	inv := services.InventorySheet
	if err := f.SetSheetName("Sheet1", inv); err != nil {
		t.Fatalf("renaming sheet: %v", err)
	}
	if _, err := f.NewSheet(services.NetworkTestSheet); err != nil {
		t.Fatalf("creating sheet: %v", err)
	}

	cells := []struct{ sheet, cell, value string }{
		// applications, rows 4-6
		{inv, "B4", "Portal Clientes"}, {inv, "C4", "Tomcat 9"}, {inv, "D4", "Java"},
		{inv, "F4", "4"}, {inv, "G4", "8"}, {inv, "H4", "Si"}, {inv, "I4", "2000"},
		// databases, rows 10-12
		{inv, "B10", "Oracle"}, {inv, "C10", "19c"}, {inv, "D10", "12"}, {inv, "E10", "2"},
		// SAP, rows 18-19
		{inv, "B18", "ERP"}, {inv, "E18", "1"}, {inv, "G18", "ASCS 2 VCPU, Primario APP Server 16 VCPU"},
		// mobile, rows 32-33
		{inv, "B32", "Banca Movil"}, {inv, "C32", "Nativa"}, {inv, "D32", "Android"},

		{services.NetworkTestSheet, "C4", "Red"}, {services.NetworkTestSheet, "D4", "5"},
		{services.NetworkTestSheet, "E4", "1"}, {services.NetworkTestSheet, "F4", "enterprise"},
		{services.NetworkTestSheet, "C5", "BGP"}, {services.NetworkTestSheet, "E5", "3"},
		{services.NetworkTestSheet, "F5", "cloud"},
	}
	for _, c := range cells {
		if err := f.SetCellStr(c.sheet, c.cell, c.value); err != nil {
			t.Fatalf("setting %s!%s: %v", c.sheet, c.cell, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return buf.Bytes()
}
