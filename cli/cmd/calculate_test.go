// ABOUTME: Tests for the calculate command
// ABOUTME: Runs against a real backend router; verifies output, budget gate and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

const inventoryJSON = `{
	"applications": [{"name": "Portal", "nodes": "4", "cores_per_node": 8,
		"is_web_app": "Si", "sessions_users_per_month": "2000"}],
	"databases": [{"name": "Oracle", "cores_per_node": 12, "nodes": 2}],
	"sap_apps": [{"name": "ERP", "nodes": 1, "cores_str": "ASCS 2 VCPU, Primario APP Server 16 VCPU"}]
}`

func TestCalculateCommand_JSONFile(t *testing.T) {
	useBackend(t)
	calculateFile = writeTemp(t, "inventory.json", inventoryJSON)

	var buf bytes.Buffer
	if code := runCalculate(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d:\n%s", code, buf.String())
	}

	out := buf.String()
	for _, want := range []string{"Total infrastructure", "74", "Server visibility instances: 7", "40000 pageviews/month", "0.05 units"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCalculateCommand_Workbook(t *testing.T) {
	useBackend(t)
	calculateFile = writeWorkbook(t)
	jsonOutput = true

	var buf bytes.Buffer
	if code := runCalculate(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d:\n%s", code, buf.String())
	}

	var parsed struct {
		Result struct {
			APMCores                 int `json:"apm_cores"`
			TotalInfrastructureCores int `json:"total_infrastructure_cores"`
		} `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if parsed.Result.APMCores != 16 || parsed.Result.TotalInfrastructureCores != 16 {
		t.Errorf("unexpected result: %+v", parsed.Result)
	}
}

func TestCalculateCommand_Budget(t *testing.T) {
	tests := []struct {
		name     string
		budget   int
		wantCode int
		wantText string
	}{
		{"within budget", 100, 0, "Within budget: 74 of 100 cores"},
		{"exact budget", 74, 0, "Within budget"},
		{"over budget", 50, 1, "Over budget: 74 cores exceeds 50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useBackend(t)
			calculateFile = writeTemp(t, "inventory.json", inventoryJSON)
			maxCores = tt.budget

			var buf bytes.Buffer
			if code := runCalculate(context.Background(), &buf); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(buf.String(), tt.wantText) {
				t.Errorf("expected %q in output:\n%s", tt.wantText, buf.String())
			}
		})
	}
}

func TestCalculateCommand_BudgetJSON(t *testing.T) {
	useBackend(t)
	calculateFile = writeTemp(t, "inventory.json", inventoryJSON)
	maxCores = 10
	jsonOutput = true

	var buf bytes.Buffer
	if code := runCalculate(context.Background(), &buf); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	budget, _ := parsed["budget"].(map[string]any)
	if budget["status"] != "failed" {
		t.Errorf("expected failed budget, got %v", parsed["budget"])
	}
}

func TestCalculateCommand_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
		want  string
	}{
		{"no file", func(t *testing.T) {}, "--file is required"},
		{"missing file", func(t *testing.T) { calculateFile = "/nonexistent/inventory.json" }, "cannot read input"},
		{"bad json", func(t *testing.T) { calculateFile = writeTemp(t, "bad.json", "{not json") }, "invalid JSON in bad.json"},
		{"negative budget", func(t *testing.T) { maxCores = -1 }, "--max-cores must not be negative"},
		{"bad workbook", func(t *testing.T) { calculateFile = writeTemp(t, "fake.xlsx", "plain text") }, "File is not a readable .xlsx workbook"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useBackend(t)
			tt.setup(t)

			var buf bytes.Buffer
			if code := runCalculate(context.Background(), &buf); code != 2 {
				t.Errorf("expected exit code 2, got %d", code)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, buf.String())
			}
		})
	}
}
