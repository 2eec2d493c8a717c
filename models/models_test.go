package models

import (
	"encoding/json"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestAssetTotalCores(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"application", Application{Nodes: 4, CoresPerNode: 8}.TotalCores(), 32},
		{"database", Database{Nodes: 2, CoresPerNode: 12}.TotalCores(), 24},
		{"sap tagged text", SAPApplication{Nodes: 1, CoresStr: "ASCS 2 VCPU, Primario APP Server 16 VCPU"}.TotalCores(), 18},
		{"sap untagged text", SAPApplication{Nodes: 2, CoresStr: "no info"}.TotalCores(), 8},
		{"microservice", Microservice{Nodes: 3, CoresPerNode: 4, Containers: intPtr(40)}.TotalCores(), 12},
		{"server visibility only", ServerVisibilityOnly{Nodes: 5, CoresPerNode: 2}.TotalCores(), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("TotalCores() = %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestMobileApp_RUMTokensPerMonth(t *testing.T) {
	if got := (MobileApp{}).RUMTokensPerMonth(RUMTokensPerActiveAgentMonth); got != 0 {
		t.Errorf("unknown agents: got %d tokens, want 0", got)
	}
	if got := (MobileApp{ActiveAgentsPerMonth: intPtr(1000)}).RUMTokensPerMonth(RUMTokensPerActiveAgentMonth); got != 160000 {
		t.Errorf("1000 agents: got %d tokens, want 160000", got)
	}
	if got := (MobileApp{ActiveAgentsPerMonth: intPtr(1000)}).RUMTokensPerMonth(200); got != 200000 {
		t.Errorf("1000 agents at 200: got %d tokens, want 200000", got)
	}
}

func TestLicenseResult_Totals(t *testing.T) {
	r := LicenseResult{
		APMCores:                  32,
		DatabaseCores:             24,
		SAPCores:                  18,
		MicroservicesContainers:   8,
		ServerVisibilityOnlyCores: 6,
		SecureAppCores:            4,
	}

	if got := r.TotalAPMCores(); got != 40 {
		t.Errorf("TotalAPMCores() = %d, want 40", got)
	}
	if got := r.TotalInfrastructureCores(); got != 92 {
		t.Errorf("TotalInfrastructureCores() = %d, want 92", got)
	}

	r.DatabaseCores = 0
	if got := r.TotalInfrastructureCores(); got != 68 {
		t.Errorf("TotalInfrastructureCores() after change = %d, want 68", got)
	}
}

func TestLicenseResult_SummaryRoundsUnits(t *testing.T) {
	r := LicenseResult{RUMBrowserUnits: 0.048, RUMMobileUnits: 1.23456, APMCores: 10, SecureAppCores: 10}
	s := r.Summary()

	if s.RUMBrowserUnits != 0.05 {
		t.Errorf("RUMBrowserUnits = %v, want 0.05", s.RUMBrowserUnits)
	}
	if s.RUMMobileUnits != 1.23 {
		t.Errorf("RUMMobileUnits = %v, want 1.23", s.RUMMobileUnits)
	}
	if s.TotalInfrastructureCores != 20 {
		t.Errorf("TotalInfrastructureCores = %d, want 20", s.TotalInfrastructureCores)
	}
}

func TestDefaultLicenseRates_Validate(t *testing.T) {
	rates := DefaultLicenseRates()
	if err := rates.Validate(); err != nil {
		t.Fatalf("default rates invalid: %v", err)
	}
	if rates.PageviewsPerUser != 20 || rates.BGPMilliUnits != 8 {
		t.Errorf("unexpected defaults: %+v", rates)
	}

	rates.ActiveAgentsPerUnit = 0
	if err := rates.Validate(); err == nil {
		t.Error("expected error for zero active_agents_per_unit")
	}

	rates = DefaultLicenseRates()
	rates.BGPMilliUnits = -1
	if err := rates.Validate(); err == nil {
		t.Error("expected error for negative bgp_milli_units")
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	data, err := json.Marshal(ErrorResponse{Error: "Invalid JSON", Code: 400})
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(data) != `{"error":"Invalid JSON","code":400}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}
