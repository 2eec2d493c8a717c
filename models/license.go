// ABOUTME: License calculation result with derived totals and audit breakdown
// ABOUTME: Totals are methods over stored fields so they never drift from the inputs

package models

import "math"

// LicenseResult is the outcome of one infrastructure license calculation.
type LicenseResult struct {
	APMCores                  int `json:"apm_cores"`
	DatabaseCores             int `json:"database_cores"`
	SAPCores                  int `json:"sap_cores"`
	MicroservicesContainers   int `json:"microservices_containers"` // cores, not containers
	ServerVisibilityInstances int `json:"server_visibility_instances"`
	ServerVisibilityOnlyCores int `json:"server_visibility_only_cores"`
	SecureAppCores            int `json:"secure_app_cores"`

	RUMBrowserPageviewsMonthly int     `json:"rum_browser_pageviews_monthly"`
	RUMBrowserPageviewsAnnual  int     `json:"rum_browser_pageviews_annual"`
	RUMBrowserTokensAnnual     int     `json:"rum_browser_tokens_annual"`
	RUMBrowserUnits            float64 `json:"rum_browser_units"`

	RUMMobileActiveAgents  int     `json:"rum_mobile_active_agents"`
	RUMMobileTokensMonthly int     `json:"rum_mobile_tokens_monthly"`
	RUMMobileUnits         float64 `json:"rum_mobile_units"`

	Details LicenseDetails `json:"details"`
}

// TotalAPMCores returns application plus microservice cores.
func (r LicenseResult) TotalAPMCores() int {
	return r.APMCores + r.MicroservicesContainers
}

// TotalInfrastructureCores returns the sum of the six core components.
// Secure App cores are additive on top of the APM cores they overlap.
func (r LicenseResult) TotalInfrastructureCores() int {
	return r.APMCores +
		r.DatabaseCores +
		r.SAPCores +
		r.MicroservicesContainers +
		r.ServerVisibilityOnlyCores +
		r.SecureAppCores
}

// LicenseDetails is the per-category breakdown of a LicenseResult.
type LicenseDetails struct {
	Applications         []ApplicationDetail `json:"applications"`
	Databases            []CoreDetail        `json:"databases"`
	SAP                  []CoreDetail        `json:"sap"`
	Microservices        []NodeCoreDetail    `json:"microservices"`
	ServerVisibilityOnly []NodeCoreDetail    `json:"server_visibility_only"`
	MobileApps           []MobileDetail      `json:"mobile_apps"`
}

type ApplicationDetail struct {
	Name      string `json:"name"`
	Cores     int    `json:"cores"`
	SecureApp bool   `json:"secure_app"`
}

type CoreDetail struct {
	Name  string `json:"name"`
	Cores int    `json:"cores"`
}

type NodeCoreDetail struct {
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Cores int    `json:"cores"`
}

type MobileDetail struct {
	Name         string `json:"name"`
	ActiveAgents *int   `json:"active_agents"`
}

// LicenseSummary is the display form of a LicenseResult: derived totals
// are materialized and unit counts are rounded to two decimals.
type LicenseSummary struct {
	APMCores                   int     `json:"apm_cores"`
	DatabaseCores              int     `json:"database_cores"`
	SAPCores                   int     `json:"sap_cores"`
	MicroservicesContainers    int     `json:"microservices_containers"`
	ServerVisibilityInstances  int     `json:"server_visibility_instances"`
	ServerVisibilityOnlyCores  int     `json:"server_visibility_only_cores"`
	SecureAppCores             int     `json:"secure_app_cores"`
	TotalAPMCores              int     `json:"total_apm_cores"`
	TotalInfrastructureCores   int     `json:"total_infrastructure_cores"`
	RUMBrowserPageviewsMonthly int     `json:"rum_browser_pageviews_monthly"`
	RUMBrowserPageviewsAnnual  int     `json:"rum_browser_pageviews_annual"`
	RUMBrowserUnits            float64 `json:"rum_browser_units"`
	RUMBrowserTokensAnnual     int     `json:"rum_browser_tokens_annual"`
	RUMMobileActiveAgents      int     `json:"rum_mobile_active_agents"`
	RUMMobileUnits             float64 `json:"rum_mobile_units"`
	RUMMobileTokensMonthly     int     `json:"rum_mobile_tokens_monthly"`
}

// LicenseResponse is the API response for a license calculation.
type LicenseResponse struct {
	Result  LicenseSummary `json:"result"`
	Details LicenseDetails `json:"details"`
}

// Summary returns the display form of the result.
func (r LicenseResult) Summary() LicenseSummary {
	return LicenseSummary{
		APMCores:                   r.APMCores,
		DatabaseCores:              r.DatabaseCores,
		SAPCores:                   r.SAPCores,
		MicroservicesContainers:    r.MicroservicesContainers,
		ServerVisibilityInstances:  r.ServerVisibilityInstances,
		ServerVisibilityOnlyCores:  r.ServerVisibilityOnlyCores,
		SecureAppCores:             r.SecureAppCores,
		TotalAPMCores:              r.TotalAPMCores(),
		TotalInfrastructureCores:   r.TotalInfrastructureCores(),
		RUMBrowserPageviewsMonthly: r.RUMBrowserPageviewsMonthly,
		RUMBrowserPageviewsAnnual:  r.RUMBrowserPageviewsAnnual,
		RUMBrowserUnits:            round2(r.RUMBrowserUnits),
		RUMBrowserTokensAnnual:     r.RUMBrowserTokensAnnual,
		RUMMobileActiveAgents:      r.RUMMobileActiveAgents,
		RUMMobileUnits:             round2(r.RUMMobileUnits),
		RUMMobileTokensMonthly:     r.RUMMobileTokensMonthly,
	}
}

// Response wraps the result for the calculate endpoint.
func (r LicenseResult) Response() LicenseResponse {
	return LicenseResponse{Result: r.Summary(), Details: r.Details}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
