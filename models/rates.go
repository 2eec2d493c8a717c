// ABOUTME: Business constants for RUM and network-test licensing
// ABOUTME: Defaults match the published SaaS model and can be overridden from YAML

package models

import "fmt"

// LicenseRates holds the commercial constants the license engines apply.
// None of them is derived; they come from vendor pricing documents.
type LicenseRates struct {
	PageviewsPerUser       int     `yaml:"pageviews_per_user" json:"pageviews_per_user"`
	TokensPerPageview      int     `yaml:"tokens_per_pageview" json:"tokens_per_pageview"`
	TokensPerActiveAgent   int     `yaml:"tokens_per_active_agent" json:"tokens_per_active_agent"`
	PageviewsPerUnitAnnual int     `yaml:"pageviews_per_unit_annual" json:"pageviews_per_unit_annual"`
	ActiveAgentsPerUnit    int     `yaml:"active_agents_per_unit" json:"active_agents_per_unit"`
	BGPMilliUnits          float64 `yaml:"bgp_milli_units" json:"bgp_milli_units"`
}

// DefaultLicenseRates returns the Pro-edition rates.
func DefaultLicenseRates() LicenseRates {
	return LicenseRates{
		PageviewsPerUser:       20,
		TokensPerPageview:      1,
		TokensPerActiveAgent:   RUMTokensPerActiveAgentMonth,
		PageviewsPerUnitAnnual: 10_000_000,
		ActiveAgentsPerUnit:    5_000,
		BGPMilliUnits:          8,
	}
}

// Validate rejects rates that cannot describe a real price list.
func (r LicenseRates) Validate() error {
	ints := []struct {
		name  string
		value int
	}{
		{"pageviews_per_user", r.PageviewsPerUser},
		{"tokens_per_pageview", r.TokensPerPageview},
		{"tokens_per_active_agent", r.TokensPerActiveAgent},
		{"pageviews_per_unit_annual", r.PageviewsPerUnitAnnual},
		{"active_agents_per_unit", r.ActiveAgentsPerUnit},
	}
	for _, f := range ints {
		if f.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", f.name, f.value)
		}
	}
	if r.BGPMilliUnits <= 0 {
		return fmt.Errorf("bgp_milli_units must be positive, got %g", r.BGPMilliUnits)
	}
	return nil
}
