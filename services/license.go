// ABOUTME: Infrastructure license engine for APM, database, SAP and RUM licensing
// ABOUTME: Aggregates asset cores, visibility instances and RUM token units

package services

import (
	"log/slog"

	"github.com/samber/lo"

	"github.com/ulix1808/AppdyLicCalc/models"
)

// LicenseCalculator computes infrastructure license requirements.
// It holds only immutable rates and is safe for concurrent use.
type LicenseCalculator struct {
	rates models.LicenseRates
}

// NewLicenseCalculator creates a calculator with the given rates
func NewLicenseCalculator(rates models.LicenseRates) *LicenseCalculator {
	return &LicenseCalculator{rates: rates}
}

// Rates returns the rates the calculator applies
func (c *LicenseCalculator) Rates() models.LicenseRates {
	return c.rates
}

// Calculate aggregates an inventory into a license result. It never fails.
func (c *LicenseCalculator) Calculate(inv models.Inventory) models.LicenseResult {
	var result models.LicenseResult

	result.ServerVisibilityOnlyCores = lo.SumBy(inv.ServerVisibilityOnly, models.ServerVisibilityOnly.TotalCores)
	result.APMCores = lo.SumBy(inv.Applications, models.Application.TotalCores)

	// Secure App is licensed on top of APM for the same cores
	secured := lo.Filter(inv.Applications, func(a models.Application, _ int) bool { return a.HasSecureApp })
	result.SecureAppCores = lo.SumBy(secured, models.Application.TotalCores)

	result.DatabaseCores = lo.SumBy(inv.Databases, models.Database.TotalCores)
	result.SAPCores = lo.SumBy(inv.SAPApps, models.SAPApplication.TotalCores)
	result.MicroservicesContainers = lo.SumBy(inv.Microservices, models.Microservice.TotalCores)

	// One OS instance per compute node; visibility-only hosts are already counted by cores
	result.ServerVisibilityInstances = lo.SumBy(inv.Applications, func(a models.Application) int { return a.Nodes }) +
		lo.SumBy(inv.Databases, func(d models.Database) int { return d.Nodes }) +
		lo.SumBy(inv.SAPApps, func(s models.SAPApplication) int { return s.Nodes }) +
		lo.SumBy(inv.Microservices, func(m models.Microservice) int { return m.Nodes })

	c.applyRUMBrowser(&result, inv)
	c.applyRUMMobile(&result, inv)
	result.Details = buildDetails(inv)

	slog.Debug("License calculation complete",
		"apm_cores", result.APMCores,
		"total_infrastructure_cores", result.TotalInfrastructureCores(),
		"server_visibility_instances", result.ServerVisibilityInstances,
	)

	return result
}

func (c *LicenseCalculator) applyRUMBrowser(result *models.LicenseResult, inv models.Inventory) {
	users := lo.SumBy(inv.Applications, func(a models.Application) int {
		return webSessions(a.IsWebApp, a.SessionsUsersPerMonth)
	}) + lo.SumBy(inv.Microservices, func(m models.Microservice) int {
		return webSessions(m.IsWebApp, m.SessionsUsersPerMonth)
	})

	result.RUMBrowserPageviewsMonthly = users * c.rates.PageviewsPerUser
	result.RUMBrowserPageviewsAnnual = result.RUMBrowserPageviewsMonthly * 12
	result.RUMBrowserTokensAnnual = result.RUMBrowserPageviewsAnnual * c.rates.TokensPerPageview
	result.RUMBrowserUnits = ratio(result.RUMBrowserTokensAnnual, c.rates.PageviewsPerUnitAnnual)
}

func (c *LicenseCalculator) applyRUMMobile(result *models.LicenseResult, inv models.Inventory) {
	result.RUMMobileActiveAgents = lo.SumBy(inv.MobileApps, models.MobileApp.ActiveAgents)
	result.RUMMobileTokensMonthly = lo.SumBy(inv.MobileApps, func(m models.MobileApp) int {
		return m.RUMTokensPerMonth(c.rates.TokensPerActiveAgent)
	})
	result.RUMMobileUnits = ratio(result.RUMMobileActiveAgents, c.rates.ActiveAgentsPerUnit)
}

// webSessions returns the session count of a web-flagged asset, 0 otherwise.
func webSessions(isWeb bool, sessions *int) int {
	if !isWeb || sessions == nil {
		return 0
	}
	return *sessions
}

// ratio divides, returning 0 for a non-positive divisor.
func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func buildDetails(inv models.Inventory) models.LicenseDetails {
	return models.LicenseDetails{
		Applications: lo.Map(inv.Applications, func(a models.Application, _ int) models.ApplicationDetail {
			return models.ApplicationDetail{Name: a.Name, Cores: a.TotalCores(), SecureApp: a.HasSecureApp}
		}),
		Databases: lo.Map(inv.Databases, func(d models.Database, _ int) models.CoreDetail {
			return models.CoreDetail{Name: d.Name, Cores: d.TotalCores()}
		}),
		SAP: lo.Map(inv.SAPApps, func(s models.SAPApplication, _ int) models.CoreDetail {
			return models.CoreDetail{Name: s.Name, Cores: s.TotalCores()}
		}),
		Microservices: lo.Map(inv.Microservices, func(m models.Microservice, _ int) models.NodeCoreDetail {
			return models.NodeCoreDetail{Name: m.Name, Nodes: m.Nodes, Cores: m.TotalCores()}
		}),
		ServerVisibilityOnly: lo.Map(inv.ServerVisibilityOnly, func(s models.ServerVisibilityOnly, _ int) models.NodeCoreDetail {
			return models.NodeCoreDetail{Name: s.Name, Nodes: s.Nodes, Cores: s.TotalCores()}
		}),
		MobileApps: lo.Map(inv.MobileApps, func(m models.MobileApp, _ int) models.MobileDetail {
			return models.MobileDetail{Name: m.Name, ActiveAgents: m.ActiveAgentsPerMonth}
		}),
	}
}
