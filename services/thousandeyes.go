// ABOUTME: Network-test license engine using the milli-unit cost model
// ABOUTME: Projects each configured test over a 31-day window of rounds

package services

import (
	"log/slog"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/ulix1808/AppdyLicCalc/models"
)

// NetworkTestCalculator computes ThousandEyes consumption units.
type NetworkTestCalculator struct {
	bgpMilliUnits float64
}

// NewNetworkTestCalculator creates a calculator; the BGP flat rate comes from rates.
func NewNetworkTestCalculator(rates models.LicenseRates) *NetworkTestCalculator {
	return &NetworkTestCalculator{bgpMilliUnits: rates.BGPMilliUnits}
}

// MilliUnits returns the cost of one round of the test in milli-units.
func (c *NetworkTestCalculator) MilliUnits(t models.ThousandEyesTest) float64 {
	spec := t.Kind().Spec()
	agent := t.Agent()

	switch spec.Cost {
	case models.CostNoAgent:
		return c.bgpMilliUnits
	case models.CostTimeoutScaled:
		return spec.MilliRate(agent) * float64(effectiveTimeout(t))
	case models.CostPerServer:
		servers := 1
		if t.DNSServers != nil && *t.DNSServers > 1 {
			servers = *t.DNSServers
		}
		return spec.MilliRate(agent) * float64(servers)
	default:
		return spec.MilliRate(agent)
	}
}

// UnitsPerTest projects the test over ProjectionDays. Every configured test
// costs at least one unit.
func (c *NetworkTestCalculator) UnitsPerTest(t models.ThousandEyesTest) int {
	interval := clamp(t.IntervalMinutes, models.MinIntervalMinutes, models.MaxIntervalMinutes)
	rounds := 60.0 / float64(interval) * 24 * models.ProjectionDays

	agents := max(1, t.NumAgents)
	if t.Kind().Spec().Cost == models.CostNoAgent {
		agents = 1
	}

	units := int(math.Round(c.MilliUnits(t) * rounds * float64(agents) / 1000))
	return max(1, units)
}

// Calculate costs every test and sums the total.
func (c *NetworkTestCalculator) Calculate(tests []models.ThousandEyesTest) models.NetworkTestResult {
	results := lo.Map(tests, func(t models.ThousandEyesTest, _ int) models.TestUnits {
		spec := t.Kind().Spec()
		return models.TestUnits{
			TestType:        t.TestType,
			ResolvedType:    spec.Key,
			Scope:           spec.Scope,
			IntervalMinutes: t.IntervalMinutes,
			NumAgents:       t.NumAgents,
			AgentType:       t.AgentType,
			TimeoutSeconds:  t.TimeoutSeconds,
			Units:           c.UnitsPerTest(t),
		}
	})

	total := lo.SumBy(results, func(r models.TestUnits) int { return r.Units })
	slog.Debug("Network test calculation complete", "tests", len(results), "total_units", total)

	return models.NetworkTestResult{
		TotalUnits:     total,
		ProjectionDays: models.ProjectionDays,
		Tests:          results,
	}
}

// Catalog lists every test kind sorted by display name.
func (c *NetworkTestCalculator) Catalog() []models.TestKindInfo {
	items := lo.Map(models.TestKinds[:], func(s models.TestKindSpec, _ int) models.TestKindInfo {
		return s.Info()
	})
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// Help returns the form guidance. The agent-to-agent and agent-to-server
// variants are folded into the network kind there.
func (c *NetworkTestCalculator) Help() models.NetworkTestHelp {
	timeout := models.DefaultTimeoutSeconds
	return models.NetworkTestHelp{
		TestTypes: lo.Filter(c.Catalog(), func(info models.TestKindInfo, _ int) bool {
			return info.Key != models.TestAgentToAgent.String() && info.Key != models.TestAgentToServer.String()
		}),
		Interval:   models.HelpInterval,
		Agents:     models.HelpAgents,
		AgentType:  models.HelpAgentType,
		Timeout:    models.HelpTimeout,
		Thresholds: models.DefaultThresholds(),
		DefaultValues: models.ThousandEyesTest{
			TestType:        models.TestRed.String(),
			IntervalMinutes: models.DefaultIntervalMinutes,
			NumAgents:       models.DefaultNumAgents,
			AgentType:       models.DefaultAgentType,
			TimeoutSeconds:  &timeout,
		},
	}
}

// effectiveTimeout picks the timeout, then the RTP duration, then the
// minimum, and clamps the result.
func effectiveTimeout(t models.ThousandEyesTest) int {
	seconds := models.MinTimeoutSeconds
	switch {
	case t.TimeoutSeconds != nil && *t.TimeoutSeconds != 0:
		seconds = *t.TimeoutSeconds
	case t.RTPDurationSeconds != nil && *t.RTPDurationSeconds != 0:
		seconds = *t.RTPDurationSeconds
	}
	return clamp(seconds, models.MinTimeoutSeconds, models.MaxTimeoutSeconds)
}

func clamp(v, low, high int) int {
	return min(high, max(low, v))
}
