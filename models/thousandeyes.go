// ABOUTME: Network-test catalog, cost models and alias resolution
// ABOUTME: Maps free-text test and agent types onto the 13 billable test kinds

package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Thresholds applied to every network test before costing.
const (
	MinIntervalMinutes = 1
	MaxIntervalMinutes = 60
	MinTimeoutSeconds  = 5
	MaxTimeoutSeconds  = 180
	ProjectionDays     = 31
)

// Defaults used when a test omits a parameter.
const (
	DefaultIntervalMinutes = 5
	DefaultNumAgents       = 1
	DefaultTimeoutSeconds  = 5
	DefaultAgentType       = "ENTERPRISE"
)

// TestKind is one of the billable network-test kinds.
type TestKind int

const (
	TestRed TestKind = iota
	TestAgentToAgent
	TestAgentToServer
	TestDNSServer
	TestDNSTrace
	TestDNSSEC
	TestBGP
	TestHTTPServer
	TestFTPServer
	TestPageLoad
	TestTransaction
	TestSIPServer
	TestRTPStream
)

// String returns the catalog key of the kind.
func (k TestKind) String() string {
	return k.Spec().Key
}

// Spec returns the catalog entry of the kind; out-of-range kinds map to red.
func (k TestKind) Spec() TestKindSpec {
	if k < 0 || int(k) >= len(TestKinds) {
		return TestKinds[TestRed]
	}
	return TestKinds[k]
}

// CostModel selects how a test kind turns into milli-units per round.
type CostModel int

const (
	CostFlat          CostModel = iota // fixed rate per agent type
	CostNoAgent                        // fixed rate, agent type and count ignored
	CostPerServer                      // rate × DNS servers tested
	CostTimeoutScaled                  // rate per second × clamped timeout or duration
)

func (c CostModel) String() string {
	switch c {
	case CostFlat:
		return "flat"
	case CostNoAgent:
		return "no_agent"
	case CostPerServer:
		return "per_server"
	case CostTimeoutScaled:
		return "timeout_scaled"
	default:
		return "unknown"
	}
}

// AgentType is where a test runs from.
type AgentType int

const (
	AgentEnterprise AgentType = iota
	AgentCloud
)

func (a AgentType) String() string {
	if a == AgentCloud {
		return "cloud"
	}
	return "enterprise"
}

// TestKindSpec describes one billable test kind. For CostTimeoutScaled the
// milli rates are per second of timeout.
type TestKindSpec struct {
	Kind            TestKind
	Key             string
	Name            string
	Scope           string
	UsesTimeout     bool
	Cost            CostModel
	MilliCloud      float64
	MilliEnterprise float64
}

// MilliRate returns the base rate for the agent type.
func (s TestKindSpec) MilliRate(agent AgentType) float64 {
	if agent == AgentCloud {
		return s.MilliCloud
	}
	return s.MilliEnterprise
}

// TestKinds is indexed by TestKind.
var TestKinds = [...]TestKindSpec{
	TestRed: {
		Kind: TestRed, Key: "red",
		Name:  "Network (Agent-to-Server / Agent-to-Agent)",
		Scope: "Monitors network connectivity between agents and servers: packet loss, latency and jitter. Agent-to-Agent adds one-way metrics and optional throughput.",
		Cost:  CostFlat, MilliCloud: 5, MilliEnterprise: 2.5,
	},
	TestAgentToAgent: {
		Kind: TestAgentToAgent, Key: "agent_to_agent",
		Name:  "Network Agent-to-Agent",
		Scope: "Tests between two agents (Enterprise to Cloud, Enterprise to Enterprise or Cloud to Cloud) with one-way metrics, throughput and path visualization.",
		Cost:  CostFlat, MilliCloud: 5, MilliEnterprise: 2.5,
	},
	TestAgentToServer: {
		Kind: TestAgentToServer, Key: "agent_to_server",
		Name:  "Network Agent-to-Server",
		Scope: "Connectivity from an agent to a server or endpoint, including BGP monitoring of the target prefix.",
		Cost:  CostFlat, MilliCloud: 5, MilliEnterprise: 2.5,
	},
	TestDNSServer: {
		Kind: TestDNSServer, Key: "dns_server",
		Name:  "DNS Server",
		Scope: "Queries DNS resolution against one or more DNS servers. Cost is milli-units × servers tested.",
		Cost:  CostPerServer, MilliCloud: 5, MilliEnterprise: 2.5,
	},
	TestDNSTrace: {
		Kind: TestDNSTrace, Key: "dns_trace",
		Name:  "DNS Trace",
		Scope: "Traces the DNS delegation chain from the root servers to the authoritative server.",
		Cost:  CostFlat, MilliCloud: 5, MilliEnterprise: 2.5,
	},
	TestDNSSEC: {
		Kind: TestDNSSEC, Key: "dnssec",
		Name:  "DNSSEC",
		Scope: "Validates DNSSEC signatures along the resolution chain.",
		Cost:  CostFlat, MilliCloud: 5, MilliEnterprise: 2.5,
	},
	TestBGP: {
		Kind: TestBGP, Key: "bgp",
		Name:  "BGP",
		Scope: "Monitors BGP prefix propagation (hijacks, route flaps, route leaks) from BGP monitors instead of agents. Always 8 milli-units per 1000 rounds.",
		Cost:  CostNoAgent, MilliCloud: 8, MilliEnterprise: 8,
	},
	TestHTTPServer: {
		Kind: TestHTTPServer, Key: "http_server",
		Name:  "Web - HTTP Server", UsesTimeout: true,
		Scope: "Checks availability and response time of HTTP/HTTPS servers.",
		Cost:  CostTimeoutScaled, MilliCloud: 1, MilliEnterprise: 0.5,
	},
	TestFTPServer: {
		Kind: TestFTPServer, Key: "ftp_server",
		Name:  "Web - FTP Server", UsesTimeout: true,
		Scope: "Checks availability of FTP servers.",
		Cost:  CostTimeoutScaled, MilliCloud: 1, MilliEnterprise: 0.5,
	},
	TestPageLoad: {
		Kind: TestPageLoad, Key: "page_load",
		Name:  "Web - Page Load", UsesTimeout: true,
		Scope: "Measures full page load time in a real browser.",
		Cost:  CostTimeoutScaled, MilliCloud: 1, MilliEnterprise: 0.5,
	},
	TestTransaction: {
		Kind: TestTransaction, Key: "transaction",
		Name:  "Web - Transaction", UsesTimeout: true,
		Scope: "Replays scripted multi-step flows such as login or checkout.",
		Cost:  CostTimeoutScaled, MilliCloud: 1, MilliEnterprise: 0.5,
	},
	TestSIPServer: {
		Kind: TestSIPServer, Key: "sip_server",
		Name:  "Voice - SIP Server", UsesTimeout: true,
		Scope: "Checks availability of SIP servers for VoIP.",
		Cost:  CostTimeoutScaled, MilliCloud: 1, MilliEnterprise: 0.5,
	},
	TestRTPStream: {
		Kind: TestRTPStream, Key: "rtp_stream",
		Name:  "Voice - RTP Stream", UsesTimeout: true,
		Scope: "Emulates a VoIP call between agents measuring loss, latency and MOS. Uses the stream duration in seconds instead of a timeout.",
		Cost:  CostTimeoutScaled, MilliCloud: 1, MilliEnterprise: 0.5,
	},
}

// testKindAliases is keyed by normalized text: lower case, trimmed,
// spaces and hyphens replaced by underscores.
var testKindAliases = map[string]TestKind{
	"red":             TestRed,
	"network":         TestRed,
	"agent_to_agent":  TestAgentToAgent,
	"agent_to_server": TestAgentToServer,
	"dns_server":      TestDNSServer,
	"dns_trace":       TestDNSTrace,
	"dnssec":          TestDNSSEC,
	"bgp":             TestBGP,
	"http":            TestHTTPServer,
	"http_server":     TestHTTPServer,
	"ftp":             TestFTPServer,
	"ftp_server":      TestFTPServer,
	"page_load":       TestPageLoad,
	"web":             TestPageLoad,
	"transaction":     TestTransaction,
	"sip":             TestSIPServer,
	"sip_server":      TestSIPServer,
	"rtp":             TestRTPStream,
	"rtp_stream":      TestRTPStream,
}

var agentTypeAliases = map[string]AgentType{
	"cloud":      AgentCloud,
	"clou":       AgentCloud,
	"enterprise": AgentEnterprise,
	"enterpris":  AgentEnterprise,
}

var aliasReplacer = strings.NewReplacer(" ", "_", "-", "_")

// ParseTestKind resolves free text such as "HTTP Server" or "agent-to-agent".
// Unknown text resolves to TestRed.
func ParseTestKind(text string) TestKind {
	key := aliasReplacer.Replace(strings.ToLower(strings.TrimSpace(text)))
	if kind, ok := testKindAliases[key]; ok {
		return kind
	}
	return TestRed
}

// ParseAgentType resolves "Cloud", "ENTERPRISE" and their truncations.
// Unknown text resolves to AgentEnterprise.
func ParseAgentType(text string) AgentType {
	if agent, ok := agentTypeAliases[strings.ToLower(strings.TrimSpace(text))]; ok {
		return agent
	}
	return AgentEnterprise
}

// ThousandEyesTest is one configured network test.
type ThousandEyesTest struct {
	TestType           string `json:"test_type"`
	IntervalMinutes    int    `json:"interval_minutes"`
	NumAgents          int    `json:"num_agents"`
	AgentType          string `json:"agent_type"`
	TimeoutSeconds     *int   `json:"timeout_seconds,omitempty"`
	DNSServers         *int   `json:"dns_servers,omitempty"`
	RTPDurationSeconds *int   `json:"rtp_duration_seconds,omitempty"`
}

// Kind resolves the test type text.
func (t ThousandEyesTest) Kind() TestKind {
	return ParseTestKind(t.TestType)
}

// Agent resolves the agent type text.
func (t ThousandEyesTest) Agent() AgentType {
	return ParseAgentType(t.AgentType)
}

// TestUnits is the costed form of one ThousandEyesTest.
type TestUnits struct {
	TestType        string `json:"test_type"`
	ResolvedType    string `json:"resolved_type"`
	Scope           string `json:"scope"`
	IntervalMinutes int    `json:"interval_minutes"`
	NumAgents       int    `json:"num_agents"`
	AgentType       string `json:"agent_type"`
	TimeoutSeconds  *int   `json:"timeout_seconds"`
	Units           int    `json:"units"`
}

// NetworkTestResult is the outcome of one network-test calculation.
type NetworkTestResult struct {
	TotalUnits     int         `json:"total_units"`
	ProjectionDays int         `json:"projection_days"`
	Tests          []TestUnits `json:"tests"`
}

// TestKindInfo is a catalog entry as listed to users.
type TestKindInfo struct {
	Value       string `json:"value"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	UsesTimeout bool   `json:"uses_timeout"`
}

var titleCaser = cases.Title(language.Und)

// Info returns the catalog listing for the kind; Value is the key spelled as
// title-case words ("agent_to_agent" becomes "Agent To Agent").
func (s TestKindSpec) Info() TestKindInfo {
	return TestKindInfo{
		Value:       titleCaser.String(strings.ReplaceAll(s.Key, "_", " ")),
		Key:         s.Key,
		Name:        s.Name,
		Scope:       s.Scope,
		UsesTimeout: s.UsesTimeout,
	}
}

// NetworkTestThresholds are the clamps applied before costing.
type NetworkTestThresholds struct {
	MinIntervalMinutes int `json:"min_interval_minutes"`
	MaxIntervalMinutes int `json:"max_interval_minutes"`
	MinTimeoutSeconds  int `json:"min_timeout_seconds"`
	MaxTimeoutSeconds  int `json:"max_timeout_seconds"`
	ProjectionDays     int `json:"projection_days"`
}

// DefaultThresholds returns the fixed clamps.
func DefaultThresholds() NetworkTestThresholds {
	return NetworkTestThresholds{
		MinIntervalMinutes: MinIntervalMinutes,
		MaxIntervalMinutes: MaxIntervalMinutes,
		MinTimeoutSeconds:  MinTimeoutSeconds,
		MaxTimeoutSeconds:  MaxTimeoutSeconds,
		ProjectionDays:     ProjectionDays,
	}
}

// NetworkTestHelp is the guidance shown next to the network-test form.
type NetworkTestHelp struct {
	TestTypes     []TestKindInfo        `json:"test_types"`
	Interval      string                `json:"help_interval"`
	Agents        string                `json:"help_agents"`
	AgentType     string                `json:"help_agent_type"`
	Timeout       string                `json:"help_timeout"`
	Thresholds    NetworkTestThresholds `json:"thresholds"`
	DefaultValues ThousandEyesTest      `json:"defaults"`
}

const (
	HelpInterval = "The interval is how often, in minutes, the test runs. Shorter intervals (1-2 min) detect failures sooner but consume more units. " +
		"Recommended: 1-5 min depending on criticality. A 5 min interval runs 12 rounds per hour; 1 min runs 60."
	HelpAgents = "Number of agents running the same test. Each agent adds its own geographic vantage point; " +
		"the cost is multiplied by the number of agents."
	HelpAgentType = "Cloud: agents operated by ThousandEyes on the Internet, twice the Enterprise cost. " +
		"Enterprise: agents deployed in your own infrastructure (on-prem, datacenter), half the Cloud cost."
	HelpTimeout = "Maximum seconds for the test to succeed. Applies only to Web and Voice tests (HTTP, Page Load, Transaction, SIP, RTP). " +
		"Allowed range: 5-180 s. A longer timeout multiplies the milli-unit cost (timeout 30 is 30× the base rate)."
)
