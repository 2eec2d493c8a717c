// ABOUTME: Loosely typed request shapes accepted from forms and workbook imports
// ABOUTME: Conversion to typed records applies the normalization defaults

package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/ulix1808/AppdyLicCalc/normalize"
)

// LooseValue holds any JSON scalar: string, number, bool or null.
// Numbers are kept as json.Number so integers survive round trips.
type LooseValue struct {
	raw any
}

// Loose wraps a Go value. A nil *int becomes null.
func Loose(v any) LooseValue {
	if p, ok := v.(*int); ok {
		if p == nil {
			return LooseValue{}
		}
		return LooseValue{raw: *p}
	}
	return LooseValue{raw: v}
}

func (v *LooseValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	v.raw = raw
	return nil
}

func (v LooseValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// Value returns the wrapped value.
func (v LooseValue) Value() any {
	return v.raw
}

// IsZero reports null, "", false and numeric zero.
func (v LooseValue) IsZero() bool {
	switch x := v.raw.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case int:
		return x == 0
	case float64:
		return x == 0
	default:
		return false
	}
}

// Text renders the value as text; null renders as "".
func (v LooseValue) Text() string {
	switch x := v.raw.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// optionalInt parses a strict integer: "500", 500 or 500.0. Fractions are
// truncated; text, negatives and null yield nil.
func (v LooseValue) optionalInt() *int {
	var f float64
	switch x := v.raw.(type) {
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return nil
		}
		f = float64(n)
	case int:
		f = float64(x)
	case float64:
		f = x
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	n := int(f)
	return &n
}

// intOr parses a signed whole number, truncating fractions. Missing, zero
// and unparseable values yield fallback; negatives are kept.
func (v LooseValue) intOr(fallback int) int {
	var f float64
	switch x := v.raw.(type) {
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return fallback
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return fallback
		}
		f = parsed
	case int:
		f = float64(x)
	case float64:
		f = x
	default:
		return fallback
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	if n := int(f); n != 0 {
		return n
	}
	return fallback
}

// optionalPositive is PositiveInt for optional fields: anything that
// would fall back yields nil.
func (v LooseValue) optionalPositive() *int {
	n := normalize.PositiveInt(v.raw, 0)
	if n == 0 {
		return nil
	}
	return &n
}

// YesNo renders a flag the way inventory sheets spell it.
func YesNo(b bool) LooseValue {
	if b {
		return LooseValue{raw: "Si"}
	}
	return LooseValue{raw: "No"}
}

type ApplicationInput struct {
	Name                  string     `json:"name"`
	Server                string     `json:"server"`
	Type                  string     `json:"type"`
	Nodes                 LooseValue `json:"nodes"`
	CoresPerNode          LooseValue `json:"cores_per_node"`
	IsWebApp              LooseValue `json:"is_web_app"`
	HasSecureApp          LooseValue `json:"has_secure_app"`
	SessionsUsersPerMonth LooseValue `json:"sessions_users_per_month"`
	Notes                 string     `json:"notes"`
}

type DatabaseInput struct {
	Name         string     `json:"name"`
	Version      LooseValue `json:"version"`
	CoresPerNode LooseValue `json:"cores_per_node"`
	Nodes        LooseValue `json:"nodes"`
	OS           string     `json:"os"`
	RelatedApp   string     `json:"related_app"`
}

type SAPApplicationInput struct {
	Name     string     `json:"name"`
	Server   string     `json:"server"`
	Type     string     `json:"type"`
	Nodes    LooseValue `json:"nodes"`
	CoresStr LooseValue `json:"cores_str"`
}

type MicroserviceInput struct {
	Name                  string     `json:"name"`
	Server                string     `json:"server"`
	Type                  string     `json:"type"`
	Nodes                 LooseValue `json:"nodes"`
	CoresPerNode          LooseValue `json:"cores_per_node"`
	IsWebApp              LooseValue `json:"is_web_app"`
	SessionsUsersPerMonth LooseValue `json:"sessions_users_per_month"`
	Containers            LooseValue `json:"containers,omitzero"`
}

type ServerVisibilityOnlyInput struct {
	Name         string     `json:"name"`
	Nodes        LooseValue `json:"nodes"`
	CoresPerNode LooseValue `json:"cores_per_node"`
	OS           string     `json:"os"`
}

type MobileAppInput struct {
	Name                 string     `json:"name"`
	Type                 string     `json:"type"`
	Platform             string     `json:"platform"`
	IDE                  string     `json:"ide"`
	ActiveAgentsPerMonth LooseValue `json:"active_agents_per_month"`
}

// CalculateRequest is the body of the license calculation endpoint.
type CalculateRequest struct {
	Applications         []ApplicationInput          `json:"applications"`
	Databases            []DatabaseInput             `json:"databases"`
	SAPApps              []SAPApplicationInput       `json:"sap_apps"`
	Microservices        []MicroserviceInput         `json:"microservices"`
	ServerVisibilityOnly []ServerVisibilityOnlyInput `json:"server_visibility_only"`
	MobileApps           []MobileAppInput            `json:"mobile_apps"`
}

// ToInventory converts the request into typed records. It never fails:
// missing or unparsable fields take their documented defaults.
func (r CalculateRequest) ToInventory() Inventory {
	inv := Inventory{
		Applications:         make([]Application, 0, len(r.Applications)),
		Databases:            make([]Database, 0, len(r.Databases)),
		SAPApps:              make([]SAPApplication, 0, len(r.SAPApps)),
		Microservices:        make([]Microservice, 0, len(r.Microservices)),
		ServerVisibilityOnly: make([]ServerVisibilityOnly, 0, len(r.ServerVisibilityOnly)),
		MobileApps:           make([]MobileApp, 0, len(r.MobileApps)),
	}

	for _, a := range r.Applications {
		inv.Applications = append(inv.Applications, Application{
			Name:                  a.Name,
			Server:                a.Server,
			Type:                  a.Type,
			Nodes:                 normalize.PositiveInt(a.Nodes.Value(), DefaultNodes),
			CoresPerNode:          normalize.PositiveInt(a.CoresPerNode.Value(), DefaultCoresPerNode),
			IsWebApp:              normalize.Affirmative(a.IsWebApp.Value()),
			HasSecureApp:          normalize.Affirmative(a.HasSecureApp.Value()),
			SessionsUsersPerMonth: normalize.CountPtr(a.SessionsUsersPerMonth.Value()),
			Notes:                 a.Notes,
		})
	}

	for _, d := range r.Databases {
		inv.Databases = append(inv.Databases, Database{
			Name:         d.Name,
			Version:      d.Version.Text(),
			CoresPerNode: normalize.PositiveInt(d.CoresPerNode.Value(), DefaultCoresPerNode),
			Nodes:        normalize.PositiveInt(d.Nodes.Value(), DefaultNodes),
			OS:           d.OS,
			RelatedApp:   d.RelatedApp,
		})
	}

	for _, s := range r.SAPApps {
		coresStr := s.CoresStr.Text()
		if s.CoresStr.Value() == nil {
			coresStr = strconv.Itoa(DefaultCoresPerNode)
		}
		inv.SAPApps = append(inv.SAPApps, SAPApplication{
			Name:     s.Name,
			Server:   s.Server,
			Type:     s.Type,
			Nodes:    normalize.PositiveInt(s.Nodes.Value(), DefaultNodes),
			CoresStr: coresStr,
		})
	}

	for _, m := range r.Microservices {
		inv.Microservices = append(inv.Microservices, Microservice{
			Name:                  m.Name,
			Server:                m.Server,
			Type:                  m.Type,
			Nodes:                 normalize.PositiveInt(m.Nodes.Value(), DefaultNodes),
			CoresPerNode:          normalize.PositiveInt(m.CoresPerNode.Value(), DefaultCoresPerNode),
			IsWebApp:              normalize.Affirmative(m.IsWebApp.Value()),
			SessionsUsersPerMonth: normalize.CountPtr(m.SessionsUsersPerMonth.Value()),
			Containers:            m.Containers.optionalInt(),
		})
	}

	for _, s := range r.ServerVisibilityOnly {
		inv.ServerVisibilityOnly = append(inv.ServerVisibilityOnly, ServerVisibilityOnly{
			Name:         s.Name,
			Nodes:        normalize.PositiveInt(s.Nodes.Value(), DefaultNodes),
			CoresPerNode: normalize.PositiveInt(s.CoresPerNode.Value(), DefaultCoresPerNode),
			OS:           s.OS,
		})
	}

	for _, ma := range r.MobileApps {
		inv.MobileApps = append(inv.MobileApps, MobileApp{
			Name:                 ma.Name,
			Type:                 ma.Type,
			Platform:             ma.Platform,
			IDE:                  ma.IDE,
			ActiveAgentsPerMonth: ma.ActiveAgentsPerMonth.optionalInt(),
		})
	}

	return inv
}

// NewCalculateRequest renders typed records back into the loose shape,
// with flags spelled Si/No.
func NewCalculateRequest(inv Inventory) CalculateRequest {
	r := CalculateRequest{
		Applications:         make([]ApplicationInput, 0, len(inv.Applications)),
		Databases:            make([]DatabaseInput, 0, len(inv.Databases)),
		SAPApps:              make([]SAPApplicationInput, 0, len(inv.SAPApps)),
		Microservices:        make([]MicroserviceInput, 0, len(inv.Microservices)),
		ServerVisibilityOnly: make([]ServerVisibilityOnlyInput, 0, len(inv.ServerVisibilityOnly)),
		MobileApps:           make([]MobileAppInput, 0, len(inv.MobileApps)),
	}

	for _, a := range inv.Applications {
		r.Applications = append(r.Applications, ApplicationInput{
			Name:                  a.Name,
			Server:                a.Server,
			Type:                  a.Type,
			Nodes:                 Loose(a.Nodes),
			CoresPerNode:          Loose(a.CoresPerNode),
			IsWebApp:              YesNo(a.IsWebApp),
			HasSecureApp:          YesNo(a.HasSecureApp),
			SessionsUsersPerMonth: Loose(a.SessionsUsersPerMonth),
			Notes:                 a.Notes,
		})
	}
	for _, d := range inv.Databases {
		r.Databases = append(r.Databases, DatabaseInput{
			Name:         d.Name,
			Version:      Loose(d.Version),
			CoresPerNode: Loose(d.CoresPerNode),
			Nodes:        Loose(d.Nodes),
			OS:           d.OS,
			RelatedApp:   d.RelatedApp,
		})
	}
	for _, s := range inv.SAPApps {
		r.SAPApps = append(r.SAPApps, SAPApplicationInput{
			Name:     s.Name,
			Server:   s.Server,
			Type:     s.Type,
			Nodes:    Loose(s.Nodes),
			CoresStr: Loose(s.CoresStr),
		})
	}
	for _, m := range inv.Microservices {
		r.Microservices = append(r.Microservices, MicroserviceInput{
			Name:                  m.Name,
			Server:                m.Server,
			Type:                  m.Type,
			Nodes:                 Loose(m.Nodes),
			CoresPerNode:          Loose(m.CoresPerNode),
			IsWebApp:              YesNo(m.IsWebApp),
			SessionsUsersPerMonth: Loose(m.SessionsUsersPerMonth),
			Containers:            Loose(m.Containers),
		})
	}
	for _, s := range inv.ServerVisibilityOnly {
		r.ServerVisibilityOnly = append(r.ServerVisibilityOnly, ServerVisibilityOnlyInput{
			Name:         s.Name,
			Nodes:        Loose(s.Nodes),
			CoresPerNode: Loose(s.CoresPerNode),
			OS:           s.OS,
		})
	}
	for _, ma := range inv.MobileApps {
		r.MobileApps = append(r.MobileApps, MobileAppInput{
			Name:                 ma.Name,
			Type:                 ma.Type,
			Platform:             ma.Platform,
			IDE:                  ma.IDE,
			ActiveAgentsPerMonth: Loose(ma.ActiveAgentsPerMonth),
		})
	}
	return r
}

// NetworkTestInput is one loosely typed network test.
type NetworkTestInput struct {
	TestType           LooseValue `json:"test_type"`
	IntervalMinutes    LooseValue `json:"interval_minutes"`
	NumAgents          LooseValue `json:"num_agents"`
	AgentType          LooseValue `json:"agent_type"`
	TimeoutSeconds     LooseValue `json:"timeout_seconds"`
	DNSServers         LooseValue `json:"dns_servers,omitzero"`
	RTPDurationSeconds LooseValue `json:"rtp_duration_seconds,omitzero"`
}

// NetworkTestRequest is the body of the network-test calculation endpoint.
type NetworkTestRequest struct {
	Tests []NetworkTestInput `json:"thousandeyes_tests"`
}

// ToTests converts the request into typed tests. Entries without a test
// type are dropped; other missing fields take their defaults.
func (r NetworkTestRequest) ToTests() []ThousandEyesTest {
	tests := make([]ThousandEyesTest, 0, len(r.Tests))
	for _, t := range r.Tests {
		if t.TestType.IsZero() {
			continue
		}
		agentType := strings.TrimSpace(t.AgentType.Text())
		if agentType == "" {
			agentType = DefaultAgentType
		}
		// An RTP duration only applies when no timeout was given
		rtpDuration := t.RTPDurationSeconds.optionalPositive()
		var timeout *int
		if rtpDuration == nil || !t.TimeoutSeconds.IsZero() {
			n := normalize.PositiveInt(t.TimeoutSeconds.Value(), DefaultTimeoutSeconds)
			timeout = &n
		}
		tests = append(tests, ThousandEyesTest{
			TestType:           t.TestType.Text(),
			IntervalMinutes:    t.IntervalMinutes.intOr(DefaultIntervalMinutes),
			NumAgents:          normalize.PositiveInt(t.NumAgents.Value(), DefaultNumAgents),
			AgentType:          agentType,
			TimeoutSeconds:     timeout,
			DNSServers:         t.DNSServers.optionalPositive(),
			RTPDurationSeconds: rtpDuration,
		})
	}
	return tests
}

// NewNetworkTestRequest renders typed tests back into the loose shape.
func NewNetworkTestRequest(tests []ThousandEyesTest) NetworkTestRequest {
	r := NetworkTestRequest{Tests: make([]NetworkTestInput, 0, len(tests))}
	for _, t := range tests {
		r.Tests = append(r.Tests, NetworkTestInput{
			TestType:           Loose(t.TestType),
			IntervalMinutes:    Loose(t.IntervalMinutes),
			NumAgents:          Loose(t.NumAgents),
			AgentType:          Loose(t.AgentType),
			TimeoutSeconds:     Loose(t.TimeoutSeconds),
			DNSServers:         Loose(t.DNSServers),
			RTPDurationSeconds: Loose(t.RTPDurationSeconds),
		})
	}
	return r
}

// ImportResult is what a workbook import yields: an inventory ready to be
// posted to the license endpoint plus the network tests found.
type ImportResult struct {
	CalculateRequest
	ThousandEyesTests []NetworkTestInput `json:"thousandeyes_tests"`
}

// NewImportResult builds an ImportResult from typed records.
func NewImportResult(inv Inventory, tests []ThousandEyesTest) ImportResult {
	return ImportResult{
		CalculateRequest:  NewCalculateRequest(inv),
		ThousandEyesTests: NewNetworkTestRequest(tests).Tests,
	}
}
