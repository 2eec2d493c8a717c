// ABOUTME: Inventory asset records for APM, database, SAP, microservice and mobile licensing
// ABOUTME: Derived core and token counts are computed on read from the stored fields

package models

import "github.com/ulix1808/AppdyLicCalc/normalize"

// DefaultCoresPerNode applies when a core count is missing or unparsable.
const DefaultCoresPerNode = 4

// DefaultNodes applies when a node count is missing or unparsable.
const DefaultNodes = 1

// RUMTokensPerActiveAgentMonth is the monthly token cost of one mobile active agent.
const RUMTokensPerActiveAgentMonth = 160

// Application is a traditional application server in the inventory
type Application struct {
	Name                  string `json:"name"`
	Server                string `json:"server"`
	Type                  string `json:"type"`
	Nodes                 int    `json:"nodes"`
	CoresPerNode          int    `json:"cores_per_node"`
	IsWebApp              bool   `json:"is_web_app"`
	HasSecureApp          bool   `json:"has_secure_app"`
	SessionsUsersPerMonth *int   `json:"sessions_users_per_month"`
	Notes                 string `json:"notes"`
}

// TotalCores returns nodes × cores per node
func (a Application) TotalCores() int {
	return a.Nodes * a.CoresPerNode
}

// Database is a monitored database server
type Database struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	CoresPerNode int    `json:"cores_per_node"`
	Nodes        int    `json:"nodes"`
	OS           string `json:"os"`
	RelatedApp   string `json:"related_app"`
}

// TotalCores returns nodes × cores per node
func (d Database) TotalCores() int {
	return d.Nodes * d.CoresPerNode
}

// SAPApplication is an SAP system whose sizing is only known as free text,
// e.g. "ASCS 2 VCPU, Primario APP Server 16 VCPU".
type SAPApplication struct {
	Name     string `json:"name"`
	Server   string `json:"server"`
	Type     string `json:"type"`
	Nodes    int    `json:"nodes"`
	CoresStr string `json:"cores_str"`
}

// TotalCores sums the CPU-tagged integers of CoresStr per node,
// or assumes DefaultCoresPerNode when none are tagged.
func (s SAPApplication) TotalCores() int {
	return normalize.CoreCount(s.CoresStr, DefaultCoresPerNode, s.Nodes)
}

// Microservice is a container cluster licensed by its nodes' cores.
type Microservice struct {
	Name                  string `json:"name"`
	Server                string `json:"server"`
	Type                  string `json:"type"`
	Nodes                 int    `json:"nodes"`
	CoresPerNode          int    `json:"cores_per_node"`
	IsWebApp              bool   `json:"is_web_app"`
	SessionsUsersPerMonth *int   `json:"sessions_users_per_month"`
	Containers            *int   `json:"containers,omitempty"` // informational only
}

// TotalCores returns cluster nodes × cores per node
func (m Microservice) TotalCores() int {
	return m.Nodes * m.CoresPerNode
}

// ServerVisibilityOnly is a host monitored for OS metrics only.
type ServerVisibilityOnly struct {
	Name         string `json:"name"`
	Nodes        int    `json:"nodes"`
	CoresPerNode int    `json:"cores_per_node"`
	OS           string `json:"os"`
}

// TotalCores returns nodes × cores per node
func (s ServerVisibilityOnly) TotalCores() int {
	return s.Nodes * s.CoresPerNode
}

// MobileApp is a mobile application measured in monthly active agents.
type MobileApp struct {
	Name                 string `json:"name"`
	Type                 string `json:"type"`
	Platform             string `json:"platform"`
	IDE                  string `json:"ide"`
	ActiveAgentsPerMonth *int   `json:"active_agents_per_month"`
}

// ActiveAgents returns the monthly active agents, 0 when unknown.
func (m MobileApp) ActiveAgents() int {
	if m.ActiveAgentsPerMonth == nil {
		return 0
	}
	return *m.ActiveAgentsPerMonth
}

// RUMTokensPerMonth returns the monthly RUM token consumption of the app
// at tokensPerAgent tokens per active agent.
func (m MobileApp) RUMTokensPerMonth(tokensPerAgent int) int {
	return m.ActiveAgents() * tokensPerAgent
}

// Inventory groups the six asset categories of one calculation.
// A nil slice is treated as an empty category.
type Inventory struct {
	Applications         []Application          `json:"applications"`
	Databases            []Database             `json:"databases"`
	SAPApps              []SAPApplication       `json:"sap_apps"`
	Microservices        []Microservice         `json:"microservices"`
	ServerVisibilityOnly []ServerVisibilityOnly `json:"server_visibility_only"`
	MobileApps           []MobileApp            `json:"mobile_apps"`
}
