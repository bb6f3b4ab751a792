package models

import "time"

// Gauge is a displayed reading plus its 0–100 fill percentage.
type Gauge struct {
	Text        string  `json:"text"`
	Value       float64 `json:"value"`
	FillPercent float64 `json:"fill_percent"`
}

// SystemStatus is the three-line status panel.
type SystemStatus struct {
	Connection string `json:"connection"`
	Power      string `json:"power"`
	Security   string `json:"security"`
}

// Reading sources.
const (
	SourceLive      = "live"
	SourceSimulated = "simulated"
)

// DashboardSnapshot is the last known state shown on the dashboard.
type DashboardSnapshot struct {
	ID           int          `json:"-"`
	Temperature  *Gauge       `json:"temperature,omitempty"`
	Humidity     *Gauge       `json:"humidity,omitempty"`
	TurnStatus   string       `json:"turn_status,omitempty"`
	SystemStatus SystemStatus `json:"system_status"`
	Connection   string       `json:"connection"` // connected | disconnected | error | unknown
	Source       string       `json:"source,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
