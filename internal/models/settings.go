package models

// Settings are the user preferences persisted next to batches and reminders.
type Settings struct {
	AlertsEnabled        bool    `json:"alertsEnabled"`
	TemperatureTolerance float64 `json:"temperatureTolerance"`
	RealtimeURL          string  `json:"realtimeUrl,omitempty"`
}

// DefaultSettings is what a fresh install (or a corrupt settings document) gets.
func DefaultSettings() Settings {
	return Settings{
		AlertsEnabled:        true,
		TemperatureTolerance: 0.5,
	}
}
