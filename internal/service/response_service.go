package service

import (
	"time"

	"incubation_tracker/internal/models"
	"incubation_tracker/internal/realtime"
)

// BatchInput holds the editable batch fields.
type BatchInput struct {
	BirdType  string // any non-empty value; unknown types use default periods
	StartDate string // YYYY-MM-DD
	EggCount  int    // > 0
	Incubator string
	Notes     string
}

// ReminderInput holds the fields of a new reminder.
type ReminderInput struct {
	Title       string
	Description string
	BatchID     int // optional; 0 means not tied to a batch
	DueAt       time.Time
}

// SettingsInput is a partial update; nil fields keep their current value.
type SettingsInput struct {
	AlertsEnabled        *bool
	TemperatureTolerance *float64
	RealtimeURL          *string
}

// NotificationFilter supports history filtering by time range and kind.
type NotificationFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Kind string    // "", "success", "warning", "error"
}

// RealtimeStatus describes the live connection.
type RealtimeStatus struct {
	State    string          `json:"state"`
	URL      string          `json:"url"`
	Attempts int             `json:"attempts"`
	Status   realtime.Status `json:"status"`
}

// Reminder list filters.
const (
	ReminderFilterAll       = "all"
	ReminderFilterPending   = "pending"
	ReminderFilterCompleted = "completed"
)

func matchesReminderFilter(r models.Reminder, filter string) bool {
	switch filter {
	case ReminderFilterPending:
		return !r.Completed
	case ReminderFilterCompleted:
		return r.Completed
	default:
		return true
	}
}
