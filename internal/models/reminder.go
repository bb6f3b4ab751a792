package models

import "time"

// Reminder is a user task, optionally tied to a batch (e.g. candling, lockdown).
type Reminder struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	BatchID     int        `json:"batchId,omitempty"`
	DueAt       time.Time  `json:"dueAt"`
	Completed   bool       `json:"completed"`
	NotifiedAt  *time.Time `json:"notifiedAt,omitempty"`
}
