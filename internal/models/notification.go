package models

import "time"

// NotificationKind is the severity shown to the user.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindWarning NotificationKind = "warning"
	KindError   NotificationKind = "error"
)

// Valid reports whether k is one of the known kinds.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindSuccess, KindWarning, KindError:
		return true
	}
	return false
}

// Notification is a single user-facing message kept in the notification log.
type Notification struct {
	ID         string           `json:"id"`
	OccurredAt time.Time        `json:"occurred_at"`
	Kind       NotificationKind `json:"kind"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Metadata   any              `json:"metadata,omitempty"`
}
