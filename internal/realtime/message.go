package realtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"incubation_tracker/internal/models"
)

var errNotObject = errors.New("frame is not a JSON object")

// SystemStatusPayload carries the optional status-panel fields.
type SystemStatusPayload struct {
	Connection string `json:"connection,omitempty"`
	Power      string `json:"power,omitempty"`
	Security   string `json:"security,omitempty"`
}

// InboundAlert asks the client to raise a notification.
type InboundAlert struct {
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Type    models.NotificationKind `json:"type,omitempty"`
}

// Message is a decoded inbound frame. Every field is optional.
type Message struct {
	Temperature  *float64             `json:"temperature,omitempty"`
	Humidity     *float64             `json:"humidity,omitempty"`
	TurnStatus   *string              `json:"turnStatus,omitempty"`
	SystemStatus *SystemStatusPayload `json:"systemStatus,omitempty"`
	Alerts       []InboundAlert       `json:"alerts,omitempty"`

	// Raw is the original frame, for listeners interested in extra fields.
	Raw json.RawMessage `json:"-"`
}

// DecodeMessage parses one text frame. Non-object frames and type mismatches
// (e.g. "temperature":"hot") are errors.
func DecodeMessage(frame []byte) (Message, error) {
	trimmed := bytes.TrimSpace(frame)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Message{}, errNotObject
	}
	var m Message
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return Message{}, fmt.Errorf("decode frame: %w", err)
	}
	m.Raw = append(json.RawMessage(nil), trimmed...)
	return m, nil
}
