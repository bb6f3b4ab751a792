package realtime

import "time"

// isoMillis matches the browser's Date.toISOString output.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// NewEnvelope builds {command, timestamp, ...data}. Fields in data are applied
// last and win over command/timestamp, like an object spread.
func NewEnvelope(command string, data map[string]any, now time.Time) map[string]any {
	env := make(map[string]any, len(data)+2)
	env["command"] = command
	env["timestamp"] = now.UTC().Format(isoMillis)
	for k, v := range data {
		env[k] = v
	}
	return env
}
