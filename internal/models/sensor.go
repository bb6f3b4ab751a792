package models

import "time"

// SensorSample is one temperature/humidity reading, live or simulated.
type SensorSample struct {
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // %
	Timestamp   time.Time `json:"timestamp"`
}
