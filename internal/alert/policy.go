// Package alert decides when a temperature reading deserves a user-facing alert.
package alert

import (
	"fmt"
	"math"

	"incubation_tracker/internal/models"
)

// DefaultTolerance is the allowed deviation (°C) from the ideal temperature.
const DefaultTolerance = 0.5

// Alert is a breach worth notifying about.
type Alert struct {
	Title       string
	Message     string
	Kind        models.NotificationKind
	Temperature float64
	Ideal       float64
	Delta       float64
}

// Policy is stateless: every breaching evaluation yields a new alert.
type Policy struct {
	Tolerance float64
	Enabled   bool
}

// NewPolicy builds a policy; a negative tolerance falls back to DefaultTolerance.
func NewPolicy(tolerance float64, enabled bool) Policy {
	if tolerance < 0 || math.IsNaN(tolerance) {
		tolerance = DefaultTolerance
	}
	return Policy{Tolerance: tolerance, Enabled: enabled}
}

// Evaluate reports an alert when the policy is enabled and |temperature-ideal| > tolerance.
func (p Policy) Evaluate(temperature, ideal float64) (Alert, bool) {
	if !p.Enabled {
		return Alert{}, false
	}
	delta := temperature - ideal
	if math.Abs(delta) <= p.Tolerance {
		return Alert{}, false
	}
	return Alert{
		Title: "Temperature alert",
		Message: fmt.Sprintf("Temperature %.1f°C is outside the ideal %.1f°C (±%.1f°C)",
			temperature, ideal, p.Tolerance),
		Kind:        models.KindWarning,
		Temperature: temperature,
		Ideal:       ideal,
		Delta:       delta,
	}, true
}
