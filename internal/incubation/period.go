// Package incubation derives batch status, progress and hatch dates.
// Everything here is pure: callers pass the clock in.
package incubation

import "incubation_tracker/internal/models"

const (
	// DefaultIncubationDays applies to bird types not in the table.
	DefaultIncubationDays = 21
	// DefaultIdealTemperature is used when no batch is active.
	DefaultIdealTemperature = 37.5
)

var incubationDays = map[string]int{
	models.BirdChicken:  21,
	models.BirdDuck:     28,
	models.BirdQuail:    17,
	models.BirdGoose:    30,
	models.BirdMuscovy:  35,
	models.BirdTurkey:   28,
	models.BirdPheasant: 24,
}

// Kept per species so the targets can diverge later.
var idealTemperatures = map[string]float64{
	models.BirdChicken:  37.5,
	models.BirdDuck:     37.5,
	models.BirdQuail:    37.5,
	models.BirdGoose:    37.5,
	models.BirdMuscovy:  37.5,
	models.BirdTurkey:   37.5,
	models.BirdPheasant: 37.5,
}

// IncubationDays returns the incubation period for a bird type.
func IncubationDays(birdType string) int {
	if d, ok := incubationDays[birdType]; ok {
		return d
	}
	return DefaultIncubationDays
}

// IdealTemperature returns the target temperature (°C) for a bird type.
func IdealTemperature(birdType string) float64 {
	if t, ok := idealTemperatures[birdType]; ok {
		return t
	}
	return DefaultIdealTemperature
}

// KnownBirdType reports whether birdType has its own table entry.
func KnownBirdType(birdType string) bool {
	_, ok := incubationDays[birdType]
	return ok
}
