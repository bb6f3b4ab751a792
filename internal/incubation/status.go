package incubation

import (
	"fmt"
	"time"

	"incubation_tracker/internal/models"
)

const (
	msPerDay = int64(24 * time.Hour / time.Millisecond)

	// hatching starts this many days before the period ends...
	hatchLeadDays = 2
	// ...and lasts until this many days after it.
	hatchTrailDays = 3

	// ActiveWindowDays is the species-independent cutoff used to pick the active batch.
	ActiveWindowDays = 21
)

// Timeline is everything derived from a batch at a given instant.
type Timeline struct {
	Start          time.Time          `json:"-"`
	HatchDate      time.Time          `json:"-"`
	DaysSinceStart int                `json:"days_since_start"`
	IncubationDays int                `json:"incubation_days"`
	Status         models.BatchStatus `json:"status"`
	Progress       float64            `json:"progress"`
}

// ParseStartDate parses a YYYY-MM-DD start date at midnight in loc.
func ParseStartDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(models.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start date %q: %w", s, err)
	}
	return t, nil
}

// DaysSinceStart floors the millisecond difference to whole days.
func DaysSinceStart(start, now time.Time) int {
	ms := now.Sub(start).Milliseconds()
	days := ms / msPerDay
	if ms%msPerDay != 0 && ms < 0 {
		days--
	}
	return int(days)
}

// StatusFor maps elapsed days onto the three status ranges.
func StatusFor(daysSinceStart, incubationDays int) models.BatchStatus {
	switch {
	case daysSinceStart < incubationDays-hatchLeadDays:
		return models.StatusActive
	case daysSinceStart < incubationDays+hatchTrailDays:
		return models.StatusHatching
	default:
		return models.StatusCompleted
	}
}

// Status returns the batch status at now. The start date is read in now's location.
func Status(b models.Batch, now time.Time) (models.BatchStatus, error) {
	start, err := ParseStartDate(b.StartDate, now.Location())
	if err != nil {
		return "", err
	}
	return StatusFor(DaysSinceStart(start, now), IncubationDays(b.BirdType)), nil
}

// HatchDate is the start date plus the incubation period, in calendar days.
func HatchDate(b models.Batch, loc *time.Location) (time.Time, error) {
	start, err := ParseStartDate(b.StartDate, loc)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, IncubationDays(b.BirdType)), nil
}

// Progress is the elapsed share of the incubation period, clamped to [0, 100].
func Progress(daysSinceStart, incubationDays int) float64 {
	if incubationDays <= 0 {
		return 100
	}
	p := float64(daysSinceStart) / float64(incubationDays) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Describe computes the full timeline of b at now.
func Describe(b models.Batch, now time.Time) (Timeline, error) {
	start, err := ParseStartDate(b.StartDate, now.Location())
	if err != nil {
		return Timeline{}, err
	}
	n := IncubationDays(b.BirdType)
	d := DaysSinceStart(start, now)
	return Timeline{
		Start:          start,
		HatchDate:      start.AddDate(0, 0, n),
		DaysSinceStart: d,
		IncubationDays: n,
		Status:         StatusFor(d, n),
		Progress:       Progress(d, n),
	}, nil
}

// NextID returns max(id)+1, or 1 for an empty collection.
func NextID(batches []models.Batch) int {
	maxID := 0
	for _, b := range batches {
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	return maxID + 1
}

// ActiveBatch returns the first batch, in storage order, started less than
// ActiveWindowDays ago. Batches with unparseable dates are skipped.
//
// The cutoff ignores the species period on purpose; see DESIGN.md.
func ActiveBatch(batches []models.Batch, now time.Time) (models.Batch, bool) {
	for _, b := range batches {
		start, err := ParseStartDate(b.StartDate, now.Location())
		if err != nil {
			continue
		}
		if DaysSinceStart(start, now) < ActiveWindowDays {
			return b, true
		}
	}
	return models.Batch{}, false
}
