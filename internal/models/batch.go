package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DateLayout is the date-only format used for batch start dates.
const DateLayout = "2006-01-02"

// Known bird types. Unknown values are accepted and use default periods.
const (
	BirdChicken  = "chicken"
	BirdDuck     = "duck"
	BirdQuail    = "quail"
	BirdGoose    = "goose"
	BirdMuscovy  = "muscovy"
	BirdTurkey   = "turkey"
	BirdPheasant = "pheasant"
)

// Batch is a group of eggs incubated together.
// The JSON shape matches the documents kept by the browser client.
type Batch struct {
	ID        int       `json:"id"`
	BirdType  string    `json:"birdType"`
	StartDate string    `json:"startDate"` // YYYY-MM-DD, no time component
	EggCount  int       `json:"eggCount"`
	Incubator Incubator `json:"incubator"`
	Notes     string    `json:"notes,omitempty"`
}

// BatchStatus is derived from the batch start date, never stored.
type BatchStatus string

const (
	StatusActive    BatchStatus = "active"
	StatusHatching  BatchStatus = "hatching"
	StatusCompleted BatchStatus = "completed"
)

// Incubator is a free-form incubator label. Stored documents may hold it as a
// JSON string or a number; both decode to text and it always encodes as a string.
type Incubator string

func (i *Incubator) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*i = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = Incubator(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("incubator must be a string or a number: %s", data)
	}
	*i = Incubator(n.String())
	return nil
}
