package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"incubation_tracker/internal/models"
	"incubation_tracker/internal/realtime"
)

func newTelemetryFixture(settings models.Settings, batches []models.Batch) (*TelemetryService, *memNotificationRepo) {
	notes := &memNotificationRepo{}
	svc := NewTelemetryService(
		&memBatchRepo{batches: batches},
		NewSettingsService(&memSettingsRepo{settings: &settings}, ""),
		NewNotificationService(notes, nil, nil),
		nil,
	)
	return svc, notes
}

func TestTelemetryService_Observe(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	active := []models.Batch{{ID: 7, BirdType: "chicken", StartDate: "2026-01-01", EggCount: 12}}

	cases := []struct {
		name      string
		settings  models.Settings
		batches   []models.Batch
		temp      float64
		wantAlert bool
	}{
		{name: "above tolerance", settings: models.DefaultSettings(), batches: active, temp: 38.1, wantAlert: true},
		{name: "below tolerance", settings: models.DefaultSettings(), batches: active, temp: 36.9, wantAlert: true},
		{name: "within tolerance", settings: models.DefaultSettings(), batches: active, temp: 37.9},
		{name: "exactly at tolerance", settings: models.DefaultSettings(), batches: active, temp: 37.0},
		{name: "alerts disabled", settings: models.Settings{AlertsEnabled: false, TemperatureTolerance: 0.5}, batches: active, temp: 40},
		{name: "no active batch uses default ideal", settings: models.DefaultSettings(), temp: 38.1, wantAlert: true},
		{name: "wider tolerance", settings: models.Settings{AlertsEnabled: true, TemperatureTolerance: 1}, batches: active, temp: 38.1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, notes := newTelemetryFixture(tc.settings, tc.batches)

			if err := svc.Observe(context.Background(), models.SensorSample{Temperature: tc.temp, Timestamp: at}); err != nil {
				t.Fatalf("Observe: %v", err)
			}
			got := notes.Appended()
			if !tc.wantAlert {
				if len(got) != 0 {
					t.Fatalf("unexpected notifications: %+v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("notifications = %d, want 1", len(got))
			}
			if got[0].Kind != models.KindWarning || !got[0].OccurredAt.Equal(at) {
				t.Fatalf("notification = %+v", got[0])
			}
		})
	}
}

func TestTelemetryService_Observe_MetadataNamesBatch(t *testing.T) {
	t.Parallel()

	svc, notes := newTelemetryFixture(models.DefaultSettings(), []models.Batch{
		{ID: 3, BirdType: "duck", StartDate: "2026-01-01", EggCount: 6},
	})
	at := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	if err := svc.Observe(context.Background(), models.SensorSample{Temperature: 36, Timestamp: at}); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	got := notes.Appended()
	if len(got) != 1 {
		t.Fatalf("notifications = %d", len(got))
	}
	meta, ok := got[0].Metadata.(map[string]any)
	if !ok {
		t.Fatalf("metadata type %T", got[0].Metadata)
	}
	if meta["batch_id"] != 3 || meta["ideal"] != 37.5 {
		t.Fatalf("metadata = %+v", meta)
	}
}

func TestTelemetryService_Observe_EachBreachAlerts(t *testing.T) {
	t.Parallel()

	svc, notes := newTelemetryFixture(models.DefaultSettings(), nil)
	for range 3 {
		if err := svc.Observe(context.Background(), models.SensorSample{Temperature: 39}); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}
	if n := len(notes.Appended()); n != 3 {
		t.Fatalf("notifications = %d, want 3", n)
	}
}

func TestTelemetryService_Observe_SettingsError(t *testing.T) {
	t.Parallel()

	svc := NewTelemetryService(
		&memBatchRepo{},
		NewSettingsService(&memSettingsRepo{loadErr: errors.New("db down")}, ""),
		NewNotificationService(&memNotificationRepo{}, nil, nil),
		nil,
	)
	if err := svc.Observe(context.Background(), models.SensorSample{Temperature: 40}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTelemetryService_ObserveLive(t *testing.T) {
	t.Parallel()

	svc, notes := newTelemetryFixture(models.DefaultSettings(), nil)
	svc.now = fixedClock(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	svc.ObserveLive(realtime.Message{})
	if n := len(notes.Appended()); n != 0 {
		t.Fatalf("message without temperature raised %d notifications", n)
	}

	temp := 38.6
	svc.ObserveLive(realtime.Message{Temperature: &temp})
	if n := len(notes.Appended()); n != 1 {
		t.Fatalf("notifications = %d, want 1", n)
	}
}
