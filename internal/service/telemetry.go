package service

import (
	"context"
	"time"

	"incubation_tracker/internal/alert"
	"incubation_tracker/internal/incubation"
	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/models"
	"incubation_tracker/internal/realtime"
	"incubation_tracker/internal/repository"
)

const observeTimeout = 5 * time.Second

type settingsReader interface {
	GetSettings(ctx context.Context) (models.Settings, error)
}

type notificationRecorder interface {
	Record(ctx context.Context, n models.Notification) (models.Notification, error)
}

// TelemetryService applies the alert policy to every sample, live or simulated,
// against the active batch's ideal temperature.
type TelemetryService struct {
	batches       repository.BatchRepo
	settings      settingsReader
	notifications notificationRecorder
	log           *logger.Logger
	now           func() time.Time
}

func NewTelemetryService(batches repository.BatchRepo, settings settingsReader, notifications notificationRecorder, log *logger.Logger) *TelemetryService {
	return &TelemetryService{
		batches:       batches,
		settings:      settings,
		notifications: notifications,
		log:           logger.OrNop(log),
		now:           time.Now,
	}
}

// activeIdeal returns the ideal temperature of the active batch, or the
// default when no batch is active.
func activeIdeal(ctx context.Context, repo repository.BatchRepo, now time.Time) (float64, *models.Batch, error) {
	batches, err := repo.LoadBatches(ctx)
	if err != nil {
		return incubation.DefaultIdealTemperature, nil, err
	}
	b, ok := incubation.ActiveBatch(batches, now)
	if !ok {
		return incubation.DefaultIdealTemperature, nil, nil
	}
	return incubation.IdealTemperature(b.BirdType), &b, nil
}

// Observe evaluates one sample and records a warning notification on breach.
func (s *TelemetryService) Observe(ctx context.Context, sample models.SensorSample) error {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return err
	}
	policy := alert.NewPolicy(settings.TemperatureTolerance, settings.AlertsEnabled)
	if !policy.Enabled {
		return nil
	}

	now := sample.Timestamp
	if now.IsZero() {
		now = s.now()
	}
	ideal, batch, err := activeIdeal(ctx, s.batches, now)
	if err != nil {
		return err
	}

	a, hit := policy.Evaluate(sample.Temperature, ideal)
	if !hit {
		return nil
	}
	meta := map[string]any{
		"temperature": a.Temperature,
		"ideal":       a.Ideal,
		"delta":       a.Delta,
		"tolerance":   policy.Tolerance,
	}
	if batch != nil {
		meta["batch_id"] = batch.ID
	}
	_, err = s.notifications.Record(ctx, models.Notification{
		OccurredAt: now.UTC(),
		Kind:       a.Kind,
		Title:      a.Title,
		Message:    a.Message,
		Metadata:   meta,
	})
	return err
}

// ObserveLive is registered as a realtime message listener. Messages without a
// temperature are ignored.
func (s *TelemetryService) ObserveLive(msg realtime.Message) {
	if msg.Temperature == nil {
		return
	}
	sample := models.SensorSample{Temperature: *msg.Temperature, Timestamp: s.now()}
	if msg.Humidity != nil {
		sample.Humidity = *msg.Humidity
	}

	ctx, cancel := context.WithTimeout(context.Background(), observeTimeout)
	defer cancel()
	if err := s.Observe(ctx, sample); err != nil {
		s.log.Errorw("telemetry_observe_failed", "source", models.SourceLive, "err", err)
	}
}
