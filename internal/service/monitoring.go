package service

import (
	"context"
	"sync"
	"time"

	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/models"
	"incubation_tracker/internal/realtime"
	"incubation_tracker/internal/repository"
)

const persistTimeout = 2 * time.Second

// DashboardService is the rendering collaborator for both feeds: the realtime
// client draws into it and the simulator publishes samples to it. Every
// change is persisted so a restart shows the last known values.
type DashboardService struct {
	repo repository.SnapshotRepo
	log  *logger.Logger
	now  func() time.Time

	mu          sync.Mutex
	snap        models.DashboardSnapshot
	hasReadings bool
}

func NewDashboardService(repo repository.SnapshotRepo, log *logger.Logger) *DashboardService {
	return &DashboardService{
		repo: repo,
		log:  logger.OrNop(log),
		now:  time.Now,
		snap: models.DashboardSnapshot{
			ID:           1,
			SystemStatus: defaultSystemStatus(),
			Connection:   string(realtime.StatusUnknown),
		},
	}
}

func defaultSystemStatus() models.SystemStatus {
	return realtime.ResolveSystemStatus(realtime.SystemStatusPayload{})
}

// GetSnapshot returns the in-memory snapshot, else the persisted one, else a
// baseline with no readings.
func (s *DashboardService) GetSnapshot(ctx context.Context) (models.DashboardSnapshot, error) {
	s.mu.Lock()
	snap, has := s.snap, s.hasReadings
	s.mu.Unlock()
	if has {
		return snap, nil
	}

	stored, ok, err := s.repo.Load(ctx)
	if err != nil {
		return models.DashboardSnapshot{}, err
	}
	if ok {
		stored.Connection = snap.Connection
		stored.UpdatedAt = toUTC(stored.UpdatedAt)
		return stored, nil
	}
	return s.baselineSnapshot(snap.Connection), nil
}

// baselineSnapshot is what an uninitialized DB shows.
func (s *DashboardService) baselineSnapshot(connection string) models.DashboardSnapshot {
	return models.DashboardSnapshot{
		ID:           1,
		SystemStatus: defaultSystemStatus(),
		Connection:   connection,
		UpdatedAt:    s.now().UTC(),
	}
}

func (s *DashboardService) ShowTemperature(g models.Gauge) {
	s.apply(models.SourceLive, func(d *models.DashboardSnapshot) { d.Temperature = &g })
}

func (s *DashboardService) ShowHumidity(g models.Gauge) {
	s.apply(models.SourceLive, func(d *models.DashboardSnapshot) { d.Humidity = &g })
}

func (s *DashboardService) ShowTurnStatus(status string) {
	s.apply(models.SourceLive, func(d *models.DashboardSnapshot) { d.TurnStatus = status })
}

func (s *DashboardService) ShowSystemStatus(st models.SystemStatus) {
	s.apply(models.SourceLive, func(d *models.DashboardSnapshot) { d.SystemStatus = st })
}

// PublishSample renders a sample produced outside the realtime client.
func (s *DashboardService) PublishSample(sample models.SensorSample, source string) {
	temp := realtime.TemperatureGauge(sample.Temperature)
	hum := realtime.HumidityGauge(sample.Humidity)
	s.apply(source, func(d *models.DashboardSnapshot) {
		d.Temperature = &temp
		d.Humidity = &hum
	})
}

// SetConnectionStatus is the realtime status indicator. It is kept in memory
// only; a restart starts from "unknown".
func (s *DashboardService) SetConnectionStatus(st realtime.Status) {
	s.mu.Lock()
	s.snap.Connection = string(st)
	s.mu.Unlock()
}

func (s *DashboardService) apply(source string, fn func(*models.DashboardSnapshot)) {
	s.mu.Lock()
	fn(&s.snap)
	s.snap.Source = source
	s.snap.UpdatedAt = s.now().UTC()
	s.hasReadings = true
	snap := s.snap
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.repo.Save(ctx, snap); err != nil {
		s.log.Warnw("dashboard_persist_failed", "err", err)
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
