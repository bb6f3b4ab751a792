package service

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/models"
	"incubation_tracker/internal/repository"
)

// Simulation constants.
const (
	DefaultSimTick = 5 * time.Second

	SimTempSpread   = 2.0  // temperature = ideal - 1 + U(0, 2)
	SimHumidityBase = 50.0 // humidity = 50 + U(0, 10)
	SimHumiditySpan = 10.0
)

// liveFeed reports whether the realtime client is delivering readings.
type liveFeed interface {
	IsOpen() bool
}

type samplePublisher interface {
	PublishSample(sample models.SensorSample, source string)
}

type sampleObserver interface {
	Observe(ctx context.Context, sample models.SensorSample) error
}

// SimulatorService feeds plausible readings while no live feed is open.
type SimulatorService struct {
	live      liveFeed
	batches   repository.BatchRepo
	dashboard samplePublisher
	telemetry sampleObserver
	log       *logger.Logger

	// rand returns a uniform value in [0, 1).
	rand func() float64
}

func NewSimulatorService(live liveFeed, batches repository.BatchRepo, dashboard samplePublisher, telemetry sampleObserver, log *logger.Logger) *SimulatorService {
	return &SimulatorService{
		live:      live,
		batches:   batches,
		dashboard: dashboard,
		telemetry: telemetry,
		log:       logger.OrNop(log),
		rand:      rand.Float64,
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultSimTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.tick(ctx, now)
		}
	}
}

// tick produces one sample unless the live feed is open. It reports whether
// a sample was produced.
func (s *SimulatorService) tick(ctx context.Context, now time.Time) bool {
	if s.live != nil && s.live.IsOpen() {
		return false
	}

	ideal, _, err := activeIdeal(ctx, s.batches, now)
	if err != nil {
		// keep simulating around the default ideal
		s.log.Warnw("simulator_batches_unavailable", "err", err)
	}

	sample := models.SensorSample{
		Temperature: round1(ideal - SimTempSpread/2 + s.rand()*SimTempSpread),
		Humidity:    round1(SimHumidityBase + s.rand()*SimHumiditySpan),
		Timestamp:   now.UTC(),
	}
	s.dashboard.PublishSample(sample, models.SourceSimulated)

	if err := s.telemetry.Observe(ctx, sample); err != nil {
		s.log.Errorw("telemetry_observe_failed", "source", models.SourceSimulated, "err", err)
	}
	return true
}

// round1 rounds to one decimal place, as the readings are displayed.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
