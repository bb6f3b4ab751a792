package service

import (
	"context"
	"time"

	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/models"
	"incubation_tracker/internal/realtime"
	"incubation_tracker/internal/repository"
)

// Batches manages incubation batches and their derived timeline.
type Batches interface {
	ListBatches(ctx context.Context) ([]BatchView, error)
	GetBatch(ctx context.Context, id int) (BatchView, error)
	CreateBatch(ctx context.Context, in BatchInput) (BatchView, error)
	UpdateBatch(ctx context.Context, id int, in BatchInput) (BatchView, error)
	DeleteBatch(ctx context.Context, id int) error
}

// Reminders manages user tasks and reports the ones that fell due.
type Reminders interface {
	ListReminders(ctx context.Context, filter string) ([]models.Reminder, error)
	CreateReminder(ctx context.Context, in ReminderInput) (models.Reminder, error)
	ToggleReminder(ctx context.Context, id int) (models.Reminder, error)
	DeleteReminder(ctx context.Context, id int) error
	DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error)
	MarkReminderNotified(ctx context.Context, id int, at time.Time) error
}

type Settings interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, in SettingsInput) (models.Settings, error)
	SeedSettings(ctx context.Context, defaults models.Settings) error
}

// Notifications is the user-facing notification log.
type Notifications interface {
	Notify(title, message string, kind models.NotificationKind)
	Record(ctx context.Context, n models.Notification) (models.Notification, error)
	ListNotifications(ctx context.Context, f NotificationFilter) ([]models.Notification, error)
}

// Monitoring exposes read-only dashboard state.
type Monitoring interface {
	GetSnapshot(ctx context.Context) (models.DashboardSnapshot, error)
}

// Telemetry runs sensor samples through the alert policy.
type Telemetry interface {
	Observe(ctx context.Context, sample models.SensorSample) error
	ObserveLive(msg realtime.Message)
}

// Simulator runs the background loop that feeds simulated readings while no
// live feed is open. Stop via context cancellation.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Realtime controls the live sensor connection.
type Realtime interface {
	ConnectRealtime(ctx context.Context, url string) error
	DisconnectRealtime()
	SendRealtimeCommand(command string, data map[string]any) error
	RealtimeStatus() RealtimeStatus
}

// Service aggregates all sub-services.
type Service struct {
	Batches
	Reminders
	Settings
	Notifications
	Monitoring
	Telemetry
	Simulator
	Realtime
}

// Deps carries the collaborators that do not come from the repository layer.
type Deps struct {
	Log         *logger.Logger
	Sink        Sink // optional
	Realtime    realtime.Config
	RealtimeURL string
	Dialer      realtime.Dialer // optional; gorilla's default dialer otherwise
	Now         func() time.Time
}

// NewService wires repositories into concrete services and builds the
// realtime client around the dashboard and notification services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	log := logger.OrNop(deps.Log)
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	notifications := NewNotificationService(repos.Notifications, deps.Sink, log.Named("notifications"))
	dashboard := NewDashboardService(repos.Snapshot, log.Named("dashboard"))
	settings := NewSettingsService(repos.Settings, deps.RealtimeURL)

	opts := []realtime.Option{
		realtime.WithDisplay(dashboard),
		realtime.WithNotifier(notifications),
		realtime.WithStatusIndicator(dashboard.SetConnectionStatus),
		realtime.WithLogger(log.Named("realtime")),
	}
	if deps.Dialer != nil {
		opts = append(opts, realtime.WithDialer(deps.Dialer))
	}
	client := realtime.NewClient(deps.Realtime, opts...)

	telemetry := NewTelemetryService(repos.Batches, settings, notifications, log.Named("telemetry"))
	telemetry.now = now
	client.OnMessage(telemetry.ObserveLive)

	simulator := NewSimulatorService(client, repos.Batches, dashboard, telemetry, log.Named("simulator"))

	return &Service{
		Batches:       NewBatchService(repos.Batches, now),
		Reminders:     NewReminderService(repos.Reminders, repos.Batches),
		Settings:      settings,
		Notifications: notifications,
		Monitoring:    dashboard,
		Telemetry:     telemetry,
		Simulator:     simulator,
		Realtime:      NewRealtimeService(client, settings, log.Named("realtime")),
	}
}
