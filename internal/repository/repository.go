package repository

import (
	"context"
	"database/sql"
	"time"

	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/models"
)

type BatchRepo interface {
	LoadBatches(ctx context.Context) ([]models.Batch, error)
	SaveBatches(ctx context.Context, batches []models.Batch) error
}

type ReminderRepo interface {
	LoadReminders(ctx context.Context) ([]models.Reminder, error)
	SaveReminders(ctx context.Context, reminders []models.Reminder) error
}

type SettingsRepo interface {
	LoadSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) error
	SeedSettings(ctx context.Context, s models.Settings) (bool, error)
}

type NotificationRepo interface {
	Append(ctx context.Context, n models.Notification) (models.Notification, error)
	List(ctx context.Context, from, to time.Time, kind string) ([]models.Notification, error)
}

type SnapshotRepo interface {
	Save(ctx context.Context, s models.DashboardSnapshot) error
	Load(ctx context.Context) (models.DashboardSnapshot, bool, error)
}

type Repository struct {
	Batches       BatchRepo
	Reminders     ReminderRepo
	Settings      SettingsRepo
	Notifications NotificationRepo
	Snapshot      SnapshotRepo
}

func NewRepository(db *sql.DB, log *logger.Logger) *Repository {
	collections := NewCollectionSQLite(NewDocumentSQLite(db), log)
	return &Repository{
		Batches:       collections,
		Reminders:     collections,
		Settings:      collections,
		Notifications: NewNotificationSQLite(db),
		Snapshot:      NewSnapshotSQLite(db),
	}
}
