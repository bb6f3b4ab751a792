package service

import (
	"context"
	"sync"
	"time"

	"incubation_tracker/internal/models"
)

// In-memory stand-ins for the repository interfaces.

type memBatchRepo struct {
	batches []models.Batch
	loadErr error
	saveErr error
	saves   int
}

func (r *memBatchRepo) LoadBatches(ctx context.Context) ([]models.Batch, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	out := make([]models.Batch, len(r.batches))
	copy(out, r.batches)
	return out, nil
}

func (r *memBatchRepo) SaveBatches(ctx context.Context, batches []models.Batch) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.batches = append([]models.Batch(nil), batches...)
	return nil
}

type memReminderRepo struct {
	reminders []models.Reminder
	loadErr   error
}

func (r *memReminderRepo) LoadReminders(ctx context.Context) ([]models.Reminder, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	out := make([]models.Reminder, len(r.reminders))
	copy(out, r.reminders)
	return out, nil
}

func (r *memReminderRepo) SaveReminders(ctx context.Context, reminders []models.Reminder) error {
	r.reminders = append([]models.Reminder(nil), reminders...)
	return nil
}

type memSettingsRepo struct {
	settings *models.Settings
	loadErr  error
}

func (r *memSettingsRepo) LoadSettings(ctx context.Context) (models.Settings, error) {
	if r.loadErr != nil {
		return models.Settings{}, r.loadErr
	}
	if r.settings == nil {
		return models.DefaultSettings(), nil
	}
	return *r.settings, nil
}

func (r *memSettingsRepo) SaveSettings(ctx context.Context, s models.Settings) error {
	r.settings = &s
	return nil
}

func (r *memSettingsRepo) SeedSettings(ctx context.Context, s models.Settings) (bool, error) {
	if r.settings != nil {
		return false, nil
	}
	r.settings = &s
	return true, nil
}

type memNotificationRepo struct {
	mu        sync.Mutex
	appended  []models.Notification
	appendErr error

	gotFrom, gotTo time.Time
	gotKind        string
	listResp       []models.Notification
}

func (r *memNotificationRepo) Append(ctx context.Context, n models.Notification) (models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return models.Notification{}, r.appendErr
	}
	if n.ID == "" {
		n.ID = "n-" + time.Now().Format("150405.000000000")
	}
	r.appended = append(r.appended, n)
	return n, nil
}

func (r *memNotificationRepo) List(ctx context.Context, from, to time.Time, kind string) ([]models.Notification, error) {
	r.gotFrom, r.gotTo, r.gotKind = from, to, kind
	return r.listResp, nil
}

func (r *memNotificationRepo) Appended() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.appended...)
}

type memSnapshotRepo struct {
	mu      sync.Mutex
	stored  *models.DashboardSnapshot
	loadErr error
	saves   int
}

func (r *memSnapshotRepo) Save(ctx context.Context, s models.DashboardSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.stored = &s
	return nil
}

func (r *memSnapshotRepo) Load(ctx context.Context) (models.DashboardSnapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return models.DashboardSnapshot{}, false, r.loadErr
	}
	if r.stored == nil {
		return models.DashboardSnapshot{}, false, nil
	}
	return *r.stored, true, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
