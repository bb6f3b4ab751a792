// Package scheduler raises a notification for every reminder that falls due.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/models"
)

// DefaultSchedule checks reminders once a minute.
const DefaultSchedule = "@every 1m"

const runTimeout = 30 * time.Second

// Reminders is the part of the reminder service the scheduler needs.
type Reminders interface {
	DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error)
	MarkReminderNotified(ctx context.Context, id int, at time.Time) error
}

// Notifier raises a user-facing notification.
type Notifier interface {
	Notify(title, message string, kind models.NotificationKind)
}

// Scheduler runs the reminder check on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	reminders Reminders
	notifier  Notifier
	log       *logger.Logger
	now       func() time.Time
}

func New(schedule string, reminders Reminders, notifier Notifier, log *logger.Logger) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Scheduler{
		cron:      cron.New(),
		schedule:  schedule,
		reminders: reminders,
		notifier:  notifier,
		log:       logger.OrNop(log),
		now:       time.Now,
	}
}

// Start registers the job and starts the cron runner.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", s.schedule, err)
	}
	s.log.Infow("scheduler_started", "schedule", s.schedule)
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warnw("scheduler_stop_timeout")
	}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if _, err := s.Run(ctx); err != nil {
		s.log.Errorw("reminder_check_failed", "err", err)
	}
}

// Run notifies every due reminder once and returns how many were notified.
func (s *Scheduler) Run(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.reminders.DueReminders(ctx, now)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range due {
		msg := r.Description
		if msg == "" {
			msg = fmt.Sprintf("Reminder due at %s", r.DueAt.Local().Format("02/01 15:04"))
		}
		s.notifier.Notify(r.Title, msg, models.KindWarning)
		if err := s.reminders.MarkReminderNotified(ctx, r.ID, now); err != nil {
			s.log.Errorw("reminder_mark_failed", "id", r.ID, "err", err)
			continue
		}
		sent++
	}
	if sent > 0 {
		s.log.Infow("reminders_notified", "count", sent)
	}
	return sent, nil
}
