package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/models"
	"incubation_tracker/internal/repository"
)

// Sink forwards notifications outside the process (e.g. a webhook).
type Sink interface {
	Send(ctx context.Context, n models.Notification) error
}

const notifyTimeout = 10 * time.Second

var (
	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	ErrInvalidKind      = errors.New("invalid kind: must be success, warning or error")
)

// NotificationService is the notification log: every notification is logged,
// persisted and forwarded to the optional sink.
type NotificationService struct {
	repo repository.NotificationRepo
	sink Sink
	log  *logger.Logger
	now  func() time.Time
}

func NewNotificationService(repo repository.NotificationRepo, sink Sink, log *logger.Logger) *NotificationService {
	return &NotificationService{repo: repo, sink: sink, log: logger.OrNop(log), now: time.Now}
}

// Notify is fire and forget; failures are logged.
func (s *NotificationService) Notify(title, message string, kind models.NotificationKind) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if _, err := s.Record(ctx, models.Notification{Title: title, Message: message, Kind: kind}); err != nil {
		s.log.Errorw("notification_record_failed", "title", title, "err", err)
	}
}

// Record persists n and forwards it to the sink. Unknown kinds become warnings.
// A sink failure is logged and does not fail the call.
func (s *NotificationService) Record(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.Kind = models.NotificationKind(normalizeKind(string(n.Kind)))
	if !n.Kind.Valid() {
		n.Kind = models.KindWarning
	}
	if n.OccurredAt.IsZero() {
		n.OccurredAt = s.now().UTC()
	}

	stored, err := s.repo.Append(ctx, n)
	if err != nil {
		return models.Notification{}, err
	}
	s.log.Infow("notification", "id", stored.ID, "kind", stored.Kind, "title", stored.Title, "message", stored.Message)

	if s.sink != nil {
		if err := s.sink.Send(ctx, stored); err != nil {
			s.log.Warnw("notification_sink_failed", "id", stored.ID, "err", err)
		}
	}
	return stored, nil
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeKind trims spaces and lowercases the kind filter.
func normalizeKind(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f NotificationFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	kind := normalizeKind(f.Kind)
	if kind != "" && !models.NotificationKind(kind).Valid() {
		return time.Time{}, time.Time{}, "", ErrInvalidKind
	}
	return from, to, kind, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, f NotificationFilter) ([]models.Notification, error) {
	from, to, kind, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, from, to, kind)
}
