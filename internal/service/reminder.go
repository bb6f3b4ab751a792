package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"incubation_tracker/internal/models"
	"incubation_tracker/internal/repository"
)

var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrInvalidReminder  = errors.New("invalid reminder")
	ErrInvalidFilter    = errors.New("invalid filter: must be all, pending or completed")
)

type ReminderService struct {
	repo    repository.ReminderRepo
	batches repository.BatchRepo

	mu sync.Mutex
}

func NewReminderService(repo repository.ReminderRepo, batches repository.BatchRepo) *ReminderService {
	return &ReminderService{repo: repo, batches: batches}
}

// ListReminders returns reminders ordered by due time.
func (s *ReminderService) ListReminders(ctx context.Context, filter string) ([]models.Reminder, error) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	switch filter {
	case "":
		filter = ReminderFilterAll
	case ReminderFilterAll, ReminderFilterPending, ReminderFilterCompleted:
	default:
		return nil, ErrInvalidFilter
	}

	all, err := s.repo.LoadReminders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Reminder, 0, len(all))
	for _, r := range all {
		if matchesReminderFilter(r, filter) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out, nil
}

func (s *ReminderService) CreateReminder(ctx context.Context, in ReminderInput) (models.Reminder, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return models.Reminder{}, fmt.Errorf("%w: title is required", ErrInvalidReminder)
	}
	if in.DueAt.IsZero() {
		return models.Reminder{}, fmt.Errorf("%w: due time is required", ErrInvalidReminder)
	}
	if in.BatchID != 0 {
		batches, err := s.batches.LoadBatches(ctx)
		if err != nil {
			return models.Reminder{}, err
		}
		if indexOfBatch(batches, in.BatchID) < 0 {
			return models.Reminder{}, fmt.Errorf("%w: batch %d does not exist", ErrInvalidReminder, in.BatchID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.repo.LoadReminders(ctx)
	if err != nil {
		return models.Reminder{}, err
	}
	r := models.Reminder{
		ID:          nextReminderID(all),
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		BatchID:     in.BatchID,
		DueAt:       in.DueAt.UTC(),
	}
	if err := s.repo.SaveReminders(ctx, append(all, r)); err != nil {
		return models.Reminder{}, err
	}
	return r, nil
}

// ToggleReminder flips the completed flag.
func (s *ReminderService) ToggleReminder(ctx context.Context, id int) (models.Reminder, error) {
	var out models.Reminder
	err := s.update(ctx, id, func(r *models.Reminder) {
		r.Completed = !r.Completed
		out = *r
	})
	return out, err
}

func (s *ReminderService) DeleteReminder(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.repo.LoadReminders(ctx)
	if err != nil {
		return err
	}
	i := indexOfReminder(all, id)
	if i < 0 {
		return ErrReminderNotFound
	}
	return s.repo.SaveReminders(ctx, append(all[:i], all[i+1:]...))
}

// DueReminders returns pending reminders whose due time has passed and that
// were not notified yet.
func (s *ReminderService) DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	all, err := s.repo.LoadReminders(ctx)
	if err != nil {
		return nil, err
	}
	var due []models.Reminder
	for _, r := range all {
		if !r.Completed && r.NotifiedAt == nil && !r.DueAt.After(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (s *ReminderService) MarkReminderNotified(ctx context.Context, id int, at time.Time) error {
	at = at.UTC()
	return s.update(ctx, id, func(r *models.Reminder) { r.NotifiedAt = &at })
}

func (s *ReminderService) update(ctx context.Context, id int, fn func(*models.Reminder)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.repo.LoadReminders(ctx)
	if err != nil {
		return err
	}
	i := indexOfReminder(all, id)
	if i < 0 {
		return ErrReminderNotFound
	}
	fn(&all[i])
	return s.repo.SaveReminders(ctx, all)
}

func nextReminderID(all []models.Reminder) int {
	maxID := 0
	for _, r := range all {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	return maxID + 1
}

func indexOfReminder(all []models.Reminder, id int) int {
	for i, r := range all {
		if r.ID == id {
			return i
		}
	}
	return -1
}
