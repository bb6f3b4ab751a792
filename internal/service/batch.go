package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"incubation_tracker/internal/incubation"
	"incubation_tracker/internal/models"
	"incubation_tracker/internal/repository"
)

var (
	ErrBatchNotFound = errors.New("batch not found")
	ErrInvalidBatch  = errors.New("invalid batch")
)

// BatchView is a stored batch plus its derived timeline.
type BatchView struct {
	models.Batch
	Status           models.BatchStatus `json:"status,omitempty"`
	HatchDate        string             `json:"hatchDate,omitempty"`
	DaysSinceStart   int                `json:"daysSinceStart"`
	IncubationDays   int                `json:"incubationDays"`
	Progress         float64            `json:"progress"`
	IdealTemperature float64            `json:"idealTemperature"`
}

type BatchService struct {
	repo repository.BatchRepo
	now  func() time.Time

	// serializes load-modify-save of the batches document
	mu sync.Mutex
}

func NewBatchService(repo repository.BatchRepo, now func() time.Time) *BatchService {
	if now == nil {
		now = time.Now
	}
	return &BatchService{repo: repo, now: now}
}

func (in BatchInput) normalize() (BatchInput, error) {
	in.BirdType = strings.ToLower(strings.TrimSpace(in.BirdType))
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.Incubator = strings.TrimSpace(in.Incubator)

	if in.BirdType == "" {
		return in, fmt.Errorf("%w: bird type is required", ErrInvalidBatch)
	}
	if _, err := time.Parse(models.DateLayout, in.StartDate); err != nil {
		return in, fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrInvalidBatch)
	}
	if in.EggCount <= 0 {
		return in, fmt.Errorf("%w: egg count must be positive", ErrInvalidBatch)
	}
	return in, nil
}

func (s *BatchService) view(b models.Batch) BatchView {
	v := BatchView{
		Batch:            b,
		IncubationDays:   incubation.IncubationDays(b.BirdType),
		IdealTemperature: incubation.IdealTemperature(b.BirdType),
	}
	tl, err := incubation.Describe(b, s.now())
	if err != nil {
		// stored date is unreadable; show the batch without a timeline
		return v
	}
	v.Status = tl.Status
	v.HatchDate = tl.HatchDate.Format(models.DateLayout)
	v.DaysSinceStart = tl.DaysSinceStart
	v.Progress = tl.Progress
	return v
}

// ListBatches returns every batch in storage order.
func (s *BatchService) ListBatches(ctx context.Context) ([]BatchView, error) {
	batches, err := s.repo.LoadBatches(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BatchView, 0, len(batches))
	for _, b := range batches {
		out = append(out, s.view(b))
	}
	return out, nil
}

func (s *BatchService) GetBatch(ctx context.Context, id int) (BatchView, error) {
	batches, err := s.repo.LoadBatches(ctx)
	if err != nil {
		return BatchView{}, err
	}
	i := indexOfBatch(batches, id)
	if i < 0 {
		return BatchView{}, ErrBatchNotFound
	}
	return s.view(batches[i]), nil
}

// CreateBatch appends a batch with id = max(id)+1.
func (s *BatchService) CreateBatch(ctx context.Context, in BatchInput) (BatchView, error) {
	in, err := in.normalize()
	if err != nil {
		return BatchView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batches, err := s.repo.LoadBatches(ctx)
	if err != nil {
		return BatchView{}, err
	}
	b := models.Batch{
		ID:        incubation.NextID(batches),
		BirdType:  in.BirdType,
		StartDate: in.StartDate,
		EggCount:  in.EggCount,
		Incubator: models.Incubator(in.Incubator),
		Notes:     in.Notes,
	}
	if err := s.repo.SaveBatches(ctx, append(batches, b)); err != nil {
		return BatchView{}, err
	}
	return s.view(b), nil
}

// UpdateBatch replaces every field but the id.
func (s *BatchService) UpdateBatch(ctx context.Context, id int, in BatchInput) (BatchView, error) {
	in, err := in.normalize()
	if err != nil {
		return BatchView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batches, err := s.repo.LoadBatches(ctx)
	if err != nil {
		return BatchView{}, err
	}
	i := indexOfBatch(batches, id)
	if i < 0 {
		return BatchView{}, ErrBatchNotFound
	}
	batches[i] = models.Batch{
		ID:        id,
		BirdType:  in.BirdType,
		StartDate: in.StartDate,
		EggCount:  in.EggCount,
		Incubator: models.Incubator(in.Incubator),
		Notes:     in.Notes,
	}
	if err := s.repo.SaveBatches(ctx, batches); err != nil {
		return BatchView{}, err
	}
	return s.view(batches[i]), nil
}

func (s *BatchService) DeleteBatch(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batches, err := s.repo.LoadBatches(ctx)
	if err != nil {
		return err
	}
	i := indexOfBatch(batches, id)
	if i < 0 {
		return ErrBatchNotFound
	}
	return s.repo.SaveBatches(ctx, append(batches[:i], batches[i+1:]...))
}

func indexOfBatch(batches []models.Batch, id int) int {
	for i, b := range batches {
		if b.ID == id {
			return i
		}
	}
	return -1
}
