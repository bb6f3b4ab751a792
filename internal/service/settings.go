package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"incubation_tracker/internal/models"
	"incubation_tracker/internal/realtime"
	"incubation_tracker/internal/repository"
)

var ErrInvalidSettings = errors.New("invalid settings")

type SettingsService struct {
	repo       repository.SettingsRepo
	defaultURL string

	mu sync.Mutex
}

func NewSettingsService(repo repository.SettingsRepo, defaultURL string) *SettingsService {
	return &SettingsService{repo: repo, defaultURL: defaultURL}
}

// GetSettings returns the stored settings; an unset realtime URL reports the
// configured default.
func (s *SettingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	st, err := s.repo.LoadSettings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if st.RealtimeURL == "" {
		st.RealtimeURL = s.defaultURL
	}
	return st, nil
}

// SeedSettings stores defaults on first run; existing settings are kept.
func (s *SettingsService) SeedSettings(ctx context.Context, defaults models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.repo.SeedSettings(ctx, defaults)
	return err
}

func (s *SettingsService) UpdateSettings(ctx context.Context, in SettingsInput) (models.Settings, error) {
	if in.TemperatureTolerance != nil {
		tol := *in.TemperatureTolerance
		if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
			return models.Settings{}, fmt.Errorf("%w: temperature tolerance must be a non-negative number", ErrInvalidSettings)
		}
	}
	if in.RealtimeURL != nil {
		trimmed := strings.TrimSpace(*in.RealtimeURL)
		if trimmed != "" {
			if err := realtime.ValidateURL(trimmed); err != nil {
				return models.Settings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
			}
		}
		in.RealtimeURL = &trimmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.repo.LoadSettings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if in.AlertsEnabled != nil {
		st.AlertsEnabled = *in.AlertsEnabled
	}
	if in.TemperatureTolerance != nil {
		st.TemperatureTolerance = *in.TemperatureTolerance
	}
	if in.RealtimeURL != nil {
		st.RealtimeURL = *in.RealtimeURL
	}
	if err := s.repo.SaveSettings(ctx, st); err != nil {
		return models.Settings{}, err
	}
	if st.RealtimeURL == "" {
		st.RealtimeURL = s.defaultURL
	}
	return st, nil
}
