package service

import (
	"context"
	"strings"

	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/realtime"
)

// realtimeClient is the part of *realtime.Client the service drives.
type realtimeClient interface {
	Reconnect(url string) error
	Disconnect()
	SendCommand(command string, data map[string]any) error
	State() realtime.State
	URL() string
	Attempts() int
}

// RealtimeService resolves the target URL from settings and drives the client.
type RealtimeService struct {
	client   realtimeClient
	settings settingsReader
	log      *logger.Logger
}

func NewRealtimeService(client realtimeClient, settings settingsReader, log *logger.Logger) *RealtimeService {
	return &RealtimeService{client: client, settings: settings, log: logger.OrNop(log)}
}

// ConnectRealtime (re)connects with a fresh attempt budget. An empty url uses
// the one from settings.
func (s *RealtimeService) ConnectRealtime(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		st, err := s.settings.GetSettings(ctx)
		if err != nil {
			return err
		}
		url = st.RealtimeURL
	}
	if err := s.client.Reconnect(url); err != nil {
		return err
	}
	s.log.Infow("realtime_connect_requested", "url", url)
	return nil
}

func (s *RealtimeService) DisconnectRealtime() {
	s.client.Disconnect()
	s.log.Infow("realtime_disconnect_requested")
}

func (s *RealtimeService) SendRealtimeCommand(command string, data map[string]any) error {
	return s.client.SendCommand(command, data)
}

func (s *RealtimeService) RealtimeStatus() RealtimeStatus {
	state := s.client.State()
	return RealtimeStatus{
		State:    state.String(),
		URL:      s.client.URL(),
		Attempts: s.client.Attempts(),
		Status:   statusForState(state),
	}
}

func statusForState(st realtime.State) realtime.Status {
	switch st {
	case realtime.StateOpen:
		return realtime.StatusConnected
	case realtime.StateClosed:
		return realtime.StatusDisconnected
	default:
		return realtime.StatusUnknown
	}
}
