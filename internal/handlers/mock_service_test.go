package handlers

import (
	"context"
	"time"

	"incubation_tracker/internal/models"
	"incubation_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockBatches struct {
	list      []service.BatchView
	view      service.BatchView
	err       error
	lastID    int
	lastInput service.BatchInput
	deleted   []int
}

func (m *mockBatches) ListBatches(ctx context.Context) ([]service.BatchView, error) {
	return m.list, m.err
}
func (m *mockBatches) GetBatch(ctx context.Context, id int) (service.BatchView, error) {
	m.lastID = id
	return m.view, m.err
}
func (m *mockBatches) CreateBatch(ctx context.Context, in service.BatchInput) (service.BatchView, error) {
	m.lastInput = in
	return m.view, m.err
}
func (m *mockBatches) UpdateBatch(ctx context.Context, id int, in service.BatchInput) (service.BatchView, error) {
	m.lastID = id
	m.lastInput = in
	return m.view, m.err
}
func (m *mockBatches) DeleteBatch(ctx context.Context, id int) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

type mockReminders struct {
	list       []models.Reminder
	reminder   models.Reminder
	err        error
	lastFilter string
	lastInput  service.ReminderInput
	lastID     int
}

func (m *mockReminders) ListReminders(ctx context.Context, filter string) ([]models.Reminder, error) {
	m.lastFilter = filter
	return m.list, m.err
}
func (m *mockReminders) CreateReminder(ctx context.Context, in service.ReminderInput) (models.Reminder, error) {
	m.lastInput = in
	return m.reminder, m.err
}
func (m *mockReminders) ToggleReminder(ctx context.Context, id int) (models.Reminder, error) {
	m.lastID = id
	return m.reminder, m.err
}
func (m *mockReminders) DeleteReminder(ctx context.Context, id int) error {
	m.lastID = id
	return m.err
}
func (m *mockReminders) DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	return nil, m.err
}
func (m *mockReminders) MarkReminderNotified(ctx context.Context, id int, at time.Time) error {
	return m.err
}

type mockSettings struct {
	settings  models.Settings
	err       error
	lastInput service.SettingsInput
}

func (m *mockSettings) GetSettings(ctx context.Context) (models.Settings, error) {
	return m.settings, m.err
}
func (m *mockSettings) UpdateSettings(ctx context.Context, in service.SettingsInput) (models.Settings, error) {
	m.lastInput = in
	return m.settings, m.err
}
func (m *mockSettings) SeedSettings(ctx context.Context, defaults models.Settings) error {
	return m.err
}

type mockNotifications struct {
	resp       []models.Notification
	err        error
	lastFilter service.NotificationFilter
}

func (m *mockNotifications) Notify(title, message string, kind models.NotificationKind) {}
func (m *mockNotifications) Record(ctx context.Context, n models.Notification) (models.Notification, error) {
	return n, m.err
}
func (m *mockNotifications) ListNotifications(ctx context.Context, f service.NotificationFilter) ([]models.Notification, error) {
	m.lastFilter = f
	return m.resp, m.err
}

type mockMonitoring struct {
	snap models.DashboardSnapshot
	err  error
}

func (m *mockMonitoring) GetSnapshot(ctx context.Context) (models.DashboardSnapshot, error) {
	return m.snap, m.err
}

type mockRealtime struct {
	connectErr   error
	sendErr      error
	status       service.RealtimeStatus
	lastURL      string
	disconnects  int
	lastCommand  string
	lastData     map[string]any
	connectCalls int
}

func (m *mockRealtime) ConnectRealtime(ctx context.Context, url string) error {
	m.connectCalls++
	m.lastURL = url
	return m.connectErr
}
func (m *mockRealtime) DisconnectRealtime() { m.disconnects++ }
func (m *mockRealtime) SendRealtimeCommand(command string, data map[string]any) error {
	m.lastCommand = command
	m.lastData = data
	return m.sendErr
}
func (m *mockRealtime) RealtimeStatus() service.RealtimeStatus { return m.status }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
