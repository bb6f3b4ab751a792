package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"incubation_tracker/internal/models"
	"incubation_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

func TestNotificationsHandler_ListAndValidation(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	notes := []models.Notification{
		{ID: "n1", OccurredAt: now, Kind: models.KindWarning, Title: "Temperature alert"},
		{ID: "n2", OccurredAt: now.Add(time.Second), Kind: models.KindSuccess, Title: "Connected"},
	}
	m := &mockNotifications{resp: notes}
	r := newTestRouter(&service.Service{Notifications: m})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notifications?from=notatime", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	w = httptest.NewRecorder()
	q := "/api/v1/notifications?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&kind=warning"
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, q, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count         int                   `json:"count"`
		Notifications []models.Notification `json:"notifications"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Notifications) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if m.lastFilter.Kind != "warning" || !m.lastFilter.From.Equal(now) {
		t.Fatalf("unexpected filter: %+v", m.lastFilter)
	}
}

func TestNotificationsHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	m := &mockNotifications{}
	r := newTestRouter(&service.Service{Notifications: m})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notifications?from=2026-01-01&to=2026-01-31", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	wantTo := time.Date(2026, 1, 31, 23, 59, 59, 999999999, time.UTC)
	if !m.lastFilter.To.Equal(wantTo) {
		t.Fatalf("to = %v, want %v", m.lastFilter.To, wantTo)
	}
	if !m.lastFilter.From.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from = %v", m.lastFilter.From)
	}
}

func TestNotificationsHandler_ServiceValidationIs400(t *testing.T) {
	for _, err := range []error{service.ErrInvalidTimeRange, service.ErrInvalidKind} {
		r := newTestRouter(&service.Service{Notifications: &mockNotifications{err: err}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notifications?kind=info", nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%v: status=%d", err, w.Code)
		}
	}
}

func TestParseQueryTime(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2026-01-02T03:04:05+02:00", want: time.Date(2026, 1, 2, 1, 4, 5, 0, time.UTC)},
		{in: "2026-01-02 03:04:05", want: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: "2026-01-02", want: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{in: "02/01/2026", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseQueryTime(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("parseQueryTime(%q) err = %v", tc.in, err)
		}
		if !tc.wantErr && (!got.Equal(tc.want) || got.Location() != time.UTC) {
			t.Fatalf("parseQueryTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
}
