package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"incubation_tracker/internal/models"
)

type fakeSink struct {
	sent []models.Notification
	err  error
}

func (f *fakeSink) Send(ctx context.Context, n models.Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

func fixedZone(name string, offsetSec int) *time.Location {
	return time.FixedZone(name, offsetSec)
}

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

// normalizeToUTC

func Test_normalizeToUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want func(time.Time) bool
	}{
		{
			name: "zero time remains zero",
			in:   time.Time{},
			want: func(out time.Time) bool { return out.IsZero() },
		},
		{
			name: "non-UTC converted to UTC preserving instant",
			in:   mustTimeIn(fixedZone("UTC-3", -3*3600), 2026, time.March, 1, 9, 15, 0),
			want: func(out time.Time) bool {
				exp := time.Date(2026, time.March, 1, 12, 15, 0, 0, time.UTC)
				return out.Location() == time.UTC && out.Equal(exp)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeToUTC(tc.in)
			if !tc.want(got) {
				t.Fatalf("unexpected normalizeToUTC result: %v (loc=%v)", got, got.Location())
			}
		})
	}
}

// normalizeAndValidateFilter

func Test_normalizeAndValidateFilter(t *testing.T) {
	t.Parallel()

	fromLocal := mustTimeIn(fixedZone("UTC+2", 2*3600), 2026, time.April, 10, 10, 0, 0)
	toUTC := time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		in       NotificationFilter
		wantFrom time.Time
		wantTo   time.Time
		wantKind string
		wantErr  error
	}{
		{
			name: "all zero/empty ok",
			in:   NotificationFilter{},
		},
		{
			name: "from after to -> error",
			in: NotificationFilter{
				From: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC),
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "unknown kind -> error",
			in:      NotificationFilter{Kind: "info"},
			wantErr: ErrInvalidKind,
		},
		{
			name:     "normalize tz and kind",
			in:       NotificationFilter{From: fromLocal, To: toUTC, Kind: " Warning "},
			wantFrom: time.Date(2026, time.April, 10, 8, 0, 0, 0, time.UTC),
			wantTo:   toUTC,
			wantKind: "warning",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gotFrom, gotTo, gotKind, err := normalizeAndValidateFilter(tc.in)

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v; got %v", tc.wantErr, err)
			}
			if !tc.wantFrom.IsZero() && !gotFrom.Equal(tc.wantFrom) {
				t.Fatalf("from: got %v; want %v", gotFrom, tc.wantFrom)
			}
			if !tc.wantTo.IsZero() && !gotTo.Equal(tc.wantTo) {
				t.Fatalf("to: got %v; want %v", gotTo, tc.wantTo)
			}
			if gotKind != tc.wantKind {
				t.Fatalf("kind: got %q; want %q", gotKind, tc.wantKind)
			}
		})
	}
}

// NotificationService.Record

func TestNotificationService_Record_PersistsAndForwards(t *testing.T) {
	t.Parallel()

	repo := &memNotificationRepo{}
	sink := &fakeSink{}
	svc := NewNotificationService(repo, sink, nil)
	svc.now = fixedClock(time.Date(2026, 5, 1, 8, 0, 0, 0, fixedZone("UTC+1", 3600)))

	got, err := svc.Record(context.Background(), models.Notification{Title: "Saved", Message: "batch created", Kind: "SUCCESS"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.Kind != models.KindSuccess {
		t.Fatalf("kind = %q, want success", got.Kind)
	}
	if !got.OccurredAt.Equal(time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC)) || got.OccurredAt.Location() != time.UTC {
		t.Fatalf("occurred_at = %v", got.OccurredAt)
	}
	if len(repo.Appended()) != 1 {
		t.Fatalf("repo appended %d, want 1", len(repo.Appended()))
	}
	if len(sink.sent) != 1 || sink.sent[0].ID != got.ID {
		t.Fatalf("sink got %+v", sink.sent)
	}
}

func TestNotificationService_Record_UnknownKindBecomesWarning(t *testing.T) {
	t.Parallel()

	repo := &memNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil)

	got, err := svc.Record(context.Background(), models.Notification{Title: "x", Kind: "info"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.Kind != models.KindWarning {
		t.Fatalf("kind = %q, want warning", got.Kind)
	}
}

func TestNotificationService_Record_SinkFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	repo := &memNotificationRepo{}
	sink := &fakeSink{err: errors.New("webhook down")}
	svc := NewNotificationService(repo, sink, nil)

	if _, err := svc.Record(context.Background(), models.Notification{Title: "x", Kind: models.KindError}); err != nil {
		t.Fatalf("Record returned sink error: %v", err)
	}
	if len(repo.Appended()) != 1 {
		t.Fatalf("notification not persisted")
	}
}

func TestNotificationService_Record_RepoErrorSkipsSink(t *testing.T) {
	t.Parallel()

	repo := &memNotificationRepo{appendErr: errors.New("db down")}
	sink := &fakeSink{}
	svc := NewNotificationService(repo, sink, nil)

	if _, err := svc.Record(context.Background(), models.Notification{Title: "x"}); !errors.Is(err, repo.appendErr) {
		t.Fatalf("expected repo error; got %v", err)
	}
	if len(sink.sent) != 0 {
		t.Fatalf("sink should not be called when persistence fails")
	}
}

func TestNotificationService_Notify(t *testing.T) {
	t.Parallel()

	repo := &memNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil)

	svc.Notify("Connected", "Realtime connection established", models.KindSuccess)

	got := repo.Appended()
	if len(got) != 1 || got[0].Title != "Connected" || got[0].Kind != models.KindSuccess {
		t.Fatalf("appended = %+v", got)
	}
}

// NotificationService.ListNotifications

func TestNotificationService_List_DelegatesNormalizedParams(t *testing.T) {
	t.Parallel()

	repo := &memNotificationRepo{listResp: []models.Notification{{ID: "1"}}}
	svc := NewNotificationService(repo, nil, nil)

	fromLocal := mustTimeIn(fixedZone("UTC+5", 5*3600), 2026, time.October, 1, 10, 0, 0)
	toLocal := mustTimeIn(fixedZone("UTC-2", -2*3600), 2026, time.October, 1, 12, 30, 0)

	out, err := svc.ListNotifications(context.Background(), NotificationFilter{From: fromLocal, To: toLocal, Kind: "  ERROR "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "1" {
		t.Fatalf("unexpected notifications: %+v", out)
	}

	wantFrom := time.Date(2026, time.October, 1, 5, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, time.October, 1, 14, 30, 0, 0, time.UTC)
	if !repo.gotFrom.Equal(wantFrom) {
		t.Fatalf("repo gotFrom=%v; want %v", repo.gotFrom, wantFrom)
	}
	if !repo.gotTo.Equal(wantTo) {
		t.Fatalf("repo gotTo=%v; want %v", repo.gotTo, wantTo)
	}
	if repo.gotKind != "error" {
		t.Fatalf("repo gotKind=%q; want %q", repo.gotKind, "error")
	}
}

func TestNotificationService_List_ValidationError(t *testing.T) {
	t.Parallel()

	svc := NewNotificationService(&memNotificationRepo{}, nil, nil)

	_, err := svc.ListNotifications(context.Background(), NotificationFilter{
		From: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange; got %v", err)
	}
}
