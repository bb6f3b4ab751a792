package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"incubation_tracker/internal/models"
)

type SnapshotSQLite struct {
	db *sql.DB
}

func NewSnapshotSQLite(db *sql.DB) *SnapshotSQLite {
	return &SnapshotSQLite{db: db}
}

const (
	snapshotRowID = 1

	upsertSnapshotSQL = `
		INSERT INTO dashboard_snapshot (id, temperature, humidity, turn_status, system_status, connection, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			temperature=excluded.temperature,
			humidity=excluded.humidity,
			turn_status=excluded.turn_status,
			system_status=excluded.system_status,
			connection=excluded.connection,
			source=excluded.source,
			updated_at=excluded.updated_at
	`

	selectSnapshotSQL = `
		SELECT id, temperature, humidity, turn_status, system_status, connection, source, updated_at
		FROM dashboard_snapshot WHERE id=?
	`
)

// marshalGauge stores a nil gauge as NULL.
func marshalGauge(g *models.Gauge) (*string, error) {
	if g == nil {
		return nil, nil
	}
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func unmarshalGauge(s sql.NullString) (*models.Gauge, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var g models.Gauge
	if err := json.Unmarshal([]byte(s.String), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Save updates or inserts the single dashboard_snapshot row.
func (r *SnapshotSQLite) Save(ctx context.Context, s models.DashboardSnapshot) error {
	temp, err := marshalGauge(s.Temperature)
	if err != nil {
		return fmt.Errorf("encode temperature: %w", err)
	}
	hum, err := marshalGauge(s.Humidity)
	if err != nil {
		return fmt.Errorf("encode humidity: %w", err)
	}
	sys, err := json.Marshal(s.SystemStatus)
	if err != nil {
		return fmt.Errorf("encode system status: %w", err)
	}

	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	if _, err := r.db.ExecContext(ctx, upsertSnapshotSQL,
		snapshotRowID,
		temp,
		hum,
		s.TurnStatus,
		string(sys),
		s.Connection,
		s.Source,
		ts,
	); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load fetches the snapshot row. ok is false when nothing was saved yet.
func (r *SnapshotSQLite) Load(ctx context.Context) (models.DashboardSnapshot, bool, error) {
	row := r.db.QueryRowContext(ctx, selectSnapshotSQL, snapshotRowID)

	var (
		s         models.DashboardSnapshot
		temp, hum sql.NullString
		sysJSON   string
	)
	if err := row.Scan(&s.ID, &temp, &hum, &s.TurnStatus, &sysJSON, &s.Connection, &s.Source, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DashboardSnapshot{}, false, nil
		}
		return models.DashboardSnapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var err error
	if s.Temperature, err = unmarshalGauge(temp); err != nil {
		return models.DashboardSnapshot{}, false, fmt.Errorf("decode temperature: %w", err)
	}
	if s.Humidity, err = unmarshalGauge(hum); err != nil {
		return models.DashboardSnapshot{}, false, fmt.Errorf("decode humidity: %w", err)
	}
	if err := json.Unmarshal([]byte(sysJSON), &s.SystemStatus); err != nil {
		return models.DashboardSnapshot{}, false, fmt.Errorf("decode system status: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, true, nil
}
