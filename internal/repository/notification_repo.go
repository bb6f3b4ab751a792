package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"incubation_tracker/internal/models"

	"github.com/google/uuid"
)

type NotificationSQLite struct {
	db *sql.DB
}

func NewNotificationSQLite(db *sql.DB) *NotificationSQLite { return &NotificationSQLite{db: db} }

const insertNotificationSQL = `
		INSERT INTO notifications (id, occurred_at, kind, title, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`

// Append inserts a notification. Empty ID and zero OccurredAt are filled in;
// the stored values are returned.
func (r *NotificationSQLite) Append(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.OccurredAt.IsZero() {
		n.OccurredAt = time.Now().UTC()
	} else {
		n.OccurredAt = n.OccurredAt.UTC()
	}
	n.Kind = models.NotificationKind(strings.ToLower(strings.TrimSpace(string(n.Kind))))

	var metaPtr *string
	if n.Metadata != nil {
		if b, err := json.Marshal(n.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	if _, err := r.db.ExecContext(ctx, insertNotificationSQL,
		n.ID,
		n.OccurredAt.Format(sqliteTimeLayout),
		string(n.Kind),
		n.Title,
		n.Message,
		metaPtr,
	); err != nil {
		return models.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

// List returns notifications filtered by [from, to] (inclusive) and/or kind, oldest first.
func (r *NotificationSQLite) List(ctx context.Context, from, to time.Time, kind string) ([]models.Notification, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	if kind = strings.ToLower(strings.TrimSpace(kind)); kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, kind)
	}

	q := `SELECT id, occurred_at, kind, title, message, meta FROM notifications`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0, 64)
	for rows.Next() {
		var n models.Notification
		var kindStr string
		var metaStr sql.NullString
		if err := rows.Scan(&n.ID, &n.OccurredAt, &kindStr, &n.Title, &n.Message, &metaStr); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Kind = models.NotificationKind(kindStr)
		n.OccurredAt = n.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				n.Metadata = v
			} else {
				n.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
