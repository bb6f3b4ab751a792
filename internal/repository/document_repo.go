package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Document keys, one per persisted collection.
const (
	KeyBatches   = "incubadora.batches"
	KeyReminders = "incubadora.reminders"
	KeySettings  = "incubadora.settings"
)

// sqliteTimeLayout is how timestamps are written so that string comparison
// in WHERE clauses matches chronological order.
const sqliteTimeLayout = "2006-01-02 15:04:05"

const (
	upsertDocumentSQL = `
		INSERT INTO documents (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`

	insertDocumentSQL = `
		INSERT INTO documents (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`

	selectDocumentSQL = `SELECT value FROM documents WHERE key=?`
)

// DocumentSQLite is a string-keyed JSON document store.
type DocumentSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewDocumentSQLite(db *sql.DB) *DocumentSQLite {
	return &DocumentSQLite{db: db, now: time.Now}
}

// Get returns the raw value under key. ok is false when the key was never written.
func (r *DocumentSQLite) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	if err := r.db.QueryRowContext(ctx, selectDocumentSQL, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get document %q: %w", key, err)
	}
	return value, true, nil
}

// Put replaces the value under key.
func (r *DocumentSQLite) Put(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertDocumentSQL, key, value, r.now().UTC().Format(sqliteTimeLayout)); err != nil {
		return fmt.Errorf("put document %q: %w", key, err)
	}
	return nil
}

// Create writes value only when key is absent and reports whether it did.
func (r *DocumentSQLite) Create(ctx context.Context, key, value string) (bool, error) {
	res, err := r.db.ExecContext(ctx, insertDocumentSQL, key, value, r.now().UTC().Format(sqliteTimeLayout))
	if err != nil {
		return false, fmt.Errorf("create document %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create document %q: %w", key, err)
	}
	return n > 0, nil
}
