package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"incubation_tracker/internal/logger"
	"incubation_tracker/internal/models"
)

// CollectionSQLite persists the user collections as JSON documents.
// A missing or unreadable document loads as its empty value; corruption is
// logged and never surfaces as an error.
type CollectionSQLite struct {
	docs *DocumentSQLite
	log  *logger.Logger
}

func NewCollectionSQLite(docs *DocumentSQLite, log *logger.Logger) *CollectionSQLite {
	return &CollectionSQLite{docs: docs, log: logger.OrNop(log)}
}

// loadDocument decodes key into dst. It reports false when the document is
// absent or corrupt, in which case dst must be treated as unset.
func (r *CollectionSQLite) loadDocument(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := r.docs.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		r.log.Warnw("document_corrupt", "key", key, "err", err)
		return false, nil
	}
	return true, nil
}

func (r *CollectionSQLite) saveDocument(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.docs.Put(ctx, key, string(b))
}

func (r *CollectionSQLite) LoadBatches(ctx context.Context) ([]models.Batch, error) {
	var out []models.Batch
	ok, err := r.loadDocument(ctx, KeyBatches, &out)
	if err != nil {
		return nil, err
	}
	if !ok || out == nil {
		return []models.Batch{}, nil
	}
	return out, nil
}

func (r *CollectionSQLite) SaveBatches(ctx context.Context, batches []models.Batch) error {
	if batches == nil {
		batches = []models.Batch{}
	}
	return r.saveDocument(ctx, KeyBatches, batches)
}

func (r *CollectionSQLite) LoadReminders(ctx context.Context) ([]models.Reminder, error) {
	var out []models.Reminder
	ok, err := r.loadDocument(ctx, KeyReminders, &out)
	if err != nil {
		return nil, err
	}
	if !ok || out == nil {
		return []models.Reminder{}, nil
	}
	return out, nil
}

func (r *CollectionSQLite) SaveReminders(ctx context.Context, reminders []models.Reminder) error {
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	return r.saveDocument(ctx, KeyReminders, reminders)
}

// LoadSettings overlays the stored document on the defaults, so fields added
// later keep their default values for old documents.
func (r *CollectionSQLite) LoadSettings(ctx context.Context) (models.Settings, error) {
	s := models.DefaultSettings()
	ok, err := r.loadDocument(ctx, KeySettings, &s)
	if err != nil {
		return models.Settings{}, err
	}
	if !ok {
		return models.DefaultSettings(), nil
	}
	return s, nil
}

func (r *CollectionSQLite) SaveSettings(ctx context.Context, s models.Settings) error {
	return r.saveDocument(ctx, KeySettings, s)
}

// SeedSettings stores s unless a settings document already exists.
func (r *CollectionSQLite) SeedSettings(ctx context.Context, s models.Settings) (bool, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", KeySettings, err)
	}
	return r.docs.Create(ctx, KeySettings, string(b))
}
