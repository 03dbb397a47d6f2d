package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tgienger/tasker/internal/storage"
)

// Slot exposes the kv table as a storage.Backend
type Slot struct {
	db *DB
}

// Slot returns a storage backend over the kv table
func (db *DB) Slot() *Slot {
	return &Slot{db: db}
}

// Load retrieves the value stored under key
func (s *Slot) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Save overwrites the value stored under key
func (s *Slot) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}
