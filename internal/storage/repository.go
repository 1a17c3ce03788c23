// Package storage persists application state as whole-value JSON blobs in a
// local SQLite file. Each slot is read and written as one complete,
// pre-serialized string; there is no incremental log. Every value carries a
// version envelope so an unrecognized shape fails loudly on load instead of
// silently defaulting.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Slot keys. One key holds one whole collection.
const (
	SlotLedger         = "ledger"
	SlotCheckInRecords = "checkin_records"
	SlotDarkMode       = "dark_mode"
	SlotFeedback       = "feedback"
)

// SlotVersion is the envelope version written by this build.
const SlotVersion = 1

// ErrBadFormat is returned when a stored value is malformed or carries an
// unknown envelope version.
var ErrBadFormat = errors.New("unrecognized stored format")

// ErrSlotEmpty is returned when the slot has never been written.
var ErrSlotEmpty = errors.New("slot empty")

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

type SlotRepository struct {
	db *sql.DB
}

func NewSlotRepository(dbPath string) (*SlotRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SlotRepository{db: db}, nil
}

func (r *SlotRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// WriteSlot serializes v inside a version envelope and overwrites the slot
// in a single statement.
func (r *SlotRepository) WriteSlot(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal slot %s: %w", key, err)
	}
	blob, err := json.Marshal(envelope{Version: SlotVersion, Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope %s: %w", key, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(blob))
	if err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}

	slog.DebugContext(ctx, "Slot written", "key", key, "bytes", len(blob))
	return nil
}

// ReadSlot loads the slot into v. It returns ErrSlotEmpty when the key has
// never been written and ErrBadFormat when the stored value does not parse
// or its envelope version is unknown.
func (r *SlotRepository) ReadSlot(ctx context.Context, key string, v any) error {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSlotEmpty
	}
	if err != nil {
		return fmt.Errorf("read slot %s: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return fmt.Errorf("%w: slot %s: %v", ErrBadFormat, key, err)
	}
	if env.Version != SlotVersion {
		return fmt.Errorf("%w: slot %s has version %d", ErrBadFormat, key, env.Version)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("%w: slot %s payload: %v", ErrBadFormat, key, err)
	}
	return nil
}

// DeleteSlot removes a slot. Deleting a missing key is not an error.
func (r *SlotRepository) DeleteSlot(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}
