// Package sqlite persists the bill snapshot under a single fixed key in a
// SQLite key-value table, the durable analog of the tracker's original
// browser storage.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"bollette/internal/core"
	"bollette/internal/snapshot"
)

// snapshotKey is the single key the whole collection lives under.
const snapshotKey = "bills"

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
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

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// FetchAll reads the persisted snapshot. A database that was never saved
// to yields an empty collection.
func (r *Repository) FetchAll(ctx context.Context) ([]core.Bill, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE key = ?`, snapshotKey,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []core.Bill{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	bills, err := snapshot.DecodeRecords(payload)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Snapshot loaded from SQLite", "bills", len(bills))
	return bills, nil
}

// SaveAll replaces the persisted snapshot with the full collection.
func (r *Repository) SaveAll(ctx context.Context, bills []core.Bill) error {
	payload, err := snapshot.EncodeRecords(bills)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		snapshotKey, payload,
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot written to SQLite", "bills", len(bills), "bytes", len(payload))
	return nil
}
