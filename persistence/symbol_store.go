// Package persistence caches fetched symbol payloads on disk.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Snapshot is one cached documentSymbol payload.
type Snapshot struct {
	Path        string
	ContentHash string
	Payload     []byte
	FetchedAt   time.Time
}

// SnapshotInfo describes a cached entry without its payload.
type SnapshotInfo struct {
	Path        string
	ContentHash string
	Size        int
	FetchedAt   time.Time
}

// SymbolStore persists payloads in SQLite, one row per file. Saving a new
// content hash for a path replaces the old row.
type SymbolStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSymbolStore opens/creates the database at dbPath.
func OpenSymbolStore(dbPath string) (*SymbolStore, error) {
	if dbPath == "" {
		return nil, errors.New("database path required")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	store := &SymbolStore{db: db, now: time.Now}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (s *SymbolStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		path TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		payload BLOB NOT NULL,
		fetched_at TIMESTAMP NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *SymbolStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSnapshot upserts the payload for path.
func (s *SymbolStore) SaveSnapshot(ctx context.Context, path, hash string, payload []byte) error {
	if path == "" || hash == "" {
		return errors.New("path and content hash required")
	}
	query := `
	INSERT INTO snapshots (path, content_hash, payload, fetched_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		content_hash=excluded.content_hash,
		payload=excluded.payload,
		fetched_at=excluded.fetched_at
	`
	_, err := s.db.ExecContext(ctx, query, path, hash, payload, s.now().UTC())
	return err
}

// LoadSnapshot returns the payload for path when its stored hash matches.
func (s *SymbolStore) LoadSnapshot(ctx context.Context, path, hash string) ([]byte, bool, error) {
	snap, ok, err := s.Get(ctx, path)
	if err != nil || !ok || snap.ContentHash != hash {
		return nil, false, err
	}
	return snap.Payload, true, nil
}

// Get returns the stored snapshot for path regardless of hash.
func (s *SymbolStore) Get(ctx context.Context, path string) (Snapshot, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT path, content_hash, payload, fetched_at FROM snapshots WHERE path = ?`, path)
	var snap Snapshot
	if err := row.Scan(&snap.Path, &snap.ContentHash, &snap.Payload, &snap.FetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

// List returns every entry ordered by path.
func (s *SymbolStore) List(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, content_hash, length(payload), fetched_at FROM snapshots ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.Path, &info.ContentHash, &info.Size, &info.FetchedAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes the entry for path.
func (s *SymbolStore) Delete(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE path = ?`, path)
	return err
}

// Clear removes every entry and returns how many were dropped.
func (s *SymbolStore) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Prune removes entries fetched before cutoff.
func (s *SymbolStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE fetched_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
