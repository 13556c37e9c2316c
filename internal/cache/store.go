// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists upstream E-utilities responses in SQLite so that
// repeated runs over the same publications do not hit NCBI again until the
// entries expire.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/geo-cluster/pkg/types"
)

const defaultTTL = 24 * time.Hour

// Store is a key/value table with a time-to-live.
type Store struct {
	db   *sql.DB
	path string
	ttl  time.Duration
	now  func() time.Time
}

// Stats summarizes the contents of a Store.
type Stats struct {
	Path    string `json:"path" yaml:"path"`
	Entries int    `json:"entries" yaml:"entries"`
	Expired int    `json:"expired" yaml:"expired"`
	Bytes   int64  `json:"bytes" yaml:"bytes"`
}

// NewStore opens or creates the cache database at cfg.Path and creates the
// schema if it does not exist.
func NewStore(cfg types.CacheConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("cache: no database path configured")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	s := &Store{db: db, path: cfg.Path, ttl: ttl, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			stored_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_stored_at ON entries(stored_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *Store) cutoff() int64 {
	return s.now().Add(-s.ttl).UnixNano()
}

// Get returns the value stored under key. Expired entries are reported as
// missing.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM entries WHERE key = ? AND stored_at > ?`,
		key, s.cutoff(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (key, value, stored_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, stored_at=excluded.stored_at`,
		key, value, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Purge deletes expired entries, or every entry when all is true, and
// returns the number removed.
func (s *Store) Purge(ctx context.Context, all bool) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if all {
		res, err = s.db.ExecContext(ctx, `DELETE FROM entries`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM entries WHERE stored_at <= ?`, s.cutoff())
	}
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats counts live and expired entries.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Path: s.path}
	var bytes sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*), coalesce(sum(CASE WHEN stored_at <= ? THEN 1 ELSE 0 END), 0), sum(length(value))
		FROM entries`,
		s.cutoff(),
	).Scan(&st.Entries, &st.Expired, &bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	st.Bytes = bytes.Int64
	return st, nil
}
