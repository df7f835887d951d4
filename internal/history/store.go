// Package history keeps a ledger of relay attempts: an in-memory ring
// buffer of recent downloads with optional SQLite persistence. Media bytes
// are never stored, only per-attempt metadata.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vidrelay/vidrelay/internal/config"
	"github.com/vidrelay/vidrelay/internal/domain"
)

// Store records finished downloads.
type Store struct {
	cfg    config.HistoryConfig
	logger *slog.Logger

	mu      sync.RWMutex
	entries []domain.Download
	head    int // next write position
	count   int

	// Running counters since process start.
	total     int64
	completed int64
	aborted   int64
	bytes     int64

	db *sql.DB
}

// Counts summarizes recorded downloads.
type Counts struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Aborted   int64 `json:"aborted"`
	Bytes     int64 `json:"bytes_relayed"`
}

// NewStore creates a history store. SQLite persistence is enabled when
// cfg.SQLitePath is non-empty.
func NewStore(cfg config.HistoryConfig, logger *slog.Logger) (*Store, error) {
	if cfg.RingSize <= 0 {
		cfg.RingSize = 500
	}

	s := &Store{
		cfg:     cfg,
		logger:  logger,
		entries: make([]domain.Download, cfg.RingSize),
	}

	if cfg.SQLitePath != "" {
		if err := s.initSQLite(); err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		logger.Info("history persistence enabled", "path", cfg.SQLitePath)
	}

	return s, nil
}

// initSQLite opens the database and prepares the downloads table.
func (s *Store) initSQLite() error {
	db, err := sql.Open("sqlite", s.cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS downloads (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			state TEXT NOT NULL,
			bytes_sent INTEGER NOT NULL,
			error TEXT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_downloads_started_at ON downloads(started_at);
		CREATE INDEX IF NOT EXISTS idx_downloads_state ON downloads(state);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("create table: %w", err)
	}

	s.db = db
	s.purgeExpired()
	return nil
}

// purgeExpired deletes persisted rows older than the retention window.
func (s *Store) purgeExpired() {
	if s.db == nil || s.cfg.RetentionDays <= 0 {
		return
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.RetentionDays)
	if _, err := s.db.Exec(`DELETE FROM downloads WHERE started_at < ?`, cutoff); err != nil {
		s.logger.Warn("history retention purge failed", "error", err)
	}
}

// Close closes the store and any open resources.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a finished download. Safe for concurrent use.
func (s *Store) Record(ctx context.Context, d *domain.Download) {
	s.mu.Lock()
	s.entries[s.head] = *d
	s.head = (s.head + 1) % len(s.entries)
	if s.count < len(s.entries) {
		s.count++
	}
	s.total++
	s.bytes += d.BytesSent
	switch d.State {
	case domain.StateCompleted:
		s.completed++
	case domain.StateAborted:
		s.aborted++
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO downloads
			(id, url, state, bytes_sent, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID.String(), d.URL, string(d.State), d.BytesSent, d.Error,
		d.StartedAt, d.FinishedAt,
	)
	if err != nil {
		s.logger.Warn("history persist failed", "download_id", d.ID, "error", err)
	}
}

// Recent returns up to limit downloads, newest first.
func (s *Store) Recent(limit int) []domain.Download {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > s.count {
		limit = s.count
	}

	out := make([]domain.Download, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (s.head - 1 - i + len(s.entries)) % len(s.entries)
		out = append(out, s.entries[idx])
	}
	return out
}

// Counts returns running counters since process start.
func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Total:     s.total,
		Completed: s.completed,
		Aborted:   s.aborted,
		Bytes:     s.bytes,
	}
}
