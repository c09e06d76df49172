package analytics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists page views in a local SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the analytics database at path, ensures the
// data directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS page_views (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL,
    referrer TEXT NOT NULL DEFAULT '',
    ip_hash TEXT NOT NULL,
    timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_page_views_timestamp ON page_views(timestamp);
CREATE INDEX IF NOT EXISTS idx_page_views_path ON page_views(path);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

// RecordView inserts one page view.
func (s *Store) RecordView(v View) error {
	ts := v.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO page_views (path, referrer, ip_hash, timestamp) VALUES (?, ?, ?, ?)`,
		v.Path, v.Referrer, v.IPHash, ts.Format(time.RFC3339),
	)
	return err
}

// CountByPath returns view counts per path since the given time, most viewed
// first.
func (s *Store) CountByPath(since time.Time) ([]PathCount, error) {
	rows, err := s.db.Query(
		`SELECT path, COUNT(*) FROM page_views WHERE timestamp >= ? GROUP BY path ORDER BY COUNT(*) DESC`,
		since.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []PathCount
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Views); err != nil {
			return nil, err
		}
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}

// TotalViews returns the total number of views since the given time.
func (s *Store) TotalViews(since time.Time) (int64, error) {
	var total int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM page_views WHERE timestamp >= ?`,
		since.UTC().Format(time.RFC3339),
	).Scan(&total)
	return total, err
}

// Prune deletes views older than the retention cutoff.
func (s *Store) Prune(before time.Time) error {
	_, err := s.db.Exec(
		`DELETE FROM page_views WHERE timestamp < ?`,
		before.UTC().Format(time.RFC3339),
	)
	return err
}

// StartCleanupScheduler prunes views older than retentionDays on the given
// interval. The returned function stops the scheduler.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Prune(time.Now().AddDate(0, 0, -retentionDays))
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

// GetSetting returns the value stored under key, or "" when absent.
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting stores value under key.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
		key, value,
	)
	return err
}
