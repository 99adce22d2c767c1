// Package analytics records privacy-preserving page views in sqlite.
//
// Client IPs are never stored. Each view keeps a salted, truncated hash so
// unique visitors can be counted without identifying anyone, and rows
// older than the retention window are deleted.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS page_views (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT NOT NULL,
	project_id TEXT,
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_page_views_timestamp ON page_views(timestamp);
CREATE INDEX IF NOT EXISTS idx_page_views_project ON page_views(project_id);
`

// View is one recorded page view.
type View struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	ProjectID string    `json:"project_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ProjectViews counts views of one project detail page.
type ProjectViews struct {
	ProjectID string `json:"project_id"`
	Views     int64  `json:"views"`
}

// Stats summarises traffic for the admin dashboard.
type Stats struct {
	TotalViews     int64          `json:"total_views"`
	UniqueVisitors int64          `json:"unique_visitors"`
	ViewsToday     int64          `json:"views_today"`
	ViewsThisWeek  int64          `json:"views_this_week"`
	TopProjects    []ProjectViews `json:"top_projects"`
	RecentViews    []View         `json:"recent_views"`
}

// Store persists page views.
type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Open opens (creating if needed) the sqlite database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	salt, err := randomHex(32)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, salt: salt, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashIP returns a salted hash of ip, stable for the life of the store.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Record stores v. A zero timestamp is set to now.
func (s *Store) Record(ctx context.Context, v View) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO page_views (hashed_ip, user_agent, path, project_id, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, nullable(v.ProjectID), v.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("recording view of %s: %w", v.Path, err)
	}
	return nil
}

// Cleanup deletes views older than retention and returns how many went.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention).UTC()
	res, err := s.db.ExecContext(ctx, `DELETE FROM page_views WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting old views: %w", err)
	}
	return res.RowsAffected()
}

// Stats computes the dashboard summary.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalViews, `SELECT COUNT(*) FROM page_views`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM page_views`, nil},
		{&stats.ViewsToday, `SELECT COUNT(*) FROM page_views WHERE timestamp >= ?`, []any{dayStart}},
		{&stats.ViewsThisWeek, `SELECT COUNT(*) FROM page_views WHERE timestamp >= ?`, []any{now.Add(-7 * 24 * time.Hour)}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting views: %w", err)
		}
	}

	top, err := s.topProjects(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.TopProjects = top

	recent, err := s.Recent(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentViews = recent

	return stats, nil
}

func (s *Store) topProjects(ctx context.Context, limit int) ([]ProjectViews, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, COUNT(*) AS views
		FROM page_views
		WHERE project_id IS NOT NULL
		GROUP BY project_id
		ORDER BY views DESC, project_id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectViews
	for rows.Next() {
		var pv ProjectViews
		if err := rows.Scan(&pv.ProjectID, &pv.Views); err != nil {
			return nil, fmt.Errorf("scanning top projects: %w", err)
		}
		out = append(out, pv)
	}
	return out, rows.Err()
}

// Recent returns the latest views, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]View, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), path, COALESCE(project_id, ''), timestamp
		FROM page_views
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent views: %w", err)
	}
	defer rows.Close()

	var out []View
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.ProjectID, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning recent views: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewToken returns a random hex token suitable for a session cookie.
func NewToken() (string, error) {
	return randomHex(32)
}
