package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetBlob returns the value stored under key.
func (s *SQLite) GetBlob(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blob %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select blob: %w", err)
	}
	return value, nil
}

// PutBlob inserts or replaces the value stored under key.
func (s *SQLite) PutBlob(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("upsert blob: %w", err)
	}
	return nil
}

// MarkSeen records that an error record has been reported.
func (s *SQLite) MarkSeen(ctx context.Context, kind model.ContentKind, fingerprint string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO seen_errors (kind, fingerprint, seen_at) VALUES (?, ?, ?)`,
		string(kind), fingerprint, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// IsSeen checks whether an error record has already been reported.
func (s *SQLite) IsSeen(ctx context.Context, kind model.ContentKind, fingerprint string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seen_errors WHERE kind = ? AND fingerprint = ?`,
		string(kind), fingerprint,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check seen: %w", err)
	}
	return count > 0, nil
}

// RecordRefresh inserts run and populates its ID and FinishedAt.
func (s *SQLite) RecordRefresh(ctx context.Context, run *model.RefreshRun) error {
	now := s.timestamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_runs (source, blogs, gmb_posts, replies, blog_errors, gmb_post_errors, new_errors, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(run.Source), run.Blogs, run.GmbPosts, run.Replies, run.BlogErrors, run.GmbPostErrors, run.NewErrors, now,
	)
	if err != nil {
		return fmt.Errorf("insert refresh run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	run.ID = id
	run.FinishedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// LastRefresh returns the most recently recorded run, optionally limited to one source.
func (s *SQLite) LastRefresh(ctx context.Context, source model.Source) (*model.RefreshRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, blogs, gmb_posts, replies, blog_errors, gmb_post_errors, new_errors, finished_at
		 FROM refresh_runs WHERE ? = '' OR source = ? ORDER BY id DESC LIMIT 1`,
		string(source), string(source),
	)
	run, err := scanRefreshRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("last refresh: %w", ErrNotFound)
	}
	return run, err
}

func (s *SQLite) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRefreshRun(row scannable) (*model.RefreshRun, error) {
	var r model.RefreshRun
	var source, finished string
	err := row.Scan(&r.ID, &source, &r.Blogs, &r.GmbPosts, &r.Replies, &r.BlogErrors, &r.GmbPostErrors, &r.NewErrors, &finished)
	if err != nil {
		return nil, fmt.Errorf("scan refresh run: %w", err)
	}
	r.Source = model.Source(source)
	r.FinishedAt, _ = time.Parse(timeLayout, finished)
	return &r, nil
}
