// Package store persists the canonical manifest in SQLite. Each import run
// replaces state wholesale inside one transaction; there is no merging with
// a prior import. Chapters are additionally indexed by slug and order so the
// read endpoints can serve them without reparsing the manifest blob.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jackzampolin/folio/internal/manifest"
)

// ErrNoImport is returned by readers when no manifest has been imported yet.
var ErrNoImport = errors.New("no manifest imported")

// ErrChapterNotFound is returned when a slug matches no chapter.
var ErrChapterNotFound = errors.New("chapter not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS imports (
    id            TEXT PRIMARY KEY,
    imported_at   TEXT NOT NULL,
    manifest_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chapters (
    slug         TEXT NOT NULL,
    ord          INTEGER NOT NULL,
    pos          INTEGER NOT NULL,
    title        TEXT NOT NULL,
    chapter_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chapters_slug ON chapters(slug);
CREATE INDEX IF NOT EXISTS idx_chapters_ord ON chapters(ord);
`

// Store manages manifest persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the manifest database and applies the
// schema. The parent directory is created if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ImportInfo describes the current import run.
type ImportInfo struct {
	ID         string    `json:"id"`
	ImportedAt time.Time `json:"imported_at"`
	Chapters   int       `json:"chapters"`
}

// Replace swaps the persisted manifest for a new one in a single
// transaction. The previous import and its chapter index are discarded.
func (s *Store) Replace(ctx context.Context, runID string, m *manifest.Manifest) error {
	data, err := m.JSON()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM imports`); err != nil {
		return fmt.Errorf("clear imports: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chapters`); err != nil {
		return fmt.Errorf("clear chapters: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (id, imported_at, manifest_json) VALUES (?, ?, ?)`,
		runID, now, string(data),
	); err != nil {
		return fmt.Errorf("insert import: %w", err)
	}

	for i, ch := range m.Chapters {
		chJSON, err := json.Marshal(ch)
		if err != nil {
			return fmt.Errorf("marshal chapter %q: %w", ch.Slug, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chapters (slug, ord, pos, title, chapter_json) VALUES (?, ?, ?, ?, ?)`,
			ch.Slug, ch.Order, i, ch.Title, string(chJSON),
		); err != nil {
			return fmt.Errorf("insert chapter %q: %w", ch.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// Manifest returns the persisted canonical manifest.
func (s *Store) Manifest(ctx context.Context) (*manifest.Manifest, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT manifest_json FROM imports ORDER BY imported_at DESC LIMIT 1`,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoImport
	}
	if err != nil {
		return nil, fmt.Errorf("query manifest: %w", err)
	}

	var m manifest.Manifest
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("decode stored manifest: %w", err)
	}
	return &m, nil
}

// Book returns the persisted book record.
func (s *Store) Book(ctx context.Context) (*manifest.Book, error) {
	m, err := s.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	return &m.Book, nil
}

// Chapters returns all chapters sorted by order ascending. On-disk chapter
// order is advisory, so sorting happens here at read time. Ties keep their
// original manifest position. Returns ErrNoImport before the first import;
// an imported manifest with zero chapters yields an empty list.
func (s *Store) Chapters(ctx context.Context) ([]manifest.Chapter, error) {
	var imports int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM imports`).Scan(&imports); err != nil {
		return nil, fmt.Errorf("count imports: %w", err)
	}
	if imports == 0 {
		return nil, ErrNoImport
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT chapter_json FROM chapters ORDER BY ord ASC, pos ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query chapters: %w", err)
	}
	defer rows.Close()

	var chapters []manifest.Chapter
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		var ch manifest.Chapter
		if err := json.Unmarshal([]byte(data), &ch); err != nil {
			return nil, fmt.Errorf("decode stored chapter: %w", err)
		}
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chapters: %w", err)
	}
	return chapters, nil
}

// ChapterBySlug returns a single chapter by its slug.
func (s *Store) ChapterBySlug(ctx context.Context, slug string) (*manifest.Chapter, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT chapter_json FROM chapters WHERE slug = ? ORDER BY pos ASC LIMIT 1`,
		slug,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChapterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query chapter %q: %w", slug, err)
	}

	var ch manifest.Chapter
	if err := json.Unmarshal([]byte(data), &ch); err != nil {
		return nil, fmt.Errorf("decode stored chapter: %w", err)
	}
	return &ch, nil
}

// LastImport returns metadata about the current import run.
func (s *Store) LastImport(ctx context.Context) (*ImportInfo, error) {
	var (
		info ImportInfo
		ts   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, imported_at FROM imports ORDER BY imported_at DESC LIMIT 1`,
	).Scan(&info.ID, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoImport
	}
	if err != nil {
		return nil, fmt.Errorf("query import: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("parse import timestamp: %w", err)
	}
	info.ImportedAt = parsed

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chapters`).Scan(&info.Chapters); err != nil {
		return nil, fmt.Errorf("count chapters: %w", err)
	}
	return &info, nil
}
