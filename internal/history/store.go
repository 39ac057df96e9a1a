// Package history keeps a sqlite ledger of completed conversions. The
// ledger backs duplicate detection by content hash and the history API.
package history

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

// Entry is one completed conversion.
type Entry struct {
	ID          int64     `json:"id"`
	ContentHash string    `json:"content_hash"`
	SourceName  string    `json:"source_name"`
	Title       string    `json:"title"`
	Folder      string    `json:"folder"`
	OutputPath  string    `json:"output_path"`
	DriveFileID string    `json:"drive_file_id,omitempty"`
	WebViewLink string    `json:"web_view_link,omitempty"`
	Sections    int       `json:"sections"`
	CreatedAt   time.Time `json:"created_at"`
}

// Uploaded reports whether the conversion reached Drive.
func (e Entry) Uploaded() bool {
	return e.DriveFileID != ""
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY between
	// concurrent workers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content_hash TEXT NOT NULL,
			source_name TEXT NOT NULL,
			title TEXT NOT NULL,
			folder TEXT NOT NULL,
			output_path TEXT NOT NULL,
			drive_file_id TEXT NOT NULL DEFAULT '',
			web_view_link TEXT NOT NULL DEFAULT '',
			sections INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_hash ON conversions(content_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_created ON conversions(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends e to the ledger and returns it with ID and CreatedAt set.
// A zero CreatedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions
			(content_hash, source_name, title, folder, output_path, drive_file_id, web_view_link, sections, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ContentHash, e.SourceName, e.Title, e.Folder, e.OutputPath,
		e.DriveFileID, e.WebViewLink, e.Sections, e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("inserting conversion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("reading conversion id: %w", err)
	}
	e.ID = id
	return e, nil
}

const selectColumns = `SELECT id, content_hash, source_name, title, folder, output_path,
	drive_file_id, web_view_link, sections, created_at FROM conversions`

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversions: %w", err)
	}
	return entries, nil
}

// ByHash returns the newest entry for a content hash. ok is false when the
// hash has never been converted.
func (s *Store) ByHash(ctx context.Context, hash string) (e Entry, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE content_hash = ? ORDER BY id DESC LIMIT 1`, hash)
	e, err = scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e       Entry
		created string
	)
	err := sc.Scan(&e.ID, &e.ContentHash, &e.SourceName, &e.Title, &e.Folder, &e.OutputPath,
		&e.DriveFileID, &e.WebViewLink, &e.Sections, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, err
	}
	if err != nil {
		return Entry{}, fmt.Errorf("scanning conversion: %w", err)
	}
	e.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	return e, nil
}
