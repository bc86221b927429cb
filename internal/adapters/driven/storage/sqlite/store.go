package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lectern/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
)

const (
	// dbFile is the database file name inside the data directory.
	dbFile = "positions.db"

	// timeLayout is fixed-width so timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Store is a SQLite-backed store of reading positions.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.lectern/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lectern", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LocationStore returns a LocationStore backed by this store.
func (s *Store) LocationStore() driven.LocationStore {
	return &locationStore{store: s}
}

// LocationHistory returns a LocationHistory backed by this store.
func (s *Store) LocationHistory() driven.LocationHistory {
	return &locationStore{store: s}
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Location Store ====================

// locationStore implements driven.LocationStore and driven.LocationHistory.
type locationStore struct {
	store *Store
}

var (
	_ driven.LocationStore   = (*locationStore)(nil)
	_ driven.LocationHistory = (*locationStore)(nil)
)

// SectionID returns the stored section id of a session, or "".
func (l *locationStore) SectionID(ctx context.Context, key domain.SessionKey) (string, error) {
	var id string
	err := l.store.db.QueryRowContext(ctx, `
		SELECT section_id FROM locations
		WHERE text_id = ? AND content_id = ? AND version_id = ?
	`, key.TextID, key.ContentID, key.VersionID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying location: %w", err)
	}
	return id, nil
}

// ReplaceSectionID upserts the session's location. An empty id deletes it.
func (l *locationStore) ReplaceSectionID(ctx context.Context, key domain.SessionKey, id string) error {
	if key.TextID == "" {
		return fmt.Errorf("%w: text id is required", domain.ErrInvalidInput)
	}
	if id == "" {
		_, err := l.store.db.ExecContext(ctx, `
			DELETE FROM locations WHERE text_id = ? AND content_id = ? AND version_id = ?
		`, key.TextID, key.ContentID, key.VersionID)
		if err != nil {
			return fmt.Errorf("deleting location: %w", err)
		}
		return nil
	}

	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO locations (text_id, content_id, version_id, section_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (text_id, content_id, version_id)
		DO UPDATE SET section_id = excluded.section_id, updated_at = excluded.updated_at
	`, key.TextID, key.ContentID, key.VersionID, id, l.store.now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("saving location: %w", err)
	}
	return nil
}

// Recent returns up to limit positions, newest first.
func (l *locationStore) Recent(ctx context.Context, limit int) ([]domain.ReadingPosition, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.store.db.QueryContext(ctx, `
		SELECT text_id, content_id, version_id, section_id, updated_at
		FROM locations
		ORDER BY updated_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var out []domain.ReadingPosition
	for rows.Next() {
		var (
			pos     domain.ReadingPosition
			updated string
		)
		if err := rows.Scan(&pos.Key.TextID, &pos.Key.ContentID, &pos.Key.VersionID, &pos.SectionID, &updated); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		pos.UpdatedAt, err = time.Parse(timeLayout, updated)
		if err != nil {
			return nil, fmt.Errorf("parsing location timestamp: %w", err)
		}
		out = append(out, pos)
	}
	return out, rows.Err()
}
