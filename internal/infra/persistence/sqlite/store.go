// Package sqlite provides a snapshotting SQLite-backed project store. It
// mirrors the in-memory semantics and writes each project as a JSON blob
// after every successful save.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"takeoffcore/internal/infra/persistence/memory"
	"takeoffcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain
// interface.
var _ domain.ProjectStore = (*Store)(nil)

// Store persists project snapshots to a single SQLite table as JSON blobs
// while serving reads from the wrapped in-memory store.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (or creates) the database file and hydrates the in-memory
// store from any existing rows.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "takeoffcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS projects (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create projects table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT payload FROM projects`)
	if err != nil {
		return fmt.Errorf("select projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		var project domain.Project
		if err := json.Unmarshal(payload, &project); err != nil {
			return fmt.Errorf("decode project: %w", err)
		}
		snapshot.Projects = append(snapshot.Projects, project)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate projects: %w", err)
	}
	s.ImportState(snapshot)
	return nil
}

// SaveProject stores the snapshot in memory and upserts its JSON blob.
func (s *Store) SaveProject(ctx context.Context, project domain.Project) error {
	if err := s.Store.SaveProject(ctx, project); err != nil {
		return err
	}
	payload, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("encode project %q: %w", project.Name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO projects(name,payload) VALUES(?,?) ON CONFLICT(name) DO UPDATE SET payload=excluded.payload`,
		project.Name, payload); err != nil {
		return fmt.Errorf("upsert project %q: %w", project.Name, err)
	}
	return nil
}

// DeleteProject removes the snapshot from memory and from the table.
func (s *Store) DeleteProject(ctx context.Context, name string) error {
	if err := s.Store.DeleteProject(ctx, name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete project %q: %w", name, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
