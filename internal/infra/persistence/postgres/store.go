// Package postgres provides a Postgres-backed project store that mirrors the
// in-memory semantics, persisting each project as a JSONB payload.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"takeoffcore/internal/infra/persistence/memory"
	"takeoffcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain
// interface.
var _ domain.ProjectStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/takeoffcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen swaps the sql.Open hook for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}

// Store persists project snapshots to Postgres while serving reads from the
// wrapped in-memory store.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN), ensures the projects table exists, and hydrates the
// in-memory store from any existing rows.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureProjectsTable(ctx, db); err != nil {
		return nil, err
	}
	snapshot, err := loadSnapshot(ctx, db)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore()
	mem.ImportState(snapshot)
	return &Store{Store: mem, db: db}, nil
}

func ensureProjectsTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS projects (
		name TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure projects table: %w", err)
	}
	return nil
}

func loadSnapshot(ctx context.Context, db *sql.DB) (memory.Snapshot, error) {
	rows, err := db.QueryContext(ctx, `SELECT payload FROM projects`)
	if err != nil {
		return memory.Snapshot{}, fmt.Errorf("select projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return memory.Snapshot{}, fmt.Errorf("scan: %w", err)
		}
		var project domain.Project
		if err := json.Unmarshal(payload, &project); err != nil {
			return memory.Snapshot{}, fmt.Errorf("decode project: %w", err)
		}
		snapshot.Projects = append(snapshot.Projects, project)
	}
	if err := rows.Err(); err != nil {
		return memory.Snapshot{}, fmt.Errorf("iterate projects: %w", err)
	}
	return snapshot, nil
}

// SaveProject stores the snapshot in memory and upserts its JSONB payload.
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
		`INSERT INTO projects(name,payload) VALUES($1,$2) ON CONFLICT(name) DO UPDATE SET payload=excluded.payload`,
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
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete project %q: %w", name, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }
