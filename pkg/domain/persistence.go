package domain

import (
	"context"
	"errors"
)

// ErrNotFound reports a lookup for a project name the store has never seen.
var ErrNotFound = errors.New("domain: project not found")

// ProjectStore is a minimal abstraction over durable backends. Projects are
// saved and loaded as whole snapshots keyed by name; partial updates happen
// in memory and re-save the snapshot.
type ProjectStore interface {
	SaveProject(ctx context.Context, project Project) error
	LoadProject(ctx context.Context, name string) (Project, error)
	ListProjects(ctx context.Context) ([]string, error)
	DeleteProject(ctx context.Context, name string) error
	Close() error
}
