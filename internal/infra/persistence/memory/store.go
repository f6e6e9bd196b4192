// Package memory provides an in-memory implementation of the project store
// used for tests and ephemeral environments.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"takeoffcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain
// persistence interface.
var _ domain.ProjectStore = (*Store)(nil)

// Snapshot is the serializable view of the store state, shared with the
// durable backends that wrap this store.
type Snapshot struct {
	Projects []domain.Project `json:"projects"`
}

// Store keeps whole project snapshots keyed by name. Projects are deep-copied
// on the way in and out so callers can never alias stored state.
type Store struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{projects: make(map[string]domain.Project)}
}

// SaveProject stores a copy of the project under its name, replacing any
// previous snapshot.
func (s *Store) SaveProject(_ context.Context, project domain.Project) error {
	if project.Name == "" {
		return domain.ValidationError{Entity: "project", Field: "name", Reason: "must not be empty"}
	}
	clone, err := cloneProject(project)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.projects[project.Name] = clone
	s.mu.Unlock()
	return nil
}

// LoadProject returns a copy of the named project snapshot.
func (s *Store) LoadProject(_ context.Context, name string) (domain.Project, error) {
	s.mu.RLock()
	stored, ok := s.projects[name]
	s.mu.RUnlock()
	if !ok {
		return domain.Project{}, fmt.Errorf("load project %q: %w", name, domain.ErrNotFound)
	}
	return cloneProject(stored)
}

// ListProjects returns the stored project names in sorted order.
func (s *Store) ListProjects(_ context.Context) ([]string, error) {
	s.mu.RLock()
	names := make([]string, 0, len(s.projects))
	for name := range s.projects {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}

// DeleteProject removes the named snapshot.
func (s *Store) DeleteProject(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[name]; !ok {
		return fmt.Errorf("delete project %q: %w", name, domain.ErrNotFound)
	}
	delete(s.projects, name)
	return nil
}

// Close releases nothing for the in-memory store.
func (s *Store) Close() error { return nil }

// ExportState returns a serializable copy of the full store state, projects
// sorted by name.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Snapshot{Projects: make([]domain.Project, 0, len(s.projects))}
	for _, p := range s.projects {
		clone, err := cloneProject(p)
		if err != nil {
			continue
		}
		out.Projects = append(out.Projects, clone)
	}
	sort.Slice(out.Projects, func(i, j int) bool { return out.Projects[i].Name < out.Projects[j].Name })
	return out
}

// ImportState replaces the store contents with the snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = make(map[string]domain.Project, len(snapshot.Projects))
	for _, p := range snapshot.Projects {
		clone, err := cloneProject(p)
		if err != nil {
			continue
		}
		s.projects[p.Name] = clone
	}
}

// cloneProject deep-copies a project through its JSON form, which also runs
// the legacy-alias normalization on import.
func cloneProject(p domain.Project) (domain.Project, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return domain.Project{}, fmt.Errorf("encode project %q: %w", p.Name, err)
	}
	var out domain.Project
	if err := json.Unmarshal(data, &out); err != nil {
		return domain.Project{}, fmt.Errorf("decode project %q: %w", p.Name, err)
	}
	return out, nil
}
