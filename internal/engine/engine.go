// Package engine implements the deduction and allocation core: it turns a
// project snapshot into certified per-room, per-zone, and per-wall quantity
// records. The engine is a pure read path — it never mutates the snapshot and
// recomputes everything from scratch on each construction.
package engine

import (
	"takeoffcore/pkg/domain"
)

// Engine computes certified takeoff quantities over one immutable project
// snapshot. The ceramic-by-room memo is instance scoped: construct a fresh
// engine after any entity edit instead of reusing one across snapshots.
// Concurrent callers must each own their own Engine.
type Engine struct {
	project *domain.Project

	openings map[string]domain.Opening

	ceramicMemo map[string]domain.CeramicBreakdown
}

// New constructs an engine over the given snapshot.
func New(project *domain.Project) *Engine {
	e := &Engine{
		project:  project,
		openings: make(map[string]domain.Opening, len(project.Doors)+len(project.Windows)),
	}
	for _, o := range project.Openings() {
		e.openings[o.Name] = o
	}
	return e
}

// Project returns the snapshot the engine was constructed over.
func (e *Engine) Project() *domain.Project { return e.project }

// roomOpenings resolves a room's opening references against the project's
// definitions, silently skipping references to openings that no longer exist.
func (e *Engine) roomOpenings(room domain.Room) []domain.Opening {
	out := make([]domain.Opening, 0, len(room.OpeningIDs))
	for _, id := range room.OpeningIDs {
		if o, ok := e.openings[id]; ok {
			out = append(out, o)
		}
	}
	return out
}
