package core

import (
	"context"
	"fmt"
	"time"

	"takeoffcore/internal/engine"
	"takeoffcore/pkg/domain"
)

// Service exposes the takeoff operations over a project store. Every
// calculation loads the current snapshot and runs a fresh engine over it, so
// results always reflect the stored state.
type Service struct {
	store   ProjectStore
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	now     func() time.Time
}

// NewService constructs a service backed by the supplied store.
func NewService(store ProjectStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		audit:   noopAuditRecorder{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying storage implementation.
func (s *Service) Store() ProjectStore { return s.store }

// observe wraps one service operation with tracing, metrics, audit, and
// logging.
func (s *Service) observe(ctx context.Context, operation, entityID string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, operation)
	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)
	span.End(err)
	s.metrics.Observe(ctx, operation, err == nil, duration)

	entry := AuditEntry{Operation: operation, EntityID: entityID, Status: AuditStatusSuccess, At: s.now()}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.logger.Error("operation failed", "operation", operation, "entity", entityID, "error", err)
	} else {
		s.logger.Debug("operation completed", "operation", operation, "entity", entityID, "duration", duration)
	}
	s.audit.Record(ctx, entry)
	return err
}

// SaveProject validates every entity in the snapshot and persists it.
// Validation happens here, at the boundary: the engine never sees an invalid
// entity.
func (s *Service) SaveProject(ctx context.Context, project Project) error {
	return s.observe(ctx, "save_project", project.Name, func(ctx context.Context) error {
		validated, err := validateProject(project)
		if err != nil {
			return err
		}
		return s.store.SaveProject(ctx, validated)
	})
}

// GetProject loads the named snapshot.
func (s *Service) GetProject(ctx context.Context, name string) (Project, error) {
	var project Project
	err := s.observe(ctx, "get_project", name, func(ctx context.Context) error {
		var err error
		project, err = s.store.LoadProject(ctx, name)
		return err
	})
	return project, err
}

// ListProjects returns the stored project names.
func (s *Service) ListProjects(ctx context.Context) ([]string, error) {
	var names []string
	err := s.observe(ctx, "list_projects", "", func(ctx context.Context) error {
		var err error
		names, err = s.store.ListProjects(ctx)
		return err
	})
	return names, err
}

// DeleteProject removes the named snapshot.
func (s *Service) DeleteProject(ctx context.Context, name string) error {
	return s.observe(ctx, "delete_project", name, func(ctx context.Context) error {
		return s.store.DeleteProject(ctx, name)
	})
}

// CalculateRoom returns the certified record for one room of the named
// project.
func (s *Service) CalculateRoom(ctx context.Context, projectName, roomName string) (RoomQuantities, error) {
	var record RoomQuantities
	err := s.observe(ctx, "calculate_room", projectName, func(ctx context.Context) error {
		eng, err := s.engineFor(ctx, projectName)
		if err != nil {
			return err
		}
		room, ok := eng.Project().FindRoom(roomName)
		if !ok {
			return fmt.Errorf("room %q: %w", roomName, domain.ErrNotFound)
		}
		record = eng.CalculateRoom(room)
		return nil
	})
	return record, err
}

// CalculateAllRooms returns the certified record for every room of the named
// project.
func (s *Service) CalculateAllRooms(ctx context.Context, projectName string) ([]RoomQuantities, error) {
	var records []RoomQuantities
	err := s.observe(ctx, "calculate_all_rooms", projectName, func(ctx context.Context) error {
		eng, err := s.engineFor(ctx, projectName)
		if err != nil {
			return err
		}
		records = eng.CalculateAllRooms()
		return nil
	})
	return records, err
}

// CalculateTotals returns the project-wide sums for the named project.
func (s *Service) CalculateTotals(ctx context.Context, projectName string) (ProjectTotals, error) {
	var totals ProjectTotals
	err := s.observe(ctx, "calculate_totals", projectName, func(ctx context.Context) error {
		eng, err := s.engineFor(ctx, projectName)
		if err != nil {
			return err
		}
		totals = eng.CalculateTotals()
		return nil
	})
	return totals, err
}

// ZoneMetrics returns the per-zone audit records for the named project.
func (s *Service) ZoneMetrics(ctx context.Context, projectName string) ([]ZoneMetrics, error) {
	var metrics []ZoneMetrics
	err := s.observe(ctx, "zone_metrics", projectName, func(ctx context.Context) error {
		eng, err := s.engineFor(ctx, projectName)
		if err != nil {
			return err
		}
		metrics = eng.AllZoneMetrics()
		return nil
	})
	return metrics, err
}

// WallBreakdown returns the per-wall refinement of one room's certified
// record.
func (s *Service) WallBreakdown(ctx context.Context, projectName, roomName string) (WallBreakdown, error) {
	var breakdown WallBreakdown
	err := s.observe(ctx, "wall_breakdown", projectName, func(ctx context.Context) error {
		eng, err := s.engineFor(ctx, projectName)
		if err != nil {
			return err
		}
		room, ok := eng.Project().FindRoom(roomName)
		if !ok {
			return fmt.Errorf("room %q: %w", roomName, domain.ErrNotFound)
		}
		breakdown = eng.WallBreakdown(room)
		return nil
	})
	return breakdown, err
}

// Lint evaluates the consistency rules over the named project.
func (s *Service) Lint(ctx context.Context, projectName string) (Result, error) {
	var result Result
	err := s.observe(ctx, "lint_project", projectName, func(ctx context.Context) error {
		eng, err := s.engineFor(ctx, projectName)
		if err != nil {
			return err
		}
		result = eng.Lint()
		return nil
	})
	return result, err
}

// engineFor loads the named snapshot and constructs a fresh engine over it,
// which also resets the instance-scoped ceramic memo.
func (s *Service) engineFor(ctx context.Context, projectName string) (*engine.Engine, error) {
	project, err := s.store.LoadProject(ctx, projectName)
	if err != nil {
		return nil, err
	}
	return engine.New(&project), nil
}

// validateProject runs each entity through its construction gate and returns
// the snapshot with defaults applied.
func validateProject(project Project) (Project, error) {
	if project.Name == "" {
		return Project{}, domain.ValidationError{Entity: "project", Field: "name", Reason: "must not be empty"}
	}
	out := project
	out.Rooms = make([]Room, len(project.Rooms))
	for i, room := range project.Rooms {
		validated, err := domain.NewRoom(room)
		if err != nil {
			return Project{}, err
		}
		out.Rooms[i] = validated
	}
	out.Doors = make([]Opening, len(project.Doors))
	for i, door := range project.Doors {
		if door.Kind == "" {
			door.Kind = OpeningDoor
		}
		validated, err := domain.NewOpening(door)
		if err != nil {
			return Project{}, err
		}
		out.Doors[i] = validated
	}
	out.Windows = make([]Opening, len(project.Windows))
	for i, window := range project.Windows {
		if window.Kind == "" {
			window.Kind = OpeningWindow
		}
		validated, err := domain.NewOpening(window)
		if err != nil {
			return Project{}, err
		}
		out.Windows[i] = validated
	}
	out.CeramicZones = make([]CeramicZone, len(project.CeramicZones))
	for i, zone := range project.CeramicZones {
		validated, err := domain.NewCeramicZone(zone)
		if err != nil {
			return Project{}, err
		}
		out.CeramicZones[i] = validated
	}
	return out, nil
}
