package core

import (
	"bytes"
	"context"
	"expvar"
	"strings"
	"testing"
	"time"

	"takeoffcore/internal/infra/persistence/memory"
	"takeoffcore/pkg/domain"
)

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAuditRecorder) has(op string, status AuditStatus, predicate func(AuditEntry) bool) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			if predicate == nil || predicate(entry) {
				return true
			}
		}
	}
	return false
}

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

type spanRecord struct {
	op  string
	err error
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op {
			if success && record.err == nil {
				return true
			}
			if !success && record.err != nil {
				return true
			}
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

func TestServiceObservabilityCoversOperations(t *testing.T) {
	ctx := context.Background()
	audit := &captureAuditRecorder{}
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}

	svc := NewService(memory.NewStore(),
		WithAuditRecorder(audit),
		WithMetricsRecorder(metrics),
		WithTracer(tracer),
	)

	project := sampleProject()
	if err := svc.SaveProject(ctx, project); err != nil {
		t.Fatalf("save project: %v", err)
	}
	if !audit.has("save_project", AuditStatusSuccess, func(entry AuditEntry) bool { return entry.EntityID == project.Name }) {
		t.Fatalf("expected audit entry for save_project success")
	}

	if _, err := svc.GetProject(ctx, project.Name); err != nil {
		t.Fatalf("get project: %v", err)
	}
	if _, err := svc.ListProjects(ctx); err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if _, err := svc.CalculateRoom(ctx, project.Name, "living"); err != nil {
		t.Fatalf("calculate room: %v", err)
	}
	if _, err := svc.CalculateAllRooms(ctx, project.Name); err != nil {
		t.Fatalf("calculate all rooms: %v", err)
	}
	if _, err := svc.CalculateTotals(ctx, project.Name); err != nil {
		t.Fatalf("calculate totals: %v", err)
	}
	if _, err := svc.ZoneMetrics(ctx, project.Name); err != nil {
		t.Fatalf("zone metrics: %v", err)
	}
	if _, err := svc.WallBreakdown(ctx, project.Name, "living"); err != nil {
		t.Fatalf("wall breakdown: %v", err)
	}
	if _, err := svc.Lint(ctx, project.Name); err != nil {
		t.Fatalf("lint: %v", err)
	}
	if err := svc.DeleteProject(ctx, project.Name); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if _, err := svc.GetProject(ctx, "missing"); err == nil {
		t.Fatalf("expected get_project error for missing project")
	}
	if !audit.has("get_project", AuditStatusError, nil) {
		t.Fatalf("expected audit error entry for get_project")
	}
	if !metrics.has("get_project", false) {
		t.Fatalf("expected metrics entry for failed get_project")
	}
	if !tracer.has("get_project", false) {
		t.Fatalf("expected trace span for failed get_project")
	}

	successOps := []string{
		"save_project",
		"get_project",
		"list_projects",
		"calculate_room",
		"calculate_all_rooms",
		"calculate_totals",
		"zone_metrics",
		"wall_breakdown",
		"lint_project",
		"delete_project",
	}

	for _, op := range successOps {
		if !metrics.has(op, true) {
			t.Fatalf("expected metrics success entry for %s", op)
		}
		if !tracer.has(op, true) {
			t.Fatalf("expected finished span for %s", op)
		}
		if !audit.has(op, AuditStatusSuccess, nil) {
			t.Fatalf("expected audit success entry for %s", op)
		}
	}
}

func TestServiceAuditUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)
	audit := &captureAuditRecorder{}
	svc := NewService(memory.NewStore(),
		WithAuditRecorder(audit),
		WithClock(func() time.Time { return fixed }),
	)

	if err := svc.SaveProject(context.Background(), sampleProject()); err != nil {
		t.Fatalf("save project: %v", err)
	}
	if len(audit.entries) == 0 {
		t.Fatalf("expected audit entry")
	}
	if !audit.entries[0].At.Equal(fixed) {
		t.Fatalf("expected audit timestamp %v, got %v", fixed, audit.entries[0].At)
	}
}

const entryStatusSuccess = "success"

func TestExpvarMetricsRecorderExports(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	if recorder.Name() == "" {
		t.Fatalf("expected recorder to have export name")
	}
	recorder.Observe(context.Background(), "test_op", true, 10*time.Millisecond)
	recorder.Observe(context.Background(), "test_op", false, 5*time.Millisecond)

	snapshot := recorder.Snapshot()
	if snapshot["test_op"].DurationMS <= 0 {
		t.Fatalf("expected positive duration, snapshot=%+v", snapshot)
	}
	if snapshot["test_op"].Successes != 1 || snapshot["test_op"].Errors != 1 {
		t.Fatalf("unexpected results snapshot=%+v", snapshot)
	}

	if v := expvar.Get(recorder.Name()); v == nil {
		t.Fatalf("expected expvar export to be registered")
	} else if !strings.Contains(v.String(), "test_op") {
		t.Fatalf("expected expvar output to contain operation: %s", v.String())
	}
}

func TestJSONTraceTracerExports(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "trace_op")
	span.End(nil)

	entries := tracer.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected single span entry, got %d", len(entries))
	}
	if entries[0].Operation != "trace_op" || entries[0].Status != entryStatusSuccess {
		t.Fatalf("unexpected span entry: %+v", entries[0])
	}
	if !strings.Contains(buf.String(), "\"operation\":\"trace_op\"") {
		t.Fatalf("expected JSON output to contain operation: %q", buf.String())
	}
}

func sampleProject() domain.Project {
	return domain.Project{
		Name: "villa",
		Rooms: []domain.Room{
			{Name: "living", FloorArea: 20, Perimeter: 18, OpeningIDs: []string{"D1"}},
		},
		Doors: []domain.Opening{
			{Name: "D1", Kind: domain.OpeningDoor, Width: 1, Height: 2, Quantity: 1},
		},
		CeramicZones: []domain.CeramicZone{
			{Name: "skirt", Surface: domain.SurfaceWall, Room: "living", Perimeter: 18, Height: 1},
		},
	}
}
