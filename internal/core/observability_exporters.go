package core

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var expvarNameSeq atomic.Uint64

// OperationMetrics aggregates the recorded outcomes of one service operation.
type OperationMetrics struct {
	Successes  int64   `json:"successes"`
	Errors     int64   `json:"errors"`
	DurationMS float64 `json:"duration_ms_total"`
}

// ExpvarMetricsRecorder is a MetricsRecorder that exposes per-operation
// aggregates through expvar, for deployments without a scrape endpoint.
type ExpvarMetricsRecorder struct {
	name string

	mu  sync.Mutex
	ops map[string]OperationMetrics
}

// NewExpvarMetricsRecorder publishes a recorder under the given export name.
// An empty name gets a generated one so repeated constructions never collide.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		name = fmt.Sprintf("takeoff_service_metrics_%d", expvarNameSeq.Add(1))
	}
	r := &ExpvarMetricsRecorder{name: name, ops: make(map[string]OperationMetrics)}
	expvar.Publish(name, expvar.Func(func() any { return r.Snapshot() }))
	return r
}

// Name returns the expvar export name.
func (r *ExpvarMetricsRecorder) Name() string { return r.name }

// Observe implements MetricsRecorder.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.ops[operation]
	if success {
		m.Successes++
	} else {
		m.Errors++
	}
	m.DurationMS += duration.Seconds() * 1000
	r.ops[operation] = m
}

// Snapshot returns a copy of the per-operation aggregates.
func (r *ExpvarMetricsRecorder) Snapshot() map[string]OperationMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]OperationMetrics, len(r.ops))
	for op, m := range r.ops {
		out[op] = m
	}
	return out
}

// JSONTraceEntry is one completed span as written to the trace log.
type JSONTraceEntry struct {
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// JSONTraceTracer writes one JSON line per completed span and keeps the
// entries in memory for inspection.
type JSONTraceTracer struct {
	mu      sync.Mutex
	entries []JSONTraceEntry
	enc     *json.Encoder
}

// NewJSONTracer returns a tracer logging spans to w. A nil writer keeps spans
// in memory only.
func NewJSONTracer(w io.Writer) *JSONTraceTracer {
	t := &JSONTraceTracer{}
	if w != nil {
		t.enc = json.NewEncoder(w)
	}
	return t
}

// Start implements Tracer.
func (t *JSONTraceTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &jsonTraceSpan{tracer: t, operation: operation, started: time.Now().UTC()}
}

// Entries returns a copy of the completed spans.
func (t *JSONTraceTracer) Entries() []JSONTraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]JSONTraceEntry(nil), t.entries...)
}

func (t *JSONTraceTracer) record(e JSONTraceEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
	if t.enc != nil {
		_ = t.enc.Encode(e)
	}
}

type jsonTraceSpan struct {
	tracer    *JSONTraceTracer
	operation string
	started   time.Time
}

func (s *jsonTraceSpan) End(err error) {
	ended := time.Now().UTC()
	e := JSONTraceEntry{
		Operation:  s.operation,
		Status:     string(AuditStatusSuccess),
		DurationMS: ended.Sub(s.started).Seconds() * 1000,
		StartedAt:  s.started,
		EndedAt:    ended,
	}
	if err != nil {
		e.Status = string(AuditStatusError)
		e.Error = err.Error()
	}
	s.tracer.record(e)
}
