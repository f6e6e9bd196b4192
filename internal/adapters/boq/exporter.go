// Package boq renders the certified takeoff quantities of a stored project
// into bill-of-quantity artifacts and persists them in a blob store.
package boq

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"takeoffcore/internal/blob"
	"takeoffcore/internal/core"
)

// Format identifies an artifact rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ExportStatus describes the lifecycle stage of an export request.
type ExportStatus string

const (
	ExportStatusQueued    ExportStatus = "queued"
	ExportStatusRunning   ExportStatus = "running"
	ExportStatusSucceeded ExportStatus = "succeeded"
	ExportStatusFailed    ExportStatus = "failed"
)

// Artifact captures one stored bill-of-quantity rendering.
type Artifact struct {
	Key         string    `json:"key"`
	Format      Format    `json:"format"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record tracks an export request and its resulting artifacts.
type Record struct {
	ID          string       `json:"id"`
	Project     string       `json:"project"`
	Formats     []Format     `json:"formats"`
	Status      ExportStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	Artifacts   []Artifact   `json:"artifacts,omitempty"`
	RequestedBy string       `json:"requested_by,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// Input is an enqueue request for the worker.
type Input struct {
	Project     string
	Formats     []Format
	RequestedBy string
	Reason      string
}

// Document is the full JSON artifact payload: every certified surface of one
// project snapshot in a single report.
type Document struct {
	Project     string                        `json:"project"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Rooms       []core.RoomQuantities         `json:"rooms"`
	Totals      core.ProjectTotals            `json:"totals"`
	Zones       []core.ZoneMetrics            `json:"zones,omitempty"`
	Walls       map[string]core.WallBreakdown `json:"walls,omitempty"`
}

// Worker executes bill-of-quantity exports asynchronously.
type Worker struct {
	service *core.Service
	store   blob.Store
	audit   core.AuditRecorder

	queue chan task
	mu    sync.RWMutex
	jobs  map[string]*Record

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type task struct {
	id    string
	input Input
}

// NewWorker constructs an export worker over the takeoff service and blob
// store. The audit recorder may be nil.
func NewWorker(service *core.Service, store blob.Store, audit core.AuditRecorder) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		service: service,
		store:   store,
		audit:   audit,
		queue:   make(chan task, 32),
		jobs:    make(map[string]*Record),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins processing export requests.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for completion.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case t := <-w.queue:
			w.process(t)
		}
	}
}

// Enqueue schedules an export job and returns the queued record.
func (w *Worker) Enqueue(ctx context.Context, input Input) (Record, error) {
	if strings.TrimSpace(input.Project) == "" {
		return Record{}, fmt.Errorf("project name required")
	}
	formats := input.Formats
	if len(formats) == 0 {
		formats = []Format{FormatJSON, FormatCSV}
	}
	uniq := make([]Format, 0, len(formats))
	seen := make(map[Format]struct{})
	for _, format := range formats {
		if _, dup := seen[format]; dup {
			continue
		}
		switch format {
		case FormatJSON, FormatCSV:
		default:
			return Record{}, fmt.Errorf("unsupported format %s", format)
		}
		uniq = append(uniq, format)
		seen[format] = struct{}{}
	}

	id := newID()
	now := time.Now().UTC()
	record := Record{
		ID:          id,
		Project:     input.Project,
		Formats:     uniq,
		Status:      ExportStatusQueued,
		RequestedBy: input.RequestedBy,
		Reason:      input.Reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	w.mu.Lock()
	w.jobs[id] = &record
	snapshot := record.copy()
	w.mu.Unlock()

	w.recordAudit(ctx, input.Project, ExportStatusQueued, "")

	select {
	case w.queue <- task{id: id, input: input}:
	default:
		return Record{}, fmt.Errorf("export queue full")
	}
	return snapshot, nil
}

// Get returns a snapshot of the export record.
func (w *Worker) Get(id string) (Record, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	record, ok := w.jobs[id]
	if !ok {
		return Record{}, false
	}
	return record.copy(), true
}

func (w *Worker) process(t task) {
	w.updateStatus(t.id, ExportStatusRunning, "")

	doc, err := BuildDocument(w.ctx, w.service, t.input.Project)
	if err != nil {
		w.fail(t.id, t.input.Project, fmt.Sprintf("build document: %v", err))
		return
	}

	record, ok := w.Get(t.id)
	if !ok {
		return
	}
	artifacts := make([]Artifact, 0, len(record.Formats))
	for _, format := range record.Formats {
		payload, contentType, err := Render(format, doc)
		if err != nil {
			w.fail(t.id, t.input.Project, err.Error())
			return
		}
		key := fmt.Sprintf("boq/%s/%s.%s", doc.Project, t.id, format)
		info, err := w.store.Put(w.ctx, key, bytes.NewReader(payload), blob.PutOptions{
			ContentType: contentType,
			Metadata:    map[string]string{"project": doc.Project, "export": t.id},
		})
		if err != nil {
			w.fail(t.id, t.input.Project, fmt.Sprintf("store artifact: %v", err))
			return
		}
		artifacts = append(artifacts, Artifact{
			Key:         info.Key,
			Format:      format,
			ContentType: contentType,
			SizeBytes:   info.Size,
			URL:         info.URL,
			CreatedAt:   info.LastModified,
		})
	}
	w.complete(t.id, t.input.Project, artifacts)
}

// BuildDocument pulls every certified surface for the project through the
// service so exports carry the same audit trail as interactive calls.
func BuildDocument(ctx context.Context, service *core.Service, projectName string) (Document, error) {
	project, err := service.GetProject(ctx, projectName)
	if err != nil {
		return Document{}, err
	}
	rooms, err := service.CalculateAllRooms(ctx, projectName)
	if err != nil {
		return Document{}, err
	}
	totals, err := service.CalculateTotals(ctx, projectName)
	if err != nil {
		return Document{}, err
	}
	zones, err := service.ZoneMetrics(ctx, projectName)
	if err != nil {
		return Document{}, err
	}
	walls := make(map[string]core.WallBreakdown, len(project.Rooms))
	for _, room := range project.Rooms {
		breakdown, err := service.WallBreakdown(ctx, projectName, room.Name)
		if err != nil {
			return Document{}, err
		}
		walls[room.Name] = breakdown
	}
	return Document{
		Project:     projectName,
		GeneratedAt: time.Now().UTC(),
		Rooms:       rooms,
		Totals:      totals,
		Zones:       zones,
		Walls:       walls,
	}, nil
}

var csvHeader = []string{
	"room", "walls_gross", "openings_deduction", "walls_net",
	"plaster_walls", "plaster_ceiling", "plaster_total",
	"paint_walls", "paint_ceiling", "paint_total",
	"ceramic_wall", "ceramic_floor", "ceramic_ceiling",
	"baseboard_length", "stone_length",
}

// Render materializes a document into the requested format, returning the
// payload and its content type.
func Render(format Format, doc Document) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		payload, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("marshal json: %w", err)
		}
		return payload, "application/json", nil
	case FormatCSV:
		buf := &bytes.Buffer{}
		writer := csv.NewWriter(buf)
		if err := writer.Write(csvHeader); err != nil {
			return nil, "", err
		}
		for _, room := range doc.Rooms {
			row := []string{
				room.RoomName,
				num(room.WallsGross), num(room.OpeningsDeduction), num(room.WallsNet),
				num(room.PlasterWalls), num(room.PlasterCeiling), num(room.PlasterTotal),
				num(room.PaintWalls), num(room.PaintCeiling), num(room.PaintTotal),
				num(room.CeramicWall), num(room.CeramicFloor), num(room.CeramicCeiling),
				num(room.BaseboardLength), num(room.StoneLength),
			}
			if err := writer.Write(row); err != nil {
				return nil, "", err
			}
		}
		totalsRow := []string{
			"TOTAL",
			num(doc.Totals.WallsGross), num(doc.Totals.OpeningsDeduction), num(doc.Totals.WallsNet),
			"", "", num(doc.Totals.PlasterTotal),
			"", "", num(doc.Totals.PaintTotal),
			num(doc.Totals.CeramicWall), num(doc.Totals.CeramicFloor), num(doc.Totals.CeramicCeiling),
			num(doc.Totals.BaseboardTotal), num(doc.Totals.StoneTotal),
		}
		if err := writer.Write(totalsRow); err != nil {
			return nil, "", err
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "text/csv", nil
	default:
		return nil, "", fmt.Errorf("unsupported format %s", format)
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (w *Worker) updateStatus(id string, status ExportStatus, message string) {
	now := time.Now().UTC()
	w.mu.Lock()
	record, ok := w.jobs[id]
	var project string
	if ok {
		record.Status = status
		record.Error = message
		record.UpdatedAt = now
		project = record.Project
	}
	w.mu.Unlock()
	if ok {
		w.recordAudit(w.ctx, project, status, message)
	}
}

func (w *Worker) complete(id, project string, artifacts []Artifact) {
	now := time.Now().UTC()
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = ExportStatusSucceeded
		record.Error = ""
		record.Artifacts = artifacts
		record.UpdatedAt = now
		record.CompletedAt = &now
	}
	w.mu.Unlock()
	w.recordAudit(w.ctx, project, ExportStatusSucceeded, "")
}

func (w *Worker) fail(id, project, reason string) {
	now := time.Now().UTC()
	w.mu.Lock()
	if record, ok := w.jobs[id]; ok {
		record.Status = ExportStatusFailed
		record.Error = reason
		record.UpdatedAt = now
		record.CompletedAt = &now
	}
	w.mu.Unlock()
	w.recordAudit(w.ctx, project, ExportStatusFailed, reason)
}

func (w *Worker) recordAudit(ctx context.Context, project string, status ExportStatus, message string) {
	if w.audit == nil {
		return
	}
	entry := core.AuditEntry{
		Operation: "boq_export",
		EntityID:  project,
		Status:    core.AuditStatusSuccess,
		At:        time.Now().UTC(),
	}
	if status == ExportStatusFailed {
		entry.Status = core.AuditStatusError
		entry.Error = message
	}
	w.audit.Record(ctx, entry)
}

func (r *Record) copy() Record {
	out := *r
	out.Formats = append([]Format(nil), r.Formats...)
	out.Artifacts = append([]Artifact(nil), r.Artifacts...)
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

func newID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("exp-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
