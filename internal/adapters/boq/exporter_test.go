package boq

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	blobmemory "takeoffcore/internal/infra/blob/memory"
	storememory "takeoffcore/internal/infra/persistence/memory"

	"takeoffcore/internal/core"
	"takeoffcore/pkg/domain"
)

func newTestWorker(t *testing.T) (*Worker, *core.Service, *blobmemory.Store) {
	t.Helper()
	svc := core.NewService(storememory.NewStore())
	store := blobmemory.New()
	worker := NewWorker(svc, store, nil)
	worker.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = worker.Stop(ctx)
	})
	return worker, svc, store
}

func seedProject(t *testing.T, svc *core.Service) {
	t.Helper()
	project := domain.Project{
		Name: "villa",
		Rooms: []domain.Room{
			{Name: "living", FloorArea: 20, Perimeter: 18, OpeningIDs: []string{"D1"}},
			{Name: "bedroom", FloorArea: 12, Perimeter: 14},
		},
		Doors: []domain.Opening{
			{Name: "D1", Kind: domain.OpeningDoor, Width: 1, Height: 2, Quantity: 1},
		},
		CeramicZones: []domain.CeramicZone{
			{Name: "skirt", Surface: domain.SurfaceWall, Room: "living", Perimeter: 18, Height: 1},
		},
	}
	if err := svc.SaveProject(context.Background(), project); err != nil {
		t.Fatalf("save project: %v", err)
	}
}

func waitForExport(t *testing.T, worker *Worker, id string) Record {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		record, ok := worker.Get(id)
		if !ok {
			t.Fatalf("export %s disappeared", id)
		}
		if record.Status == ExportStatusSucceeded || record.Status == ExportStatusFailed {
			return record
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("export %s did not finish", id)
	return Record{}
}

func TestExportProducesJSONAndCSVArtifacts(t *testing.T) {
	worker, svc, store := newTestWorker(t)
	seedProject(t, svc)

	record, err := worker.Enqueue(context.Background(), Input{Project: "villa", RequestedBy: "estimator"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if record.Status != ExportStatusQueued || len(record.Formats) != 2 {
		t.Fatalf("queued record = %+v", record)
	}

	done := waitForExport(t, worker, record.ID)
	if done.Status != ExportStatusSucceeded {
		t.Fatalf("export failed: %+v", done)
	}
	if len(done.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %+v", done.Artifacts)
	}
	if done.CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}

	var jsonKey, csvKey string
	for _, artifact := range done.Artifacts {
		switch artifact.Format {
		case FormatJSON:
			jsonKey = artifact.Key
		case FormatCSV:
			csvKey = artifact.Key
		}
		if artifact.SizeBytes == 0 {
			t.Fatalf("artifact has no payload: %+v", artifact)
		}
	}

	_, rc, err := store.Get(context.Background(), jsonKey)
	if err != nil {
		t.Fatalf("get json artifact: %v", err)
	}
	payload, _ := io.ReadAll(rc)
	_ = rc.Close()
	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc.Project != "villa" || len(doc.Rooms) != 2 || doc.Totals.Rooms != 2 {
		t.Fatalf("unexpected document: project=%s rooms=%d totals=%+v", doc.Project, len(doc.Rooms), doc.Totals)
	}
	if len(doc.Walls) != 2 {
		t.Fatalf("expected wall breakdowns for both rooms, got %d", len(doc.Walls))
	}

	_, rc, err = store.Get(context.Background(), csvKey)
	if err != nil {
		t.Fatalf("get csv artifact: %v", err)
	}
	raw, _ := io.ReadAll(rc)
	_ = rc.Close()
	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// header + 2 rooms + totals
	if len(rows) != 4 {
		t.Fatalf("expected 4 csv rows, got %d", len(rows))
	}
	if rows[0][0] != "room" || rows[3][0] != "TOTAL" {
		t.Fatalf("unexpected csv frame: %v", rows)
	}
	if rows[1][0] != "living" || rows[1][3] != "52.00" {
		t.Fatalf("unexpected living row: %v", rows[1])
	}
}

func TestExportUnknownProjectFails(t *testing.T) {
	worker, _, _ := newTestWorker(t)

	record, err := worker.Enqueue(context.Background(), Input{Project: "ghost", Formats: []Format{FormatJSON}})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	done := waitForExport(t, worker, record.ID)
	if done.Status != ExportStatusFailed || done.Error == "" {
		t.Fatalf("expected failed export, got %+v", done)
	}
}

func TestEnqueueValidation(t *testing.T) {
	worker, _, _ := newTestWorker(t)

	if _, err := worker.Enqueue(context.Background(), Input{}); err == nil {
		t.Fatalf("expected empty project rejection")
	}
	if _, err := worker.Enqueue(context.Background(), Input{Project: "p", Formats: []Format{"xlsx"}}); err == nil {
		t.Fatalf("expected unsupported format rejection")
	}
}

func TestEnqueueDeduplicatesFormats(t *testing.T) {
	worker, svc, _ := newTestWorker(t)
	seedProject(t, svc)

	record, err := worker.Enqueue(context.Background(), Input{
		Project: "villa",
		Formats: []Format{FormatJSON, FormatJSON, FormatCSV},
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if len(record.Formats) != 2 {
		t.Fatalf("expected deduplicated formats, got %v", record.Formats)
	}
}

func TestExportAuditTrail(t *testing.T) {
	svc := core.NewService(storememory.NewStore())
	store := blobmemory.New()
	audit := &captureAudit{}
	worker := NewWorker(svc, store, audit)
	worker.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = worker.Stop(ctx)
	})
	seedProject(t, svc)

	record, err := worker.Enqueue(context.Background(), Input{Project: "villa", Formats: []Format{FormatJSON}})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	waitForExport(t, worker, record.ID)

	var sawExport bool
	for _, entry := range audit.entries() {
		if entry.Operation == "boq_export" && entry.EntityID == "villa" {
			sawExport = true
		}
	}
	if !sawExport {
		t.Fatalf("expected boq_export audit entries, got %+v", audit.entries())
	}
}

type captureAudit struct {
	mu   sync.Mutex
	list []core.AuditEntry
}

func (c *captureAudit) Record(_ context.Context, entry core.AuditEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = append(c.list, entry)
}

func (c *captureAudit) entries() []core.AuditEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.AuditEntry, len(c.list))
	copy(out, c.list)
	return out
}
