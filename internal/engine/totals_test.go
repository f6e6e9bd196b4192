package engine

import (
	"testing"

	"takeoffcore/pkg/domain"
)

func TestCalculateTotalsSumsRooms(t *testing.T) {
	project := &domain.Project{
		Rooms: []domain.Room{
			{Name: "living", FloorArea: 20, Perimeter: 18, OpeningIDs: []string{"D1"}},
			{Name: "kitchen", FloorArea: 12, Perimeter: 14, OpeningIDs: []string{"D1", "W1"}},
		},
		Doors:   []domain.Opening{{Name: "D1", Kind: domain.OpeningDoor, Width: 1, Height: 2, Quantity: 1}},
		Windows: []domain.Opening{{Name: "W1", Kind: domain.OpeningWindow, Width: 1.2, Height: 1.2, Quantity: 1}},
		CeramicZones: []domain.CeramicZone{
			{Name: "kitchen band", Surface: domain.SurfaceWall, Room: "kitchen", Perimeter: 14, Height: 1.5},
			{Name: "kitchen floor", Surface: domain.SurfaceFloor, Room: "kitchen", Area: 12},
		},
	}
	e := New(project)
	totals := e.CalculateTotals()
	records := e.CalculateAllRooms()

	if totals.Rooms != 2 {
		t.Fatalf("rooms = %d want 2", totals.Rooms)
	}
	var wantPlaster, wantPaint, wantCeramic, wantBaseboard, wantStone, wantNet float64
	for _, r := range records {
		wantPlaster += r.PlasterTotal
		wantPaint += r.PaintTotal
		wantCeramic += r.CeramicTotal()
		wantBaseboard += r.BaseboardLength
		wantStone += r.StoneLength
		wantNet += r.WallsNet
	}
	if !almostEqual(totals.PlasterTotal, wantPlaster) {
		t.Fatalf("plaster total = %v want %v", totals.PlasterTotal, wantPlaster)
	}
	if !almostEqual(totals.PaintTotal, wantPaint) {
		t.Fatalf("paint total = %v want %v", totals.PaintTotal, wantPaint)
	}
	if !almostEqual(totals.CeramicTotal, wantCeramic) {
		t.Fatalf("ceramic total = %v want %v", totals.CeramicTotal, wantCeramic)
	}
	if !almostEqual(totals.BaseboardTotal, wantBaseboard) {
		t.Fatalf("baseboard total = %v want %v", totals.BaseboardTotal, wantBaseboard)
	}
	if !almostEqual(totals.StoneTotal, wantStone) {
		t.Fatalf("stone total = %v want %v", totals.StoneTotal, wantStone)
	}
	if !almostEqual(totals.WallsNet, wantNet) {
		t.Fatalf("walls net = %v want %v", totals.WallsNet, wantNet)
	}
	if !almostEqual(totals.FloorArea, 32) {
		t.Fatalf("floor area = %v want 32", totals.FloorArea)
	}
}

func TestCalculateTotalsEmptyProject(t *testing.T) {
	e := New(&domain.Project{})
	totals := e.CalculateTotals()
	if totals != (domain.ProjectTotals{}) {
		t.Fatalf("totals = %+v want zero value", totals)
	}
}
