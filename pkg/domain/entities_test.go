package domain

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func floatPtr(v float64) *float64 { return &v }

func TestWallGrossArea(t *testing.T) {
	cases := []struct {
		name     string
		wall     Wall
		fallback float64
		want     float64
	}{
		{name: "own height", wall: Wall{Length: 4, Height: 2.5}, fallback: 3, want: 10},
		{name: "fallback height", wall: Wall{Length: 4}, fallback: 3, want: 12},
		{name: "zero length", wall: Wall{Height: 2.5}, fallback: 3, want: 0},
		{name: "no usable height", wall: Wall{Length: 4}, fallback: 0, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.wall.GrossArea(tc.fallback); !almostEqual(got, tc.want) {
				t.Fatalf("GrossArea = %v want %v", got, tc.want)
			}
		})
	}
}

func TestRoomEffectiveWallHeight(t *testing.T) {
	cases := []struct {
		name           string
		room           Room
		projectDefault float64
		want           float64
	}{
		{name: "room override wins", room: Room{WallHeight: floatPtr(2.7)}, projectDefault: 3.2, want: 2.7},
		{name: "project default", room: Room{}, projectDefault: 3.2, want: 3.2},
		{name: "package default", room: Room{}, projectDefault: 0, want: DefaultWallHeight},
		{name: "non-positive override ignored", room: Room{WallHeight: floatPtr(0)}, projectDefault: 3.2, want: 3.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.room.EffectiveWallHeight(tc.projectDefault); !almostEqual(got, tc.want) {
				t.Fatalf("EffectiveWallHeight = %v want %v", got, tc.want)
			}
		})
	}
}

func TestOpeningPlacementAndBand(t *testing.T) {
	door := Opening{Name: "D1", Kind: OpeningDoor, Width: 0.9, Height: 2.1}
	if got := door.Placement(); !almostEqual(got, DefaultDoorPlacement) {
		t.Fatalf("door placement = %v want %v", got, DefaultDoorPlacement)
	}
	if bottom, top := door.Band(); !almostEqual(bottom, 0) || !almostEqual(top, 2.1) {
		t.Fatalf("door band = [%v, %v] want [0, 2.1]", bottom, top)
	}

	window := Opening{Name: "W1", Kind: OpeningWindow, Width: 1.2, Height: 1.4}
	if got := window.Placement(); !almostEqual(got, DefaultWindowPlacement) {
		t.Fatalf("window placement = %v want %v", got, DefaultWindowPlacement)
	}
	if bottom, top := window.Band(); !almostEqual(bottom, 1) || !almostEqual(top, 2.4) {
		t.Fatalf("window band = [%v, %v] want [1, 2.4]", bottom, top)
	}

	explicit := Opening{Name: "W2", Kind: OpeningWindow, Height: 0.6, PlacementHeight: floatPtr(1.8)}
	if bottom, top := explicit.Band(); !almostEqual(bottom, 1.8) || !almostEqual(top, 2.4) {
		t.Fatalf("explicit band = [%v, %v] want [1.8, 2.4]", bottom, top)
	}
}

func TestOpeningDerivedQuantities(t *testing.T) {
	door := Opening{Kind: OpeningDoor, Width: 0.9, Height: 2.1, Quantity: 2}
	if got := door.Area(); !almostEqual(got, 0.9*2.1*2) {
		t.Fatalf("door area = %v", got)
	}
	if got := door.PerimeterLength(); !almostEqual(got, 2*(0.9+2.1)*2) {
		t.Fatalf("door perimeter length = %v", got)
	}
	// Doors expose three sides to the surround, windows all four.
	if got := door.StoneUnitLength(); !almostEqual(got, 2*2.1+0.9) {
		t.Fatalf("door stone unit = %v", got)
	}
	window := Opening{Kind: OpeningWindow, Width: 1.2, Height: 1.4, Quantity: 1}
	if got := window.StoneUnitLength(); !almostEqual(got, 2*(1.2+1.4)) {
		t.Fatalf("window stone unit = %v", got)
	}
}

func TestOpeningQuantityIn(t *testing.T) {
	o := Opening{Name: "D1", Kind: OpeningDoor, Width: 0.9, Height: 2.1, RoomQuantities: map[string]int{"kitchen": 2}}
	if got := o.QuantityIn("kitchen"); got != 2 {
		t.Fatalf("QuantityIn(kitchen) = %d want 2", got)
	}
	if got := o.QuantityIn("hall"); got != 1 {
		t.Fatalf("QuantityIn(hall) = %d want 1", got)
	}
}

func TestCeramicZoneGrossArea(t *testing.T) {
	cases := []struct {
		name string
		zone CeramicZone
		want float64
	}{
		{name: "wall band", zone: CeramicZone{Surface: SurfaceWall, Perimeter: 12, Height: 1.5}, want: 18},
		{name: "floor area", zone: CeramicZone{Surface: SurfaceFloor, Area: 9.5}, want: 9.5},
		{name: "override authoritative", zone: CeramicZone{Surface: SurfaceWall, Perimeter: 12, Height: 1.5, EffectiveArea: floatPtr(14.2)}, want: 14.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.zone.GrossArea(); !almostEqual(got, tc.want) {
				t.Fatalf("GrossArea = %v want %v", got, tc.want)
			}
		})
	}
}

func TestRoomFindWallFoldsNames(t *testing.T) {
	r := Room{Walls: []Wall{
		{Name: "North ", Length: 5},
		{Name: "south", Length: 4},
	}}
	for _, query := range []string{"north", " NORTH", "North"} {
		if w, ok := r.FindWall(query); !ok || !almostEqual(w.Length, 5) {
			t.Fatalf("FindWall(%q) = %+v, %v", query, w, ok)
		}
	}
	if _, ok := r.FindWall("east"); ok {
		t.Fatal("unexpected east wall")
	}
	if _, ok := r.FindWall("  "); ok {
		t.Fatal("blank name must not match")
	}
}

func TestProjectDefaults(t *testing.T) {
	var p Project
	if got := p.WallHeightDefault(); !almostEqual(got, DefaultWallHeight) {
		t.Fatalf("WallHeightDefault = %v", got)
	}
	if !p.PlasterBehindCeramic() {
		t.Fatal("plaster behind ceramic should default to true")
	}
	off := false
	p.PlasterUnderCeramic = &off
	if p.PlasterBehindCeramic() {
		t.Fatal("explicit false must disable plaster behind ceramic")
	}
}

func TestProjectLookups(t *testing.T) {
	p := Project{
		Rooms:   []Room{{Name: "kitchen", FloorArea: 12, Perimeter: 14}},
		Doors:   []Opening{{Name: "D1", Kind: OpeningDoor, Width: 0.9, Height: 2.1, Quantity: 1}},
		Windows: []Opening{{Name: "W1", Kind: OpeningWindow, Width: 1.2, Height: 1.4, Quantity: 1}},
	}
	if _, ok := p.FindRoom("kitchen"); !ok {
		t.Fatal("kitchen not found")
	}
	if _, ok := p.FindRoom("attic"); ok {
		t.Fatal("unexpected attic")
	}
	if o, ok := p.FindOpening("W1"); !ok || o.Kind != OpeningWindow {
		t.Fatalf("FindOpening(W1) = %+v, %v", o, ok)
	}
	if got := len(p.Openings()); got != 2 {
		t.Fatalf("Openings() len = %d want 2", got)
	}
}
