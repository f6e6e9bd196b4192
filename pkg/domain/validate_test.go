package domain

import (
	"errors"
	"testing"
)

func TestNewRoomValidation(t *testing.T) {
	cases := []struct {
		name    string
		room    Room
		wantErr bool
	}{
		{name: "valid", room: Room{Name: "kitchen", FloorArea: 12, Perimeter: 14}},
		{name: "missing name", room: Room{FloorArea: 12}, wantErr: true},
		{name: "negative area", room: Room{Name: "kitchen", FloorArea: -1}, wantErr: true},
		{name: "negative perimeter", room: Room{Name: "kitchen", Perimeter: -1}, wantErr: true},
		{name: "negative wall length", room: Room{Name: "kitchen", Walls: []Wall{{Name: "north", Length: -2}}}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRoom(tc.room)
			if tc.wantErr != (err != nil) {
				t.Fatalf("NewRoom err = %v wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				var verr ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error %v is not a ValidationError", err)
				}
			}
		})
	}
}

func TestNewOpeningValidation(t *testing.T) {
	cases := []struct {
		name    string
		opening Opening
		wantErr bool
	}{
		{name: "valid door", opening: Opening{Name: "D1", Kind: OpeningDoor, Width: 0.9, Height: 2.1, Quantity: 1}},
		{name: "missing name", opening: Opening{Kind: OpeningDoor, Width: 0.9, Height: 2.1}, wantErr: true},
		{name: "unknown kind", opening: Opening{Name: "H1", Kind: "hatch", Width: 0.9, Height: 2.1}, wantErr: true},
		{name: "zero width", opening: Opening{Name: "D1", Kind: OpeningDoor, Height: 2.1}, wantErr: true},
		{name: "zero height", opening: Opening{Name: "D1", Kind: OpeningDoor, Width: 0.9}, wantErr: true},
		{name: "negative quantity", opening: Opening{Name: "D1", Kind: OpeningDoor, Width: 0.9, Height: 2.1, Quantity: -1}, wantErr: true},
		{name: "bad room quantity", opening: Opening{Name: "D1", Kind: OpeningDoor, Width: 0.9, Height: 2.1, Quantity: 1, RoomQuantities: map[string]int{"hall": 0}}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOpening(tc.opening)
			if tc.wantErr != (err != nil) {
				t.Fatalf("NewOpening err = %v wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewOpeningPromotesZeroQuantity(t *testing.T) {
	o, err := NewOpening(Opening{Name: "D1", Kind: OpeningDoor, Width: 0.9, Height: 2.1})
	if err != nil {
		t.Fatalf("NewOpening: %v", err)
	}
	if o.Quantity != 1 {
		t.Fatalf("quantity = %d want 1", o.Quantity)
	}
}

func TestNewCeramicZoneValidation(t *testing.T) {
	cases := []struct {
		name    string
		zone    CeramicZone
		wantErr bool
	}{
		{name: "valid wall band", zone: CeramicZone{Name: "kitchen tile", Surface: SurfaceWall, Room: "kitchen", Perimeter: 12, Height: 1.5}},
		{name: "valid floor", zone: CeramicZone{Name: "bath floor", Surface: SurfaceFloor, Room: "bath", Area: 6}},
		{name: "wall band missing perimeter", zone: CeramicZone{Surface: SurfaceWall, Height: 1.5}, wantErr: true},
		{name: "wall band missing height", zone: CeramicZone{Surface: SurfaceWall, Perimeter: 12}, wantErr: true},
		{name: "negative start height", zone: CeramicZone{Surface: SurfaceWall, Perimeter: 12, Height: 1.5, StartHeight: -0.2}, wantErr: true},
		{name: "override skips geometry checks", zone: CeramicZone{Surface: SurfaceWall, EffectiveArea: floatPtr(10)}},
		{name: "negative override", zone: CeramicZone{Surface: SurfaceWall, EffectiveArea: floatPtr(-1)}, wantErr: true},
		{name: "unknown surface", zone: CeramicZone{Surface: "roof", Area: 5}, wantErr: true},
		{name: "negative floor area", zone: CeramicZone{Surface: SurfaceFloor, Area: -5}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCeramicZone(tc.zone)
			if tc.wantErr != (err != nil) {
				t.Fatalf("NewCeramicZone err = %v wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewCeramicZoneDefaultsSurface(t *testing.T) {
	z, err := NewCeramicZone(CeramicZone{Name: "band", Perimeter: 10, Height: 1.2})
	if err != nil {
		t.Fatalf("NewCeramicZone: %v", err)
	}
	if z.Surface != SurfaceWall {
		t.Fatalf("surface = %q want %q", z.Surface, SurfaceWall)
	}
}
