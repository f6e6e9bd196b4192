package domain

import "fmt"

// ValidationError reports a rejected entity at construction time. The engine
// never sees an invalid entity: construction is the only validation gate.
type ValidationError struct {
	Entity string
	Name   string
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q: %s %s", e.Entity, e.Name, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Entity, e.Field, e.Reason)
}

// NewRoom validates and returns a room. Area and perimeter must be
// non-negative; everything else is optional with documented defaults.
func NewRoom(room Room) (Room, error) {
	if room.Name == "" {
		return Room{}, ValidationError{Entity: "room", Field: "name", Reason: "must not be empty"}
	}
	if room.FloorArea < 0 {
		return Room{}, ValidationError{Entity: "room", Name: room.Name, Field: "area", Reason: "must not be negative"}
	}
	if room.Perimeter < 0 {
		return Room{}, ValidationError{Entity: "room", Name: room.Name, Field: "perimeter", Reason: "must not be negative"}
	}
	for _, w := range room.Walls {
		if w.Length < 0 {
			return Room{}, ValidationError{Entity: "room", Name: room.Name, Field: "wall length", Reason: "must not be negative"}
		}
		if w.Height < 0 {
			return Room{}, ValidationError{Entity: "room", Name: room.Name, Field: "wall height", Reason: "must not be negative"}
		}
	}
	return room, nil
}

// NewOpening validates and returns an opening definition. Width and height
// must be positive and quantity at least one; a zero quantity is promoted to
// one so that plain captures without a count stay valid.
func NewOpening(opening Opening) (Opening, error) {
	if opening.Name == "" {
		return Opening{}, ValidationError{Entity: "opening", Field: "name", Reason: "must not be empty"}
	}
	if opening.Kind != OpeningDoor && opening.Kind != OpeningWindow {
		return Opening{}, ValidationError{Entity: "opening", Name: opening.Name, Field: "kind", Reason: "must be door or window"}
	}
	if opening.Width <= 0 {
		return Opening{}, ValidationError{Entity: "opening", Name: opening.Name, Field: "width", Reason: "must be positive"}
	}
	if opening.Height <= 0 {
		return Opening{}, ValidationError{Entity: "opening", Name: opening.Name, Field: "height", Reason: "must be positive"}
	}
	if opening.Quantity == 0 {
		opening.Quantity = 1
	}
	if opening.Quantity < 1 {
		return Opening{}, ValidationError{Entity: "opening", Name: opening.Name, Field: "quantity", Reason: "must be at least 1"}
	}
	for room, q := range opening.RoomQuantities {
		if q < 1 {
			return Opening{}, ValidationError{Entity: "opening", Name: opening.Name, Field: "room_quantities[" + room + "]", Reason: "must be at least 1"}
		}
	}
	return opening, nil
}

// NewCeramicZone validates and returns a ceramic zone. Wall zones without a
// manual override need a positive perimeter and height; zones with an
// override only need the override itself to be non-negative.
func NewCeramicZone(zone CeramicZone) (CeramicZone, error) {
	if zone.Surface == "" {
		zone.Surface = SurfaceWall
	}
	switch zone.Surface {
	case SurfaceWall, SurfaceFloor, SurfaceCeiling:
	default:
		return CeramicZone{}, ValidationError{Entity: "ceramic zone", Name: zone.Name, Field: "surface", Reason: "must be wall, floor, or ceiling"}
	}
	if zone.EffectiveArea != nil {
		if *zone.EffectiveArea < 0 {
			return CeramicZone{}, ValidationError{Entity: "ceramic zone", Name: zone.Name, Field: "effective_area", Reason: "must not be negative"}
		}
		return zone, nil
	}
	if zone.Surface == SurfaceWall {
		if zone.Perimeter <= 0 {
			return CeramicZone{}, ValidationError{Entity: "ceramic zone", Name: zone.Name, Field: "perimeter", Reason: "must be positive"}
		}
		if zone.Height <= 0 {
			return CeramicZone{}, ValidationError{Entity: "ceramic zone", Name: zone.Name, Field: "height", Reason: "must be positive"}
		}
		if zone.StartHeight < 0 {
			return CeramicZone{}, ValidationError{Entity: "ceramic zone", Name: zone.Name, Field: "start_height", Reason: "must not be negative"}
		}
		return zone, nil
	}
	if zone.Area < 0 {
		return CeramicZone{}, ValidationError{Entity: "ceramic zone", Name: zone.Name, Field: "area", Reason: "must not be negative"}
	}
	return zone, nil
}
