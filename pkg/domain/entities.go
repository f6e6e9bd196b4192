// Package domain defines the core entities, derived quantities, and value
// records used by takeoffcore. Entities are immutable by convention: the
// engine never mutates a Project snapshot, it only derives new records.
package domain

import "strings"

// FoldName canonicalizes a wall binding name for comparison: surrounding
// whitespace is dropped and case is ignored. Every place that matches a wall
// name against a binding goes through this fold.
func FoldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SurfaceKind identifies the surface a ceramic zone covers.
type SurfaceKind string

// Supported surface kinds for ceramic zones.
const (
	// SurfaceWall marks a vertical band on one or more walls.
	SurfaceWall SurfaceKind = "wall"
	// SurfaceFloor marks a plain floor area.
	SurfaceFloor SurfaceKind = "floor"
	// SurfaceCeiling marks a plain ceiling area.
	SurfaceCeiling SurfaceKind = "ceiling"
)

// OpeningKind identifies the type of a wall opening.
type OpeningKind string

// Supported opening kinds.
const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// Default placement heights (sill offset from floor) applied when an opening
// carries no explicit placement.
const (
	DefaultDoorPlacement   = 0.0
	DefaultWindowPlacement = 1.0
)

// DefaultWallHeight is used when neither a room nor the project configures one.
const DefaultWallHeight = 3.0

// Wall is a single wall segment owned by exactly one room. Its name is the
// binding key used by openings (host wall) and ceramic zones.
type Wall struct {
	Name   string  `json:"name,omitempty"`
	Length float64 `json:"length"`
	Height float64 `json:"height,omitempty"` // 0 falls back to room, then project default
}

// GrossArea returns length × height using the provided fallback height when
// the segment carries none of its own.
func (w Wall) GrossArea(fallbackHeight float64) float64 {
	h := w.Height
	if h <= 0 {
		h = fallbackHeight
	}
	if w.Length <= 0 || h <= 0 {
		return 0
	}
	return w.Length * h
}

// Room is a measured space with derived floor area and perimeter. When Walls
// is empty the room is treated as a single uniform wall of length Perimeter
// and the effective wall height.
type Room struct {
	Name       string   `json:"name"`
	Level      string   `json:"level,omitempty"` // floor/layer tag from the drawing
	Type       string   `json:"room_type,omitempty"`
	FloorArea  float64  `json:"area"`
	Perimeter  float64  `json:"perimeter"`
	WallHeight *float64 `json:"wall_height,omitempty"`
	Walls      []Wall   `json:"walls,omitempty"`
	OpeningIDs []string `json:"opening_ids,omitempty"`
}

// EffectiveWallHeight resolves the room's wall height, falling back to the
// supplied project default, then the package default.
func (r Room) EffectiveWallHeight(projectDefault float64) float64 {
	if r.WallHeight != nil && *r.WallHeight > 0 {
		return *r.WallHeight
	}
	if projectDefault > 0 {
		return projectDefault
	}
	return DefaultWallHeight
}

// FindWall returns the named wall segment, matching folded names.
func (r Room) FindWall(name string) (Wall, bool) {
	key := FoldName(name)
	if key == "" {
		return Wall{}, false
	}
	for _, w := range r.Walls {
		if FoldName(w.Name) == key {
			return w, true
		}
	}
	return Wall{}, false
}

// Opening is a door or window definition. A single definition may be installed
// in several rooms with differing counts via RoomQuantities.
type Opening struct {
	Name            string         `json:"name"`
	Kind            OpeningKind    `json:"kind"`
	Width           float64        `json:"width"`
	Height          float64        `json:"height"`
	Quantity        int            `json:"quantity"`
	PlacementHeight *float64       `json:"placement_height,omitempty"`
	HostWall        string         `json:"host_wall,omitempty"`
	RoomQuantities  map[string]int `json:"room_quantities,omitempty"`
}

// Placement returns the vertical offset of the opening's bottom edge from the
// floor, applying the kind default when unset.
func (o Opening) Placement() float64 {
	if o.PlacementHeight != nil {
		return *o.PlacementHeight
	}
	if o.Kind == OpeningWindow {
		return DefaultWindowPlacement
	}
	return DefaultDoorPlacement
}

// Band returns the vertical interval [bottom, top] the opening occupies on
// its wall, measured from the floor.
func (o Opening) Band() (bottom, top float64) {
	bottom = o.Placement()
	return bottom, bottom + o.Height
}

// Area returns width × height scaled by the definition quantity.
func (o Opening) Area() float64 {
	return o.Width * o.Height * float64(o.Quantity)
}

// PerimeterLength returns 2×(width+height) scaled by the definition quantity.
func (o Opening) PerimeterLength() float64 {
	return 2 * (o.Width + o.Height) * float64(o.Quantity)
}

// StoneUnitLength returns the decorative surround length for one installed
// unit: doors expose three sides (2H+W), windows all four (2(W+H)).
func (o Opening) StoneUnitLength() float64 {
	if o.Kind == OpeningDoor {
		return 2*o.Height + o.Width
	}
	return 2 * (o.Width + o.Height)
}

// QuantityIn returns how many units of the opening are installed in the named
// room. A plain reference without an explicit per-room entry counts as one.
func (o Opening) QuantityIn(room string) int {
	if q, ok := o.RoomQuantities[room]; ok && q > 0 {
		return q
	}
	return 1
}

// CeramicZone is a tiled region on a wall band, floor, or ceiling. Wall zones
// describe a vertical band [StartHeight, StartHeight+Height] over Perimeter
// metres of wall; floor and ceiling zones carry a plain Area. EffectiveArea,
// when present, is authoritative and bypasses derivation and deduction so
// manual edits are never silently recomputed.
type CeramicZone struct {
	Name          string      `json:"name,omitempty"`
	Category      string      `json:"category,omitempty"`
	Surface       SurfaceKind `json:"surface"`
	Room          string      `json:"room,omitempty"`
	Wall          string      `json:"wall,omitempty"` // optional binding to one specific wall
	Perimeter     float64     `json:"perimeter,omitempty"`
	Height        float64     `json:"height,omitempty"`
	StartHeight   float64     `json:"start_height,omitempty"`
	Area          float64     `json:"area,omitempty"` // floor/ceiling zones
	EffectiveArea *float64    `json:"effective_area,omitempty"`
}

// Band returns the vertical interval [bottom, top] the zone's band occupies.
// Meaningful for wall zones only.
func (z CeramicZone) Band() (bottom, top float64) {
	return z.StartHeight, z.StartHeight + z.Height
}

// GrossArea returns the zone's area before opening deductions: the effective
// override when set, perimeter × height for wall bands, the raw area
// otherwise.
func (z CeramicZone) GrossArea() float64 {
	if z.EffectiveArea != nil {
		return *z.EffectiveArea
	}
	if z.Surface == SurfaceWall {
		return z.Perimeter * z.Height
	}
	return z.Area
}

// HasOverride reports whether a manual effective-area override is present.
func (z CeramicZone) HasOverride() bool { return z.EffectiveArea != nil }

// Project aggregates every entity captured for one drawing plus takeoff
// configuration. It is the unit of persistence and the engine's snapshot.
type Project struct {
	Name                string             `json:"name"`
	Rooms               []Room             `json:"rooms,omitempty"`
	Doors               []Opening          `json:"doors,omitempty"`
	Windows             []Opening          `json:"windows,omitempty"`
	CeramicZones        []CeramicZone      `json:"ceramic_zones,omitempty"`
	DefaultWallHeight   float64            `json:"default_wall_height,omitempty"`
	PlasterUnderCeramic *bool              `json:"plaster_under_ceramic,omitempty"`
	WastePercent        map[string]float64 `json:"waste_percent,omitempty"` // consumed by estimating layers, not the engine
}

// WallHeightDefault resolves the project-wide wall height default.
func (p Project) WallHeightDefault() float64 {
	if p.DefaultWallHeight > 0 {
		return p.DefaultWallHeight
	}
	return DefaultWallHeight
}

// PlasterBehindCeramic reports whether plaster quantities continue behind
// tiled bands. Defaults to true: plaster exists behind the tile.
func (p Project) PlasterBehindCeramic() bool {
	if p.PlasterUnderCeramic == nil {
		return true
	}
	return *p.PlasterUnderCeramic
}

// Openings returns the combined door and window definitions.
func (p Project) Openings() []Opening {
	out := make([]Opening, 0, len(p.Doors)+len(p.Windows))
	out = append(out, p.Doors...)
	out = append(out, p.Windows...)
	return out
}

// FindRoom returns the named room.
func (p Project) FindRoom(name string) (Room, bool) {
	for _, r := range p.Rooms {
		if r.Name == name {
			return r, true
		}
	}
	return Room{}, false
}

// FindOpening returns the named opening definition, doors first.
func (p Project) FindOpening(name string) (Opening, bool) {
	for _, o := range p.Doors {
		if o.Name == name {
			return o, true
		}
	}
	for _, o := range p.Windows {
		if o.Name == name {
			return o, true
		}
	}
	return Opening{}, false
}
