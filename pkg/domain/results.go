package domain

// RoomQuantities is the certified takeoff record for one room. Every report
// surface renders these numbers; none recomputes them.
type RoomQuantities struct {
	RoomName string `json:"room_name"`

	WallsGross        float64 `json:"walls_gross"`
	OpeningsDeduction float64 `json:"openings_deduction"`
	WallsNet          float64 `json:"walls_net"`

	CeilingArea float64 `json:"ceiling_area"`

	CeramicWall    float64 `json:"ceramic_wall"`
	CeramicCeiling float64 `json:"ceramic_ceiling"`
	CeramicFloor   float64 `json:"ceramic_floor"`

	PlasterWalls   float64 `json:"plaster_walls"`
	PlasterCeiling float64 `json:"plaster_ceiling"`
	PlasterTotal   float64 `json:"plaster_total"`

	PaintWalls   float64 `json:"paint_walls"`
	PaintCeiling float64 `json:"paint_ceiling"`
	PaintTotal   float64 `json:"paint_total"`

	BaseboardLength float64 `json:"baseboard_length"`
	StoneLength     float64 `json:"stone_length"`
}

// CeramicTotal returns the room's combined ceramic quantity across surfaces.
func (q RoomQuantities) CeramicTotal() float64 {
	return q.CeramicWall + q.CeramicCeiling + q.CeramicFloor
}

// CeramicBreakdown holds a room's ceramic quantities split by surface.
type CeramicBreakdown struct {
	Wall    float64 `json:"wall"`
	Ceiling float64 `json:"ceiling"`
	Floor   float64 `json:"floor"`
}

// Total returns the combined ceramic quantity.
func (b CeramicBreakdown) Total() float64 { return b.Wall + b.Ceiling + b.Floor }

// ProjectTotals rolls every per-room field into project-wide sums.
type ProjectTotals struct {
	Rooms             int     `json:"rooms"`
	FloorArea         float64 `json:"floor_area"`
	WallsGross        float64 `json:"walls_gross"`
	OpeningsDeduction float64 `json:"openings_deduction"`
	WallsNet          float64 `json:"walls_net"`
	PlasterTotal      float64 `json:"plaster_total"`
	PaintTotal        float64 `json:"paint_total"`
	CeramicWall       float64 `json:"ceramic_wall"`
	CeramicCeiling    float64 `json:"ceramic_ceiling"`
	CeramicFloor      float64 `json:"ceramic_floor"`
	CeramicTotal      float64 `json:"ceramic_total"`
	BaseboardTotal    float64 `json:"baseboard_total"`
	StoneTotal        float64 `json:"stone_total"`
}

// ZoneMetrics is the single-zone audit record: gross, deducted, and net area
// plus a human-readable trail of which openings contributed how much. Orphan
// zones report zero net area and the literal "orphan" marker.
type ZoneMetrics struct {
	ZoneName      string      `json:"zone_name"`
	RoomName      string      `json:"room_name,omitempty"`
	Surface       SurfaceKind `json:"surface"`
	GrossArea     float64     `json:"gross_area"`
	DeductionArea float64     `json:"deduction_area"`
	NetArea       float64     `json:"net_area"`
	Orphan        bool        `json:"orphan,omitempty"`
	Details       []string    `json:"details,omitempty"`
}

// WallAllocation is one wall's share of a room's certified quantities in a
// detailed per-wall report.
type WallAllocation struct {
	Name              string  `json:"name"`
	Length            float64 `json:"length"`
	Height            float64 `json:"height"`
	GrossArea         float64 `json:"gross_area"`
	OpeningsDeduction float64 `json:"openings_deduction"`
	NetAfterOpenings  float64 `json:"net_after_openings"`
	Ceramic           float64 `json:"ceramic"`
	Paint             float64 `json:"paint"`
	Plaster           float64 `json:"plaster"`
}

// WallBreakdown refines one room's certified record into per-wall shares.
// The sums across walls reproduce the RoomQuantities aggregates exactly;
// over-capacity deductions surface as UnallocatedOpenings, never as negative
// wall shares.
type WallBreakdown struct {
	RoomName            string           `json:"room_name"`
	Walls               []WallAllocation `json:"walls"`
	UnallocatedOpenings float64          `json:"unallocated_openings,omitempty"`
	Notes               []string         `json:"notes,omitempty"`
}

// Severity captures consistency-rule outcomes.
type Severity string

// Rule severities. The takeoff engine never blocks: every rule in this
// repository reports warn or log, but the block level is kept for parity
// with stores that refuse to persist inconsistent snapshots.
const (
	SeverityBlock Severity = "block"
	SeverityWarn  Severity = "warn"
	SeverityLog   Severity = "log"
)

// Violation reports a failed consistency rule evaluation.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Entity   string   `json:"entity,omitempty"`
	EntityID string   `json:"entity_id,omitempty"`
}

// Result aggregates violations from consistency rules.
type Result struct {
	Violations []Violation `json:"violations,omitempty"`
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}
