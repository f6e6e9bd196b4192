package engine

import (
	"fmt"

	"takeoffcore/pkg/domain"
)

// Lint evaluates consistency rules over the snapshot. Nothing here blocks:
// the engine always produces well-formed records, so every finding is a warn
// or log level advisory for the authoring side to act on.
func (e *Engine) Lint() domain.Result {
	var result domain.Result
	result.Merge(e.lintZoneReferences())
	result.Merge(e.lintOpeningReferences())
	result.Merge(e.lintOverCapacity())
	return result
}

// lintZoneReferences flags orphan zones and zones referencing unknown rooms.
func (e *Engine) lintZoneReferences() domain.Result {
	var result domain.Result
	for _, z := range e.project.CeramicZones {
		if z.Room == "" {
			result.Violations = append(result.Violations, domain.Violation{
				Rule:     "zone_room_binding",
				Severity: domain.SeverityWarn,
				Message:  "ceramic zone is not bound to any room and is excluded from totals",
				Entity:   "ceramic_zone",
				EntityID: z.Name,
			})
			continue
		}
		if _, ok := e.project.FindRoom(z.Room); !ok {
			result.Violations = append(result.Violations, domain.Violation{
				Rule:     "zone_room_binding",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("ceramic zone references unknown room %q", z.Room),
				Entity:   "ceramic_zone",
				EntityID: z.Name,
			})
			continue
		}
		if e.zoneIsOrphan(z) {
			result.Violations = append(result.Violations, domain.Violation{
				Rule:     "zone_wall_binding",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("ceramic zone is bound to wall %q which no longer exists on room %q", z.Wall, z.Room),
				Entity:   "ceramic_zone",
				EntityID: z.Name,
			})
		}
	}
	return result
}

// lintOpeningReferences flags room opening references that resolve to no
// definition.
func (e *Engine) lintOpeningReferences() domain.Result {
	var result domain.Result
	for _, room := range e.project.Rooms {
		for _, id := range room.OpeningIDs {
			if _, ok := e.openings[id]; !ok {
				result.Violations = append(result.Violations, domain.Violation{
					Rule:     "opening_reference",
					Severity: domain.SeverityWarn,
					Message:  fmt.Sprintf("room %q references unknown opening %q", room.Name, id),
					Entity:   "room",
					EntityID: room.Name,
				})
			}
		}
	}
	return result
}

// lintOverCapacity flags rooms whose opening deduction exceeds the gross wall
// area, which surfaces as an unallocated residue in per-wall breakdowns.
func (e *Engine) lintOverCapacity() domain.Result {
	var result domain.Result
	for _, room := range e.project.Rooms {
		gross := e.WallsGross(room)
		deduction := e.OpeningsDeduction(room)
		if deduction > gross+allocEpsilon {
			result.Violations = append(result.Violations, domain.Violation{
				Rule:     "openings_capacity",
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("openings deduction %.2f exceeds gross wall area %.2f in room %q", deduction, gross, room.Name),
				Entity:   "room",
				EntityID: room.Name,
			})
		}
	}
	return result
}
