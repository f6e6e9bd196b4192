package engine

import (
	"fmt"

	"takeoffcore/pkg/domain"
)

// partialZoneThreshold is the share of a room's perimeter below which an
// unbound wall zone is treated as partial: opening deductions are then scaled
// by zone.perimeter / room.perimeter instead of charged in full, since the
// opening may sit on a wall the zone does not cover. The scaling is an openly
// documented approximation, flagged in the audit trail as "proportional nn%".
const partialZoneThreshold = 0.95

// WallsGross returns the room's total wall area before any deduction: the sum
// of the wall segments when present, else perimeter × effective wall height.
func (e *Engine) WallsGross(room domain.Room) float64 {
	height := room.EffectiveWallHeight(e.project.WallHeightDefault())
	if len(room.Walls) == 0 {
		if room.Perimeter <= 0 || height <= 0 {
			return 0
		}
		return room.Perimeter * height
	}
	total := 0.0
	for _, w := range room.Walls {
		total += w.GrossArea(height)
	}
	return total
}

// OpeningsDeduction returns the total opening area bound to the room, scaled
// by each opening's per-room installed quantity.
func (e *Engine) OpeningsDeduction(room domain.Room) float64 {
	total := 0.0
	for _, o := range e.roomOpenings(room) {
		total += o.Width * o.Height * float64(o.QuantityIn(room.Name))
	}
	return total
}

// openingsDeductionAbove returns the opening deduction counting only the part
// of each opening above the given height. Used when plaster stops at the top
// of the tiled band instead of continuing behind it.
func (e *Engine) openingsDeductionAbove(room domain.Room, limit float64) float64 {
	if limit <= 0 {
		return e.OpeningsDeduction(room)
	}
	total := 0.0
	for _, o := range e.roomOpenings(room) {
		bottom, top := o.Band()
		effective := o.Height
		switch {
		case bottom >= limit:
			// fully above the band
		case top <= limit:
			effective = 0
		default:
			effective = top - limit
		}
		total += o.Width * effective * float64(o.QuantityIn(room.Name))
	}
	return total
}

// maxCeramicBandTop returns the highest band top among the room's wall zones.
func (e *Engine) maxCeramicBandTop(roomName string) float64 {
	top := 0.0
	for _, z := range e.project.CeramicZones {
		if z.Room != roomName || z.Surface != domain.SurfaceWall {
			continue
		}
		if _, bandTop := z.Band(); bandTop > top {
			top = bandTop
		}
	}
	return top
}

// zoneIsOrphan reports whether a wall zone's bound wall no longer exists on
// its room. Unbound zones are never orphans.
func (e *Engine) zoneIsOrphan(zone domain.CeramicZone) bool {
	if zone.Surface != domain.SurfaceWall || domain.FoldName(zone.Wall) == "" {
		return false
	}
	room, ok := e.project.FindRoom(zone.Room)
	if !ok {
		return false
	}
	_, found := room.FindWall(zone.Wall)
	return !found
}

// zoneDeduction computes the opening deduction against one wall zone's band
// and the per-opening audit trail. Openings hosted on a different wall than
// the zone's binding are skipped; when neither side carries a binding and the
// zone covers only part of the room's perimeter, the deduction is scaled
// proportionally.
func (e *Engine) zoneDeduction(zone domain.CeramicZone, room domain.Room) (float64, []string) {
	zoneBottom, zoneTop := zone.Band()
	total := 0.0
	var details []string
	for _, o := range e.roomOpenings(room) {
		zoneWall, hostWall := domain.FoldName(zone.Wall), domain.FoldName(o.HostWall)
		if zoneWall != "" && hostWall != "" && zoneWall != hostWall {
			continue
		}
		openBottom, openTop := o.Band()
		overlap := minFloat(zoneTop, openTop) - maxFloat(zoneBottom, openBottom)
		if overlap <= 0 {
			continue
		}
		qty := o.QuantityIn(room.Name)
		amount := o.Width * overlap * float64(qty)
		detail := fmt.Sprintf("%s: %.2f (width %.2f × overlap %.2f × qty %d)", o.Name, amount, o.Width, overlap, qty)
		if zoneWall == "" && hostWall == "" && room.Perimeter > 0 && zone.Perimeter < room.Perimeter*partialZoneThreshold {
			ratio := zone.Perimeter / room.Perimeter
			amount *= ratio
			detail = fmt.Sprintf("%s: %.2f (width %.2f × overlap %.2f × qty %d, proportional %.0f%%)", o.Name, amount, o.Width, overlap, qty, ratio*100)
		}
		total += amount
		details = append(details, detail)
	}
	return total, details
}

// CeramicByRoom computes every room's net ceramic quantities split by
// surface. Wall zones are deducted for overlapping openings and capped at the
// room's available net wall area; floor and ceiling zones accumulate their
// area directly. Orphan zones are excluded. The result is memoized for the
// lifetime of the engine.
func (e *Engine) CeramicByRoom() map[string]domain.CeramicBreakdown {
	if e.ceramicMemo != nil {
		return e.ceramicMemo
	}
	result := make(map[string]domain.CeramicBreakdown)
	for _, zone := range e.project.CeramicZones {
		if zone.Room == "" {
			continue
		}
		if e.zoneIsOrphan(zone) {
			continue
		}
		bucket := result[zone.Room]
		net := e.zoneNetArea(zone)
		switch zone.Surface {
		case domain.SurfaceFloor:
			bucket.Floor += net
		case domain.SurfaceCeiling:
			bucket.Ceiling += net
		default:
			bucket.Wall += net
		}
		result[zone.Room] = bucket
	}
	e.ceramicMemo = result
	return result
}

// zoneNetArea computes one zone's net area: the manual override verbatim when
// present, otherwise gross minus overlapping-opening deductions, floored at
// zero and capped at the room's net wall area.
func (e *Engine) zoneNetArea(zone domain.CeramicZone) float64 {
	if zone.HasOverride() {
		return zone.GrossArea()
	}
	gross := zone.GrossArea()
	if zone.Surface != domain.SurfaceWall {
		return gross
	}
	room, ok := e.project.FindRoom(zone.Room)
	if !ok {
		return gross
	}
	deduction, _ := e.zoneDeduction(zone, room)
	net := maxFloat(0, gross-deduction)
	// Ceramic on a wall can never exceed the wall area left after openings.
	limit := maxFloat(0, e.WallsGross(room)-e.OpeningsDeduction(room))
	return minFloat(net, limit)
}

// ZoneMetrics returns the single-zone audit record: gross, deducted, and net
// area plus the trail of which openings contributed how much.
func (e *Engine) ZoneMetrics(zone domain.CeramicZone) domain.ZoneMetrics {
	m := domain.ZoneMetrics{
		ZoneName:  zone.Name,
		RoomName:  zone.Room,
		Surface:   zone.Surface,
		GrossArea: zone.GrossArea(),
	}
	if m.Surface == "" {
		m.Surface = domain.SurfaceWall
	}
	if e.zoneIsOrphan(zone) {
		m.Orphan = true
		m.GrossArea = 0
		m.Details = []string{"orphan"}
		return m
	}
	if zone.HasOverride() {
		m.NetArea = zone.GrossArea()
		m.Details = []string{"manual override"}
		return m
	}
	if zone.Surface != domain.SurfaceWall {
		m.NetArea = m.GrossArea
		m.Details = []string{"no deduction"}
		return m
	}
	room, ok := e.project.FindRoom(zone.Room)
	if !ok {
		m.NetArea = m.GrossArea
		m.Details = []string{"no deduction"}
		return m
	}
	deduction, details := e.zoneDeduction(zone, room)
	m.DeductionArea = deduction
	m.NetArea = minFloat(maxFloat(0, m.GrossArea-deduction), maxFloat(0, e.WallsGross(room)-e.OpeningsDeduction(room)))
	if len(details) == 0 {
		details = []string{"no deduction"}
	}
	m.Details = details
	return m
}

// AllZoneMetrics returns the audit record for every zone in the snapshot, in
// snapshot order.
func (e *Engine) AllZoneMetrics() []domain.ZoneMetrics {
	out := make([]domain.ZoneMetrics, 0, len(e.project.CeramicZones))
	for _, z := range e.project.CeramicZones {
		out = append(out, e.ZoneMetrics(z))
	}
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
