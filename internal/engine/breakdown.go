package engine

import (
	"fmt"
	"math"

	"takeoffcore/pkg/domain"
)

// breakdownTolerance is the absolute drift above which wall gross areas are
// rescaled to match the room's certified total.
const breakdownTolerance = 0.01

// WallBreakdown refines one room's certified record into per-wall shares.
// Openings and zones bound to a named wall are charged to that wall first;
// the rest is spread proportionally by wall length via AllocateCapped. The
// per-wall sums reproduce the certified room aggregates exactly — the
// breakdown is a presentation refinement, never an independent computation.
func (e *Engine) WallBreakdown(room domain.Room) domain.WallBreakdown {
	record := e.CalculateRoom(room)
	walls := e.breakdownWalls(room)
	n := len(walls)

	names := make([]string, n)
	lengths := make([]float64, n)
	heights := make([]float64, n)
	gross := make([]float64, n)
	fallback := room.EffectiveWallHeight(e.project.WallHeightDefault())
	for i, w := range walls {
		names[i] = w.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("wall %d", i+1)
		}
		lengths[i] = maxFloat(0, w.Length)
		heights[i] = w.Height
		if heights[i] <= 0 {
			heights[i] = fallback
		}
		gross[i] = lengths[i] * heights[i]
	}

	var notes []string

	// Scale geometric gross areas to the certified total when they drift.
	geomSum := 0.0
	for _, g := range gross {
		geomSum += g
	}
	if record.WallsGross > 0 && geomSum > 0 && math.Abs(record.WallsGross-geomSum) > breakdownTolerance {
		scale := record.WallsGross / geomSum
		for i := range gross {
			gross[i] *= scale
		}
		notes = append(notes, "wall gross areas scaled to certified total")
	}

	// Openings hosted on a named wall are charged to it first.
	hostedDemand := make([]float64, n)
	for _, o := range e.roomOpenings(room) {
		host := domain.FoldName(o.HostWall)
		if host == "" {
			continue
		}
		area := o.Width * o.Height * float64(o.QuantityIn(room.Name))
		for i, name := range names {
			if host == domain.FoldName(name) {
				hostedDemand[i] += area
				break
			}
		}
	}
	totalHosted := 0.0
	for _, d := range hostedDemand {
		totalHosted += d
	}
	targetOpen := record.OpeningsDeduction
	if targetOpen <= 0 && totalHosted > 0 {
		targetOpen = totalHosted
	}
	scaleOpen := 1.0
	if totalHosted > 0 && targetOpen > 0 && totalHosted > targetOpen {
		scaleOpen = targetOpen / totalHosted
		notes = append(notes, "hosted openings scaled to certified total")
	}

	hostedAlloc := make([]float64, n)
	remCaps := make([]float64, n)
	hostedSum := 0.0
	for i := range walls {
		hostedAlloc[i] = minFloat(gross[i], hostedDemand[i]*scaleOpen)
		remCaps[i] = maxFloat(0, gross[i]-hostedAlloc[i])
		hostedSum += hostedAlloc[i]
	}
	distOpen, unallocated := AllocateCapped(maxFloat(0, targetOpen-hostedSum), lengths, remCaps)
	openAlloc := make([]float64, n)
	netAfterOpen := make([]float64, n)
	for i := range walls {
		openAlloc[i] = hostedAlloc[i] + distOpen[i]
		netAfterOpen[i] = maxFloat(0, gross[i]-openAlloc[i])
	}
	if unallocated > breakdownTolerance {
		notes = append(notes, "openings exceed wall capacity")
	}

	cerAlloc := e.allocateCeramic(room, record.CeramicWall, names, lengths, netAfterOpen, &notes)

	// Plaster and paint capacities follow the certified formulas. By default
	// plaster continues behind the tile, so both stop at the post-opening net.
	// When plaster stops at the band top instead, the certified plaster keeps
	// the wall area below the band, so the per-wall capacity widens to gross
	// minus the tiled share. Paint capacity is always plaster minus ceramic.
	plasterCaps := make([]float64, n)
	paintCaps := make([]float64, n)
	plasterCapSum, paintCapSum := 0.0, 0.0
	for i := range walls {
		if e.project.PlasterBehindCeramic() {
			plasterCaps[i] = netAfterOpen[i]
		} else {
			plasterCaps[i] = maxFloat(0, gross[i]-cerAlloc[i])
		}
		paintCaps[i] = maxFloat(0, plasterCaps[i]-cerAlloc[i])
		plasterCapSum += plasterCaps[i]
		paintCapSum += paintCaps[i]
	}
	paintAlloc, _ := AllocateCapped(minFloat(record.PaintWalls, paintCapSum), paintCaps, paintCaps)
	plasterAlloc, _ := AllocateCapped(minFloat(record.PlasterWalls, plasterCapSum), plasterCaps, plasterCaps)
	if record.PlasterWalls > plasterCapSum+breakdownTolerance || record.PaintWalls > paintCapSum+breakdownTolerance {
		notes = append(notes, "paint or plaster exceeds wall capacity")
	}

	out := domain.WallBreakdown{
		RoomName:            room.Name,
		Walls:               make([]domain.WallAllocation, n),
		UnallocatedOpenings: unallocated,
		Notes:               notes,
	}
	for i := range walls {
		out.Walls[i] = domain.WallAllocation{
			Name:              names[i],
			Length:            lengths[i],
			Height:            heights[i],
			GrossArea:         gross[i],
			OpeningsDeduction: openAlloc[i],
			NetAfterOpenings:  netAfterOpen[i],
			Ceramic:           cerAlloc[i],
			Paint:             paintAlloc[i],
			Plaster:           plasterAlloc[i],
		}
	}
	return out
}

// allocateCeramic distributes the room's certified wall ceramic across walls:
// zone-bound demand first, capped and rescaled when it exceeds the certified
// total, remainder spread by wall length.
func (e *Engine) allocateCeramic(room domain.Room, certified float64, names []string, lengths, netAfterOpen []float64, notes *[]string) []float64 {
	n := len(names)
	hosted := make([]float64, n)
	for _, z := range e.project.CeramicZones {
		if z.Room != room.Name || z.Surface != domain.SurfaceWall {
			continue
		}
		bound := domain.FoldName(z.Wall)
		if bound == "" {
			continue
		}
		for i, name := range names {
			if bound == domain.FoldName(name) {
				hosted[i] += z.GrossArea()
				break
			}
		}
	}

	netSum := 0.0
	for _, v := range netAfterOpen {
		netSum += v
	}
	target := 0.0
	if certified > 0 {
		target = minFloat(certified, netSum)
	}
	hostedSum := 0.0
	for _, v := range hosted {
		hostedSum += v
	}

	alloc := make([]float64, n)
	if hostedSum > 0 && target > 0 && hostedSum > target {
		scale := target / hostedSum
		for i := range alloc {
			alloc[i] = minFloat(netAfterOpen[i], hosted[i]*scale)
		}
		*notes = append(*notes, "hosted ceramic scaled to certified total")
		return alloc
	}

	remaining := target
	caps := make([]float64, n)
	for i := range alloc {
		alloc[i] = minFloat(netAfterOpen[i], hosted[i])
		remaining -= alloc[i]
		caps[i] = maxFloat(0, netAfterOpen[i]-alloc[i])
	}
	dist, _ := AllocateCapped(maxFloat(0, remaining), lengths, caps)
	for i := range alloc {
		alloc[i] += dist[i]
	}
	return alloc
}

// breakdownWalls returns the room's wall segments, or a single synthetic
// perimeter wall when none were captured.
func (e *Engine) breakdownWalls(room domain.Room) []domain.Wall {
	if len(room.Walls) > 0 {
		return room.Walls
	}
	return []domain.Wall{{
		Name:   "perimeter",
		Length: room.Perimeter,
		Height: room.EffectiveWallHeight(e.project.WallHeightDefault()),
	}}
}
