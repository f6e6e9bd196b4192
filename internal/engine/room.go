package engine

import "takeoffcore/pkg/domain"

// CalculateRoom composes the per-room quantities into the certified record
// every report surface renders. All subtractions are floored at zero.
func (e *Engine) CalculateRoom(room domain.Room) domain.RoomQuantities {
	wallsGross := e.WallsGross(room)
	openings := e.OpeningsDeduction(room)
	wallsNet := maxFloat(0, wallsGross-openings)

	ceramic := e.CeramicByRoom()[room.Name]

	plasterWalls := wallsNet
	if !e.project.PlasterBehindCeramic() {
		// Plaster stops at the top of the tiled band: deduct only the part of
		// each opening above it, then the tiled area itself.
		above := e.openingsDeductionAbove(room, e.maxCeramicBandTop(room.Name))
		plasterWalls = maxFloat(0, wallsGross-above-ceramic.Wall)
	}
	plasterCeiling := room.FloorArea

	paintWalls := maxFloat(0, plasterWalls-ceramic.Wall)
	paintCeiling := maxFloat(0, plasterCeiling-ceramic.Ceiling)

	return domain.RoomQuantities{
		RoomName:          room.Name,
		WallsGross:        wallsGross,
		OpeningsDeduction: openings,
		WallsNet:          wallsNet,
		CeilingArea:       room.FloorArea,
		CeramicWall:       ceramic.Wall,
		CeramicCeiling:    ceramic.Ceiling,
		CeramicFloor:      ceramic.Floor,
		PlasterWalls:      plasterWalls,
		PlasterCeiling:    plasterCeiling,
		PlasterTotal:      plasterWalls + plasterCeiling,
		PaintWalls:        paintWalls,
		PaintCeiling:      paintCeiling,
		PaintTotal:        paintWalls + paintCeiling,
		BaseboardLength:   e.baseboardLength(room),
		StoneLength:       e.stoneLength(room),
	}
}

// CalculateAllRooms returns the certified record for every room in snapshot
// order.
func (e *Engine) CalculateAllRooms() []domain.RoomQuantities {
	out := make([]domain.RoomQuantities, 0, len(e.project.Rooms))
	for _, room := range e.project.Rooms {
		out = append(out, e.CalculateRoom(room))
	}
	return out
}

// baseboardLength returns the room perimeter minus door widths. Windows do
// not interrupt the baseboard.
func (e *Engine) baseboardLength(room domain.Room) float64 {
	deduction := 0.0
	for _, o := range e.roomOpenings(room) {
		if o.Kind != domain.OpeningDoor {
			continue
		}
		deduction += o.Width * float64(o.QuantityIn(room.Name))
	}
	return maxFloat(0, room.Perimeter-deduction)
}

// stoneLength returns the total decorative surround length over the room's
// openings, scaled by installed quantity.
func (e *Engine) stoneLength(room domain.Room) float64 {
	total := 0.0
	for _, o := range e.roomOpenings(room) {
		total += o.StoneUnitLength() * float64(o.QuantityIn(room.Name))
	}
	return total
}
