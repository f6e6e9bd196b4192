package engine

import "takeoffcore/pkg/domain"

// CalculateTotals rolls every per-room certified field into project-wide
// sums.
func (e *Engine) CalculateTotals() domain.ProjectTotals {
	totals := domain.ProjectTotals{}
	for _, room := range e.project.Rooms {
		rec := e.CalculateRoom(room)
		totals.Rooms++
		totals.FloorArea += room.FloorArea
		totals.WallsGross += rec.WallsGross
		totals.OpeningsDeduction += rec.OpeningsDeduction
		totals.WallsNet += rec.WallsNet
		totals.PlasterTotal += rec.PlasterTotal
		totals.PaintTotal += rec.PaintTotal
		totals.CeramicWall += rec.CeramicWall
		totals.CeramicCeiling += rec.CeramicCeiling
		totals.CeramicFloor += rec.CeramicFloor
		totals.CeramicTotal += rec.CeramicTotal()
		totals.BaseboardTotal += rec.BaseboardLength
		totals.StoneTotal += rec.StoneLength
	}
	return totals
}
