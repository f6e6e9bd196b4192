package core

import "takeoffcore/pkg/domain"

type (
	SurfaceKind      = domain.SurfaceKind
	OpeningKind      = domain.OpeningKind
	Severity         = domain.Severity
	Room             = domain.Room
	Wall             = domain.Wall
	Opening          = domain.Opening
	CeramicZone      = domain.CeramicZone
	Project          = domain.Project
	RoomQuantities   = domain.RoomQuantities
	CeramicBreakdown = domain.CeramicBreakdown
	ProjectTotals    = domain.ProjectTotals
	ZoneMetrics      = domain.ZoneMetrics
	WallBreakdown    = domain.WallBreakdown
	Violation        = domain.Violation
	Result           = domain.Result
	ProjectStore     = domain.ProjectStore
)

const (
	SurfaceWall    = domain.SurfaceWall
	SurfaceFloor   = domain.SurfaceFloor
	SurfaceCeiling = domain.SurfaceCeiling
)

const (
	OpeningDoor   = domain.OpeningDoor
	OpeningWindow = domain.OpeningWindow
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)
