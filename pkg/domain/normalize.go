package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Legacy snapshots captured by earlier authoring tools use a handful of
// alternate field names (perim, room_name, surface_type, opening_type,
// combined "WxH" dimension strings). Each entity folds those aliases into
// the canonical record once, during unmarshalling, so the engine never
// branches on input shape.

type roomAlias Room

type roomPayload struct {
	roomAlias
	Layer     string            `json:"layer"`
	Perim     *float64          `json:"perim"`
	Segments  []json.RawMessage `json:"wall_segments"`
	HeightAlt *float64          `json:"height"`
}

// UnmarshalJSON hydrates a room from canonical or legacy-shaped JSON.
func (r *Room) UnmarshalJSON(data []byte) error {
	var aux roomPayload
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Room(aux.roomAlias)
	if r.Level == "" && aux.Layer != "" {
		r.Level = aux.Layer
	}
	if r.Perimeter == 0 && aux.Perim != nil {
		r.Perimeter = *aux.Perim
	}
	if r.WallHeight == nil && aux.HeightAlt != nil && *aux.HeightAlt > 0 {
		r.WallHeight = aux.HeightAlt
	}
	if len(r.Walls) == 0 && len(aux.Segments) > 0 {
		for _, raw := range aux.Segments {
			var w Wall
			if err := json.Unmarshal(raw, &w); err != nil {
				return err
			}
			r.Walls = append(r.Walls, w)
		}
	}
	return nil
}

type openingAlias Opening

type openingPayload struct {
	openingAlias
	OpeningType string `json:"opening_type"`
	Dimensions  string `json:"dimensions"`
}

// UnmarshalJSON hydrates an opening from canonical or legacy-shaped JSON.
// Legacy payloads spell the kind as an upper-case opening_type and may carry
// a combined "WxH" dimension string instead of explicit width/height.
func (o *Opening) UnmarshalJSON(data []byte) error {
	var aux openingPayload
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*o = Opening(aux.openingAlias)
	if o.Kind == "" && aux.OpeningType != "" {
		switch strings.ToLower(strings.TrimSpace(aux.OpeningType)) {
		case "door":
			o.Kind = OpeningDoor
		case "window":
			o.Kind = OpeningWindow
		}
	}
	if (o.Width == 0 || o.Height == 0) && aux.Dimensions != "" {
		if w, h, ok := parseDimensions(aux.Dimensions); ok {
			if o.Width == 0 {
				o.Width = w
			}
			if o.Height == 0 {
				o.Height = h
			}
		}
	}
	if o.Quantity == 0 {
		o.Quantity = 1
	}
	return nil
}

type zoneAlias CeramicZone

type zonePayload struct {
	zoneAlias
	SurfaceType string `json:"surface_type"`
	RoomName    string `json:"room_name"`
	WallName    string `json:"wall_name"`
}

// UnmarshalJSON hydrates a ceramic zone from canonical or legacy-shaped JSON.
func (z *CeramicZone) UnmarshalJSON(data []byte) error {
	var aux zonePayload
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*z = CeramicZone(aux.zoneAlias)
	if z.Surface == "" && aux.SurfaceType != "" {
		z.Surface = SurfaceKind(strings.ToLower(strings.TrimSpace(aux.SurfaceType)))
	}
	if z.Surface == "" {
		z.Surface = SurfaceWall
	}
	if z.Room == "" && aux.RoomName != "" {
		z.Room = aux.RoomName
	}
	if z.Wall == "" && aux.WallName != "" {
		z.Wall = aux.WallName
	}
	// Legacy floor zones stored the area in the perimeter field.
	if z.Surface != SurfaceWall && z.Area == 0 && z.EffectiveArea == nil && z.Perimeter > 0 {
		z.Area = z.Perimeter
		z.Perimeter = 0
	}
	return nil
}

// parseDimensions splits a combined "WxH" dimension string, tolerating
// whitespace and an upper-case separator.
func parseDimensions(s string) (width, height float64, ok bool) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return w, h, true
}
