package render

import (
	"image/color"
	"math"
	"slices"

	"github.com/Garsondee/hexmap/internal/hexgrid"
	"github.com/Garsondee/hexmap/internal/mapdata"
)

// IconBudget is how many marker icons one hex shows at a zoom level.
func IconBudget(zoom float64) int {
	switch {
	case zoom >= 5:
		return 7
	case zoom >= 3:
		return 6
	case zoom >= 1.5:
		return 3
	default:
		return 1
	}
}

const (
	iconRing       = 0.55 // slot distance from the hex centre, in hex sizes
	iconFull       = 0.8
	iconMedium     = 0.5
	iconSmall      = 0.34
	hiddenAlpha    = 0.45
	hiddenBadgeRad = 0.12
)

var (
	kindColors = map[mapdata.IconKind]color.RGBA{
		mapdata.KindLocation: {R: 0xe0, G: 0xa4, B: 0x3a, A: 0xff},
		mapdata.KindFeature:  {R: 0x4f, G: 0xb0, B: 0x6d, A: 0xff},
		mapdata.KindMarker:   {R: 0xd9, G: 0x4f, B: 0x4f, A: 0xff},
		mapdata.KindNote:     {R: 0x5b, G: 0x8d, B: 0xd9, A: 0xff},
	}
	dotStroke        = color.RGBA{R: 20, G: 20, B: 24, A: 220}
	unknownIconColor = color.RGBA{R: 0x9a, G: 0x9a, B: 0x9a, A: 0xff}
)

// visibleIcon is a marker entry that survived role filtering.
type visibleIcon struct {
	entry  mapdata.IconEntry
	dimmed bool
}

// visibleIcons filters m for role and orders it: explicit order first
// (ascending), then kind priority, then input order.
func visibleIcons(m mapdata.HexMarkerData, role mapdata.Role) []visibleIcon {
	out := make([]visibleIcon, 0, len(m.Icons))
	for _, e := range m.Icons {
		if e == nil {
			continue
		}
		hidden := e.Base().Hidden
		if hidden && !role.Privileged() {
			continue
		}
		out = append(out, visibleIcon{entry: e, dimmed: hidden})
	}
	slices.SortStableFunc(out, func(a, b visibleIcon) int {
		oa, ob := a.entry.Base().Order, b.entry.Base().Order
		switch {
		case oa != nil && ob == nil:
			return -1
		case oa == nil && ob != nil:
			return 1
		case oa != nil && ob != nil && *oa != *ob:
			return *oa - *ob
		}
		return int(a.entry.Kind()) - int(b.entry.Kind())
	})
	return out
}

// iconSlots returns the world position and edge length for n icons in a
// hex. Slot k of the ring sits at -90°+60°k.
func iconSlots(center hexgrid.Point, size float64, n int) ([]hexgrid.Point, float64) {
	ring := func(k int) hexgrid.Point {
		a := (-90 + 60*float64(k)) * math.Pi / 180
		return hexgrid.Point{
			X: center.X + iconRing*size*math.Cos(a),
			Y: center.Y + iconRing*size*math.Sin(a),
		}
	}
	switch {
	case n <= 0:
		return nil, 0
	case n == 1:
		return []hexgrid.Point{center}, iconFull * size
	case n <= 3:
		slots := make([]hexgrid.Point, n)
		for i := range slots {
			slots[i] = ring(2 * i)
		}
		return slots, iconMedium * size
	case n <= 6:
		slots := make([]hexgrid.Point, n)
		for i := range slots {
			slots[i] = ring(i)
		}
		return slots, iconSmall * size
	default:
		slots := []hexgrid.Point{center}
		for k := 0; k < 6; k++ {
			slots = append(slots, ring(k))
		}
		return slots, iconSmall * size
	}
}

// drawMarkers draws overlay icons for every marker hex that parses and lies
// inside the grid.
func (r *Renderer) drawMarkers(dst Surface, v view, sc Scene) {
	if len(sc.Markers) == 0 {
		return
	}
	budget := IconBudget(v.cam.Zoom)
	keys := make([]string, 0, len(sc.Markers))
	for k := range sc.Markers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		c, err := mapdata.CheckKey(key, r.Grid)
		if err != nil {
			if r.Log != nil {
				r.Log.WithField("key", key).Debug("skipping marker entry")
			}
			continue
		}
		m := sc.Markers[key]
		center := r.Grid.Center(c.Col, c.Row)
		icons := visibleIcons(m, sc.Role)
		if len(icons) > budget {
			icons = icons[:budget]
		}
		slots, edge := iconSlots(center, r.Grid.Size, len(icons))
		for i, ic := range icons {
			alpha := 1.0
			if ic.dimmed {
				alpha = hiddenAlpha
			}
			r.drawIcon(dst, v, ic.entry, slots[i], edge, alpha)
		}
		if m.HasHiddenItems && sc.Role.Privileged() {
			r.drawHiddenBadge(dst, v, c)
		}
	}
}

func (r *Renderer) drawIcon(dst Surface, v view, e mapdata.IconEntry, at hexgrid.Point, edge, alpha float64) {
	x, y := v.xy(at)
	s := v.screenLen(edge)
	if img, ok := r.Images.Overlay(e.Kind(), e.Base().Type); ok {
		dst.DrawImage(img, x-s/2, y-s/2, s, s, float32(alpha))
		return
	}
	var fill color.RGBA
	switch e.(type) {
	case mapdata.LocationIcon:
		fill = kindColors[mapdata.KindLocation]
	case mapdata.FeatureIcon:
		fill = kindColors[mapdata.KindFeature]
	case mapdata.MarkerIcon:
		fill = kindColors[mapdata.KindMarker]
	case mapdata.NoteIcon:
		fill = kindColors[mapdata.KindNote]
	default:
		fill = unknownIconColor
	}
	rad := s * 0.3
	dst.FillCircle(x, y, rad, withAlpha(fill, alpha))
	dst.StrokeCircle(x, y, rad, 1.5, withAlpha(dotStroke, alpha))
}

// drawHiddenBadge rings the upper-left corner of a hex that holds items
// players cannot see.
func (r *Renderer) drawHiddenBadge(dst Surface, v view, c hexgrid.Coord) {
	corners := r.Grid.Corners(c.Col, c.Row)
	p := lerp(r.Grid.Center(c.Col, c.Row), corners[4], 0.7)
	x, y := v.xy(p)
	dst.StrokeCircle(x, y, v.screenLen(hiddenBadgeRad*r.Grid.Size), 1.5, withAlpha(kindColors[mapdata.KindNote], 0.8))
}
