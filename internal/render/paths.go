package render

import (
	"image/color"
	"math"

	"github.com/Garsondee/hexmap/internal/mapdata"
)

// pathStyle is expressed in screen pixels; drawing converts it to world
// units by dividing by zoom so paths keep a constant on-screen weight.
type pathStyle struct {
	color     color.RGBA
	width     float64
	dash, gap float64
	casing    *color.RGBA
}

var pathStyles = map[mapdata.PathType]pathStyle{
	mapdata.PathRoadSolid: {
		color:  color.RGBA{R: 0x8a, G: 0x63, B: 0x3c, A: 0xff},
		width:  4,
		casing: &color.RGBA{R: 0x3b, G: 0x2a, B: 0x19, A: 0xc0},
	},
	mapdata.PathRoadDotted: {
		color: color.RGBA{R: 0xc2, G: 0x9a, B: 0x6b, A: 0xff},
		width: 3,
		dash:  6,
		gap:   6,
	},
	mapdata.PathRiver: {
		color:  color.RGBA{R: 0x4a, G: 0x90, B: 0xd9, A: 0xff},
		width:  5,
		casing: &color.RGBA{R: 0x1f, G: 0x4e, B: 0x80, A: 0xa0},
	},
}

const (
	curveSegments = 12
	previewAlpha  = 0.6
)

func styleFor(t mapdata.PathType) pathStyle {
	if st, ok := pathStyles[t]; ok {
		return st
	}
	return pathStyles[mapdata.PathRoadSolid]
}

func (r *Renderer) drawPaths(dst Surface, v view, paths []mapdata.MapPath) {
	for _, p := range paths {
		r.drawPath(dst, v, p.Points, styleFor(p.Type), 1)
	}
}

// drawPreview draws an in-progress path: dimmer, a dot on each placed
// waypoint, and the cursor as a trailing point.
func (r *Renderer) drawPreview(dst Surface, v view, pv mapdata.PathPreview) {
	st := styleFor(pv.Type)
	r.drawPath(dst, v, pv.WithCursor(), st, previewAlpha)
	rad := float32(st.width)
	for _, p := range mapdata.FinitePoints(pv.Points) {
		x, y := v.xy(p)
		dst.FillCircle(x, y, rad, withAlpha(st.color, 0.9))
	}
}

func (r *Renderer) drawPath(dst Surface, v view, pts []point, st pathStyle, alpha float64) {
	pts = mapdata.FinitePoints(pts)
	if len(pts) == 0 || v.cam.Zoom <= 0 {
		return
	}
	// World-space widths so strokes look the same at every zoom.
	width := st.width / v.cam.Zoom
	if len(pts) == 1 {
		x, y := v.xy(pts[0])
		dst.FillCircle(x, y, v.screenLen(width), withAlpha(st.color, alpha))
		return
	}
	line := smoothPolyline(pts, curveSegments)
	if st.casing != nil {
		strokePolyline(dst, v, line, width*1.8, 0, 0, withAlpha(*st.casing, alpha))
	}
	strokePolyline(dst, v, line, width, st.dash/v.cam.Zoom, st.gap/v.cam.Zoom, withAlpha(st.color, alpha))
}

// strokePolyline strokes line with a world-space width. A positive dash
// walks the line in dash/gap steps; otherwise joints get round caps.
func strokePolyline(dst Surface, v view, line []point, width, dash, gap float64, c color.RGBA) {
	w := v.screenLen(width)
	if dash <= 0 {
		for i := 0; i+1 < len(line); i++ {
			x0, y0 := v.xy(line[i])
			x1, y1 := v.xy(line[i+1])
			dst.StrokeLine(x0, y0, x1, y1, w, c)
			if i > 0 && w > 2 {
				dst.FillCircle(x0, y0, w/2, c)
			}
		}
		return
	}

	on := true
	left := dash
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		segLen := math.Hypot(b.X-a.X, b.Y-a.Y)
		pos := 0.0
		for pos < segLen {
			step := math.Min(left, segLen-pos)
			if on {
				x0, y0 := v.xy(lerp(a, b, pos/segLen))
				x1, y1 := v.xy(lerp(a, b, (pos+step)/segLen))
				dst.StrokeLine(x0, y0, x1, y1, w, c)
			}
			pos += step
			left -= step
			if left <= 1e-9 {
				on = !on
				left = dash
				if !on {
					left = gap
				}
			}
		}
	}
}
