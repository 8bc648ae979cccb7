package render

import (
	"image/color"
	"math"
	"strconv"

	"github.com/Garsondee/hexmap/internal/hexgrid"
)

var (
	borderColor     = color.RGBA{A: 56}
	labelColor      = color.RGBA{R: 200, G: 204, B: 212, A: 255}
	labelHighlight  = color.RGBA{R: 255, G: 214, B: 92, A: 255}
	selectionColor  = color.RGBA{R: 255, G: 214, B: 92, A: 255}
	labelFontSize   = 12.0
	minLabelSpacing = 18.0 // screen pixels between drawn labels
)

// drawBorders strokes every hex edge once. A hex owns its upper three edges
// and, on the grid boundary, any lower edge with no neighbour.
func (r *Renderer) drawBorders(dst Surface, v view) {
	w := float32(math.Max(1, math.Min(2, v.cam.Zoom)))
	r.Grid.All(func(c hexgrid.Coord) {
		corners := r.Grid.Corners(c.Col, c.Row)
		for d := hexgrid.Direction(0); d < 6; d++ {
			if d < hexgrid.DirNW && r.Grid.Contains(hexgrid.Neighbor(c.Col, c.Row, d)) {
				continue
			}
			x0, y0 := v.xy(corners[d])
			x1, y1 := v.xy(corners[(d+1)%6])
			dst.StrokeLine(x0, y0, x1, y1, w, borderColor)
		}
	})
}

// labelStep thins axis labels so they stay at least minLabelSpacing apart.
func labelStep(spacing float64) int {
	if spacing <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(minLabelSpacing/spacing)))
}

// drawLabels prints column numbers above the top row and row numbers left
// of the first column. The selected column and row are bold.
func (r *Renderer) drawLabels(dst Surface, v view, sel *hexgrid.Coord) {
	s := r.Grid.Size
	colStep := labelStep(1.5 * s * v.cam.Zoom)
	rowStep := labelStep(math.Sqrt(3) * s * v.cam.Zoom)

	for col := 1; col <= r.Grid.W; col++ {
		selected := sel != nil && sel.Col == col
		if !selected && (col-1)%colStep != 0 {
			continue
		}
		p := r.Grid.Center(col, 1)
		p.Y = r.Grid.Center(1, 1).Y - 1.35*s
		r.drawLabel(dst, v, strconv.Itoa(col), p, selected)
	}
	for row := 1; row <= r.Grid.H; row++ {
		selected := sel != nil && sel.Row == row
		if !selected && (row-1)%rowStep != 0 {
			continue
		}
		p := r.Grid.Center(1, row)
		p.X -= 1.5 * s
		r.drawLabel(dst, v, strconv.Itoa(row), p, selected)
	}
}

func (r *Renderer) drawLabel(dst Surface, v view, text string, at point, selected bool) {
	x, y := v.xy(at)
	st := TextStyle{Size: labelFontSize, Color: labelColor, HAlign: AlignCenter, VAlign: AlignCenter}
	if selected {
		st.Bold = true
		st.Color = labelHighlight
	}
	dst.DrawText(text, x, y, st)
}

// drawSelection draws the glow: two wide translucent strokes under a thin
// opaque one.
func (r *Renderer) drawSelection(dst Surface, v view, sel *hexgrid.Coord) {
	if sel == nil || !r.Grid.Contains(*sel) {
		return
	}
	corners := r.Grid.Corners(sel.Col, sel.Row)
	for _, layer := range []struct {
		width float32
		alpha float64
	}{{7, 0.2}, {4, 0.45}, {1.75, 1}} {
		c := withAlpha(selectionColor, layer.alpha)
		for i := range corners {
			x0, y0 := v.xy(corners[i])
			x1, y1 := v.xy(corners[(i+1)%6])
			dst.StrokeLine(x0, y0, x1, y1, layer.width, c)
		}
	}
}
