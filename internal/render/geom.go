package render

import (
	"image"
	"image/color"
	"math"

	"github.com/Garsondee/hexmap/internal/hexgrid"
)

type point = hexgrid.Point

func lerp(a, b point, t float64) point {
	return point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func midpoint(a, b point) point { return lerp(a, b, 0.5) }

func cross(ax, ay, bx, by float64) float64 { return ax*by - ay*bx }

// signedArea is positive for polygons clockwise in screen space (y down).
func signedArea(poly []point) float64 {
	var a float64
	for i := range poly {
		j := (i + 1) % len(poly)
		a += cross(poly[i].X, poly[i].Y, poly[j].X, poly[j].Y)
	}
	return a / 2
}

// clipConvex clips subject against a convex clip polygon of either winding
// (Sutherland–Hodgman). Points on the clip boundary count as inside.
func clipConvex(subject, clip []point) []point {
	if len(subject) < 3 || len(clip) < 3 {
		return nil
	}
	orient := 1.0
	if signedArea(clip) < 0 {
		orient = -1
	}
	const eps = 1e-7
	out := subject
	for i := range clip {
		a, b := clip[i], clip[(i+1)%len(clip)]
		side := func(p point) float64 {
			return orient * cross(b.X-a.X, b.Y-a.Y, p.X-a.X, p.Y-a.Y)
		}
		in := out
		out = make([]point, 0, len(in)+2)
		if len(in) == 0 {
			break
		}
		prev := in[len(in)-1]
		prevIn := side(prev) >= -eps
		for _, cur := range in {
			curIn := side(cur) >= -eps
			if curIn != prevIn {
				out = append(out, intersectLine(prev, cur, a, b))
			}
			if curIn {
				out = append(out, cur)
			}
			prev, prevIn = cur, curIn
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// intersectLine returns where segment p→q crosses the infinite line a→b.
func intersectLine(p, q, a, b point) point {
	denom := cross(q.X-p.X, q.Y-p.Y, b.X-a.X, b.Y-a.Y)
	if math.Abs(denom) < 1e-12 {
		return q
	}
	t := cross(a.X-p.X, a.Y-p.Y, b.X-a.X, b.Y-a.Y) / denom
	return lerp(p, q, t)
}

// quadBezier appends segments points of the quadratic curve p0→p2 with
// control p1, excluding p0.
func quadBezier(dst []point, p0, p1, p2 point, segments int) []point {
	for i := 1; i <= segments; i++ {
		t := float64(i) / float64(segments)
		u := 1 - t
		dst = append(dst, point{
			X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
		})
	}
	return dst
}

// smoothPolyline turns waypoints into a drawable polyline. Two points stay a
// straight segment; three or more become quadratic Béziers through the
// midpoints of successive waypoints, ending exactly on the last point.
func smoothPolyline(pts []point, segments int) []point {
	if len(pts) < 3 {
		return pts
	}
	out := []point{pts[0]}
	start := pts[0]
	for i := 1; i < len(pts)-2; i++ {
		end := midpoint(pts[i], pts[i+1])
		out = quadBezier(out, start, pts[i], end, segments)
		start = end
	}
	n := len(pts)
	return quadBezier(out, start, pts[n-2], pts[n-1], segments)
}

// view applies the camera to world points.
type view struct {
	cam hexgrid.Camera
}

func (v view) xy(p point) (float32, float32) {
	x, y := v.cam.ToScreen(p)
	return float32(x), float32(y)
}

// screenLen converts a world length to screen pixels.
func (v view) screenLen(l float64) float32 { return float32(l * v.cam.Zoom) }

// texFrame maps world points onto a texture image of world size span
// centred at origin.
type texFrame struct {
	tex    image.Image
	origin point
	span   float64
}

func (f texFrame) uv(p point) (float32, float32) {
	if f.tex == nil || f.span <= 0 {
		return 0, 0
	}
	b := f.tex.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	u := (p.X-f.origin.X)/f.span*w + w/2 + float64(b.Min.X)
	v := (p.Y-f.origin.Y)/f.span*h + h/2 + float64(b.Min.Y)
	return float32(u), float32(v)
}

// triBatch accumulates triangles sharing one texture and flushes them in as
// few FillTriangles calls as uint16 indices allow.
type triBatch struct {
	dst Surface
	tex image.Image
	vs  []Vertex
	idx []uint16
}

const maxBatchVertices = 65000

func (b *triBatch) begin(tex image.Image) {
	if tex != b.tex {
		b.flush()
		b.tex = tex
	}
}

// fan adds a convex polygon as a triangle fan.
func (b *triBatch) fan(v view, poly []point, frame texFrame, c color.RGBA, alpha float64) {
	if len(poly) < 3 {
		return
	}
	if len(b.vs)+len(poly) > maxBatchVertices {
		b.flush()
	}
	r, g, bl, a := vertexColor(c, alpha, frame.tex != nil)
	base := uint16(len(b.vs))
	for _, p := range poly {
		x, y := v.xy(p)
		u, tv := frame.uv(p)
		b.vs = append(b.vs, Vertex{X: x, Y: y, U: u, V: tv, R: r, G: g, B: bl, A: a})
	}
	for i := 1; i < len(poly)-1; i++ {
		b.idx = append(b.idx, base, base+uint16(i), base+uint16(i+1))
	}
}

func (b *triBatch) flush() {
	if len(b.idx) > 0 {
		b.dst.FillTriangles(b.vs, b.idx, b.tex)
	}
	b.vs = b.vs[:0]
	b.idx = b.idx[:0]
}

func vertexColor(c color.RGBA, alpha float64, textured bool) (r, g, b, a float32) {
	if textured {
		return 1, 1, 1, float32(alpha)
	}
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(alpha) * float32(c.A) / 255
}

func withAlpha(c color.RGBA, a float64) color.RGBA {
	// color.RGBA is premultiplied.
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
