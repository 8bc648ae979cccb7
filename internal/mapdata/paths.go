package mapdata

import (
	"fmt"
	"math"
	"time"

	"github.com/Garsondee/hexmap/internal/hexgrid"
)

// PathType selects the stroke style of a MapPath.
type PathType string

const (
	PathRoadSolid  PathType = "road-solid"
	PathRoadDotted PathType = "road-dotted"
	PathRiver      PathType = "river"
)

// PathTypes lists the known path types.
var PathTypes = []PathType{PathRoadSolid, PathRoadDotted, PathRiver}

// UnmarshalText rejects unknown path types.
func (t *PathType) UnmarshalText(b []byte) error {
	for _, known := range PathTypes {
		if string(b) == string(known) {
			*t = known
			return nil
		}
	}
	return fmt.Errorf("unknown path type %q", b)
}

// MapPath is an ordered polyline in world space.
type MapPath struct {
	ID        string          `json:"id"`
	Type      PathType        `json:"type"`
	Points    []hexgrid.Point `json:"points"`
	CreatedBy string          `json:"createdBy,omitempty"`
	CreatedAt time.Time       `json:"createdAt,omitzero"`
}

// PathPreview is a path being drawn. Cursor, when set, is appended as a
// virtual last point.
type PathPreview struct {
	Type   PathType
	Points []hexgrid.Point
	Cursor *hexgrid.Point
}

// WithCursor returns the preview points with the cursor appended.
func (p PathPreview) WithCursor() []hexgrid.Point {
	pts := make([]hexgrid.Point, 0, len(p.Points)+1)
	pts = append(pts, p.Points...)
	if p.Cursor != nil {
		pts = append(pts, *p.Cursor)
	}
	return pts
}

// FinitePoints drops points with NaN or infinite coordinates.
func FinitePoints(pts []hexgrid.Point) []hexgrid.Point {
	out := pts[:0:0]
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// PathAt returns the index of the path passing closest to p, if any is within
// tol world units.
func PathAt(paths []MapPath, p hexgrid.Point, tol float64) (int, bool) {
	best := -1
	bestD := tol
	for i, path := range paths {
		pts := path.Points
		var d float64
		switch len(pts) {
		case 0:
			continue
		case 1:
			d = hexgrid.Distance(p, pts[0])
		default:
			d = math.MaxFloat64
			for j := 1; j < len(pts); j++ {
				d = math.Min(d, pointToSegmentDist(p.X, p.Y, pts[j-1].X, pts[j-1].Y, pts[j].X, pts[j].Y))
			}
		}
		if d <= bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

// pointToSegmentDist returns the minimum distance from point (px,py) to the
// line segment (ax,ay)-(bx,by).
func pointToSegmentDist(px, py, ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-9 {
		return math.Sqrt((px-ax)*(px-ax) + (py-ay)*(py-ay))
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := ax + t*dx
	cy := ay + t*dy
	return math.Sqrt((px-cx)*(px-cx) + (py-cy)*(py-cy))
}
