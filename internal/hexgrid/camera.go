package hexgrid

import "math"

// Zoom limits shared by wheel, pinch and keyboard zoom.
const (
	MinZoom = 0.2
	MaxZoom = 5.0
)

// Camera is the pan offset (device pixels) and scale applied to world space.
//
//	screen = world*Zoom + (X, Y) + origin
type Camera struct {
	X, Y float64
	Zoom float64
}

// DefaultCamera is the safe reset state.
func DefaultCamera() Camera {
	return Camera{Zoom: 1}
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Sanitize resets the camera if any field is non-finite and clamps zoom.
// It reports whether anything changed.
func (c *Camera) Sanitize() bool {
	if !finite(c.X) || !finite(c.Y) || !finite(c.Zoom) || c.Zoom <= 0 {
		*c = DefaultCamera()
		return true
	}
	z := ClampZoom(c.Zoom)
	if z != c.Zoom {
		c.Zoom = z
		return true
	}
	return false
}

// ToWorld converts a screen position to world space. originX/originY is the
// canvas position inside the window.
func (c Camera) ToWorld(sx, sy, originX, originY float64) Point {
	return Point{
		X: (sx - originX - c.X) / c.Zoom,
		Y: (sy - originY - c.Y) / c.Zoom,
	}
}

// ToScreen is the inverse of ToWorld, relative to the canvas (no origin).
func (c Camera) ToScreen(p Point) (float64, float64) {
	return p.X*c.Zoom + c.X, p.Y*c.Zoom + c.Y
}

// ZoomAt changes the zoom to z (clamped) while keeping the world point under
// the canvas-relative position (ax, ay) fixed.
func (c *Camera) ZoomAt(z, ax, ay float64) {
	anchor := c.ToWorld(ax, ay, 0, 0)
	c.Zoom = ClampZoom(z)
	c.X = ax - anchor.X*c.Zoom
	c.Y = ay - anchor.Y*c.Zoom
}

// CenterOn pans so the world point p sits at the middle of a w×h canvas.
func (c *Camera) CenterOn(p Point, w, h float64) {
	c.X = w/2 - p.X*c.Zoom
	c.Y = h/2 - p.Y*c.Zoom
}

// Distance between two world points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
