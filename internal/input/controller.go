// Package input turns pointer, wheel and touch events into camera changes
// and hex clicks. Controller is pure and synchronous; EbitenAdapter feeds
// it from ebiten's polled input state.
package input

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/hexmap/internal/hexgrid"
)

// State is the gesture the controller is tracking.
type State int

const (
	Idle State = iota
	Panning
	LeftDragging
	Pinching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case LeftDragging:
		return "left-dragging"
	case Pinching:
		return "pinching"
	}
	return "unknown"
}

// Button is a mouse button index: 0 left, 1 middle, 2 right.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// ClickKind says what produced a click.
type ClickKind string

const (
	ClickMouse ClickKind = "mouse"
	ClickTouch ClickKind = "touch"
)

const (
	dragThreshold    = 5.0  // px a left drag may move and still click
	tapThreshold     = 10.0 // px a touch may move and still tap
	wheelSensitivity = 0.0015
	touchPanBoost    = 0.3
)

// ClickFunc receives a resolved click. hex is nil when no hex lies under
// the pointer.
type ClickFunc func(hex *hexgrid.Coord, clientX, clientY float64, kind ClickKind)

// Options configures a Controller.
type Options struct {
	Grid     hexgrid.Grid
	Camera   hexgrid.Camera
	OnClick  ClickFunc
	OnChange func()
	Log      logrus.FieldLogger
}

type touchPoint struct {
	x, y float64
}

type pinchState struct {
	initialDist float64
	initialZoom float64
	anchor      hexgrid.Point
}

// Controller owns the camera and interprets input gestures.
type Controller struct {
	grid     hexgrid.Grid
	cam      hexgrid.Camera
	onClick  ClickFunc
	onChange func()
	log      logrus.FieldLogger

	originX, originY float64
	state            State
	startX, startY   float64
	lastX, lastY     float64
	dragged          bool
	noLeftPan        bool

	touches    map[int]touchPoint
	touchOrder []int
	touchMoved bool
	pinch      pinchState
}

// NewController creates a controller in the Idle state.
func NewController(opts Options) *Controller {
	cam := opts.Camera
	cam.Sanitize()
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		grid:     opts.Grid,
		cam:      cam,
		onClick:  opts.OnClick,
		onChange: opts.OnChange,
		log:      log,
		touches:  make(map[int]touchPoint),
	}
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Camera returns the current camera.
func (c *Controller) Camera() hexgrid.Camera { return c.cam }

// SetCamera replaces the camera, sanitising it first.
func (c *Controller) SetCamera(cam hexgrid.Camera) {
	cam.Sanitize()
	c.cam = cam
	c.changed()
}

// SetGrid changes the grid clicks resolve against.
func (c *Controller) SetGrid(g hexgrid.Grid) { c.grid = g }

// SetOrigin sets the canvas position inside the window, subtracted from
// client coordinates.
func (c *Controller) SetOrigin(x, y float64) { c.originX, c.originY = x, y }

// SetLeftDragPan enables or disables panning with a left drag. Draw tools
// disable it so left drags can place waypoints.
func (c *Controller) SetLeftDragPan(enabled bool) { c.noLeftPan = !enabled }

// ToWorld converts client coordinates to world space.
func (c *Controller) ToWorld(x, y float64) hexgrid.Point {
	return c.cam.ToWorld(x, y, c.originX, c.originY)
}

func (c *Controller) setState(s State) {
	if s == c.state {
		return
	}
	c.log.WithFields(logrus.Fields{"from": c.state, "to": s}).Debug("input state")
	c.state = s
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) click(x, y float64, kind ClickKind) {
	if c.onClick == nil {
		return
	}
	w := c.ToWorld(x, y)
	if hex, ok := c.grid.HexAt(w.X, w.Y); ok {
		c.onClick(&hex, x, y, kind)
		return
	}
	c.onClick(nil, x, y, kind)
}

// MouseDown starts a pan (middle/right) or a left drag.
func (c *Controller) MouseDown(b Button, x, y float64) {
	if c.state == Pinching {
		return
	}
	switch b {
	case ButtonLeft:
		c.setState(LeftDragging)
	case ButtonMiddle, ButtonRight:
		c.setState(Panning)
	default:
		return
	}
	c.startX, c.startY = x, y
	c.lastX, c.lastY = x, y
	c.dragged = false
}

// MouseMove pans 1:1 in device pixels while a button is held.
func (c *Controller) MouseMove(x, y float64) {
	if c.state != Panning && c.state != LeftDragging {
		return
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	if c.state == LeftDragging {
		if math.Hypot(x-c.startX, y-c.startY) > dragThreshold {
			c.dragged = true
		}
		if c.noLeftPan {
			return
		}
	}
	if dx == 0 && dy == 0 {
		return
	}
	c.cam.X += dx
	c.cam.Y += dy
	c.changed()
}

// MouseUp ends the gesture. A left release that never moved past the drag
// threshold is a click.
func (c *Controller) MouseUp(b Button, x, y float64) {
	switch c.state {
	case LeftDragging:
		if b != ButtonLeft {
			return
		}
		if !c.dragged && math.Hypot(x-c.startX, y-c.startY) <= dragThreshold {
			c.click(x, y, ClickMouse)
		}
	case Panning:
		if b == ButtonLeft {
			return
		}
	default:
		return
	}
	c.setState(Idle)
}

// Wheel zooms exponentially in deltaY (positive zooms out), keeping the
// world point under (x, y) fixed.
func (c *Controller) Wheel(deltaY, x, y float64) {
	if deltaY == 0 || math.IsNaN(deltaY) || math.IsInf(deltaY, 0) {
		return
	}
	c.ZoomAt(c.cam.Zoom*math.Exp(-deltaY*wheelSensitivity), x, y)
}

// ZoomAt sets the zoom (clamped) anchored at client coordinates (x, y).
func (c *Controller) ZoomAt(z, x, y float64) {
	before := c.cam
	c.cam.ZoomAt(z, x-c.originX, y-c.originY)
	if c.cam != before {
		c.changed()
	}
}

// PanBy moves the camera by (dx, dy) device pixels.
func (c *Controller) PanBy(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	c.cam.X += dx
	c.cam.Y += dy
	c.changed()
}

// TouchStart registers a finger. One finger pans; a second starts a pinch.
func (c *Controller) TouchStart(id int, x, y float64) {
	if _, ok := c.touches[id]; !ok {
		c.touchOrder = append(c.touchOrder, id)
	}
	c.touches[id] = touchPoint{x, y}
	switch len(c.touches) {
	case 1:
		c.setState(Panning)
		c.startX, c.startY = x, y
		c.lastX, c.lastY = x, y
		c.touchMoved = false
	case 2:
		c.beginPinch()
	}
}

func (c *Controller) pinchPair() (touchPoint, touchPoint) {
	return c.touches[c.touchOrder[0]], c.touches[c.touchOrder[1]]
}

func (c *Controller) beginPinch() {
	a, b := c.pinchPair()
	mx, my := (a.x+b.x)/2, (a.y+b.y)/2
	c.pinch = pinchState{
		initialDist: math.Hypot(b.x-a.x, b.y-a.y),
		initialZoom: c.cam.Zoom,
		anchor:      c.ToWorld(mx, my),
	}
	// A gesture that ever used two fingers is never a tap.
	c.touchMoved = true
	c.setState(Pinching)
}

// TouchMove updates a finger.
func (c *Controller) TouchMove(id int, x, y float64) {
	if _, ok := c.touches[id]; !ok {
		return
	}
	c.touches[id] = touchPoint{x, y}
	switch c.state {
	case Pinching:
		if len(c.touches) < 2 || c.pinch.initialDist <= 0 {
			return
		}
		a, b := c.pinchPair()
		dist := math.Hypot(b.x-a.x, b.y-a.y)
		mx, my := (a.x+b.x)/2-c.originX, (a.y+b.y)/2-c.originY
		c.cam.Zoom = hexgrid.ClampZoom(c.pinch.initialZoom * dist / c.pinch.initialDist)
		c.cam.X = mx - c.pinch.anchor.X*c.cam.Zoom
		c.cam.Y = my - c.pinch.anchor.Y*c.cam.Zoom
		c.changed()
	case Panning:
		if id != c.touchOrder[0] {
			return
		}
		if math.Hypot(x-c.startX, y-c.startY) > tapThreshold {
			c.touchMoved = true
		}
		boost := 1 + math.Max(0, c.cam.Zoom-1)*touchPanBoost
		c.PanBy((x-c.lastX)*boost, (y-c.lastY)*boost)
		c.lastX, c.lastY = x, y
	}
}

// TouchEnd removes a finger. Lifting the last finger of a gesture that
// stayed within the tap threshold clicks.
func (c *Controller) TouchEnd(id int, x, y float64) {
	if _, ok := c.touches[id]; !ok {
		return
	}
	delete(c.touches, id)
	for i, tid := range c.touchOrder {
		if tid == id {
			c.touchOrder = append(c.touchOrder[:i], c.touchOrder[i+1:]...)
			break
		}
	}
	switch len(c.touches) {
	case 0:
		if c.state == Panning && !c.touchMoved {
			c.click(x, y, ClickTouch)
		}
		c.setState(Idle)
	case 1:
		// Drop back to panning with the remaining finger.
		rest := c.touches[c.touchOrder[0]]
		c.lastX, c.lastY = rest.x, rest.y
		c.setState(Panning)
	default:
		c.beginPinch()
	}
}
