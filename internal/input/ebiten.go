package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelNotch converts ebiten wheel steps into pixel-style deltas.
const wheelNotch = 100.0

var mouseButtons = [...]struct {
	b  Button
	eb ebiten.MouseButton
}{
	{ButtonLeft, ebiten.MouseButtonLeft},
	{ButtonMiddle, ebiten.MouseButtonMiddle},
	{ButtonRight, ebiten.MouseButtonRight},
}

// EbitenAdapter polls ebiten input once per tick and forwards it to a
// Controller. Call Update from Game.Update.
type EbitenAdapter struct {
	c            *Controller
	lastX, lastY int
	touchIDs     []ebiten.TouchID
	touchPos     map[ebiten.TouchID][2]int
	detached     bool
}

// NewEbitenAdapter attaches c to ebiten's input state.
func NewEbitenAdapter(c *Controller) *EbitenAdapter {
	x, y := ebiten.CursorPosition()
	return &EbitenAdapter{c: c, lastX: x, lastY: y, touchPos: make(map[ebiten.TouchID][2]int)}
}

// Detach stops forwarding. Further Update calls do nothing.
func (a *EbitenAdapter) Detach() { a.detached = true }

// Update forwards this tick's input.
func (a *EbitenAdapter) Update() {
	if a.detached {
		return
	}
	a.updateMouse()
	a.updateTouches()
}

func (a *EbitenAdapter) updateMouse() {
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)
	for _, mb := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(mb.eb) {
			a.c.MouseDown(mb.b, fx, fy)
		}
	}
	if x != a.lastX || y != a.lastY {
		a.c.MouseMove(fx, fy)
		a.lastX, a.lastY = x, y
	}
	for _, mb := range mouseButtons {
		if inpututil.IsMouseButtonJustReleased(mb.eb) {
			a.c.MouseUp(mb.b, fx, fy)
		}
	}
	// ebiten reports scroll-up as positive; the controller zooms in on
	// negative deltas.
	if _, wy := ebiten.Wheel(); wy != 0 {
		a.c.Wheel(-wy*wheelNotch, fx, fy)
	}
}

func (a *EbitenAdapter) updateTouches() {
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		a.touchPos[id] = [2]int{x, y}
		a.c.TouchStart(int(id), float64(x), float64(y))
	}
	a.touchIDs = ebiten.AppendTouchIDs(a.touchIDs[:0])
	for _, id := range a.touchIDs {
		x, y := ebiten.TouchPosition(id)
		if p, ok := a.touchPos[id]; ok && p == [2]int{x, y} {
			continue
		}
		a.touchPos[id] = [2]int{x, y}
		a.c.TouchMove(int(id), float64(x), float64(y))
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		delete(a.touchPos, id)
		a.c.TouchEnd(int(id), float64(x), float64(y))
	}
}
