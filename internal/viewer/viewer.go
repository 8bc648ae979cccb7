// Package viewer is the desktop host for the map engine: an ebiten.Game that
// owns a snapshot in memory, feeds it to the engine, and turns clicks and
// keys into selection, painting and path drawing.
package viewer

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/hexmap/internal/engine"
	"github.com/Garsondee/hexmap/internal/hexgrid"
	"github.com/Garsondee/hexmap/internal/input"
	"github.com/Garsondee/hexmap/internal/mapdata"
	"github.com/Garsondee/hexmap/internal/render"
)

// Tool is the active left-click action.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPaint
	ToolRoad
	ToolDotted
	ToolRiver
	ToolErase
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPaint:
		return "paint"
	case ToolRoad:
		return "road"
	case ToolDotted:
		return "dotted road"
	case ToolRiver:
		return "river"
	case ToolErase:
		return "erase path"
	}
	return "unknown"
}

// pathType is the path a drawing tool produces.
func (t Tool) pathType() (mapdata.PathType, bool) {
	switch t {
	case ToolRoad:
		return mapdata.PathRoadSolid, true
	case ToolDotted:
		return mapdata.PathRoadDotted, true
	case ToolRiver:
		return mapdata.PathRiver, true
	}
	return "", false
}

// Options configures New. Engine callbacks are installed by the viewer.
type Options struct {
	Engine   engine.Options
	Snapshot *mapdata.Snapshot
	Role     mapdata.Role
	Author   string
	Log      logrus.FieldLogger

	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	Now       func() time.Time
}

// Viewer implements ebiten.Game.
type Viewer struct {
	log       logrus.FieldLogger
	engine    *engine.Engine
	canvas    render.Canvas
	adapter   *input.EbitenAdapter
	snap      *mapdata.Snapshot
	role      mapdata.Role
	author    string
	clipboard func(string) error
	now       func() time.Time

	selected   *hexgrid.Coord
	tool       Tool
	terrainIdx int
	draft      *mapdata.PathPreview
	nextPathID int

	showHUD  bool
	status   string
	prevKeys map[ebiten.Key]bool
	w, h     int
}

// New creates the viewer and its engine.
func New(opts Options) (*Viewer, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	snap := opts.Snapshot
	if snap == nil {
		snap = &mapdata.Snapshot{}
	}
	if snap.Hexes == nil {
		snap.Hexes = make(map[string]mapdata.HexData)
	}
	v := &Viewer{
		log:       log.WithField("component", "viewer"),
		canvas:    opts.Engine.Canvas,
		snap:      snap,
		role:      opts.Role,
		author:    opts.Author,
		clipboard: opts.Clipboard,
		now:       opts.Now,
		showHUD:   true,
		prevKeys:  make(map[ebiten.Key]bool),
	}
	if v.role == "" {
		v.role = mapdata.RolePlayer
	}
	if v.clipboard == nil {
		v.clipboard = clipboard.WriteAll
	}
	if v.now == nil {
		v.now = time.Now
	}
	v.nextPathID = len(snap.Paths)

	eopts := opts.Engine
	eopts.Log = log
	eopts.OnHexClick = v.HandleClick
	e, err := engine.New(eopts)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	v.engine = e
	if w, h := v.canvas.Size(); w > 0 && h > 0 {
		v.w, v.h = w, h
		v.ResetCamera()
	}
	return v, nil
}

// Engine exposes the embedded engine.
func (v *Viewer) Engine() *engine.Engine { return v.engine }

// Snapshot is the in-memory map state the viewer edits.
func (v *Viewer) Snapshot() *mapdata.Snapshot { return v.snap }

// Selected is the selected hex, if any.
func (v *Viewer) Selected() *hexgrid.Coord { return v.selected }

// Tool is the active tool.
func (v *Viewer) Tool() Tool { return v.tool }

// Status is the last action message shown in the HUD.
func (v *Viewer) Status() string { return v.status }

// Update polls input. It implements ebiten.Game.
func (v *Viewer) Update() error {
	if v.adapter == nil {
		v.adapter = v.engine.AttachEbitenInput()
	}
	v.handleKeys()
	v.adapter.Update()
	v.trackCursor()
	return nil
}

// trackCursor moves the live end of the path being drawn.
func (v *Viewer) trackCursor() {
	if v.draft == nil {
		return
	}
	x, y := ebiten.CursorPosition()
	p := v.engine.Controller().ToWorld(float64(x), float64(y))
	if v.draft.Cursor == nil || *v.draft.Cursor != p {
		v.draft.Cursor = &p
		v.engine.MarkDirty()
	}
}

// Draw implements ebiten.Game. The map is re-rendered only when something
// changed; otherwise the cached canvas is blitted.
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.engine.Dirty() {
		v.engine.Draw(v.frame())
	}
	if c, ok := v.canvas.(*render.EbitenCanvas); ok {
		screen.DrawImage(c.Image(), nil)
	}
	if v.showHUD {
		v.drawHUD(screen)
	}
}

// Layout implements ebiten.Game and resizes the canvas with the window.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.w || outsideHeight != v.h {
		first := v.w == 0
		v.w, v.h = outsideWidth, outsideHeight
		v.engine.Resize(outsideWidth, outsideHeight, 1)
		if first {
			v.ResetCamera()
		}
	}
	return outsideWidth, outsideHeight
}

// Close tears the engine down.
func (v *Viewer) Close() {
	v.engine.Destroy()
}

func (v *Viewer) frame() engine.Frame {
	f := engine.Frame{
		Hexes:     v.snap.Hexes,
		Selected:  v.selected,
		PaintMode: v.tool != ToolSelect,
		Role:      v.role,
		Markers:   v.snap.Markers,
		Paths:     v.snap.Paths,
	}
	if v.draft != nil {
		pv := *v.draft
		f.Preview = &pv
	}
	return f
}

func (v *Viewer) setStatus(format string, args ...any) {
	v.status = fmt.Sprintf(format, args...)
	v.engine.MarkDirty()
}
