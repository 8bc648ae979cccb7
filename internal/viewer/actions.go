package viewer

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/hexmap/internal/hexgrid"
	"github.com/Garsondee/hexmap/internal/input"
	"github.com/Garsondee/hexmap/internal/mapdata"
)

const (
	keyPanStep  = 8.0
	keyZoomStep = 1.25
	// eraseTolerance is in screen pixels.
	eraseTolerance = 8.0
)

// HandleClick is the engine's hex click callback.
func (v *Viewer) HandleClick(hex *hexgrid.Coord, clientX, clientY float64, kind input.ClickKind) {
	switch v.tool {
	case ToolSelect:
		v.selectHex(hex)
	case ToolPaint:
		if hex != nil {
			v.paint(*hex)
		}
	case ToolRoad, ToolDotted, ToolRiver:
		v.addWaypoint(v.engine.Controller().ToWorld(clientX, clientY))
	case ToolErase:
		v.erasePathAt(v.engine.Controller().ToWorld(clientX, clientY))
	}
}

func (v *Viewer) selectHex(hex *hexgrid.Coord) {
	if hex == nil || (v.selected != nil && *v.selected == *hex) {
		v.selected = nil
		v.setStatus("")
		return
	}
	c := *hex
	v.selected = &c
	v.setStatus("selected %s", c.Key())
}

// SetTool switches tools. Leaving a drawing tool discards the draft.
func (v *Viewer) SetTool(t Tool) {
	if t == v.tool {
		return
	}
	v.tool = t
	typ, drawing := t.pathType()
	if drawing {
		v.draft = &mapdata.PathPreview{Type: typ}
	} else {
		v.draft = nil
	}
	// Left drag would fight with waypoint clicks.
	v.engine.Controller().SetLeftDragPan(!drawing)
	v.setStatus("tool: %s", t)
}

// PaintTerrain is the terrain the paint tool applies, if the catalog has any.
func (v *Viewer) PaintTerrain() (mapdata.TerrainEntry, bool) {
	entries := v.engine.Catalog().Terrains.Entries()
	if len(entries) == 0 {
		return mapdata.TerrainEntry{}, false
	}
	return entries[v.terrainIdx%len(entries)], true
}

// CycleTerrain advances the paint terrain by step, wrapping.
func (v *Viewer) CycleTerrain(step int) {
	n := v.engine.Catalog().Terrains.Len()
	if n == 0 {
		return
	}
	v.terrainIdx = ((v.terrainIdx+step)%n + n) % n
	if t, ok := v.PaintTerrain(); ok {
		v.setStatus("paint terrain: %s", t.Name)
	}
}

// paint sets the hex's terrain, keeping its tags.
func (v *Viewer) paint(c hexgrid.Coord) {
	t, ok := v.PaintTerrain()
	if !ok {
		v.setStatus("no terrains configured")
		return
	}
	key := c.Key()
	h := v.snap.Hexes[key]
	if h.Type == mapdata.IDRef(t.ID) {
		return
	}
	h.Type = mapdata.IDRef(t.ID)
	v.snap.Hexes[key] = h
	v.log.WithFields(logrus.Fields{"hex": key, "terrain": t.Name}).Info("paint hex")
	v.setStatus("painted %s %s", key, t.Name)
}

func (v *Viewer) addWaypoint(p hexgrid.Point) {
	if v.draft == nil {
		return
	}
	v.draft.Points = append(v.draft.Points, p)
	v.setStatus("%s: %d points", v.tool, len(v.draft.Points))
}

// UndoWaypoint drops the last waypoint of the draft.
func (v *Viewer) UndoWaypoint() {
	if v.draft == nil || len(v.draft.Points) == 0 {
		return
	}
	v.draft.Points = v.draft.Points[:len(v.draft.Points)-1]
	v.setStatus("%s: %d points", v.tool, len(v.draft.Points))
}

// CommitPath stores the draft as a new path. Drafts with fewer than two
// points are kept open.
func (v *Viewer) CommitPath() (mapdata.MapPath, bool) {
	if v.draft == nil || len(v.draft.Points) < 2 {
		v.setStatus("a path needs at least 2 points")
		return mapdata.MapPath{}, false
	}
	v.nextPathID++
	p := mapdata.MapPath{
		ID:        fmt.Sprintf("path-%d", v.nextPathID),
		Type:      v.draft.Type,
		Points:    slices.Clone(v.draft.Points),
		CreatedBy: v.author,
		CreatedAt: v.now().UTC(),
	}
	v.snap.Paths = append(v.snap.Paths, p)
	v.draft = &mapdata.PathPreview{Type: p.Type}
	v.log.WithFields(logrus.Fields{
		"path":   p.ID,
		"type":   p.Type,
		"points": len(p.Points),
		"author": p.CreatedBy,
	}).Info("create path")
	v.setStatus("created %s", p.ID)
	return p, true
}

// Cancel discards the draft, or clears the selection when not drawing.
func (v *Viewer) Cancel() {
	if v.draft != nil && len(v.draft.Points) > 0 {
		v.draft = &mapdata.PathPreview{Type: v.draft.Type}
		v.setStatus("draft discarded")
		return
	}
	v.selectHex(nil)
}

func (v *Viewer) erasePathAt(p hexgrid.Point) {
	tol := eraseTolerance / v.engine.Camera().Zoom
	i, ok := mapdata.PathAt(v.snap.Paths, p, tol)
	if !ok {
		return
	}
	gone := v.snap.Paths[i]
	v.snap.Paths = slices.Delete(v.snap.Paths, i, i+1)
	v.log.WithFields(logrus.Fields{"path": gone.ID, "type": gone.Type}).Info("delete path")
	v.setStatus("deleted %s", gone.ID)
}

// CopySelection puts the selected hex key on the clipboard.
func (v *Viewer) CopySelection() {
	if v.selected == nil {
		return
	}
	key := v.selected.Key()
	if err := v.clipboard(key); err != nil {
		v.log.WithError(err).Warn("clipboard write failed")
		v.setStatus("copy failed")
		return
	}
	v.setStatus("copied %s", key)
}

// ToggleRole flips between the configured role and its opposite so hidden
// content can be previewed.
func (v *Viewer) ToggleRole() {
	if v.role.Privileged() {
		v.role = mapdata.RolePlayer
	} else {
		v.role = mapdata.RoleDM
	}
	v.setStatus("viewing as %s", v.role)
}

// ZoomStep zooms in or out about the viewport centre.
func (v *Viewer) ZoomStep(in bool) {
	cam := v.engine.Camera()
	z := cam.Zoom / keyZoomStep
	if in {
		z = cam.Zoom * keyZoomStep
	}
	v.engine.Controller().ZoomAt(z, float64(v.w)/2, float64(v.h)/2)
}

// ResetCamera centres the whole grid at zoom 1.
func (v *Viewer) ResetCamera() {
	cam := hexgrid.DefaultCamera()
	bw, bh := v.engine.Grid().Bounds()
	cam.CenterOn(hexgrid.Point{X: bw / 2, Y: bh / 2}, float64(v.w), float64(v.h))
	v.engine.Controller().SetCamera(cam)
}
