package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	hudLineH = 14
	hudCharW = 6
	hudPad   = 6
)

var (
	hudBg     = color.RGBA{R: 14, G: 16, B: 14, A: 220}
	hudBorder = color.RGBA{R: 55, G: 80, B: 55, A: 255}
)

// hudLines is the text of the info panel.
func (v *Viewer) hudLines() []string {
	cam := v.engine.Camera()
	lines := []string{
		fmt.Sprintf("tool: %s  role: %s  zoom: %.2fx", v.tool, v.role, cam.Zoom),
	}
	switch v.tool {
	case ToolPaint:
		if t, ok := v.PaintTerrain(); ok {
			lines = append(lines, fmt.Sprintf("terrain: %s [Tab] next", t.Name))
		}
	case ToolRoad, ToolDotted, ToolRiver:
		n := 0
		if v.draft != nil {
			n = len(v.draft.Points)
		}
		lines = append(lines, fmt.Sprintf("points: %d [Enter] save [Bksp] undo [Esc] clear", n))
	}

	if v.selected != nil {
		key := v.selected.Key()
		terrain := "none"
		if h, ok := v.snap.Hexes[key]; ok {
			cat := v.engine.Catalog()
			if id, ok := cat.TerrainOf(h); ok {
				if t, ok := cat.Terrains.ByID(id); ok {
					terrain = t.Name
				}
			}
		}
		icons := len(v.snap.Markers[key].Icons)
		lines = append(lines, fmt.Sprintf("hex %s  %s  icons: %d  [C] copy", key, terrain, icons))
	}

	if settled, expected, failed := v.engine.Progress(); expected > 0 && settled < expected {
		lines = append(lines, fmt.Sprintf("images: %d/%d (%d failed)", settled, expected, failed))
	}
	if v.status != "" {
		lines = append(lines, v.status)
	}
	lines = append(lines, "[1-6] tools [R] role [0] reset [H] hide")
	return lines
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	lines := v.hudLines()
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	bw := float32(maxLen*hudCharW + hudPad*2)
	bh := float32(len(lines)*hudLineH + hudPad*2)
	bx, by := float32(4), float32(4)

	vector.FillRect(screen, bx, by, bw, bh, hudBg, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 1.0, hudBorder, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, int(bx)+hudPad, int(by)+hudPad+i*hudLineH)
	}
}
