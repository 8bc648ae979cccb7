package viewer

import "github.com/hajimehoshi/ebiten/v2"

var toolKeys = []struct {
	key  ebiten.Key
	tool Tool
}{
	{ebiten.Key1, ToolSelect},
	{ebiten.Key2, ToolPaint},
	{ebiten.Key3, ToolRoad},
	{ebiten.Key4, ToolDotted},
	{ebiten.Key5, ToolRiver},
	{ebiten.Key6, ToolErase},
}

func (v *Viewer) handleKeys() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !v.prevKeys[k]
	}

	for _, tk := range toolKeys {
		if pressed(tk.key) {
			v.SetTool(tk.tool)
		}
	}
	if pressed(ebiten.KeyTab) {
		step := 1
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			step = -1
		}
		v.CycleTerrain(step)
	}
	if pressed(ebiten.KeyEnter) {
		v.CommitPath()
	}
	if pressed(ebiten.KeyEscape) {
		v.Cancel()
	}
	if pressed(ebiten.KeyBackspace) {
		v.UndoWaypoint()
	}
	if pressed(ebiten.KeyC) {
		v.CopySelection()
	}
	if pressed(ebiten.KeyR) {
		v.ToggleRole()
	}
	if pressed(ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}

	// Pan is held, not edge-triggered.
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx += keyPanStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx -= keyPanStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy += keyPanStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy -= keyPanStep
	}
	if dx != 0 || dy != 0 {
		v.engine.Controller().PanBy(dx, dy)
	}

	if pressed(ebiten.KeyEqual) {
		v.ZoomStep(true)
	}
	if pressed(ebiten.KeyMinus) {
		v.ZoomStep(false)
	}
	if pressed(ebiten.Key0) {
		v.ResetCamera()
	}

	v.prevKeys = currentKeys
}
