package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes mouse and keyboard input.
func (g *Game) handleInput() {
	// Cursor maps through the camera onto the world's XY plane; depth stays
	// at the world mid plane, so followed leaders fly level.
	mouse := rl.GetMousePosition()
	g.cursor.X, g.cursor.Y = g.cam.ScreenToWorld(mouse.X, mouse.Y)

	// Scroll zooms, right-button drag pans, R recenters.
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		g.cam.Pan(-delta.X, -delta.Y)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.cam.Reset()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.followCursor = !g.followCursor
		if g.followCursor {
			Logf("follow cursor: ON")
		} else {
			Logf("follow cursor: OFF")
		}
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}

	if rl.IsKeyPressed(rl.KeyH) {
		g.showHUD = !g.showHUD
	}

	if rl.IsKeyPressed(rl.KeyD) {
		g.debugOverlay = !g.debugOverlay
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}
}
