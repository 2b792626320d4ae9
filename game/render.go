package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Draw renders the flock as depth-shaded points on a white background.
// Shade and size both come from the depth coordinate: far particles are
// lighter and smaller, which reads as distance without a projection. The
// camera handles pan/zoom in the XY plane.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	depth := g.cfg.Derived.WorldD32
	zoom := g.cam.Zoom
	particles := g.sim.Particles()
	for i := range particles {
		p := &particles[i]

		size := 1 + (depth-p.Pos.Z)/depth*2
		if !g.cam.IsVisible(p.Pos.X, p.Pos.Y, size) {
			continue
		}

		shade := uint8(p.Pos.Z / depth * 0.863 * 255)
		sx, sy := g.cam.WorldToScreen(p.Pos.X, p.Pos.Y)
		rl.DrawCircleV(
			rl.Vector2{X: sx, Y: sy},
			size*0.5*zoom,
			rl.NewColor(shade, shade, shade, 255),
		)
	}

	if g.debugOverlay {
		g.drawDebugOverlay()
	}
	if g.showHUD {
		g.drawHUD()
	}

	g.collector.RecordFrame()
	rl.EndDrawing()
}

// drawDebugOverlay marks the two leader positions and the cursor target.
func (g *Game) drawDebugOverlay() {
	l1, l2 := g.sim.LeaderPositions()

	x1, y1 := g.cam.WorldToScreen(l1.X, l1.Y)
	x2, y2 := g.cam.WorldToScreen(l2.X, l2.Y)
	rl.DrawCircleLines(int32(x1), int32(y1), 6, rl.Red)
	rl.DrawCircleLines(int32(x2), int32(y2), 6, rl.Blue)

	if g.followCursor {
		cx, cy := g.cam.WorldToScreen(g.cursor.X, g.cursor.Y)
		rl.DrawLine(int32(cx)-8, int32(cy), int32(cx)+8, int32(cy), rl.DarkGray)
		rl.DrawLine(int32(cx), int32(cy)-8, int32(cx), int32(cy)+8, rl.DarkGray)
	}
}
