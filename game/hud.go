package game

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// drawHUD renders the status readout and the control panel.
func (g *Game) drawHUD() {
	stats := g.collector.Stats()

	rl.DrawText("Murmur", 10, 10, 20, rl.DarkGray)
	rl.DrawText(
		fmt.Sprintf("Particles: %d | Tick: %d | Speed: %dx | FPS: %d",
			g.cfg.Flock.NumParticles, g.sim.Frame(), g.stepsPerUpdate, rl.GetFPS()),
		10, 35, 16, rl.Gray,
	)
	rl.DrawText(
		fmt.Sprintf("Step: %s (grid %.0f%% | flock %.0f%% | sort %.0f%%)",
			stats.AvgTick.Round(time.Microsecond),
			stats.GridPct, stats.FlockingPct, stats.SortPct),
		10, 55, 16, rl.Gray,
	)

	if g.paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Orange)
	}

	// Interactive panel bottom-left
	panelY := float32(g.cfg.Screen.Height - 70)
	g.followCursor = gui.CheckBox(
		rl.Rectangle{X: 10, Y: panelY, Width: 16, Height: 16},
		"Follow cursor (space)", g.followCursor,
	)
	g.paused = gui.CheckBox(
		rl.Rectangle{X: 10, Y: panelY + 22, Width: 16, Height: 16},
		"Pause (P)", g.paused,
	)

	rl.DrawText("H hud | D debug | < > speed | scroll zoom | right-drag pan | R recenter | ESC quit",
		10, int32(g.cfg.Screen.Height)-25, 14, rl.Gray)
}
