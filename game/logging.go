package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/murmur/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfProfile writes the human-readable profile block for the window
// that just ended.
func (g *Game) logPerfProfile(stats telemetry.PerfStats) {
	Logf("=== Perf @ Tick %d (window %d) ===", g.sim.Frame(), g.profileWindow)
	Logf("  %-10s %10s  %5.1f%%", "grid", stats.AvgGrid.Round(time.Microsecond), stats.GridPct)
	Logf("  %-10s %10s  %5.1f%%", "flocking", stats.AvgFlocking.Round(time.Microsecond), stats.FlockingPct)
	Logf("  %-10s %10s  %5.1f%%", "sort", stats.AvgSort.Round(time.Microsecond), stats.SortPct)
	Logf("  total %s/tick (%.1f ticks/s, %.0f updated avg)",
		stats.AvgTick.Round(time.Microsecond), stats.TicksPerSecond, stats.AvgUpdated)
	if stats.FPS > 0 {
		Logf("  render %.1f fps", stats.FPS)
	}
	Logf("")
}
