// Package telemetry aggregates per-frame timing and flock statistics over
// rolling windows for logging and CSV export.
package telemetry

import (
	"log/slog"
	"time"
)

// Sample holds timing data for a single simulation tick, split by phase.
type Sample struct {
	Tick     time.Duration // whole step
	Grid     time.Duration // spatial grid rebuild
	Flocking time.Duration // cache refresh + forces + integration
	Sort     time.Duration // depth resort
	Updated  int           // particles advanced (short of the flock under budget pressure)
}

// PerfCollector tracks step timings over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []Sample
	writeIndex  int
	sampleCount int

	// Frame timing (graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]Sample, windowSize),
	}
}

// Record adds one tick sample.
func (p *PerfCollector) Record(s Sample) {
	p.samples[p.writeIndex] = s
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records wall time between rendered frames.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated timings over the current window.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	AvgGrid     time.Duration
	AvgFlocking time.Duration
	AvgSort     time.Duration

	GridPct     float64
	FlockingPct float64
	SortPct     float64

	AvgUpdated     float64
	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregates over the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{FrameDuration: p.frameDuration, FPS: fps}
	}

	var totalTick, totalGrid, totalFlocking, totalSort time.Duration
	var minTick, maxTick time.Duration
	totalUpdated := 0

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.Tick
		totalGrid += s.Grid
		totalFlocking += s.Flocking
		totalSort += s.Sort
		totalUpdated += s.Updated

		if i == 0 || s.Tick < minTick {
			minTick = s.Tick
		}
		if s.Tick > maxTick {
			maxTick = s.Tick
		}
	}

	n := time.Duration(p.sampleCount)
	stats := PerfStats{
		AvgTick:       totalTick / n,
		MinTick:       minTick,
		MaxTick:       maxTick,
		AvgGrid:       totalGrid / n,
		AvgFlocking:   totalFlocking / n,
		AvgSort:       totalSort / n,
		AvgUpdated:    float64(totalUpdated) / float64(p.sampleCount),
		FrameDuration: p.frameDuration,
		FPS:           fps,
	}

	if stats.AvgTick > 0 {
		stats.GridPct = float64(stats.AvgGrid) / float64(stats.AvgTick) * 100
		stats.FlockingPct = float64(stats.AvgFlocking) / float64(stats.AvgTick) * 100
		stats.SortPct = float64(stats.AvgSort) / float64(stats.AvgTick) * 100
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTick)
	}

	return stats
}

// LogStats emits the window aggregates through slog.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"min_tick_us", s.MinTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"grid_pct", int(s.GridPct*10) / 10.0,
		"flocking_pct", int(s.FlockingPct*10) / 10.0,
		"sort_pct", int(s.SortPct*10) / 10.0,
		"avg_updated", int(s.AvgUpdated),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd   int32   `csv:"window_end"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	GridPct     float64 `csv:"grid_pct"`
	FlockingPct float64 `csv:"flocking_pct"`
	SortPct     float64 `csv:"sort_pct"`
	AvgUpdated  float64 `csv:"avg_updated"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FPS         float64 `csv:"fps"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgTickUS:   s.AvgTick.Microseconds(),
		MinTickUS:   s.MinTick.Microseconds(),
		MaxTickUS:   s.MaxTick.Microseconds(),
		GridPct:     s.GridPct,
		FlockingPct: s.FlockingPct,
		SortPct:     s.SortPct,
		AvgUpdated:  s.AvgUpdated,
		TicksPerSec: s.TicksPerSecond,
		FPS:         s.FPS,
	}
}
