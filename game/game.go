// Package game wires the simulation core to raylib: window input, depth
// shaded rendering, the HUD, and per-window telemetry flushes. It also
// drives the core without raylib in headless mode.
package game

import (
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/pthm-cable/murmur/camera"
	"github.com/pthm-cable/murmur/config"
	"github.com/pthm-cable/murmur/sim"
	"github.com/pthm-cable/murmur/telemetry"
	"github.com/pthm-cable/murmur/vec3"
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	LogStats       bool // structured slog output instead of the text profile block
	OutputDir      string
	StepsPerUpdate int
}

// Game holds the complete application state around one Simulation.
type Game struct {
	cfg *config.Config
	sim *sim.Simulation
	cam *camera.Camera

	collector *telemetry.PerfCollector
	output    *telemetry.OutputManager

	// Input state
	cursor       vec3.Vec3
	followCursor bool
	paused       bool
	showHUD      bool
	debugOverlay bool

	logStats       bool
	stepsPerUpdate int
	profileWindow  int32

	// Scratch buffers for window stats, reused across flushes
	speeds         []float64
	neighborCounts []float64
}

// New creates a game instance from the loaded config.
func New(opts Options) (*Game, error) {
	cfg := config.Cfg()
	rng := rand.New(rand.NewSource(opts.Seed))

	s, err := sim.NewSimulation(paramsFromConfig(cfg), rng)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	n := cfg.Flock.NumParticles
	g := &Game{
		cfg: cfg,
		sim: s,
		cam: camera.New(
			float32(cfg.Screen.Width), float32(cfg.Screen.Height),
			cfg.Derived.WorldW32, cfg.Derived.WorldH32,
		),
		collector:      telemetry.NewPerfCollector(cfg.Telemetry.ProfileWindow),
		output:         output,
		logStats:       opts.LogStats,
		stepsPerUpdate: steps,
		profileWindow:  int32(cfg.Telemetry.ProfileWindow),
		showHUD:        true,
		speeds:         make([]float64, 0, n),
		neighborCounts: make([]float64, 0, n),
		// The cursor starts at the world center, matching the leaders.
		cursor: vec3.New(
			cfg.Derived.WorldW32/2,
			cfg.Derived.WorldH32/2,
			cfg.Derived.WorldD32/2,
		),
	}

	return g, nil
}

// paramsFromConfig maps the loaded config onto core parameters.
func paramsFromConfig(cfg *config.Config) sim.Params {
	workers := 0
	if cfg.Step.Parallel {
		workers = cfg.Step.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
	}
	return sim.Params{
		WorldW:              cfg.Derived.WorldW32,
		WorldH:              cfg.Derived.WorldH32,
		WorldD:              cfg.Derived.WorldD32,
		NumParticles:        cfg.Flock.NumParticles,
		PerceptionRadius:    float32(cfg.Flock.PerceptionRadius),
		MaxSpeed:            float32(cfg.Flock.MaxSpeed),
		MaxForce:            float32(cfg.Flock.MaxForce),
		LaunchSpeed:         float32(cfg.Flock.LaunchSpeed),
		SeparationOsc:       float32(cfg.Flock.SeparationOscSpeed),
		CellSize:            cfg.Derived.CellSize32,
		GridUpdateInterval:  int32(cfg.Grid.UpdateInterval),
		CacheLifetime:       int32(cfg.Cache.Lifetime),
		Staggered:           cfg.Cache.Staggered,
		MaxNeighbors:        cfg.Cache.MaxNeighbors,
		SortInterval:        int32(cfg.Step.SortInterval),
		FrameBudget:         time.Duration(cfg.Step.FrameBudgetMS * float64(time.Millisecond)),
		OrbitRadius:         float32(cfg.Leaders.OrbitRadius),
		OrbitSpeed:          float32(cfg.Leaders.OrbitSpeed),
		LeaderInterpolation: float32(cfg.Leaders.Interpolation),
		Workers:             workers,
	}
}

// Update advances the simulation in graphics mode: input first, then one or
// more steps unless paused.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// UpdateHeadless advances the simulation without touching raylib. Leaders
// stay on their orbit; there is no cursor to follow.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs one tick and feeds the telemetry window.
func (g *Game) step() {
	start := time.Now()
	t := g.sim.Step(sim.FrameInput{
		Cursor:       g.cursor,
		FollowCursor: g.followCursor,
	})

	g.collector.Record(telemetry.Sample{
		Tick:     time.Since(start),
		Grid:     t.Grid,
		Flocking: t.Flocking,
		Sort:     t.Sort,
		Updated:  t.Updated,
	})

	if g.sim.Frame()%g.profileWindow == 0 {
		g.flushWindow()
	}
}

// flushWindow logs and exports the aggregates for the window that just
// ended.
func (g *Game) flushWindow() {
	frame := g.sim.Frame()
	perfStats := g.collector.Stats()
	flockStats := g.computeFlockStats(frame)

	if g.logStats {
		perfStats.LogStats()
		flockStats.LogStats()
	} else {
		g.logPerfProfile(perfStats)
	}

	if err := g.output.WritePerf(perfStats.ToCSV(frame)); err != nil {
		Logf("perf csv write failed: %v", err)
	}
	if err := g.output.WriteFlock(flockStats); err != nil {
		Logf("flock csv write failed: %v", err)
	}
}

// computeFlockStats samples the live flock into the scratch buffers and
// aggregates them.
func (g *Game) computeFlockStats(frame int32) telemetry.FlockStats {
	g.speeds = g.speeds[:0]
	g.neighborCounts = g.neighborCounts[:0]

	particles := g.sim.Particles()
	for i := range particles {
		g.speeds = append(g.speeds, float64(particles[i].Vel.Mag()))
		g.neighborCounts = append(g.neighborCounts, float64(g.sim.NeighborCount(i)))
	}

	return telemetry.ComputeFlockStats(frame, g.speeds, g.neighborCounts)
}

// Tick returns the number of completed simulation frames.
func (g *Game) Tick() int32 {
	return g.sim.Frame()
}

// Unload releases workers and closes telemetry output.
func (g *Game) Unload() {
	g.sim.Close()
	if err := g.output.Close(); err != nil {
		Logf("closing output: %v", err)
	}
}
