package sim

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/pthm-cable/murmur/vec3"
)

// Params carries every tunable the core needs. The game layer maps the
// loaded config onto this; tests construct it directly.
type Params struct {
	WorldW, WorldH, WorldD float32

	NumParticles     int
	PerceptionRadius float32
	MaxSpeed         float32
	MaxForce         float32
	LaunchSpeed      float32
	SeparationOsc    float32 // separation phase advance per frame

	CellSize           float32 // grid cell edge; must cover PerceptionRadius
	GridUpdateInterval int32   // rebuild cadence in frames

	CacheLifetime int32
	Staggered     bool
	MaxNeighbors  int // query capacity K

	SortInterval int32         // depth resort cadence (0 = never)
	FrameBudget  time.Duration // per-frame wall budget (0 = none)

	OrbitRadius         float32
	OrbitSpeed          float32
	LeaderInterpolation float32

	Workers int // force-phase workers (0 or 1 = serial)
}

// FrameInput carries per-tick host state into the step driver.
type FrameInput struct {
	Cursor       vec3.Vec3
	FollowCursor bool
}

// PhaseTimings reports where one Step spent its time, for the telemetry
// layer. Updated counts particles actually advanced this frame; it falls
// short of the population only when the frame budget triggers.
type PhaseTimings struct {
	Grid     time.Duration
	Flocking time.Duration
	Sort     time.Duration
	Updated  int
}

// Simulation owns the whole flock state: the particle slice, the spatial
// grid, the neighbor cache, and the leaders. One Step call advances one
// frame to completion; nothing here is safe for concurrent use except as
// arranged internally by the parallel force phase.
type Simulation struct {
	params    Params
	particles []Particle
	grid      *Grid
	cache     *neighborCache
	leaders   *Leaders

	frame    int32
	sepPhase float32

	par *parallelState
}

// NewSimulation builds a simulation from params, spawning particles at
// random positions inside the world volume.
func NewSimulation(params Params, rng *rand.Rand) (*Simulation, error) {
	if params.NumParticles <= 0 {
		return nil, fmt.Errorf("sim: particle count must be positive, got %d", params.NumParticles)
	}
	if params.CellSize < params.PerceptionRadius {
		// Queries only scan adjacent cells; a smaller cell silently drops
		// true neighbors.
		return nil, fmt.Errorf("sim: cell size %.1f is below perception radius %.1f",
			params.CellSize, params.PerceptionRadius)
	}
	if params.GridUpdateInterval < 1 {
		params.GridUpdateInterval = 1
	}
	if params.CacheLifetime < 1 {
		params.CacheLifetime = 1
	}
	if params.MaxNeighbors < 1 {
		return nil, fmt.Errorf("sim: neighbor capacity must be positive, got %d", params.MaxNeighbors)
	}

	s := &Simulation{
		params:    params,
		particles: make([]Particle, params.NumParticles),
		grid: NewGrid(params.WorldW, params.WorldH, params.WorldD,
			params.CellSize, params.NumParticles),
		cache: newNeighborCache(params.NumParticles, params.MaxNeighbors,
			params.CacheLifetime, params.Staggered),
		leaders: NewLeaders(params.WorldW, params.WorldH, params.WorldD,
			params.OrbitRadius, params.OrbitSpeed, params.LeaderInterpolation),
	}

	for i := range s.particles {
		pos := vec3.New(
			rng.Float32()*params.WorldW,
			rng.Float32()*params.WorldH,
			rng.Float32()*params.WorldD,
		)
		s.particles[i] = NewParticle(pos, rng,
			params.MaxSpeed, params.MaxForce, params.LaunchSpeed)
	}

	if params.Workers > 1 {
		s.par = newParallelState(params.Workers)
	}

	return s, nil
}

// Particles exposes the live particle slice for the renderer. The slice is
// mutated by Step; callers must not read it while a Step is in flight.
func (s *Simulation) Particles() []Particle { return s.particles }

// LeaderPositions returns the two smoothed leader positions.
func (s *Simulation) LeaderPositions() (vec3.Vec3, vec3.Vec3) {
	return s.leaders.P1, s.leaders.P2
}

// Frame returns the number of completed steps.
func (s *Simulation) Frame() int32 { return s.frame }

// NeighborCount returns the size of particle i's cached neighbor set.
func (s *Simulation) NeighborCount(i int) int {
	return len(s.cache.neighbors(i))
}

// FrameCached returns the frame at which particle i's cache was last
// refreshed.
func (s *Simulation) FrameCached(i int) int32 {
	return s.cache.frame(i)
}

// Close releases the parallel workers, if any.
func (s *Simulation) Close() {
	if s.par != nil {
		s.par.stop()
	}
}

// Step advances the flock one frame: leaders move and smooth, the grid
// rebuilds on its cadence, each particle refreshes its neighbor cache per
// policy and accumulates flocking forces, then integrates and wraps.
// Optionally the slice is resorted by depth for painter's-algorithm
// rendering.
func (s *Simulation) Step(in FrameInput) PhaseTimings {
	frameStart := time.Now()
	var t PhaseTimings

	s.sepPhase += s.params.SeparationOsc
	sepWeight := SeparationWeight(s.sepPhase)

	s.leaders.Advance(in.Cursor, in.FollowCursor)

	phaseStart := time.Now()
	if s.frame%s.params.GridUpdateInterval == 0 {
		s.grid.Rebuild(s.particles)
	}
	t.Grid = time.Since(phaseStart)

	phaseStart = time.Now()
	if s.par != nil && len(s.particles) >= parallelThreshold {
		t.Updated = s.stepParallel(sepWeight)
	} else {
		t.Updated = s.stepSerial(frameStart, sepWeight)
	}
	t.Flocking = time.Since(phaseStart)

	s.frame++

	if s.params.SortInterval > 0 && s.frame%s.params.SortInterval == 0 {
		phaseStart = time.Now()
		s.sortByDepth()
		t.Sort = time.Since(phaseStart)
	}

	return t
}

// stepSerial runs the per-particle loop on one goroutine, honoring the
// frame budget: once more than half the flock is updated and the budget is
// exhausted, the rest keep last frame's state. That sheds load gracefully
// instead of stalling the renderer.
func (s *Simulation) stepSerial(frameStart time.Time, sepWeight float32) int {
	updated := 0
	half := len(s.particles) / 2

	for i := range s.particles {
		if s.params.FrameBudget > 0 && updated > half &&
			time.Since(frameStart) > s.params.FrameBudget {
			break
		}

		if s.cache.needsRefresh(i, s.frame) {
			s.cache.refresh(i, s.frame, s.grid, s.particles, s.params.PerceptionRadius)
		}

		Flock(s.particles, i, s.cache.neighbors(i),
			s.leaders.P1, s.leaders.P2,
			s.params.PerceptionRadius, sepWeight)
		s.particles[i].Integrate()
		s.particles[i].Wrap(s.params.WorldW, s.params.WorldH, s.params.WorldD)
		updated++
	}

	return updated
}

// sortByDepth reorders particles back-to-front for the renderer. Indices
// held by the grid and cache refer to the old order until their next
// rebuild/refresh; with the default one-frame grid cadence and short cache
// lifetime that staleness is bounded and tolerated.
func (s *Simulation) sortByDepth() {
	sort.Slice(s.particles, func(i, j int) bool {
		return s.particles[i].Pos.Z > s.particles[j].Pos.Z
	})
}
