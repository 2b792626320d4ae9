package sim

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum flock size worth fanning out. Below it
// goroutine overhead beats the win.
const parallelThreshold = 64

// workChunk is a contiguous particle range for one worker.
type workChunk struct {
	start, end int
	sepWeight  float32
}

// parallelState runs the force phase across a persistent worker pool. The
// phase is safe to split by particle range: the grid is read-only during
// it, each cache entry is written only by the worker owning its particle,
// and Flock writes nothing but the particle's own acceleration.
// Integration still happens serially afterward so force computation reads
// a consistent snapshot of positions and velocities.
type parallelState struct {
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState(workers int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallelState{numWorkers: workers}
}

// start launches the persistent workers.
func (p *parallelState) start(s *Simulation) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s)
	}
}

// stop signals all workers to exit and waits for them.
func (p *parallelState) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker processes chunks until stopped.
func (p *parallelState) worker(s *Simulation) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.forceChunk(chunk.start, chunk.end, chunk.sepWeight)
			p.doneChan <- struct{}{}
		}
	}
}

// stepParallel computes forces across the pool, then integrates serially.
// The frame budget does not apply here: chunks always run to completion.
// Returns the number of particles updated (always the full flock).
func (s *Simulation) stepParallel(sepWeight float32) int {
	if !s.par.running {
		s.par.start(s)
	}

	n := len(s.particles)
	chunkSize := (n + s.par.numWorkers - 1) / s.par.numWorkers

	dispatched := 0
	for w := 0; w < s.par.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		s.par.workChan <- workChunk{start: start, end: end, sepWeight: sepWeight}
		dispatched++
	}

	// Barrier: forces must be complete everywhere before anything moves.
	for i := 0; i < dispatched; i++ {
		<-s.par.doneChan
	}

	for i := range s.particles {
		s.particles[i].Integrate()
		s.particles[i].Wrap(s.params.WorldW, s.params.WorldH, s.params.WorldD)
	}

	return n
}

// forceChunk refreshes caches and accumulates forces for one particle
// range. Safe to run concurrently with other ranges.
func (s *Simulation) forceChunk(start, end int, sepWeight float32) {
	for i := start; i < end; i++ {
		if s.cache.needsRefresh(i, s.frame) {
			s.cache.refresh(i, s.frame, s.grid, s.particles, s.params.PerceptionRadius)
		}
		Flock(s.particles, i, s.cache.neighbors(i),
			s.leaders.P1, s.leaders.P2,
			s.params.PerceptionRadius, sepWeight)
	}
}
