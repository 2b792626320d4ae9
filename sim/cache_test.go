package sim

import (
	"testing"
)

// testGridAndParticles builds a small clustered flock with every particle
// inside one query radius of the others.
func testGridAndParticles(n int) (*Grid, []Particle) {
	particles := make([]Particle, n)
	for i := range particles {
		particles[i] = particleAt(50+float32(i), 50, 50)
	}
	g := NewGrid(200, 200, 200, 100, n)
	g.Rebuild(particles)
	return g, particles
}

func TestStaggeredColdStartRefreshesEveryone(t *testing.T) {
	const n, lifetime = 8, 4
	g, particles := testGridAndParticles(n)
	c := newNeighborCache(n, 10, lifetime, true)

	// Frame 0: group 0 refreshes on schedule, everyone else via cold start.
	for i := 0; i < n; i++ {
		if !c.needsRefresh(i, 0) {
			t.Fatalf("particle %d not refreshed at frame 0 (cold start)", i)
		}
		c.refresh(i, 0, g, particles, 50)
	}

	for i := 0; i < n; i++ {
		if len(c.neighbors(i)) == 0 {
			t.Errorf("particle %d has empty cache after cold start", i)
		}
	}
}

func TestStaggeredRefreshSchedule(t *testing.T) {
	const n, lifetime = 9, 3
	c := newNeighborCache(n, 10, lifetime, true)

	// Past the cold-start window, exactly one group refreshes per frame.
	for frame := int32(lifetime); frame < lifetime*3; frame++ {
		for i := 0; i < n; i++ {
			want := int32(i)%lifetime == frame%lifetime
			if got := c.needsRefresh(i, frame); got != want {
				t.Errorf("frame %d particle %d: needsRefresh = %v, want %v", frame, i, got, want)
			}
		}
	}
}

func TestStaggeredCoverageWindow(t *testing.T) {
	const n, lifetime = 10, 2
	g, particles := testGridAndParticles(n)
	c := newNeighborCache(n, 10, lifetime, true)

	// Simulate lifetime frames; every particle must refresh at least once
	// in any lifetime-wide window.
	windowStart := int32(lifetime) // skip the cold-start frames
	for frame := int32(0); frame < windowStart+lifetime; frame++ {
		for i := 0; i < n; i++ {
			if c.needsRefresh(i, frame) {
				c.refresh(i, frame, g, particles, 50)
			}
		}
	}

	for i := 0; i < n; i++ {
		if c.frame(i) < windowStart {
			t.Errorf("particle %d last refreshed at frame %d, want >= %d", i, c.frame(i), windowStart)
		}
	}
}

func TestPeriodicRefreshByAge(t *testing.T) {
	const n, lifetime = 4, 3
	g, particles := testGridAndParticles(n)
	c := newNeighborCache(n, 10, lifetime, false)

	// Entries start at age zero; nothing refreshes until they age out.
	for frame := int32(0); frame < lifetime; frame++ {
		for i := 0; i < n; i++ {
			if c.needsRefresh(i, frame) {
				t.Fatalf("particle %d refreshed at frame %d before lifetime elapsed", i, frame)
			}
		}
	}

	// At frame == lifetime every entry is stale.
	for i := 0; i < n; i++ {
		if !c.needsRefresh(i, lifetime) {
			t.Fatalf("particle %d not stale at frame %d", i, lifetime)
		}
		c.refresh(i, lifetime, g, particles, 50)
	}

	// Fresh entries hold for another lifetime frames.
	for frame := int32(lifetime + 1); frame < 2*lifetime; frame++ {
		for i := 0; i < n; i++ {
			if c.needsRefresh(i, frame) {
				t.Fatalf("particle %d stale again at frame %d right after refresh", i, frame)
			}
		}
	}
}

func TestCacheEntriesDoNotBleed(t *testing.T) {
	const n = 3
	g, particles := testGridAndParticles(n)
	c := newNeighborCache(n, 2, 1, true) // tiny capacity forces truncation

	for i := 0; i < n; i++ {
		c.refresh(i, 0, g, particles, 50)
	}

	// Every entry is capped at its own capacity; refreshing one entry must
	// not disturb another's contents.
	before := append([]int32(nil), c.neighbors(0)...)
	c.refresh(1, 1, g, particles, 50)
	after := c.neighbors(0)

	if len(after) != len(before) {
		t.Fatalf("entry 0 length changed from %d to %d after refreshing entry 1", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("entry 0 contents changed after refreshing entry 1")
			break
		}
	}
	if len(c.neighbors(1)) > 2 {
		t.Errorf("entry 1 exceeded its capacity: %d", len(c.neighbors(1)))
	}
}
