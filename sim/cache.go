package sim

// cacheEntry holds one particle's cached neighbor set. The neighbors slice
// is a fixed-capacity view into the cache's shared backing array; entries
// never allocate after construction.
type cacheEntry struct {
	neighbors   []int32
	frameCached int32
}

// neighborCache amortizes grid queries by reusing each particle's neighbor
// set for up to lifetime frames. Staleness up to that many frames is the
// price for cutting query volume by the same factor.
type neighborCache struct {
	entries   []cacheEntry
	lifetime  int32
	staggered bool
}

func newNeighborCache(numParticles, capacity int, lifetime int32, staggered bool) *neighborCache {
	backing := make([]int32, numParticles*capacity)
	entries := make([]cacheEntry, numParticles)
	for i := range entries {
		base := i * capacity
		// Three-index slice: appends past capacity cannot spill into the
		// next entry's region.
		entries[i].neighbors = backing[base : base : base+capacity]
	}
	return &neighborCache{
		entries:   entries,
		lifetime:  lifetime,
		staggered: staggered,
	}
}

// needsRefresh reports whether particle i's cached set should be requeried
// at the given frame.
//
// Staggered mode refreshes one particle group per frame (group = index mod
// lifetime), spreading query cost evenly; particles that have never seen a
// refresh are forced during the first lifetime frames so nobody starts the
// run steering on an empty set longer than necessary. Periodic mode simply
// ages each entry independently.
func (c *neighborCache) needsRefresh(i int, frame int32) bool {
	if c.staggered {
		if frame%c.lifetime == int32(i)%c.lifetime {
			return true
		}
		return frame < c.lifetime && len(c.entries[i].neighbors) == 0
	}
	return frame-c.entries[i].frameCached >= c.lifetime
}

// refresh requeries particle i's neighbors from the grid.
func (c *neighborCache) refresh(i int, frame int32, g *Grid, particles []Particle, radius float32) {
	e := &c.entries[i]
	e.neighbors = g.QueryInto(e.neighbors[:0], particles, particles[i].Pos, radius)
	e.frameCached = frame
}

// neighbors returns particle i's cached neighbor set. Valid until the next
// refresh of the same particle.
func (c *neighborCache) neighbors(i int) []int32 {
	return c.entries[i].neighbors
}

// frameCached returns the frame at which particle i was last refreshed.
func (c *neighborCache) frame(i int) int32 {
	return c.entries[i].frameCached
}
