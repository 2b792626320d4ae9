package main

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/murmur/sim"
)

func main() {
	p := sim.Params{
		WorldW: 800, WorldH: 600, WorldD: 400,
		NumParticles:     100,
		PerceptionRadius: 50,
		MaxSpeed:         4,
		MaxForce:         0.1,
		LaunchSpeed:      2,
		SeparationOsc:    0.01,
		CellSize:         100, GridUpdateInterval: 1,
		CacheLifetime: 4, Staggered: false, MaxNeighbors: 10,
		OrbitRadius: 250, OrbitSpeed: 0.015, LeaderInterpolation: 0.05,
	}
	s, err := sim.NewSimulation(p, rand.New(rand.NewSource(42)))
	if err != nil {
		panic(err)
	}
	for i := 0; i < 12; i++ {
		s.Step(sim.FrameInput{})
		bad := 0
		for j := 0; j < 100; j++ {
			if s.NeighborCount(j) == 0 {
				bad++
			}
		}
		fmt.Printf("after step %d: %d empty caches; p52 count=%d cachedAt=%d pos=%v\n",
			i+1, bad, s.NeighborCount(52), s.FrameCached(52), s.Particles()[52].Pos)
	}
}
