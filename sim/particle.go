// Package sim implements the flocking core: particles, the uniform spatial
// grid, the per-particle neighbor cache, and the step driver that ties them
// together each frame.
package sim

import (
	"math/rand"

	"github.com/pthm-cable/murmur/vec3"
)

// Particle is one member of the flock. Particles live in a dense slice and
// are identified by their index in it; the grid and neighbor cache store
// those indices.
type Particle struct {
	Pos vec3.Vec3
	Vel vec3.Vec3
	Acc vec3.Vec3 // steering accumulator, cleared by Integrate

	MaxSpeed float32
	MaxForce float32
}

// NewParticle creates a particle at the given position with a random launch
// direction.
func NewParticle(pos vec3.Vec3, rng *rand.Rand, maxSpeed, maxForce, launchSpeed float32) Particle {
	return Particle{
		Pos:      pos,
		Vel:      vec3.Random3D(rng).Scale(launchSpeed),
		MaxSpeed: maxSpeed,
		MaxForce: maxForce,
	}
}

// Integrate applies the accumulated acceleration and advances the position.
// Velocity is clamped to MaxSpeed; the accumulator resets to zero.
func (p *Particle) Integrate() {
	p.Vel = p.Vel.Add(p.Acc).Limit(p.MaxSpeed)
	p.Pos = p.Pos.Add(p.Vel)
	p.Acc = vec3.Vec3{}
}

// Wrap teleports the particle to the opposite face when it crosses a world
// boundary. Positions past the upper bound snap to 0 and vice versa.
func (p *Particle) Wrap(width, height, depth float32) {
	if p.Pos.X > width {
		p.Pos.X = 0
	} else if p.Pos.X < 0 {
		p.Pos.X = width
	}
	if p.Pos.Y > height {
		p.Pos.Y = 0
	} else if p.Pos.Y < 0 {
		p.Pos.Y = height
	}
	if p.Pos.Z > depth {
		p.Pos.Z = 0
	} else if p.Pos.Z < 0 {
		p.Pos.Z = depth
	}
}
