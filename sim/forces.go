package sim

import (
	"math"

	"github.com/pthm-cable/murmur/vec3"
)

const (
	// leaderWeight scales the seek steering toward the nearer leader.
	leaderWeight = 0.5

	// minDistSq rejects near-coincident neighbors whose inverse-square
	// separation term would explode.
	minDistSq = 0.001
)

// SeparationWeight returns the oscillating separation strength at phase t.
// The flock "breathes": weight swings between 0.8 and 1.4 as t advances.
func SeparationWeight(t float32) float32 {
	return 1.1 + float32(math.Sin(float64(t)))*0.3
}

// Separate returns the steering force pushing particle idx away from
// neighbors inside the perception radius, weighted by inverse squared
// distance. Zero when no neighbor contributes.
func Separate(particles []Particle, idx int, neighbors []int32, perception float32) vec3.Vec3 {
	p := &particles[idx]
	perceptionSq := perception * perception

	var steering vec3.Vec3
	total := 0
	for _, n := range neighbors {
		if int(n) == idx {
			continue
		}
		other := &particles[n]
		distSq := p.Pos.DistSq(other.Pos)
		if distSq < perceptionSq && distSq > minDistSq {
			steering = steering.Add(p.Pos.Sub(other.Pos).Div(distSq))
			total++
		}
	}
	if total == 0 {
		return vec3.Vec3{}
	}
	steering = steering.Div(float32(total)).WithMag(p.MaxSpeed)
	return steering.Sub(p.Vel).Limit(p.MaxForce)
}

// Align returns the steering force matching particle idx's velocity to the
// average of its contributing neighbors. Zero when no neighbor contributes.
func Align(particles []Particle, idx int, neighbors []int32, perception float32) vec3.Vec3 {
	p := &particles[idx]
	perceptionSq := perception * perception

	var steering vec3.Vec3
	total := 0
	for _, n := range neighbors {
		if int(n) == idx {
			continue
		}
		other := &particles[n]
		distSq := p.Pos.DistSq(other.Pos)
		if distSq < perceptionSq && distSq > minDistSq {
			steering = steering.Add(other.Vel)
			total++
		}
	}
	if total == 0 {
		return vec3.Vec3{}
	}
	steering = steering.Div(float32(total)).WithMag(p.MaxSpeed)
	return steering.Sub(p.Vel).Limit(p.MaxForce)
}

// Cohere returns the steering force pulling particle idx toward the
// centroid of its contributing neighbors. Zero when no neighbor contributes.
func Cohere(particles []Particle, idx int, neighbors []int32, perception float32) vec3.Vec3 {
	p := &particles[idx]
	perceptionSq := perception * perception

	var steering vec3.Vec3
	total := 0
	for _, n := range neighbors {
		if int(n) == idx {
			continue
		}
		other := &particles[n]
		distSq := p.Pos.DistSq(other.Pos)
		if distSq < perceptionSq && distSq > minDistSq {
			steering = steering.Add(other.Pos)
			total++
		}
	}
	if total == 0 {
		return vec3.Vec3{}
	}
	steering = steering.Div(float32(total)).Sub(p.Pos).WithMag(p.MaxSpeed)
	return steering.Sub(p.Vel).Limit(p.MaxForce)
}

// Seek returns the steering force toward a target: desired velocity at full
// speed minus current velocity, clamped to MaxForce.
func Seek(p *Particle, target vec3.Vec3) vec3.Vec3 {
	desired := target.Sub(p.Pos).WithMag(p.MaxSpeed)
	return desired.Sub(p.Vel).Limit(p.MaxForce)
}

// Flock accumulates all four steering forces into particle idx's
// acceleration in a single pass over the (possibly stale) cached neighbor
// set: separation scaled by sepWeight, alignment and cohesion at unit
// weight, and a half-weight seek toward whichever leader is nearer.
func Flock(particles []Particle, idx int, neighbors []int32, leader1, leader2 vec3.Vec3, perception, sepWeight float32) {
	p := &particles[idx]
	perceptionSq := perception * perception

	var separation, alignment, cohesion vec3.Vec3
	total := 0

	for _, n := range neighbors {
		if int(n) == idx {
			continue
		}
		other := &particles[n]
		distSq := p.Pos.DistSq(other.Pos)
		if distSq < perceptionSq && distSq > minDistSq {
			separation = separation.Add(p.Pos.Sub(other.Pos).Div(distSq))
			alignment = alignment.Add(other.Vel)
			cohesion = cohesion.Add(other.Pos)
			total++
		}
	}

	if total > 0 {
		ft := float32(total)
		separation = separation.Div(ft).WithMag(p.MaxSpeed).
			Sub(p.Vel).Limit(p.MaxForce).Scale(sepWeight)
		alignment = alignment.Div(ft).WithMag(p.MaxSpeed).
			Sub(p.Vel).Limit(p.MaxForce)
		cohesion = cohesion.Div(ft).Sub(p.Pos).WithMag(p.MaxSpeed).
			Sub(p.Vel).Limit(p.MaxForce)
	}

	// Ties go to the second leader.
	leader := leader2
	if p.Pos.DistSq(leader1) < p.Pos.DistSq(leader2) {
		leader = leader1
	}
	attraction := Seek(p, leader).Scale(leaderWeight)

	p.Acc = p.Acc.Add(separation).Add(alignment).Add(cohesion).Add(attraction)
}
