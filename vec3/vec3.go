// Package vec3 provides value-type 3D vector math for the simulation core.
package vec3

import (
	"math"
	"math/rand"
)

// Vec3 is a 3D vector. Plain value type; copy freely.
type Vec3 struct {
	X, Y, Z float32
}

// New creates a vector from its components.
func New(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by n.
func (v Vec3) Scale(n float32) Vec3 {
	return Vec3{v.X * n, v.Y * n, v.Z * n}
}

// Div returns v divided by n. Division by zero is a no-op: v is returned
// unchanged rather than producing Inf/NaN components.
func (v Vec3) Div(n float32) Vec3 {
	if n == 0 {
		return v
	}
	return Vec3{v.X / n, v.Y / n, v.Z / n}
}

// Mag returns the magnitude of v.
func (v Vec3) Mag() float32 {
	return float32(math.Sqrt(float64(v.MagSq())))
}

// MagSq returns the squared magnitude of v. Prefer this on hot paths.
func (v Vec3) MagSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalized() Vec3 {
	m := v.Mag()
	if m > 0 {
		return v.Div(m)
	}
	return v
}

// Limit clamps v to at most the given magnitude. Vectors already within
// the cap are returned unchanged; longer ones are rescaled to exactly max.
func (v Vec3) Limit(max float32) Vec3 {
	if v.Mag() > max {
		return v.Normalized().Scale(max)
	}
	return v
}

// WithMag returns v rescaled to the given magnitude. The zero vector stays
// zero regardless of mag.
func (v Vec3) WithMag(mag float32) Vec3 {
	return v.Normalized().Scale(mag)
}

// Dist returns the Euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float32 {
	return float32(math.Sqrt(float64(v.DistSq(o))))
}

// DistSq returns the squared distance between v and o.
func (v Vec3) DistSq(o Vec3) float32 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return dx*dx + dy*dy + dz*dz
}

// Lerp moves v toward target by fraction t and returns the result.
func (v Vec3) Lerp(target Vec3, t float32) Vec3 {
	return Vec3{
		v.X + (target.X-v.X)*t,
		v.Y + (target.Y-v.Y)*t,
		v.Z + (target.Z-v.Z)*t,
	}
}

// Random3D returns a unit direction drawn from uniform spherical angles
// (theta in [0,2pi), phi in [0,pi]). This sampling is denser near the
// poles than a surface-uniform draw; the flock launch directions depend
// on it, so it is kept rather than corrected.
func Random3D(rng *rand.Rand) Vec3 {
	theta := rng.Float64() * 2 * math.Pi
	phi := rng.Float64() * math.Pi
	sinPhi := math.Sin(phi)
	return Vec3{
		X: float32(sinPhi * math.Cos(theta)),
		Y: float32(sinPhi * math.Sin(theta)),
		Z: float32(math.Cos(phi)),
	}
}
