package vec3

import (
	"math"
	"math/rand"
	"testing"
)

func approxEq(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestDivByZeroIsNoOp(t *testing.T) {
	v := New(1, 2, 3)
	got := v.Div(0)
	if got != v {
		t.Errorf("Div(0) = %v, want unchanged %v", got, v)
	}
}

func TestNormalized(t *testing.T) {
	v := New(3, 0, 4)
	n := v.Normalized()
	if !approxEq(n.Mag(), 1, 1e-6) {
		t.Errorf("normalized magnitude = %v, want 1", n.Mag())
	}

	// Zero vector stays zero rather than dividing by zero
	zero := Vec3{}
	if zero.Normalized() != zero {
		t.Errorf("Normalized of zero vector = %v, want zero", zero.Normalized())
	}
}

func TestLimit(t *testing.T) {
	t.Run("over cap rescales to exactly cap", func(t *testing.T) {
		v := New(3, 4, 0) // magnitude 5
		got := v.Limit(2)
		if !approxEq(got.Mag(), 2, 1e-5) {
			t.Errorf("limited magnitude = %v, want 2", got.Mag())
		}
		// Direction preserved
		if got.X <= 0 || got.Y <= 0 {
			t.Errorf("limit flipped direction: %v", got)
		}
	})

	t.Run("under cap unchanged", func(t *testing.T) {
		v := New(1, 0, 0)
		if got := v.Limit(2); got != v {
			t.Errorf("Limit(2) = %v, want unchanged %v", got, v)
		}
	})
}

func TestWithMag(t *testing.T) {
	v := New(0, 5, 0)
	got := v.WithMag(3)
	if !approxEq(got.Mag(), 3, 1e-5) {
		t.Errorf("WithMag(3) magnitude = %v, want 3", got.Mag())
	}

	// Zero in, zero out regardless of requested magnitude
	zero := Vec3{}
	if got := zero.WithMag(10); got != zero {
		t.Errorf("WithMag on zero vector = %v, want zero", got)
	}
}

func TestDist(t *testing.T) {
	a := New(0, 0, 0)
	b := New(1, 2, 2)
	if !approxEq(a.Dist(b), 3, 1e-6) {
		t.Errorf("Dist = %v, want 3", a.Dist(b))
	}
	if !approxEq(a.DistSq(b), 9, 1e-6) {
		t.Errorf("DistSq = %v, want 9", a.DistSq(b))
	}
}

func TestLerpConverges(t *testing.T) {
	pos := New(0, 0, 0)
	target := New(100, -50, 25)

	prev := pos.Dist(target)
	for i := 0; i < 200; i++ {
		pos = pos.Lerp(target, 0.05)
		d := pos.Dist(target)
		if d > prev+1e-4 {
			t.Fatalf("step %d: distance grew from %v to %v", i, prev, d)
		}
		prev = d
	}
	if prev > 0.01 {
		t.Errorf("after 200 steps distance = %v, want near zero", prev)
	}
}

func TestRandom3DIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := Random3D(rng)
		if !approxEq(v.Mag(), 1, 1e-5) {
			t.Fatalf("sample %d: magnitude = %v, want 1", i, v.Mag())
		}
	}
}

// TestRandom3DPolarBias pins down that the spherical-angle sampling is NOT
// surface-uniform: |Z| > cos(pi/4) covers half the phi range but only
// ~29% of a uniform sphere's area, so seeing it ~50% of the time is the
// documented pole bias. If this test ever needs changing, flock launch
// behavior changed with it.
func TestRandom3DPolarBias(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const samples = 20000

	polar := 0
	threshold := float32(math.Cos(math.Pi / 4))
	for i := 0; i < samples; i++ {
		v := Random3D(rng)
		z := v.Z
		if z < 0 {
			z = -z
		}
		if z > threshold {
			polar++
		}
	}

	frac := float64(polar) / samples
	if frac < 0.45 || frac > 0.55 {
		t.Errorf("polar fraction = %.3f, expected ~0.50 from angle-uniform sampling", frac)
	}
}
