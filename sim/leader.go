package sim

import (
	"math"

	"github.com/pthm-cable/murmur/vec3"
)

// zWobble is the depth-axis amplitude of the leader orbit.
const zWobble = 100.0

// Leaders drives the two seek targets the flock chases. Each frame the
// targets either orbit the world center at opposite phases or snap to the
// cursor, and the published positions low-pass toward them so direction
// changes stay smooth.
type Leaders struct {
	// P1 and P2 are the smoothed positions the force model reads.
	P1, P2 vec3.Vec3

	target1, target2 vec3.Vec3
	angle            float32

	center        vec3.Vec3
	orbitRadius   float32
	orbitSpeed    float32
	interpolation float32
}

// NewLeaders creates both leaders at the world center.
func NewLeaders(width, height, depth, orbitRadius, orbitSpeed, interpolation float32) *Leaders {
	center := vec3.New(width/2, height/2, depth/2)
	return &Leaders{
		P1:            center,
		P2:            center,
		target1:       center,
		target2:       center,
		center:        center,
		orbitRadius:   orbitRadius,
		orbitSpeed:    orbitSpeed,
		interpolation: interpolation,
	}
}

// Advance moves the targets one frame and smooths the published positions
// toward them. With follow set, both targets sit on the cursor; otherwise
// they orbit the center 180 degrees apart with a slow depth wobble.
func (l *Leaders) Advance(cursor vec3.Vec3, follow bool) {
	if follow {
		l.target1 = cursor
		l.target2 = cursor
	} else {
		l.angle += l.orbitSpeed
		a := float64(l.angle)
		l.target1 = vec3.New(
			l.center.X+float32(math.Cos(a))*l.orbitRadius,
			l.center.Y+float32(math.Sin(a))*l.orbitRadius*0.7,
			l.center.Z+float32(math.Sin(a*1.5))*zWobble,
		)
		l.target2 = vec3.New(
			l.center.X+float32(math.Cos(a+math.Pi))*l.orbitRadius,
			l.center.Y+float32(math.Sin(a+math.Pi))*l.orbitRadius*0.7,
			l.center.Z+float32(math.Cos(a*1.5))*zWobble,
		)
	}

	l.P1 = l.P1.Lerp(l.target1, l.interpolation)
	l.P2 = l.P2.Lerp(l.target2, l.interpolation)
}
