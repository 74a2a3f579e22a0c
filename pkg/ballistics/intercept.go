// Package ballistics solves constant-speed projectile intercepts and applies
// the second-order acceleration correction to the lead point.
package ballistics

import (
	"math"

	"github.com/teslashibe/go-turret/pkg/geom"
)

// degenerateRatio bounds |a| relative to the magnitudes it was formed from.
// Below it the quadratic is treated as linear, which has no reliable root.
const degenerateRatio = 1e-12

// Solve returns the time for a projectile leaving the origin at speed to
// meet a target at relative position dp moving with constant relative
// velocity dv. It solves |dp + dv·t| = speed·t, i.e.
//
//	(|dv|² − speed²)·t² + 2(dv·dp)·t + |dp|² = 0
//
// and returns the smallest strictly positive root.
//
// ok is false when there is no such root: speed is not positive, the
// leading coefficient vanishes, the discriminant is negative, both roots
// are in the past, or any intermediate goes non-finite. Callers must then
// hold fire; aiming at the unled position (flight time 0) is the fallback.
func Solve(dp, dv geom.Vec2, speed float64) (flightTime float64, ok bool) {
	if !(speed > 0) || math.IsInf(speed, 0) || !dp.IsFinite() || !dv.IsFinite() {
		return 0, false
	}

	vv := dv.LengthSq()
	ss := speed * speed
	a := vv - ss
	b := 2 * dv.Dot(dp)
	c := dp.LengthSq()

	if a == 0 || math.Abs(a) < degenerateRatio*(vv+ss) {
		return 0, false
	}

	disc := b*b - 4*a*c
	if disc < 0 || math.IsNaN(disc) || math.IsInf(disc, 0) {
		return 0, false
	}

	// q = -(b + sign(b)·√D)/2 avoids cancellation between -b and √D
	sq := math.Sqrt(disc)
	var q float64
	if b >= 0 {
		q = -0.5 * (b + sq)
	} else {
		q = -0.5 * (b - sq)
	}

	t1 := q / a
	t2 := math.NaN()
	if q != 0 {
		t2 = c / q
	}

	best, found := 0.0, false
	for _, root := range [2]float64{t1, t2} {
		if !geom.IsFinite(root) || root <= 0 {
			continue
		}
		if !found || root < best {
			best, found = root, true
		}
	}
	return best, found
}

// SolveFrom is Solve expressed in absolute coordinates.
func SolveFrom(selfPos, selfVel, targetPos, targetVel geom.Vec2, speed float64) (float64, bool) {
	return Solve(targetPos.Sub(selfPos), targetVel.Sub(selfVel), speed)
}
