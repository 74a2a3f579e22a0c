package ballistics

import "github.com/teslashibe/go-turret/pkg/geom"

// Lead extrapolates a target linearly over flight time t: pos + vel·t.
func Lead(pos, vel geom.Vec2, t float64) geom.Vec2 {
	return pos.Add(vel.Scale(t))
}

// Correct adds the constant-acceleration term to a lead point:
// lead + ½·accel·t².
//
// This is one pass. The intercept is not re-solved against the corrected
// point, so a hard-maneuvering target leaves residual error.
func Correct(lead, accel geom.Vec2, t float64) geom.Vec2 {
	return lead.Add(accel.Scale(0.5 * t * t))
}

// BlendAccel mixes the measured acceleration with its one-tick-ahead
// prediction: (1−w)·measured + w·predicted. w is clamped to [0, 1].
func BlendAccel(measured, predicted geom.Vec2, w float64) geom.Vec2 {
	switch {
	case w <= 0:
		return measured
	case w >= 1:
		return predicted
	}
	return measured.Lerp(predicted, w)
}

// AimPoint is the outcome of one lead computation.
type AimPoint struct {
	FlightTime float64   `json:"flight_time"`
	Solved     bool      `json:"solved"`
	Lead       geom.Vec2 `json:"lead"`
	Corrected  geom.Vec2 `json:"corrected"`
}

// Aim solves the intercept for a target relative to the shooter and returns
// both the linear lead and the acceleration-corrected point. Without a
// solution both points are the target's current position.
func Aim(selfPos, selfVel, targetPos, targetVel, targetAccel geom.Vec2, speed float64) AimPoint {
	t, ok := SolveFrom(selfPos, selfVel, targetPos, targetVel, speed)
	if !ok {
		return AimPoint{Lead: targetPos, Corrected: targetPos}
	}
	// Lead uses the relative velocity: the projectile inherits the shooter's
	// velocity, so only the target's motion relative to us needs leading.
	lead := Lead(targetPos, targetVel.Sub(selfVel), t)
	return AimPoint{
		FlightTime: t,
		Solved:     true,
		Lead:       lead,
		Corrected:  Correct(lead, targetAccel, t),
	}
}
