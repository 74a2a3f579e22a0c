// Package kinematics derives target velocity, acceleration and jerk from
// consecutive position samples by backward finite differences.
//
// No filtering is applied. Observation noise propagates into every order and
// is amplified by 1/dt at each differentiation, so jerk in particular is
// high-variance and callers must tolerate that.
package kinematics

import "github.com/teslashibe/go-turret/pkg/geom"

// Estimate is the kinematic state of an observed point after one sample.
type Estimate struct {
	Position     geom.Vec2 `json:"position"`
	Velocity     geom.Vec2 `json:"velocity"`
	Acceleration geom.Vec2 `json:"acceleration"`
	Jerk         geom.Vec2 `json:"jerk"`
}

// Prediction is the one-tick-ahead extrapolation of an Estimate. It is
// telemetry only: the next sample's differenced values always replace it.
type Prediction struct {
	Acceleration geom.Vec2 `json:"acceleration"`
	Velocity     geom.Vec2 `json:"velocity"`
}

// Differencer holds the previous sample of each derivative order.
//
// The zero value is ready to use. Each order seeds itself on its first
// input: the first sample yields zero derivatives, velocity appears on
// the second sample and acceleration on the third. The seeding avoids the
// spurious spike a zero-initialized history would produce.
type Differencer struct {
	PrevPosition geom.Vec2 `json:"prev_position"`
	PrevVelocity geom.Vec2 `json:"prev_velocity"`
	PrevAccel    geom.Vec2 `json:"prev_accel"`

	// Seeded is the number of orders holding a real previous value
	// (0 = nothing yet, 1 = position, 2 = +velocity, 3 = +acceleration).
	Seeded int `json:"seeded"`

	last Estimate
}

// Update differences pos against the stored history and stores the new
// values as the next previous ones. A non-positive or non-finite dt, or a
// non-finite position, is ignored and the last estimate is returned.
func (d *Differencer) Update(pos geom.Vec2, dt float64) Estimate {
	if !pos.IsFinite() || !geom.IsFinite(dt) || (dt <= 0 && d.Seeded > 0) {
		return d.last
	}

	est := Estimate{Position: pos}

	if d.Seeded >= 1 {
		est.Velocity = pos.Sub(d.PrevPosition).Scale(1 / dt)
	}
	if d.Seeded >= 2 {
		est.Acceleration = est.Velocity.Sub(d.PrevVelocity).Scale(1 / dt)
	}
	if d.Seeded >= 3 {
		est.Jerk = est.Acceleration.Sub(d.PrevAccel).Scale(1 / dt)
	}

	// Store only after every order has read its previous value
	d.PrevPosition = pos
	d.PrevVelocity = est.Velocity
	d.PrevAccel = est.Acceleration
	if d.Seeded < 3 {
		d.Seeded++
	}

	d.last = est
	return est
}

// Last returns the most recent estimate.
func (d *Differencer) Last() Estimate {
	return d.last
}

// Reset forgets all history.
func (d *Differencer) Reset() {
	*d = Differencer{}
}

// Predict extrapolates est one step of length dt ahead:
// accel' = a + j·dt, vel' = v + accel'·dt.
func Predict(est Estimate, dt float64) Prediction {
	accel := est.Acceleration.Add(est.Jerk.Scale(dt))
	return Prediction{
		Acceleration: accel,
		Velocity:     est.Velocity.Add(accel.Scale(dt)),
	}
}
