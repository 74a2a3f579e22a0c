package arena

import (
	"math"

	"github.com/teslashibe/go-turret/pkg/geom"
)

// Motion scripts the target's position over simulated time.
type Motion interface {
	Position(t float64) geom.Vec2
}

// Stationary holds still.
type Stationary struct {
	At geom.Vec2
}

func (m Stationary) Position(float64) geom.Vec2 { return m.At }

// Linear moves at constant velocity.
type Linear struct {
	Origin   geom.Vec2
	Velocity geom.Vec2
}

func (m Linear) Position(t float64) geom.Vec2 {
	return m.Origin.Add(m.Velocity.Scale(t))
}

// Circle orbits a center at constant angular speed, so the target
// accelerates centripetally the whole time.
type Circle struct {
	Center       geom.Vec2
	Radius       float64
	AngularSpeed float64 // rad/s
	Phase        float64
}

func (m Circle) Position(t float64) geom.Vec2 {
	return m.Center.Add(geom.FromAngle(m.Phase+m.AngularSpeed*t, m.Radius))
}

// Weave drifts at constant velocity while oscillating sideways.
type Weave struct {
	Origin    geom.Vec2
	Velocity  geom.Vec2
	Amplitude float64 // m
	Period    float64 // s
}

func (m Weave) Position(t float64) geom.Vec2 {
	base := m.Origin.Add(m.Velocity.Scale(t))
	if m.Period <= 0 || m.Velocity.IsZero() {
		return base
	}
	side := geom.FromAngle(m.Velocity.Angle()+math.Pi/2, 1)
	return base.Add(side.Scale(m.Amplitude * math.Sin(2*math.Pi*t/m.Period)))
}
