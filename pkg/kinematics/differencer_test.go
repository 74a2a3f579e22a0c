package kinematics

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-turret/pkg/geom"
)

const tol = 1e-6

func assertVec(t *testing.T, want, got geom.Vec2, msg string) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "%s (x)", msg)
	assert.InDelta(t, want.Y, got.Y, tol, "%s (y)", msg)
}

func TestDifferencer_FirstSampleIsZero(t *testing.T) {
	var d Differencer
	est := d.Update(geom.V(1000, -250), 1.0/60)

	assert.Equal(t, geom.V(1000, -250), est.Position)
	assert.True(t, est.Velocity.IsZero())
	assert.True(t, est.Acceleration.IsZero())
	assert.True(t, est.Jerk.IsZero())
	assert.Equal(t, 1, d.Seeded)
}

func TestDifferencer_ConstantVelocity(t *testing.T) {
	for _, dt := range []float64{1.0 / 60, 1.0 / 30, 1.0 / 10} {
		t.Run(fmt.Sprintf("dt=%.3f", dt), func(t *testing.T) {
			var d Differencer
			v := geom.V(120, -35)
			p0 := geom.V(500, 200)

			d.Update(p0, dt)
			est := d.Update(p0.Add(v.Scale(dt)), dt)
			assertVec(t, v, est.Velocity, "velocity after two ticks")
			assertVec(t, geom.Vec2{}, est.Acceleration, "acceleration after two ticks")

			for i := 2; i < 6; i++ {
				est = d.Update(p0.Add(v.Scale(float64(i)*dt)), dt)
			}
			assertVec(t, v, est.Velocity, "steady velocity")
			assertVec(t, geom.Vec2{}, est.Acceleration, "steady acceleration")
			assertVec(t, geom.Vec2{}, est.Jerk, "steady jerk")
		})
	}
}

func TestDifferencer_ConstantAcceleration(t *testing.T) {
	const dt = 1.0 / 60
	var d Differencer
	a := geom.V(0, 30)
	pos := func(i int) geom.Vec2 {
		tt := float64(i) * dt
		return a.Scale(0.5 * tt * tt)
	}

	var est Estimate
	for i := 0; i < 8; i++ {
		est = d.Update(pos(i), dt)
	}

	// Backward second difference of a parabola is exact
	assertVec(t, a, est.Acceleration, "acceleration")
	assertVec(t, geom.Vec2{}, est.Jerk, "jerk")
	// Backward first difference lags by half a step
	assert.InDelta(t, a.Y*(6.5*dt), est.Velocity.Y, tol)
}

func TestDifferencer_DifferenceThenStore(t *testing.T) {
	const dt = 0.5
	var d Differencer
	d.Update(geom.V(0, 0), dt)
	d.Update(geom.V(1, 0), dt)

	require.Equal(t, geom.V(1, 0), d.PrevPosition)
	require.Equal(t, geom.V(2, 0), d.PrevVelocity)

	est := d.Update(geom.V(3, 0), dt)
	assertVec(t, geom.V(4, 0), est.Velocity, "velocity")
	assertVec(t, geom.V(4, 0), est.Acceleration, "acceleration from stored velocity")
	assert.Equal(t, geom.V(4, 0), d.PrevVelocity)
	assert.Equal(t, geom.V(4, 0), d.PrevAccel)
}

func TestDifferencer_IgnoresBadSamples(t *testing.T) {
	const dt = 0.1
	var d Differencer
	d.Update(geom.V(0, 0), dt)
	good := d.Update(geom.V(1, 1), dt)

	assert.Equal(t, good, d.Update(geom.V(math.NaN(), 0), dt))
	assert.Equal(t, good, d.Update(geom.V(5, 5), 0))
	assert.Equal(t, good, d.Update(geom.V(5, 5), math.Inf(1)))
	assert.Equal(t, geom.V(1, 1), d.PrevPosition, "bad samples must not be stored")
}

func TestDifferencer_Reset(t *testing.T) {
	var d Differencer
	d.Update(geom.V(0, 0), 1)
	d.Update(geom.V(10, 0), 1)
	d.Reset()

	est := d.Update(geom.V(500, 500), 1)
	assert.True(t, est.Velocity.IsZero(), "reset differencer reports zero velocity")
	assert.Equal(t, 1, d.Seeded)
}

func TestPredict(t *testing.T) {
	est := Estimate{
		Velocity:     geom.V(10, 0),
		Acceleration: geom.V(2, 0),
		Jerk:         geom.V(60, 0),
	}
	p := Predict(est, 0.5)
	assertVec(t, geom.V(32, 0), p.Acceleration, "predicted acceleration")
	assertVec(t, geom.V(26, 0), p.Velocity, "predicted velocity")
}
