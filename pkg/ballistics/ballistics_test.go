package ballistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-turret/pkg/geom"
)

const tol = 1e-6

func TestSolve_KnownRoots(t *testing.T) {
	tests := []struct {
		name  string
		dp    geom.Vec2
		dv    geom.Vec2
		speed float64
		want  float64
	}{
		{"stationary target", geom.V(1000, 0), geom.Vec2{}, 1000, 1},
		{"receding target", geom.V(1000, 0), geom.V(500, 0), 1000, 2},
		{"approaching target", geom.V(1000, 0), geom.V(-500, 0), 1000, 2.0 / 3},
		{"crossing target", geom.V(0, 1000), geom.V(500, 0), 1000, 1000 / math.Sqrt(750000)},
		{"diagonal stationary", geom.V(300, 400), geom.Vec2{}, 250, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Solve(tt.dp, tt.dv, tt.speed)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, tol)

			// The root satisfies |dp + dv·t| = speed·t
			miss := tt.dp.Add(tt.dv.Scale(got)).Length() - tt.speed*got
			assert.InDelta(t, 0, miss, 1e-6)
		})
	}
}

func TestSolve_FasterTargetPicksSmallestPositiveRoot(t *testing.T) {
	// Target outruns the projectile but is coming straight at us: both
	// roots positive, the earlier one is the intercept.
	got, ok := Solve(geom.V(1000, 0), geom.V(-2000, 0), 1000)
	require.True(t, ok)
	assert.InDelta(t, 1.0/3, got, tol)
}

func TestSolve_NoSolution(t *testing.T) {
	tests := []struct {
		name  string
		dp    geom.Vec2
		dv    geom.Vec2
		speed float64
	}{
		{"zero speed", geom.V(1000, 0), geom.V(100, 0), 0},
		{"zero speed approaching", geom.V(1000, 0), geom.V(-100, 0), 0},
		{"negative speed", geom.V(1000, 0), geom.V(100, 0), -5},
		{"NaN speed", geom.V(1000, 0), geom.Vec2{}, math.NaN()},
		{"infinite speed", geom.V(1000, 0), geom.Vec2{}, math.Inf(1)},
		{"negative discriminant", geom.V(0, 1000), geom.V(1500, 500), 1000},
		{"outrunning crossing target", geom.V(1000, 0), geom.V(0, 1500), 1000},
		{"receding faster target", geom.V(1000, 0), geom.V(2000, 0), 1000},
		{"degenerate equal speed", geom.V(1000, 0), geom.V(0, 1000), 1000},
		{"coincident", geom.Vec2{}, geom.Vec2{}, 1000},
		{"NaN position", geom.V(math.NaN(), 0), geom.Vec2{}, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Solve(tt.dp, tt.dv, tt.speed)
			assert.False(t, ok)
			assert.Equal(t, 0.0, got)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestSolve_Idempotent(t *testing.T) {
	dp, dv := geom.V(812.5, -233.1), geom.V(-41, 77.7)
	t1, ok1 := Solve(dp, dv, 1000)
	t2, ok2 := Solve(dp, dv, 1000)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, t1, t2)
}

func TestCorrect(t *testing.T) {
	lead := geom.V(100, 0)
	got := Correct(lead, geom.V(0, 10), 2)
	assert.Equal(t, geom.V(100, 20), got)
	assert.Equal(t, lead, Correct(lead, geom.V(5, 5), 0))
}

func TestBlendAccel(t *testing.T) {
	m, p := geom.V(0, 0), geom.V(10, -10)
	assert.Equal(t, m, BlendAccel(m, p, 0))
	assert.Equal(t, p, BlendAccel(m, p, 1))
	assert.Equal(t, geom.V(5, -5), BlendAccel(m, p, 0.5))
	assert.Equal(t, m, BlendAccel(m, p, -3))
	assert.Equal(t, p, BlendAccel(m, p, 7))
}

func TestAim_StationaryTarget(t *testing.T) {
	aim := Aim(geom.Vec2{}, geom.Vec2{}, geom.V(1000, 0), geom.Vec2{}, geom.Vec2{}, 1000)
	require.True(t, aim.Solved)
	assert.InDelta(t, 1.0, aim.FlightTime, tol)
	assert.InDelta(t, 1000, aim.Corrected.X, tol)
	assert.InDelta(t, 0, aim.Corrected.Y, tol)
}

func TestAim_CrossingTargetLeadsAhead(t *testing.T) {
	target := geom.V(0, 1000)
	aim := Aim(geom.Vec2{}, geom.Vec2{}, target, geom.V(500, 0), geom.Vec2{}, 1000)
	require.True(t, aim.Solved)
	assert.Greater(t, aim.FlightTime, 0.0)
	assert.Less(t, aim.FlightTime, 2.0)
	assert.Greater(t, aim.Lead.X, target.X)
}

func TestAim_NoSolutionAimsAtTarget(t *testing.T) {
	target := geom.V(0, 1000)
	aim := Aim(geom.Vec2{}, geom.Vec2{}, target, geom.V(0, 5000), geom.V(3, 3), 1000)
	assert.False(t, aim.Solved)
	assert.Equal(t, 0.0, aim.FlightTime)
	assert.Equal(t, target, aim.Lead)
	assert.Equal(t, target, aim.Corrected)
}
