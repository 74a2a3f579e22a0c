package geom

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestVec2_Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(-1, 2)

	if got := a.Add(b); got != V(2, 6) {
		t.Errorf("Add: got %v, want (2, 6)", got)
	}
	if got := a.Sub(b); got != V(4, 2) {
		t.Errorf("Sub: got %v, want (4, 2)", got)
	}
	if got := a.Scale(0.5); got != V(1.5, 2) {
		t.Errorf("Scale: got %v, want (1.5, 2)", got)
	}
	if got := a.Dot(b); got != 5 {
		t.Errorf("Dot: got %v, want 5", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length: got %v, want 5", got)
	}
	if got := a.LengthSq(); got != 25 {
		t.Errorf("LengthSq: got %v, want 25", got)
	}
}

func TestVec2_AngleAndFromAngle(t *testing.T) {
	v := FromAngle(math.Pi/2, 10)
	if !floatEquals(v.X, 0) || !floatEquals(v.Y, 10) {
		t.Errorf("FromAngle(π/2, 10) = %v, want (0, 10)", v)
	}
	if !floatEquals(v.Angle(), math.Pi/2) {
		t.Errorf("Angle: got %v, want π/2", v.Angle())
	}
	if (Vec2{}).Angle() != 0 {
		t.Errorf("zero vector angle should be 0")
	}
}

func TestVec2_IsFinite(t *testing.T) {
	if !V(1, 2).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if V(math.NaN(), 0).IsFinite() {
		t.Error("NaN component reported finite")
	}
	if V(0, math.Inf(-1)).IsFinite() {
		t.Error("Inf component reported finite")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{0.1 + 4*math.Pi, 0.1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Wrap(tt.in); !floatEquals(got, tt.want) {
			t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAngleDiff_ShortestPath(t *testing.T) {
	// Crossing the ±π seam must take the short way round
	got := AngleDiff(Radians(170), Radians(-170))
	if !floatEquals(got, Radians(20)) {
		t.Errorf("AngleDiff(170°, -170°) = %.2f°, want 20°", Degrees(got))
	}
	got = AngleDiff(Radians(-170), Radians(170))
	if !floatEquals(got, Radians(-20)) {
		t.Errorf("AngleDiff(-170°, 170°) = %.2f°, want -20°", Degrees(got))
	}
}

func TestDegreesRadiansConversion(t *testing.T) {
	back := Degrees(Radians(45))
	if back < 44.9 || back > 45.1 {
		t.Errorf("Round-trip conversion failed: 45° -> %.1f°", back)
	}
}
