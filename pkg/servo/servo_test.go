package servo

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestController_ProportionalOnly(t *testing.T) {
	c := New(50, 0)
	out, next := c.Update(State{}, 0.2, 1.0/60)

	if !floatEquals(out, 10) {
		t.Errorf("output: got %v, want 10", out)
	}
	if next.PrevError != 0.2 {
		t.Errorf("PrevError: got %v, want 0.2", next.PrevError)
	}
}

func TestController_DerivativeTerm(t *testing.T) {
	c := New(0, 2)
	out, _ := c.Update(State{PrevError: 0.1}, 0.3, 0.5)

	// 2 * (0.3 - 0.1) / 0.5
	if !floatEquals(out, 0.8) {
		t.Errorf("output: got %v, want 0.8", out)
	}
}

func TestController_Symmetry(t *testing.T) {
	c := New(60, TickGainToKd(50000, 1.0/60))
	cases := []struct{ prev, e float64 }{
		{0, 0.5},
		{0.3, 0.1},
		{-0.2, 1.4},
		{math.Pi / 2, -math.Pi / 3},
	}

	for _, tc := range cases {
		pos, _ := c.Update(State{PrevError: tc.prev}, tc.e, 1.0/60)
		neg, _ := c.Update(State{PrevError: -tc.prev}, -tc.e, 1.0/60)
		if pos != -neg {
			t.Errorf("prev=%v e=%v: output %v is not the negation of %v", tc.prev, tc.e, pos, neg)
		}
	}
}

func TestController_ZeroErrorNoHistory(t *testing.T) {
	c := New(50, 13.9)
	out, _ := c.Update(State{}, 0, 1.0/60)
	if out != 0 {
		t.Errorf("output with no error and no history: got %v, want 0", out)
	}
}

func TestController_StateAlwaysRecorded(t *testing.T) {
	c := New(50, 13.9)
	st := State{}

	for _, e := range []float64{0.4, 0, -0.2, 0} {
		_, st = c.Update(st, e, 1.0/60)
		if st.PrevError != e {
			t.Errorf("PrevError after e=%v: got %v", e, st.PrevError)
		}
	}
}

func TestController_Clamp(t *testing.T) {
	c := Controller{Kp: 1000, MaxOutput: 5}
	out, _ := c.Update(State{}, 1, 0.1)
	if out != 5 {
		t.Errorf("clamped output: got %v, want 5", out)
	}
	out, _ = c.Update(State{}, -1, 0.1)
	if out != -5 {
		t.Errorf("clamped output: got %v, want -5", out)
	}
}

func TestController_DegenerateInputs(t *testing.T) {
	c := New(50, 13.9)

	out, next := c.Update(State{PrevError: 0.1}, math.NaN(), 1.0/60)
	if math.IsNaN(out) || math.IsInf(out, 0) {
		t.Errorf("NaN error produced non-finite output %v", out)
	}
	if next.PrevError != 0 {
		t.Errorf("NaN error should be recorded as 0, got %v", next.PrevError)
	}

	out, _ = c.Update(State{PrevError: 0.1}, 0.3, 0)
	if !floatEquals(out, 50*0.3) {
		t.Errorf("dt=0 should drop the derivative term, got %v", out)
	}
}

func TestTickGainToKd(t *testing.T) {
	dt := 1.0 / 60
	kd := TickGainToKd(50000, dt)

	// Same output as the per-tick form for any error step
	de := 0.01
	perTick := 50000 * de * dt
	perSecond := kd * de / dt
	if !floatEquals(perTick, perSecond) {
		t.Errorf("per-tick %v != per-second %v", perTick, perSecond)
	}
}
