package acquisition

import (
	"encoding/json"
	"math"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestPolicy_InitialStateIsSearching(t *testing.T) {
	var st State
	if st.Mode != ModeSearching {
		t.Errorf("zero State mode: got %v, want SEARCHING", st.Mode)
	}
}

func TestPolicy_TransitionSequence(t *testing.T) {
	p := DefaultPolicy()
	st := State{}

	contacts := []bool{true, true, false, true}
	want := []Mode{ModeTracking, ModeTracking, ModeSearching, ModeTracking}
	wantReacquired := []bool{true, false, false, true}
	wantLost := []bool{false, false, true, false}

	for i, contact := range contacts {
		var res Result
		res, st = p.Step(st, contact, 0.25)

		if res.Mode != want[i] || st.Mode != want[i] {
			t.Fatalf("tick %d: mode %v (state %v), want %v", i, res.Mode, st.Mode, want[i])
		}
		narrow := res.Directive.Aperture == p.TrackAperture
		if narrow != (want[i] == ModeTracking) {
			t.Errorf("tick %d: aperture %v narrow=%v in mode %v", i, res.Directive.Aperture, narrow, res.Mode)
		}
		if res.Reacquired != wantReacquired[i] {
			t.Errorf("tick %d: Reacquired=%v, want %v", i, res.Reacquired, wantReacquired[i])
		}
		if res.Lost != wantLost[i] {
			t.Errorf("tick %d: Lost=%v, want %v", i, res.Lost, wantLost[i])
		}
	}
}

func TestPolicy_TrackingPointsAtBearing(t *testing.T) {
	p := DefaultPolicy()
	res, _ := p.Step(State{}, true, 1.2)

	if !floatEquals(res.Directive.Heading, 1.2) {
		t.Errorf("tracking heading: got %v, want 1.2", res.Directive.Heading)
	}
	if res.Directive.Aperture != math.Pi/20 {
		t.Errorf("tracking aperture: got %v, want π/20", res.Directive.Aperture)
	}
}

func TestPolicy_SearchSweepAdvances(t *testing.T) {
	p := DefaultPolicy()
	st := State{}

	want := []float64{-math.Pi / 2, math.Pi, math.Pi / 2, 0}
	for i, w := range want {
		var res Result
		res, st = p.Step(st, false, 0)
		if !floatEquals(res.Directive.Heading, w) {
			t.Errorf("sweep %d: heading %v, want %v", i, res.Directive.Heading, w)
		}
		if res.Directive.Aperture != p.SearchAperture {
			t.Errorf("sweep %d: aperture %v, want wide %v", i, res.Directive.Aperture, p.SearchAperture)
		}
	}
}

func TestPolicy_SweepResumesFromLastBearing(t *testing.T) {
	p := DefaultPolicy()
	_, st := p.Step(State{}, true, 1.0)
	res, _ := p.Step(st, false, 0)

	if !floatEquals(res.Directive.Heading, 1.0-math.Pi/2) {
		t.Errorf("sweep after loss: got %v, want %v", res.Directive.Heading, 1.0-math.Pi/2)
	}
}

func TestMode_JSON(t *testing.T) {
	data, err := json.Marshal(State{Mode: ModeTracking})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if st.Mode != ModeTracking {
		t.Errorf("round-trip mode: got %v", st.Mode)
	}

	if _, err := ParseMode("orbit"); err == nil {
		t.Error("ParseMode accepted an unknown mode")
	}
}
