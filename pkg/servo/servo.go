// Package servo implements the proportional-derivative heading controller
// that turns a wrapped angular error into a torque command.
package servo

import (
	"math"

	"github.com/teslashibe/go-turret/pkg/geom"
)

// Controller holds the PD gains. It has no integral and no bias term, so
// its output is odd in the error history: negating e and PrevError negates
// the output exactly.
type Controller struct {
	// Gains
	Kp float64 // Proportional gain (torque per radian)
	Kd float64 // Derivative gain (torque per rad/s)

	// Limits
	MaxOutput float64 // Symmetric output clamp, 0 = unclamped
}

// State is the servo's memory between ticks.
type State struct {
	PrevError float64 `json:"prev_error"`
}

// New creates a controller with the given gains and no output clamp.
func New(kp, kd float64) Controller {
	return Controller{Kp: kp, Kd: kd}
}

// TickGainToKd converts a derivative gain written against a per-tick error
// difference multiplied by the tick length (the form kd·Δe·dt) into the
// per-second form used here (Kd·Δe/dt). The two agree when Kd = kd·dt².
func TickGainToKd(kd, dt float64) float64 {
	return kd * dt * dt
}

// Update computes Kp·e + Kd·(e − prev)/dt and returns the output with the
// next state. The next state always records e, even when the caller has no
// target and passes 0, so a later reacquisition sees a bounded derivative.
//
// A non-positive dt drops the derivative term. A non-finite result is 0.
func (c Controller) Update(st State, e, dt float64) (float64, State) {
	if !geom.IsFinite(e) {
		e = 0
	}

	pTerm := c.Kp * e
	dTerm := 0.0
	if dt > 0 {
		dTerm = c.Kd * (e - st.PrevError) / dt
	}
	output := pTerm + dTerm

	if c.MaxOutput > 0 {
		output = clamp(output, -c.MaxOutput, c.MaxOutput)
	}
	if !geom.IsFinite(output) {
		output = 0
	}

	return output, State{PrevError: e}
}

// clamp limits a value to a range
func clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}
