package targeting

import "github.com/teslashibe/go-turret/pkg/geom"

// SelfState is the agent's own kinematic state, read from the environment.
type SelfState struct {
	Position geom.Vec2 `json:"position"`
	Velocity geom.Vec2 `json:"velocity"`
	Heading  float64   `json:"heading"`
}

// Observation is a sensor contact. Only position is observed.
type Observation struct {
	Position geom.Vec2 `json:"position"`
}

// SelfReader reads the agent's current state.
type SelfReader interface {
	Self() SelfState
}

// Sensor reports this tick's contact, if any.
type Sensor interface {
	Scan() (Observation, bool)
}

// Clock reports the fixed simulation step.
type Clock interface {
	TickDuration() float64
}

// Actuator applies commands. Effects take place before the next tick.
type Actuator interface {
	Accelerate(accel geom.Vec2)
	Torque(torque float64)
	Fire(weapon uint32)
}

// SensorSteer points the sensor. Changes apply from the next tick.
type SensorSteer interface {
	SetRadarHeading(heading float64)
	SetRadarWidth(width float64)
}

// Overlay draws diagnostic lines. It has no effect on control and an
// environment need not implement it.
type Overlay interface {
	DrawLine(from, to geom.Vec2, color uint32)
}

// Environment is everything a Controller needs from its host for one tick.
type Environment interface {
	SelfReader
	Sensor
	Clock
	Actuator
	SensorSteer
}

// Snapshot is the immutable input to one Step.
type Snapshot struct {
	Self    SelfState    `json:"self"`
	Contact *Observation `json:"contact,omitempty"`
	Dt      float64      `json:"dt"`
}

// ReadSnapshot collects one tick of input from env.
func ReadSnapshot(env Environment) Snapshot {
	snap := Snapshot{
		Self: env.Self(),
		Dt:   env.TickDuration(),
	}
	if obs, ok := env.Scan(); ok {
		snap.Contact = &obs
	}
	return snap
}
