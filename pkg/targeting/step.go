package targeting

import (
	"math"

	"github.com/teslashibe/go-turret/pkg/acquisition"
	"github.com/teslashibe/go-turret/pkg/ballistics"
	"github.com/teslashibe/go-turret/pkg/geom"
	"github.com/teslashibe/go-turret/pkg/kinematics"
	"github.com/teslashibe/go-turret/pkg/servo"
)

// Overlay colors.
const (
	ColorLead      uint32 = 0x0000ff
	ColorCorrected uint32 = 0xffff44
	ColorTrack     uint32 = 0xffffff
)

// State is the controller's history between ticks. The zero value is the
// initial state: searching, with every estimate zeroed.
type State struct {
	Tick uint64 `json:"tick"`

	Estimator  kinematics.Differencer `json:"estimator"`
	Prediction kinematics.Prediction  `json:"prediction"`

	// Desired aim bearing of the previous tracking tick
	PrevBearing float64 `json:"prev_bearing"`
	HasBearing  bool    `json:"has_bearing"`

	Servo       servo.State       `json:"servo"`
	Acquisition acquisition.State `json:"acquisition"`
}

// Command is one tick of output to the environment.
type Command struct {
	LinearAccel  geom.Vec2 `json:"linear_accel"`
	Torque       float64   `json:"torque"`
	Fire         bool      `json:"fire"`
	Weapon       uint32    `json:"weapon"`
	RadarHeading *float64  `json:"radar_heading,omitempty"`
	RadarWidth   *float64  `json:"radar_width,omitempty"`
}

// Segment is a diagnostic line.
type Segment struct {
	From  geom.Vec2 `json:"from"`
	To    geom.Vec2 `json:"to"`
	Color uint32    `json:"color"`
}

// Telemetry describes what the controller saw and decided on one tick.
type Telemetry struct {
	Tick       uint64           `json:"tick"`
	Mode       acquisition.Mode `json:"mode"`
	Contact    bool             `json:"contact"`
	Reacquired bool             `json:"reacquired"`

	Estimate   kinematics.Estimate   `json:"estimate"`
	Prediction kinematics.Prediction `json:"prediction"`

	// |a − â| / |a| between this tick's differenced acceleration and the
	// previous tick's prediction of it. 0 until both exist.
	PredictionError float64 `json:"prediction_error"`

	Aim            ballistics.AimPoint   `json:"aim"`
	DesiredBearing float64               `json:"desired_bearing"`
	AngleError     float64               `json:"angle_error"`
	ServoError     float64               `json:"servo_error"`
	Torque         float64               `json:"torque"`
	Fire           bool                  `json:"fire"`
	Directive      acquisition.Directive `json:"directive"`

	Segments []Segment `json:"segments,omitempty"`
}

// Step runs one tick: acquisition, estimation, intercept, correction, servo
// and fire decision, in that order. It is a pure function of its inputs.
func Step(cfg Config, st State, snap Snapshot) (Command, State, Telemetry) {
	next := st
	next.Tick++
	dt := snap.Dt
	self := snap.Self
	ctl := cfg.servoController()

	contact := snap.Contact != nil && snap.Contact.Position.IsFinite()
	bearing := 0.0
	if contact {
		bearing = snap.Contact.Position.Sub(self.Position).Angle()
	}

	acq, acqState := cfg.Acquisition.Step(st.Acquisition, contact, bearing)
	next.Acquisition = acqState

	tel := Telemetry{
		Tick:       next.Tick,
		Mode:       acq.Mode,
		Contact:    contact,
		Reacquired: acq.Reacquired,
		Directive:  acq.Directive,
	}
	cmd := Command{Weapon: cfg.Weapon}
	if cfg.SteerSensor {
		heading, width := acq.Directive.Heading, acq.Directive.Aperture
		cmd.RadarHeading = &heading
		cmd.RadarWidth = &width
	}

	if acq.Mode != acquisition.ModeTracking {
		// Keep the servo history current so reacquisition starts from zero error
		_, next.Servo = ctl.Update(st.Servo, 0, dt)
		next.HasBearing = false
		return sanitize(cmd), next, tel
	}

	if acq.Reacquired {
		next.Estimator.Reset()
		next.Prediction = kinematics.Prediction{}
		next.HasBearing = false
	}

	target := snap.Contact.Position
	prevSeeded := next.Estimator.Seeded
	est := next.Estimator.Update(target, dt)
	pred := kinematics.Predict(est, dt)
	if prevSeeded >= 3 {
		tel.PredictionError = relativeError(est.Acceleration, next.Prediction.Acceleration)
	}
	next.Prediction = pred

	accel := geom.Vec2{}
	if cfg.AccelCorrection {
		accel = ballistics.BlendAccel(est.Acceleration, pred.Acceleration, cfg.PredictionBlend)
	}
	aim := ballistics.Aim(self.Position, self.Velocity, target, est.Velocity, accel, cfg.ProjectileSpeed)

	desired := aim.Corrected.Sub(self.Position).Angle()
	angleErr := geom.AngleDiff(self.Heading, desired)

	servoErr := angleErr
	if cfg.FeedForward > 0 && st.HasBearing && dt > 0 {
		rate := geom.AngleDiff(st.PrevBearing, desired) / dt
		servoErr = geom.Wrap(angleErr + cfg.FeedForward*rate)
	}
	next.PrevBearing, next.HasBearing = desired, true

	torque, servoState := ctl.Update(st.Servo, servoErr, dt)
	next.Servo = servoState

	cmd.Torque = torque
	cmd.Fire = aim.Solved && math.Abs(angleErr) < cfg.FireThreshold
	if cfg.pursuit() {
		cmd.LinearAccel = est.Velocity.Sub(self.Velocity).Scale(cfg.PursuitVelocityGain).
			Add(target.Sub(self.Position).Scale(cfg.PursuitApproachGain))
	}
	if !aim.Lead.IsFinite() || !aim.Corrected.IsFinite() || !geom.IsFinite(angleErr) {
		cmd.Fire = false
		cmd.Torque = 0
	}
	cmd = sanitize(cmd)

	tel.Estimate = est
	tel.Prediction = pred
	tel.Aim = aim
	tel.DesiredBearing = desired
	tel.AngleError = angleErr
	tel.ServoError = servoErr
	tel.Torque = cmd.Torque
	tel.Fire = cmd.Fire

	if cfg.Overlay {
		tel.Segments = []Segment{
			{From: self.Position, To: aim.Lead, Color: ColorLead},
			{From: self.Position, To: aim.Corrected, Color: ColorCorrected},
			{From: self.Position, To: target.Add(pred.Velocity.Scale(dt)), Color: ColorTrack},
		}
	}
	return cmd, next, tel
}

// sanitize replaces every non-finite output with its safe default.
func sanitize(cmd Command) Command {
	if !cmd.LinearAccel.IsFinite() {
		cmd.LinearAccel = geom.Vec2{}
	}
	if !geom.IsFinite(cmd.Torque) {
		cmd.Torque = 0
		cmd.Fire = false
	}
	if cmd.RadarHeading != nil && !geom.IsFinite(*cmd.RadarHeading) {
		cmd.RadarHeading = nil
	}
	if cmd.RadarWidth != nil && !geom.IsFinite(*cmd.RadarWidth) {
		cmd.RadarWidth = nil
	}
	return cmd
}

func relativeError(actual, predicted geom.Vec2) float64 {
	n := actual.Length()
	if n == 0 {
		return 0
	}
	r := actual.Sub(predicted).Length() / n
	if !geom.IsFinite(r) {
		return 0
	}
	return r
}
