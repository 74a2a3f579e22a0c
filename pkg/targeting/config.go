package targeting

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-turret/pkg/acquisition"
	"github.com/teslashibe/go-turret/pkg/geom"
	"github.com/teslashibe/go-turret/pkg/servo"
)

// Shared defaults.
const (
	// DefaultProjectileSpeed is the muzzle speed of the default weapon (m/s).
	DefaultProjectileSpeed = 1000.0

	// DefaultTickDuration is the tick the default gains are calibrated for.
	// Gains must be re-tuned together with the tick; Kd especially.
	DefaultTickDuration = 1.0 / 60.0
)

// Config holds every tunable of the controller. It is passed in at
// construction and never read from globals.
type Config struct {
	// Ballistics
	ProjectileSpeed float64 `json:"projectile_speed"` // m/s
	Weapon          uint32  `json:"weapon"`           // Weapon index passed to Fire

	// Servo
	Kp        float64 `json:"kp"`         // Proportional gain
	Kd        float64 `json:"kd"`         // Derivative gain (seconds)
	MaxTorque float64 `json:"max_torque"` // Torque clamp, 0 = unclamped

	// Aiming
	FireThreshold   float64 `json:"fire_threshold"`   // Fire when |angle error| is below this (radians)
	AccelCorrection bool    `json:"accel_correction"` // Add ½·a·t² to the lead point
	PredictionBlend float64 `json:"prediction_blend"` // Weight of the jerk-extrapolated accel (0-1)
	FeedForward     float64 `json:"feed_forward"`     // Seconds of bearing rate added to the servo error

	// Sensor
	SteerSensor bool               `json:"steer_sensor"` // Emit radar heading/aperture commands
	Acquisition acquisition.Policy `json:"acquisition"`

	// Pursuit thrust, both 0 = no linear acceleration
	PursuitVelocityGain float64 `json:"pursuit_velocity_gain"` // Match target velocity
	PursuitApproachGain float64 `json:"pursuit_approach_gain"` // Close distance (1/s²)

	// Diagnostics
	Overlay bool `json:"overlay"` // Emit lead/aim line segments
}

// DefaultConfig returns the radar-guided profile.
func DefaultConfig() Config {
	return RadarConfig()
}

// RadarConfig finds the target with a sweeping radar, then tracks it with
// a narrow beam and fires with acceleration-corrected lead.
func RadarConfig() Config {
	return Config{
		ProjectileSpeed: DefaultProjectileSpeed,
		Kp:              60,
		Kd:              servo.TickGainToKd(50000, DefaultTickDuration), // ≈13.9
		FireThreshold:   0.075,
		AccelCorrection: true,
		PredictionBlend: 0.5,
		FeedForward:     DefaultTickDuration,
		SteerSensor:     true,
		Acquisition:     acquisition.DefaultPolicy(),
		Overlay:         true,
	}
}

// LeadConfig fires with linear lead only against a target whose position
// is always reported, and leaves the sensor alone.
func LeadConfig() Config {
	cfg := RadarConfig()
	cfg.Kp = 50
	cfg.FireThreshold = 0.025
	cfg.AccelCorrection = false
	cfg.PredictionBlend = 0
	cfg.FeedForward = 0
	cfg.SteerSensor = false
	return cfg
}

// DeflectConfig adds acceleration correction and pursuit thrust to the
// lead profile, with a tighter fire threshold.
func DeflectConfig() Config {
	cfg := LeadConfig()
	cfg.FireThreshold = 0.015
	cfg.AccelCorrection = true
	cfg.PredictionBlend = 0.5
	cfg.FeedForward = DefaultTickDuration
	cfg.PursuitVelocityGain = 1
	cfg.PursuitApproachGain = 1.0 / 25
	return cfg
}

// Profile names accepted by ProfileConfig.
var Profiles = []string{"radar", "lead", "deflect"}

// ProfileConfig returns the named profile.
func ProfileConfig(name string) (Config, error) {
	switch name {
	case "", "default", "radar":
		return RadarConfig(), nil
	case "lead":
		return LeadConfig(), nil
	case "deflect":
		return DeflectConfig(), nil
	default:
		return Config{}, &ConfigError{Field: "profile", Reason: fmt.Sprintf("unknown profile %q", name)}
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	finite := geom.IsFinite
	switch {
	case !finite(c.ProjectileSpeed) || c.ProjectileSpeed <= 0:
		return &ConfigError{Field: "projectile_speed", Reason: "must be positive and finite"}
	case !finite(c.Kp) || c.Kp < 0:
		return &ConfigError{Field: "kp", Reason: "must be non-negative"}
	case !finite(c.Kd) || c.Kd < 0:
		return &ConfigError{Field: "kd", Reason: "must be non-negative"}
	case !finite(c.MaxTorque) || c.MaxTorque < 0:
		return &ConfigError{Field: "max_torque", Reason: "must be non-negative"}
	case !finite(c.FireThreshold) || c.FireThreshold <= 0 || c.FireThreshold >= math.Pi:
		return &ConfigError{Field: "fire_threshold", Reason: "must be in (0, π)"}
	case !finite(c.PredictionBlend) || c.PredictionBlend < 0 || c.PredictionBlend > 1:
		return &ConfigError{Field: "prediction_blend", Reason: "must be in [0, 1]"}
	case !finite(c.FeedForward) || c.FeedForward < 0:
		return &ConfigError{Field: "feed_forward", Reason: "must be non-negative"}
	case !finite(c.PursuitVelocityGain) || c.PursuitVelocityGain < 0:
		return &ConfigError{Field: "pursuit_velocity_gain", Reason: "must be non-negative"}
	case !finite(c.PursuitApproachGain) || c.PursuitApproachGain < 0:
		return &ConfigError{Field: "pursuit_approach_gain", Reason: "must be non-negative"}
	}

	if c.SteerSensor {
		p := c.Acquisition
		switch {
		case !finite(p.SweepStep):
			return &ConfigError{Field: "acquisition.sweep_step", Reason: "must be finite"}
		case !finite(p.SearchAperture) || p.SearchAperture <= 0 || p.SearchAperture > 2*math.Pi:
			return &ConfigError{Field: "acquisition.search_aperture", Reason: "must be in (0, 2π]"}
		case !finite(p.TrackAperture) || p.TrackAperture <= 0 || p.TrackAperture > 2*math.Pi:
			return &ConfigError{Field: "acquisition.track_aperture", Reason: "must be in (0, 2π]"}
		}
	}
	return nil
}

// servoController builds the PD controller described by the config.
func (c Config) servoController() servo.Controller {
	return servo.Controller{Kp: c.Kp, Kd: c.Kd, MaxOutput: c.MaxTorque}
}

// pursuit reports whether the config asks for linear acceleration.
func (c Config) pursuit() bool {
	return c.PursuitVelocityGain > 0 || c.PursuitApproachGain > 0
}
