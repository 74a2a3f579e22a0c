package arena

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-turret/pkg/geom"
)

// Config holds the physical constants of the arena.
type Config struct {
	TickDuration    float64 `json:"tick_duration"`     // Seconds per tick
	ProjectileSpeed float64 `json:"projectile_speed"`  // Muzzle speed relative to the shooter (m/s)
	BulletLifetime  float64 `json:"bullet_lifetime"`   // Seconds before a bullet expires
	HitRadius       float64 `json:"hit_radius"`        // Target radius (m)
	ReloadTicks     int     `json:"reload_ticks"`      // Ticks between shots
	MaxAngularAccel float64 `json:"max_angular_accel"` // Torque clamp (rad/s²)
	MaxLinearAccel  float64 `json:"max_linear_accel"`  // Thrust clamp (m/s²)

	// Radar
	RadarRange    float64 `json:"radar_range"`    // Maximum detection distance (m)
	RadarNoise    float64 `json:"radar_noise"`    // Std dev of reported position (m)
	RadarWidth    float64 `json:"radar_width"`    // Initial beam width (rad)
	AlwaysVisible bool    `json:"always_visible"` // Report the target regardless of the beam

	Seed uint64 `json:"seed"` // Noise seed
}

// DefaultConfig returns a 60 Hz arena matching the default controller.
func DefaultConfig() Config {
	return Config{
		TickDuration:    1.0 / 60.0,
		ProjectileSpeed: 1000,
		BulletLifetime:  4,
		HitRadius:       10,
		ReloadTicks:     10,
		MaxAngularAccel: 2 * math.Pi,
		MaxLinearAccel:  60,
		RadarRange:      10000,
		RadarWidth:      math.Pi / 2,
		Seed:            1,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	positive := func(v float64) bool { return geom.IsFinite(v) && v > 0 }
	switch {
	case !positive(c.TickDuration):
		return fmt.Errorf("%w: tick_duration must be positive", ErrInvalidConfig)
	case !positive(c.ProjectileSpeed):
		return fmt.Errorf("%w: projectile_speed must be positive", ErrInvalidConfig)
	case !positive(c.BulletLifetime):
		return fmt.Errorf("%w: bullet_lifetime must be positive", ErrInvalidConfig)
	case !positive(c.HitRadius):
		return fmt.Errorf("%w: hit_radius must be positive", ErrInvalidConfig)
	case c.ReloadTicks < 0:
		return fmt.Errorf("%w: reload_ticks must be non-negative", ErrInvalidConfig)
	case !positive(c.MaxAngularAccel):
		return fmt.Errorf("%w: max_angular_accel must be positive", ErrInvalidConfig)
	case !geom.IsFinite(c.MaxLinearAccel) || c.MaxLinearAccel < 0:
		return fmt.Errorf("%w: max_linear_accel must be non-negative", ErrInvalidConfig)
	case !positive(c.RadarRange):
		return fmt.Errorf("%w: radar_range must be positive", ErrInvalidConfig)
	case !geom.IsFinite(c.RadarNoise) || c.RadarNoise < 0:
		return fmt.Errorf("%w: radar_noise must be non-negative", ErrInvalidConfig)
	case !positive(c.RadarWidth):
		return fmt.Errorf("%w: radar_width must be positive", ErrInvalidConfig)
	}
	return nil
}
