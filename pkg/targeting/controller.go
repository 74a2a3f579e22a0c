package targeting

import (
	"log/slog"
	"sync"

	"github.com/teslashibe/go-turret/internal/log"
)

// TelemetryFunc receives the telemetry of every tick. It is called with
// the controller's lock released and must not block for long.
type TelemetryFunc func(Telemetry)

// Controller runs Step against a live Environment and owns the state
// between ticks. It is safe for concurrent use: Tick, the tuning calls and
// the accessors may run from different goroutines.
type Controller struct {
	mu     sync.RWMutex
	config Config
	state  State
	last   Telemetry

	logger    *slog.Logger
	observers []TelemetryFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default is the process logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTelemetry registers observers called after each tick.
func WithTelemetry(fns ...TelemetryFunc) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, fns...)
	}
}

// NewController validates cfg and returns a controller in its initial
// state.
func NewController(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		config: cfg,
		logger: log.With("component", "targeting"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Tick reads one snapshot from env, steps the controller and applies the
// resulting command. Actuation order is linear acceleration, torque, fire,
// sensor heading and sensor width. If env also implements Overlay the
// diagnostic segments are drawn last.
func (c *Controller) Tick(env Environment) Command {
	snap := ReadSnapshot(env)

	c.mu.Lock()
	prevMode := c.state.Acquisition.Mode
	cmd, next, tel := Step(c.config, c.state, snap)
	c.state = next
	c.last = tel
	observers := c.observers
	c.mu.Unlock()

	if tel.Mode != prevMode {
		c.logger.Debug("acquisition mode changed",
			"tick", tel.Tick,
			"from", prevMode,
			"to", tel.Mode,
			"bearing", tel.Directive.Heading)
	}

	apply(env, cmd)
	if ov, ok := env.(Overlay); ok {
		for _, s := range tel.Segments {
			ov.DrawLine(s.From, s.To, s.Color)
		}
	}

	for _, fn := range observers {
		fn(tel)
	}
	return cmd
}

func apply(env Environment, cmd Command) {
	env.Accelerate(cmd.LinearAccel)
	env.Torque(cmd.Torque)
	if cmd.Fire {
		env.Fire(cmd.Weapon)
	}
	if cmd.RadarHeading != nil {
		env.SetRadarHeading(*cmd.RadarHeading)
	}
	if cmd.RadarWidth != nil {
		env.SetRadarWidth(*cmd.RadarWidth)
	}
}

// Config returns the active configuration.
func (c *Controller) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// State returns a copy of the state between ticks.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LastTelemetry returns the telemetry of the most recent tick.
func (c *Controller) LastTelemetry() Telemetry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// Reset returns the controller to its initial state, keeping the config.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{}
	c.last = Telemetry{}
}
