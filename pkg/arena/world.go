// Package arena is a headless 2D kinematic world with one agent, one target,
// a steerable radar and constant-speed bullets. It implements the
// environment interfaces of the targeting package.
package arena

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/teslashibe/go-turret/pkg/geom"
	"github.com/teslashibe/go-turret/pkg/targeting"
)

// Bullet is a projectile in flight.
type Bullet struct {
	Position geom.Vec2 `json:"position"`
	Velocity geom.Vec2 `json:"velocity"`
	Age      float64   `json:"age"`
}

// Score counts shots and hits.
type Score struct {
	Shots int `json:"shots"`
	Hits  int `json:"hits"`
}

// Accuracy returns hits per shot, 0 before the first shot.
func (s Score) Accuracy() float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Shots)
}

// Radar is the beam pointing in effect for a tick.
type Radar struct {
	Heading float64 `json:"heading"`
	Width   float64 `json:"width"`
}

// Line is a diagnostic line drawn during the last tick.
type Line struct {
	From  geom.Vec2 `json:"from"`
	To    geom.Vec2 `json:"to"`
	Color uint32    `json:"color"`
}

// Snapshot is a copy of the visible world state.
type Snapshot struct {
	Tick       uint64              `json:"tick"`
	Time       float64             `json:"time"`
	Agent      targeting.SelfState `json:"agent"`
	AngularVel float64             `json:"angular_velocity"`
	Target     geom.Vec2           `json:"target"`
	Radar      Radar               `json:"radar"`
	Bullets    int                 `json:"bullets"`
	Score      Score               `json:"score"`
}

// World is the simulation. The agent's commands are collected during a
// tick and take effect in Step; radar commands take effect from the next
// tick's scan. Safe for concurrent use.
type World struct {
	mu     sync.RWMutex
	config Config
	motion Motion
	rng    *rand.Rand

	tick uint64
	time float64

	agent      targeting.SelfState
	angularVel float64
	target     geom.Vec2
	bullets    []Bullet
	score      Score
	reload     int

	radar        Radar
	pendingRadar Radar

	// Commands for the current tick
	linearAccel  geom.Vec2
	angularAccel float64
	fire         bool

	lines []Line
}

// New builds a world running scenario s.
func New(cfg Config, s Scenario) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		config: cfg,
		motion: s.Target,
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		agent:  targeting.SelfState{Heading: geom.Wrap(s.AgentHeading)},
		target: s.Target.Position(0),
		radar:  Radar{Heading: geom.Wrap(s.AgentHeading), Width: cfg.RadarWidth},
	}
	w.pendingRadar = w.radar
	return w, nil
}

// Self implements targeting.SelfReader.
func (w *World) Self() targeting.SelfState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.agent
}

// TickDuration implements targeting.Clock.
func (w *World) TickDuration() float64 {
	return w.config.TickDuration
}

// Scan implements targeting.Sensor. The target is reported when it lies
// within range and inside the current beam, with Gaussian position noise.
func (w *World) Scan() (targeting.Observation, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rel := w.target.Sub(w.agent.Position)
	if !w.config.AlwaysVisible {
		if rel.Length() > w.config.RadarRange {
			return targeting.Observation{}, false
		}
		if math.Abs(geom.AngleDiff(w.radar.Heading, rel.Angle())) > w.radar.Width/2 {
			return targeting.Observation{}, false
		}
	}

	pos := w.target
	if n := w.config.RadarNoise; n > 0 {
		pos = pos.Add(geom.V(w.rng.NormFloat64()*n, w.rng.NormFloat64()*n))
	}
	return targeting.Observation{Position: pos}, true
}

// Accelerate implements targeting.Actuator. The magnitude is clamped.
func (w *World) Accelerate(a geom.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !a.IsFinite() {
		a = geom.Vec2{}
	}
	if limit := w.config.MaxLinearAccel; a.Length() > limit {
		if limit == 0 {
			a = geom.Vec2{}
		} else {
			a = a.Scale(limit / a.Length())
		}
	}
	w.linearAccel = a
}

// Torque implements targeting.Actuator. Torque is angular acceleration,
// clamped to the configured maximum.
func (w *World) Torque(t float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !geom.IsFinite(t) {
		t = 0
	}
	w.angularAccel = math.Max(-w.config.MaxAngularAccel, math.Min(w.config.MaxAngularAccel, t))
}

// Fire implements targeting.Actuator. Only one weapon exists; the index is
// accepted and ignored.
func (w *World) Fire(uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fire = true
}

// SetRadarHeading implements targeting.SensorSteer.
func (w *World) SetRadarHeading(h float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if geom.IsFinite(h) {
		w.pendingRadar.Heading = geom.Wrap(h)
	}
}

// SetRadarWidth implements targeting.SensorSteer.
func (w *World) SetRadarWidth(width float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if geom.IsFinite(width) && width > 0 {
		w.pendingRadar.Width = math.Min(width, 2*math.Pi)
	}
}

// DrawLine implements targeting.Overlay.
func (w *World) DrawLine(from, to geom.Vec2, color uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines = append(w.lines, Line{From: from, To: to, Color: color})
}

// Step advances the world by one tick: fire, move the agent, the target and
// the bullets, score hits, then apply pending radar commands.
func (w *World) Step() {
	w.mu.Lock()
	defer w.mu.Unlock()

	dt := w.config.TickDuration

	if w.reload > 0 {
		w.reload--
	}
	if w.fire && w.reload == 0 {
		dir := geom.FromAngle(w.agent.Heading, w.config.ProjectileSpeed)
		w.bullets = append(w.bullets, Bullet{
			Position: w.agent.Position,
			Velocity: w.agent.Velocity.Add(dir),
		})
		w.score.Shots++
		w.reload = w.config.ReloadTicks
	}

	// Semi-implicit Euler
	w.angularVel += w.angularAccel * dt
	w.agent.Heading = geom.Wrap(w.agent.Heading + w.angularVel*dt)
	w.agent.Velocity = w.agent.Velocity.Add(w.linearAccel.Scale(dt))
	w.agent.Position = w.agent.Position.Add(w.agent.Velocity.Scale(dt))

	prevTarget := w.target
	w.tick++
	w.time = float64(w.tick) * dt
	w.target = w.motion.Position(w.time)

	live := w.bullets[:0]
	for _, b := range w.bullets {
		from := b.Position
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		b.Age += dt
		if sweptHit(from.Sub(prevTarget), b.Position.Sub(w.target), w.config.HitRadius) {
			w.score.Hits++
			continue
		}
		if b.Age < w.config.BulletLifetime {
			live = append(live, b)
		}
	}
	w.bullets = live

	w.radar = w.pendingRadar
	w.fire = false
	w.linearAccel = geom.Vec2{}
	w.angularAccel = 0
	w.lines = w.lines[:0]
}

// sweptHit reports whether the segment a→b, in the target's frame, passes
// within r of the origin.
func sweptHit(a, b geom.Vec2, r float64) bool {
	d := b.Sub(a)
	t := 0.0
	if l := d.LengthSq(); l > 0 {
		t = math.Max(0, math.Min(1, -a.Dot(d)/l))
	}
	return a.Add(d.Scale(t)).LengthSq() <= r*r
}

// Score returns the shot and hit counts so far.
func (w *World) Score() Score {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.score
}

// Radar returns the beam in effect for the next scan.
func (w *World) Radar() Radar {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.radar
}

// Lines returns the diagnostic lines drawn since the last Step.
func (w *World) Lines() []Line {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Line(nil), w.lines...)
}

// Bullets returns the bullets in flight.
func (w *World) Bullets() []Bullet {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Bullet(nil), w.bullets...)
}

// Snapshot returns a copy of the visible world state.
func (w *World) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Snapshot{
		Tick:       w.tick,
		Time:       w.time,
		Agent:      w.agent,
		AngularVel: w.angularVel,
		Target:     w.target,
		Radar:      w.radar,
		Bullets:    len(w.bullets),
		Score:      w.score,
	}
}
