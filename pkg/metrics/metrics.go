// Package metrics exports controller and arena outcomes as Prometheus
// collectors.
package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/teslashibe/go-turret/pkg/arena"
	"github.com/teslashibe/go-turret/pkg/targeting"
)

const namespace = "turret"

// Collector holds the turret's metrics.
type Collector struct {
	ticks      prometheus.Counter
	fires      prometheus.Counter
	noSolution prometheus.Counter
	reacquired prometheus.Counter
	modeTicks  *prometheus.CounterVec
	angleError prometheus.Gauge
	flightTime prometheus.Gauge
	torque     prometheus.Gauge
	predError  prometheus.Histogram
	shots      prometheus.Gauge
	hits       prometheus.Gauge
	accuracy   prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg uses
// the default registerer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Controller ticks executed",
		}),
		fires: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fire_commands_total",
			Help:      "Ticks on which the controller commanded fire",
		}),
		noSolution: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intercept_unsolved_total",
			Help:      "Tracking ticks without an intercept solution",
		}),
		reacquired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reacquisitions_total",
			Help:      "Searching to tracking transitions",
		}),
		modeTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_ticks_total",
			Help:      "Ticks spent in each acquisition mode",
		}, []string{"mode"}),
		angleError: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "angle_error_radians",
			Help:      "Heading error to the corrected aim point",
		}),
		flightTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flight_time_seconds",
			Help:      "Projectile flight time of the last solved intercept",
		}),
		torque: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "torque",
			Help:      "Commanded torque",
		}),
		predError: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_error_ratio",
			Help:      "Relative error of the one-tick acceleration prediction",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
		shots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "arena_shots",
			Help:      "Bullets fired in the arena",
		}),
		hits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "arena_hits",
			Help:      "Bullets that hit the target",
		}),
		accuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "arena_accuracy_ratio",
			Help:      "Hits per shot",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.ticks, c.fires, c.noSolution, c.reacquired, c.modeTicks,
		c.angleError, c.flightTime, c.torque, c.predError,
		c.shots, c.hits, c.accuracy,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe records one tick of telemetry. It has the signature of
// targeting.TelemetryFunc.
func (c *Collector) Observe(tel targeting.Telemetry) {
	c.ticks.Inc()
	c.modeTicks.WithLabelValues(tel.Mode.String()).Inc()
	if tel.Reacquired {
		c.reacquired.Inc()
	}
	if tel.Fire {
		c.fires.Inc()
	}
	if !tel.Contact {
		return
	}

	if tel.Aim.Solved {
		c.flightTime.Set(tel.Aim.FlightTime)
	} else {
		c.noSolution.Inc()
	}
	c.angleError.Set(tel.AngleError)
	c.torque.Set(tel.Torque)
	if tel.PredictionError > 0 && !math.IsInf(tel.PredictionError, 0) {
		c.predError.Observe(tel.PredictionError)
	}
}

// ObserveScore records the arena score.
func (c *Collector) ObserveScore(s arena.Score) {
	c.shots.Set(float64(s.Shots))
	c.hits.Set(float64(s.Hits))
	c.accuracy.Set(s.Accuracy())
}
