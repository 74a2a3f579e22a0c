// turret: runs the targeting controller against the reference arena
// and serves a live telemetry dashboard
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/teslashibe/go-turret/internal/config"
	"github.com/teslashibe/go-turret/internal/log"
	"github.com/teslashibe/go-turret/pkg/arena"
	"github.com/teslashibe/go-turret/pkg/metrics"
	"github.com/teslashibe/go-turret/pkg/targeting"
	"github.com/teslashibe/go-turret/pkg/web"
)

var (
	profile      = flag.String("profile", config.Profile(), "Controller profile: "+strings.Join(targeting.Profiles, ", "))
	scenario     = flag.String("scenario", config.Scenario(), "Arena scenario: "+strings.Join(arena.ScenarioNames(), ", "))
	ticks        = flag.Int("ticks", 3600, "Ticks to simulate, 0 runs until interrupted")
	realtime     = flag.Bool("realtime", false, "Pace ticks at the arena tick rate")
	port         = flag.Int("port", config.DashboardPort(), "Dashboard port, 0 disables the dashboard")
	logLevel     = flag.String("log-level", config.LogLevel(), "Log level: debug, info, warn, error")
	noise        = flag.Float64("noise", 0, "Radar position noise std dev (m)")
	seed         = flag.Uint64("seed", 1, "Radar noise seed")
	publishEvery = flag.Int("publish-every", 1, "Publish telemetry every N ticks")
	list         = flag.Bool("list", false, "List profiles and scenarios and exit")
)

func main() {
	flag.Parse()
	log.Init(*logLevel)

	if *list {
		fmt.Println("Profiles: ", strings.Join(targeting.Profiles, ", "))
		for _, s := range arena.Scenarios {
			fmt.Printf("Scenario %-10s %s\n", s.Name, s.Description)
		}
		return
	}

	if err := run(); err != nil {
		log.Error("turret failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	runID := uuid.NewString()
	logger := log.With("run", runID)

	cfg, err := targeting.ProfileConfig(*profile)
	if err != nil {
		return err
	}
	sc, err := arena.ParseScenario(*scenario)
	if err != nil {
		return err
	}

	arenaCfg := arena.DefaultConfig()
	arenaCfg.RadarNoise = *noise
	arenaCfg.Seed = *seed
	arenaCfg.ProjectileSpeed = cfg.ProjectileSpeed
	// Profiles that do not steer the radar expect a sensor that always reports
	arenaCfg.AlwaysVisible = !cfg.SteerSensor
	world, err := arena.New(arenaCfg, sc)
	if err != nil {
		return err
	}

	collector, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	ctrl, err := targeting.NewController(cfg,
		targeting.WithLogger(logger.With("component", "targeting")),
		targeting.WithTelemetry(collector.Observe),
	)
	if err != nil {
		return err
	}

	// Wait for shutdown signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-quit:
			logger.Info("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	var dash *web.Server
	if *port > 0 {
		dash = web.NewServer(web.Options{
			Port:       *port,
			RunID:      runID,
			Profile:    *profile,
			Scenario:   sc.Name,
			Controller: ctrl,
			Score:      world,
			Logger:     logger.With("component", "web"),
		})
		dash.StartAsync(ctx)
	}

	logger.Info("turret started",
		"profile", *profile,
		"scenario", sc.Name,
		"ticks", *ticks,
		"realtime", *realtime,
		"kp", cfg.Kp,
		"kd", cfg.Kd,
		"fire_threshold", cfg.FireThreshold)

	score := loop(ctx, ctrl, world, dash, collector)

	logger.Info("turret finished",
		"ticks", world.Snapshot().Tick,
		"shots", score.Shots,
		"hits", score.Hits,
		"accuracy", fmt.Sprintf("%.1f%%", 100*score.Accuracy()))

	if dash != nil && !*realtime {
		// Leave the dashboard up for inspection until interrupted
		logger.Info("simulation done, dashboard still serving; press Ctrl+C to exit")
		<-ctx.Done()
	}
	return nil
}

// loop ticks the controller and world until the tick budget is spent or
// ctx is cancelled.
func loop(ctx context.Context, ctrl *targeting.Controller, world *arena.World, dash *web.Server, collector *metrics.Collector) arena.Score {
	var pace <-chan time.Time
	if *realtime {
		ticker := time.NewTicker(time.Duration(world.TickDuration() * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}

	every := max(*publishEvery, 1)
	lastHits := 0
	for i := 0; *ticks == 0 || i < *ticks; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return world.Score()
			case <-pace:
			}
		} else if ctx.Err() != nil {
			return world.Score()
		}

		ctrl.Tick(world)
		if dash != nil && i%every == 0 {
			snap := world.Snapshot()
			dash.Publish(ctrl.LastTelemetry(), &snap)
		}
		world.Step()

		score := world.Score()
		collector.ObserveScore(score)
		if score.Hits != lastHits {
			lastHits = score.Hits
			log.Debug("hit", "tick", i, "hits", score.Hits, "shots", score.Shots)
			if dash != nil {
				dash.PublishScore(score)
			}
		}
	}
	return world.Score()
}
