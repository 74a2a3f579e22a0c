// Package web provides the live telemetry dashboard: a JSON API, a
// websocket stream and a Prometheus endpoint.
package web

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/teslashibe/go-turret/internal/log"
	"github.com/teslashibe/go-turret/pkg/arena"
	"github.com/teslashibe/go-turret/pkg/hub"
	"github.com/teslashibe/go-turret/pkg/protocol"
	"github.com/teslashibe/go-turret/pkg/targeting"
)

// Controller is the part of the targeting controller the dashboard uses.
type Controller interface {
	Config() targeting.Config
	Tuning() targeting.TuningParams
	SetTuning(p targeting.TuningParams) error
	LastTelemetry() targeting.Telemetry
}

// ScoreSource reports the arena score.
type ScoreSource interface {
	Score() arena.Score
}

// Options configures a Server.
type Options struct {
	Port     int
	RunID    string
	Profile  string
	Scenario string

	Controller Controller
	Score      ScoreSource         // Optional
	Gatherer   prometheus.Gatherer // Defaults to the default registry
	Logger     *slog.Logger
}

// Server is the web dashboard server
type Server struct {
	app    *fiber.App
	opts   Options
	logger *slog.Logger

	// Hub for websocket broadcast (thread-safe!)
	telemetryHub *hub.Hub
}

// NewServer creates a new web dashboard server
func NewServer(opts Options) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.With("component", "web")
	}

	s := &Server{
		opts:         opts,
		logger:       logger,
		telemetryHub: hub.New("telemetry"),
	}
	s.telemetryHub.SetLogger(logger.With("hub", "telemetry"))
	s.telemetryHub.OnMessage(s.onClientMessage)

	app := fiber.New(fiber.Config{
		AppName:               "Turret Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/config", s.handleConfig)
	api.Get("/tuning", s.handleGetTuning)
	api.Put("/tuning", s.handleSetTuning)
	api.Get("/score", s.handleScore)

	// Prometheus
	metrics := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}),
	)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metrics(c.Context())
		return nil
	})

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/telemetry", websocket.New(s.handleTelemetryWS))

	s.app = app
	return s
}

// Start runs the hub and serves on the configured port until ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(s.opts.Port))
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("web dashboard listening", "addr", "http://"+ln.Addr().String())

	go s.telemetryHub.Run(ctx)
	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			s.logger.Warn("web shutdown", "error", err)
		}
	}()

	return s.app.Listener(ln)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(ctx context.Context) {
	go func() {
		if err := s.Start(ctx); err != nil {
			s.logger.Error("web server error", "error", err)
		}
	}()
}

// Publish broadcasts one tick of telemetry to websocket clients. world may
// be nil.
func (s *Server) Publish(tel targeting.Telemetry, world *arena.Snapshot) {
	if s.telemetryHub.ClientCount() == 0 {
		return
	}
	msg, err := protocol.NewTelemetryMessage(s.opts.RunID, tel, world)
	if err != nil {
		s.logger.Warn("encode telemetry", "error", err)
		return
	}
	s.broadcast(msg)
}

// PublishScore broadcasts the arena score to websocket clients.
func (s *Server) PublishScore(score arena.Score) {
	msg, err := protocol.NewScoreMessage(s.opts.RunID, score)
	if err != nil {
		s.logger.Warn("encode score", "error", err)
		return
	}
	s.broadcast(msg)
}

func (s *Server) broadcast(msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		s.logger.Warn("encode message", "type", msg.Type, "error", err)
		return
	}
	s.telemetryHub.Broadcast(hub.NewJSONMessage(data))
}

// GetTelemetryHub returns the telemetry hub for external use
func (s *Server) GetTelemetryHub() *hub.Hub {
	return s.telemetryHub
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
