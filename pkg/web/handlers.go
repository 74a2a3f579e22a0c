package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-turret/pkg/hub"
	"github.com/teslashibe/go-turret/pkg/protocol"
	"github.com/teslashibe/go-turret/pkg/targeting"
)

// StatusResponse is the body of GET /api/status
type StatusResponse struct {
	RunID     string              `json:"run_id"`
	Profile   string              `json:"profile"`
	Scenario  string              `json:"scenario,omitempty"`
	Clients   int                 `json:"clients"`
	Telemetry targeting.Telemetry `json:"telemetry"`
}

// handleStatus returns the latest telemetry
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		RunID:     s.opts.RunID,
		Profile:   s.opts.Profile,
		Scenario:  s.opts.Scenario,
		Clients:   s.telemetryHub.ClientCount(),
		Telemetry: s.opts.Controller.LastTelemetry(),
	})
}

// handleConfig returns the active controller configuration
func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(s.opts.Controller.Config())
}

// handleGetTuning returns the current tuning parameters
func (s *Server) handleGetTuning(c *fiber.Ctx) error {
	return c.JSON(s.opts.Controller.Tuning())
}

// handleSetTuning applies tuning parameters; zero fields are left alone
func (s *Server) handleSetTuning(c *fiber.Ctx) error {
	var p targeting.TuningParams
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid tuning body: " + err.Error(),
		})
	}

	if err := s.opts.Controller.SetTuning(p); err != nil {
		var cerr *targeting.ConfigError
		if errors.As(err, &cerr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
				"field": cerr.Field,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(s.opts.Controller.Tuning())
}

// handleScore returns the arena score
func (s *Server) handleScore(c *fiber.Ctx) error {
	if s.opts.Score == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no arena attached",
		})
	}
	score := s.opts.Score.Score()
	return c.JSON(protocol.ScoreData{
		RunID:    s.opts.RunID,
		Shots:    score.Shots,
		Hits:     score.Hits,
		Accuracy: score.Accuracy(),
	})
}

// handleTelemetryWS greets the client, then streams telemetry until it
// disconnects
func (s *Server) handleTelemetryWS(c *websocket.Conn) {
	hello, err := protocol.NewHelloMessage(s.opts.RunID, s.opts.Profile, s.opts.Scenario, s.opts.Controller.Config())
	if err != nil {
		s.logger.Warn("encode hello", "error", err)
		return
	}
	data, err := hello.Bytes()
	if err != nil {
		return
	}
	// Written before the client's write pump starts
	if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
		return
	}

	hub.NewClient(s.telemetryHub, c).Run()
}

// onClientMessage handles messages from websocket clients
func (s *Server) onClientMessage(client *hub.Client, data []byte) {
	reply, err := s.handleClientMessage(data)
	if err != nil {
		s.logger.Warn("client message", "error", err)
		return
	}
	if reply != nil {
		client.Send(hub.NewJSONMessage(reply))
	}
}

// handleClientMessage applies one client message and returns the reply to
// send back, if any.
func (s *Server) handleClientMessage(data []byte) ([]byte, error) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		return nil, err
	}

	switch msg.Type {
	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			return nil, err
		}
		pong, err := protocol.NewPongMessage(ping.ID, ping.Timestamp, time.Now().UnixMilli())
		if err != nil {
			return nil, err
		}
		return pong.Bytes()

	case protocol.TypeTuning:
		p, err := msg.GetTuningParams()
		if err != nil {
			return nil, err
		}
		if err := s.opts.Controller.SetTuning(*p); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		s.logger.Debug("ignoring client message", "type", msg.Type)
		return nil, nil
	}
}
