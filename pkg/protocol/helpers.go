package protocol

import (
	"time"

	"github.com/teslashibe/go-turret/pkg/arena"
	"github.com/teslashibe/go-turret/pkg/targeting"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewHelloMessage creates a hello message
func NewHelloMessage(runID, profile, scenario string, cfg targeting.Config) (*Message, error) {
	return NewMessage(TypeHello, HelloData{
		RunID:    runID,
		Profile:  profile,
		Scenario: scenario,
		Config:   cfg,
	})
}

// NewTelemetryMessage creates a telemetry message. world may be nil.
func NewTelemetryMessage(runID string, tel targeting.Telemetry, world *arena.Snapshot) (*Message, error) {
	return NewMessage(TypeTelemetry, TelemetryData{
		RunID:     runID,
		Telemetry: tel,
		World:     world,
	})
}

// NewScoreMessage creates a score message
func NewScoreMessage(runID string, s arena.Score) (*Message, error) {
	return NewMessage(TypeScore, ScoreData{
		RunID:    runID,
		Shots:    s.Shots,
		Hits:     s.Hits,
		Accuracy: s.Accuracy(),
	})
}

// NewTuningMessage creates a tuning update message
func NewTuningMessage(p targeting.TuningParams) (*Message, error) {
	return NewMessage(TypeTuning, p)
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
	})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetHelloData extracts hello data from a message
func (m *Message) GetHelloData() (*HelloData, error) {
	var data HelloData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetTelemetryData extracts telemetry from a message
func (m *Message) GetTelemetryData() (*TelemetryData, error) {
	var data TelemetryData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetScoreData extracts score data from a message
func (m *Message) GetScoreData() (*ScoreData, error) {
	var data ScoreData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetTuningParams extracts tuning parameters from a message
func (m *Message) GetTuningParams() (*targeting.TuningParams, error) {
	var data targeting.TuningParams
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
