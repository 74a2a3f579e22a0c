// Package acquisition selects between a wide sweeping search beam and a
// narrow tracking beam for the radar.
package acquisition

import (
	"fmt"
	"math"
	"strings"

	"github.com/teslashibe/go-turret/pkg/geom"
)

// Mode is the sensor acquisition mode.
type Mode int

const (
	ModeSearching Mode = iota
	ModeTracking
)

func (m Mode) String() string {
	switch m {
	case ModeSearching:
		return "SEARCHING"
	case ModeTracking:
		return "TRACKING"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode converts a mode name into a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "SEARCHING", "SEARCH":
		return ModeSearching, nil
	case "TRACKING", "TRACK":
		return ModeTracking, nil
	default:
		return ModeSearching, fmt.Errorf("unknown mode %q", value)
	}
}

// Default beam geometry, radians.
const (
	DefaultSweepStep      = -math.Pi / 2
	DefaultSearchAperture = math.Pi / 2
	DefaultTrackAperture  = math.Pi / 20
)

// Policy holds the fixed sweep and aperture choices.
type Policy struct {
	SweepStep      float64 `json:"sweep_step"`      // Search heading advance per tick
	SearchAperture float64 `json:"search_aperture"` // Wide beam while searching
	TrackAperture  float64 `json:"track_aperture"`  // Narrow beam while tracking
}

// DefaultPolicy returns the quarter-turn sweep used by the radar profile.
func DefaultPolicy() Policy {
	return Policy{
		SweepStep:      DefaultSweepStep,
		SearchAperture: DefaultSearchAperture,
		TrackAperture:  DefaultTrackAperture,
	}
}

// State is the policy's memory between ticks. The zero value is Searching
// with the sweep at heading 0.
type State struct {
	Mode          Mode    `json:"mode"`
	SearchHeading float64 `json:"search_heading"`
}

// Directive is the sensor pointing to apply on the next tick.
type Directive struct {
	Heading  float64 `json:"heading"`
	Aperture float64 `json:"aperture"`
}

// Result is the outcome of one policy step.
type Result struct {
	Mode       Mode      `json:"mode"`
	Directive  Directive `json:"directive"`
	Reacquired bool      `json:"reacquired"` // Searching → Tracking this tick
	Lost       bool      `json:"lost"`       // Tracking → Searching this tick
}

// Step advances the policy by one tick. contact reports whether the sensor
// returned a target this tick; bearing is the direction from the agent to
// the last-known target position and is ignored without a contact.
//
// The returned directive governs the sensor on the following tick.
func (p Policy) Step(st State, contact bool, bearing float64) (Result, State) {
	prev := st.Mode
	next := st

	var res Result
	if contact {
		next.Mode = ModeTracking
		// Resume the sweep from the target's bearing if it is lost again
		next.SearchHeading = geom.Wrap(bearing)
		res.Directive = Directive{Heading: geom.Wrap(bearing), Aperture: p.TrackAperture}
	} else {
		next.Mode = ModeSearching
		next.SearchHeading = geom.Wrap(st.SearchHeading + p.SweepStep)
		res.Directive = Directive{Heading: next.SearchHeading, Aperture: p.SearchAperture}
	}

	res.Mode = next.Mode
	res.Reacquired = prev == ModeSearching && next.Mode == ModeTracking
	res.Lost = prev == ModeTracking && next.Mode == ModeSearching
	return res, next
}
