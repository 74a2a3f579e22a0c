package arena

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-turret/pkg/geom"
)

// Scenario is a named starting arrangement.
type Scenario struct {
	Name         string
	Description  string
	AgentHeading float64
	Target       Motion
}

// Scenarios lists the built-in scenarios in presentation order.
var Scenarios = []Scenario{
	{
		Name:        "stationary",
		Description: "Target holds still off the agent's bow",
		Target:      Stationary{At: geom.FromAngle(1.0, 800)},
	},
	{
		Name:        "crossing",
		Description: "Target crosses at constant velocity",
		Target:      Linear{Origin: geom.V(800, -400), Velocity: geom.V(0, 80)},
	},
	{
		Name:        "circle",
		Description: "Target orbits the agent",
		Target:      Circle{Radius: 1200, AngularSpeed: 0.08, Phase: math.Pi / 3},
	},
	{
		Name:        "weave",
		Description: "Target approaches while weaving",
		Target: Weave{
			Origin:    geom.V(-600, 1500),
			Velocity:  geom.V(20, -60),
			Amplitude: 150,
			Period:    6,
		},
	},
}

// ParseScenario returns the named built-in scenario.
func ParseScenario(name string) (Scenario, error) {
	for _, s := range Scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
}

// ScenarioNames returns the names of the built-in scenarios.
func ScenarioNames() []string {
	names := make([]string, len(Scenarios))
	for i, s := range Scenarios {
		names[i] = s.Name
	}
	return names
}
