package arena

import "errors"

// Sentinel errors for common error conditions.
var (
	// ErrUnknownScenario is returned when a scenario name is not recognized.
	ErrUnknownScenario = errors.New("arena: unknown scenario")

	// ErrInvalidConfig is returned when an arena Config fails validation.
	ErrInvalidConfig = errors.New("arena: invalid config")
)
