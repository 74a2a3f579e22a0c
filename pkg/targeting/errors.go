package targeting

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrInvalidConfig is returned (wrapped in *ConfigError) when a Config
	// fails validation.
	ErrInvalidConfig = errors.New("targeting: invalid config")
)

// ConfigError identifies the offending configuration field.
type ConfigError struct {
	// Field is the JSON name of the field.
	Field string

	// Reason says what the field must satisfy.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("targeting: invalid config: %s %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidConfig) match.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
