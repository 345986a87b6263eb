package config

import (
	"errors"
	"fmt"
)

// ErrMissingConfig is returned when no configuration file could be found.
var ErrMissingConfig = errors.New("config file not found")

// ValidationError reports a missing or invalid configuration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
