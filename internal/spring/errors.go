package spring

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned for non-positive or non-finite parameters.
	ErrInvalidConfig = errors.New("invalid spring config")
	// ErrNumericInstability is returned when the solution is not finite.
	ErrNumericInstability = errors.New("spring evaluation is numerically unstable")
)

// ConfigError describes a rejected spring configuration.
type ConfigError struct {
	Kind error
	Msg  string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &ConfigError{Kind: ErrInvalidConfig, Msg: fmt.Sprintf(format, args...)}
}
