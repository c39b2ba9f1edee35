package timeline

import (
	"errors"
	"fmt"
)

// ErrInvalidTimeline is returned when phase windows are malformed.
var ErrInvalidTimeline = errors.New("invalid timeline")

// ConfigError describes a malformed timeline.
type ConfigError struct {
	Kind     error
	Timeline string
	Msg      string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	prefix := e.Kind.Error()
	if e.Timeline != "" {
		prefix = fmt.Sprintf("%s %q", prefix, e.Timeline)
	}
	if e.Msg == "" {
		return prefix
	}
	return fmt.Sprintf("%s: %s", prefix, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Kind }

func invalidf(name, format string, args ...any) error {
	return &ConfigError{Kind: ErrInvalidTimeline, Timeline: name, Msg: fmt.Sprintf(format, args...)}
}
