package composer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSequence is returned when entries do not match the timeline
	// or the overlap settings cannot be honored.
	ErrInvalidSequence = errors.New("invalid sequence")
	// ErrInvalidComposition is returned for malformed composition settings.
	ErrInvalidComposition = errors.New("invalid composition")
	// ErrDurationMismatch is returned when a composition length disagrees
	// with the timeline that drives it.
	ErrDurationMismatch = errors.New("composition duration does not match timeline")
	// ErrFrameOutOfRange is returned for frames outside [0, Duration).
	ErrFrameOutOfRange = errors.New("frame out of range")
)

// Error carries one of the sentinels above plus context.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
