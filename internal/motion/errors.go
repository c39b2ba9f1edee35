package motion

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when input/output ranges cannot be interpolated.
var ErrInvalidRange = errors.New("invalid interpolation range")

// RangeError describes a malformed interpolation range.
type RangeError struct {
	Kind error
	Msg  string
}

func (e *RangeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *RangeError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &RangeError{Kind: ErrInvalidRange, Msg: fmt.Sprintf(format, args...)}
}
