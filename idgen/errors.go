package idgen

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrClockMovedBackward = errors.New("clock moved backward")
	ErrInvalidIdentity    = errors.New("invalid generator identity")
	ErrTimestampOverflow  = errors.New("timestamp out of range for the generator epoch")
	ErrInvalidEpoch       = errors.New("invalid epoch")
	ErrNilClock           = errors.New("nil clock")
)

// ClockMovedBackwardError reports that the clock returned Now, earlier than
// Last, the timestamp of the most recent ID.
type ClockMovedBackwardError struct {
	Last int64
	Now  int64
}

func (e *ClockMovedBackwardError) Error() string {
	return fmt.Sprintf("clock moved backward by %v (last %v, now %v)", e.Behind(), e.Last, e.Now)
}

func (e *ClockMovedBackwardError) Unwrap() error {
	return ErrClockMovedBackward
}

// Behind returns how far the clock is behind the last generated ID.
func (e *ClockMovedBackwardError) Behind() time.Duration {
	return time.Duration(e.Last-e.Now) * time.Millisecond
}

type InvalidIdentityError struct {
	Field string
	Value int
	Max   int
}

func (e *InvalidIdentityError) Error() string {
	return fmt.Sprintf("%v %v out of range [0, %v]", e.Field, e.Value, e.Max)
}

func (e *InvalidIdentityError) Unwrap() error {
	return ErrInvalidIdentity
}
