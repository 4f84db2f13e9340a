package anim

import (
	"errors"
	"fmt"
)

// ErrStopped is returned by operations that need a running loop.
var ErrStopped = errors.New("animation loop stopped")

// RenderError is a per-frame failure while rotating, projecting or converting.
// The frame is skipped and the loop backs off.
type RenderError struct {
	Angle float64
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render at %.3f rad: %v", e.Angle, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// HostDeliveryError is a failure reported (or panicked) by the frame sink.
// Delivery is not retried.
type HostDeliveryError struct {
	Frame uint64
	Err   error
}

func (e *HostDeliveryError) Error() string {
	return fmt.Sprintf("deliver frame %d: %v", e.Frame, e.Err)
}

func (e *HostDeliveryError) Unwrap() error { return e.Err }
