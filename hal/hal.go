package hal

import (
	"context"
	"errors"
	"image"
	"io"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrFrameSize is returned by Display.Present for frames that do not match
	// the display.
	ErrFrameSize = errors.New("frame size mismatch")
)

// Display receives finished frames.
//
// Present takes ownership of img; the caller must not touch it afterwards.
type Display interface {
	Size() (w, h int)
	Present(img *image.RGBA) error
}

// App is a system attached to a HAL. Run blocks until Close is called or ctx
// is done.
type App interface {
	Run(ctx context.Context) error
	Close() error
}

// HAL provides the only contact point between the renderer and the outside
// world.
type HAL interface {
	Logger() Logger
	Display() Display
}

// HostConfig sizes the host display and picks the log destination.
type HostConfig struct {
	Width     int
	Height    int
	LogOutput io.Writer
}
