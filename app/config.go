package app

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"asciiglobe/globe/anim"

	"github.com/lucasb-eyer/go-colorful"
)

// Config holds everything the system needs besides the HAL.
type Config struct {
	// AssetPath is the glyph map. A missing or bad file selects the built-in
	// map instead of failing.
	AssetPath string

	Rows   int
	Cols   int
	Radius float64

	// Width and Height size the host display. The system itself draws at
	// whatever size the HAL display reports.
	Width  int
	Height int

	Step     float64
	Interval time.Duration
	Backoff  time.Duration

	// Background and Foreground are hex colors such as "#000033".
	Background string
	Foreground string

	Logger *slog.Logger
}

// DefaultConfig returns the stock globe: a 34x139 grid of radius 60 on a
// 150x150 display, stepping 0.05 rad every 33ms.
func DefaultConfig() Config {
	return Config{
		AssetPath:  "assets/globe.txt",
		Rows:       34,
		Cols:       139,
		Radius:     60,
		Width:      150,
		Height:     150,
		Step:       anim.DefaultStep,
		Interval:   anim.DefaultInterval,
		Backoff:    anim.DefaultBackoff,
		Background: "#000033",
		Foreground: "#00ffcc",
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.Rows <= 0 || c.Cols <= 0:
		return fmt.Errorf("config: grid %dx%d must be positive", c.Rows, c.Cols)
	case math.IsNaN(c.Radius) || math.IsInf(c.Radius, 0) || c.Radius <= 0:
		return fmt.Errorf("config: radius %v must be positive and finite", c.Radius)
	case c.Width <= 0 || c.Height <= 0 || c.Width > math.MaxInt16 || c.Height > math.MaxInt16:
		return fmt.Errorf("config: display %dx%d out of range", c.Width, c.Height)
	case math.IsNaN(c.Step) || math.IsInf(c.Step, 0):
		return fmt.Errorf("config: step %v must be finite", c.Step)
	case c.Interval <= 0:
		return fmt.Errorf("config: interval %v must be positive", c.Interval)
	case c.Backoff <= 0:
		return fmt.Errorf("config: backoff %v must be positive", c.Backoff)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("config: background: %w", err)
	}
	if _, err := ParseColor(c.Foreground); err != nil {
		return fmt.Errorf("config: foreground: %w", err)
	}
	return nil
}

// ParseColor parses "#rrggbb" or "#rgb" into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{}, errors.New("empty color")
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}
