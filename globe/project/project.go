// Package project maps rotated sphere samples onto a 2D surface and draws
// each visible sample as a glyph.
//
// The camera looks down +y: x is horizontal, z is vertical and y is depth.
// There is no perspective and no depth test; later samples overwrite earlier
// ones at the same pixel.
package project

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"asciiglobe/globe/cloud"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	// ErrShape is returned when points, glyphs and the grid disagree in size.
	ErrShape = errors.New("point set does not match grid")

	// ErrViewport is returned for viewports that cannot be rasterized.
	ErrViewport = errors.New("invalid viewport")
)

// Defaults used when a Config leaves a field zero.
var (
	DefaultBackground = color.RGBA{R: 0x00, G: 0x00, B: 0x33, A: 0xFF}
	DefaultForeground = color.RGBA{R: 0x00, G: 0xFF, B: 0xCC, A: 0xFF}
)

// DefaultFont is the glyph font used when a Config has none.
var DefaultFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// Config describes the output viewport and the sample grid it draws.
type Config struct {
	Width  int
	Height int

	Rows int
	Cols int

	Background color.RGBA
	Foreground color.RGBA
	Font       tinyfont.Fonter
}

// Plot is a sample that passed culling, with its screen position.
type Plot struct {
	Index int
	X     int
	Y     int
}

// Projector rasterizes rotated point sets. It keeps no per-frame state.
type Projector struct {
	cfg Config
}

// New validates cfg and fills in defaults.
func New(cfg Config) (*Projector, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > math.MaxInt16 || cfg.Height > math.MaxInt16 {
		return nil, fmt.Errorf("%w: %dx%d", ErrViewport, cfg.Width, cfg.Height)
	}
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, fmt.Errorf("%w: rows=%d cols=%d", ErrShape, cfg.Rows, cfg.Cols)
	}
	if cfg.Background == (color.RGBA{}) {
		cfg.Background = DefaultBackground
	}
	if cfg.Foreground == (color.RGBA{}) {
		cfg.Foreground = DefaultForeground
	}
	if cfg.Font == nil {
		cfg.Font = DefaultFont
	}
	return &Projector{cfg: cfg}, nil
}

// Config returns the effective configuration.
func (p *Projector) Config() Config { return p.cfg }

// Visible reports whether sample i of a rows x cols grid may be drawn: it must
// lie outside the two pole rows and face the viewer (y > 0).
func Visible(rows, cols, i int, pt cloud.Point) bool {
	if i <= cols || i >= rows*(cols+1) {
		return false
	}
	return pt.Y > 0
}

// Cull returns the visible samples with their screen positions, in point
// order. Positions may fall outside the viewport.
func Cull(rows, cols, width, height int, points []cloud.Point) []Plot {
	plots := make([]Plot, 0, len(points)/2)
	for i, pt := range points {
		if !Visible(rows, cols, i, pt) {
			continue
		}
		plots = append(plots, Plot{
			Index: i,
			X:     width/2 + int(math.Round(pt.X)),
			Y:     height/2 + int(math.Round(pt.Z)),
		})
	}
	return plots
}

// Plots culls points against the projector's grid and viewport.
func (p *Projector) Plots(points []cloud.Point) []Plot {
	return Cull(p.cfg.Rows, p.cfg.Cols, p.cfg.Width, p.cfg.Height, points)
}

// Project draws points onto a fresh surface, texturing sample i with
// glyphs[i].
func (p *Projector) Project(points []cloud.Point, glyphs []rune) (*Surface, error) {
	want := cloud.Count(p.cfg.Rows, p.cfg.Cols)
	if len(points) != want || len(glyphs) != want {
		return nil, fmt.Errorf("%w: %d points, %d glyphs, grid needs %d", ErrShape, len(points), len(glyphs), want)
	}

	s := NewSurface(p.cfg.Width, p.cfg.Height)
	s.Fill(p.cfg.Background)
	for _, pl := range p.Plots(points) {
		if pl.X < math.MinInt16 || pl.X > math.MaxInt16 || pl.Y < math.MinInt16 || pl.Y > math.MaxInt16 {
			continue
		}
		tinyfont.WriteLine(s, p.cfg.Font, int16(pl.X), int16(pl.Y), string(glyphs[pl.Index]), p.cfg.Foreground)
	}
	return s, nil
}
