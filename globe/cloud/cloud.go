package cloud

import (
	"fmt"
	"math"
)

// Point is one sample on the sphere surface.
type Point struct {
	X, Y, Z float64
}

// Norm returns the distance from the origin.
func (p Point) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// AssetError reports a cloud configuration that cannot produce a glyph table,
// not even the synthetic fallback.
type AssetError struct {
	Rows   int
	Cols   int
	Radius float64
	Reason string
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("cloud: %s (rows=%d cols=%d radius=%g)", e.Reason, e.Rows, e.Cols, e.Radius)
}

// Cloud is the static sphere point cloud plus its glyph table.
//
// It is immutable after construction; accessors hand out copies.
type Cloud struct {
	rows   int
	cols   int
	radius float64

	points []Point
	glyphs []rune

	fallback error
}

// Count returns the number of samples for a rows x cols grid.
func Count(rows, cols int) int {
	return (rows + 1) * (cols + 1)
}

// Build generates the cloud for the given grid.
//
// glyphs must hold exactly Count(rows, cols) printable runes; anything else is
// replaced with FallbackGlyphs. Build only fails when the grid itself is
// unusable.
func Build(rows, cols int, radius float64, glyphs []rune) (*Cloud, error) {
	if err := checkGrid(rows, cols, radius); err != nil {
		return nil, err
	}

	c := &Cloud{
		rows:   rows,
		cols:   cols,
		radius: radius,
		points: samplePoints(rows, cols, radius),
	}

	if err := checkGlyphs(glyphs, Count(rows, cols)); err != nil {
		fb, ferr := FallbackGlyphs(rows, cols)
		if ferr != nil {
			return nil, ferr
		}
		c.glyphs = fb
		c.fallback = err
	} else {
		c.glyphs = append([]rune(nil), glyphs...)
	}
	return c, nil
}

// Load reads the glyph asset at path and builds the cloud. A missing or
// malformed asset falls back to the synthetic pattern; see Cloud.Fallback.
func Load(path string, rows, cols int, radius float64) (*Cloud, error) {
	if err := checkGrid(rows, cols, radius); err != nil {
		return nil, err
	}
	glyphs, err := LoadGlyphs(path, rows, cols)
	if err != nil {
		fb, ferr := FallbackGlyphs(rows, cols)
		if ferr != nil {
			return nil, ferr
		}
		c, berr := Build(rows, cols, radius, fb)
		if berr != nil {
			return nil, berr
		}
		c.fallback = err
		return c, nil
	}
	return Build(rows, cols, radius, glyphs)
}

func checkGrid(rows, cols int, radius float64) error {
	switch {
	case rows <= 0 || cols <= 0:
		return &AssetError{Rows: rows, Cols: cols, Radius: radius, Reason: "grid dimensions must be positive"}
	case math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0:
		return &AssetError{Rows: rows, Cols: cols, Radius: radius, Reason: "radius must be finite and positive"}
	}
	return nil
}

// samplePoints walks latitude rows outer and longitude columns inner, both
// ends inclusive.
func samplePoints(rows, cols int, radius float64) []Point {
	pts := make([]Point, 0, Count(rows, cols))
	for i := 0; i <= rows; i++ {
		lat := math.Pi * float64(i) / float64(rows)
		sinLat, cosLat := math.Sincos(lat)
		for j := 0; j <= cols; j++ {
			lon := 2 * math.Pi * float64(j) / float64(cols)
			sinLon, cosLon := math.Sincos(lon)
			pts = append(pts, Point{
				X: round2(radius * sinLat * cosLon),
				Y: round2(radius * sinLat * sinLon),
				Z: round2(radius * cosLat),
			})
		}
	}
	return pts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rows returns the number of latitude divisions.
func (c *Cloud) Rows() int { return c.rows }

// Cols returns the number of longitude divisions.
func (c *Cloud) Cols() int { return c.cols }

// Radius returns the sphere radius.
func (c *Cloud) Radius() float64 { return c.radius }

// Len returns the number of samples, Count(Rows(), Cols()).
func (c *Cloud) Len() int { return len(c.points) }

// Point returns base sample i.
func (c *Cloud) Point(i int) Point { return c.points[i] }

// Glyph returns the glyph texturing sample i.
func (c *Cloud) Glyph(i int) rune { return c.glyphs[i] }

// Fallback returns why the synthetic glyph pattern is in use, or nil when the
// asset was accepted.
func (c *Cloud) Fallback() error { return c.fallback }

// Points returns a copy of the base coordinates.
func (c *Cloud) Points() []Point {
	return append([]Point(nil), c.points...)
}

// Glyphs returns a copy of the glyph table.
func (c *Cloud) Glyphs() []rune {
	return append([]rune(nil), c.glyphs...)
}
