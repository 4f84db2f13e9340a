package cloud

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"
)

var (
	// ErrGlyphCount is returned when an asset does not hold exactly one glyph
	// per sample.
	ErrGlyphCount = errors.New("glyph count mismatch")

	// ErrGlyphNotPrintable is returned for control or otherwise unprintable runes.
	ErrGlyphNotPrintable = errors.New("glyph not printable")
)

// LoadGlyphs reads a glyph asset. Line breaks are not counted.
func LoadGlyphs(path string, rows, cols int) ([]rune, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glyph asset %q: %w", path, err)
	}

	s := strings.NewReplacer("\r", "", "\n", "").Replace(string(b))
	glyphs := []rune(s)
	if err := checkGlyphs(glyphs, Count(rows, cols)); err != nil {
		return nil, fmt.Errorf("glyph asset %q: %w", path, err)
	}
	return glyphs, nil
}

func checkGlyphs(glyphs []rune, want int) error {
	if len(glyphs) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrGlyphCount, len(glyphs), want)
	}
	for i, r := range glyphs {
		if r == unicode.ReplacementChar || !unicode.IsPrint(r) {
			return fmt.Errorf("%w: %U at %d", ErrGlyphNotPrintable, r, i)
		}
	}
	return nil
}

// fallbackLand and fallbackSea texture the synthetic pattern.
const (
	fallbackLand = "#@%"
	fallbackSea  = ".~"
)

// FallbackGlyphs synthesizes a deterministic glyph table for the grid: a
// banded land/sea pattern derived from each sample's latitude and longitude.
func FallbackGlyphs(rows, cols int) ([]rune, error) {
	if rows <= 0 || cols <= 0 {
		return nil, &AssetError{Rows: rows, Cols: cols, Reason: "cannot synthesize fallback glyphs"}
	}

	glyphs := make([]rune, 0, Count(rows, cols))
	for i := 0; i <= rows; i++ {
		lat := math.Pi * float64(i) / float64(rows)
		for j := 0; j <= cols; j++ {
			lon := 2 * math.Pi * float64(j) / float64(cols)
			if math.Sin(3*lon)*math.Sin(2*lat)+0.3*math.Cos(5*lon+lat) > 0.2 {
				glyphs = append(glyphs, rune(fallbackLand[(i+j)%len(fallbackLand)]))
			} else {
				glyphs = append(glyphs, rune(fallbackSea[(i*3+j)%len(fallbackSea)]))
			}
		}
	}
	return glyphs, nil
}
