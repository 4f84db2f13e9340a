package project

import (
	"image"
	"image/color"
)

// Surface is an RGB888 pixel grid.
//
// It satisfies the tinygo drivers.Displayer contract so tinyfont can draw on
// it. Pixel writes outside the grid are dropped.
type Surface struct {
	w   int
	h   int
	pix []byte
}

// NewSurface returns a black w x h surface.
func NewSurface(w, h int) *Surface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Surface{w: w, h: h, pix: make([]byte, w*h*3)}
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.w }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.h }

// Size implements drivers.Displayer.
func (s *Surface) Size() (x, y int16) {
	return int16(s.w), int16(s.h)
}

// SetPixel implements drivers.Displayer; writes outside the grid are dropped.
func (s *Surface) SetPixel(x, y int16, c color.RGBA) {
	s.set(int(x), int(y), c)
}

// Display implements drivers.Displayer. The surface is not buffered, so there
// is nothing to flush.
func (s *Surface) Display() error { return nil }

func (s *Surface) set(x, y int, c color.RGBA) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return
	}
	off := (y*s.w + x) * 3
	s.pix[off] = c.R
	s.pix[off+1] = c.G
	s.pix[off+2] = c.B
}

// Fill paints every pixel with c.
func (s *Surface) Fill(c color.RGBA) {
	for i := 0; i+2 < len(s.pix); i += 3 {
		s.pix[i] = c.R
		s.pix[i+1] = c.G
		s.pix[i+2] = c.B
	}
}

// RGBAt returns the pixel at (x, y); out of range reads return opaque black.
func (s *Surface) RGBAt(x, y int) color.RGBA {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return color.RGBA{A: 0xFF}
	}
	off := (y*s.w + x) * 3
	return color.RGBA{R: s.pix[off], G: s.pix[off+1], B: s.pix[off+2], A: 0xFF}
}

// Image converts the surface into a new opaque RGBA image. The result shares
// nothing with s.
func (s *Surface) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.w, s.h))
	src := s.pix
	dst := img.Pix
	for i, j := 0, 0; i+2 < len(src) && j+3 < len(dst); i, j = i+3, j+4 {
		dst[j+0] = src[i]
		dst[j+1] = src[i+1]
		dst[j+2] = src[i+2]
		dst[j+3] = 0xFF
	}
	return img
}
