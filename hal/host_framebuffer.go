package hal

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

// hostFramebuffer keeps the most recently presented frame for the host UI.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	img    *image.RGBA
	seq    uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	return &hostFramebuffer{width: width, height: height}
}

func (f *hostFramebuffer) Size() (w, h int) { return f.width, f.height }

func (f *hostFramebuffer) Present(img *image.RGBA) error {
	if img == nil {
		return errors.New("present: nil frame")
	}
	if b := img.Bounds(); b.Dx() != f.width || b.Dy() != f.height {
		return fmt.Errorf("present %dx%d on %dx%d display: %w", b.Dx(), b.Dy(), f.width, f.height, ErrFrameSize)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.img = img
	f.seq++
	return nil
}

// latest returns the newest frame and how many frames have been presented.
func (f *hostFramebuffer) latest() (*image.RGBA, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.img, f.seq
}
