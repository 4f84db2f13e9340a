package hal

import (
	"image"
	"image/color"
	"sync"
	"unicode/utf8"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// console is a scrolling log pane: a tinyterm terminal drawn into an RGBA
// image that the window host composites under the frame.
type console struct {
	mu  sync.Mutex
	d   *consoleDisplay
	t   *tinyterm.Terminal
	seq uint64
}

func newConsole(width, height int) *console {
	c := &console{d: newConsoleDisplay(width, height)}
	c.t = tinyterm.NewTerminal(c.d)
	c.t.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: 10,
		FontOffset: 7,
	})
	return c
}

func (c *console) WriteLineString(s string) {
	c.WriteLineBytes([]byte(s))
}

// WriteLineBytes draws one line. The terminal renders bytes, not runes, so
// anything outside printable ASCII is shown as '?'.
func (c *console) WriteLineBytes(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.t.Write(asciiLine(b))
	_, _ = c.t.Write([]byte{'\r', '\n'})
	c.seq++
}

// asciiLine replaces each rune that is not printable ASCII with '?'.
func asciiLine(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		r, n := utf8.DecodeRune(b)
		b = b[n:]
		if r < 0x20 || r > 0x7E {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return out
}

// snapshot copies the pane into dst, which must match its size. It reports
// whether anything changed since seq.
func (c *console) snapshot(dst *image.RGBA, seq uint64) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.seq {
		return seq, false
	}
	c.d.copyScrolled(dst)
	return c.seq, true
}

// consoleDisplay implements tinyterm.Displayer on an RGBA image. The
// terminal scrolls the way a panel controller does: it moves the first
// visible row with SetScroll instead of moving pixels.
type consoleDisplay struct {
	img    *image.RGBA
	scroll int
}

func newConsoleDisplay(width, height int) *consoleDisplay {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}
	return &consoleDisplay{img: img}
}

func (d *consoleDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d *consoleDisplay) SetPixel(x, y int16, c color.RGBA) {
	if !image.Pt(int(x), int(y)).In(d.img.Bounds()) {
		return
	}
	c.A = 0xFF
	d.img.SetRGBA(int(x), int(y), c)
}

func (d *consoleDisplay) Display() error { return nil }

func (d *consoleDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height)).Intersect(d.img.Bounds())
	c.A = 0xFF
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			d.img.SetRGBA(px, py, c)
		}
	}
	return nil
}

func (d *consoleDisplay) SetScroll(line int16) {
	h := d.img.Bounds().Dy()
	if h <= 0 {
		return
	}
	d.scroll = ((int(line) % h) + h) % h
}

// copyScrolled writes the pane to dst as it appears on screen, starting at
// the scroll row.
func (d *consoleDisplay) copyScrolled(dst *image.RGBA) {
	h := d.img.Bounds().Dy()
	stride := d.img.Stride
	for y := 0; y < h; y++ {
		src := ((y + d.scroll) % h) * stride
		copy(dst.Pix[y*dst.Stride:], d.img.Pix[src:src+stride])
	}
}

func (d *consoleDisplay) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}
