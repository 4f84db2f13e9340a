package hal

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// upperHalf paints the top pixel in the foreground and the bottom pixel in the
// background, giving each cell two square-ish pixels.
const upperHalf = '▀'

// TerminalConfig controls the terminal host runner.
type TerminalConfig struct {
	// Hz is how often the screen is redrawn from the latest frame.
	Hz int
}

// RunTerminal draws presented frames into the controlling terminal with tcell.
// It blocks until ctx is done, Esc, q or Ctrl-C is pressed, or the app stops.
func RunTerminal(ctx context.Context, host HostConfig, newApp func(HAL) (App, error), cfg TerminalConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()

	h := newHost(host)
	app, err := newApp(h)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		err := app.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		// Unblocks PollEvent.
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})
	g.Go(func() error {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return nil
			case *tcell.EventInterrupt:
				if gctx.Err() != nil {
					return nil
				}
			case *tcell.EventKey:
				if isQuitKey(ev) {
					cancel()
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	})
	g.Go(func() error {
		t := time.NewTicker(time.Second / time.Duration(cfg.Hz))
		defer t.Stop()
		var (
			seq        uint64
			cols, rows int
			scaled     *image.RGBA
		)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
			}
			img, n := h.fb.latest()
			w, ht := screen.Size()
			if img == nil || (n == seq && w == cols && ht == rows) {
				continue
			}
			if w != cols || ht != rows {
				cols, rows = w, ht
				scaled = nil
				screen.Clear()
			}
			seq = n
			scaled = fitToCells(scaled, img, cols, rows)
			drawHalfBlocks(screen, scaled, cols, rows)
			screen.Show()
		}
	})

	err = g.Wait()
	if cerr := app.Close(); err == nil {
		err = cerr
	}
	return err
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// fitToCells scales src to the largest square that fits a cols x rows cell
// grid at two pixels per cell. dst is reused when it already has that size.
// CatmullRom widens its kernel when shrinking, so 1px glyph strokes survive.
func fitToCells(dst, src *image.RGBA, cols, rows int) *image.RGBA {
	side := min(cols, rows*2)
	if side <= 0 {
		return nil
	}
	if dst == nil || dst.Bounds().Dx() != side || dst.Bounds().Dy() != side {
		dst = image.NewRGBA(image.Rect(0, 0, side, side))
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// drawHalfBlocks centers img on the screen, one cell per two pixel rows.
func drawHalfBlocks(screen tcell.Screen, img *image.RGBA, cols, rows int) {
	if img == nil {
		return
	}
	b := img.Bounds()
	cellRows := (b.Dy() + 1) / 2
	offX := (cols - b.Dx()) / 2
	offY := (rows - cellRows) / 2
	for cy := 0; cy < cellRows; cy++ {
		for x := 0; x < b.Dx(); x++ {
			top := img.RGBAAt(b.Min.X+x, b.Min.Y+cy*2)
			bottom := top
			if cy*2+1 < b.Dy() {
				bottom = img.RGBAAt(b.Min.X+x, b.Min.Y+cy*2+1)
			}
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			screen.SetContent(offX+x, offY+cy, upperHalf, nil, style)
		}
	}
}
