package hal

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Hz is how often the runner polls the display for new frames.
	Hz int
	// Frames stops the run after N presented frames (0 = run until ctx is done).
	Frames uint64
	// PNGPath, when set, receives the last presented frame on exit.
	PNGPath string
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, host HostConfig, newApp func(HAL) (App, error), cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHost(host)
	app, err := newApp(h)
	if err != nil {
		return err
	}

	runDone := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(runDone)
		return app.Run(gctx)
	})
	g.Go(func() error {
		t := time.NewTicker(d)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-runDone:
				return nil
			case <-t.C:
				if _, seq := h.fb.latest(); cfg.Frames > 0 && seq >= cfg.Frames {
					return app.Close()
				}
			}
		}
	})
	err = g.Wait()
	if cerr := app.Close(); err == nil {
		err = cerr
	}

	if cfg.PNGPath != "" {
		if perr := writePNG(h.fb, cfg.PNGPath); perr != nil {
			err = errors.Join(err, perr)
		}
	}
	return err
}

func writePNG(fb *hostFramebuffer, path string) error {
	img, seq := fb.latest()
	if img == nil {
		return fmt.Errorf("write %q: no frame presented", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode frame %d to %q: %w", seq, path, err)
	}
	return f.Close()
}
