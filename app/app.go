package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"asciiglobe/globe/anim"
	"asciiglobe/globe/cloud"
	"asciiglobe/globe/project"
	"asciiglobe/hal"
	"asciiglobe/internal/buildinfo"
)

// System is the spinning globe attached to a HAL. It implements hal.App.
type System struct {
	log   *slog.Logger
	cloud *cloud.Cloud
	loop  *anim.Loop
}

// New loads the point cloud, builds the render pipeline for the HAL's display
// and prepares the animation loop. Nothing is drawn until Run.
func New(h hal.HAL, cfg Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	bg, _ := ParseColor(cfg.Background)
	fg, _ := ParseColor(cfg.Foreground)

	c, err := cloud.Load(cfg.AssetPath, cfg.Rows, cfg.Cols, cfg.Radius)
	if err != nil {
		return nil, fmt.Errorf("open point cloud: %w", err)
	}
	if ferr := c.Fallback(); ferr != nil {
		log.Warn("glyph asset unusable, using built-in map", "path", cfg.AssetPath, "err", ferr)
	}

	disp := h.Display()
	w, ht := disp.Size()
	proj, err := project.New(project.Config{
		Width:      w,
		Height:     ht,
		Rows:       cfg.Rows,
		Cols:       cfg.Cols,
		Background: bg,
		Foreground: fg,
	})
	if err != nil {
		return nil, fmt.Errorf("projector: %w", err)
	}

	loop, err := anim.New(anim.NewPipeline(c, proj), disp.Present,
		anim.WithStep(cfg.Step),
		anim.WithInterval(cfg.Interval),
		anim.WithBackoff(cfg.Backoff),
		anim.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	log.Info("asciiglobe ready",
		"build", buildinfo.String(),
		"grid", fmt.Sprintf("%dx%d", cfg.Rows, cfg.Cols),
		"points", c.Len(),
		"display", fmt.Sprintf("%dx%d", w, ht),
	)
	return &System{log: log, cloud: c, loop: loop}, nil
}

// Run drives the animation until Close is called or ctx is done. It returns
// nil when stopped by Close and ctx.Err() on cancellation.
func (s *System) Run(ctx context.Context) error {
	err := s.loop.Run(ctx)
	if errors.Is(err, anim.ErrStopped) {
		err = nil
	}
	st := s.loop.Stats()
	s.log.Info("run finished",
		"frames", st.Frames,
		"render_failures", st.RenderFailures,
		"delivery_failures", st.DeliveryFailures,
	)
	return err
}

// Close stops the animation. Once it returns no further frame reaches the
// display. It is safe to call more than once.
func (s *System) Close() error {
	s.loop.Stop()
	return nil
}

// Loop exposes the animation state machine.
func (s *System) Loop() *anim.Loop { return s.loop }

// Cloud returns the point cloud in use.
func (s *System) Cloud() *cloud.Cloud { return s.cloud }
