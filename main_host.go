package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"asciiglobe/app"
	"asciiglobe/hal"
)

func main() {
	cfg := app.DefaultConfig()
	var (
		headless hal.HeadlessConfig
		terminal bool
		logPath  string
		verbose  bool
	)
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Frame poll rate in headless mode.")
	flag.Uint64Var(&headless.Frames, "frames", 0, "Stop after N frames in headless mode (0 = run until interrupted).")
	flag.StringVar(&headless.PNGPath, "png", "", "Write the last frame to this PNG file in headless mode.")
	flag.BoolVar(&terminal, "terminal", false, "Draw the globe in the terminal.")
	flag.StringVar(&cfg.AssetPath, "asset", cfg.AssetPath, "Glyph map file.")
	flag.IntVar(&cfg.Rows, "rows", cfg.Rows, "Latitude divisions.")
	flag.IntVar(&cfg.Cols, "cols", cfg.Cols, "Longitude divisions.")
	flag.Float64Var(&cfg.Radius, "radius", cfg.Radius, "Sphere radius in pixels.")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Viewport width in pixels.")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Viewport height in pixels.")
	flag.Float64Var(&cfg.Step, "step", cfg.Step, "Rotation per frame in radians.")
	flag.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Delay between frames.")
	flag.DurationVar(&cfg.Backoff, "backoff", cfg.Backoff, "Delay after a failed frame.")
	flag.StringVar(&cfg.Background, "bg", cfg.Background, "Background color.")
	flag.StringVar(&cfg.Foreground, "fg", cfg.Foreground, "Glyph color.")
	flag.StringVar(&logPath, "log", "", "Append logs to this file instead of stdout.")
	flag.BoolVar(&verbose, "v", false, "Log every frame.")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	host := hal.HostConfig{Width: cfg.Width, Height: cfg.Height}
	switch {
	case logPath != "":
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		host.LogOutput = f
	case terminal:
		// The screen belongs to tcell.
		host.LogOutput = io.Discard
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	newApp := func(h hal.HAL) (hal.App, error) {
		c := cfg
		c.Logger = slog.New(slog.NewTextHandler(hal.LogWriter(h.Logger()), &slog.HandlerOptions{Level: level}))
		return app.New(h, c)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch {
	case headless.Enabled:
		err = hal.RunHeadless(ctx, host, newApp, headless)
	case terminal:
		err = hal.RunTerminal(ctx, host, newApp, hal.TerminalConfig{})
	default:
		err = hal.RunWindow(host, newApp)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
