package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"asciiglobe/hal"
)

type fakeDisplay struct {
	mu     sync.Mutex
	w, h   int
	frames []*image.RGBA
}

func (d *fakeDisplay) Size() (int, int) { return d.w, d.h }

func (d *fakeDisplay) Present(img *image.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, img)
	return nil
}

func (d *fakeDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

type fakeHAL struct {
	d *fakeDisplay
}

func (h fakeHAL) Logger() hal.Logger   { return nil }
func (h fakeHAL) Display() hal.Display { return h.d }

func newFakeHAL() fakeHAL { return fakeHAL{d: &fakeDisplay{w: 150, h: 150}} }

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.AssetPath = filepath.Join("..", "assets", "globe.txt")
	cfg.Interval = time.Millisecond
	cfg.Backoff = time.Millisecond
	return cfg
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
	}{
		{"rows", func(c *Config) { c.Rows = 0 }},
		{"cols", func(c *Config) { c.Cols = -1 }},
		{"radius", func(c *Config) { c.Radius = 0 }},
		{"width", func(c *Config) { c.Width = 0 }},
		{"height", func(c *Config) { c.Height = 40000 }},
		{"interval", func(c *Config) { c.Interval = 0 }},
		{"backoff", func(c *Config) { c.Backoff = -time.Second }},
		{"background", func(c *Config) { c.Background = "navy" }},
		{"foreground", func(c *Config) { c.Foreground = "" }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mod(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: Validate() = nil, want error", tc.name)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#00ffcc")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if c.R != 0 || c.G != 0xFF || c.B != 0xCC || c.A != 0xFF {
		t.Fatalf("ParseColor = %v", c)
	}
	if _, err := ParseColor("#zzzzzz"); err == nil {
		t.Fatalf("ParseColor accepted a bad hex color")
	}
}

func TestNewUsesShippedAsset(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(t)
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	s, err := New(newFakeHAL(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Cloud().Fallback(); err != nil {
		t.Fatalf("shipped asset rejected: %v", err)
	}
	if s.Cloud().Len() != 35*140 {
		t.Fatalf("cloud len = %d, want %d", s.Cloud().Len(), 35*140)
	}
	if !strings.Contains(buf.String(), "asciiglobe ready") {
		t.Fatalf("missing startup log, got %q", buf.String())
	}
}

func TestNewFallsBackOnMissingAsset(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(t)
	cfg.AssetPath = filepath.Join(t.TempDir(), "missing.txt")
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	s, err := New(newFakeHAL(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Cloud().Fallback() == nil {
		t.Fatalf("expected fallback glyphs")
	}
	if !strings.Contains(buf.String(), "built-in map") {
		t.Fatalf("fallback not logged, got %q", buf.String())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Radius = -1
	if _, err := New(newFakeHAL(), cfg); err == nil {
		t.Fatalf("New accepted a negative radius")
	}
}

func TestRunAndClose(t *testing.T) {
	h := newFakeHAL()
	s, err := New(h, testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()

	deadline := time.Now().Add(5 * time.Second)
	for h.d.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d frames after 5s", h.d.count())
		}
		time.Sleep(time.Millisecond)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	after := h.d.count()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run after Close = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after Close")
	}
	time.Sleep(10 * time.Millisecond)
	if got := h.d.count(); got != after {
		t.Fatalf("frames delivered after Close: %d -> %d", after, got)
	}

	f := h.d.frames[0]
	if b := f.Bounds(); b.Dx() != 150 || b.Dy() != 150 {
		t.Fatalf("frame size = %v, want 150x150", b)
	}
	if got := f.RGBAAt(0, 0); got.R != 0 || got.G != 0 || got.B != 0x33 {
		t.Fatalf("corner pixel = %v, want background #000033", got)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	s, err := New(newFakeHAL(), testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}

func TestRunHeadlessEndToEnd(t *testing.T) {
	var logs bytes.Buffer
	path := filepath.Join(t.TempDir(), "globe.png")
	cfg := testConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := hal.RunHeadless(ctx, hal.HostConfig{Width: cfg.Width, Height: cfg.Height, LogOutput: &logs},
		func(h hal.HAL) (hal.App, error) {
			c := cfg
			c.Logger = slog.New(slog.NewTextHandler(hal.LogWriter(h.Logger()), nil))
			return New(h, c)
		},
		hal.HeadlessConfig{Enabled: true, Hz: 500, Frames: 2, PNGPath: path},
	)
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatalf("run ended by timeout")
	}
	if !strings.Contains(logs.String(), "animation stopped") {
		t.Fatalf("missing shutdown log, got %q", logs.String())
	}
}
