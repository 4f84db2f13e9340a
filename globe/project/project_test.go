package project

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"asciiglobe/globe/cloud"
	"asciiglobe/globe/transform"
)

func newProjector(t *testing.T, cfg Config) *Projector {
	t.Helper()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	return p
}

func TestNewDefaults(t *testing.T) {
	p := newProjector(t, Config{Width: 150, Height: 150, Rows: 34, Cols: 139})
	cfg := p.Config()
	if cfg.Background != DefaultBackground || cfg.Foreground != DefaultForeground {
		t.Fatalf("colors = %v/%v, want defaults", cfg.Background, cfg.Foreground)
	}
	if cfg.Font == nil {
		t.Fatal("Font = nil, want default")
	}
	if cfg.Background == cfg.Foreground {
		t.Fatal("background and glyph colors must differ")
	}
}

func TestNewRejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero width", Config{Width: 0, Height: 10, Rows: 2, Cols: 4}, ErrViewport},
		{"huge height", Config{Width: 10, Height: 1 << 20, Rows: 2, Cols: 4}, ErrViewport},
		{"zero rows", Config{Width: 10, Height: 10, Rows: 0, Cols: 4}, ErrShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); !errors.Is(err, tc.want) {
				t.Fatalf("New() err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCullSkipsPoleRows(t *testing.T) {
	const rows, cols = 34, 139
	c, err := cloud.Build(rows, cols, 60, nil)
	if err != nil {
		t.Fatalf("cloud.Build() err = %v", err)
	}
	pts := c.Points()
	centroid := transform.Centroid(pts)
	n := c.Len()

	for _, theta := range []float64{0, 0.05, 0.5, 1.7, math.Pi, 4, 6.2} {
		plots := Cull(rows, cols, 150, 150, transform.RotateAboutZ(pts, centroid, theta))
		if len(plots) == 0 {
			t.Fatalf("theta=%g: nothing visible", theta)
		}
		for _, pl := range plots {
			if pl.Index <= cols {
				t.Fatalf("theta=%g: first-row index %d drawn", theta, pl.Index)
			}
			if pl.Index >= n-(cols+1) {
				t.Fatalf("theta=%g: last-row index %d drawn", theta, pl.Index)
			}
		}
	}
}

func TestCullBackFace(t *testing.T) {
	pts := make([]cloud.Point, cloud.Count(2, 4))
	for i := range pts {
		pts[i] = cloud.Point{X: 1, Y: -1, Z: 1}
	}
	pts[6].Y = 3
	pts[7].Y = 0

	plots := Cull(2, 4, 20, 20, pts)
	if len(plots) != 1 || plots[0].Index != 6 {
		t.Fatalf("plots = %+v, want only index 6", plots)
	}
	if plots[0].X != 11 || plots[0].Y != 11 {
		t.Fatalf("position = (%d,%d), want (11,11)", plots[0].X, plots[0].Y)
	}
}

func TestCullPositionRounding(t *testing.T) {
	pts := make([]cloud.Point, cloud.Count(2, 4))
	pts[5] = cloud.Point{X: -3.6, Y: 1, Z: 2.4}
	plots := Cull(2, 4, 101, 100, pts)
	if len(plots) != 1 {
		t.Fatalf("plots = %+v, want one", plots)
	}
	if plots[0].X != 50-4 || plots[0].Y != 50+2 {
		t.Fatalf("position = (%d,%d), want (46,52)", plots[0].X, plots[0].Y)
	}
}

func TestEndToEndSmallGrid(t *testing.T) {
	c, err := cloud.Build(2, 4, 10, nil)
	if err != nil {
		t.Fatalf("cloud.Build() err = %v", err)
	}
	pts := c.Points()
	rotated := transform.RotateAboutZ(pts, transform.Centroid(pts), 0)

	p := newProjector(t, Config{Width: 100, Height: 100, Rows: 2, Cols: 4})
	plots := p.Plots(rotated)
	if len(plots) == 0 {
		t.Fatal("no plots")
	}
	seen6 := false
	for _, pl := range plots {
		if pl.Index < 5 || pl.Index > 9 {
			t.Fatalf("index %d outside interior row 5-9", pl.Index)
		}
		if pl.X < 0 || pl.X >= 100 || pl.Y < 0 || pl.Y >= 100 {
			t.Fatalf("index %d at (%d,%d) outside viewport", pl.Index, pl.X, pl.Y)
		}
		if pl.Index == 6 {
			seen6 = true
		}
	}
	if !seen6 {
		t.Fatalf("plots = %+v, want index 6 (the +y equator sample)", plots)
	}

	s, err := p.Project(rotated, c.Glyphs())
	if err != nil {
		t.Fatalf("Project() err = %v", err)
	}
	if w, h := s.Size(); w != 100 || h != 100 {
		t.Fatalf("surface size = %dx%d, want 100x100", w, h)
	}
}

func TestProjectDrawsGlyphNearPlot(t *testing.T) {
	pts := make([]cloud.Point, cloud.Count(2, 4))
	pts[7] = cloud.Point{X: 0, Y: 5, Z: 0}
	glyphs := []rune("...............")
	glyphs[7] = '#'

	p := newProjector(t, Config{Width: 60, Height: 60, Rows: 2, Cols: 4})
	s, err := p.Project(pts, glyphs)
	if err != nil {
		t.Fatalf("Project() err = %v", err)
	}

	fg := p.Config().Foreground
	bg := p.Config().Background
	lit := 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			switch px := s.RGBAt(x, y); px {
			case fg:
				lit++
				if x < 28 || x > 42 || y < 16 || y > 36 {
					t.Fatalf("glyph pixel at (%d,%d), plot is (30,30)", x, y)
				}
			case bg:
			default:
				t.Fatalf("pixel (%d,%d) = %v, want background or glyph color", x, y, px)
			}
		}
	}
	if lit == 0 {
		t.Fatal("no glyph pixels drawn")
	}
}

func TestProjectClipsOutOfViewport(t *testing.T) {
	pts := make([]cloud.Point, cloud.Count(2, 4))
	for i := range pts {
		pts[i] = cloud.Point{X: 1e4, Y: 1, Z: -1e6}
	}
	glyphs := []rune("@@@@@@@@@@@@@@@")

	p := newProjector(t, Config{Width: 16, Height: 16, Rows: 2, Cols: 4})
	s, err := p.Project(pts, glyphs)
	if err != nil {
		t.Fatalf("Project() err = %v", err)
	}
	bg := p.Config().Background
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if px := s.RGBAt(x, y); px != bg {
				t.Fatalf("pixel (%d,%d) = %v, want background", x, y, px)
			}
		}
	}
}

func TestProjectShapeMismatch(t *testing.T) {
	p := newProjector(t, Config{Width: 16, Height: 16, Rows: 2, Cols: 4})
	pts := make([]cloud.Point, 15)
	if _, err := p.Project(pts, make([]rune, 14)); !errors.Is(err, ErrShape) {
		t.Fatalf("Project() err = %v, want ErrShape", err)
	}
	if _, err := p.Project(pts[:3], make([]rune, 3)); !errors.Is(err, ErrShape) {
		t.Fatalf("Project() err = %v, want ErrShape", err)
	}
}

func TestProjectFreshSurface(t *testing.T) {
	c, err := cloud.Build(34, 139, 60, nil)
	if err != nil {
		t.Fatalf("cloud.Build() err = %v", err)
	}
	p := newProjector(t, Config{Width: 150, Height: 150, Rows: 34, Cols: 139})
	a, err := p.Project(c.Points(), c.Glyphs())
	if err != nil {
		t.Fatalf("Project() err = %v", err)
	}
	b, err := p.Project(c.Points(), c.Glyphs())
	if err != nil {
		t.Fatalf("Project() err = %v", err)
	}
	if a == b {
		t.Fatal("Project() reused a surface")
	}
	a.Fill(color.RGBA{R: 1, A: 0xFF})
	if b.RGBAt(0, 0) == a.RGBAt(0, 0) {
		t.Fatal("surfaces share pixels")
	}
}

func TestSurfaceImage(t *testing.T) {
	s := NewSurface(3, 2)
	s.Fill(color.RGBA{R: 1, G: 2, B: 3, A: 0xFF})
	s.SetPixel(2, 1, color.RGBA{R: 200, G: 100, B: 50, A: 0xFF})
	s.SetPixel(-1, 0, color.RGBA{R: 9, A: 0xFF})
	s.SetPixel(3, 0, color.RGBA{R: 9, A: 0xFF})

	img := s.Image()
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 3x2", b)
	}
	if got := img.RGBAAt(2, 1); got != (color.RGBA{R: 200, G: 100, B: 50, A: 0xFF}) {
		t.Fatalf("RGBAAt(2,1) = %v", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 1, G: 2, B: 3, A: 0xFF}) {
		t.Fatalf("RGBAAt(0,0) = %v", got)
	}

	img.Pix[0] = 77
	if s.RGBAt(0, 0).R == 77 {
		t.Fatal("Image() shares pixels with the surface")
	}
}
