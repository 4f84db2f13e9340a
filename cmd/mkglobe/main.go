// Command mkglobe writes a glyph map for the globe: one line per latitude row,
// one rune per longitude column. The map comes from an equirectangular image
// (north up, longitude 0 at the left edge) or, without -in, from the built-in
// pattern.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"asciiglobe/globe/cloud"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type options struct {
	rows      int
	cols      int
	land      string
	sea       string
	threshold float64
	invert    bool
}

func main() {
	var (
		inPath  = flag.String("in", "", "Equirectangular map image (png, jpeg, bmp, webp). Empty = built-in pattern.")
		outPath = flag.String("out", "", "Output glyph map.")
		opts    options
	)
	flag.IntVar(&opts.rows, "rows", 34, "Latitude divisions.")
	flag.IntVar(&opts.cols, "cols", 139, "Longitude divisions.")
	flag.StringVar(&opts.land, "land", "#@%", "Land glyphs, darkest first.")
	flag.StringVar(&opts.sea, "sea", ".~", "Sea glyphs.")
	flag.Float64Var(&opts.threshold, "threshold", 0.5, "CIE L* (0..1) at or above which a pixel is land.")
	flag.BoolVar(&opts.invert, "invert", false, "Treat dark pixels as land.")
	flag.Parse()

	if *outPath == "" {
		fatalf("usage: mkglobe -out assets/globe.txt [-in map.png] [-rows 34] [-cols 139]")
	}

	var (
		glyphs []rune
		err    error
	)
	if *inPath == "" {
		glyphs, err = cloud.FallbackGlyphs(opts.rows, opts.cols)
	} else {
		glyphs, err = glyphsFromFile(*inPath, opts)
	}
	if err != nil {
		fatalf("mkglobe: %v", err)
	}
	if err := writeMap(*outPath, glyphs, opts.cols+1); err != nil {
		fatalf("mkglobe: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func glyphsFromFile(path string, opts options) ([]rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return glyphsFromImage(img, opts)
}

// glyphsFromImage samples img on the (rows+1) x cols grid; the last column of
// each row repeats longitude 0.
func glyphsFromImage(img image.Image, opts options) ([]rune, error) {
	if opts.rows <= 0 || opts.cols <= 0 {
		return nil, fmt.Errorf("grid %dx%d must be positive", opts.rows, opts.cols)
	}
	land, sea := []rune(opts.land), []rune(opts.sea)
	if len(land) == 0 || len(sea) == 0 {
		return nil, fmt.Errorf("land and sea glyph sets must not be empty")
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty image")
	}

	grid := image.NewRGBA(image.Rect(0, 0, opts.cols, opts.rows+1))
	xdraw.ApproxBiLinear.Scale(grid, grid.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	out := make([]rune, 0, cloud.Count(opts.rows, opts.cols))
	for i := 0; i <= opts.rows; i++ {
		for j := 0; j <= opts.cols; j++ {
			c, _ := colorful.MakeColor(grid.RGBAAt(j%opts.cols, i))
			l, _, _ := c.Lab()
			isLand := l >= opts.threshold
			if opts.invert {
				isLand = !isLand
			}
			if !isLand {
				out = append(out, sea[(i*3+j)%len(sea)])
				continue
			}
			// Brighter land takes later glyphs.
			k := int((l - opts.threshold) / (1 - opts.threshold + 1e-9) * float64(len(land)))
			if opts.invert {
				k = int((opts.threshold - l) / (opts.threshold + 1e-9) * float64(len(land)))
			}
			out = append(out, land[max(0, min(k, len(land)-1))])
		}
	}
	return out, nil
}

func writeMap(path string, glyphs []rune, width int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeMap(f, glyphs, width); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	return f.Close()
}

func encodeMap(w io.Writer, glyphs []rune, width int) error {
	bw := bufio.NewWriter(w)
	for i, g := range glyphs {
		if _, err := bw.WriteRune(g); err != nil {
			return err
		}
		if (i+1)%width == 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
