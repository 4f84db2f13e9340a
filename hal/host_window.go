//go:build cgo

package hal

import (
	"context"
	"errors"
	"image"
	"sync"

	"asciiglobe/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const consoleHeight = 60

// RunWindow starts a desktop window that shows presented frames above a log
// pane. It blocks until the window closes, Esc or Q is pressed, or the app
// stops on its own.
func RunWindow(host HostConfig, newApp func(HAL) (App, error)) error {
	h := newHost(host)
	con := newConsole(h.fb.width, consoleHeight)
	h.logger.setMirror(con)

	app, err := newApp(h)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &hostGame{h: h, con: con, done: make(chan struct{})}
	go func() {
		defer close(g.done)
		g.setErr(app.Run(ctx))
	}()

	ebiten.SetWindowTitle("asciiglobe (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*2, (h.fb.height+consoleHeight)*2)
	ebiten.SetTPS(60)
	err = ebiten.RunGame(g)

	cancel()
	cerr := app.Close()
	<-g.done
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if err == nil {
		err = g.runErr()
	}
	if err == nil {
		err = cerr
	}
	return err
}

type hostGame struct {
	h   *hostHAL
	con *console

	done chan struct{}
	mu   sync.Mutex
	err  error

	frameSeq   uint64
	frameImg   *ebiten.Image
	consoleSeq uint64
	consolePix *image.RGBA
	consoleImg *ebiten.Image
}

func (g *hostGame) setErr(err error) {
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *hostGame) runErr() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *hostGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	select {
	case <-g.done:
		if err := g.runErr(); err != nil {
			return err
		}
		return ebiten.Termination
	default:
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.frameImg == nil {
		g.frameImg = ebiten.NewImage(fb.width, fb.height)
		g.consolePix = image.NewRGBA(image.Rect(0, 0, fb.width, consoleHeight))
		g.consoleImg = ebiten.NewImage(fb.width, consoleHeight)
	}

	if img, seq := fb.latest(); img != nil && seq != g.frameSeq {
		g.frameImg.WritePixels(img.Pix)
		g.frameSeq = seq
	}
	if seq, changed := g.con.snapshot(g.consolePix, g.consoleSeq); changed {
		g.consoleImg.WritePixels(g.consolePix.Pix)
		g.consoleSeq = seq
	}

	screen.DrawImage(g.frameImg, nil)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(fb.height))
	screen.DrawImage(g.consoleImg, op)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height + consoleHeight
}
