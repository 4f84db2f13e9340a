// Package anim drives the spinning globe: it advances the rotation angle,
// renders a frame and hands it to the host on a fixed cadence.
package anim

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Default cadence.
const (
	DefaultStep     = 0.05
	DefaultInterval = 33 * time.Millisecond
	DefaultBackoff  = 100 * time.Millisecond
)

// Sink receives finished frames. The host owns each image after the call.
type Sink func(img *image.RGBA) error

// State is the loop lifecycle state.
type State uint8

const (
	StateRunning State = iota
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats counts loop outcomes.
type Stats struct {
	Ticks            uint64
	Frames           uint64
	RenderFailures   uint64
	DeliveryFailures uint64
	LastErr          error
}

// Option configures a Loop.
type Option func(*Loop)

// WithStep sets the angle advanced per tick, in radians.
func WithStep(rad float64) Option { return func(l *Loop) { l.step = rad } }

// WithInterval sets the delay between successful ticks.
func WithInterval(d time.Duration) Option { return func(l *Loop) { l.interval = d } }

// WithBackoff sets the delay after a failed render.
func WithBackoff(d time.Duration) Option { return func(l *Loop) { l.backoff = d } }

// WithLogger sets the loop logger. A nil logger discards output.
func WithLogger(log *slog.Logger) Option { return func(l *Loop) { l.log = log } }

// WithAngle sets the starting angle.
func WithAngle(rad float64) Option { return func(l *Loop) { l.angle = normAngle(rad) } }

// Loop is the animation state machine. It starts Running; Stop moves it to
// Stopped for good.
//
// Ticks never overlap. Stop waits for an in-flight tick, so once it returns
// the sink is not called again. Stop must not be called from inside the sink.
type Loop struct {
	mu    sync.Mutex
	state State
	angle float64
	stats Stats

	r    Renderer
	sink Sink
	log  *slog.Logger

	step     float64
	interval time.Duration
	backoff  time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// New returns a running loop. Ticks happen only through Tick or Run.
func New(r Renderer, sink Sink, opts ...Option) (*Loop, error) {
	if r == nil {
		return nil, errors.New("anim: nil renderer")
	}
	if sink == nil {
		return nil, errors.New("anim: nil sink")
	}
	l := &Loop{
		state:    StateRunning,
		r:        r,
		sink:     sink,
		step:     DefaultStep,
		interval: DefaultInterval,
		backoff:  DefaultBackoff,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = slog.New(slog.DiscardHandler)
	}
	switch {
	case math.IsNaN(l.step) || math.IsInf(l.step, 0):
		return nil, fmt.Errorf("anim: invalid step %v", l.step)
	case l.interval <= 0:
		return nil, fmt.Errorf("anim: invalid interval %v", l.interval)
	case l.backoff <= 0:
		return nil, fmt.Errorf("anim: invalid backoff %v", l.backoff)
	}
	return l, nil
}

// State returns the current lifecycle state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Angle returns the current rotation angle in [0, 2π).
func (l *Loop) Angle() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.angle
}

// Stats returns a snapshot of the counters.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Stop moves the loop to Stopped. It is idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateStopped {
		return
	}
	l.state = StateStopped
	l.log.Info("animation stopped", "frames", l.stats.Frames, "ticks", l.stats.Ticks)
}

// Tick runs one frame and returns the delay before the next one. It returns 0
// once the loop is stopped.
func (l *Loop) Tick() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateRunning {
		return 0
	}
	l.stats.Ticks++
	l.angle = normAngle(l.angle + l.step)

	img, err := l.render(l.angle)
	if err != nil {
		rerr := &RenderError{Angle: l.angle, Err: err}
		l.stats.RenderFailures++
		l.stats.LastErr = rerr
		l.log.Warn("frame skipped", "err", rerr, "backoff", l.backoff)
		return l.backoff
	}

	frame := l.stats.Frames + 1
	if err := l.deliver(img); err != nil {
		derr := &HostDeliveryError{Frame: frame, Err: err}
		l.stats.DeliveryFailures++
		l.stats.LastErr = derr
		l.log.Warn("frame not delivered", "err", derr)
		return l.interval
	}
	l.stats.Frames = frame
	l.log.Debug("frame delivered", "frame", frame, "angle", l.angle)
	return l.interval
}

// Run ticks until Stop is called or ctx is done. It returns nil after Stop
// and ctx.Err() on cancellation; in both cases the loop ends Stopped.
func (l *Loop) Run(ctx context.Context) error {
	if l.State() != StateRunning {
		return ErrStopped
	}

	t := time.NewTimer(0)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case <-t.C:
		}

		d := l.Tick()
		if d == 0 {
			return nil
		}
		t.Reset(d)
	}
}

func (l *Loop) render(theta float64) (img *image.RGBA, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	img, err = l.r.Render(theta)
	if err == nil && img == nil {
		err = errors.New("renderer returned no image")
	}
	return img, err
}

func (l *Loop) deliver(img *image.RGBA) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return l.sink(img)
}

func normAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
