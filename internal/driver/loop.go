// Package driver runs the frame loop: it publishes one tick per frame,
// feeds pointer input to the scene and redraws after every tick.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/core/observability/log"
	"github.com/zeusync/evecs/internal/game/events"
)

// ErrQuit is returned by Loop.Run when the user asked to quit.
var ErrQuit = errors.New("quit requested")

// Pointer receives pointer input between ticks.
type Pointer interface {
	Down(at mgl64.Vec2)
	Up(at mgl64.Vec2)
	Move(at mgl64.Vec2)
}

// Loop publishes ticks on a world. All world access happens on the goroutine
// that calls Run or Frame.
type Loop struct {
	world    *ecs.World
	clock    Clock
	interval time.Duration
	maxDelta time.Duration
	pointer  Pointer
	draw     func() error
	resize   func()
	log      log.Log

	last   time.Time
	frames uint64
}

type LoopOption func(*Loop)

func WithClock(c Clock) LoopOption { return func(l *Loop) { l.clock = c } }

func WithPointer(p Pointer) LoopOption { return func(l *Loop) { l.pointer = p } }

// WithDraw sets the function called after every published tick.
func WithDraw(fn func() error) LoopOption { return func(l *Loop) { l.draw = fn } }

// WithResize sets the function called when the terminal was resized.
func WithResize(fn func()) LoopOption { return func(l *Loop) { l.resize = fn } }

func WithLogger(lg log.Log) LoopOption { return func(l *Loop) { l.log = lg } }

// NewLoop creates a loop ticking fps times per second. A single tick never
// reports more than maxDelta.
func NewLoop(w *ecs.World, fps int, maxDelta time.Duration, opts ...LoopOption) *Loop {
	if fps < 1 {
		fps = 1
	}
	l := &Loop{
		world:    w,
		clock:    SystemClock{},
		interval: time.Second / time.Duration(fps),
		maxDelta: maxDelta,
		log:      log.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.Named("driver")
	return l
}

// Frames returns the number of ticks published so far.
func (l *Loop) Frames() uint64 { return l.frames }

// Interval returns the time between frames.
func (l *Loop) Interval() time.Duration { return l.interval }

// Frame publishes a tick for the time elapsed since the previous frame and
// redraws. The first frame has a zero delta.
func (l *Loop) Frame(now time.Time) error {
	var delta time.Duration
	if !l.last.IsZero() {
		delta = now.Sub(l.last)
	}
	l.last = now
	delta = min(max(delta, 0), l.maxDelta)

	if err := l.world.PublishEvent(&events.Tick{Delta: delta.Seconds()}); err != nil {
		return fmt.Errorf("frame %d: %w", l.frames, err)
	}
	l.frames++
	if l.draw != nil {
		if err := l.draw(); err != nil {
			return fmt.Errorf("draw frame %d: %w", l.frames, err)
		}
	}
	return nil
}

// Apply hands one input to the pointer, or reports ErrQuit.
func (l *Loop) Apply(in Input) error {
	switch in.Kind {
	case InputQuit:
		return ErrQuit
	case InputResize:
		if l.resize != nil {
			l.resize()
		}
		return nil
	}
	if l.pointer == nil {
		return nil
	}
	switch in.Kind {
	case InputDown:
		l.pointer.Down(in.At)
	case InputUp:
		l.pointer.Up(in.At)
	case InputMove:
		l.pointer.Move(in.At)
	}
	return nil
}

// Run ticks until ctx is done, input asks to quit or a frame fails. A nil
// input channel is never read.
func (l *Loop) Run(ctx context.Context, input <-chan Input) error {
	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	l.log.Info("frame loop started", log.Duration("interval", l.interval))
	defer func() { l.log.Info("frame loop stopped", log.Uint64("frames", l.frames)) }()

	l.last = l.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case in, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			if err := l.Apply(in); err != nil {
				return err
			}
		case now := <-ticker.C():
			if err := l.Frame(now); err != nil {
				return err
			}
		}
	}
}

// Run drives loop with inputs from src until either stops. A quit request
// ends the run without error.
func Run(ctx context.Context, loop *Loop, src Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := make(chan Input, 64)
	g, gctx := errgroup.WithContext(ctx)
	if src != nil {
		g.Go(func() error {
			return src.Pump(gctx, input)
		})
	}
	g.Go(func() error {
		defer cancel()
		return loop.Run(gctx, input)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, ErrQuit) {
		return err
	}
	return nil
}
