package driver

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// InputKind classifies an Input.
type InputKind uint8

const (
	InputDown InputKind = iota + 1
	InputUp
	InputMove
	InputResize
	InputQuit
)

func (k InputKind) String() string {
	switch k {
	case InputDown:
		return "down"
	case InputUp:
		return "up"
	case InputMove:
		return "move"
	case InputResize:
		return "resize"
	case InputQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Input is a user action in world coordinates.
type Input struct {
	Kind InputKind
	At   mgl64.Vec2
}

// Source produces inputs until ctx is done or the source is exhausted.
type Source interface {
	Pump(ctx context.Context, out chan<- Input) error
}

// Projector maps a terminal cell to world coordinates.
type Projector interface {
	ToWorld(x, y int) mgl64.Vec2
}

// TerminalInput reads mouse and key events from a tcell screen.
//
// The primary button drives press and release; any pointer motion is
// reported as a move. Esc, Ctrl-C and q request a quit.
type TerminalInput struct {
	screen  tcell.Screen
	project Projector
	buttons tcell.ButtonMask
	last    [2]int
}

func NewTerminalInput(screen tcell.Screen, project Projector) *TerminalInput {
	return &TerminalInput{screen: screen, project: project, last: [2]int{-1, -1}}
}

// Pump polls the screen until ctx is cancelled or the screen is finalised.
func (t *TerminalInput) Pump(ctx context.Context, out chan<- Input) error {
	stop := context.AfterFunc(ctx, func() {
		// Wakes PollEvent; the queue may be full, in which case a real
		// event will wake it instead.
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := t.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		for _, in := range t.Translate(ev) {
			select {
			case out <- in:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Translate converts one tcell event into zero or more inputs.
func (t *TerminalInput) Translate(ev tcell.Event) []Input {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		return t.mouse(e)
	case *tcell.EventKey:
		switch {
		case e.Key() == tcell.KeyEscape, e.Key() == tcell.KeyCtrlC:
			return []Input{{Kind: InputQuit}}
		case e.Key() == tcell.KeyRune && e.Rune() == 'q':
			return []Input{{Kind: InputQuit}}
		}
	case *tcell.EventResize:
		return []Input{{Kind: InputResize}}
	}
	return nil
}

func (t *TerminalInput) mouse(e *tcell.EventMouse) []Input {
	x, y := e.Position()
	at := t.project.ToWorld(x, y)
	var ins []Input
	if pos := [2]int{x, y}; pos != t.last {
		ins = append(ins, Input{Kind: InputMove, At: at})
		t.last = pos
	}

	pressed := e.Buttons()&tcell.Button1 != 0
	was := t.buttons&tcell.Button1 != 0
	switch {
	case pressed && !was:
		ins = append(ins, Input{Kind: InputDown, At: at})
	case !pressed && was:
		ins = append(ins, Input{Kind: InputUp, At: at})
	}
	t.buttons = e.Buttons()
	return ins
}
