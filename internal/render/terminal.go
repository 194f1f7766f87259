package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Terminal draws a Stage onto a tcell screen. Every cell covers Cell world
// units; a cell is painted when its centre lies inside a sprite.
type Terminal struct {
	screen     tcell.Screen
	cell       mgl64.Vec2
	background tcell.Style
	glyph      rune
	dot        rune
}

// NewTerminal wraps an initialised screen.
func NewTerminal(screen tcell.Screen, cell mgl64.Vec2) *Terminal {
	if cell.X() <= 0 || cell.Y() <= 0 {
		cell = mgl64.Vec2{1, 1}
	}
	return &Terminal{
		screen:     screen,
		cell:       cell,
		background: tcell.StyleDefault,
		glyph:      '█',
		dot:        '•',
	}
}

// Screen returns the wrapped screen.
func (t *Terminal) Screen() tcell.Screen { return t.screen }

// Draw repaints the whole screen from the display list.
func (t *Terminal) Draw(stage *Stage) {
	t.screen.Fill(' ', t.background)
	w, h := t.screen.Size()
	for _, s := range stage.Children() {
		t.paint(s, w, h)
	}
	t.screen.Show()
}

func (t *Terminal) paint(s *Sprite, w, h int) {
	if s.empty() {
		return
	}
	lo, hi := s.Bounds()
	x0 := max(0, int(math.Floor(lo.X()/t.cell.X())))
	y0 := max(0, int(math.Floor(lo.Y()/t.cell.Y())))
	x1 := min(w-1, int(math.Ceil(hi.X()/t.cell.X())))
	y1 := min(h-1, int(math.Ceil(hi.Y()/t.cell.Y())))
	style := t.background.Foreground(s.Color)
	painted := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if s.Contains(t.ToWorld(x, y)) {
				t.screen.SetContent(x, y, t.glyph, nil, style)
				painted = true
			}
		}
	}
	// Sprites smaller than a cell still show up as the cell holding their anchor.
	if !painted {
		x := int(math.Floor(s.Position.X() / t.cell.X()))
		y := int(math.Floor(s.Position.Y() / t.cell.Y()))
		if x >= 0 && x < w && y >= 0 && y < h {
			t.screen.SetContent(x, y, t.dot, nil, style)
		}
	}
}

// ToWorld returns the world position of the centre of cell (x, y).
func (t *Terminal) ToWorld(x, y int) mgl64.Vec2 {
	return mgl64.Vec2{
		(float64(x) + 0.5) * t.cell.X(),
		(float64(y) + 0.5) * t.cell.Y(),
	}
}

// WorldSize returns the world extent covered by the screen.
func (t *Terminal) WorldSize() mgl64.Vec2 {
	w, h := t.screen.Size()
	return mgl64.Vec2{float64(w) * t.cell.X(), float64(h) * t.cell.Y()}
}

// Fit scales cells so that an arena of the given world size spans the screen.
func (t *Terminal) Fit(arena mgl64.Vec2) {
	w, h := t.screen.Size()
	if w <= 0 || h <= 0 || arena.X() <= 0 || arena.Y() <= 0 {
		return
	}
	t.cell = mgl64.Vec2{arena.X() / float64(w), arena.Y() / float64(h)}
}

// Cell returns the world size of one cell.
func (t *Terminal) Cell() mgl64.Vec2 { return t.cell }
