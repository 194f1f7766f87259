package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRecyclesByShape(t *testing.T) {
	p := NewPool()
	a := p.Circle(3, tcell.ColorYellow)
	a.Scale = 0.2
	a.Release()
	assert.Equal(t, 1, p.Idle())

	other := p.Circle(4, tcell.ColorYellow)
	assert.NotSame(t, a, other, "different radius must not reuse the sprite")

	b := p.Circle(3, tcell.ColorYellow)
	assert.Same(t, a, b)
	assert.Equal(t, 1.0, b.Scale, "pooled sprites come back unscaled")
	assert.Equal(t, 2, p.Created())
	assert.Zero(t, p.Idle())

	r := p.Rect(3, 0, tcell.ColorYellow)
	assert.NotSame(t, a, r)
	assert.True(t, r.Pooled())
	assert.False(t, NewRect(1, 1, tcell.ColorRed).Pooled())
}

func TestStageDisplayList(t *testing.T) {
	st := NewStage()
	a, b := NewRect(1, 1, tcell.ColorRed), NewCircle(1, tcell.ColorBlue)
	st.AddChild(a)
	st.AddChild(b)
	st.AddChild(a)
	st.AddChild(nil)
	assert.Equal(t, 2, st.Len())

	assert.True(t, st.RemoveChild(a))
	assert.False(t, st.RemoveChild(a))
	assert.Equal(t, []*Sprite{b}, st.Children())
}

func TestSpriteContains(t *testing.T) {
	c := NewCircle(2, tcell.ColorWhite)
	c.Position = mgl64.Vec2{10, 10}
	assert.True(t, c.Contains(mgl64.Vec2{11, 11}))
	assert.False(t, c.Contains(mgl64.Vec2{12, 12}))
	c.Scale = 0.25
	assert.False(t, c.Contains(mgl64.Vec2{11, 11}))

	r := NewRect(4, 2, tcell.ColorWhite)
	r.Position = mgl64.Vec2{1, 1}
	assert.True(t, r.Contains(mgl64.Vec2{1, 1}))
	assert.False(t, r.Contains(mgl64.Vec2{5, 2}))
}

func TestTerminalDrawsStage(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(10, 5)

	term := NewTerminal(screen, mgl64.Vec2{2, 2})
	assert.Equal(t, mgl64.Vec2{20, 10}, term.WorldSize())
	assert.Equal(t, mgl64.Vec2{3, 5}, term.ToWorld(1, 2))

	st := NewStage()
	r := NewRect(4, 2, tcell.ColorGreen)
	r.Position = mgl64.Vec2{2, 4}
	st.AddChild(r)
	term.Draw(st)

	cells, w, _ := screen.GetContents()
	painted := map[[2]int]bool{}
	for i, c := range cells {
		if len(c.Runes) > 0 && c.Runes[0] == '█' {
			painted[[2]int{i % w, i / w}] = true
		}
	}
	assert.Equal(t, map[[2]int]bool{{1, 2}: true, {2, 2}: true}, painted)
}

func TestTerminalMarksTinySprites(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(4, 4)

	term := NewTerminal(screen, mgl64.Vec2{10, 10})
	st := NewStage()
	dot := NewCircle(1, tcell.ColorRed)
	dot.Position = mgl64.Vec2{21, 12}
	st.AddChild(dot)
	term.Draw(st)

	r, _, _, _ := screen.GetContent(2, 1)
	assert.Equal(t, '•', r)
}

func TestTerminalFitsArena(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 30)

	term := NewTerminal(screen, mgl64.Vec2{1, 1})
	term.Fit(mgl64.Vec2{800, 600})
	assert.Equal(t, mgl64.Vec2{10, 20}, term.Cell())
	assert.Equal(t, mgl64.Vec2{800, 600}, term.WorldSize())

	term.Fit(mgl64.Vec2{0, 600})
	assert.Equal(t, mgl64.Vec2{10, 20}, term.Cell(), "degenerate arenas are ignored")
}
