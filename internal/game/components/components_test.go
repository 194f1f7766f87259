package components

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/game/events"
	"github.com/zeusync/evecs/internal/render"
)

func tick(t *testing.T, ent *ecs.Entity, delta float64) {
	t.Helper()
	_, err := ent.Handle(&events.Tick{Delta: delta})
	require.NoError(t, err)
}

func position(t *testing.T, ent *ecs.Entity) mgl64.Vec2 {
	t.Helper()
	pos, err := ecs.QueryAs[*events.Position](ent, events.KindPosition)
	require.NoError(t, err)
	return pos.Pos
}

func killReasons(w *ecs.World) *[]string {
	var reasons []string
	w.AddSystem([]ecs.Kind{ecs.KindKilled}, func(evt ecs.Event, _ *ecs.Registry) error {
		reasons = append(reasons, evt.(*ecs.Killed).Reason)
		return nil
	})
	return &reasons
}

func TestApplyVelocityIntegratesTicks(t *testing.T) {
	w := ecs.NewWorld()
	ent, err := w.NewEntity(NewStaticPosition(10, 20), NewStaticVelocity(1, 0), NewApplyVelocity())
	require.NoError(t, err)

	assert.Equal(t, mgl64.Vec2{10, 20}, position(t, ent))
	tick(t, ent, 2)
	assert.Equal(t, mgl64.Vec2{12, 20}, position(t, ent))
}

func TestApplyVelocityWithoutBasePosition(t *testing.T) {
	w := ecs.NewWorld()
	ent, err := w.NewEntity(NewStaticVelocity(0, -3), NewApplyVelocity())
	require.NoError(t, err)

	tick(t, ent, 1)
	assert.Equal(t, mgl64.Vec2{0, -3}, position(t, ent), "a bare request starts from the origin")
}

func TestApplyVelocityNeedsVelocity(t *testing.T) {
	w := ecs.NewWorld()
	ent, err := w.NewEntity(NewStaticPosition(0, 0), NewApplyVelocity())
	require.NoError(t, err)

	_, err = ent.Handle(&events.Tick{Delta: 1})
	assert.ErrorIs(t, err, ecs.ErrCapabilityMissing)
}

func TestApplyAccelerationFeedsVelocity(t *testing.T) {
	w := ecs.NewWorld()
	ent, err := w.NewEntity(
		NewStaticPosition(0, 0),
		NewStaticVelocity(0, 1),
		NewStaticAcceleration(0, 2),
		NewApplyAcceleration(),
		NewApplyVelocity(),
	)
	require.NoError(t, err)

	tick(t, ent, 1)
	vel, err := ecs.QueryAs[*events.Velocity](ent, events.KindVelocity)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{0, 3}, vel.Vel)
	// ApplyVelocity ran after ApplyAcceleration within the same tick.
	assert.Equal(t, mgl64.Vec2{0, 3}, position(t, ent))
}

func TestStaticDragDecaysToZero(t *testing.T) {
	w := ecs.NewWorld()
	drag := NewStaticDrag(2)
	ent, err := w.NewEntity(NewStaticVelocity(4, 0), drag)
	require.NoError(t, err)

	tick(t, ent, 1)
	assert.InDelta(t, 0.5, drag.Factor(), 1e-9)
	vel, err := ecs.QueryAs[*events.Velocity](ent, events.KindVelocity)
	require.NoError(t, err)
	assert.InDelta(t, 2, vel.Vel.X(), 1e-9)

	tick(t, ent, 5)
	assert.Zero(t, drag.Factor())
}

func TestHitboxTouchesPoint(t *testing.T) {
	w := ecs.NewWorld()
	ent, err := w.NewEntity(NewStaticPosition(10, 10), NewStaticSize(5, 5), NewHitbox())
	require.NoError(t, err)

	touches := func(x, y float64) bool {
		res, err := ent.Handle(&events.TouchesPoint{Point: mgl64.Vec2{x, y}})
		require.NoError(t, err)
		return res.(*events.TouchesPoint).Yes
	}
	assert.True(t, touches(12, 12))
	assert.False(t, touches(10, 12), "edges are exclusive")
	assert.False(t, touches(16, 12))
}

func TestHitcircleTouchesPoint(t *testing.T) {
	w := ecs.NewWorld()
	ent, err := w.NewEntity(NewStaticPosition(0, 0), NewStaticRadius(2), NewHitcircle())
	require.NoError(t, err)

	res, err := ent.Handle(&events.TouchesPoint{Point: mgl64.Vec2{0, 2}})
	require.NoError(t, err)
	assert.True(t, res.(*events.TouchesPoint).Yes)

	res, err = ent.Handle(&events.TouchesPoint{Point: mgl64.Vec2{2, 2}})
	require.NoError(t, err)
	assert.False(t, res.(*events.TouchesPoint).Yes)

	box, err := ecs.QueryAs[*events.Hitbox](ent, events.KindHitbox)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{-2, -2}, box.Min)
	assert.Equal(t, 4.0, box.Width)
}

func TestDraggableFollowsPointer(t *testing.T) {
	w := ecs.NewWorld()
	drag := NewDraggable()
	ent, err := w.NewEntity(NewStaticPosition(100, 100), drag)
	require.NoError(t, err)

	handle := func(kind ecs.Kind, x, y float64) {
		_, err := ent.Handle(events.NewPointer(kind, mgl64.Vec2{x, y}))
		require.NoError(t, err)
	}

	handle(events.KindMouseMove, 50, 50)
	assert.Equal(t, mgl64.Vec2{100, 100}, position(t, ent), "moves without a press are ignored")

	handle(events.KindMouseDown, 105, 105)
	assert.True(t, drag.Dragging())
	handle(events.KindMouseMove, 115, 100)
	assert.Equal(t, mgl64.Vec2{110, 95}, position(t, ent))

	handle(events.KindMouseUp, 115, 100)
	handle(events.KindMouseMove, 0, 0)
	assert.Equal(t, mgl64.Vec2{110, 95}, position(t, ent))

	handle(events.KindMouseDown, 0, 0)
	handle(events.KindMouseMove, 0, 5)
	assert.Equal(t, mgl64.Vec2{110, 100}, position(t, ent), "a second drag continues from the last offset")
}

func TestClickableCallsBack(t *testing.T) {
	w := ecs.NewWorld()
	var got mgl64.Vec2
	ent, err := w.NewEntity(NewClickable(func(p *events.Pointer, _ *ecs.Entity) error {
		got = p.Point
		return nil
	}))
	require.NoError(t, err)

	_, err = ent.Handle(events.NewPointer(events.KindMouseDown, mgl64.Vec2{3, 4}))
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{3, 4}, got)
}

func TestClickableTargetZoomsOutAndKills(t *testing.T) {
	w := ecs.NewWorld()
	reasons := killReasons(w)
	target := NewClickableTarget(0.5)
	ent, err := w.NewEntity(
		NewStaticPosition(10, 20),
		NewStaticVelocity(1, 0),
		NewApplyVelocity(),
		NewStaticRadius(4),
		NewHitcircle(),
		target,
	)
	require.NoError(t, err)

	tick(t, ent, 2)
	_, err = ent.Handle(events.NewPointer(events.KindMouseDown, mgl64.Vec2{12, 20}))
	require.NoError(t, err)

	comps := ent.Components()
	require.Len(t, comps, 7)
	assert.NotContains(t, comps, ecs.Component(target))
	assert.Equal(t, "zoomOut", ecs.ComponentName(comps[6]))

	tick(t, ent, 0.25)
	assert.Equal(t, mgl64.Vec2{12, 20}, position(t, ent), "the entity is frozen where it was clicked")
	r, err := ecs.QueryAs[*events.Radius](ent, events.KindRadius)
	require.NoError(t, err)
	assert.InDelta(t, 2, r.Radius, 1e-9)

	tick(t, ent, 0.25)
	assert.False(t, ent.Live())
	assert.Equal(t, []string{events.ReasonClicked}, *reasons)
}

func TestZoomOutScalesGraphic(t *testing.T) {
	w := ecs.NewWorld()
	sprite := render.NewCircle(3, tcell.ColorYellow)
	zoom := NewZoomOut(1, nil)
	ent, err := w.NewEntity(NewStaticGraphic(sprite), NewPositionGraphic(), NewStaticPosition(7, 8), zoom)
	require.NoError(t, err)

	tick(t, ent, 0.75)
	g, err := ecs.QueryAs[*events.Graphic](ent, events.KindGraphic)
	require.NoError(t, err)
	assert.Same(t, sprite, g.Sprite)
	assert.Equal(t, mgl64.Vec2{7, 8}, sprite.Position)
	assert.InDelta(t, 0.25, sprite.Scale, 1e-9)

	tick(t, ent, 5)
	assert.Zero(t, zoom.Scale())
	assert.True(t, ent.Live(), "no callback, no kill")
}

func TestKillAfterExpires(t *testing.T) {
	w := ecs.NewWorld()
	reasons := killReasons(w)
	ent, err := w.NewEntity(NewKillAfter(1), NewApplyVelocity(), NewStaticVelocity(1, 1))
	require.NoError(t, err)

	tick(t, ent, 0.5)
	assert.True(t, ent.Live())
	tick(t, ent, 0.5)
	assert.False(t, ent.Live())
	assert.Equal(t, []string{events.ReasonExpired}, *reasons)
}

func TestKillIfAndOnDeath(t *testing.T) {
	w := ecs.NewWorld()
	reasons := killReasons(w)
	var lastPos mgl64.Vec2
	ent, err := w.NewEntity(
		NewStaticPosition(0, 0),
		NewStaticVelocity(0, 10),
		NewApplyVelocity(),
		NewKillIf(func(ent *ecs.Entity) (bool, error) {
			pos, err := ecs.QueryAs[*events.Position](ent, events.KindPosition)
			if err != nil {
				return false, err
			}
			return pos.Pos.Y() > 15, nil
		}, events.ReasonOut),
		NewZoomOut(1.5, func(ent *ecs.Entity, _ int) error { return ent.Kill(events.ReasonClicked) }),
		NewOnDeath(func(k *ecs.Killed, ent *ecs.Entity) error {
			pos, err := ecs.QueryAs[*events.Position](ent, events.KindPosition)
			if err != nil {
				return err
			}
			lastPos = pos.Pos
			return nil
		}),
	)
	require.NoError(t, err)

	tick(t, ent, 1)
	assert.True(t, ent.Live())
	tick(t, ent, 1)
	assert.False(t, ent.Live())
	assert.Equal(t, mgl64.Vec2{0, 20}, lastPos)
	assert.Equal(t, []string{events.ReasonOut}, *reasons, "later tick handlers skip the dead entity")
}

func TestIfCond(t *testing.T) {
	w := ecs.NewWorld()
	calls := 0
	ent, err := w.NewEntity(NewIfCond(
		func(*ecs.Entity) (bool, error) { return calls < 2, nil },
		func(_ *ecs.Entity, self int) error {
			assert.Equal(t, 0, self)
			calls++
			return nil
		},
	))
	require.NoError(t, err)

	for range 4 {
		tick(t, ent, 0.1)
	}
	assert.Equal(t, 2, calls)
}
