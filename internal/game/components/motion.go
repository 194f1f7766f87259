package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/game/events"
)

// ApplyVelocity integrates the entity's velocity every tick and offsets the
// position computed by earlier components.
type ApplyVelocity struct {
	offset mgl64.Vec2
}

func NewApplyVelocity() *ApplyVelocity { return &ApplyVelocity{} }

func (*ApplyVelocity) Name() string { return "applyVelocity" }
func (*ApplyVelocity) Events() []ecs.Kind {
	return []ecs.Kind{events.KindTick, events.KindPosition}
}
func (c *ApplyVelocity) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindTick: c.tick, events.KindPosition: c.position}
}

func (c *ApplyVelocity) tick(evt ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	if !ent.Live() {
		return evt, nil
	}
	tick := events.As[events.Tick](evt)
	vel, err := ecs.QueryAs[*events.Velocity](ent, events.KindVelocity)
	if err != nil {
		return nil, err
	}
	c.offset = c.offset.Add(vel.Vel.Mul(tick.Delta))
	return evt, nil
}

func (c *ApplyVelocity) position(evt ecs.Event, _ *ecs.Entity, _ int) (ecs.Event, error) {
	p := events.As[events.Position](evt)
	p.Pos = p.Pos.Add(c.offset)
	return p, nil
}

// ApplyAcceleration integrates acceleration into an extra velocity term.
type ApplyAcceleration struct {
	vel mgl64.Vec2
}

func NewApplyAcceleration() *ApplyAcceleration { return &ApplyAcceleration{} }

func (*ApplyAcceleration) Name() string { return "applyAcceleration" }
func (*ApplyAcceleration) Events() []ecs.Kind {
	return []ecs.Kind{events.KindTick, events.KindVelocity}
}
func (c *ApplyAcceleration) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindTick: c.tick, events.KindVelocity: c.velocity}
}

func (c *ApplyAcceleration) tick(evt ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	if !ent.Live() {
		return evt, nil
	}
	tick := events.As[events.Tick](evt)
	acc, err := ecs.QueryAs[*events.Acceleration](ent, events.KindAcceleration)
	if err != nil {
		return nil, err
	}
	c.vel = c.vel.Add(acc.Acc.Mul(tick.Delta))
	return evt, nil
}

func (c *ApplyAcceleration) velocity(evt ecs.Event, _ *ecs.Entity, _ int) (ecs.Event, error) {
	v := events.As[events.Velocity](evt)
	v.Vel = v.Vel.Add(c.vel)
	return v, nil
}

// StaticDrag scales velocity by a factor that decays linearly to zero over
// Duration seconds.
type StaticDrag struct {
	Duration float64
	drag     float64
}

func NewStaticDrag(duration float64) *StaticDrag {
	return &StaticDrag{Duration: duration, drag: 1}
}

func (*StaticDrag) Name() string { return "staticDrag" }
func (*StaticDrag) Events() []ecs.Kind {
	return []ecs.Kind{events.KindTick, events.KindVelocity}
}
func (c *StaticDrag) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindTick: c.tick, events.KindVelocity: c.velocity}
}

// Factor returns the current drag multiplier.
func (c *StaticDrag) Factor() float64 { return c.drag }

func (c *StaticDrag) tick(evt ecs.Event, _ *ecs.Entity, _ int) (ecs.Event, error) {
	tick := events.As[events.Tick](evt)
	if c.Duration > 0 {
		c.drag -= tick.Delta / c.Duration
	} else {
		c.drag = 0
	}
	c.drag = max(c.drag, 0)
	return evt, nil
}

func (c *StaticDrag) velocity(evt ecs.Event, _ *ecs.Entity, _ int) (ecs.Event, error) {
	v := events.As[events.Velocity](evt)
	v.Vel = v.Vel.Mul(c.drag)
	return v, nil
}
