package components

import (
	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/game/events"
)

// Cond is evaluated against the entity on every tick.
type Cond func(ent *ecs.Entity) (bool, error)

// TickFunc receives the entity and the index of the calling component.
type TickFunc func(ent *ecs.Entity, self int) error

// ZoomOut shrinks radius and graphic to nothing over OutTime seconds and
// calls Done on every tick once the timer has run out.
type ZoomOut struct {
	OutTime float64
	Done    TickFunc
	timer   float64
}

func NewZoomOut(outTime float64, done TickFunc) *ZoomOut {
	return &ZoomOut{OutTime: outTime, Done: done, timer: outTime}
}

func (*ZoomOut) Name() string { return "zoomOut" }
func (*ZoomOut) Events() []ecs.Kind {
	return []ecs.Kind{events.KindTick, events.KindRadius, events.KindGraphic}
}
func (c *ZoomOut) Handlers() ecs.Handlers {
	return ecs.Handlers{
		events.KindTick:    c.tick,
		events.KindRadius:  c.radius,
		events.KindGraphic: c.graphic,
	}
}

// Scale is the remaining fraction of the zoom, clamped to [0, 1].
func (c *ZoomOut) Scale() float64 {
	if c.OutTime <= 0 {
		return 0
	}
	return min(max(c.timer/c.OutTime, 0), 1)
}

func (c *ZoomOut) tick(evt ecs.Event, ent *ecs.Entity, self int) (ecs.Event, error) {
	if !ent.Live() {
		return evt, nil
	}
	c.timer -= events.As[events.Tick](evt).Delta
	if c.timer <= 0 && c.Done != nil {
		if err := c.Done(ent, self); err != nil {
			return nil, err
		}
	}
	return evt, nil
}

func (c *ZoomOut) radius(evt ecs.Event, _ *ecs.Entity, _ int) (ecs.Event, error) {
	r := events.As[events.Radius](evt)
	r.Radius *= c.Scale()
	return r, nil
}

func (c *ZoomOut) graphic(evt ecs.Event, _ *ecs.Entity, _ int) (ecs.Event, error) {
	g := events.As[events.Graphic](evt)
	if g.Sprite != nil {
		g.Sprite.Scale = c.Scale()
	}
	return g, nil
}

// KillIf kills the entity with Reason as soon as Cond holds on a tick.
type KillIf struct {
	Cond   Cond
	Reason string
}

func NewKillIf(cond Cond, reason string) *KillIf { return &KillIf{Cond: cond, Reason: reason} }

func (*KillIf) Name() string       { return "killIf" }
func (*KillIf) Events() []ecs.Kind { return []ecs.Kind{events.KindTick} }
func (c *KillIf) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindTick: c.tick}
}

func (c *KillIf) tick(evt ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	if !ent.Live() {
		return evt, nil
	}
	ok, err := c.Cond(ent)
	if err != nil {
		return nil, err
	}
	if ok {
		if err = ent.Kill(c.Reason); err != nil {
			return nil, err
		}
	}
	return evt, nil
}

// KillAfter kills the entity with ReasonExpired once Lifetime seconds of
// ticks have elapsed.
type KillAfter struct {
	Lifetime float64
	left     float64
}

func NewKillAfter(lifetime float64) *KillAfter {
	return &KillAfter{Lifetime: lifetime, left: lifetime}
}

func (*KillAfter) Name() string       { return "killAfter" }
func (*KillAfter) Events() []ecs.Kind { return []ecs.Kind{events.KindTick} }
func (c *KillAfter) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindTick: c.tick}
}

func (c *KillAfter) tick(evt ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	if !ent.Live() {
		return evt, nil
	}
	c.left -= events.As[events.Tick](evt).Delta
	if c.left <= 0 {
		if err := ent.Kill(events.ReasonExpired); err != nil {
			return nil, err
		}
	}
	return evt, nil
}

// IfCond calls Then on every tick where Cond holds.
type IfCond struct {
	Cond Cond
	Then TickFunc
}

func NewIfCond(cond Cond, then TickFunc) *IfCond { return &IfCond{Cond: cond, Then: then} }

func (*IfCond) Name() string       { return "ifCond" }
func (*IfCond) Events() []ecs.Kind { return []ecs.Kind{events.KindTick} }
func (c *IfCond) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindTick: c.tick}
}

func (c *IfCond) tick(evt ecs.Event, ent *ecs.Entity, self int) (ecs.Event, error) {
	if !ent.Live() {
		return evt, nil
	}
	ok, err := c.Cond(ent)
	if err != nil {
		return nil, err
	}
	if ok {
		if err = c.Then(ent, self); err != nil {
			return nil, err
		}
	}
	return evt, nil
}

// DeathFunc runs while the entity is dying; queries still work.
type DeathFunc func(k *ecs.Killed, ent *ecs.Entity) error

type OnDeath struct {
	fn DeathFunc
}

func NewOnDeath(fn DeathFunc) *OnDeath { return &OnDeath{fn: fn} }

func (*OnDeath) Name() string       { return "onDeath" }
func (*OnDeath) Events() []ecs.Kind { return []ecs.Kind{ecs.KindKilled} }
func (c *OnDeath) Handlers() ecs.Handlers {
	return ecs.Handlers{ecs.KindKilled: c.killed}
}

func (c *OnDeath) killed(evt ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	k, ok := evt.(*ecs.Killed)
	if !ok {
		return evt, nil
	}
	if err := c.fn(k, ent); err != nil {
		return nil, err
	}
	return evt, nil
}
