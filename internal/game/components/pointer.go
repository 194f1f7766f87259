package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/game/events"
)

// Draggable follows the pointer between a mousedown on the entity and the
// next mouseup, and offsets the position by the accumulated drag.
type Draggable struct {
	offset   mgl64.Vec2
	dragging bool
	start    mgl64.Vec2
	origin   mgl64.Vec2
}

func NewDraggable() *Draggable { return &Draggable{} }

func (*Draggable) Name() string { return "draggable" }
func (*Draggable) Events() []ecs.Kind {
	return []ecs.Kind{events.KindMouseDown, events.KindMouseMove, events.KindMouseUp, events.KindPosition}
}
func (c *Draggable) Handlers() ecs.Handlers {
	return ecs.Handlers{
		events.KindMouseDown: c.down,
		events.KindMouseMove: c.move,
		events.KindMouseUp:   c.up,
		events.KindPosition:  c.position,
	}
}

// Dragging reports whether a drag is in progress.
func (c *Draggable) Dragging() bool { return c.dragging }

func (c *Draggable) down(evt ecs.Event, _ *ecs.Entity, _ int) (ecs.Event, error) {
	p := events.As[events.Pointer](evt)
	c.dragging = true
	c.start = c.offset
	c.origin = p.Point
	return evt, nil
}

func (c *Draggable) move(evt ecs.Event, _ *ecs.Entity, _ int) (ecs.Event, error) {
	if c.dragging {
		p := events.As[events.Pointer](evt)
		c.offset = p.Point.Sub(c.origin).Add(c.start)
	}
	return evt, nil
}

func (c *Draggable) up(evt ecs.Event, _ *ecs.Entity, _ int) (ecs.Event, error) {
	c.dragging = false
	return evt, nil
}

func (c *Draggable) position(evt ecs.Event, _ *ecs.Entity, _ int) (ecs.Event, error) {
	p := events.As[events.Position](evt)
	return &events.Position{Pos: p.Pos.Add(c.offset)}, nil
}

// ClickFunc is called by Clickable on every mousedown that reaches the entity.
type ClickFunc func(p *events.Pointer, ent *ecs.Entity) error

type Clickable struct {
	fn ClickFunc
}

func NewClickable(fn ClickFunc) *Clickable { return &Clickable{fn: fn} }

func (*Clickable) Name() string       { return "clickable" }
func (*Clickable) Events() []ecs.Kind { return []ecs.Kind{events.KindMouseDown} }
func (c *Clickable) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindMouseDown: c.down}
}

func (c *Clickable) down(evt ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	if err := c.fn(events.As[events.Pointer](evt), ent); err != nil {
		return nil, err
	}
	return evt, nil
}

// ClickableTarget freezes the entity where it was clicked and replaces
// itself with a ZoomOut that kills the entity with ReasonClicked.
type ClickableTarget struct {
	OutTime float64
}

func NewClickableTarget(outTime float64) *ClickableTarget {
	return &ClickableTarget{OutTime: outTime}
}

func (*ClickableTarget) Name() string       { return "clickableTarget" }
func (*ClickableTarget) Events() []ecs.Kind { return []ecs.Kind{events.KindMouseDown} }
func (c *ClickableTarget) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindMouseDown: c.down}
}

func (c *ClickableTarget) down(evt ecs.Event, ent *ecs.Entity, self int) (ecs.Event, error) {
	pos, err := ecs.QueryAs[*events.Position](ent, events.KindPosition)
	if err != nil {
		return nil, err
	}
	if err = ent.AddComponent(&StaticPosition{Pos: pos.Pos}); err != nil {
		return nil, err
	}
	zoom := NewZoomOut(c.OutTime, func(ent *ecs.Entity, _ int) error {
		return ent.Kill(events.ReasonClicked)
	})
	if err = ent.AddComponent(zoom); err != nil {
		return nil, err
	}
	if err = ent.RemoveComponent(self); err != nil {
		return nil, err
	}
	return evt, nil
}
