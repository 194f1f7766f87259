// Package events defines the event kinds exchanged by the demo components and systems.
//
// Each kind has one payload struct. Handlers that extend a chained result use
// As to obtain a typed event, whether they received the previous handler's
// result or the bare request sent by a query.
package events

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/render"
)

const (
	KindTick         ecs.Kind = "tick"
	KindPosition     ecs.Kind = "position"
	KindVelocity     ecs.Kind = "velocity"
	KindAcceleration ecs.Kind = "acceleration"
	KindSize         ecs.Kind = "size"
	KindRadius       ecs.Kind = "radius"
	KindGraphic      ecs.Kind = "graphic"
	KindHitbox       ecs.Kind = "hitbox"
	KindHitcircle    ecs.Kind = "hitcircle"
	KindTouchesPoint ecs.Kind = "touchesPoint"
	KindMouseDown    ecs.Kind = "mousedown"
	KindMouseUp      ecs.Kind = "mouseup"
	KindMouseMove    ecs.Kind = "mousemove"
)

// Kill reasons used by the demo scenarios.
const (
	ReasonClicked = "clicked"
	ReasonOut     = "out"
	ReasonExpired = "expired"
)

// Tick is published once per frame. Delta is in seconds.
type Tick struct {
	ecs.Header
	Delta float64
}

func (*Tick) Kind() ecs.Kind { return KindTick }

type Position struct {
	ecs.Header
	Pos mgl64.Vec2
}

func (*Position) Kind() ecs.Kind { return KindPosition }

type Velocity struct {
	ecs.Header
	Vel mgl64.Vec2
}

func (*Velocity) Kind() ecs.Kind { return KindVelocity }

type Acceleration struct {
	ecs.Header
	Acc mgl64.Vec2
}

func (*Acceleration) Kind() ecs.Kind { return KindAcceleration }

type Size struct {
	ecs.Header
	Width, Height float64
}

func (*Size) Kind() ecs.Kind { return KindSize }

type Radius struct {
	ecs.Header
	Radius float64
}

func (*Radius) Kind() ecs.Kind { return KindRadius }

// Graphic carries the renderable an entity wants drawn this frame.
type Graphic struct {
	ecs.Header
	Sprite *render.Sprite
}

func (*Graphic) Kind() ecs.Kind { return KindGraphic }

// Hitbox is an axis-aligned box anchored at its top-left corner.
type Hitbox struct {
	ecs.Header
	Min           mgl64.Vec2
	Width, Height float64
}

func (*Hitbox) Kind() ecs.Kind { return KindHitbox }

type Hitcircle struct {
	ecs.Header
	Center mgl64.Vec2
	R      float64
}

func (*Hitcircle) Kind() ecs.Kind { return KindHitcircle }

// TouchesPoint asks whether the point is inside the entity; Yes carries the answer.
type TouchesPoint struct {
	ecs.Header
	Point mgl64.Vec2
	Yes   bool
}

func (*TouchesPoint) Kind() ecs.Kind { return KindTouchesPoint }

// Pointer is a mouse event; K is one of the mouse kinds.
type Pointer struct {
	ecs.Header
	K     ecs.Kind
	Point mgl64.Vec2
}

func (p *Pointer) Kind() ecs.Kind { return p.K }

func NewPointer(kind ecs.Kind, at mgl64.Vec2) *Pointer {
	return &Pointer{K: kind, Point: at}
}

// As returns evt as *T when it already is one, or a fresh zero *T otherwise,
// for instance when evt is the request sent by a query.
func As[T any, P interface {
	*T
	ecs.Event
}](evt ecs.Event) P {
	if p, ok := evt.(P); ok {
		return p
	}
	return P(new(T))
}

// Factories returns a constructor for every kind defined here, plus killed.
// Scripted components use it to materialise events from Lua tables.
func Factories() map[ecs.Kind]func() ecs.Event {
	pointer := func(kind ecs.Kind) func() ecs.Event {
		return func() ecs.Event { return &Pointer{K: kind} }
	}
	return map[ecs.Kind]func() ecs.Event{
		KindTick:         func() ecs.Event { return &Tick{} },
		KindPosition:     func() ecs.Event { return &Position{} },
		KindVelocity:     func() ecs.Event { return &Velocity{} },
		KindAcceleration: func() ecs.Event { return &Acceleration{} },
		KindSize:         func() ecs.Event { return &Size{} },
		KindRadius:       func() ecs.Event { return &Radius{} },
		KindGraphic:      func() ecs.Event { return &Graphic{} },
		KindHitbox:       func() ecs.Event { return &Hitbox{} },
		KindHitcircle:    func() ecs.Event { return &Hitcircle{} },
		KindTouchesPoint: func() ecs.Event { return &TouchesPoint{} },
		KindMouseDown:    pointer(KindMouseDown),
		KindMouseUp:      pointer(KindMouseUp),
		KindMouseMove:    pointer(KindMouseMove),
		ecs.KindKilled:   func() ecs.Event { return &ecs.Killed{} },
	}
}
