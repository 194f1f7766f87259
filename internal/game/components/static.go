// Package components holds the demo components. Each component is a struct
// whose handlers are method values, so per-instance state lives on the struct.
package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/game/events"
	"github.com/zeusync/evecs/internal/render"
)

// StaticPosition answers position queries with a fixed point, discarding
// whatever earlier components computed.
type StaticPosition struct{ Pos mgl64.Vec2 }

func NewStaticPosition(x, y float64) *StaticPosition {
	return &StaticPosition{Pos: mgl64.Vec2{x, y}}
}

func (*StaticPosition) Name() string       { return "staticPosition" }
func (*StaticPosition) Events() []ecs.Kind { return []ecs.Kind{events.KindPosition} }
func (c *StaticPosition) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindPosition: c.position}
}

func (c *StaticPosition) position(ecs.Event, *ecs.Entity, int) (ecs.Event, error) {
	return &events.Position{Pos: c.Pos}, nil
}

type StaticVelocity struct{ Vel mgl64.Vec2 }

func NewStaticVelocity(x, y float64) *StaticVelocity {
	return &StaticVelocity{Vel: mgl64.Vec2{x, y}}
}

func (*StaticVelocity) Name() string       { return "staticVelocity" }
func (*StaticVelocity) Events() []ecs.Kind { return []ecs.Kind{events.KindVelocity} }
func (c *StaticVelocity) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindVelocity: c.velocity}
}

func (c *StaticVelocity) velocity(ecs.Event, *ecs.Entity, int) (ecs.Event, error) {
	return &events.Velocity{Vel: c.Vel}, nil
}

type StaticAcceleration struct{ Acc mgl64.Vec2 }

func NewStaticAcceleration(x, y float64) *StaticAcceleration {
	return &StaticAcceleration{Acc: mgl64.Vec2{x, y}}
}

func (*StaticAcceleration) Name() string       { return "staticAcceleration" }
func (*StaticAcceleration) Events() []ecs.Kind { return []ecs.Kind{events.KindAcceleration} }
func (c *StaticAcceleration) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindAcceleration: c.acceleration}
}

func (c *StaticAcceleration) acceleration(ecs.Event, *ecs.Entity, int) (ecs.Event, error) {
	return &events.Acceleration{Acc: c.Acc}, nil
}

type StaticSize struct{ Width, Height float64 }

func NewStaticSize(w, h float64) *StaticSize { return &StaticSize{Width: w, Height: h} }

func (*StaticSize) Name() string       { return "staticSize" }
func (*StaticSize) Events() []ecs.Kind { return []ecs.Kind{events.KindSize} }
func (c *StaticSize) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindSize: c.size}
}

func (c *StaticSize) size(ecs.Event, *ecs.Entity, int) (ecs.Event, error) {
	return &events.Size{Width: c.Width, Height: c.Height}, nil
}

type StaticRadius struct{ Radius float64 }

func NewStaticRadius(r float64) *StaticRadius { return &StaticRadius{Radius: r} }

func (*StaticRadius) Name() string       { return "staticRadius" }
func (*StaticRadius) Events() []ecs.Kind { return []ecs.Kind{events.KindRadius} }
func (c *StaticRadius) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindRadius: c.radius}
}

func (c *StaticRadius) radius(ecs.Event, *ecs.Entity, int) (ecs.Event, error) {
	return &events.Radius{Radius: c.Radius}, nil
}

// StaticGraphic hands out the same sprite on every graphic query.
type StaticGraphic struct{ Sprite *render.Sprite }

func NewStaticGraphic(s *render.Sprite) *StaticGraphic { return &StaticGraphic{Sprite: s} }

func (*StaticGraphic) Name() string       { return "staticGraphic" }
func (*StaticGraphic) Events() []ecs.Kind { return []ecs.Kind{events.KindGraphic} }
func (c *StaticGraphic) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindGraphic: c.graphic}
}

func (c *StaticGraphic) graphic(ecs.Event, *ecs.Entity, int) (ecs.Event, error) {
	return &events.Graphic{Sprite: c.Sprite}, nil
}
