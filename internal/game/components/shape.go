package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/game/events"
)

// PositionGraphic moves the sprite produced by earlier components to the
// entity's current position.
type PositionGraphic struct{}

func NewPositionGraphic() *PositionGraphic { return &PositionGraphic{} }

func (*PositionGraphic) Name() string       { return "positionGraphic" }
func (*PositionGraphic) Events() []ecs.Kind { return []ecs.Kind{events.KindGraphic} }
func (c *PositionGraphic) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindGraphic: c.graphic}
}

func (*PositionGraphic) graphic(evt ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	g := events.As[events.Graphic](evt)
	if g.Sprite == nil {
		return g, nil
	}
	pos, err := ecs.QueryAs[*events.Position](ent, events.KindPosition)
	if err != nil {
		return nil, err
	}
	g.Sprite.Position = pos.Pos
	return g, nil
}

// Hitbox derives an axis-aligned box from position and size and answers
// point tests against it. Edges are exclusive.
type Hitbox struct{}

func NewHitbox() *Hitbox { return &Hitbox{} }

func (*Hitbox) Name() string { return "hitbox" }
func (*Hitbox) Events() []ecs.Kind {
	return []ecs.Kind{events.KindHitbox, events.KindTouchesPoint}
}
func (c *Hitbox) Handlers() ecs.Handlers {
	return ecs.Handlers{events.KindHitbox: c.hitbox, events.KindTouchesPoint: c.touches}
}

func (*Hitbox) hitbox(_ ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	pos, err := ecs.QueryAs[*events.Position](ent, events.KindPosition)
	if err != nil {
		return nil, err
	}
	size, err := ecs.QueryAs[*events.Size](ent, events.KindSize)
	if err != nil {
		return nil, err
	}
	return &events.Hitbox{Min: pos.Pos, Width: size.Width, Height: size.Height}, nil
}

func (*Hitbox) touches(evt ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	t := events.As[events.TouchesPoint](evt)
	box, err := ecs.QueryAs[*events.Hitbox](ent, events.KindHitbox)
	if err != nil {
		return nil, err
	}
	t.Yes = insideBox(t.Point, box)
	return t, nil
}

func insideBox(p mgl64.Vec2, box *events.Hitbox) bool {
	return p.X() > box.Min.X() && p.X() < box.Min.X()+box.Width &&
		p.Y() > box.Min.Y() && p.Y() < box.Min.Y()+box.Height
}

// Hitcircle derives a circle from position and radius. Its hitbox is the
// square that bounds the circle.
type Hitcircle struct{}

func NewHitcircle() *Hitcircle { return &Hitcircle{} }

func (*Hitcircle) Name() string { return "hitcircle" }
func (*Hitcircle) Events() []ecs.Kind {
	return []ecs.Kind{events.KindHitbox, events.KindHitcircle, events.KindTouchesPoint}
}
func (c *Hitcircle) Handlers() ecs.Handlers {
	return ecs.Handlers{
		events.KindHitbox:       c.hitbox,
		events.KindHitcircle:    c.hitcircle,
		events.KindTouchesPoint: c.touches,
	}
}

func (*Hitcircle) hitcircle(_ ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	pos, err := ecs.QueryAs[*events.Position](ent, events.KindPosition)
	if err != nil {
		return nil, err
	}
	r, err := ecs.QueryAs[*events.Radius](ent, events.KindRadius)
	if err != nil {
		return nil, err
	}
	return &events.Hitcircle{Center: pos.Pos, R: r.Radius}, nil
}

func (*Hitcircle) hitbox(_ ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	c, err := ecs.QueryAs[*events.Hitcircle](ent, events.KindHitcircle)
	if err != nil {
		return nil, err
	}
	return &events.Hitbox{
		Min:    c.Center.Sub(mgl64.Vec2{c.R, c.R}),
		Width:  2 * c.R,
		Height: 2 * c.R,
	}, nil
}

func (*Hitcircle) touches(evt ecs.Event, ent *ecs.Entity, _ int) (ecs.Event, error) {
	t := events.As[events.TouchesPoint](evt)
	c, err := ecs.QueryAs[*events.Hitcircle](ent, events.KindHitcircle)
	if err != nil {
		return nil, err
	}
	t.Yes = t.Point.Sub(c.Center).Len() <= c.R
	return t, nil
}
