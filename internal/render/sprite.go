package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Shape selects how a Sprite is rasterised.
type Shape uint8

const (
	ShapeRect Shape = iota
	ShapeCircle
)

// Sprite is a renderable handle. Rectangles are anchored at their top-left
// corner, circles at their centre. Scale shrinks the shape around its anchor.
type Sprite struct {
	Shape    Shape
	Size     mgl64.Vec2
	Radius   float64
	Color    tcell.Color
	Position mgl64.Vec2
	Scale    float64

	release func(*Sprite)
}

// NewRect creates an unpooled rectangle.
func NewRect(w, h float64, color tcell.Color) *Sprite {
	return &Sprite{Shape: ShapeRect, Size: mgl64.Vec2{w, h}, Color: color, Scale: 1}
}

// NewCircle creates an unpooled circle.
func NewCircle(r float64, color tcell.Color) *Sprite {
	return &Sprite{Shape: ShapeCircle, Radius: r, Color: color, Scale: 1}
}

// Pooled reports whether Release hands the sprite back to a pool.
func (s *Sprite) Pooled() bool { return s.release != nil }

// Release returns a pooled sprite to its pool. It is a no-op otherwise.
func (s *Sprite) Release() {
	if s.release != nil {
		s.release(s)
	}
}

// Bounds returns the axis-aligned box covered by the sprite in world units.
func (s *Sprite) Bounds() (lo, hi mgl64.Vec2) {
	switch s.Shape {
	case ShapeCircle:
		r := s.Radius * s.Scale
		return s.Position.Sub(mgl64.Vec2{r, r}), s.Position.Add(mgl64.Vec2{r, r})
	default:
		return s.Position, s.Position.Add(s.Size.Mul(s.Scale))
	}
}

// Contains reports whether the world point p is inside the sprite.
func (s *Sprite) Contains(p mgl64.Vec2) bool {
	switch s.Shape {
	case ShapeCircle:
		r := s.Radius * s.Scale
		return p.Sub(s.Position).Len() <= r
	default:
		lo, hi := s.Bounds()
		return p.X() >= lo.X() && p.X() < hi.X() && p.Y() >= lo.Y() && p.Y() < hi.Y()
	}
}

func (s *Sprite) empty() bool {
	switch s.Shape {
	case ShapeCircle:
		return s.Radius*s.Scale <= 0 || math.IsNaN(s.Radius*s.Scale)
	default:
		return s.Size.X()*s.Scale <= 0 || s.Size.Y()*s.Scale <= 0
	}
}
