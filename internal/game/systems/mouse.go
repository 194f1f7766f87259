package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/game/events"
)

// Mouse latches the most recent pointer press, release and motion between
// ticks and delivers them to entities on the next tick.
//
// A press is delivered only to entities whose touchesPoint answer is yes;
// releases and motion go to every entity. Mouse is not safe for concurrent
// use; feed it from the goroutine that publishes ticks.
type Mouse struct {
	down, up, move *mgl64.Vec2
}

func NewMouse() *Mouse { return &Mouse{} }

func (m *Mouse) Down(at mgl64.Vec2) { m.down = &at }
func (m *Mouse) Up(at mgl64.Vec2)   { m.up = &at }
func (m *Mouse) Move(at mgl64.Vec2) { m.move = &at }

// Pending reports whether any pointer input waits for the next tick.
func (m *Mouse) Pending() bool {
	return m.down != nil || m.up != nil || m.move != nil
}

// System is the SystemFunc to register under MouseKinds.
func (m *Mouse) System(_ ecs.Event, reg *ecs.Registry) error {
	if !m.Pending() {
		return nil
	}
	down, up, move := m.down, m.up, m.move
	m.down, m.up, m.move = nil, nil, nil

	return reg.Each(func(ent *ecs.Entity) error {
		if down != nil {
			res, err := ent.Handle(&events.TouchesPoint{Point: *down})
			if err != nil {
				return err
			}
			if t, ok := res.(*events.TouchesPoint); ok && t.Yes {
				if err = deliver(ent, events.KindMouseDown, *down); err != nil {
					return err
				}
			}
		}
		if up != nil {
			if err := deliver(ent, events.KindMouseUp, *up); err != nil {
				return err
			}
		}
		if move != nil {
			if err := deliver(ent, events.KindMouseMove, *move); err != nil {
				return err
			}
		}
		return nil
	})
}

// deliver skips entities a previous delivery killed.
func deliver(ent *ecs.Entity, kind ecs.Kind, at mgl64.Vec2) error {
	if !ent.Live() {
		return nil
	}
	_, err := ent.Handle(events.NewPointer(kind, at))
	return err
}
