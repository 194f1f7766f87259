// Package systems holds the world-level subscribers used by the demos.
package systems

import (
	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/game/events"
)

// Kinds lists the kinds each system expects to be registered under.
var (
	StepKinds    = []ecs.Kind{events.KindTick}
	MouseKinds   = []ecs.Kind{events.KindTick}
	RenderKinds  = []ecs.Kind{events.KindTick, ecs.KindKilled}
	RespawnKinds = []ecs.Kind{ecs.KindKilled}
)

// Step hands every broadcast event to every live entity. The first failing
// entity aborts the pass.
func Step(evt ecs.Event, reg *ecs.Registry) error {
	return reg.Each(func(ent *ecs.Entity) error {
		_, err := ent.Handle(evt)
		return err
	})
}
