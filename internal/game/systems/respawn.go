package systems

import (
	"slices"

	"github.com/zeusync/evecs/internal/core/ecs"
)

// Respawn calls Spawn once for every kill whose reason is in Reasons.
type Respawn struct {
	Reasons []string
	Spawn   func() error

	count int
}

func NewRespawn(spawn func() error, reasons ...string) *Respawn {
	return &Respawn{Reasons: reasons, Spawn: spawn}
}

// Count returns how many respawns happened.
func (r *Respawn) Count() int { return r.count }

// System is the SystemFunc to register under RespawnKinds.
func (r *Respawn) System(evt ecs.Event, _ *ecs.Registry) error {
	k, ok := evt.(*ecs.Killed)
	if !ok || !slices.Contains(r.Reasons, k.Reason) {
		return nil
	}
	r.count++
	return r.Spawn()
}
