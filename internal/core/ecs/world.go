package ecs

import (
	"fmt"

	"github.com/zeusync/evecs/internal/core/observability/log"
)

const maxTeardownRounds = 16

// World owns the entity registry and the system subscription table.
//
// A World is single-threaded: every method runs to completion on the caller's
// goroutine and none of them may be called concurrently. Systems and
// components may create and kill entities while a broadcast is in progress;
// later systems in the same broadcast observe those changes.
type World struct {
	log log.Log

	entities  map[EntityID]*Entity
	order     []EntityID
	stale     int
	iterating int
	// generation changes on every reset; running iterations stop when it does.
	generation uint64
	nextID    EntityID

	systems    map[Kind][]*subscription
	publishing int

	observers []Observer
	metrics   Metrics
	registry  *Registry
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the world's logger. The default discards everything.
func WithLogger(l log.Log) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(obs Observer) Option {
	return func(w *World) {
		w.AddObserver(obs)
	}
}

// NewWorld creates an initialised, empty world.
func NewWorld(opts ...Option) *World {
	w := &World{log: log.NewNop()}
	w.registry = &Registry{world: w}
	for _, opt := range opts {
		opt(w)
	}
	w.reset()
	return w
}

// Init clears the subscription table and the registry and restarts
// identifiers at zero. It refuses to discard live entities; use Teardown to
// kill them first.
func (w *World) Init() error {
	if len(w.entities) > 0 {
		w.log.Warn("init refused", log.Int("live", len(w.entities)))
		return fmt.Errorf("%w: %d entities", ErrWorldLive, len(w.entities))
	}
	w.reset()
	return nil
}

// Teardown kills every live entity in identifier order, running their kill
// handlers and broadcasting each kill, and then re-initialises the world.
//
// Kill handlers may spawn entities; those are killed in further rounds, up to
// maxTeardownRounds.
func (w *World) Teardown(reason string) error {
	for round := 0; len(w.entities) > 0; round++ {
		if round == maxTeardownRounds {
			return fmt.Errorf("teardown: %w: still %d after %d rounds", ErrWorldLive, len(w.entities), round)
		}
		for _, id := range w.registry.IDs() {
			if !w.registry.Has(id) {
				continue
			}
			if err := w.KillEntity(id, reason); err != nil {
				return fmt.Errorf("teardown: %w", err)
			}
		}
	}
	return w.Init()
}

func (w *World) reset() {
	w.entities = make(map[EntityID]*Entity)
	w.order = nil
	w.generation++
	w.stale = 0
	w.nextID = 0
	w.systems = make(map[Kind][]*subscription)
	w.metrics = Metrics{}
	w.log.Debug("world initialised")
}

// Entities returns the live view of registered entities.
func (w *World) Entities() *Registry { return w.registry }

// NewEntity compiles the given components into a new entity and registers it.
// The entity is visible to every later broadcast and registry iteration.
func (w *World) NewEntity(components ...Component) (*Entity, error) {
	list := make([]Component, len(components))
	copy(list, components)
	pipelines, err := compile(list)
	if err != nil {
		return nil, fmt.Errorf("new entity: %w", err)
	}

	e := &Entity{
		id:         w.nextID,
		world:      w,
		components: list,
		pipelines:  pipelines,
	}
	w.nextID++
	w.entities[e.id] = e
	w.order = append(w.order, e.id)
	w.metrics.EntitiesCreated++

	w.log.Debug("entity created", e.logFields()...)
	return e, nil
}

// KillEntity delivers a local killed event to the entity, removes it from the
// registry and then broadcasts the kill. Killing an unknown id is an error.
func (w *World) KillEntity(id EntityID, reason string) error {
	e, ok := w.entities[id]
	if !ok {
		return fmt.Errorf("%w: kill %d", ErrEntityNotFound, id)
	}
	if e.dying {
		return fmt.Errorf("%w: %s is already being killed", ErrEntityNotLive, e)
	}

	e.dying = true
	if _, err := e.Handle(&Killed{ID: id, Reason: reason}); err != nil {
		e.dying = false
		return fmt.Errorf("kill %s: %w", e, err)
	}

	delete(w.entities, id)
	e.killed = true
	w.stale++
	w.compact()
	w.metrics.EntitiesKilled++
	w.log.Debug("entity killed", log.Uint64("entity", uint64(id)), log.String("reason", reason))

	return w.PublishEvent(&Killed{ID: id, Reason: reason})
}

// compact drops killed ids from the iteration order once no iteration is running.
func (w *World) compact() {
	if w.iterating > 0 || w.stale == 0 {
		return
	}
	live := w.order[:0]
	for _, id := range w.order {
		if _, ok := w.entities[id]; ok {
			live = append(live, id)
		}
	}
	clear(w.order[len(live):])
	w.order = live
	w.stale = 0
}

func (w *World) recompiled(e *Entity, added, removed int) {
	w.metrics.Recompiles++
	w.log.Debug("entity recompiled", append(e.logFields(), log.Int("added", added), log.Int("removed", removed))...)
}
