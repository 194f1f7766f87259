package ecs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zeusync/evecs/internal/core/observability/log"
)

// EntityID identifies an entity within its world. Identifiers are assigned in
// increasing order and never reused by the same world.
type EntityID uint64

// Entity is an ordered list of components plus the pipelines compiled from it.
//
// Component additions and removals requested while the entity is handling an
// event are buffered and applied once the outermost Handle call returns, so a
// running pipeline always sees a stable component list.
type Entity struct {
	id    EntityID
	world *World

	components []Component
	pipelines  map[Kind]*Pipeline

	added   []Component
	removed []int

	depth  int
	dying  bool
	killed bool
}

// ID returns the entity identifier.
func (e *Entity) ID() EntityID { return e.id }

// World returns the world the entity belongs to.
func (e *Entity) World() *World { return e.world }

// Live reports whether the entity is still registered.
func (e *Entity) Live() bool { return !e.killed }

// Components returns a copy of the current component list.
func (e *Entity) Components() []Component {
	return slices.Clone(e.components)
}

// Handles reports whether any component handles kind.
func (e *Entity) Handles(kind Kind) bool {
	_, ok := e.pipelines[kind]
	return ok
}

// Kinds returns the handled kinds in sorted order.
func (e *Entity) Kinds() []Kind {
	kinds := make([]Kind, 0, len(e.pipelines))
	for k := range e.pipelines {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func (e *Entity) String() string {
	return fmt.Sprintf("entity(%d)", e.id)
}

// Handle runs the pipeline for evt.Kind() and returns its result.
//
// If no component handles the kind, Handle returns nil and no error.
// Buffered component mutations are applied after the pipeline finishes,
// even when it fails.
func (e *Entity) Handle(evt Event) (Event, error) {
	if e.killed {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotLive, e)
	}
	if evt == nil {
		return nil, fmt.Errorf("%s: nil event", e)
	}
	if e.depth == 0 {
		if err := e.flush(); err != nil {
			return nil, err
		}
	}

	p, ok := e.pipelines[evt.Kind()]
	if !ok {
		return nil, nil
	}

	out, err := e.run(p, evt)
	if e.depth == 0 && !e.killed {
		if ferr := e.flush(); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Entity) run(p *Pipeline, evt Event) (Event, error) {
	e.depth++
	defer func() { e.depth-- }()
	return p.Run(evt, e)
}

// Query handles a payload-less event of the given kind. It never reaches the bus.
func (e *Entity) Query(kind Kind) (Event, error) {
	return e.Handle(NewRequest(kind))
}

// QueryAs queries kind and asserts the result type. An unhandled kind or a
// result of another type is reported as ErrCapabilityMissing.
func QueryAs[T Event](e *Entity, kind Kind) (T, error) {
	var zero T
	res, err := e.Query(kind)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, fmt.Errorf("%w: %s has no %q", ErrCapabilityMissing, e, kind)
	}
	typed, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s answered %q with %T", ErrCapabilityMissing, e, kind, res)
	}
	return typed, nil
}

// Publish stamps evt with the entity id and broadcasts it to the world's systems.
func (e *Entity) Publish(evt Event) error {
	if e.killed {
		return fmt.Errorf("%w: %s", ErrEntityNotLive, e)
	}
	if evt == nil {
		return fmt.Errorf("%w: %s published a nil event", ErrInvalidEvent, e)
	}
	evt.Meta().stamp(e.id)
	return e.world.PublishEvent(evt)
}

// AddComponent queues c to be appended after the current handle cycle.
// Outside a cycle it takes effect on the next Handle call.
func (e *Entity) AddComponent(c Component) error {
	if e.killed {
		return fmt.Errorf("%w: %s", ErrEntityNotLive, e)
	}
	if err := Validate(c); err != nil {
		return err
	}
	e.added = append(e.added, c)
	return nil
}

// RemoveComponent queues the removal of the component at index, counted
// against the current component list.
func (e *Entity) RemoveComponent(index int) error {
	if e.killed {
		return fmt.Errorf("%w: %s", ErrEntityNotLive, e)
	}
	if index < 0 || index >= len(e.components) {
		return fmt.Errorf("%w: %s has %d components, got %d", ErrComponentIndex, e, len(e.components), index)
	}
	e.removed = append(e.removed, index)
	return nil
}

// Kill kills the entity through its world.
func (e *Entity) Kill(reason string) error {
	if e.killed {
		return fmt.Errorf("%w: %s", ErrEntityNotLive, e)
	}
	return e.world.KillEntity(e.id, reason)
}

// flush applies buffered mutations and recompiles when anything changed.
func (e *Entity) flush() error {
	if len(e.added) == 0 && len(e.removed) == 0 {
		return nil
	}
	removed := e.removed
	added := e.added
	e.removed = nil
	e.added = nil

	next := applyRemovals(e.components, removed)
	next = append(next, added...)
	pipelines, err := compile(next)
	if err != nil {
		return fmt.Errorf("recompile %s: %w", e, err)
	}
	e.components = next
	e.pipelines = pipelines
	e.world.recompiled(e, len(added), len(removed))
	return nil
}

// applyRemovals drops the given indices from list. Indices refer to list as
// passed; duplicates are ignored.
func applyRemovals(list []Component, indices []int) []Component {
	if len(indices) == 0 {
		return slices.Clone(list)
	}
	drop := slices.Clone(indices)
	slices.Sort(drop)
	drop = slices.Compact(drop)

	out := make([]Component, 0, len(list))
	j := 0
	for i, c := range list {
		if j < len(drop) && drop[j] == i {
			j++
			continue
		}
		out = append(out, c)
	}
	return out
}

func (e *Entity) logFields() []log.Field {
	return []log.Field{log.Uint64("entity", uint64(e.id)), log.Int("components", len(e.components))}
}
