package ecs

import (
	"iter"

	"github.com/zeusync/evecs/pkg/sequence"
)

// Registry is a live view over a world's entities.
//
// Iteration runs in ascending identifier order. Entities killed before the
// iteration reaches them are skipped; entities created after it started are
// not visited. Resetting the world ends every running iteration.
type Registry struct {
	world *World
}

// Get returns the live entity with the given id.
func (r *Registry) Get(id EntityID) (*Entity, bool) {
	e, ok := r.world.entities[id]
	return e, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id EntityID) bool {
	_, ok := r.world.entities[id]
	return ok
}

// Len returns the number of live entities.
func (r *Registry) Len() int { return len(r.world.entities) }

// IDs returns the live identifiers in ascending order.
func (r *Registry) IDs() []EntityID {
	ids := make([]EntityID, 0, len(r.world.entities))
	for id := range r.All() {
		ids = append(ids, id)
	}
	return ids
}

// All iterates the live entities.
func (r *Registry) All() iter.Seq2[EntityID, *Entity] {
	return func(yield func(EntityID, *Entity) bool) {
		w := r.world
		w.iterating++
		defer func() {
			w.iterating--
			w.compact()
		}()

		gen := w.generation
		n := len(w.order)
		for i := 0; i < n && w.generation == gen; i++ {
			id := w.order[i]
			e, ok := w.entities[id]
			if !ok {
				continue
			}
			if !yield(id, e) {
				return
			}
		}
	}
}

// Entities returns a chainable iterator over the live entities.
func (r *Registry) Entities() *sequence.Iterator[*Entity] {
	return sequence.FromSeq2Values(r.All())
}

// Each calls fn for every live entity and stops at the first error.
func (r *Registry) Each(fn func(*Entity) error) error {
	for _, e := range r.All() {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}
