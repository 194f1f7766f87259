package ecs

import (
	"fmt"
	"reflect"
)

// HandlerFunc handles one event kind for one component.
//
// evt is the previous handler's result in the pipeline, or the triggering event
// if there was no previous handler or it returned nil. self is the component's
// index in the entity's component list. A nil result means "no result"; a non-nil
// error aborts the pipeline.
type HandlerFunc func(evt Event, ent *Entity, self int) (Event, error)

// Handlers maps event kinds to the handlers of a single component.
type Handlers map[Kind]HandlerFunc

// Component is a bundle of event handlers attached to an entity.
//
// Events must list exactly the kinds present in Handlers. Components holding
// state should return method values bound to their own receiver so that state
// stays with the instance.
type Component interface {
	Events() []Kind
	Handlers() Handlers
}

// Named components report a name used in logs and errors.
type Named interface {
	Name() string
}

// ComponentName returns c's name, falling back to its dynamic type.
func ComponentName(c Component) string {
	if n, ok := c.(Named); ok {
		return n.Name()
	}
	if c == nil {
		return "<nil>"
	}
	return reflect.TypeOf(c).String()
}

type defined struct {
	name     string
	kinds    []Kind
	handlers Handlers
}

// Define builds a stateless component from a handler map. kinds fixes the
// declaration order; it must cover every key of handlers.
func Define(name string, handlers Handlers, kinds ...Kind) Component {
	return &defined{name: name, kinds: kinds, handlers: handlers}
}

func (d *defined) Name() string       { return d.name }
func (d *defined) Events() []Kind     { return d.kinds }
func (d *defined) Handlers() Handlers { return d.handlers }

// Validate checks that a component's declared kinds and its handlers agree.
func Validate(c Component) error {
	if c == nil {
		return fmt.Errorf("%w: nil component", ErrMisconfiguredComponent)
	}
	name := ComponentName(c)
	kinds := c.Events()
	if len(kinds) == 0 {
		return fmt.Errorf("%w: %s declares no events", ErrMisconfiguredComponent, name)
	}
	handlers := c.Handlers()
	seen := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		if k == "" {
			return fmt.Errorf("%w: %s declares an empty kind", ErrMisconfiguredComponent, name)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: %s declares %q twice", ErrMisconfiguredComponent, name, k)
		}
		seen[k] = struct{}{}
		if handlers[k] == nil {
			return fmt.Errorf("%w: %s declares %q without a handler", ErrMisconfiguredComponent, name, k)
		}
	}
	for k := range handlers {
		if _, ok := seen[k]; !ok {
			return fmt.Errorf("%w: %s handles undeclared kind %q", ErrMisconfiguredComponent, name, k)
		}
	}
	return nil
}
