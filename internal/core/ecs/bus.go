package ecs

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/evecs/internal/core/observability/log"
)

// SystemFunc is a world-level subscriber. It receives every broadcast event of
// the kinds it was registered under, together with the live registry.
type SystemFunc func(evt Event, reg *Registry) error

// Subscription represents a system registered under one or more kinds.
type Subscription interface {
	// ID is a unique identifier for this subscription.
	ID() string
	// Kinds returns the kinds the system was registered under, in order.
	Kinds() []Kind
	// IsActive reports whether the system still receives events.
	IsActive() bool
	// Cancel removes the system from every kind. Multiple calls are safe.
	Cancel()
}

type subscription struct {
	id     string
	kinds  []Kind
	fn     SystemFunc
	active bool
	world  *World
}

func (s *subscription) ID() string     { return s.id }
func (s *subscription) Kinds() []Kind  { return slices.Clone(s.kinds) }
func (s *subscription) IsActive() bool { return s.active }
func (s *subscription) Cancel() {
	if !s.active {
		return
	}
	s.active = false
	s.world.unsubscribe(s)
}

// Observer is notified about broadcasts. Observers should return quickly.
type Observer interface {
	OnPublish(evt Event, systems int)
	OnDelivered(evt Event, systems int, err error, elapsed time.Duration)
}

// Metrics is a snapshot of world counters since the last Init.
type Metrics struct {
	Published       uint64
	Delivered       uint64
	Errors          uint64
	EntitiesCreated uint64
	EntitiesKilled  uint64
	Recompiles      uint64
	Systems         int
}

// AddSystem registers fn under every kind in kinds, after any system already
// registered under that kind. Registering the same function twice under a kind
// makes it run twice.
func (w *World) AddSystem(kinds []Kind, fn SystemFunc) Subscription {
	s := &subscription{
		id:     uuid.NewString(),
		kinds:  slices.Clone(kinds),
		fn:     fn,
		active: true,
		world:  w,
	}
	for _, k := range kinds {
		w.systems[k] = append(w.systems[k], s)
	}
	w.log.Debug("system added", log.String("subscription", s.id), log.Any("kinds", kinds))
	return s
}

// RemoveSystem cancels sub. It is safe to call with nil.
func (w *World) RemoveSystem(sub Subscription) {
	if sub == nil {
		return
	}
	sub.Cancel()
}

func (w *World) unsubscribe(s *subscription) {
	for _, k := range s.kinds {
		subs := w.systems[k]
		// Copy so that broadcasts already iterating the old list are unaffected.
		kept := make([]*subscription, 0, len(subs))
		for _, other := range subs {
			if other != s {
				kept = append(kept, other)
			}
		}
		if len(kept) == 0 {
			delete(w.systems, k)
		} else {
			w.systems[k] = kept
		}
	}
	w.log.Debug("system removed", log.String("subscription", s.id))
}

// Systems returns the number of registrations for kind.
func (w *World) Systems(kind Kind) int {
	return len(w.systems[kind])
}

// PublishEvent runs every system registered under evt.Kind() in registration
// order. The first failing system aborts the broadcast and its error is
// returned. Systems registered during the broadcast first see the next one.
func (w *World) PublishEvent(evt Event) error {
	if evt == nil {
		return fmt.Errorf("%w: publish nil", ErrInvalidEvent)
	}
	kind := evt.Kind()
	subs := w.systems[kind]
	if len(w.observers) > 0 {
		for _, obs := range w.observers {
			obs.OnPublish(evt, len(subs))
		}
	}
	start := time.Now()

	w.publishing++
	var err error
	delivered := 0
	for _, s := range subs {
		if !s.active {
			continue
		}
		delivered++
		if err = s.fn(evt, w.registry); err != nil {
			err = fmt.Errorf("system %s on %q: %w", s.id, kind, err)
			break
		}
	}
	w.publishing--

	w.metrics.Published++
	w.metrics.Delivered += uint64(delivered)
	if err != nil {
		w.metrics.Errors++
	}
	if len(w.observers) > 0 {
		elapsed := time.Since(start)
		for _, obs := range w.observers {
			obs.OnDelivered(evt, delivered, err, elapsed)
		}
	}
	return err
}

// Publishing reports whether a broadcast is in progress.
func (w *World) Publishing() bool { return w.publishing > 0 }

// AddObserver registers an observer.
func (w *World) AddObserver(obs Observer) {
	if obs == nil {
		return
	}
	w.observers = append(w.observers, obs)
}

// RemoveObserver unregisters a previously added observer.
func (w *World) RemoveObserver(obs Observer) {
	w.observers = slices.DeleteFunc(w.observers, func(o Observer) bool { return o == obs })
}

// Metrics returns the current counters.
func (w *World) Metrics() Metrics {
	m := w.metrics
	m.Systems = 0
	for _, subs := range w.systems {
		m.Systems += len(subs)
	}
	return m
}
