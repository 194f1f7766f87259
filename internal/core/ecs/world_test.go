package ecs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIDsAreMonotonic(t *testing.T) {
	w := NewWorld()
	a, err := w.NewEntity(newTracer("a", "k"))
	require.NoError(t, err)
	b, err := w.NewEntity(newTracer("b", "k"))
	require.NoError(t, err)
	require.NoError(t, a.Kill("gone"))
	c, err := w.NewEntity(newTracer("c", "k"))
	require.NoError(t, err)

	assert.Equal(t, EntityID(0), a.ID())
	assert.Equal(t, EntityID(1), b.ID())
	assert.Equal(t, EntityID(2), c.ID(), "identifiers are never reused")
	assert.Equal(t, []EntityID{1, 2}, w.Entities().IDs())
}

func TestNewEntityFailsFastOnMisconfiguration(t *testing.T) {
	w := NewWorld()
	_, err := w.NewEntity(newTracer("a", "k"), Define("bad", Handlers{}, "k"))
	assert.ErrorIs(t, err, ErrMisconfiguredComponent)
	assert.Zero(t, w.Entities().Len())

	e, err := w.NewEntity(newTracer("a", "k"))
	require.NoError(t, err)
	assert.Equal(t, EntityID(0), e.ID(), "failed construction does not consume an id")
}

func TestKillEntityOrdering(t *testing.T) {
	w := NewWorld()
	var steps []string
	var e *Entity

	w.AddSystem([]Kind{KindKilled}, func(evt Event, reg *Registry) error {
		k := evt.(*Killed)
		assert.Equal(t, e.ID(), k.ID)
		assert.Equal(t, "shot", k.Reason)
		assert.False(t, reg.Has(k.ID), "systems observe the kill after deregistration")
		steps = append(steps, "system")
		return nil
	})

	var err error
	e, err = w.NewEntity(fn("onDeath", KindKilled, func(evt Event, ent *Entity, _ int) (Event, error) {
		assert.Equal(t, "shot", evt.(*Killed).Reason)
		assert.True(t, w.Entities().Has(ent.ID()), "local handler runs while still registered")
		steps = append(steps, "local")
		return evt, nil
	}))
	require.NoError(t, err)

	require.NoError(t, w.KillEntity(e.ID(), "shot"))
	assert.Equal(t, []string{"local", "system"}, steps)
	assert.False(t, w.Entities().Has(e.ID()))
}

func TestKillUnknownEntity(t *testing.T) {
	w := NewWorld()
	err := w.KillEntity(7, "nope")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestKillFromKilledHandlerIsRejected(t *testing.T) {
	w := NewWorld()
	e, err := w.NewEntity(fn("again", KindKilled, func(evt Event, ent *Entity, _ int) (Event, error) {
		return evt, ent.Kill("again")
	}))
	require.NoError(t, err)

	err = e.Kill("first")
	assert.ErrorIs(t, err, ErrEntityNotLive)
	assert.True(t, w.Entities().Has(e.ID()), "a failed kill handler leaves the entity registered")
}

func TestKillDuringOwnPipeline(t *testing.T) {
	w := NewWorld()
	after := newTracer("after", "tick")
	e, err := w.NewEntity(
		fn("killIf", "tick", func(evt Event, ent *Entity, _ int) (Event, error) {
			return evt, ent.Kill("expired")
		}),
		after,
	)
	require.NoError(t, err)

	_, err = e.Handle(newProbe("tick"))
	require.NoError(t, err)
	assert.False(t, e.Live())
	assert.Equal(t, 1, after.calls, "the running pipeline finishes")
}

func TestSystemsRunInRegistrationOrder(t *testing.T) {
	w := NewWorld()
	var steps []string
	for i := 0; i < 2; i++ {
		name := string(rune('a' + i))
		_, err := w.NewEntity(fn(name, "tick", func(evt Event, _ *Entity, _ int) (Event, error) {
			steps = append(steps, "A:"+name)
			return evt, nil
		}))
		require.NoError(t, err)
	}

	w.AddSystem([]Kind{"tick"}, func(evt Event, reg *Registry) error {
		return reg.Each(func(e *Entity) error {
			_, err := e.Handle(evt)
			return err
		})
	})
	w.AddSystem([]Kind{"tick"}, func(Event, *Registry) error {
		steps = append(steps, "B")
		return nil
	})

	require.NoError(t, w.PublishEvent(newProbe("tick")))
	assert.Equal(t, []string{"A:a", "A:b", "B"}, steps)
}

func TestBroadcastSeesEarlierMutations(t *testing.T) {
	w := NewWorld()
	victim, err := w.NewEntity(newTracer("victim", "k"))
	require.NoError(t, err)

	var spawned *Entity
	w.AddSystem([]Kind{"tick"}, func(_ Event, reg *Registry) error {
		if err := w.KillEntity(victim.ID(), "culled"); err != nil {
			return err
		}
		spawned, err = w.NewEntity(newTracer("spawned", "k"))
		return err
	})
	var seen []EntityID
	w.AddSystem([]Kind{"tick"}, func(_ Event, reg *Registry) error {
		seen = reg.IDs()
		return nil
	})

	require.NoError(t, w.PublishEvent(newProbe("tick")))
	assert.Equal(t, []EntityID{spawned.ID()}, seen)
}

func TestRegistryIterationIsLive(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 4; i++ {
		_, err := w.NewEntity(newTracer("e", "k"))
		require.NoError(t, err)
	}

	var visited []EntityID
	for id := range w.Entities().All() {
		visited = append(visited, id)
		if id == 0 {
			require.NoError(t, w.KillEntity(2, "skip"))
			_, err := w.NewEntity(newTracer("late", "k"))
			require.NoError(t, err)
		}
	}
	assert.Equal(t, []EntityID{0, 1, 3}, visited)
	assert.Equal(t, []EntityID{0, 1, 3, 4}, w.Entities().IDs())
	assert.Equal(t, 4, w.Entities().Len())
}

func TestRegistryEntitiesSequence(t *testing.T) {
	w := NewWorld()
	for _, k := range []Kind{"a", "b", "a"} {
		_, err := w.NewEntity(newTracer(string(k), k))
		require.NoError(t, err)
	}
	n := w.Entities().Entities().Filter(func(e *Entity) bool { return e.Handles("a") }).Count()
	assert.Equal(t, 2, n)
}

func TestAddSystemDuplicatesAndCancel(t *testing.T) {
	w := NewWorld()
	calls := 0
	sys := func(Event, *Registry) error {
		calls++
		return nil
	}
	first := w.AddSystem([]Kind{"a", "b"}, sys)
	w.AddSystem([]Kind{"a"}, sys)

	require.NoError(t, w.PublishEvent(newProbe("a")))
	assert.Equal(t, 2, calls)
	require.NoError(t, w.PublishEvent(newProbe("b")))
	assert.Equal(t, 3, calls)

	assert.NotEmpty(t, first.ID())
	assert.Equal(t, []Kind{"a", "b"}, first.Kinds())
	w.RemoveSystem(first)
	w.RemoveSystem(nil)
	assert.False(t, first.IsActive())
	assert.Equal(t, 1, w.Systems("a"))
	assert.Zero(t, w.Systems("b"))

	require.NoError(t, w.PublishEvent(newProbe("b")))
	assert.Equal(t, 3, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	w := NewWorld()
	assert.NoError(t, w.PublishEvent(newProbe("nobody")))
	assert.ErrorIs(t, w.PublishEvent(nil), ErrInvalidEvent)
}

func TestFailingSystemAbortsBroadcast(t *testing.T) {
	w := NewWorld()
	boom := errors.New("boom")
	later := false
	w.AddSystem([]Kind{"tick"}, func(Event, *Registry) error { return boom })
	w.AddSystem([]Kind{"tick"}, func(Event, *Registry) error {
		later = true
		return nil
	})

	err := w.PublishEvent(newProbe("tick"))
	assert.ErrorIs(t, err, boom)
	assert.False(t, later)
	assert.Equal(t, uint64(1), w.Metrics().Errors)
}

func TestInitRefusesLiveEntities(t *testing.T) {
	w := NewWorld()
	_, err := w.NewEntity(newTracer("a", "k"))
	require.NoError(t, err)

	assert.ErrorIs(t, w.Init(), ErrWorldLive)
	assert.Equal(t, 1, w.Entities().Len())
}

func TestTeardownRunsKillHandlers(t *testing.T) {
	w := NewWorld()
	var reasons []string
	spawnedChild := false
	onDeath := fn("onDeath", KindKilled, func(evt Event, _ *Entity, _ int) (Event, error) {
		reasons = append(reasons, evt.(*Killed).Reason)
		if !spawnedChild {
			spawnedChild = true
			_, err := w.NewEntity(newTracer("child", "k"))
			return evt, err
		}
		return evt, nil
	})
	broadcasts := 0
	w.AddSystem([]Kind{KindKilled}, func(Event, *Registry) error {
		broadcasts++
		return nil
	})
	_, err := w.NewEntity(onDeath)
	require.NoError(t, err)
	_, err = w.NewEntity(newTracer("plain", "k"))
	require.NoError(t, err)

	require.NoError(t, w.Teardown("shutdown"))
	assert.Equal(t, []string{"shutdown"}, reasons)
	assert.Equal(t, 3, broadcasts, "the spawned child is torn down too")
	assert.Zero(t, w.Entities().Len())
	assert.Zero(t, w.Systems(KindKilled), "teardown re-initialises the subscription table")

	e, err := w.NewEntity(newTracer("fresh", "k"))
	require.NoError(t, err)
	assert.Equal(t, EntityID(0), e.ID())
}

type countingObserver struct {
	published int
	delivered int
	lastErr   error
}

func (o *countingObserver) OnPublish(Event, int) { o.published++ }
func (o *countingObserver) OnDelivered(_ Event, systems int, err error, _ time.Duration) {
	o.delivered += systems
	o.lastErr = err
}

func TestObserverAndMetrics(t *testing.T) {
	obs := &countingObserver{}
	w := NewWorld(WithObserver(obs))
	w.AddSystem([]Kind{"a"}, func(Event, *Registry) error { return nil })
	w.AddSystem([]Kind{"a", "b"}, func(Event, *Registry) error { return nil })
	e, err := w.NewEntity(newTracer("a", "k"))
	require.NoError(t, err)
	require.NoError(t, e.AddComponent(newTracer("b", "k")))
	_, err = e.Handle(newProbe("k"))
	require.NoError(t, err)

	require.NoError(t, w.PublishEvent(newProbe("a")))
	require.NoError(t, e.Kill("done"))

	assert.Equal(t, 2, obs.published)
	assert.Equal(t, 2, obs.delivered)
	assert.NoError(t, obs.lastErr)

	m := w.Metrics()
	assert.Equal(t, uint64(2), m.Published)
	assert.Equal(t, uint64(2), m.Delivered)
	assert.Equal(t, uint64(1), m.EntitiesCreated)
	assert.Equal(t, uint64(1), m.EntitiesKilled)
	assert.Equal(t, uint64(1), m.Recompiles)
	assert.Equal(t, 3, m.Systems)

	w.RemoveObserver(obs)
	require.NoError(t, w.PublishEvent(newProbe("a")))
	assert.Equal(t, 2, obs.published)
}

func spawnTracers(t *testing.T, w *World, n int) {
	t.Helper()
	for range n {
		_, err := w.NewEntity(newTracer("t", "k"))
		require.NoError(t, err)
	}
}

func TestInitFromInsideIteration(t *testing.T) {
	w := NewWorld()
	spawnTracers(t, w, 3)

	visited := 0
	w.AddSystem([]Kind{"reset"}, func(_ Event, reg *Registry) error {
		return reg.Each(func(*Entity) error {
			visited++
			for _, id := range reg.IDs() {
				if err := w.KillEntity(id, "cleared"); err != nil {
					return err
				}
			}
			return w.Init()
		})
	})

	assert.NotPanics(t, func() {
		assert.NoError(t, w.PublishEvent(newProbe("reset")))
	})
	assert.Equal(t, 1, visited, "iteration stops once the world is reset")
	assert.Zero(t, w.Entities().Len())

	e, err := w.NewEntity(newTracer("fresh", "k"))
	require.NoError(t, err)
	assert.Equal(t, EntityID(0), e.ID())
	assert.Equal(t, []EntityID{0}, w.Entities().IDs())
}

func TestTeardownFromInsideIteration(t *testing.T) {
	w := NewWorld()
	spawnTracers(t, w, 3)

	visited := 0
	w.AddSystem([]Kind{"quit"}, func(_ Event, reg *Registry) error {
		return reg.Each(func(*Entity) error {
			visited++
			return w.Teardown("quit")
		})
	})

	assert.NotPanics(t, func() {
		assert.NoError(t, w.PublishEvent(newProbe("quit")))
	})
	assert.Equal(t, 1, visited)
	assert.Zero(t, w.Entities().Len())
	assert.Zero(t, w.Systems("quit"), "teardown re-initialises subscriptions")

	spawnTracers(t, w, 2)
	assert.Equal(t, []EntityID{0, 1}, w.Entities().IDs())
}
