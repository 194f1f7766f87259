// Package scenario wires components and systems into the two demo scenes:
// falling circles and draggable rectangles.
package scenario

import (
	"fmt"

	"github.com/zeusync/evecs/internal/config"
	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/core/observability/log"
	"github.com/zeusync/evecs/internal/game/events"
	"github.com/zeusync/evecs/internal/game/systems"
	"github.com/zeusync/evecs/internal/render"
)

// Scene is a running scenario: the systems it registered and the spawner
// that feeds it.
type Scene struct {
	Name    string
	Mouse   *systems.Mouse
	Render  *systems.Render
	Spawner *Spawner
	Respawn *systems.Respawn

	world *ecs.World
	subs  []ecs.Subscription
}

type options struct {
	log    log.Log
	pool   *render.Pool
	stage  *render.Stage
	extras Extras
}

type Option func(*options)

func WithLogger(l log.Log) Option { return func(o *options) { o.log = l } }

func WithPool(p *render.Pool) Option { return func(o *options) { o.pool = p } }

func WithStage(s *render.Stage) Option { return func(o *options) { o.stage = s } }

// WithExtras appends components to every spawned entity of a group.
func WithExtras(fn Extras) Option { return func(o *options) { o.extras = fn } }

// Setup registers the scenario systems on w in the order mouse, step, rain,
// render, respawn, and spawns the initial entities.
func Setup(w *ecs.World, cfg config.ScenarioConfig, opts ...Option) (*Scene, error) {
	o := options{log: log.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pool == nil {
		o.pool = render.NewPool()
	}
	if o.stage == nil {
		o.stage = render.NewStage()
	}

	sp, err := newSpawner(w, cfg, o.pool, o.extras)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", cfg.Name, err)
	}
	sc := &Scene{
		Name:    cfg.Name,
		Mouse:   systems.NewMouse(),
		Render:  systems.NewRender(o.stage, o.log),
		Spawner: sp,
		world:   w,
	}

	sc.add(systems.MouseKinds, sc.Mouse.System)
	sc.add(systems.StepKinds, systems.Step)

	switch cfg.Name {
	case config.ScenarioCircles:
		sc.add([]ecs.Kind{events.KindTick}, sp.Rain)
		sc.add(systems.RenderKinds, sc.Render.System)
		sc.Respawn = systems.NewRespawn(func() error {
			_, err := sp.SpawnRandomCircle()
			return err
		}, events.ReasonClicked, events.ReasonOut)
		sc.add(systems.RespawnKinds, sc.Respawn.System)
		for range cfg.Circles.Count {
			if _, err = sp.SpawnRandomCircle(); err != nil {
				return nil, err
			}
		}
	case config.ScenarioDraggable:
		sc.add(systems.RenderKinds, sc.Render.System)
		for range cfg.Draggable.Count {
			if _, err = sp.SpawnRandomRectangle(); err != nil {
				return nil, err
			}
		}
	default:
		sc.Close()
		return nil, fmt.Errorf("%w: unknown scenario %q", config.ErrInvalidConfig, cfg.Name)
	}

	o.log.Info("scenario ready",
		log.String("scenario", cfg.Name),
		log.Int("entities", w.Entities().Len()),
		log.Int("systems", len(sc.subs)),
	)
	return sc, nil
}

func (sc *Scene) add(kinds []ecs.Kind, fn ecs.SystemFunc) {
	sc.subs = append(sc.subs, sc.world.AddSystem(kinds, fn))
}

// Stage returns the display list the render system maintains.
func (sc *Scene) Stage() *render.Stage { return sc.Render.Stage() }

// Close cancels every system the scene registered. Entities stay alive.
func (sc *Scene) Close() {
	for _, s := range sc.subs {
		s.Cancel()
	}
	sc.subs = nil
}
