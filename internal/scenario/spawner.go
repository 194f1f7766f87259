package scenario

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/evecs/internal/config"
	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/game/components"
	"github.com/zeusync/evecs/internal/game/events"
	"github.com/zeusync/evecs/internal/render"
)

// Extras returns additional components for a new entity of the given group.
type Extras func(group string) ([]ecs.Component, error)

// Spawner builds the demo entities. It owns the random source so a seeded
// scenario replays identically.
type Spawner struct {
	world  *ecs.World
	pool   *render.Pool
	rng    *rand.Rand
	cfg    config.ScenarioConfig
	colors []tcell.Color
	rect   tcell.Color
	extras Extras
}

func newSpawner(w *ecs.World, cfg config.ScenarioConfig, pool *render.Pool, extras Extras) (*Spawner, error) {
	colors := make([]tcell.Color, 0, len(cfg.Circles.Colors))
	for _, name := range cfg.Circles.Colors {
		c, err := config.ParseColor(name)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	rect, err := config.ParseColor(cfg.Draggable.Color)
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Spawner{
		world:  w,
		pool:   pool,
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
		cfg:    cfg,
		colors: colors,
		rect:   rect,
		extras: extras,
	}, nil
}

// Pool returns the sprite pool spawned entities draw from.
func (s *Spawner) Pool() *render.Pool { return s.pool }

func (s *Spawner) spawn(group string, comps ...ecs.Component) (*ecs.Entity, error) {
	if s.extras != nil {
		more, err := s.extras(group)
		if err != nil {
			return nil, fmt.Errorf("spawn %s: %w", group, err)
		}
		comps = append(comps, more...)
	}
	ent, err := s.world.NewEntity(comps...)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", group, err)
	}
	return ent, nil
}

// SpawnCircle drops a circle from above the arena at column x with initial
// downward speed v and acceleration a.
func (s *Spawner) SpawnCircle(x, v, a, r float64, color tcell.Color) (*ecs.Entity, error) {
	r = math.Floor(r)
	height := s.cfg.Height
	out := func(ent *ecs.Entity) (bool, error) {
		pos, err := ecs.QueryAs[*events.Position](ent, events.KindPosition)
		if err != nil {
			return false, err
		}
		return pos.Pos.Y() > height+r, nil
	}
	burst := func(k *ecs.Killed, ent *ecs.Entity) error {
		switch k.Reason {
		case events.ReasonOut:
			return s.burst(x, height, color, func() (float64, float64) {
				return s.between(-100, 100), -s.rng.Float64() * 100
			})
		case events.ReasonClicked:
			pos, err := ecs.QueryAs[*events.Position](ent, events.KindPosition)
			if err != nil {
				return err
			}
			return s.burst(pos.Pos.X(), pos.Pos.Y(), color, func() (float64, float64) {
				return s.between(-100, 100), s.between(-100, 100)
			})
		}
		return nil
	}

	return s.spawn(config.GroupCircle,
		components.NewStaticGraphic(s.pool.Circle(r, color)),
		components.NewPositionGraphic(),
		components.NewStaticPosition(x, -50),
		components.NewStaticRadius(r),
		components.NewStaticVelocity(0, v),
		components.NewStaticAcceleration(0, a),
		components.NewApplyAcceleration(),
		components.NewApplyVelocity(),
		components.NewHitcircle(),
		components.NewClickableTarget(s.cfg.Circles.OutTime),
		components.NewKillIf(out, events.ReasonOut),
		components.NewOnDeath(burst),
	)
}

func (s *Spawner) burst(x, y float64, color tcell.Color, vel func() (float64, float64)) error {
	for range s.cfg.Circles.Burst {
		vx, vy := vel()
		if _, err := s.SpawnParticle(x, y, vx, vy, s.between(1, 4), color, s.between(0.3, 2.3)); err != nil {
			return err
		}
	}
	return nil
}

// SpawnRandomCircle spawns a circle with parameters drawn from the config ranges.
func (s *Spawner) SpawnRandomCircle() (*ecs.Entity, error) {
	c := s.cfg.Circles
	return s.SpawnCircle(
		s.between(50, s.cfg.Width-50),
		s.between(c.SpeedMin, c.SpeedMax),
		s.between(c.AccelMin, c.AccelMax),
		s.between(c.RadiusMin, c.RadiusMax),
		s.RandomColor(),
	)
}

// SpawnParticle spawns a short-lived dot that slows to a stop and expires
// after life seconds.
func (s *Spawner) SpawnParticle(x, y, vx, vy, r float64, color tcell.Color, life float64) (*ecs.Entity, error) {
	r = math.Floor(r)
	return s.spawn(config.GroupParticle,
		components.NewStaticGraphic(s.pool.Circle(r, color)),
		components.NewPositionGraphic(),
		components.NewStaticPosition(x, y),
		components.NewStaticRadius(r),
		components.NewStaticVelocity(vx, vy),
		components.NewStaticDrag(life+0.5),
		components.NewApplyVelocity(),
		components.NewKillAfter(life),
	)
}

// SpawnRectangle spawns a draggable rectangle with its top-left corner at (x, y).
func (s *Spawner) SpawnRectangle(x, y, w, h float64, color tcell.Color) (*ecs.Entity, error) {
	return s.spawn(config.GroupRectangle,
		components.NewStaticGraphic(s.pool.Rect(w, h, color)),
		components.NewPositionGraphic(),
		components.NewStaticPosition(x, y),
		components.NewStaticSize(w, h),
		components.NewHitbox(),
		components.NewDraggable(),
	)
}

// SpawnRandomRectangle places a rectangle somewhere inside the arena.
func (s *Spawner) SpawnRandomRectangle() (*ecs.Entity, error) {
	d := s.cfg.Draggable
	w, h := s.between(d.SizeMin, d.SizeMax), s.between(d.SizeMin, d.SizeMax)
	return s.SpawnRectangle(
		s.between(0, max(s.cfg.Width-w, 0)),
		s.between(0, max(s.cfg.Height-h, 0)),
		w, h, s.rect,
	)
}

// Rain spawns falling particles proportional to the tick delta.
func (s *Spawner) Rain(evt ecs.Event, _ *ecs.Registry) error {
	tick, ok := evt.(*events.Tick)
	if !ok {
		return nil
	}
	n := int(math.Floor(s.cfg.Circles.RainRate * min(0.1, tick.Delta)))
	for range n {
		_, err := s.SpawnParticle(
			s.rng.Float64()*s.cfg.Width, 0,
			s.between(-50, 50), s.rng.Float64()*100,
			s.between(1, 3),
			s.RandomColor(),
			5,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// RandomColor picks one of the configured circle colours.
func (s *Spawner) RandomColor() tcell.Color {
	return s.colors[s.rng.IntN(len(s.colors))]
}

func (s *Spawner) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
