package systems

import (
	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/core/observability/log"
	"github.com/zeusync/evecs/internal/game/events"
	"github.com/zeusync/evecs/internal/render"
)

// Render keeps a stage in sync with the sprites entities report.
//
// On tick it queries every entity for its graphic and swaps the stage child
// when the sprite changed. On killed it drops the entity's sprite. Sprites
// that leave the stage go back to their pool.
type Render struct {
	stage    *render.Stage
	graphics map[ecs.EntityID]*render.Sprite
	log      log.Log
}

func NewRender(stage *render.Stage, logger log.Log) *Render {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Render{
		stage:    stage,
		graphics: make(map[ecs.EntityID]*render.Sprite),
		log:      logger.Named("render"),
	}
}

// Stage returns the display list the system maintains.
func (r *Render) Stage() *render.Stage { return r.stage }

// Tracked returns the number of entities with a sprite on stage.
func (r *Render) Tracked() int { return len(r.graphics) }

// System is the SystemFunc to register under RenderKinds.
func (r *Render) System(evt ecs.Event, reg *ecs.Registry) error {
	switch e := evt.(type) {
	case *events.Tick:
		return reg.Each(r.sync)
	case *ecs.Killed:
		r.drop(e.ID)
	}
	return nil
}

func (r *Render) sync(ent *ecs.Entity) error {
	res, err := ent.Query(events.KindGraphic)
	if err != nil {
		return err
	}
	g, ok := res.(*events.Graphic)
	if !ok || g.Sprite == nil {
		return nil
	}
	prev := r.graphics[ent.ID()]
	if prev == g.Sprite {
		return nil
	}
	if prev != nil {
		r.stage.RemoveChild(prev)
		prev.Release()
		r.log.Debug("sprite replaced", log.Uint64("entity", uint64(ent.ID())))
	}
	r.stage.AddChild(g.Sprite)
	r.graphics[ent.ID()] = g.Sprite
	return nil
}

func (r *Render) drop(id ecs.EntityID) {
	s, ok := r.graphics[id]
	if !ok {
		return
	}
	r.stage.RemoveChild(s)
	s.Release()
	delete(r.graphics, id)
}
