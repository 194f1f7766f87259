// Package injector assembles the demo application with wire.
package injector

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/wire"

	"github.com/zeusync/evecs/internal/config"
	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/core/observability/log"
	"github.com/zeusync/evecs/internal/driver"
	"github.com/zeusync/evecs/internal/game/events"
	"github.com/zeusync/evecs/internal/render"
	"github.com/zeusync/evecs/internal/scenario"
	"github.com/zeusync/evecs/internal/script"
)

// TeardownReason is the kill reason given to entities still alive at exit.
const TeardownReason = "shutdown"

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideWorld,
	ProvideLibrary,
	ProvideAttachments,
	ProvideTerminal,
	ProvideScene,
	ProvideLoop,
	ProvideInput,
	wire.Bind(new(driver.Source), new(*driver.TerminalInput)),
	wire.Struct(new(App), "*"),
)

// App is a fully wired demo ready to run.
type App struct {
	Log   log.Log
	World *ecs.World
	Scene *scenario.Scene
	Loop  *driver.Loop
	Input driver.Source
}

// Run drives the frame loop until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.Log.Info("running", log.String("scenario", a.Scene.Name))
	return driver.Run(ctx, a.Loop, a.Input)
}

func ProvideLogger(cfg *config.Config) (*log.Logger, func(), error) {
	l, err := log.NewFromConfig(cfg.LoggerConfig())
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Sync() }, nil
}

func ProvideWorld(l log.Log) *ecs.World {
	return ecs.NewWorld(ecs.WithLogger(l))
}

func ProvideLibrary(l log.Log) (*script.Library, func()) {
	lib := script.NewLibrary(script.WithLogger(l), script.WithKinds(events.Factories()))
	return lib, lib.Close
}

func ProvideAttachments(ctx context.Context, lib *script.Library, cfg *config.Config) (*script.Attachments, error) {
	return lib.Attach(ctx, cfg.Scripts)
}

func ProvideTerminal(screen tcell.Screen, cfg *config.Config) *render.Terminal {
	t := render.NewTerminal(screen, mgl64.Vec2{1, 1})
	t.Fit(arena(cfg))
	return t
}

// ProvideScene sets the scenario up. Its cleanup cancels the scene systems
// and then tears the world down, while scripted components can still run.
func ProvideScene(w *ecs.World, cfg *config.Config, l log.Log, att *script.Attachments) (*scenario.Scene, func(), error) {
	sc, err := scenario.Setup(w, cfg.Scenario,
		scenario.WithLogger(l),
		scenario.WithExtras(att.Components),
	)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		sc.Close()
		if err := w.Teardown(TeardownReason); err != nil {
			l.Warn("teardown failed", log.Error(err))
		}
	}
	return sc, cleanup, nil
}

func ProvideLoop(w *ecs.World, cfg *config.Config, sc *scenario.Scene, term *render.Terminal, l log.Log) *driver.Loop {
	return driver.NewLoop(w, cfg.Frame.FPS, cfg.Frame.MaxDelta,
		driver.WithPointer(sc.Mouse),
		driver.WithDraw(func() error {
			term.Draw(sc.Stage())
			return nil
		}),
		driver.WithResize(func() {
			term.Screen().Sync()
			term.Fit(arena(cfg))
		}),
		driver.WithLogger(l),
	)
}

func ProvideInput(screen tcell.Screen, term *render.Terminal) *driver.TerminalInput {
	return driver.NewTerminalInput(screen, term)
}

func arena(cfg *config.Config) mgl64.Vec2 {
	return mgl64.Vec2{cfg.Scenario.Width, cfg.Scenario.Height}
}
