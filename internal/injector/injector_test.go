package injector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/evecs/internal/config"
	"github.com/zeusync/evecs/internal/core/ecs"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Log.Outputs = []string{filepath.Join(t.TempDir(), "evecs.log")}
	cfg.Scenario.Seed = 7
	return cfg
}

func simulationScreen(t *testing.T) tcell.Screen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)
	return screen
}

func TestInitializeAppCircles(t *testing.T) {
	cfg := testConfig(t)
	app, cleanup, err := InitializeApp(context.Background(), cfg, simulationScreen(t))
	require.NoError(t, err)

	assert.Equal(t, config.ScenarioCircles, app.Scene.Name)
	assert.Equal(t, cfg.Scenario.Circles.Count, app.World.Entities().Len())

	now := time.Now()
	require.NoError(t, app.Loop.Frame(now))
	require.NoError(t, app.Loop.Frame(now.Add(50*time.Millisecond)))
	assert.Positive(t, app.Scene.Stage().Len())
	assert.LessOrEqual(t, app.Scene.Stage().Len(), app.World.Entities().Len())

	cleanup()
	assert.Zero(t, app.World.Entities().Len())
}

func TestInitializeAppAttachesScripts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spin.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
return {
	events = { "tick" },
	init = function(self) self.ticks = 0 end,
	tick = function(self, evt) self.ticks = self.ticks + 1 end,
}`), 0o600))

	cfg := testConfig(t)
	cfg.Scenario.Name = config.ScenarioDraggable
	cfg.Scripts = []config.ScriptConfig{{Path: path, Attach: config.GroupRectangle}}

	app, cleanup, err := InitializeApp(context.Background(), cfg, simulationScreen(t))
	require.NoError(t, err)
	defer cleanup()

	for _, ent := range app.World.Entities().All() {
		var names []string
		for _, c := range ent.Components() {
			names = append(names, ecs.ComponentName(c))
		}
		assert.Contains(t, names, "spin")
	}
	require.NoError(t, app.Loop.Frame(time.Now()))
}

func TestInitializeAppReportsScriptErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scripts = []config.ScriptConfig{{Path: filepath.Join(t.TempDir(), "missing.lua"), Attach: config.GroupCircle}}

	_, _, err := InitializeApp(context.Background(), cfg, simulationScreen(t))
	assert.Error(t, err)
}
