package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/evecs/internal/core/observability/log"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	src := `
log:
  level: debug
  encoding: console
frame:
  fps: 60
  max_delta: 50ms
scenario:
  name: draggable
  seed: 7
  draggable:
    count: 3
    color: red
scripts:
  - path: blink.lua
    attach: rectangle
`
	c, err := Load(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 60, c.Frame.FPS)
	assert.Equal(t, 50*time.Millisecond, c.Frame.MaxDelta)
	assert.Equal(t, ScenarioDraggable, c.Scenario.Name)
	assert.Equal(t, uint64(7), c.Scenario.Seed)
	assert.Equal(t, 3, c.Scenario.Draggable.Count)
	assert.Equal(t, 50.0, c.Scenario.Draggable.SizeMin, "unset fields keep their default")
	assert.Equal(t, 800.0, c.Scenario.Width)
	assert.Equal(t, []ScriptConfig{{Path: "blink.lua", Attach: GroupRectangle}}, c.Scripts)

	lc := c.LoggerConfig()
	assert.Equal(t, log.LevelDebug, lc.Level)
	assert.Equal(t, "console", lc.Encoding)
}

func TestLoadEmptyInput(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("frame:\n  fsp: 10\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"level":     func(c *Config) { c.Log.Level = "loud" },
		"encoding":  func(c *Config) { c.Log.Encoding = "xml" },
		"fps":       func(c *Config) { c.Frame.FPS = 0 },
		"max delta": func(c *Config) { c.Frame.MaxDelta = 0 },
		"scenario":  func(c *Config) { c.Scenario.Name = "boids" },
		"arena":     func(c *Config) { c.Scenario.Height = -1 },
		"radius":    func(c *Config) { c.Scenario.Circles.RadiusMax = 1 },
		"out time":  func(c *Config) { c.Scenario.Circles.OutTime = 0 },
		"colors":    func(c *Config) { c.Scenario.Circles.Colors = nil },
		"color":     func(c *Config) { c.Scenario.Draggable.Color = "not-a-colour" },
		"count":     func(c *Config) { c.Scenario.Draggable.Count = -2 },
		"script":    func(c *Config) { c.Scripts = []ScriptConfig{{Path: "a.lua", Attach: "boss"}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evecs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frame:\n  fps: 12\n"), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 12, c.Frame.FPS)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#00AAFF")
	require.NoError(t, err)
	assert.Equal(t, tcell.NewHexColor(0x00AAFF), c)

	_, err = ParseColor("chartreuse-ish")
	assert.Error(t, err)
}
