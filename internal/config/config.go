// Package config loads the demo configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/evecs/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid config")

// Scenario names.
const (
	ScenarioCircles   = "circles"
	ScenarioDraggable = "draggable"
)

// Entity groups scripts can be attached to.
const (
	GroupCircle    = "circle"
	GroupParticle  = "particle"
	GroupRectangle = "rectangle"
)

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Frame    FrameConfig    `yaml:"frame"`
	Scenario ScenarioConfig `yaml:"scenario"`
	Scripts  []ScriptConfig `yaml:"scripts"`
}

type LogConfig struct {
	Level    string   `yaml:"level"`
	Encoding string   `yaml:"encoding"`
	Outputs  []string `yaml:"outputs"`
}

// FrameConfig controls the tick loop. MaxDelta caps the delta of a single
// tick so a stalled frame does not teleport entities.
type FrameConfig struct {
	FPS      int           `yaml:"fps"`
	MaxDelta time.Duration `yaml:"max_delta"`
}

type ScenarioConfig struct {
	Name      string          `yaml:"name"`
	Width     float64         `yaml:"width"`
	Height    float64         `yaml:"height"`
	Seed      uint64          `yaml:"seed"`
	Circles   CirclesConfig   `yaml:"circles"`
	Draggable DraggableConfig `yaml:"draggable"`
}

// CirclesConfig describes falling circles that burst into particles when
// clicked or when they leave the arena.
type CirclesConfig struct {
	Count     int      `yaml:"count"`
	OutTime   float64  `yaml:"out_time"`
	RadiusMin float64  `yaml:"radius_min"`
	RadiusMax float64  `yaml:"radius_max"`
	SpeedMin  float64  `yaml:"speed_min"`
	SpeedMax  float64  `yaml:"speed_max"`
	AccelMin  float64  `yaml:"accel_min"`
	AccelMax  float64  `yaml:"accel_max"`
	Burst     int      `yaml:"burst"`
	RainRate  float64  `yaml:"rain_rate"`
	Colors    []string `yaml:"colors"`
}

type DraggableConfig struct {
	Count   int     `yaml:"count"`
	SizeMin float64 `yaml:"size_min"`
	SizeMax float64 `yaml:"size_max"`
	Color   string  `yaml:"color"`
}

// ScriptConfig attaches a Lua component to every entity of a group.
type ScriptConfig struct {
	Path   string `yaml:"path"`
	Attach string `yaml:"attach"`
}

// Default returns the configuration the demo runs with when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
			Outputs:  []string{"evecs.log"},
		},
		Frame: FrameConfig{
			FPS:      30,
			MaxDelta: 100 * time.Millisecond,
		},
		Scenario: ScenarioConfig{
			Name:   ScenarioCircles,
			Width:  800,
			Height: 600,
			Circles: CirclesConfig{
				Count:     10,
				OutTime:   0.1,
				RadiusMin: 10,
				RadiusMax: 30,
				SpeedMin:  20,
				SpeedMax:  70,
				AccelMin:  2,
				AccelMax:  12,
				Burst:     10,
				RainRate:  500,
				Colors:    []string{"#FFDD00", "#00FF00", "#0000DD", "#00DDFF"},
			},
			Draggable: DraggableConfig{
				Count:   10,
				SizeMin: 50,
				SizeMax: 100,
				Color:   "#00AAFF",
			},
		},
	}
}

// Load decodes YAML from r on top of Default and validates the result.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate reports the first problem found, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	if e := c.Log.Encoding; e != "" && e != "json" && e != "console" {
		return invalid("log.encoding: %q is neither json nor console", e)
	}
	if c.Frame.FPS < 1 || c.Frame.FPS > 1000 {
		return invalid("frame.fps: %d out of range [1, 1000]", c.Frame.FPS)
	}
	if c.Frame.MaxDelta <= 0 {
		return invalid("frame.max_delta must be positive")
	}

	s := c.Scenario
	if s.Name != ScenarioCircles && s.Name != ScenarioDraggable {
		return invalid("scenario.name: unknown scenario %q", s.Name)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return invalid("scenario: arena %gx%g must be positive", s.Width, s.Height)
	}

	ci := s.Circles
	if ci.Count < 0 || ci.Burst < 0 || ci.RainRate < 0 {
		return invalid("scenario.circles: counts must not be negative")
	}
	if ci.OutTime <= 0 {
		return invalid("scenario.circles.out_time must be positive")
	}
	if err := checkRange("scenario.circles.radius", ci.RadiusMin, ci.RadiusMax); err != nil {
		return err
	}
	if err := checkRange("scenario.circles.speed", ci.SpeedMin, ci.SpeedMax); err != nil {
		return err
	}
	if err := checkRange("scenario.circles.accel", ci.AccelMin, ci.AccelMax); err != nil {
		return err
	}
	if len(ci.Colors) == 0 {
		return invalid("scenario.circles.colors must not be empty")
	}
	for _, name := range ci.Colors {
		if _, err := ParseColor(name); err != nil {
			return invalid("scenario.circles.colors: %v", err)
		}
	}

	d := s.Draggable
	if d.Count < 0 {
		return invalid("scenario.draggable.count must not be negative")
	}
	if err := checkRange("scenario.draggable.size", d.SizeMin, d.SizeMax); err != nil {
		return err
	}
	if _, err := ParseColor(d.Color); err != nil {
		return invalid("scenario.draggable.color: %v", err)
	}

	groups := []string{GroupCircle, GroupParticle, GroupRectangle}
	for i, sc := range c.Scripts {
		if sc.Path == "" {
			return invalid("scripts[%d].path is empty", i)
		}
		if !slices.Contains(groups, sc.Attach) {
			return invalid("scripts[%d].attach: unknown group %q", i, sc.Attach)
		}
	}
	return nil
}

// LoggerConfig converts the log section for the log package.
func (c *Config) LoggerConfig() log.Config {
	level, _ := log.ParseLevel(c.Log.Level)
	return log.Config{Level: level, Encoding: c.Log.Encoding, OutputPaths: c.Log.Outputs}
}

// ParseColor accepts tcell colour names and #RRGGBB values.
func ParseColor(name string) (tcell.Color, error) {
	color := tcell.GetColor(name)
	if color == tcell.ColorDefault {
		return color, fmt.Errorf("unknown colour %q", name)
	}
	return color, nil
}

func checkRange(field string, lo, hi float64) error {
	if lo <= 0 || hi < lo {
		return invalid("%s: range [%g, %g] is empty or not positive", field, lo, hi)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
