// Command evecs runs the entity-component demos in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/evecs/internal/config"
	"github.com/zeusync/evecs/internal/core/observability/log"
	"github.com/zeusync/evecs/internal/injector"
)

type options struct {
	configPath string
	scenario   string
	logLevel   string
	seed       uint64
	scripts    []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialise screen: %v\n", err)
		return 1
	}
	screen.EnableMouse()
	screen.HideCursor()
	fini := sync.OnceFunc(screen.Fini)
	defer fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := injector.InitializeApp(ctx, cfg, screen)
	if err != nil {
		fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		app.Log.Error("run failed", log.Error(err))
		fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	flag.StringVar(&opts.scenario, "scenario", "", "Scenario to run (circles, draggable)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Uint64Var(&opts.seed, "seed", 0, "Random seed, 0 picks one")
	flag.Func("script", "Lua component attached to circles (repeatable)", func(path string) error {
		opts.scripts = append(opts.scripts, path)
		return nil
	})
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "evecs - event-driven entity demos\n\n")
		fmt.Fprintf(os.Stderr, "Usage: evecs [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nClick circles to pop them, drag rectangles around. Esc or q quits.\n")
	}
	flag.Parse()
	return opts
}

// loadConfig reads the configuration file, if any, and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(opts.configPath); err != nil {
			return nil, err
		}
	}
	if opts.scenario != "" {
		cfg.Scenario.Name = opts.scenario
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.seed != 0 {
		cfg.Scenario.Seed = opts.seed
	}
	for _, path := range opts.scripts {
		cfg.Scripts = append(cfg.Scripts, config.ScriptConfig{Path: path, Attach: config.GroupCircle})
	}
	return cfg, cfg.Validate()
}
