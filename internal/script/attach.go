package script

import (
	"context"
	"fmt"

	"github.com/zeusync/evecs/internal/config"
	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/core/observability/log"
)

// Attachments maps spawn groups to the script components every new entity of
// the group receives.
type Attachments struct {
	lib    *Library
	groups map[string][]string
}

// Attach loads the configured scripts and records which group each belongs to.
func (lib *Library) Attach(ctx context.Context, scripts []config.ScriptConfig) (*Attachments, error) {
	a := &Attachments{lib: lib, groups: make(map[string][]string)}
	if len(scripts) == 0 {
		return a, nil
	}
	paths := make([]string, len(scripts))
	for i, sc := range scripts {
		paths[i] = sc.Path
	}
	defs, err := lib.LoadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	for i, d := range defs {
		group := scripts[i].Attach
		a.groups[group] = append(a.groups[group], d.Name)
		lib.log.Info("script attached", log.String("component", d.Name), log.String("group", group))
	}
	return a, nil
}

// Components instantiates the scripts attached to group. Its signature
// matches the spawner's extras hook.
func (a *Attachments) Components(group string) ([]ecs.Component, error) {
	names := a.groups[group]
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]ecs.Component, 0, len(names))
	for _, name := range names {
		c, err := a.lib.New(name)
		if err != nil {
			return nil, fmt.Errorf("attach %s to %s: %w", name, group, err)
		}
		out = append(out, c)
	}
	return out, nil
}
