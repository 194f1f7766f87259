package script

import (
	"fmt"
	"slices"

	lua "github.com/yuin/gopher-lua"

	"github.com/zeusync/evecs/internal/core/ecs"
)

// Definition is a validated script component, ready to instantiate.
type Definition struct {
	Name   string
	Events []ecs.Kind

	init     *lua.LFunction
	handlers map[ecs.Kind]*lua.LFunction
}

func parseDefinition(tbl *lua.LTable, fallbackName string) (*Definition, error) {
	d := &Definition{handlers: make(map[ecs.Kind]*lua.LFunction)}

	switch name := tbl.RawGetString("name").(type) {
	case lua.LString:
		d.Name = string(name)
	case *lua.LNilType:
		d.Name = fallbackName
	default:
		return nil, fmt.Errorf("%w: name must be a string", ecs.ErrMisconfiguredComponent)
	}
	if d.Name == "" {
		return nil, fmt.Errorf("%w: script component has no name", ecs.ErrMisconfiguredComponent)
	}

	list, ok := tbl.RawGetString("events").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: %s: events must be a list of kinds", ecs.ErrMisconfiguredComponent, d.Name)
	}
	var bad error
	list.ForEach(func(_, v lua.LValue) {
		s, ok := v.(lua.LString)
		if bad != nil {
			return
		}
		switch {
		case !ok || s == "":
			bad = fmt.Errorf("%w: %s: event kinds must be non-empty strings", ecs.ErrMisconfiguredComponent, d.Name)
		case slices.Contains(d.Events, ecs.Kind(s)):
			bad = fmt.Errorf("%w: %s declares %q twice", ecs.ErrMisconfiguredComponent, d.Name, s)
		default:
			d.Events = append(d.Events, ecs.Kind(s))
		}
	})
	if bad != nil {
		return nil, bad
	}
	if len(d.Events) == 0 {
		return nil, fmt.Errorf("%w: %s declares no events", ecs.ErrMisconfiguredComponent, d.Name)
	}

	tbl.ForEach(func(k, v lua.LValue) {
		fn, isFn := v.(*lua.LFunction)
		key, isStr := k.(lua.LString)
		if bad != nil || !isFn || !isStr {
			return
		}
		if key == "init" {
			d.init = fn
			return
		}
		if !slices.Contains(d.Events, ecs.Kind(key)) {
			bad = fmt.Errorf("%w: %s handles undeclared kind %q", ecs.ErrMisconfiguredComponent, d.Name, key)
			return
		}
		d.handlers[ecs.Kind(key)] = fn
	})
	if bad != nil {
		return nil, bad
	}
	for _, k := range d.Events {
		if d.handlers[k] == nil {
			return nil, fmt.Errorf("%w: %s declares %q without a handler", ecs.ErrMisconfiguredComponent, d.Name, k)
		}
	}
	return d, nil
}

// Component is one instance of a script definition. Its self table persists
// across calls.
type Component struct {
	lib  *Library
	def  *Definition
	self *lua.LTable
}

func (lib *Library) instantiate(d *Definition) (*Component, error) {
	c := &Component{lib: lib, def: d, self: lib.L.NewTable()}
	if d.init != nil {
		err := lib.L.CallByParam(lua.P{Fn: d.init, NRet: 0, Protect: true}, c.self)
		if err != nil {
			return nil, fmt.Errorf("%w: %s init: %v", ErrScript, d.Name, err)
		}
	}
	return c, nil
}

func (c *Component) Name() string { return c.def.Name }

func (c *Component) Events() []ecs.Kind { return slices.Clone(c.def.Events) }

func (c *Component) Handlers() ecs.Handlers {
	hs := make(ecs.Handlers, len(c.def.handlers))
	for kind, fn := range c.def.handlers {
		hs[kind] = func(evt ecs.Event, ent *ecs.Entity, self int) (ecs.Event, error) {
			return c.lib.call(c.def.Name, fn, c.self, evt, ent, self)
		}
	}
	return hs
}

// Get reads a value from the instance's self table.
func (c *Component) Get(key string) lua.LValue { return c.self.RawGetString(key) }
