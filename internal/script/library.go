// Package script defines components in Lua.
//
// A script returns a definition table:
//
//	return {
//	    name = "blink",
//	    events = { "tick", "graphic" },
//	    init = function(self) self.t = 0 end,
//	    tick = function(self, evt, ent, index)
//	        self.t = self.t + evt.delta
//	        return evt
//	    end,
//	    graphic = function(self, evt, ent, index) ... end,
//	}
//
// Every function other than init is a handler and must be listed in events.
// Each component instance gets its own self table. Events cross the boundary
// as tables keyed by the lower-cased exported field names of the Go event;
// two-component vectors become {x=, y=} tables. Returning the received table
// updates the Go event in place; returning nil yields no result.
//
// A Library is bound to one goroutine, like the world it serves.
package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/zeusync/evecs/internal/core/ecs"
	"github.com/zeusync/evecs/internal/core/observability/log"
	"github.com/zeusync/evecs/pkg/concurrent"
	"github.com/zeusync/evecs/pkg/sequence"
)

var (
	ErrScript         = errors.New("script error")
	ErrUnknownScript  = errors.New("unknown script component")
	ErrLibraryClosed  = errors.New("script library closed")
	ErrBadReturnValue = errors.New("bad handler return value")
)

const entityType = "evecs.entity"

// Library owns a sandboxed Lua state and the definitions loaded into it.
type Library struct {
	L     *lua.LState
	kinds map[ecs.Kind]func() ecs.Event
	defs  map[string]*Definition
	log   log.Log

	// goErr carries a Go error raised from a binding across the Lua call.
	goErr  error
	closed bool
}

type Option func(*Library)

func WithLogger(l log.Log) Option { return func(lib *Library) { lib.log = l } }

// WithKinds registers event constructors used to build events from tables.
func WithKinds(kinds map[ecs.Kind]func() ecs.Event) Option {
	return func(lib *Library) {
		for k, f := range kinds {
			lib.kinds[k] = f
		}
	}
}

func NewLibrary(opts ...Option) *Library {
	lib := &Library{
		L:     lua.NewState(lua.Options{SkipOpenLibs: true}),
		kinds: make(map[ecs.Kind]func() ecs.Event),
		defs:  make(map[string]*Definition),
		log:   log.NewNop(),
	}
	for _, opt := range opts {
		opt(lib)
	}
	lib.log = lib.log.Named("script")
	openSafeLibraries(lib.L)
	lib.installEntityType()
	return lib
}

// openSafeLibraries opens base, table, string and math only. File, OS,
// debug and module loading stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	L.SetTop(0)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Close releases the Lua state.
func (lib *Library) Close() {
	if lib.closed {
		return
	}
	lib.closed = true
	lib.L.Close()
}

// Names returns the loaded definition names.
func (lib *Library) Names() []string {
	names := make([]string, 0, len(lib.defs))
	for n := range lib.defs {
		names = append(names, n)
	}
	return names
}

// Definition returns a loaded definition by name.
func (lib *Library) Definition(name string) (*Definition, bool) {
	d, ok := lib.defs[name]
	return d, ok
}

// LoadString compiles and runs src and registers the definition it returns.
// chunk names the source in error messages.
func (lib *Library) LoadString(chunk, src string) (*Definition, error) {
	proto, err := compile(chunk, []byte(src))
	if err != nil {
		return nil, err
	}
	return lib.run(chunk, "", proto)
}

// LoadFile loads one script. A definition without a name takes the file's
// base name.
func (lib *Library) LoadFile(path string) (*Definition, error) {
	defs, err := lib.LoadFiles(context.Background(), []string{path})
	if err != nil {
		return nil, err
	}
	return defs[0], nil
}

// LoadFiles parses the files in parallel and then runs them in order on the
// library's state.
func (lib *Library) LoadFiles(ctx context.Context, paths []string) ([]*Definition, error) {
	if lib.closed {
		return nil, ErrLibraryClosed
	}
	protos, err := concurrent.MapErr(ctx, sequence.From(paths), 4, func(_ context.Context, path string) (*lua.FunctionProto, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScript, err)
		}
		return compile(path, src)
	})
	if err != nil {
		return nil, err
	}

	defs := make([]*Definition, 0, len(paths))
	for i, proto := range protos {
		base := strings.TrimSuffix(filepath.Base(paths[i]), filepath.Ext(paths[i]))
		d, err := lib.run(paths[i], base, proto)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

func compile(chunk string, src []byte) (*lua.FunctionProto, error) {
	stmts, err := parse.Parse(bytes.NewReader(src), chunk)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrScript, chunk, err)
	}
	proto, err := lua.Compile(stmts, chunk)
	if err != nil {
		return nil, fmt.Errorf("%w: compile %s: %v", ErrScript, chunk, err)
	}
	return proto, nil
}

func (lib *Library) run(chunk, fallbackName string, proto *lua.FunctionProto) (*Definition, error) {
	if lib.closed {
		return nil, ErrLibraryClosed
	}
	L := lib.L
	L.Push(L.NewFunctionFromProto(proto))
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, fmt.Errorf("%w: run %s: %v", ErrScript, chunk, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %s, want a definition table", ErrScript, chunk, ret.Type())
	}
	d, err := parseDefinition(tbl, fallbackName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", chunk, err)
	}
	if _, dup := lib.defs[d.Name]; dup {
		lib.log.Warn("script definition replaced", log.String("component", d.Name), log.String("chunk", chunk))
	}
	lib.defs[d.Name] = d
	lib.log.Debug("script loaded",
		log.String("component", d.Name),
		log.String("chunk", chunk),
		log.Int("events", len(d.Events)),
	)
	return d, nil
}

// New instantiates the named definition.
func (lib *Library) New(name string) (*Component, error) {
	if lib.closed {
		return nil, ErrLibraryClosed
	}
	d, ok := lib.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScript, name)
	}
	return lib.instantiate(d)
}

// call runs fn(self, evt, ent, index) and converts the result.
func (lib *Library) call(name string, fn *lua.LFunction, self *lua.LTable, evt ecs.Event, ent *ecs.Entity, index int) (ecs.Event, error) {
	if lib.closed {
		return nil, ErrLibraryClosed
	}
	in := lib.toTable(evt)
	lib.goErr = nil
	err := lib.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		self, in, lib.entity(ent), lua.LNumber(index))
	if err != nil {
		if goErr := lib.goErr; goErr != nil {
			lib.goErr = nil
			return nil, fmt.Errorf("%s on %q: %w", name, evt.Kind(), goErr)
		}
		return nil, fmt.Errorf("%w: %s on %q: %v", ErrScript, name, evt.Kind(), err)
	}
	ret := lib.L.Get(-1)
	lib.L.Pop(1)

	out, err := lib.fromResult(ret, evt, in)
	if err != nil {
		return nil, fmt.Errorf("%s on %q: %w", name, evt.Kind(), err)
	}
	return out, nil
}

// raise aborts the running Lua call with a Go error that call unwraps.
func (lib *Library) raise(L *lua.LState, err error) int {
	lib.goErr = err
	L.RaiseError("%s", err.Error())
	return 0
}
