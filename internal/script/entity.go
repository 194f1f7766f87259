package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/zeusync/evecs/internal/core/ecs"
)

func (lib *Library) installEntityType() {
	L := lib.L
	mt := L.NewTypeMetatable(entityType)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"id":      lib.entityID,
		"live":    lib.entityLive,
		"handles": lib.entityHandles,
		"query":   lib.entityQuery,
		"publish": lib.entityPublish,
		"kill":    lib.entityKill,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(lib.checkEntity(L).String()))
		return 1
	}))
}

func (lib *Library) entity(ent *ecs.Entity) lua.LValue {
	if ent == nil {
		return lua.LNil
	}
	ud := lib.L.NewUserData()
	ud.Value = ent
	lib.L.SetMetatable(ud, lib.L.GetTypeMetatable(entityType))
	return ud
}

func (lib *Library) checkEntity(L *lua.LState) *ecs.Entity {
	ud := L.CheckUserData(1)
	ent, ok := ud.Value.(*ecs.Entity)
	if !ok {
		L.ArgError(1, "entity expected")
	}
	return ent
}

func (lib *Library) entityID(L *lua.LState) int {
	L.Push(lua.LNumber(lib.checkEntity(L).ID()))
	return 1
}

func (lib *Library) entityLive(L *lua.LState) int {
	L.Push(lua.LBool(lib.checkEntity(L).Live()))
	return 1
}

func (lib *Library) entityHandles(L *lua.LState) int {
	ent := lib.checkEntity(L)
	L.Push(lua.LBool(ent.Handles(ecs.Kind(L.CheckString(2)))))
	return 1
}

// entityQuery returns the query result as a table, or nil when the entity
// produced no result.
func (lib *Library) entityQuery(L *lua.LState) int {
	ent := lib.checkEntity(L)
	res, err := ent.Query(ecs.Kind(L.CheckString(2)))
	if err != nil {
		return lib.raise(L, err)
	}
	if res == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lib.toTable(res))
	return 1
}

// entityPublish broadcasts a table as an event. The kind comes from the
// table's kind entry.
func (lib *Library) entityPublish(L *lua.LState) int {
	ent := lib.checkEntity(L)
	tbl := L.CheckTable(2)
	kind, ok := tbl.RawGetString("kind").(lua.LString)
	if !ok || kind == "" {
		L.ArgError(2, "event table needs a kind")
		return 0
	}
	evt, err := lib.build(ecs.Kind(kind), tbl)
	if err != nil {
		return lib.raise(L, err)
	}
	if err := ent.Publish(evt); err != nil {
		return lib.raise(L, err)
	}
	return 0
}

func (lib *Library) entityKill(L *lua.LState) int {
	ent := lib.checkEntity(L)
	reason := L.OptString(2, "")
	if err := ent.Kill(reason); err != nil {
		return lib.raise(L, fmt.Errorf("kill %s: %w", ent, err))
	}
	return 0
}
