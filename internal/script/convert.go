package script

import (
	"fmt"
	"reflect"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/zeusync/evecs/internal/core/ecs"
)

var vec2Type = reflect.TypeOf([2]float64{})

// toTable converts evt into a fresh table: kind, from (when sourced) and
// one entry per exported payload field.
func (lib *Library) toTable(evt ecs.Event) *lua.LTable {
	L := lib.L
	tbl := L.NewTable()
	tbl.RawSetString("kind", lua.LString(evt.Kind()))
	if h := evt.Meta(); h.Sourced {
		tbl.RawSetString("from", lua.LNumber(h.From))
	}
	if _, ok := evt.(*ecs.Request); ok {
		return tbl
	}

	v := reflect.ValueOf(evt)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return tbl
	}
	v = v.Elem()
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}
		tbl.RawSetString(fieldKey(f.Name), lib.toValue(v.Field(i)))
	}
	return tbl
}

func fieldKey(name string) string { return strings.ToLower(name) }

func (lib *Library) toValue(v reflect.Value) lua.LValue {
	switch v.Kind() {
	case reflect.Bool:
		return lua.LBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(v.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(v.Float())
	case reflect.String:
		return lua.LString(v.String())
	case reflect.Array:
		if v.Type().ConvertibleTo(vec2Type) {
			vec := v.Convert(vec2Type).Interface().([2]float64)
			return lib.vec(vec[0], vec[1])
		}
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return lua.LNil
		}
	}
	ud := lib.L.NewUserData()
	ud.Value = v.Interface()
	return ud
}

func (lib *Library) vec(x, y float64) *lua.LTable {
	t := lib.L.NewTable()
	t.RawSetString("x", lua.LNumber(x))
	t.RawSetString("y", lua.LNumber(y))
	return t
}

// fromResult turns a handler's return value into the pipeline result.
// Returning the received table writes it back into evt; a query request is
// replaced by a typed event of the requested kind.
func (lib *Library) fromResult(ret lua.LValue, evt ecs.Event, in *lua.LTable) (ecs.Event, error) {
	switch r := ret.(type) {
	case *lua.LNilType:
		return nil, nil
	case *lua.LUserData:
		if e, ok := r.Value.(ecs.Event); ok {
			return e, nil
		}
		return nil, fmt.Errorf("%w: userdata %T is not an event", ErrBadReturnValue, r.Value)
	case *lua.LTable:
		if r == in {
			if _, isRequest := evt.(*ecs.Request); !isRequest {
				if err := fill(evt, r); err != nil {
					return nil, err
				}
				return evt, nil
			}
		}
		kind := evt.Kind()
		if k, ok := r.RawGetString("kind").(lua.LString); ok && k != "" {
			kind = ecs.Kind(k)
		}
		return lib.build(kind, r)
	}
	return nil, fmt.Errorf("%w: got %s", ErrBadReturnValue, ret.Type())
}

// build creates an event of kind from tbl. Kinds without a registered
// constructor become payload-less requests.
func (lib *Library) build(kind ecs.Kind, tbl *lua.LTable) (ecs.Event, error) {
	factory, ok := lib.kinds[kind]
	if !ok {
		return ecs.NewRequest(kind), nil
	}
	evt := factory()
	if err := fill(evt, tbl); err != nil {
		return nil, err
	}
	return evt, nil
}

// fill copies table entries onto the exported fields of evt. Missing or nil
// entries leave the field untouched.
func fill(evt ecs.Event, tbl *lua.LTable) error {
	v := reflect.ValueOf(evt)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil
	}
	v = v.Elem()
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}
		lv := tbl.RawGetString(fieldKey(f.Name))
		if lv == lua.LNil {
			continue
		}
		if err := setValue(v.Field(i), lv); err != nil {
			return fmt.Errorf("%w: field %s of %q: %v", ErrBadReturnValue, fieldKey(f.Name), evt.Kind(), err)
		}
	}
	return nil
}

func setValue(dst reflect.Value, lv lua.LValue) error {
	switch dst.Kind() {
	case reflect.Bool:
		dst.SetBool(lua.LVAsBool(lv))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := lv.(lua.LNumber)
		if !ok {
			return fmt.Errorf("want number, got %s", lv.Type())
		}
		dst.SetInt(int64(n))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := lv.(lua.LNumber)
		if !ok || n < 0 {
			return fmt.Errorf("want non-negative number, got %s", lv.String())
		}
		dst.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		n, ok := lv.(lua.LNumber)
		if !ok {
			return fmt.Errorf("want number, got %s", lv.Type())
		}
		dst.SetFloat(float64(n))
		return nil
	case reflect.String:
		s, ok := lv.(lua.LString)
		if !ok {
			return fmt.Errorf("want string, got %s", lv.Type())
		}
		dst.SetString(string(s))
		return nil
	case reflect.Array:
		if dst.Type().ConvertibleTo(vec2Type) {
			tbl, ok := lv.(*lua.LTable)
			if !ok {
				return fmt.Errorf("want {x, y}, got %s", lv.Type())
			}
			x, xok := tbl.RawGetString("x").(lua.LNumber)
			y, yok := tbl.RawGetString("y").(lua.LNumber)
			if !xok || !yok {
				return fmt.Errorf("want numeric x and y")
			}
			dst.Set(reflect.ValueOf([2]float64{float64(x), float64(y)}).Convert(dst.Type()))
			return nil
		}
	}
	ud, ok := lv.(*lua.LUserData)
	if !ok || ud.Value == nil {
		return fmt.Errorf("want %s, got %s", dst.Type(), lv.Type())
	}
	src := reflect.ValueOf(ud.Value)
	if !src.Type().AssignableTo(dst.Type()) {
		return fmt.Errorf("want %s, got %T", dst.Type(), ud.Value)
	}
	dst.Set(src)
	return nil
}
