package ecs

import "reflect"

type step struct {
	handler HandlerFunc
	index   int
}

// Pipeline is the chain of handlers for one kind on one entity, in component order.
type Pipeline struct {
	kind  Kind
	steps []step
}

// Kind returns the event kind the pipeline handles.
func (p *Pipeline) Kind() Kind { return p.kind }

// Len returns the number of handlers in the chain.
func (p *Pipeline) Len() int { return len(p.steps) }

// Run threads evt through every handler. Each handler receives the previous
// result, or evt itself when the previous handler returned nil.
func (p *Pipeline) Run(evt Event, ent *Entity) (Event, error) {
	var out Event
	for i, s := range p.steps {
		in := evt
		if i > 0 && present(out) {
			in = out
		}
		res, err := s.handler(in, ent, s.index)
		if err != nil {
			return nil, err
		}
		out = res
	}
	if !present(out) {
		return nil, nil
	}
	return out, nil
}

// present reports whether e carries a value. Typed nil pointers count as absent.
func present(e Event) bool {
	if e == nil {
		return false
	}
	v := reflect.ValueOf(e)
	return v.Kind() != reflect.Pointer || !v.IsNil()
}

// compile builds one pipeline per kind declared by at least one component.
// Any misconfigured component fails the whole compilation.
func compile(components []Component) (map[Kind]*Pipeline, error) {
	pipelines := make(map[Kind]*Pipeline)
	for i, c := range components {
		if err := Validate(c); err != nil {
			return nil, err
		}
		handlers := c.Handlers()
		for _, k := range c.Events() {
			p := pipelines[k]
			if p == nil {
				p = &Pipeline{kind: k}
				pipelines[k] = p
			}
			p.steps = append(p.steps, step{handler: handlers[k], index: i})
		}
	}
	return pipelines, nil
}
