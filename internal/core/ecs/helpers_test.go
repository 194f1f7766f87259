package ecs

// probe is a mutable event used across the package tests.
type probe struct {
	Header
	K     Kind
	Trace []string
	N     int
}

func (p *probe) Kind() Kind { return p.K }

func newProbe(kind Kind) *probe { return &probe{K: kind} }

// tracer appends its name to the probe trace for every kind it declares.
type tracer struct {
	name  string
	kinds []Kind
	calls int
}

func newTracer(name string, kinds ...Kind) *tracer {
	return &tracer{name: name, kinds: kinds}
}

func (t *tracer) Name() string   { return t.name }
func (t *tracer) Events() []Kind { return t.kinds }
func (t *tracer) Handlers() Handlers {
	h := make(Handlers, len(t.kinds))
	for _, k := range t.kinds {
		h[k] = t.handle
	}
	return h
}

func (t *tracer) handle(evt Event, _ *Entity, _ int) (Event, error) {
	t.calls++
	if p, ok := evt.(*probe); ok {
		p.Trace = append(p.Trace, t.name)
		return p, nil
	}
	return evt, nil
}

// fn builds a single-kind component from a function.
func fn(name string, kind Kind, h HandlerFunc) Component {
	return Define(name, Handlers{kind: h}, kind)
}

func traceOf(evt Event) []string {
	if p, ok := evt.(*probe); ok {
		return p.Trace
	}
	return nil
}
