package ecs

import "fmt"

// Kind names an event kind. Pipelines and system subscriptions are keyed by it.
type Kind string

// KindKilled is delivered to an entity when it is killed, and then broadcast.
const KindKilled Kind = "killed"

// Event is a kind-tagged payload passed by reference through pipelines and broadcasts.
//
// Concrete events are pointer types embedding Header, one struct per kind:
//
//	type Tick struct {
//	    ecs.Header
//	    Delta float64
//	}
//
//	func (*Tick) Kind() ecs.Kind { return "tick" }
type Event interface {
	Kind() Kind
	Meta() *Header
}

// Header is the part of an event owned by the core.
type Header struct {
	// From is the identifier of the entity that published the event.
	// It is only meaningful when Sourced is true.
	From    EntityID
	Sourced bool
}

// Meta returns the header itself so embedding structs satisfy Event.
func (h *Header) Meta() *Header { return h }

func (h *Header) stamp(id EntityID) {
	h.From = id
	h.Sourced = true
}

// Request is the event Query sends: a bare kind with no payload.
type Request struct {
	Header
	K Kind
}

// NewRequest creates a payload-less event of the given kind.
func NewRequest(kind Kind) *Request {
	return &Request{K: kind}
}

func (r *Request) Kind() Kind { return r.K }

func (r *Request) String() string { return fmt.Sprintf("request(%s)", r.K) }

// Killed is the event of kind "killed". Locally it is delivered to the dying
// entity before deregistration; afterward it is broadcast to systems.
type Killed struct {
	Header
	ID     EntityID
	Reason string
}

func (*Killed) Kind() Kind { return KindKilled }
