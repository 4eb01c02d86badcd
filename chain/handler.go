// Package chain routes requests through an ordered sequence of handlers.
// The first handler whose predicate matches services the request; a request
// no handler claims is reported as an explicit Unhandled outcome rather than
// a side effect. Chains are built once via Builder and never mutated after,
// so a frozen chain is safe to dispatch from concurrent goroutines.
package chain

import (
	"context"
	"encoding/json"
)

// Request is the value routed through a chain. The tag selects handlers;
// the payload is opaque to the chain itself and only inspected by predicates.
type Request struct {
	Tag     string
	Payload json.RawMessage
}

// Status reports how a dispatch concluded.
type Status int

const (
	// Handled means a handler matched and serviced the request.
	Handled Status = iota

	// Unhandled means the request reached the end of the chain unclaimed.
	Unhandled
)

func (s Status) String() string {
	switch s {
	case Handled:
		return "handled"
	case Unhandled:
		return "unhandled"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single dispatch. Handler names the link that
// serviced the request and is empty when the status is Unhandled.
type Outcome struct {
	Status  Status
	Handler string
}

// Predicate decides whether a handler wants a request.
type Predicate func(Request) bool

// ServeFunc performs a handler's side effect once it has matched.
type ServeFunc func(context.Context, Request) error

// Handler is one link in a chain.
type Handler interface {
	// Name identifies the handler in outcomes and logs. Names are unique
	// within a chain.
	Name() string

	// Match reports whether this handler wants the request.
	Match(Request) bool

	// Serve performs the handler's effect for a matched request.
	Serve(ctx context.Context, req Request) error
}

// NewHandler builds a Handler from a predicate and an optional serve
// function. A nil predicate matches every request; a nil serve function
// makes the handler a pure router that claims requests without acting
// on them.
func NewHandler(name string, match Predicate, serve ServeFunc) Handler {
	return &handler{name: name, match: match, serve: serve}
}

type handler struct {
	name  string
	match Predicate
	serve ServeFunc
}

func (h *handler) Name() string { return h.name }

func (h *handler) Match(req Request) bool {
	if h.match == nil {
		return true
	}
	return h.match(req)
}

func (h *handler) Serve(ctx context.Context, req Request) error {
	if h.serve == nil {
		return nil
	}
	return h.serve(ctx, req)
}
