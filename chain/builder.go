package chain

import "fmt"

// Builder accumulates handlers and freezes them into an immutable Chain.
// Construction and traversal are kept strictly separate: all linking happens
// inside Build, before any dispatch can observe the chain.
type Builder struct {
	handlers []Handler
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append adds handlers to the end of the chain under construction and
// returns the builder for chaining. Validation is deferred to Build.
func (b *Builder) Append(handlers ...Handler) *Builder {
	b.handlers = append(b.handlers, handlers...)
	return b
}

// Build validates the accumulated handlers and produces the frozen chain.
// Handlers must be non-nil with non-empty, unique names; a name appearing
// twice fails with ErrDuplicateHandler. Links are assembled back to front,
// so each handler holds a reference only to its already-built successor.
func (b *Builder) Build() (*Chain, error) {
	seen := make(map[string]struct{}, len(b.handlers))
	for i, h := range b.handlers {
		if h == nil {
			return nil, fmt.Errorf("position %d: %w", i, ErrNilHandler)
		}
		name := h.Name()
		if name == "" {
			return nil, fmt.Errorf("position %d: %w", i, ErrEmptyHandlerName)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHandler, name)
		}
		seen[name] = struct{}{}
	}

	var head *link
	for i := len(b.handlers) - 1; i >= 0; i-- {
		head = &link{handler: b.handlers[i], next: head}
	}
	return &Chain{head: head, size: len(b.handlers)}, nil
}
