package chain

import (
	"context"
	"fmt"
)

// link is one node of the frozen chain. A nil next marks the terminal link;
// dispatch walking past it yields the Unhandled outcome. Links are never
// exposed or relinked after Build, so successor references cannot change
// while a traversal is in progress.
type link struct {
	handler Handler
	next    *link
}

// Chain is an immutable, ordered sequence of handlers. The zero value and
// a chain built from no handlers both report every request as Unhandled.
type Chain struct {
	head *link
	size int
}

// Len returns the number of handlers in the chain.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return c.size
}

// Names returns handler names in dispatch order.
func (c *Chain) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, c.size)
	for cur := c.head; cur != nil; cur = cur.next {
		names = append(names, cur.handler.Name())
	}
	return names
}

// Dispatch routes req to the first handler whose predicate matches and
// returns the outcome. Traversal is linear, first-match-wins, with no
// backtracking; handlers after the match are never consulted. A request no
// handler claims yields Outcome{Status: Unhandled} and a nil error.
//
// A matched handler whose Serve fails still produces a Handled outcome:
// the request was claimed, its owner just failed to act on it. The error
// is returned wrapped with the handler name.
func (c *Chain) Dispatch(ctx context.Context, req Request) (Outcome, error) {
	if c == nil {
		return Outcome{Status: Unhandled}, nil
	}
	for cur := c.head; cur != nil; cur = cur.next {
		if err := ctx.Err(); err != nil {
			return Outcome{Status: Unhandled}, err
		}
		if !cur.handler.Match(req) {
			continue
		}
		name := cur.handler.Name()
		if err := cur.handler.Serve(ctx, req); err != nil {
			return Outcome{Status: Handled, Handler: name}, fmt.Errorf("chain: handler %s: %w", name, err)
		}
		return Outcome{Status: Handled, Handler: name}, nil
	}
	return Outcome{Status: Unhandled}, nil
}
