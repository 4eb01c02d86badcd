package relay

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/relaykit/relay/wire"
)

// Handler dispatches one wire request and reports its outcome.
type Handler interface {
	Handle(ctx context.Context, req wire.Request) wire.Response
}

// Transport reads requests line by line and writes one outcome line per
// request. A line starting with "{" is decoded as a wire JSON envelope and
// answered in kind; any other nonempty line is treated as a bare tag and
// answered in the classic text form:
//
//	billing is handling the request: A
//	End of the chain. No handler found for the request: D
type Transport struct {
	handler Handler
	scanner *bufio.Scanner
	writer  *json.Encoder
	bufOut  *bufio.Writer
	errOut  io.Writer
}

// NewStdioTransport creates a new line transport
func NewStdioTransport(handler Handler, in io.Reader, out io.Writer, errOut io.Writer) *Transport {
	scanner := bufio.NewScanner(in)
	// Set a reasonable max size for each line
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	bufOut := bufio.NewWriter(out)
	return &Transport{
		handler: handler,
		scanner: scanner,
		writer:  json.NewEncoder(bufOut),
		bufOut:  bufOut,
		errOut:  errOut,
	}
}

// Run starts the transport loop, reading requests until input is exhausted
// or ctx is cancelled. Malformed lines produce an error response; they never
// terminate the loop.
func (t *Transport) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if !t.scanner.Scan() {
				if err := t.scanner.Err(); err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return nil
			}

			line := strings.TrimSpace(t.scanner.Text())
			if line == "" {
				continue
			}

			if strings.HasPrefix(line, "{") {
				var request wire.Request
				if err := json.Unmarshal([]byte(line), &request); err != nil {
					t.writeJSON(wire.NewResponse(nil, wire.StatusError, "", wire.NewError(wire.ErrParse, err.Error())))
					continue
				}
				t.writeJSON(t.handler.Handle(ctx, request))
				continue
			}

			t.writeText(line, t.handler.Handle(ctx, wire.NewRequest(line, nil, nil)))
		}
	}
}

func (t *Transport) writeJSON(response wire.Response) {
	if err := t.writer.Encode(response); err != nil {
		fmt.Fprintf(t.errOut, "Error encoding response: %v\n", err)
	}
	t.bufOut.Flush()
}

func (t *Transport) writeText(tag string, response wire.Response) {
	switch response.Status {
	case wire.StatusHandled:
		fmt.Fprintf(t.bufOut, "%s is handling the request: %s\n", response.Handler, tag)
	case wire.StatusUnhandled:
		fmt.Fprintf(t.bufOut, "End of the chain. No handler found for the request: %s\n", tag)
	default:
		message := "unknown error"
		if response.Error != nil {
			message = response.Error.Message
			if data, ok := response.Error.Data.(string); ok && data != "" {
				message = data
			}
		}
		fmt.Fprintf(t.bufOut, "Error handling the request: %s: %s\n", tag, message)
	}
	t.bufOut.Flush()
}
