package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/relaykit/relay/chain"
	"github.com/relaykit/relay/wire"
)

// NewForwardHandler builds a handler that services matched requests by
// POSTing them, wire-encoded, to url. A 2xx response means the upstream
// accepted the request; anything else is a serve error.
func NewForwardHandler(name string, match chain.Predicate, client *http.Client, url string) chain.Handler {
	if client == nil {
		client = http.DefaultClient
	}
	return chain.NewHandler(name, match, forwardFunc(client, url))
}

func forwardFunc(client *http.Client, url string) chain.ServeFunc {
	return func(ctx context.Context, req chain.Request) error {
		body, err := json.Marshal(wire.NewRequest(req.Tag, req.Payload, nil))
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("error creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("error forwarding to %s: %w", url, err)
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("forward to %s: unexpected status %s", url, resp.Status)
		}
		return nil
	}
}
