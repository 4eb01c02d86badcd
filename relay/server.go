// Package relay wires a configured handler chain to a line-oriented
// transport: requests come in as tags or JSON envelopes, outcomes go out as
// text or JSON, one line per request.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/relaykit/relay/chain"
	"github.com/relaykit/relay/internal"
	"github.com/relaykit/relay/internal/config"
	"github.com/relaykit/relay/wire"
)

// Server dispatches wire requests through a frozen handler chain.
type Server struct {
	chain  *chain.Chain
	cfg    *config.Config
	logger *slog.Logger
	client *http.Client
	auth   string
}

// ServerOption configures a Server during construction.
type ServerOption func(*Server) error

// WithLogger sets the logger used for dispatch events.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// WithClient sets the HTTP client used by forward handlers.
func WithClient(client *http.Client) ServerOption {
	return func(s *Server) error {
		if client == nil {
			return fmt.Errorf("client cannot be nil")
		}
		s.client = client
		return nil
	}
}

// WithAuth sets an Authorization header value applied to forwarded requests.
func WithAuth(auth string) ServerOption {
	return func(s *Server) error {
		s.auth = auth
		return nil
	}
}

// WithConfig sets the rule config the server compiles its chain from.
func WithConfig(cfg *config.Config) ServerOption {
	return func(s *Server) error {
		if cfg == nil {
			return fmt.Errorf("config cannot be nil")
		}
		s.cfg = cfg
		return nil
	}
}

// WithChain sets a prebuilt chain, bypassing config compilation.
func WithChain(c *chain.Chain) ServerOption {
	return func(s *Server) error {
		if c == nil {
			return fmt.Errorf("chain cannot be nil")
		}
		s.chain = c
		return nil
	}
}

// NewServer creates a server. Options are applied in order; the chain is
// compiled afterwards, so option order does not matter. Without a config or
// a prebuilt chain the server reports every request as unhandled.
func NewServer(opts ...ServerOption) (*Server, error) {
	s := &Server{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		client: http.DefaultClient,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.auth != "" {
		base := s.client.Transport
		clone := *s.client
		clone.Transport = &internal.AuthTransport{Base: base, Authorization: s.auth}
		s.client = &clone
	}

	if s.chain == nil {
		cfg := s.cfg
		if cfg == nil {
			cfg = config.DefaultConfig()
		}
		built, err := compileChain(cfg, s.client)
		if err != nil {
			return nil, fmt.Errorf("error compiling chain: %w", err)
		}
		s.chain = built
	}

	return s, nil
}

// Chain returns the server's frozen chain.
func (s *Server) Chain() *chain.Chain {
	return s.chain
}

// Handle dispatches a single wire request and reports its outcome.
func (s *Server) Handle(ctx context.Context, req wire.Request) wire.Response {
	if req.Tag == "" {
		return wire.NewResponse(req.ID, wire.StatusError, "", wire.NewError(wire.ErrInvalidRequest, "request tag is empty"))
	}

	outcome, err := s.chain.Dispatch(ctx, chain.Request{Tag: req.Tag, Payload: req.Payload})
	if err != nil {
		s.logger.Error("dispatch failed", "tag", req.Tag, "handler", outcome.Handler, "error", err)
		return wire.NewResponse(req.ID, wire.StatusError, outcome.Handler, wire.NewError(wire.ErrInternal, err.Error()))
	}

	switch outcome.Status {
	case chain.Handled:
		s.logger.Info("request handled", "tag", req.Tag, "handler", outcome.Handler)
		return wire.NewResponse(req.ID, wire.StatusHandled, outcome.Handler, nil)
	default:
		s.logger.Info("request unhandled", "tag", req.Tag)
		return wire.NewResponse(req.ID, wire.StatusUnhandled, "", nil)
	}
}

// compileChain turns config rules into a frozen chain, in rule order.
func compileChain(cfg *config.Config, client *http.Client) (*chain.Chain, error) {
	builder := chain.NewBuilder()
	for _, rule := range cfg.Handlers {
		match, err := compileMatch(rule.Match)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}

		var serve chain.ServeFunc
		if rule.Forward != "" {
			serve = forwardFunc(client, rule.Forward)
		}

		builder.Append(chain.NewHandler(rule.Name, match, serve))
	}
	return builder.Build()
}

func compileMatch(spec config.MatchSpec) (chain.Predicate, error) {
	switch {
	case len(spec.Tags) == 1:
		return chain.MatchTag(spec.Tags[0]), nil
	case len(spec.Tags) > 1:
		return chain.MatchAnyTag(spec.Tags...), nil
	case spec.Pattern != "":
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		return chain.MatchPattern(re), nil
	case spec.Schema != nil:
		data, err := json.Marshal(spec.Schema)
		if err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
		var schema jsonschema.Schema
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("error resolving schema: %w", err)
		}
		return chain.MatchPayload(resolved), nil
	default:
		return chain.MatchAll(), nil
	}
}
