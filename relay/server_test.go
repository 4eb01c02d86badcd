package relay

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaykit/relay/chain"
	"github.com/relaykit/relay/internal/config"
	"github.com/relaykit/relay/wire"
)

func TestServer_HandleFromConfig(t *testing.T) {
	cfg := &config.Config{
		Handlers: []config.Rule{
			{Name: "billing", Match: config.MatchSpec{Tags: []string{"A"}}},
			{Name: "events", Match: config.MatchSpec{Pattern: "^evt-"}},
			{Name: "orders", Match: config.MatchSpec{Schema: map[string]any{
				"type":     "object",
				"required": []any{"sku"},
			}}},
		},
	}
	require.NoError(t, cfg.Validate())

	server, err := NewServer(WithConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "events", "orders"}, server.Chain().Names())

	tests := []struct {
		name        string
		request     wire.Request
		wantStatus  wire.Status
		wantHandler string
	}{
		{
			name:        "tag rule",
			request:     wire.NewRequest("A", nil, 1),
			wantStatus:  wire.StatusHandled,
			wantHandler: "billing",
		},
		{
			name:        "pattern rule",
			request:     wire.NewRequest("evt-created", nil, 2),
			wantStatus:  wire.StatusHandled,
			wantHandler: "events",
		},
		{
			name:        "schema rule",
			request:     wire.NewRequest("order", json.RawMessage(`{"sku": "widget-1"}`), 3),
			wantStatus:  wire.StatusHandled,
			wantHandler: "orders",
		},
		{
			name:       "schema mismatch falls off the chain",
			request:    wire.NewRequest("order", json.RawMessage(`{"qty": 2}`), 4),
			wantStatus: wire.StatusUnhandled,
		},
		{
			name:       "unknown tag",
			request:    wire.NewRequest("D", nil, 5),
			wantStatus: wire.StatusUnhandled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := server.Handle(context.Background(), tt.request)
			assert.Equal(t, tt.wantStatus, response.Status)
			assert.Equal(t, tt.wantHandler, response.Handler)
			assert.Nil(t, response.Error)
		})
	}
}

func TestServer_HandleEmptyTag(t *testing.T) {
	server, err := NewServer()
	require.NoError(t, err)

	response := server.Handle(context.Background(), wire.Request{})
	assert.Equal(t, wire.StatusError, response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, wire.ErrInvalidRequest, response.Error.Code)
}

func TestServer_HandleDefaultsToEmptyChain(t *testing.T) {
	server, err := NewServer()
	require.NoError(t, err)

	response := server.Handle(context.Background(), wire.NewRequest("anything", nil, nil))
	assert.Equal(t, wire.StatusUnhandled, response.Status)
}

func TestServer_WithChain(t *testing.T) {
	c, err := chain.NewBuilder().
		Append(chain.NewHandler("catchall", chain.MatchAll(), nil)).
		Build()
	require.NoError(t, err)

	server, err := NewServer(WithChain(c))
	require.NoError(t, err)

	response := server.Handle(context.Background(), wire.NewRequest("whatever", nil, nil))
	assert.Equal(t, wire.StatusHandled, response.Status)
	assert.Equal(t, "catchall", response.Handler)
}

func TestNewServer_DuplicateRuleNames(t *testing.T) {
	cfg := &config.Config{
		Handlers: []config.Rule{
			{Name: "dup", Match: config.MatchSpec{Tags: []string{"A"}}},
			{Name: "dup", Match: config.MatchSpec{Tags: []string{"B"}}},
		},
	}

	_, err := NewServer(WithConfig(cfg))
	require.Error(t, err)
	assert.ErrorIs(t, err, chain.ErrDuplicateHandler)
}

func TestNewServer_InvalidPattern(t *testing.T) {
	cfg := &config.Config{
		Handlers: []config.Rule{
			{Name: "bad", Match: config.MatchSpec{Pattern: "("}},
		},
	}

	_, err := NewServer(WithConfig(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "bad"`)
}

func TestNewServer_NilOptionValues(t *testing.T) {
	_, err := NewServer(WithConfig(nil))
	assert.Error(t, err)

	_, err = NewServer(WithChain(nil))
	assert.Error(t, err)

	_, err = NewServer(WithClient(nil))
	assert.Error(t, err)
}
