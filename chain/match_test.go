package chain

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchTag(t *testing.T) {
	p := MatchTag("A")
	assert.True(t, p(Request{Tag: "A"}))
	assert.False(t, p(Request{Tag: "B"}))
	assert.False(t, p(Request{Tag: ""}))
}

func TestMatchAnyTag(t *testing.T) {
	p := MatchAnyTag("A", "B")
	assert.True(t, p(Request{Tag: "A"}))
	assert.True(t, p(Request{Tag: "B"}))
	assert.False(t, p(Request{Tag: "C"}))

	none := MatchAnyTag()
	assert.False(t, none(Request{Tag: "A"}))
}

func TestMatchPattern(t *testing.T) {
	p := MatchPattern(regexp.MustCompile(`^evt-`))
	assert.True(t, p(Request{Tag: "evt-created"}))
	assert.False(t, p(Request{Tag: "cmd-create"}))
}

func TestMatchAll(t *testing.T) {
	p := MatchAll()
	assert.True(t, p(Request{Tag: "anything"}))
	assert.True(t, p(Request{}))
}

func TestMatchPayload(t *testing.T) {
	var schema jsonschema.Schema
	require.NoError(t, json.Unmarshal([]byte(`{
		"type": "object",
		"required": ["sku"],
		"properties": {"sku": {"type": "string"}}
	}`), &schema))
	resolved, err := schema.Resolve(nil)
	require.NoError(t, err)

	p := MatchPayload(resolved)

	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{"valid payload", `{"sku": "widget-1"}`, true},
		{"missing required field", `{"qty": 2}`, false},
		{"wrong type", `{"sku": 42}`, false},
		{"not an object", `"just a string"`, false},
		{"invalid JSON", `{`, false},
		{"empty payload", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Tag: "order"}
			if tt.payload != "" {
				req.Payload = json.RawMessage(tt.payload)
			}
			assert.Equal(t, tt.want, p(req))
		})
	}
}
