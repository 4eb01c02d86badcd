package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id, err := NewID("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", id.Value())

	id, err = NewID(42)
	require.NoError(t, err)
	assert.Equal(t, 42, id.Value())

	id, err = NewID(nil)
	require.NoError(t, err)
	assert.True(t, id.IsNil())

	_, err = NewID(map[string]any{"bad": true})
	assert.Error(t, err)
}

func TestID_JSON(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`"req-1"`), &id))
	assert.Equal(t, "req-1", id.Value())

	require.NoError(t, json.Unmarshal([]byte(`7`), &id))
	assert.Equal(t, 7, id.Value())

	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.True(t, id.IsNil())

	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))

	data, err := json.Marshal(ID{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestResponse_JSON(t *testing.T) {
	data, err := json.Marshal(NewResponse(1, StatusHandled, "billing", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"handled","handler":"billing","id":1}`, string(data))

	data, err = json.Marshal(NewResponse("x", StatusUnhandled, "", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"unhandled","id":"x"}`, string(data))

	data, err = json.Marshal(NewResponse(nil, StatusError, "", NewError(ErrParse, nil)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","error":{"code":1,"message":"Parse error"},"id":null}`, string(data))
}
