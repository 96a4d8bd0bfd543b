package redis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSONRedactsPassword(t *testing.T) {
	opts := NewOptions()
	opts.Password = "supersecret"

	data, err := json.Marshal(opts)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "supersecret")
	assert.Contains(t, string(data), "[REDACTED]")
}

func TestMarshalJSONEmptyPassword(t *testing.T) {
	opts := NewOptions()

	data, err := json.Marshal(opts)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "[REDACTED]")
	assert.Contains(t, string(data), `"password":""`)
}

func TestStringRedactsPassword(t *testing.T) {
	opts := NewOptions()
	opts.Password = "supersecret"

	s := opts.String()
	assert.False(t, strings.Contains(s, "supersecret"))
	assert.Contains(t, s, "[REDACTED]")
}

func TestAddrJoinsHostPort(t *testing.T) {
	opts := NewOptions()
	assert.Equal(t, "127.0.0.1:6379", opts.Addr())
}

func TestValidate(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())

	opts.Port = 70000
	assert.NotEmpty(t, opts.Validate())

	opts = NewOptions()
	opts.Host = ""
	assert.NotEmpty(t, opts.Validate())
}
