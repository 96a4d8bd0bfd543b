package json

import (
	"bytes"
	stdjson "encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chunkPayload struct {
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding"`
	DocumentID string    `json:"document_id,omitempty"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	in := chunkPayload{
		Content:    "patient presents with acute chest pain",
		Embedding:  []float32{0.125, -0.5, 0.75, 1},
		DocumentID: "doc:3",
	}

	data, err := Marshal(in)
	require.NoError(t, err)

	var out chunkPayload
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestMarshalFloatSliceFidelity(t *testing.T) {
	// Embedding vectors must survive encode/decode without drift.
	vec := []float32{0, 1, -1, 0.0001220703125, 3.4e38}

	data, err := Marshal(vec)
	require.NoError(t, err)

	var got []float32
	require.NoError(t, Unmarshal(data, &got))
	assert.Equal(t, vec, got)
}

func TestMarshalOutputIsValidJSON(t *testing.T) {
	data, err := Marshal(map[string]interface{}{
		"code":    0,
		"message": "success",
		"results": []string{"a", "b"},
	})
	require.NoError(t, err)

	var v interface{}
	assert.NoError(t, stdjson.Unmarshal(data, &v))
}

func TestUnmarshalInvalidInput(t *testing.T) {
	var out chunkPayload
	assert.Error(t, Unmarshal([]byte(`{invalid}`), &out))
}

func TestEncoderDecoder(t *testing.T) {
	in := chunkPayload{Content: "note", Embedding: []float32{0.5}}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(in))

	var out chunkPayload
	require.NoError(t, NewDecoder(strings.NewReader(buf.String())).Decode(&out))
	assert.Equal(t, in, out)
}

func TestConcurrentUse(t *testing.T) {
	const goroutines = 50
	in := chunkPayload{Content: "note", Embedding: []float32{0.1, 0.2}}
	errCh := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				data, err := Marshal(in)
				if err != nil {
					errCh <- err
					return
				}
				var out chunkPayload
				if err := Unmarshal(data, &out); err != nil {
					errCh <- err
					return
				}
			}
			errCh <- nil
		}()
	}

	for i := 0; i < goroutines; i++ {
		assert.NoError(t, <-errCh)
	}
}
