package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/llm"
)

func newTestProvider(baseURL, apiKey string) *Provider {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.APIKey = apiKey
	cfg.Timeout = 5 * time.Second
	cfg.MaxRetries = 0
	return NewProviderWithConfig(cfg)
}

func TestEmbedReordersByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)
		require.Len(t, req.Input, 2)

		// Out-of-order data entries must be restored to input order.
		_, _ = w.Write([]byte(`{
			"data": [
				{"embedding": [0.3, 0.4], "index": 1},
				{"embedding": [0.1, 0.2], "index": 0}
			],
			"model": "text-embedding-3-small"
		}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL, "sk-test")

	embeddings, err := p.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0])
	assert.Equal(t, []float32{0.3, 0.4}, embeddings[1])
}

func TestEmbedSingle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"embedding": [1, 2, 3], "index": 0}]}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL, "sk-test")

	embedding, err := p.EmbedSingle(context.Background(), "discharge summary")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, embedding)
}

func TestChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.False(t, req.Stream)

		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Based on the notes, yes."}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL, "sk-test")

	answer, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "Was the patient discharged?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Based on the notes, yes.", answer)
}

func TestGenerateIncludesSystemPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "you are a clinical assistant", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)

		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL, "sk-test")

	answer, err := p.Generate(context.Background(), "question", "you are a clinical assistant")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
}

func TestWithCredential(t *testing.T) {
	var seenKeys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenKeys = append(seenKeys, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data": [{"embedding": [0.1], "index": 0}]}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL, "sk-original")

	override, ok := llm.EmbeddingProvider(p).(llm.CredentialOverrider)
	require.True(t, ok)

	scoped := override.WithCredential("sk-request-scoped")
	_, err := scoped.EmbedSingle(context.Background(), "text")
	require.NoError(t, err)

	// The original provider keeps its own key.
	_, err = p.EmbedSingle(context.Background(), "text")
	require.NoError(t, err)

	require.Len(t, seenKeys, 2)
	assert.Equal(t, "Bearer sk-request-scoped", seenKeys[0])
	assert.Equal(t, "Bearer sk-original", seenKeys[1])
}

func TestOrganizationHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "org-123", r.Header.Get("OpenAI-Organization"))
		_, _ = w.Write([]byte(`{"data": [{"embedding": [0.1], "index": 0}]}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.APIKey = "sk-test"
	cfg.Organization = "org-123"
	cfg.MaxRetries = 0
	p := NewProviderWithConfig(cfg)

	_, err := p.EmbedSingle(context.Background(), "text")
	require.NoError(t, err)
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	_, err := NewProvider(map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}, {"id": "text-embedding-3-small"}]}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL, "sk-test")

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o-mini", "text-embedding-3-small"}, models)
}
