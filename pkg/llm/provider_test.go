package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name      string
	dimension int
	embedded  [][]string
	answer    string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.embedded = append(f.embedded, texts)
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, f.dimension)
		for j := range vec {
			vec[j] = float32(len(texts[i])+j) * 0.01
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeProvider) Chat(_ context.Context, _ []Message) (string, error) {
	return f.answer, nil
}

func (f *fakeProvider) Generate(_ context.Context, _ string, _ string) (string, error) {
	return f.answer, nil
}

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("fake-full", func(_ map[string]any) (Provider, error) {
		return &fakeProvider{name: "fake-full", dimension: 4, answer: "ok"}, nil
	})

	p, err := NewProvider("fake-full", nil)
	require.NoError(t, err)
	assert.Equal(t, "fake-full", p.Name())

	// Full providers also back the dedicated factories.
	ep, err := NewEmbeddingProvider("fake-full", nil)
	require.NoError(t, err)
	vec, err := ep.EmbedSingle(context.Background(), "note")
	require.NoError(t, err)
	assert.Len(t, vec, 4)

	cp, err := NewChatProvider("fake-full", nil)
	require.NoError(t, err)
	answer, err := cp.Generate(context.Background(), "prompt", "system")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("no-such-provider", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-provider")

	_, err = NewEmbeddingProvider("no-such-provider", nil)
	require.Error(t, err)

	_, err = NewChatProvider("no-such-provider", nil)
	require.Error(t, err)
}

func TestListProviders(t *testing.T) {
	RegisterProvider("fake-listed", func(_ map[string]any) (Provider, error) {
		return &fakeProvider{name: "fake-listed", dimension: 2}, nil
	})

	names := ListProviders()
	assert.Contains(t, names, "fake-listed")
}

func TestMessageRoles(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: "You are a clinical assistant."},
		{Role: RoleUser, Content: "What medications were prescribed?"},
		{Role: RoleAssistant, Content: "Metformin 500mg."},
	}
	assert.Equal(t, "system", string(msgs[0].Role))
	assert.Equal(t, "user", string(msgs[1].Role))
	assert.Equal(t, "assistant", string(msgs[2].Role))
}
