package llm

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Flag names must match the mapstructure paths so that a knob is
// spelled the same way as flag, env var, and config key.
func TestAddFlagsMatchesConfigPaths(t *testing.T) {
	for _, prefix := range []string{"embedding", "chat"} {
		opts := NewProviderOptions()
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		opts.AddFlags(fs, prefix)

		for _, name := range []string{
			"provider", "base-url", "api-key", "model",
			"timeout", "max-retries", "organization",
		} {
			assert.NotNil(t, fs.Lookup(prefix+"."+name), "%s.%s", prefix, name)
		}
	}
}

func TestAddFlagsSetValues(t *testing.T) {
	opts := NewProviderOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs, "embedding")

	require.NoError(t, fs.Parse([]string{
		"--embedding.provider=openai",
		"--embedding.model=text-embedding-3-small",
		"--embedding.api-key=sk-test",
		"--embedding.timeout=30s",
	}))

	assert.Equal(t, "openai", opts.Provider)
	assert.Equal(t, "text-embedding-3-small", opts.Model)
	assert.Equal(t, "sk-test", opts.APIKey)
	assert.Equal(t, 30*time.Second, opts.Timeout)
}

func TestValidateOpenAIRequiresAPIKey(t *testing.T) {
	opts := NewProviderOptions()
	opts.Provider = "openai"
	opts.Model = "gpt-4"
	assert.NotEmpty(t, opts.Validate())

	opts.APIKey = "sk-test"
	assert.Empty(t, opts.Validate())
}

func TestToConfigMap(t *testing.T) {
	opts := NewEmbeddingOptions()
	cfg := opts.ToConfigMap()

	assert.Equal(t, opts.BaseURL, cfg["base_url"])
	assert.Equal(t, opts.Model, cfg["embed_model"])
	assert.Equal(t, opts.Model, cfg["chat_model"])
	assert.Equal(t, opts.MaxRetries, cfg["max_retries"])
}
