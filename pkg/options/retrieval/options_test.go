package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, 1000, o.ChunkSize)
	assert.Equal(t, 200, o.ChunkOverlap)
	assert.Equal(t, 4, o.TopK)
	assert.InDelta(t, 0.7, o.MinSimilarity, 1e-9)
	assert.Empty(t, o.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero chunk size", func(o *Options) { o.ChunkSize = 0 }},
		{"negative overlap", func(o *Options) { o.ChunkOverlap = -1 }},
		{"overlap not smaller than size", func(o *Options) { o.ChunkSize = 100; o.ChunkOverlap = 100 }},
		{"zero top-k", func(o *Options) { o.TopK = 0 }},
		{"similarity above one", func(o *Options) { o.MinSimilarity = 1.5 }},
		{"similarity below zero", func(o *Options) { o.MinSimilarity = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.mutate(o)
			assert.NotEmpty(t, o.Validate())
		})
	}
}

func TestCompleteFillsPrompt(t *testing.T) {
	o := NewOptions()
	o.SystemPrompt = ""
	assert.NoError(t, o.Complete())
	assert.Equal(t, DefaultSystemPrompt, o.SystemPrompt)
}
