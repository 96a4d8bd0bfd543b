// Package retrieval provides configuration options for the retrieval
// pipeline: chunking, similarity search, and answer generation.
package retrieval

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// DefaultSystemPrompt instructs the chat model to answer strictly from
// the retrieved note excerpts.
const DefaultSystemPrompt = `You are a clinical assistant. Use only the context provided to answer the question. If the answer is not in the context, say you don't know.

Context:
{{context}}

Question: {{question}}

Answer:`

// Options contains retrieval pipeline configuration.
type Options struct {
	// ChunkSize is the chunk window size in runes.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the number of runes shared between adjacent chunks.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// TopK is the maximum number of results returned by similarity search.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// MinSimilarity is the cosine similarity threshold below which
	// results are discarded.
	MinSimilarity float64 `json:"min-similarity" mapstructure:"min-similarity"`

	// CorpusPath is the path to the clinical notes file loaded at startup.
	CorpusPath string `json:"corpus-path" mapstructure:"corpus-path"`

	// SystemPrompt is the prompt template for answer generation.
	SystemPrompt string `json:"system-prompt" mapstructure:"system-prompt"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		ChunkSize:     1000,
		ChunkOverlap:  200,
		TopK:          4,
		MinSimilarity: 0.7,
		CorpusPath:    "data/clinical_notes.txt",
		SystemPrompt:  DefaultSystemPrompt,
	}
}

// AddFlags adds flags for retrieval options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...)
	fs.IntVar(&o.ChunkSize, p+"retrieval.chunk-size", o.ChunkSize, "Chunk window size in runes.")
	fs.IntVar(&o.ChunkOverlap, p+"retrieval.chunk-overlap", o.ChunkOverlap, "Overlap between adjacent chunks in runes.")
	fs.IntVar(&o.TopK, p+"retrieval.top-k", o.TopK, "Maximum number of similarity search results.")
	fs.Float64Var(&o.MinSimilarity, p+"retrieval.min-similarity", o.MinSimilarity, "Cosine similarity threshold for results.")
	fs.StringVar(&o.CorpusPath, p+"retrieval.corpus-path", o.CorpusPath, "Path to the clinical notes file loaded at startup.")
}

// Validate validates the retrieval options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk-size must be positive"))
	}
	if o.ChunkOverlap < 0 {
		errs = append(errs, fmt.Errorf("chunk-overlap must not be negative"))
	}
	if o.ChunkOverlap >= o.ChunkSize {
		errs = append(errs, fmt.Errorf("chunk-overlap %d must be smaller than chunk-size %d", o.ChunkOverlap, o.ChunkSize))
	}
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("top-k must be positive"))
	}
	if o.MinSimilarity < 0 || o.MinSimilarity > 1 {
		errs = append(errs, fmt.Errorf("min-similarity must be within [0, 1]"))
	}
	return errs
}

// Complete completes the retrieval options with defaults.
func (o *Options) Complete() error {
	if o.SystemPrompt == "" {
		o.SystemPrompt = DefaultSystemPrompt
	}
	return nil
}
