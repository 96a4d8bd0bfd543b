// Package store persists document chunks with their embeddings and
// serves brute-force similarity search over them.
package store

import (
	"context"
)

// Chunk is the atomic retrievable unit.
type Chunk struct {
	// Key is the stable unique identifier of the chunk.
	Key string
	// Content is the chunk text.
	Content string
	// Embedding is the chunk's vector representation.
	Embedding []float32
	// DocumentID groups chunks that came from the same upload. Empty
	// for batch-loaded corpus chunks.
	DocumentID string
}

// SearchResult is one scored hit from a similarity search.
type SearchResult struct {
	Key        string  `json:"key"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// VectorStore defines the chunk persistence and search contract.
// A chunk record exists iff its key is in the registry.
type VectorStore interface {
	// Put upserts a chunk record and registers its key. Idempotent on
	// the same key.
	Put(ctx context.Context, chunk *Chunk) error

	// Get returns the chunk stored under key, or ErrChunkNotFound.
	Get(ctx context.Context, key string) (*Chunk, error)

	// Keys returns the full registry snapshot.
	Keys(ctx context.Context) ([]string, error)

	// Delete removes the record and its registry entries. Returns
	// ErrChunkNotFound when the key is absent.
	Delete(ctx context.Context, key string) error

	// Clear removes every registered record and then the registry
	// itself, in that order.
	Clear(ctx context.Context) error

	// Count returns the registry cardinality.
	Count(ctx context.Context) (int64, error)

	// Search scores every stored chunk against embedding by cosine
	// similarity and returns up to topK results with similarity >=
	// minSimilarity, descending. Ties order lexicographically by key.
	Search(ctx context.Context, embedding []float32, topK int, minSimilarity float64) ([]*SearchResult, error)
}
