// Package biz provides the retrieval orchestrator: corpus loading,
// document upload, similarity retrieval, and answer generation.
package biz

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/kart-io/logger"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/assistant/store"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/pkg/textutil"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/llm"
	retrievaloptions "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/options/retrieval"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/errors"
)

// previewLength is the number of characters returned in document
// previews by ListDocuments.
const previewLength = 200

// CallOptions carries per-call overrides. The zero value means
// "use the configured defaults".
type CallOptions struct {
	// TopK overrides the configured result limit when positive.
	TopK int

	// MinSimilarity overrides the configured similarity threshold
	// when non-nil (zero is a valid threshold).
	MinSimilarity *float64

	// APIKey overrides the embedding provider credential for this call
	// without touching shared state.
	APIKey string
}

// DocumentPreview is a stored chunk with truncated content, as returned
// by ListDocuments.
type DocumentPreview struct {
	Key            string `json:"key"`
	ContentPreview string `json:"content_preview"`
	DocumentID     string `json:"document_id,omitempty"`
}

// UploadResult reports the outcome of a document upload.
type UploadResult struct {
	DocumentID    string `json:"document_id"`
	ChunksCreated int    `json:"chunks_created"`
}

// Service is the retrieval orchestrator contract.
type Service interface {
	// LoadCorpus chunks, embeds, and stores the notes file at path.
	// Returns the number of chunks stored.
	LoadCorpus(ctx context.Context, path string, clearExisting bool, opts *CallOptions) (int, error)

	// UploadDocument chunks, embeds, and stores content under
	// documentID, generating an id when absent.
	UploadDocument(ctx context.Context, content, documentID string, opts *CallOptions) (*UploadResult, error)

	// Retrieve embeds query and returns the ranked similar chunks.
	// An empty result is a valid answer, not an error.
	Retrieve(ctx context.Context, query string, opts *CallOptions) ([]*store.SearchResult, error)

	// Ask runs the full retrieval-augmented chain for question.
	Ask(ctx context.Context, question string, opts *CallOptions) (*Answer, error)

	// ListDocuments returns up to limit stored chunks with content
	// previews.
	ListDocuments(ctx context.Context, limit int) ([]*DocumentPreview, error)

	// DeleteChunk removes a single chunk by key.
	DeleteChunk(ctx context.Context, key string) error

	// ClearAll removes every stored chunk.
	ClearAll(ctx context.Context) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int64, error)
}

// retrievalService composes the vector store and the LLM providers.
type retrievalService struct {
	store     store.VectorStore
	embedder  llm.EmbeddingProvider
	generator *Generator
	opts      *retrievaloptions.Options
}

var _ Service = (*retrievalService)(nil)

// NewService creates the retrieval service.
func NewService(
	vectorStore store.VectorStore,
	embedder llm.EmbeddingProvider,
	chatProvider llm.ChatProvider,
	opts *retrievaloptions.Options,
) Service {
	if opts == nil {
		opts = retrievaloptions.NewOptions()
	}
	return &retrievalService{
		store:     vectorStore,
		embedder:  embedder,
		generator: NewGenerator(chatProvider, opts.SystemPrompt),
		opts:      opts,
	}
}

// embedderFor resolves the embedding provider for a call, applying the
// per-call credential override when the provider supports it.
func (s *retrievalService) embedderFor(opts *CallOptions) llm.EmbeddingProvider {
	if opts == nil || opts.APIKey == "" {
		return s.embedder
	}
	if overrider, ok := s.embedder.(llm.CredentialOverrider); ok {
		return overrider.WithCredential(opts.APIKey)
	}
	logger.Warnw("embedding provider does not support credential override, using default",
		"provider", s.embedder.Name())
	return s.embedder
}

func (s *retrievalService) topK(opts *CallOptions) int {
	if opts != nil && opts.TopK > 0 {
		return opts.TopK
	}
	return s.opts.TopK
}

func (s *retrievalService) minSimilarity(opts *CallOptions) float64 {
	if opts != nil && opts.MinSimilarity != nil {
		return *opts.MinSimilarity
	}
	return s.opts.MinSimilarity
}

// LoadCorpus reads the notes file, chunks it, and stores one embedded
// chunk per window under doc:<index>. A chunk that fails to embed or
// store is logged and skipped; the call fails only when nothing could
// be stored.
func (s *retrievalService) LoadCorpus(ctx context.Context, path string, clearExisting bool, opts *CallOptions) (int, error) {
	if path == "" {
		path = s.opts.CorpusPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.ErrCorpusNotFound.WithCause(err)
		}
		return 0, errors.ErrCorpusLoad.WithCause(err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return 0, errors.ErrEmptyCorpus
	}

	if clearExisting {
		logger.Infow("clearing existing chunks before corpus load")
		if err := s.store.Clear(ctx); err != nil {
			return 0, err
		}
	}

	chunks := textutil.SplitIntoChunks(string(content), s.opts.ChunkSize, s.opts.ChunkOverlap)
	logger.Infow("loaded corpus file", "path", path, "chunks", len(chunks))

	embedder := s.embedderFor(opts)
	stored := 0
	for idx, chunk := range chunks {
		embedding, err := embedder.EmbedSingle(ctx, chunk)
		if err != nil {
			logger.Errorw("failed to embed corpus chunk, skipping",
				"index", idx, "error", err.Error())
			continue
		}

		key := fmt.Sprintf("doc:%d", idx)
		if err := s.store.Put(ctx, &store.Chunk{
			Key:       key,
			Content:   chunk,
			Embedding: embedding,
		}); err != nil {
			logger.Errorw("failed to store corpus chunk, skipping",
				"key", key, "error", err.Error())
			continue
		}
		stored++
	}

	if stored == 0 {
		return 0, errors.ErrCorpusLoad
	}

	logger.Infow("corpus load complete", "stored", stored, "total", len(chunks))
	return stored, nil
}

// UploadDocument stores content as embedded chunks keyed
// <documentID>:chunk:<index>, registering each chunk in the global
// registry and the per-document set.
func (s *retrievalService) UploadDocument(ctx context.Context, content, documentID string, opts *CallOptions) (*UploadResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.ErrEmptyDocument
	}

	if documentID == "" {
		count, err := s.store.Count(ctx)
		if err != nil {
			return nil, err
		}
		documentID = fmt.Sprintf("doc:%d", count)
	}

	chunks := textutil.SplitIntoChunks(content, s.opts.ChunkSize, s.opts.ChunkOverlap)
	logger.Infow("uploading document", "document_id", documentID, "chunks", len(chunks))

	embedder := s.embedderFor(opts)
	stored := 0
	for idx, chunk := range chunks {
		embedding, err := embedder.EmbedSingle(ctx, chunk)
		if err != nil {
			logger.Errorw("failed to embed uploaded chunk, skipping",
				"document_id", documentID, "index", idx, "error", err.Error())
			continue
		}

		key := fmt.Sprintf("%s:chunk:%d", documentID, idx)
		if err := s.store.Put(ctx, &store.Chunk{
			Key:        key,
			Content:    chunk,
			Embedding:  embedding,
			DocumentID: documentID,
		}); err != nil {
			logger.Errorw("failed to store uploaded chunk, skipping",
				"key", key, "error", err.Error())
			continue
		}
		stored++
	}

	if stored == 0 {
		return nil, errors.ErrCorpusLoad.WithMessage("failed to store any chunk of the uploaded document")
	}

	return &UploadResult{DocumentID: documentID, ChunksCreated: stored}, nil
}

// Retrieve embeds the query once and delegates to the store's
// similarity search.
func (s *retrievalService) Retrieve(ctx context.Context, query string, opts *CallOptions) ([]*store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.ErrEmptyQuery
	}

	embedding, err := s.embedderFor(opts).EmbedSingle(ctx, query)
	if err != nil {
		return nil, errors.ErrEmbedding.WithCause(err)
	}

	return s.store.Search(ctx, embedding, s.topK(opts), s.minSimilarity(opts))
}

// Ask retrieves the most similar chunks and generates an answer from
// them. No retrieved chunks short-circuits to a fixed answer without
// calling the LLM.
func (s *retrievalService) Ask(ctx context.Context, question string, opts *CallOptions) (*Answer, error) {
	results, err := s.Retrieve(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	return s.generator.Generate(ctx, question, results)
}

// ListDocuments returns up to limit stored chunks with their content
// truncated to a preview.
func (s *retrievalService) ListDocuments(ctx context.Context, limit int) ([]*DocumentPreview, error) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	// Registry order is unspecified, sort for a stable listing.
	sort.Strings(keys)

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	previews := make([]*DocumentPreview, 0, len(keys))
	for _, key := range keys {
		chunk, err := s.store.Get(ctx, key)
		if err != nil {
			logger.Warnw("skipping unreadable chunk in listing", "key", key)
			continue
		}
		previews = append(previews, &DocumentPreview{
			Key:            chunk.Key,
			ContentPreview: textutil.TruncateString(chunk.Content, previewLength),
			DocumentID:     chunk.DocumentID,
		})
	}
	return previews, nil
}

// DeleteChunk removes a single chunk by key.
func (s *retrievalService) DeleteChunk(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

// ClearAll removes every stored chunk.
func (s *retrievalService) ClearAll(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Count returns the number of stored chunks.
func (s *retrievalService) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
