package biz

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/assistant/store"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/pkg/textutil"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/llm"
	retrievaloptions "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/options/retrieval"
	apperrors "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/errors"
)

// fakeStore is an in-memory VectorStore.
type fakeStore struct {
	chunks map[string]*store.Chunk
}

func newFakeStore() *fakeStore {
	return &fakeStore{chunks: make(map[string]*store.Chunk)}
}

func (f *fakeStore) Put(_ context.Context, chunk *store.Chunk) error {
	c := *chunk
	f.chunks[chunk.Key] = &c
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (*store.Chunk, error) {
	c, ok := f.chunks[key]
	if !ok {
		return nil, apperrors.ErrChunkNotFound
	}
	return c, nil
}

func (f *fakeStore) Keys(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(f.chunks))
	for k := range f.chunks {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	if _, ok := f.chunks[key]; !ok {
		return apperrors.ErrChunkNotFound
	}
	delete(f.chunks, key)
	return nil
}

func (f *fakeStore) Clear(_ context.Context) error {
	f.chunks = make(map[string]*store.Chunk)
	return nil
}

func (f *fakeStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.chunks)), nil
}

func (f *fakeStore) Search(_ context.Context, embedding []float32, topK int, minSimilarity float64) ([]*store.SearchResult, error) {
	var results []*store.SearchResult
	for key, chunk := range f.chunks {
		similarity := textutil.CosineSimilarity(embedding, chunk.Embedding)
		if similarity >= minSimilarity {
			results = append(results, &store.SearchResult{
				Key: key, Content: chunk.Content, Similarity: similarity,
			})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Key < results[j].Key
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// fakeEmbedder embeds every text to a fixed vector, optionally failing
// on texts containing failOn.
type fakeEmbedder struct {
	vector    []float32
	failOn    string
	lastKey   string
	callCount int
}

func (f *fakeEmbedder) Name() string { return "fake" }

func (f *fakeEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	f.callCount++
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("embedding backend rejected request")
	}
	return f.vector, nil
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.EmbedSingle(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WithCredential records the key and returns a marker embedder.
func (f *fakeEmbedder) WithCredential(apiKey string) llm.EmbeddingProvider {
	f.lastKey = apiKey
	return f
}

type fakeChat struct {
	answer     string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeChat) Name() string { return "fake-chat" }

func (f *fakeChat) Chat(_ context.Context, _ []llm.Message) (string, error) {
	return f.answer, f.err
}

func (f *fakeChat) Generate(_ context.Context, prompt string, _ string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.answer, f.err
}

func newTestService(t *testing.T) (Service, *fakeStore, *fakeEmbedder, *fakeChat) {
	t.Helper()
	fs := newFakeStore()
	emb := &fakeEmbedder{vector: []float32{1, 0}}
	chat := &fakeChat{answer: "The patient was prescribed metformin."}
	opts := retrievaloptions.NewOptions()
	opts.ChunkSize = 50
	opts.ChunkOverlap = 10
	return NewService(fs, emb, chat, opts), fs, emb, chat
}

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clinical_notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCorpus(t *testing.T) {
	svc, fs, _, _ := newTestService(t)

	path := writeCorpus(t, strings.Repeat("patient note content ", 10))
	stored, err := svc.LoadCorpus(context.Background(), path, false, nil)
	require.NoError(t, err)
	assert.Greater(t, stored, 1)
	assert.Len(t, fs.chunks, stored)

	// Corpus chunks use doc:<index> keys.
	_, ok := fs.chunks["doc:0"]
	assert.True(t, ok)
}

func TestLoadCorpusMissingFile(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.LoadCorpus(context.Background(), "/nonexistent/notes.txt", false, nil)
	assert.ErrorIs(t, err, apperrors.ErrCorpusNotFound)
}

func TestLoadCorpusEmptyFile(t *testing.T) {
	svc, fs, _, _ := newTestService(t)

	path := writeCorpus(t, "   \n\t ")
	_, err := svc.LoadCorpus(context.Background(), path, false, nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCorpus)
	assert.Empty(t, fs.chunks)
}

func TestLoadCorpusClearExisting(t *testing.T) {
	svc, fs, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "stale", Content: "old", Embedding: []float32{1, 0}}))

	path := writeCorpus(t, strings.Repeat("fresh content ", 10))
	_, err := svc.LoadCorpus(ctx, path, true, nil)
	require.NoError(t, err)

	_, ok := fs.chunks["stale"]
	assert.False(t, ok)
}

func TestLoadCorpusPartialEmbedFailure(t *testing.T) {
	fs := newFakeStore()
	emb := &fakeEmbedder{vector: []float32{1, 0}, failOn: "POISON"}
	opts := retrievaloptions.NewOptions()
	opts.ChunkSize = 10
	opts.ChunkOverlap = 0
	svc := NewService(fs, emb, &fakeChat{}, opts)

	// Second window fails to embed, the rest still load.
	path := writeCorpus(t, "aaaaaaaaaaPOISONONNNbbbbbbbbbb")
	stored, err := svc.LoadCorpus(context.Background(), path, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)
}

func TestLoadCorpusAllFailures(t *testing.T) {
	fs := newFakeStore()
	emb := &fakeEmbedder{failOn: "note"}
	svc := NewService(fs, emb, &fakeChat{}, retrievaloptions.NewOptions())

	path := writeCorpus(t, "note one note two")
	_, err := svc.LoadCorpus(context.Background(), path, false, nil)
	assert.ErrorIs(t, err, apperrors.ErrCorpusLoad)
}

func TestUploadDocument(t *testing.T) {
	svc, fs, _, _ := newTestService(t)

	result, err := svc.UploadDocument(context.Background(), strings.Repeat("uploaded text ", 10), "d1", nil)
	require.NoError(t, err)
	assert.Equal(t, "d1", result.DocumentID)
	assert.Greater(t, result.ChunksCreated, 1)

	// Chunk keys carry the document id.
	chunk, ok := fs.chunks["d1:chunk:0"]
	require.True(t, ok)
	assert.Equal(t, "d1", chunk.DocumentID)
}

func TestUploadDocumentGeneratedID(t *testing.T) {
	svc, fs, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "doc:0", Content: "x", Embedding: []float32{1, 0}}))
	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "doc:1", Content: "y", Embedding: []float32{1, 0}}))

	result, err := svc.UploadDocument(ctx, "short note", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "doc:2", result.DocumentID)
}

func TestUploadDocumentEmpty(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.UploadDocument(context.Background(), "  \n ", "d1", nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyDocument)
}

func TestRetrieve(t *testing.T) {
	svc, fs, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "doc:0", Content: "close match", Embedding: []float32{1, 0}}))
	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "doc:1", Content: "far", Embedding: []float32{0, 1}}))

	results, err := svc.Retrieve(ctx, "what was prescribed?", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc:0", results[0].Key)
}

func TestRetrieveEmptyQuery(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Retrieve(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyQuery)
}

func TestRetrieveEmbedFailure(t *testing.T) {
	fs := newFakeStore()
	emb := &fakeEmbedder{failOn: "question"}
	svc := NewService(fs, emb, &fakeChat{}, retrievaloptions.NewOptions())

	_, err := svc.Retrieve(context.Background(), "a question", nil)
	assert.ErrorIs(t, err, apperrors.ErrEmbedding)
}

func TestRetrieveNoMatchesIsNotError(t *testing.T) {
	svc, fs, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "doc:0", Content: "x", Embedding: []float32{0, 1}}))

	threshold := 0.99
	results, err := svc.Retrieve(ctx, "nonsense query", &CallOptions{MinSimilarity: &threshold})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveCredentialOverride(t *testing.T) {
	svc, fs, emb, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "doc:0", Content: "x", Embedding: []float32{1, 0}}))

	_, err := svc.Retrieve(ctx, "query", &CallOptions{APIKey: "sk-caller"})
	require.NoError(t, err)
	assert.Equal(t, "sk-caller", emb.lastKey)
}

func TestAsk(t *testing.T) {
	svc, fs, _, chat := newTestService(t)
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, &store.Chunk{
		Key: "doc:0", Content: "Metformin 500mg prescribed.", Embedding: []float32{1, 0},
	}))

	answer, err := svc.Ask(ctx, "What was prescribed?", nil)
	require.NoError(t, err)
	assert.Equal(t, "The patient was prescribed metformin.", answer.Answer)
	assert.Equal(t, "What was prescribed?", answer.Question)
	require.Len(t, answer.Sources, 1)

	// The retrieved content reaches the prompt; the template markers do not.
	assert.Contains(t, chat.lastPrompt, "Metformin 500mg prescribed.")
	assert.Contains(t, chat.lastPrompt, "What was prescribed?")
	assert.NotContains(t, chat.lastPrompt, "{{context}}")
	assert.NotContains(t, chat.lastPrompt, "{{question}}")
}

func TestAskNoRelevantContent(t *testing.T) {
	svc, _, _, chat := newTestService(t)

	answer, err := svc.Ask(context.Background(), "anything?", nil)
	require.NoError(t, err)
	assert.Equal(t, NoRelevantContentAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, chat.calls)
}

func TestAskGenerationFailure(t *testing.T) {
	fs := newFakeStore()
	emb := &fakeEmbedder{vector: []float32{1, 0}}
	chat := &fakeChat{err: errors.New("model overloaded")}
	svc := NewService(fs, emb, chat, retrievaloptions.NewOptions())
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "doc:0", Content: "x", Embedding: []float32{1, 0}}))

	_, err := svc.Ask(ctx, "question", nil)
	assert.ErrorIs(t, err, apperrors.ErrGeneration)
}

func TestListDocuments(t *testing.T) {
	svc, fs, _, _ := newTestService(t)
	ctx := context.Background()

	long := strings.Repeat("x", 300)
	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "doc:0", Content: long, Embedding: []float32{1, 0}}))
	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "doc:1", Content: "short", Embedding: []float32{1, 0}}))

	previews, err := svc.ListDocuments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, previews, 2)
	assert.Equal(t, "doc:0", previews[0].Key)
	assert.Len(t, previews[0].ContentPreview, 200)
	assert.Equal(t, "short", previews[1].ContentPreview)
}

func TestListDocumentsLimit(t *testing.T) {
	svc, fs, _, _ := newTestService(t)
	ctx := context.Background()

	for _, key := range []string{"doc:0", "doc:1", "doc:2"} {
		require.NoError(t, fs.Put(ctx, &store.Chunk{Key: key, Content: "c", Embedding: []float32{1, 0}}))
	}

	previews, err := svc.ListDocuments(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, previews, 2)
}

func TestDeleteClearCount(t *testing.T) {
	svc, fs, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, &store.Chunk{Key: "doc:0", Content: "c", Embedding: []float32{1, 0}}))

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.DeleteChunk(ctx, "doc:0"))
	assert.ErrorIs(t, svc.DeleteChunk(ctx, "doc:0"), apperrors.ErrChunkNotFound)

	require.NoError(t, svc.ClearAll(ctx))
	count, err = svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
