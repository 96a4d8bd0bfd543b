package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/pkg/textutil"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/errors"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/utils/json"
)

// Redis key layout.
const (
	// registryKey is the set of all stored chunk keys.
	registryKey = "documents"

	fieldContent    = "content"
	fieldEmbedding  = "embedding"
	fieldDocumentID = "document_id"
)

// documentChunksKey is the per-document set of chunk keys.
func documentChunksKey(documentID string) string {
	return fmt.Sprintf("doc:%s:chunks", documentID)
}

// RedisStore is the Redis-backed VectorStore. Chunks are hashes keyed
// by chunk key with the embedding serialized as a JSON float array.
type RedisStore struct {
	client *goredis.Client
}

var _ VectorStore = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore on an established client.
func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put upserts the chunk record and its registry membership in one
// transaction, so a cancelled call leaves either a fully written chunk
// or nothing.
func (s *RedisStore) Put(ctx context.Context, chunk *Chunk) error {
	if chunk == nil || chunk.Key == "" {
		return errors.ErrInvalidParam.WithMessage("chunk key must not be empty")
	}

	embedding, err := json.Marshal(chunk.Embedding)
	if err != nil {
		return errors.ErrInternal.WithCause(err)
	}

	fields := map[string]interface{}{
		fieldContent:   chunk.Content,
		fieldEmbedding: string(embedding),
	}
	if chunk.DocumentID != "" {
		fields[fieldDocumentID] = chunk.DocumentID
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, chunk.Key, fields)
	pipe.SAdd(ctx, registryKey, chunk.Key)
	if chunk.DocumentID != "" {
		pipe.SAdd(ctx, documentChunksKey(chunk.DocumentID), chunk.Key)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.ErrStoreUnavailable.WithCause(err)
	}
	return nil
}

// Get returns the chunk stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) (*Chunk, error) {
	data, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, errors.ErrStoreUnavailable.WithCause(err)
	}
	if len(data) == 0 {
		return nil, errors.ErrChunkNotFound
	}

	chunk := &Chunk{
		Key:        key,
		Content:    data[fieldContent],
		DocumentID: data[fieldDocumentID],
	}
	if raw, ok := data[fieldEmbedding]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &chunk.Embedding); err != nil {
			return nil, errors.ErrInternal.WithCause(err)
		}
	}
	return chunk, nil
}

// Keys returns the registry snapshot.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.SMembers(ctx, registryKey).Result()
	if err != nil {
		return nil, errors.ErrStoreUnavailable.WithCause(err)
	}
	return keys, nil
}

// Delete removes the chunk record, its registry entry, and its
// per-document set membership.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	docID, err := s.client.HGet(ctx, key, fieldDocumentID).Result()
	if err != nil && err != goredis.Nil {
		return errors.ErrStoreUnavailable.WithCause(err)
	}

	exists, err := s.client.SIsMember(ctx, registryKey, key).Result()
	if err != nil {
		return errors.ErrStoreUnavailable.WithCause(err)
	}
	if !exists {
		return errors.ErrChunkNotFound
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, registryKey, key)
	if docID != "" {
		pipe.SRem(ctx, documentChunksKey(docID), key)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.ErrStoreUnavailable.WithCause(err)
	}
	return nil
}

// Clear removes every registered record and only then empties the
// registry, so a concurrent search sees either the pre-clear state or
// the empty post-clear state.
func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}

	docSets := make(map[string]struct{})
	for _, key := range keys {
		docID, err := s.client.HGet(ctx, key, fieldDocumentID).Result()
		if err != nil && err != goredis.Nil {
			return errors.ErrStoreUnavailable.WithCause(err)
		}
		if docID != "" {
			docSets[documentChunksKey(docID)] = struct{}{}
		}
	}

	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return errors.ErrStoreUnavailable.WithCause(err)
		}
	}

	for set := range docSets {
		if err := s.client.Del(ctx, set).Err(); err != nil {
			return errors.ErrStoreUnavailable.WithCause(err)
		}
	}

	// Registry goes last.
	if err := s.client.Del(ctx, registryKey).Err(); err != nil {
		return errors.ErrStoreUnavailable.WithCause(err)
	}

	logger.Infow("cleared vector store", "chunks_removed", len(keys))
	return nil
}

// Count returns the registry cardinality.
func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	count, err := s.client.SCard(ctx, registryKey).Result()
	if err != nil {
		return 0, errors.ErrStoreUnavailable.WithCause(err)
	}
	return count, nil
}

// Search performs a brute-force cosine scan over every registered
// chunk. Corrupt or missing records are logged and skipped; an empty
// registry yields an empty result. Cost is O(N*D) per query.
func (s *RedisStore) Search(ctx context.Context, embedding []float32, topK int, minSimilarity float64) ([]*SearchResult, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*SearchResult{}, nil
	}

	// Fetch all records in one round-trip.
	pipe := s.client.Pipeline()
	cmds := make([]*goredis.MapStringStringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.HGetAll(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.ErrStoreUnavailable.WithCause(err)
	}

	results := make([]*SearchResult, 0, len(keys))
	for i, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil || len(data) == 0 {
			logger.Warnw("skipping unreadable chunk during search", "key", keys[i])
			continue
		}

		raw, ok := data[fieldEmbedding]
		if !ok || raw == "" {
			logger.Warnw("skipping chunk without embedding", "key", keys[i])
			continue
		}

		var stored []float32
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			logger.Warnw("skipping chunk with corrupt embedding", "key", keys[i], "error", err.Error())
			continue
		}

		similarity := textutil.CosineSimilarity(embedding, stored)
		if similarity >= minSimilarity {
			results = append(results, &SearchResult{
				Key:        keys[i],
				Content:    data[fieldContent],
				Similarity: similarity,
			})
		}
	}

	// Descending by similarity; equal scores order lexicographically by key.
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
