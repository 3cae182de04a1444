// Package chromem implements the Retriever boundary on chromem-go, an
// embedded pure-Go vector database. Embeddings come from an injected
// EmbeddingFunc (typically an OpenAI-compatible HTTP endpoint); a ristretto
// cache in front of it means repeated questions skip the embedding call.
package chromem

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/ristretto"
	chromem "github.com/philippgille/chromem-go"

	"github.com/sahayak-ai/sahayak/retrieval"
)

const collectionName = "documents"

// Config configures the store.
type Config struct {
	// Embedding converts text to vectors. Required.
	Embedding chromem.EmbeddingFunc
	// TopK is the number of snippets returned per search. Default 3.
	TopK int
	// EmbeddingCacheBytes bounds the embedding cache. Default 32 MiB;
	// negative disables the cache.
	EmbeddingCacheBytes int64
}

// Store is a single-collection chromem retriever.
type Store struct {
	col  *chromem.Collection
	topK int
}

// New creates the store and its backing collection.
func New(cfg Config) (*Store, error) {
	if cfg.Embedding == nil {
		return nil, fmt.Errorf("chromem: embedding func is required")
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}

	embed := cfg.Embedding
	if cfg.EmbeddingCacheBytes >= 0 {
		cacheBytes := cfg.EmbeddingCacheBytes
		if cacheBytes == 0 {
			cacheBytes = 32 << 20
		}
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e4,
			MaxCost:     cacheBytes,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("chromem: embedding cache: %w", err)
		}
		embed = cachedEmbedding(cache, cfg.Embedding)
	}

	db := chromem.NewDB()
	col, err := db.CreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("chromem: create collection: %w", err)
	}

	return &Store{col: col, topK: topK}, nil
}

// cachedEmbedding wraps an embedding func with a ristretto cache keyed by the
// exact input text. Ristretto's admission is probabilistic, which is fine
// here: a miss only costs one extra embedding call.
func cachedEmbedding(cache *ristretto.Cache, inner chromem.EmbeddingFunc) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		if v, ok := cache.Get(text); ok {
			if emb, ok := v.([]float32); ok {
				return emb, nil
			}
		}
		emb, err := inner(ctx, text)
		if err != nil {
			return nil, err
		}
		cache.Set(text, emb, int64(len(emb)*4))
		return emb, nil
	}
}

// Add embeds and stores one passage.
func (s *Store) Add(ctx context.Context, id, text string, metadata map[string]string) error {
	err := s.col.AddDocument(ctx, chromem.Document{
		ID:       id,
		Content:  text,
		Metadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("chromem: add document %s: %w", id, err)
	}
	return nil
}

// Search returns the top snippets for the question, best first.
func (s *Store) Search(ctx context.Context, question string) ([]retrieval.Snippet, error) {
	// chromem rejects nResults larger than the collection, so clamp.
	k := s.topK
	if count := s.col.Count(); count < k {
		k = count
	}
	if k == 0 {
		log.Printf("[CHROMEM] collection is empty")
		return nil, nil
	}

	results, err := s.col.Query(ctx, question, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w", err)
	}

	snippets := make([]retrieval.Snippet, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, retrieval.Snippet{
			Text:       r.Content,
			Source:     r.Metadata["source"],
			Similarity: r.Similarity,
		})
	}
	return snippets, nil
}

// IngestDir loads every .txt and .md file under dir, splits it into
// paragraph chunks and adds them to the collection.
func (s *Store) IngestDir(ctx context.Context, dir string) (int, error) {
	added := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}

		for i, chunk := range splitParagraphs(string(data)) {
			id := fmt.Sprintf("%s#%d", rel, i)
			if err := s.Add(ctx, id, chunk, map[string]string{"source": rel}); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return added, err
	}

	log.Printf("[CHROMEM] ingested %d chunks from %s", added, dir)
	return added, nil
}

// splitParagraphs breaks text on blank lines, dropping fragments too short to
// be useful context.
func splitParagraphs(text string) []string {
	var chunks []string
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if len(part) < 20 {
			continue
		}
		chunks = append(chunks, part)
	}
	return chunks
}

// NewOpenAICompatEmbedding builds an embedding func against any
// OpenAI-compatible /embeddings endpoint.
func NewOpenAICompatEmbedding(baseURL, apiKey, model string) chromem.EmbeddingFunc {
	normalized := true
	return chromem.NewEmbeddingFuncOpenAICompat(baseURL, apiKey, model, &normalized)
}
