package chromem

import (
	"context"
	"hash/fnv"
	"math"

	chromem "github.com/philippgille/chromem-go"
)

// NewMockEmbedding returns a deterministic offline embedding func for tests
// and mock mode. Identical texts map to identical unit vectors; different
// texts almost always diverge. It carries no semantic signal, so similarity
// rankings are arbitrary but stable.
func NewMockEmbedding(dims int) chromem.EmbeddingFunc {
	if dims <= 0 {
		dims = 64
	}
	return func(ctx context.Context, text string) ([]float32, error) {
		h := fnv.New64a()
		h.Write([]byte(text))
		seed := h.Sum64()

		emb := make([]float32, dims)
		var norm float64
		for i := range emb {
			seed = seed*6364136223846793005 + 1442695040888963407
			v := float64(int64(seed>>11)) / float64(1<<52)
			emb[i] = float32(v)
			norm += v * v
		}

		norm = math.Sqrt(norm)
		if norm == 0 {
			emb[0] = 1
			return emb, nil
		}
		for i := range emb {
			emb[i] = float32(float64(emb[i]) / norm)
		}
		return emb, nil
	}
}
