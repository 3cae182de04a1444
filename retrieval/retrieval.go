// Package retrieval defines the retrieval collaborator boundary: the pipeline
// only sees Search; ranking and embeddings belong to the backend.
package retrieval

import "context"

// Snippet is one retrieved context passage.
type Snippet struct {
	// Text is the passage content.
	Text string
	// Source identifies the origin document, when the backend knows it.
	Source string
	// Similarity is the backend's relevance score, higher is closer.
	Similarity float32
}

// Retriever answers a question with relevance-ranked snippets. The ordering
// is whatever the backend produced; the pipeline preserves it.
type Retriever interface {
	Search(ctx context.Context, question string) ([]Snippet, error)
}
