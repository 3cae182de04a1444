// Package websearch is the fallback context source used when retrieval comes
// back empty or irrelevant.
package websearch

import "context"

// NoResultText is returned instead of an empty string when a search finds
// nothing useful, so callers always get printable fallback context.
const NoResultText = "No good search result was found"

// Client performs one web search and returns an aggregated text block.
type Client interface {
	Search(ctx context.Context, query string) (string, error)
}

// Func adapts a plain function to Client.
type Func func(ctx context.Context, query string) (string, error)

func (f Func) Search(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}
