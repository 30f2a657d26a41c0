package search

import "context"

// Result is a single hit returned by the vector index.
type Result struct {
	Path    string  `json:"path"`
	Preview string  `json:"preview"`
	Score   float64 `json:"score"` // cosine similarity, higher is closer
}

// Searcher is the retrieval boundary of the engine. Implementations run one
// query phrasing against the index and return up to topK hits, best first.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Result, error)
}
