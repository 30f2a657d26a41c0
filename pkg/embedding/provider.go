package embedding

import "context"

// Task types understood by nomic-style embedding models. Queries and
// documents are embedded with different prefixes so that retrieval is
// asymmetric.
const (
	TaskSearchQuery    = "search_query"
	TaskSearchDocument = "search_document"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
