package contract

import (
	"context"

	"ai-filesearch-be/internal/entity"
	"ai-filesearch-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredFileDocument wraps FileDocument with its similarity score
type ScoredFileDocument struct {
	Document   *entity.FileDocument
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type FileDocumentRepository interface {
	Create(ctx context.Context, doc *entity.FileDocument) error
	CreateBulk(ctx context.Context, docs []*entity.FileDocument) error
	Update(ctx context.Context, doc *entity.FileDocument) error
	// Upsert creates or replaces the document keyed by its path.
	Upsert(ctx context.Context, doc *entity.FileDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPath(ctx context.Context, path string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns documents with their cosine similarity
	// to the query embedding, best first, filtered by threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredFileDocument, error)
}
