package implementation

import (
	"context"
	"errors"

	"ai-filesearch-be/internal/entity"
	"ai-filesearch-be/internal/mapper"
	"ai-filesearch-be/internal/model"
	"ai-filesearch-be/internal/repository/contract"
	"ai-filesearch-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FileDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileDocumentMapper
}

func NewFileDocumentRepository(db *gorm.DB) contract.FileDocumentRepository {
	return &FileDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileDocumentMapper(),
	}
}

func (r *FileDocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FileDocumentRepositoryImpl) Create(ctx context.Context, doc *entity.FileDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *FileDocumentRepositoryImpl) CreateBulk(ctx context.Context, docs []*entity.FileDocument) error {
	if len(docs) == 0 {
		return nil
	}
	models := r.mapper.ToModels(docs)
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		*docs[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *FileDocumentRepositoryImpl) Update(ctx context.Context, doc *entity.FileDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

// Upsert replaces the indexed document for a path, so re-indexing a file
// never duplicates it.
func (r *FileDocumentRepositoryImpl) Upsert(ctx context.Context, doc *entity.FileDocument) error {
	m := r.mapper.ToModel(doc)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *FileDocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.FileDocument{}, id).Error
}

func (r *FileDocumentRepositoryImpl) DeleteByPath(ctx context.Context, path string) error {
	return r.db.WithContext(ctx).Where("path = ?", path).Delete(&model.FileDocument{}).Error
}

func (r *FileDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileDocument, error) {
	var m model.FileDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FileDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileDocument, error) {
	var models []*model.FileDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FileDocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.FileDocument{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchSimilarWithScore returns documents with similarity scores, filtered by threshold
func (r *FileDocumentRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredFileDocument, error) {
	if limit <= 0 {
		limit = 10
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding <=> query_vector) = cosine_similarity
	type result struct {
		model.FileDocument
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("file_documents").
		Select("file_documents.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("file_documents.deleted_at IS NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredFileDocument, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredFileDocument{
			Document:   r.mapper.ToEntity(&res.FileDocument),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
