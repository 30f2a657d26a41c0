package mapper

import (
	"encoding/json"
	"time"

	"ai-filesearch-be/internal/entity"
	"ai-filesearch-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FileDocumentMapper struct{}

func NewFileDocumentMapper() *FileDocumentMapper {
	return &FileDocumentMapper{}
}

func (m *FileDocumentMapper) ToEntity(e *model.FileDocument) *entity.FileDocument {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	var metadata map[string]any
	if len(e.Metadata) > 0 {
		_ = json.Unmarshal(e.Metadata, &metadata)
	}

	return &entity.FileDocument{
		Id:         e.Id,
		Path:       e.Path,
		FileName:   e.FileName,
		Extension:  e.Extension,
		Preview:    e.Preview,
		Content:    e.Content,
		Embedding:  e.Embedding.Slice(),
		Metadata:   metadata,
		SizeBytes:  e.SizeBytes,
		ModifiedAt: e.ModifiedAt,
		IndexedAt:  e.IndexedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  e.DeletedAt.Valid,
	}
}

func (m *FileDocumentMapper) ToModel(e *entity.FileDocument) *model.FileDocument {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var metadata datatypes.JSON
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.FileDocument{
		Id:         e.Id,
		Path:       e.Path,
		FileName:   e.FileName,
		Extension:  e.Extension,
		Preview:    e.Preview,
		Content:    e.Content,
		Embedding:  pgvector.NewVector(e.Embedding),
		Metadata:   metadata,
		SizeBytes:  e.SizeBytes,
		ModifiedAt: e.ModifiedAt,
		IndexedAt:  e.IndexedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *FileDocumentMapper) ToEntities(docs []*model.FileDocument) []*entity.FileDocument {
	entities := make([]*entity.FileDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func (m *FileDocumentMapper) ToModels(docs []*entity.FileDocument) []*model.FileDocument {
	models := make([]*model.FileDocument, len(docs))
	for i, d := range docs {
		models[i] = m.ToModel(d)
	}
	return models
}
