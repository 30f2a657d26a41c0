package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FileDocument struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Path       string          `gorm:"type:text;not null;uniqueIndex"`
	FileName   string          `gorm:"type:text;not null;index"`
	Extension  string          `gorm:"type:varchar(16);index"`
	Preview    string          `gorm:"type:text"`
	Content    string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	Metadata   datatypes.JSON  `gorm:"type:jsonb"`
	SizeBytes  int64           `gorm:"default:0"`
	ModifiedAt time.Time
	IndexedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (FileDocument) TableName() string {
	return "file_documents"
}
