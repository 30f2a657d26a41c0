package entity

import (
	"time"

	"github.com/google/uuid"
)

type FileDocument struct {
	Id         uuid.UUID
	Path       string
	FileName   string
	Extension  string
	Preview    string
	Content    string
	Embedding  []float32
	Metadata   map[string]any
	SizeBytes  int64
	ModifiedAt time.Time
	IndexedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
