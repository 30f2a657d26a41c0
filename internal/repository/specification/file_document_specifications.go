package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByPath struct {
	Path string
}

func (s ByPath) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("path = ?", s.Path)
}

type ByExtension struct {
	Extension string
}

func (s ByExtension) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("extension = ?", s.Extension)
}

type PathContains struct {
	Fragment string
}

func (s PathContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("path ILIKE ?", "%"+s.Fragment+"%")
}

type FileNameContains struct {
	Fragment string
}

func (s FileNameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("file_name ILIKE ?", "%"+s.Fragment+"%")
}

type IndexedSince struct {
	Since time.Time
}

func (s IndexedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("indexed_at >= ?", s.Since)
}

// DocumentSearchQuery matches free text against file name, path or preview.
// Used by the literal search branch where vector search is bypassed.
type DocumentSearchQuery struct {
	Query string
}

func (s DocumentSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("file_name ILIKE ? OR path ILIKE ? OR preview ILIKE ?", pattern, pattern, pattern)
}
