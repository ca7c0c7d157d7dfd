package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByHandle struct {
	Handle string
}

func (s ByHandle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("handle = ?", s.Handle)
}

// ByDirectoryID filters documents by directory; nil selects unfiled ones.
type ByDirectoryID struct {
	DirectoryID *uuid.UUID
}

func (s ByDirectoryID) Apply(db *gorm.DB) *gorm.DB {
	if s.DirectoryID == nil {
		return db.Where("directory_id IS NULL")
	}
	return db.Where("directory_id = ?", s.DirectoryID)
}

type ByDirectoryIDs struct {
	DirectoryIDs []uuid.UUID
}

func (s ByDirectoryIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("directory_id IN ?", s.DirectoryIDs)
}

type Published struct{}

func (s Published) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("published = ?", true)
}

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}
