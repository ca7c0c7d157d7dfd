package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Handle         string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_documents_handle,where:deleted_at IS NULL"`
	Name           string         `gorm:"type:varchar(255);not null"`
	AuthorName     string         `gorm:"type:varchar(255)"`
	DirectoryId    *uuid.UUID     `gorm:"type:uuid;index"`
	Published      bool           `gorm:"not null;default:false;index"`
	HeadRevisionId *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
