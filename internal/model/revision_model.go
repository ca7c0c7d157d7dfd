package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Revision struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID      `gorm:"type:uuid;not null;index:idx_revisions_document_created,priority:1"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null"`
	AuthorName string         `gorm:"type:varchar(255)"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index:idx_revisions_document_created,priority:2"`
}

func (Revision) TableName() string {
	return "revisions"
}
