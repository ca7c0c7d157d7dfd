package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id             uuid.UUID
	Handle         string
	Name           string
	AuthorName     string
	DirectoryId    *uuid.UUID
	Published      bool
	HeadRevisionId *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

// PublishedAt is the date shown on exported pages.
func (d *Document) PublishedAt() time.Time {
	if d.UpdatedAt != nil {
		return *d.UpdatedAt
	}
	return d.CreatedAt
}
