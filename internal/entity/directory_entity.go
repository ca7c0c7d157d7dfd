package entity

import (
	"time"

	"github.com/google/uuid"
)

type Directory struct {
	Id        uuid.UUID
	Name      string
	ParentId  *uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
