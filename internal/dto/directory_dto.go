package dto

import (
	"time"

	"github.com/google/uuid"
)

// BreadcrumbItem is one directory in the ancestry path, root first.
type BreadcrumbItem struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CreateDirectoryRequest struct {
	Name     string     `json:"name" validate:"required,max=255"`
	ParentId *uuid.UUID `json:"parent_id"`
}

type CreateDirectoryResponse struct {
	Id uuid.UUID `json:"id"`
}

type DirectoryDocumentItem struct {
	Id        uuid.UUID  `json:"id"`
	Handle    string     `json:"handle"`
	Name      string     `json:"name"`
	Published bool       `json:"published"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetAllDirectoryResponse struct {
	Id        uuid.UUID                `json:"id"`
	Name      string                   `json:"name"`
	ParentId  *uuid.UUID               `json:"parent_id"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt *time.Time               `json:"updated_at"`
	Documents []*DirectoryDocumentItem `json:"documents"`
}

// DirectoryTreeResponse lists every directory with its documents plus the
// documents that are not filed anywhere.
type DirectoryTreeResponse struct {
	Directories []*GetAllDirectoryResponse `json:"directories"`
	Unfiled     []*DirectoryDocumentItem   `json:"unfiled"`
}

type ShowDirectoryResponse struct {
	Id         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	ParentId   *uuid.UUID       `json:"parent_id"`
	Breadcrumb []BreadcrumbItem `json:"breadcrumb"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  *time.Time       `json:"updated_at"`
}

type UpdateDirectoryRequest struct {
	Id   uuid.UUID
	Name string `json:"name" validate:"required,max=255"`
}

type UpdateDirectoryResponse struct {
	Id uuid.UUID `json:"id"`
}

type MoveDirectoryRequest struct {
	Id       uuid.UUID
	ParentId *uuid.UUID `json:"parent_id"`
}

type MoveDirectoryResponse struct {
	Id uuid.UUID `json:"id"`
}
