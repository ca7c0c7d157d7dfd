package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Handle      string          `json:"handle" validate:"omitempty,max=200"`
	AuthorName  string          `json:"author_name" validate:"max=255"`
	DirectoryId *uuid.UUID      `json:"directory_id"`
	Published   bool            `json:"published"`
	Data        json.RawMessage `json:"data"`
}

type CreateDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Handle string    `json:"handle"`
}

type ShowDocumentResponse struct {
	Id             uuid.UUID        `json:"id"`
	Handle         string           `json:"handle"`
	Name           string           `json:"name"`
	AuthorName     string           `json:"author_name"`
	DirectoryId    *uuid.UUID       `json:"directory_id"`
	Published      bool             `json:"published"`
	HeadRevisionId *uuid.UUID       `json:"head_revision_id"`
	Data           json.RawMessage  `json:"data"`
	Breadcrumb     []BreadcrumbItem `json:"breadcrumb"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      *time.Time       `json:"updated_at"`
}

type ListDocumentsRequest struct {
	DirectoryId   *uuid.UUID `query:"directory_id"`
	PublishedOnly bool       `query:"published"`
	Limit         int        `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset        int        `query:"offset" validate:"omitempty,min=0"`
}

type DocumentListItem struct {
	Id          uuid.UUID  `json:"id"`
	Handle      string     `json:"handle"`
	Name        string     `json:"name"`
	AuthorName  string     `json:"author_name"`
	DirectoryId *uuid.UUID `json:"directory_id"`
	Published   bool       `json:"published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// UpdateDocumentRequest changes only the fields that are present.
type UpdateDocumentRequest struct {
	Id         uuid.UUID
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	Handle     *string `json:"handle" validate:"omitempty,min=1,max=200"`
	AuthorName *string `json:"author_name" validate:"omitempty,max=255"`
	Published  *bool   `json:"published"`
}

type UpdateDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Handle string    `json:"handle"`
}

type MoveDocumentRequest struct {
	Id          uuid.UUID
	DirectoryId *uuid.UUID `json:"directory_id"`
}

type MoveDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type SaveRevisionRequest struct {
	DocumentId uuid.UUID
	Data       json.RawMessage `json:"data" validate:"required"`
	AuthorName string          `json:"author_name" validate:"max=255"`
}

type SaveRevisionResponse struct {
	DocumentId uuid.UUID `json:"document_id"`
	RevisionId uuid.UUID `json:"revision_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type RenderDocumentResponse struct {
	Id       uuid.UUID `json:"id"`
	Handle   string    `json:"handle"`
	Html     string    `json:"html,omitempty"`
	Markdown string    `json:"markdown,omitempty"`
}

const (
	PreviewFormatHTML     = "html"
	PreviewFormatPage     = "page"
	PreviewFormatMarkdown = "markdown"
)

type PreviewRequest struct {
	Data   json.RawMessage `json:"data" validate:"required"`
	Format string          `json:"format" validate:"omitempty,oneof=html page markdown"`
	Title  string          `json:"title" validate:"max=255"`
}

type PreviewResponse struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}
