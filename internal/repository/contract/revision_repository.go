package contract

import (
	"context"

	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RevisionRepository interface {
	Create(ctx context.Context, revision *entity.Revision) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Revision, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Revision, error)
	// FindLatest returns the newest revision of a document, or nil.
	FindLatest(ctx context.Context, documentId uuid.UUID) (*entity.Revision, error)
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
