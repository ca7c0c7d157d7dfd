package contract

import (
	"context"

	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DirectoryRepository interface {
	Create(ctx context.Context, directory *entity.Directory) error
	Update(ctx context.Context, directory *entity.Directory) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Directory, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Directory, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
