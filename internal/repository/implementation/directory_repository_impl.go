package implementation

import (
	"context"
	"errors"

	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/mapper"
	"mathdoc-be/internal/model"
	"mathdoc-be/internal/repository/contract"
	"mathdoc-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DirectoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DirectoryMapper
}

func NewDirectoryRepository(db *gorm.DB) contract.DirectoryRepository {
	return &DirectoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewDirectoryMapper(),
	}
}

func (r *DirectoryRepositoryImpl) Create(ctx context.Context, directory *entity.Directory) error {
	m := r.mapper.ToModel(directory)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*directory = *r.mapper.ToEntity(m)
	return nil
}

// Update saves all fields, zero values included, so a nil parent is written.
func (r *DirectoryRepositoryImpl) Update(ctx context.Context, directory *entity.Directory) error {
	m := r.mapper.ToModel(directory)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*directory = *r.mapper.ToEntity(m)
	return nil
}

func (r *DirectoryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Directory{}, id).Error
}

func (r *DirectoryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Directory, error) {
	var m model.Directory
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DirectoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Directory, error) {
	var models []*model.Directory
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DirectoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Directory{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
