package implementation

import (
	"context"
	"errors"

	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/mapper"
	"mathdoc-be/internal/model"
	"mathdoc-be/internal/repository/contract"
	"mathdoc-be/internal/repository/scope"
	"mathdoc-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RevisionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RevisionMapper
}

func NewRevisionRepository(db *gorm.DB) contract.RevisionRepository {
	return &RevisionRepositoryImpl{
		db:     db,
		mapper: mapper.NewRevisionMapper(),
	}
}

func (r *RevisionRepositoryImpl) Create(ctx context.Context, revision *entity.Revision) error {
	m := r.mapper.ToModel(revision)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*revision = *r.mapper.ToEntity(m)
	return nil
}

func (r *RevisionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Revision, error) {
	var m model.Revision
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RevisionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Revision, error) {
	var models []*model.Revision
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RevisionRepositoryImpl) FindLatest(ctx context.Context, documentId uuid.UUID) (*entity.Revision, error) {
	var m model.Revision
	err := r.db.WithContext(ctx).
		Scopes(scope.OrderByCreatedDesc).
		Where("document_id = ?", documentId).
		Limit(1).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RevisionRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.Revision{}).Error
}

func (r *RevisionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Revision{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
