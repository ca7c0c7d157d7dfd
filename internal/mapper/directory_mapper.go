package mapper

import (
	"time"

	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/model"

	"gorm.io/gorm"
)

type DirectoryMapper struct{}

func NewDirectoryMapper() *DirectoryMapper {
	return &DirectoryMapper{}
}

func (m *DirectoryMapper) ToEntity(d *model.Directory) *entity.Directory {
	if d == nil {
		return nil
	}

	return &entity.Directory{
		Id:        d.Id,
		Name:      d.Name,
		ParentId:  d.ParentId,
		CreatedAt: d.CreatedAt,
		UpdatedAt: timePtr(d.UpdatedAt),
		DeletedAt: deletedAtPtr(d.DeletedAt),
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *DirectoryMapper) ToModel(d *entity.Directory) *model.Directory {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Directory{
		Id:        d.Id,
		Name:      d.Name,
		ParentId:  d.ParentId,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: toDeletedAt(d.DeletedAt, d.IsDeleted),
	}
}

func (m *DirectoryMapper) ToEntities(dirs []*model.Directory) []*entity.Directory {
	entities := make([]*entity.Directory, len(dirs))
	for i, d := range dirs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deletedAtPtr(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func toDeletedAt(t *time.Time, isDeleted bool) gorm.DeletedAt {
	if t != nil {
		return gorm.DeletedAt{Time: *t, Valid: true}
	}
	if isDeleted {
		return gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return gorm.DeletedAt{}
}
