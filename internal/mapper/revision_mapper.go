package mapper

import (
	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/model"

	"gorm.io/datatypes"
)

type RevisionMapper struct{}

func NewRevisionMapper() *RevisionMapper {
	return &RevisionMapper{}
}

func (m *RevisionMapper) ToEntity(r *model.Revision) *entity.Revision {
	if r == nil {
		return nil
	}
	return &entity.Revision{
		Id:         r.Id,
		DocumentId: r.DocumentId,
		Data:       []byte(r.Data),
		AuthorName: r.AuthorName,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *RevisionMapper) ToModel(r *entity.Revision) *model.Revision {
	if r == nil {
		return nil
	}
	return &model.Revision{
		Id:         r.Id,
		DocumentId: r.DocumentId,
		Data:       datatypes.JSON(r.Data),
		AuthorName: r.AuthorName,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *RevisionMapper) ToEntities(revs []*model.Revision) []*entity.Revision {
	entities := make([]*entity.Revision, len(revs))
	for i, r := range revs {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
