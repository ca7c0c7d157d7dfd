package mapper

import (
	"time"

	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:             d.Id,
		Handle:         d.Handle,
		Name:           d.Name,
		AuthorName:     d.AuthorName,
		DirectoryId:    d.DirectoryId,
		Published:      d.Published,
		HeadRevisionId: d.HeadRevisionId,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      timePtr(d.UpdatedAt),
		DeletedAt:      deletedAtPtr(d.DeletedAt),
		IsDeleted:      d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Document{
		Id:             d.Id,
		Handle:         d.Handle,
		Name:           d.Name,
		AuthorName:     d.AuthorName,
		DirectoryId:    d.DirectoryId,
		Published:      d.Published,
		HeadRevisionId: d.HeadRevisionId,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      toDeletedAt(d.DeletedAt, d.IsDeleted),
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
