package service

import (
	"context"

	"mathdoc-be/internal/dto"
	"mathdoc-be/internal/repository/specification"
	"mathdoc-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// buildBreadcrumb walks the parent chain from directoryId up to the top
// level and returns it root first. A nil id yields an empty path.
func buildBreadcrumb(ctx context.Context, uow unitofwork.UnitOfWork, directoryId *uuid.UUID) ([]dto.BreadcrumbItem, error) {
	breadcrumb := make([]dto.BreadcrumbItem, 0)
	seen := make(map[uuid.UUID]bool)
	currentId := directoryId

	for currentId != nil && !seen[*currentId] {
		seen[*currentId] = true

		directory, err := uow.DirectoryRepository().FindOne(ctx, specification.ByID{ID: *currentId})
		if err != nil {
			return nil, err
		}
		if directory == nil {
			break // orphaned reference
		}

		breadcrumb = append([]dto.BreadcrumbItem{{
			Id:   directory.Id,
			Name: directory.Name,
		}}, breadcrumb...)

		currentId = directory.ParentId
	}

	return breadcrumb, nil
}
