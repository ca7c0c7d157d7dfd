package service

import (
	"context"
	"time"

	"mathdoc-be/internal/dto"
	"mathdoc-be/internal/entity"
	"mathdoc-be/internal/pkg/serverutils"
	"mathdoc-be/internal/repository/specification"
	"mathdoc-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDirectoryService interface {
	GetAll(ctx context.Context) (*dto.DirectoryTreeResponse, error)
	Create(ctx context.Context, req *dto.CreateDirectoryRequest) (*dto.CreateDirectoryResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowDirectoryResponse, error)
	Update(ctx context.Context, req *dto.UpdateDirectoryRequest) (*dto.UpdateDirectoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, req *dto.MoveDirectoryRequest) (*dto.MoveDirectoryResponse, error)
}

type directoryService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDirectoryService(uowFactory unitofwork.RepositoryFactory) IDirectoryService {
	return &directoryService{uowFactory: uowFactory}
}

func (c *directoryService) GetAll(ctx context.Context) (*dto.DirectoryTreeResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	directories, err := uow.DirectoryRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}
	documents, err := uow.DocumentRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	res := &dto.DirectoryTreeResponse{
		Directories: make([]*dto.GetAllDirectoryResponse, 0, len(directories)),
		Unfiled:     make([]*dto.DirectoryDocumentItem, 0),
	}
	byId := make(map[uuid.UUID]*dto.GetAllDirectoryResponse, len(directories))
	for _, directory := range directories {
		item := &dto.GetAllDirectoryResponse{
			Id:        directory.Id,
			Name:      directory.Name,
			ParentId:  directory.ParentId,
			CreatedAt: directory.CreatedAt,
			UpdatedAt: directory.UpdatedAt,
			Documents: make([]*dto.DirectoryDocumentItem, 0),
		}
		byId[directory.Id] = item
		res.Directories = append(res.Directories, item)
	}

	for _, doc := range documents {
		item := &dto.DirectoryDocumentItem{
			Id:        doc.Id,
			Handle:    doc.Handle,
			Name:      doc.Name,
			Published: doc.Published,
			UpdatedAt: doc.UpdatedAt,
		}
		if doc.DirectoryId != nil {
			if parent, ok := byId[*doc.DirectoryId]; ok {
				parent.Documents = append(parent.Documents, item)
				continue
			}
		}
		res.Unfiled = append(res.Unfiled, item)
	}

	return res, nil
}

func (c *directoryService) Create(ctx context.Context, req *dto.CreateDirectoryRequest) (*dto.CreateDirectoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if req.ParentId != nil {
		if err := requireDirectory(ctx, uow, *req.ParentId); err != nil {
			return nil, err
		}
	}

	directory := entity.Directory{
		Id:        uuid.New(),
		Name:      req.Name,
		ParentId:  req.ParentId,
		CreatedAt: time.Now(),
	}
	if err := uow.DirectoryRepository().Create(ctx, &directory); err != nil {
		return nil, err
	}

	return &dto.CreateDirectoryResponse{Id: directory.Id}, nil
}

func (c *directoryService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowDirectoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	directory, err := uow.DirectoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if directory == nil {
		return nil, serverutils.NotFound("directory")
	}

	breadcrumb, err := buildBreadcrumb(ctx, uow, directory.ParentId)
	if err != nil {
		return nil, err
	}

	return &dto.ShowDirectoryResponse{
		Id:         directory.Id,
		Name:       directory.Name,
		ParentId:   directory.ParentId,
		Breadcrumb: breadcrumb,
		CreatedAt:  directory.CreatedAt,
		UpdatedAt:  directory.UpdatedAt,
	}, nil
}

func (c *directoryService) Update(ctx context.Context, req *dto.UpdateDirectoryRequest) (*dto.UpdateDirectoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	directory, err := uow.DirectoryRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if directory == nil {
		return nil, serverutils.NotFound("directory")
	}

	now := time.Now()
	directory.Name = req.Name
	directory.UpdatedAt = &now

	if err := uow.DirectoryRepository().Update(ctx, directory); err != nil {
		return nil, err
	}

	return &dto.UpdateDirectoryResponse{Id: directory.Id}, nil
}

// Delete removes a directory. Its subdirectories move up to its parent and
// its documents become unfiled.
func (c *directoryService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	directory, err := uow.DirectoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if directory == nil {
		return serverutils.NotFound("directory")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	children, err := uow.DirectoryRepository().FindAll(ctx, specification.ByParentID{ParentID: &id})
	if err != nil {
		return err
	}
	for _, child := range children {
		child.ParentId = directory.ParentId
		if err := uow.DirectoryRepository().Update(ctx, child); err != nil {
			return err
		}
	}

	if err := uow.DocumentRepository().DetachFromDirectory(ctx, id); err != nil {
		return err
	}

	if err := uow.DirectoryRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (c *directoryService) Move(ctx context.Context, req *dto.MoveDirectoryRequest) (*dto.MoveDirectoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	directory, err := uow.DirectoryRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if directory == nil {
		return nil, serverutils.NotFound("directory")
	}

	if req.ParentId != nil {
		if *req.ParentId == directory.Id {
			return nil, serverutils.ErrCircularMove
		}
		if err := requireDirectory(ctx, uow, *req.ParentId); err != nil {
			return nil, err
		}
		ancestors, err := buildBreadcrumb(ctx, uow, req.ParentId)
		if err != nil {
			return nil, err
		}
		for _, ancestor := range ancestors {
			if ancestor.Id == directory.Id {
				return nil, serverutils.ErrCircularMove
			}
		}
	}

	now := time.Now()
	directory.ParentId = req.ParentId
	directory.UpdatedAt = &now
	if err := uow.DirectoryRepository().Update(ctx, directory); err != nil {
		return nil, err
	}

	return &dto.MoveDirectoryResponse{Id: directory.Id}, nil
}
