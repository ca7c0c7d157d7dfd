package unitofwork

import (
	"context"

	"mathdoc-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DirectoryRepository() contract.DirectoryRepository
	DocumentRepository() contract.DocumentRepository
	RevisionRepository() contract.RevisionRepository
}
