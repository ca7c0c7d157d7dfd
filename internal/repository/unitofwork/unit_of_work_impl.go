package unitofwork

import (
	"context"
	"errors"

	"mathdoc-be/internal/repository/contract"
	"mathdoc-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	ErrTxAlreadyStarted = errors.New("transaction already started")
	ErrNoTransaction    = errors.New("no transaction in progress")
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxAlreadyStarted
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback is a no-op after Commit so it can be deferred unconditionally.
func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) DirectoryRepository() contract.DirectoryRepository {
	return implementation.NewDirectoryRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DocumentRepository() contract.DocumentRepository {
	return implementation.NewDocumentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RevisionRepository() contract.RevisionRepository {
	return implementation.NewRevisionRepository(u.getDB())
}
