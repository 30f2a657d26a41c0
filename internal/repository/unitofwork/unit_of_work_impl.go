package unitofwork

import (
	"context"
	"errors"

	"ai-filesearch-be/internal/repository/contract"
	"ai-filesearch-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	errTxOpen = errors.New("unit of work: transaction already open")
	errNoTx   = errors.New("unit of work: no open transaction")
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // non-nil while a transaction is open
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{db: db}
}

// conn returns the open transaction when there is one, the shared pool
// otherwise. Repositories built from this unit join its transaction
// automatically.
func (u *UnitOfWorkImpl) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errTxOpen
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
		return errNoTx
	}
	defer func() { u.tx = nil }()
	return u.tx.Commit().Error
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return errNoTx
	}
	defer func() { u.tx = nil }()
	return u.tx.Rollback().Error
}

func (u *UnitOfWorkImpl) FileDocumentRepository() contract.FileDocumentRepository {
	return implementation.NewFileDocumentRepository(u.conn())
}
