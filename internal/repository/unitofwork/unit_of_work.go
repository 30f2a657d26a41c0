package unitofwork

import (
	"context"

	"ai-filesearch-be/internal/repository/contract"
)

// UnitOfWork scopes repository work to a single logical operation. It hands
// out repositories bound to the same connection, and to the same transaction
// once Begin has been called.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	FileDocumentRepository() contract.FileDocumentRepository
}
