package unitofwork

import "context"

// RepositoryFactory hands out a fresh UnitOfWork per request or consumed
// message. The unit stays non-transactional until Begin is called on it.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
