package unitofwork

import (
	"context"
	"fmt"
)

type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

// RunInTransaction runs fn inside a fresh unit of work. The transaction is
// committed only when fn returns nil; any error or panic rolls it back whole.
func RunInTransaction(ctx context.Context, factory RepositoryFactory, fn func(uow UnitOfWork) error) (err error) {
	uow := factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback()
			err = fmt.Errorf("transaction aborted: %v", p)
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	return uow.Commit()
}
