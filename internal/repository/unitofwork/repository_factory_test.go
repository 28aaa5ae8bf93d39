package unitofwork

import (
	"context"
	"errors"
	"testing"

	"qwery-ai/internal/repository/contract"

	"github.com/stretchr/testify/assert"
)

type recordingUnitOfWork struct {
	began, committed, rolledBack bool
	beginErr                     error
}

func (u *recordingUnitOfWork) Begin(ctx context.Context) error {
	u.began = true
	return u.beginErr
}

func (u *recordingUnitOfWork) Commit() error {
	u.committed = true
	return nil
}

func (u *recordingUnitOfWork) Rollback() error {
	u.rolledBack = true
	return nil
}

func (u *recordingUnitOfWork) DocumentRepository() contract.DocumentRepository {
	return nil
}

type staticFactory struct {
	uow *recordingUnitOfWork
}

func (f staticFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return f.uow
}

func TestRunInTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		uow := &recordingUnitOfWork{}
		err := RunInTransaction(ctx, staticFactory{uow}, func(UnitOfWork) error { return nil })

		assert.NoError(t, err)
		assert.True(t, uow.committed)
		assert.False(t, uow.rolledBack)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		uow := &recordingUnitOfWork{}
		boom := errors.New("insert failed")
		err := RunInTransaction(ctx, staticFactory{uow}, func(UnitOfWork) error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.True(t, uow.rolledBack)
		assert.False(t, uow.committed)
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		uow := &recordingUnitOfWork{}
		err := RunInTransaction(ctx, staticFactory{uow}, func(UnitOfWork) error { panic("bad row") })

		assert.ErrorContains(t, err, "bad row")
		assert.True(t, uow.rolledBack)
	})

	t.Run("begin failure skips fn", func(t *testing.T) {
		uow := &recordingUnitOfWork{beginErr: errors.New("pool exhausted")}
		called := false
		err := RunInTransaction(ctx, staticFactory{uow}, func(UnitOfWork) error {
			called = true
			return nil
		})

		assert.Error(t, err)
		assert.False(t, called)
	})
}
