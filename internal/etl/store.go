package etl

import (
	"context"

	"qwery-ai/internal/entity"
	"qwery-ai/internal/repository/unitofwork"
	"qwery-ai/pkg/database"

	"gorm.io/gorm"
)

type gormStore struct {
	db         *gorm.DB
	uowFactory unitofwork.RepositoryFactory
	schema     database.SchemaOptions
}

// GormConnector opens the pooled PostgreSQL connection used by one run.
func GormConnector(dsn string, pool database.PoolConfig, schema database.SchemaOptions) Connector {
	return func(ctx context.Context) (Store, error) {
		db, err := database.NewGormDBFromDSN(ctx, dsn, pool)
		if err != nil {
			return nil, err
		}
		return &gormStore{
			db:         db,
			uowFactory: unitofwork.NewRepositoryFactory(db),
			schema:     schema,
		}, nil
	}
}

func (s *gormStore) EnsureSchema(ctx context.Context) (int, error) {
	return database.EnsureSchema(ctx, s.db, s.schema)
}

// LoadDocuments inserts the batch atomically; on failure nothing is kept.
func (s *gormStore) LoadDocuments(ctx context.Context, docs []*entity.Document) (int, error) {
	var loaded int
	err := unitofwork.RunInTransaction(ctx, s.uowFactory, func(uow unitofwork.UnitOfWork) error {
		n, err := uow.DocumentRepository().CreateBulk(ctx, docs)
		if err != nil {
			return err
		}
		loaded = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return loaded, nil
}

func (s *gormStore) Close() error {
	return database.Close(s.db)
}
