package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	DocumentsTable   = "documents"
	DefaultDimension = 384 // all-MiniLM-L6-v2
	DefaultLists     = 100
)

type SchemaOptions struct {
	Dimension int
	Lists     int // ivfflat inverted-list count
}

func (o SchemaOptions) withDefaults() SchemaOptions {
	if o.Dimension <= 0 {
		o.Dimension = DefaultDimension
	}
	if o.Lists <= 0 {
		o.Lists = DefaultLists
	}
	return o
}

// SchemaStatements returns the idempotent DDL that EnsureSchema runs, in order.
func SchemaStatements(opts SchemaOptions) []string {
	opts = opts.withDefaults()
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector;`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			content TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`, DocumentsTable, opts.Dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx
			ON %s USING ivfflat (embedding vector_cosine_ops)
			WITH (lists = %d);`, DocumentsTable, DocumentsTable, opts.Lists),
	}
}

// EnsureSchema enables pgvector and creates the documents table and its
// cosine ivfflat index when absent. It returns the dimension of the existing
// embedding column, which differs from opts.Dimension when the table was
// created earlier with another model.
func EnsureSchema(ctx context.Context, db *gorm.DB, opts SchemaOptions) (int, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range SchemaStatements(opts) {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, ClassifyError("ensure schema", err)
	}

	return ColumnDimension(ctx, db)
}

// ColumnDimension reads the declared dimension of documents.embedding. For
// the vector type pgvector stores it as the column's type modifier.
func ColumnDimension(ctx context.Context, db *gorm.DB) (int, error) {
	var dim int
	err := db.WithContext(ctx).Raw(
		`SELECT atttypmod FROM pg_attribute
		 WHERE attrelid = ?::regclass AND attname = 'embedding'`,
		DocumentsTable,
	).Scan(&dim).Error
	if err != nil {
		return 0, ClassifyError("read embedding dimension", err)
	}
	return dim, nil
}
