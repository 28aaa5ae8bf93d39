package database

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaStatements(t *testing.T) {
	stmts := SchemaStatements(SchemaOptions{Dimension: 768, Lists: 50})

	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], "CREATE EXTENSION IF NOT EXISTS vector")
	assert.Contains(t, stmts[1], "CREATE TABLE IF NOT EXISTS documents")
	assert.Contains(t, stmts[1], "embedding vector(768)")
	assert.Contains(t, stmts[2], "vector_cosine_ops")
	assert.Contains(t, stmts[2], "lists = 50")

	for _, stmt := range stmts {
		assert.True(t, strings.Contains(stmt, "IF NOT EXISTS"), "every statement must be idempotent")
	}
}

func TestSchemaStatementsDefaults(t *testing.T) {
	stmts := SchemaStatements(SchemaOptions{})
	assert.Contains(t, stmts[1], "vector(384)")
	assert.Contains(t, stmts[2], "lists = 100")
}

func TestClassifyError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, ClassifyError("insert", nil))
	})

	t.Run("pg error keeps sqlstate", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "22000", Message: "expected 384 dimensions, not 3"}
		err := ClassifyError("insert", pgErr)

		var se *StorageError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "22000", se.Code)
		assert.True(t, se.IsConstraintViolation())
		assert.ErrorIs(t, err, pgErr)
		assert.Contains(t, err.Error(), "storage insert failed")
	})

	t.Run("plain error has no code", func(t *testing.T) {
		err := ClassifyError("ping", errors.New("connection refused"))

		var se *StorageError
		require.True(t, errors.As(err, &se))
		assert.Empty(t, se.Code)
		assert.False(t, se.IsConstraintViolation())
	})

	t.Run("already classified passes through", func(t *testing.T) {
		first := ClassifyError("insert", errors.New("boom"))
		assert.Same(t, first, ClassifyError("bulk insert", first))
	})
}

func TestEnsureSchemaIntegration(t *testing.T) {
	_ = godotenv.Load("../../.env")
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	ctx := context.Background()
	db, err := NewGormDBFromDSN(ctx, dsn, PoolConfig{})
	require.NoError(t, err)
	defer Close(db)

	first, err := EnsureSchema(ctx, db, SchemaOptions{})
	require.NoError(t, err)
	assert.Positive(t, first)

	// Second call must be a no-op.
	second, err := EnsureSchema(ctx, db, SchemaOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.NoError(t, Ping(ctx, db))
}
