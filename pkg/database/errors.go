package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// StorageError is the single error type callers see from the storage layer,
// whether the failure was a lost connection or a rejected statement.
type StorageError struct {
	Op   string
	Code string // SQLSTATE when the server rejected the statement
	Err  error
}

func (e *StorageError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("storage %s failed (sqlstate %s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsConstraintViolation reports SQLSTATE class 22 (data exception, e.g. a
// vector dimension mismatch) and class 23 (integrity constraint).
func (e *StorageError) IsConstraintViolation() bool {
	return len(e.Code) == 5 && (e.Code[:2] == "22" || e.Code[:2] == "23")
}

// ClassifyError wraps err as a *StorageError, lifting the SQLSTATE out of a
// pgx error when there is one. Already classified errors pass through.
func ClassifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var se *StorageError
	if errors.As(err, &se) {
		return err
	}

	storageErr := &StorageError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		storageErr.Code = pgErr.Code
	}
	return storageErr
}
