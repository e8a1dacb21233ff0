package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/mamadbah2/loftkeeper/internal/domain/apperr"
)

// SQLError classifies driver errors independently of the backend.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	DuplicateKeyErr
	ForeignKeyViolationErr
	NotNullViolationErr
	CheckConstraintViolationErr
)

// Classify maps a driver error to an SQLError. PostgreSQL and MySQL are
// matched on their error codes, SQLite on its message texts.
func Classify(err error) SQLError {
	if err == nil {
		return UnknownErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NoRowsErr
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return DuplicateKeyErr
		case "23503":
			return ForeignKeyViolationErr
		case "23502":
			return NotNullViolationErr
		case "23514":
			return CheckConstraintViolationErr
		default:
			return UnknownErr
		}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062:
			return DuplicateKeyErr
		case 1216, 1217, 1451, 1452:
			return ForeignKeyViolationErr
		case 1048:
			return NotNullViolationErr
		case 3819:
			return CheckConstraintViolationErr
		default:
			return UnknownErr
		}
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "unique constraint failed"),
		strings.Contains(s, "duplicate key value"):
		return DuplicateKeyErr
	case strings.Contains(s, "foreign key constraint failed"),
		strings.Contains(s, "foreign key violation"):
		return ForeignKeyViolationErr
	case strings.Contains(s, "not null constraint failed"):
		return NotNullViolationErr
	case strings.Contains(s, "check constraint failed"):
		return CheckConstraintViolationErr
	}
	return UnknownErr
}

// translate wraps err with the storage sentinel matching its class, so callers can
// use errors.Is against apperr.ErrDuplicateKey, apperr.ErrForeignKey or a
// not-found error for resource.
func translate(err error, op, resource string) error {
	if err == nil {
		return nil
	}
	switch Classify(err) {
	case NoRowsErr:
		return apperr.NotFound(resource)
	case DuplicateKeyErr:
		return fmt.Errorf("%s: %w: %w", op, apperr.ErrDuplicateKey, err)
	case ForeignKeyViolationErr:
		return fmt.Errorf("%s: %w: %w", op, apperr.ErrForeignKey, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
