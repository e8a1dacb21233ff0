package sqlstore

import (
	"context"

	"github.com/uptrace/bun"
)

// loftScoped serves tables whose rows hang off a loft through a loft_id column.
// Ownership is checked by joining lofts and matching l.user_id.
type loftScoped[T any] struct {
	table[T]
}

func newLoftScoped[T any](db bun.IDB, resource string) loftScoped[T] {
	return loftScoped[T]{table: newTable[T](db, resource)}
}

func (s loftScoped[T]) owned(dest any, userID string) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(dest).
		Join("JOIN lofts AS l ON l.id = ?TableAlias.loft_id").
		Where("l.user_id = ?", userID)
}

// list returns the rows of userID, optionally narrowed to one loft, oldest first.
func (s loftScoped[T]) list(ctx context.Context, userID, loftID string) ([]T, error) {
	rows := make([]T, 0)
	q := s.owned(&rows, userID)
	if loftID != "" {
		q = q.Where("?TableAlias.loft_id = ?", loftID)
	}
	if err := q.OrderExpr("?TableAlias.created_at ASC").Scan(ctx); err != nil {
		return nil, translate(err, "list "+s.resource, s.resource)
	}
	return rows, nil
}

// get loads one row by id, or a not-found error when it belongs to another user.
func (s loftScoped[T]) get(ctx context.Context, userID, id string) (*T, error) {
	row := new(T)
	err := s.owned(row, userID).Where("?TableAlias.id = ?", id).Scan(ctx)
	if err != nil {
		return nil, translate(err, "get "+s.resource, s.resource)
	}
	return row, nil
}
