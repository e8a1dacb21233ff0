package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
)

// table provides the primary-key CRUD shared by every repository.
type table[T any] struct {
	db       bun.IDB
	resource string
}

func newTable[T any](db bun.IDB, resource string) table[T] {
	return table[T]{db: db, resource: resource}
}

func (t table[T]) insert(ctx context.Context, entity *T) error {
	_, err := t.db.NewInsert().Model(entity).Exec(ctx)
	return translate(err, "insert "+t.resource, t.resource)
}

func (t table[T]) update(ctx context.Context, entity *T) error {
	res, err := t.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	if err != nil {
		return translate(err, "update "+t.resource, t.resource)
	}
	return t.expectRow(res)
}

func (t table[T]) deleteByID(ctx context.Context, id string) error {
	res, err := t.db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return translate(err, "delete "+t.resource, t.resource)
	}
	return t.expectRow(res)
}

func (t table[T]) expectRow(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", t.resource, err)
	}
	if n == 0 {
		return translate(sql.ErrNoRows, "", t.resource)
	}
	return nil
}

// upsert inserts entity or, when a row with the same conflict key exists,
// overwrites the listed columns of that row.
func (t table[T]) upsert(ctx context.Context, entity *T, conflictKeys, fields []string) error {
	if len(fields) == 0 {
		return fmt.Errorf("upsert %s: fields cannot be empty", t.resource)
	}
	features := t.db.Dialect().Features()

	var err error
	switch {
	case features.Has(feature.InsertOnConflict):
		sets := make([]string, 0, len(fields))
		for _, f := range fields {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", f, f))
		}
		_, err = t.db.NewInsert().
			Model(entity).
			On("CONFLICT (" + strings.Join(conflictKeys, ", ") + ") DO UPDATE").
			Set(strings.Join(sets, ", ")).
			Exec(ctx)
	case features.Has(feature.InsertOnDuplicateKey):
		sets := make([]string, 0, len(fields))
		for _, f := range fields {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", f, f))
		}
		_, err = t.db.NewInsert().
			Model(entity).
			On("DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")).
			Exec(ctx)
	default:
		return fmt.Errorf("upsert %s: dialect %s supports no upsert", t.resource, t.db.Dialect().Name())
	}
	return translate(err, "upsert "+t.resource, t.resource)
}
