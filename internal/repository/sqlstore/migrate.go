package sqlstore

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

type foreignKey struct {
	column   string
	refTable string
	onDelete string
}

type tableSpec struct {
	model   any
	keys    []foreignKey
	indexes map[string][]string
}

// schema lists tables in creation order; referenced tables come first.
var schema = []tableSpec{
	{model: (*models.User)(nil)},
	{
		model: (*models.Loft)(nil),
		keys:  []foreignKey{{"user_id", "users", "CASCADE"}},
		indexes: map[string][]string{
			"lofts_user_id_idx": {"user_id"},
		},
	},
	{
		model: (*models.Bird)(nil),
		keys: []foreignKey{
			{"loft_id", "lofts", "RESTRICT"},
			{"father_id", "birds", "SET NULL"},
			{"mother_id", "birds", "SET NULL"},
		},
		indexes: map[string][]string{
			"birds_loft_id_idx": {"loft_id"},
		},
	},
	{
		model: (*models.Task)(nil),
		keys: []foreignKey{
			{"user_id", "users", "CASCADE"},
			{"loft_id", "lofts", "SET NULL"},
		},
		indexes: map[string][]string{
			"tasks_user_id_idx": {"user_id"},
		},
	},
	{
		model: (*models.TaskCompletion)(nil),
		keys:  []foreignKey{{"task_id", "tasks", "CASCADE"}},
	},
	{
		model: (*models.FeedingPlan)(nil),
		keys:  []foreignKey{{"loft_id", "lofts", "CASCADE"}},
	},
	{
		model: (*models.Supplement)(nil),
		keys:  []foreignKey{{"loft_id", "lofts", "CASCADE"}},
	},
	{
		model: (*models.WaterSchedule)(nil),
		keys:  []foreignKey{{"loft_id", "lofts", "CASCADE"}},
	},
	{
		model: (*models.Pairing)(nil),
		keys: []foreignKey{
			{"loft_id", "lofts", "RESTRICT"},
			{"male_id", "birds", "RESTRICT"},
			{"female_id", "birds", "RESTRICT"},
		},
	},
	{
		model: (*models.Egg)(nil),
		keys: []foreignKey{
			{"pairing_id", "pairings", "CASCADE"},
			{"chick_id", "birds", "SET NULL"},
		},
		indexes: map[string][]string{
			"eggs_pairing_id_idx": {"pairing_id"},
		},
	},
	{
		model: (*models.InventoryItem)(nil),
		keys:  []foreignKey{{"user_id", "users", "CASCADE"}},
	},
}

// Migrate creates every table, foreign key and index that does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, tbl := range schema {
			q := tx.NewCreateTable().Model(tbl.model).IfNotExists()
			for _, fk := range tbl.keys {
				q = q.ForeignKey("(?) REFERENCES ? (?) ON DELETE "+fk.onDelete,
					bun.Ident(fk.column), bun.Ident(fk.refTable), bun.Ident("id"))
			}
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("create table for %T: %w", tbl.model, err)
			}

			// MySQL has no CREATE INDEX IF NOT EXISTS; its foreign keys are indexed anyway.
			if s.db.Dialect().Name() == dialect.MySQL {
				continue
			}
			for name, columns := range tbl.indexes {
				if _, err := tx.NewCreateIndex().
					Model(tbl.model).
					Index(name).
					Column(columns...).
					IfNotExists().
					Exec(ctx); err != nil {
					return fmt.Errorf("create index %s: %w", name, err)
				}
			}
		}
		s.logger.Info("database schema ready", zap.Int("tables", len(schema)))
		return nil
	})
}
