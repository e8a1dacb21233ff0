package sqlstore

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// LoftRepository persists lofts. Every read is scoped to the owning user.
type LoftRepository struct {
	db   bun.IDB
	base table[models.Loft]
}

// NewLoftRepository builds a loft repository over db.
func NewLoftRepository(db bun.IDB) *LoftRepository {
	return &LoftRepository{db: db, base: newTable[models.Loft](db, "loft")}
}

func (r *LoftRepository) selectWithCount(dest any) *bun.SelectQuery {
	return r.db.NewSelect().
		Model(dest).
		ColumnExpr("l.*").
		ColumnExpr("(SELECT COUNT(*) FROM birds AS b WHERE b.loft_id = l.id) AS bird_count")
}

// Create inserts a loft.
func (r *LoftRepository) Create(ctx context.Context, l *models.Loft) error {
	return r.base.insert(ctx, l)
}

// List returns the lofts of userID, oldest first, with their bird counts.
func (r *LoftRepository) List(ctx context.Context, userID string) ([]models.Loft, error) {
	lofts := make([]models.Loft, 0)
	err := r.selectWithCount(&lofts).
		Where("l.user_id = ?", userID).
		Order("l.created_at ASC", "l.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "list lofts", "loft")
	}
	return lofts, nil
}

// Get loads one loft owned by userID.
func (r *LoftRepository) Get(ctx context.Context, userID, id string) (*models.Loft, error) {
	l := new(models.Loft)
	err := r.selectWithCount(l).
		Where("l.id = ?", id).
		Where("l.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "get loft", "loft")
	}
	return l, nil
}

// First returns the oldest loft of userID.
func (r *LoftRepository) First(ctx context.Context, userID string) (*models.Loft, error) {
	l := new(models.Loft)
	err := r.selectWithCount(l).
		Where("l.user_id = ?", userID).
		Order("l.created_at ASC", "l.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "first loft", "loft")
	}
	return l, nil
}

// Update overwrites a loft by primary key.
func (r *LoftRepository) Update(ctx context.Context, l *models.Loft) error {
	return r.base.update(ctx, l)
}

// Delete removes a loft. The birds foreign key refuses the delete while the
// loft still houses birds; that surfaces as apperr.ErrForeignKey.
func (r *LoftRepository) Delete(ctx context.Context, id string) error {
	return r.base.deleteByID(ctx, id)
}

// Count returns how many lofts userID owns.
func (r *LoftRepository) Count(ctx context.Context, userID string) (int, error) {
	n, err := r.db.NewSelect().Model((*models.Loft)(nil)).Where("l.user_id = ?", userID).Count(ctx)
	if err != nil {
		return 0, translate(err, "count lofts", "loft")
	}
	return n, nil
}
