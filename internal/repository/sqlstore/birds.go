package sqlstore

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// BirdRepository persists birds.
type BirdRepository struct {
	db   bun.IDB
	base loftScoped[models.Bird]
}

// NewBirdRepository builds a bird repository over db.
func NewBirdRepository(db bun.IDB) *BirdRepository {
	return &BirdRepository{db: db, base: newLoftScoped[models.Bird](db, "bird")}
}

// Create inserts a bird. A reused ring number surfaces as apperr.ErrDuplicateKey.
func (r *BirdRepository) Create(ctx context.Context, b *models.Bird) error {
	return r.base.insert(ctx, b)
}

// Get loads a bird owned (through its loft) by userID.
func (r *BirdRepository) Get(ctx context.Context, userID, id string) (*models.Bird, error) {
	return r.base.get(ctx, userID, id)
}

// Page lists the birds of userID matching f. f.Page and f.PageSize must already
// be normalized by the caller.
func (r *BirdRepository) Page(ctx context.Context, userID string, f models.BirdFilter) ([]models.Bird, int, error) {
	birds := make([]models.Bird, 0)
	q := r.base.owned(&birds, userID)
	if f.LoftID != "" {
		q = q.Where("b.loft_id = ?", f.LoftID)
	}
	if f.Status != "" {
		q = q.Where("b.status = ?", f.Status)
	}
	if f.Sex != "" {
		q = q.Where("b.sex = ?", f.Sex)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(b.ring_number) LIKE ?", pattern).
				WhereOr("LOWER(b.name) LIKE ?", pattern)
		})
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, translate(err, "count birds", "bird")
	}
	err = q.Order("b.ring_number ASC").
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		Scan(ctx)
	if err != nil {
		return nil, 0, translate(err, "list birds", "bird")
	}
	return birds, total, nil
}

type labelCount struct {
	Label string `bun:"label"`
	Count int    `bun:"count"`
}

func (r *BirdRepository) countBy(ctx context.Context, userID, column string) ([]labelCount, error) {
	var rows []labelCount
	err := r.db.NewSelect().
		TableExpr("birds AS b").
		Join("JOIN lofts AS l ON l.id = b.loft_id").
		ColumnExpr("? AS label", bun.Ident("b."+column)).
		ColumnExpr("COUNT(*) AS count").
		Where("l.user_id = ?", userID).
		GroupExpr("?", bun.Ident("b."+column)).
		Scan(ctx, &rows)
	if err != nil {
		return nil, translate(err, "count birds by "+column, "bird")
	}
	return rows, nil
}

// Stats aggregates the birds of userID by status, sex and loft.
func (r *BirdRepository) Stats(ctx context.Context, userID string) (*models.BirdStats, error) {
	stats := &models.BirdStats{
		ByStatus: map[models.BirdStatus]int{},
		BySex:    map[models.BirdSex]int{},
		ByLoft:   make([]models.LoftBirdCount, 0),
	}

	byStatus, err := r.countBy(ctx, userID, "status")
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.ByStatus[models.BirdStatus(row.Label)] = row.Count
		stats.Total += row.Count
	}

	bySex, err := r.countBy(ctx, userID, "sex")
	if err != nil {
		return nil, err
	}
	for _, row := range bySex {
		stats.BySex[models.BirdSex(row.Label)] = row.Count
	}

	err = r.db.NewSelect().
		TableExpr("lofts AS l").
		Join("LEFT JOIN birds AS b ON b.loft_id = l.id").
		ColumnExpr("l.id AS loft_id").
		ColumnExpr("l.name AS loft_name").
		ColumnExpr("COUNT(b.id) AS count").
		Where("l.user_id = ?", userID).
		GroupExpr("l.id, l.name").
		OrderExpr("l.name ASC").
		Scan(ctx, &stats.ByLoft)
	if err != nil {
		return nil, translate(err, "count birds by loft", "bird")
	}
	return stats, nil
}

// Update overwrites a bird by primary key.
func (r *BirdRepository) Update(ctx context.Context, b *models.Bird) error {
	return r.base.update(ctx, b)
}

// Delete removes a bird. Pairings referencing it block the delete with
// apperr.ErrForeignKey; offspring keep living with the parent link cleared.
func (r *BirdRepository) Delete(ctx context.Context, id string) error {
	return r.base.deleteByID(ctx, id)
}
