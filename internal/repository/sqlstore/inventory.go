package sqlstore

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// InventoryRepository persists stock items.
type InventoryRepository struct {
	db   bun.IDB
	base table[models.InventoryItem]
}

// NewInventoryRepository builds an inventory repository over db.
func NewInventoryRepository(db bun.IDB) *InventoryRepository {
	return &InventoryRepository{db: db, base: newTable[models.InventoryItem](db, "inventory item")}
}

// List returns the items of userID ordered by name, optionally of one category.
func (r *InventoryRepository) List(ctx context.Context, userID string, category models.InventoryCategory) ([]models.InventoryItem, error) {
	items := make([]models.InventoryItem, 0)
	q := r.db.NewSelect().Model(&items).Where("ii.user_id = ?", userID)
	if category != "" {
		q = q.Where("ii.category = ?", category)
	}
	if err := q.Order("ii.name ASC").Scan(ctx); err != nil {
		return nil, translate(err, "list inventory", "inventory item")
	}
	return items, nil
}

// Get loads an item owned by userID.
func (r *InventoryRepository) Get(ctx context.Context, userID, id string) (*models.InventoryItem, error) {
	item := new(models.InventoryItem)
	err := r.db.NewSelect().
		Model(item).
		Where("ii.id = ?", id).
		Where("ii.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "get inventory item", "inventory item")
	}
	return item, nil
}

func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.base.insert(ctx, item)
}

func (r *InventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	return r.base.update(ctx, item)
}

func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	return r.base.deleteByID(ctx, id)
}
