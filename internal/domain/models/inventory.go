package models

import (
	"time"

	"github.com/uptrace/bun"
)

// InventoryCategory groups stock items.
type InventoryCategory string

const (
	InventoryFeed       InventoryCategory = "FEED"
	InventorySupplement InventoryCategory = "SUPPLEMENT"
	InventoryMedication InventoryCategory = "MEDICATION"
	InventoryEquipment  InventoryCategory = "EQUIPMENT"
	InventoryOther      InventoryCategory = "OTHER"
)

// InventoryItem captures stock kept for the lofts of a user.
type InventoryItem struct {
	bun.BaseModel `bun:"table:inventory_items,alias:ii"`

	ID          string            `bun:"id,pk" json:"id"`
	UserID      string            `bun:"user_id,notnull" json:"userId"`
	Name        string            `bun:"name,notnull" json:"name"`
	Category    InventoryCategory `bun:"category,notnull" json:"category"`
	Quantity    float64           `bun:"quantity,notnull" json:"quantity"`
	Unit        string            `bun:"unit,notnull" json:"unit"`
	MinQuantity float64           `bun:"min_quantity,notnull" json:"minQuantity"`
	UnitCost    float64           `bun:"unit_cost,notnull" json:"unitCost"`
	Notes       string            `bun:"notes" json:"notes"`
	CreatedAt   time.Time         `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt   time.Time         `bun:"updated_at,notnull" json:"updatedAt"`

	LowStock   bool    `bun:"-" json:"lowStock"`
	TotalValue float64 `bun:"-" json:"totalValue"`
}

// Annotate fills the derived stock fields.
func (i *InventoryItem) Annotate() {
	i.LowStock = i.Quantity <= i.MinQuantity
	i.TotalValue = i.Quantity * i.UnitCost
}
