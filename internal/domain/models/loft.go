package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Loft is a physical pigeon housing unit owned by a user.
type Loft struct {
	bun.BaseModel `bun:"table:lofts,alias:l"`

	ID          string    `bun:"id,pk" json:"id"`
	UserID      string    `bun:"user_id,notnull" json:"userId"`
	Name        string    `bun:"name,notnull" json:"name"`
	Location    string    `bun:"location" json:"location"`
	Capacity    int       `bun:"capacity,notnull" json:"capacity"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updatedAt"`

	BirdCount int `bun:"bird_count,scanonly" json:"birdCount"`
}
