package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BirdSex enumerates the recorded sex of a bird.
type BirdSex string

const (
	SexMale    BirdSex = "MALE"
	SexFemale  BirdSex = "FEMALE"
	SexUnknown BirdSex = "UNKNOWN"
)

// BirdStatus enumerates lifecycle states of a bird.
type BirdStatus string

const (
	BirdActive   BirdStatus = "ACTIVE"
	BirdSold     BirdStatus = "SOLD"
	BirdDeceased BirdStatus = "DECEASED"
	BirdLost     BirdStatus = "LOST"
	BirdRetired  BirdStatus = "RETIRED"
)

// Bird is a pigeon housed in a loft, optionally linked to its parents.
type Bird struct {
	bun.BaseModel `bun:"table:birds,alias:b"`

	ID         string     `bun:"id,pk" json:"id"`
	LoftID     string     `bun:"loft_id,notnull" json:"loftId"`
	RingNumber string     `bun:"ring_number,notnull,unique" json:"ringNumber"`
	Name       string     `bun:"name" json:"name"`
	Sex        BirdSex    `bun:"sex,notnull" json:"sex"`
	Color      string     `bun:"color" json:"color"`
	Breed      string     `bun:"breed" json:"breed"`
	BirthDate  *time.Time `bun:"birth_date,nullzero" json:"birthDate,omitempty"`
	Status     BirdStatus `bun:"status,notnull" json:"status"`
	FatherID   *string    `bun:"father_id" json:"fatherId,omitempty"`
	MotherID   *string    `bun:"mother_id" json:"motherId,omitempty"`
	Notes      string     `bun:"notes" json:"notes"`
	CreatedAt  time.Time  `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt  time.Time  `bun:"updated_at,notnull" json:"updatedAt"`
}

// BirdFilter narrows a bird listing. Zero values mean "any".
type BirdFilter struct {
	LoftID   string
	Status   BirdStatus
	Sex      BirdSex
	Search   string
	Page     int
	PageSize int
}

// BirdStats aggregates the birds of a user.
type BirdStats struct {
	Total    int                `json:"total"`
	ByStatus map[BirdStatus]int `json:"byStatus"`
	BySex    map[BirdSex]int    `json:"bySex"`
	ByLoft   []LoftBirdCount    `json:"byLoft"`
}

// LoftBirdCount is the number of birds housed in one loft.
type LoftBirdCount struct {
	LoftID   string `bun:"loft_id" json:"loftId"`
	LoftName string `bun:"loft_name" json:"loftName"`
	Count    int    `bun:"count" json:"count"`
}
