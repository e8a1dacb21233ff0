package models

import (
	"time"

	"github.com/uptrace/bun"
)

// IncubationDays is the usual number of days between laying and hatching.
const IncubationDays = 18

// PairingStatus enumerates the states of a breeding pair.
type PairingStatus string

const (
	PairingActive PairingStatus = "ACTIVE"
	PairingEnded  PairingStatus = "ENDED"
)

// EggStatus enumerates the states of an egg.
type EggStatus string

const (
	EggLaid      EggStatus = "LAID"
	EggFertile   EggStatus = "FERTILE"
	EggInfertile EggStatus = "INFERTILE"
	EggHatched   EggStatus = "HATCHED"
	EggBroken    EggStatus = "BROKEN"
)

// Incubating reports whether the egg may still hatch.
func (s EggStatus) Incubating() bool {
	return s == EggLaid || s == EggFertile
}

// Pairing is a cock and a hen put together for breeding.
type Pairing struct {
	bun.BaseModel `bun:"table:pairings,alias:pr"`

	ID          string        `bun:"id,pk" json:"id"`
	LoftID      string        `bun:"loft_id,notnull" json:"loftId"`
	MaleID      string        `bun:"male_id,notnull" json:"maleId"`
	FemaleID    string        `bun:"female_id,notnull" json:"femaleId"`
	PairedAt    Date          `bun:"paired_at,type:varchar(10),notnull" json:"pairedAt"`
	SeparatedAt *Date         `bun:"separated_at,type:varchar(10)" json:"separatedAt,omitempty"`
	Status      PairingStatus `bun:"status,notnull" json:"status"`
	Notes       string        `bun:"notes" json:"notes"`
	CreatedAt   time.Time     `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt   time.Time     `bun:"updated_at,notnull" json:"updatedAt"`
}

// Egg is laid by a pairing and may hatch into a chick recorded as a Bird.
type Egg struct {
	bun.BaseModel `bun:"table:eggs,alias:e"`

	ID              string    `bun:"id,pk" json:"id"`
	PairingID       string    `bun:"pairing_id,notnull" json:"pairingId"`
	LaidAt          Date      `bun:"laid_at,type:varchar(10),notnull" json:"laidAt"`
	ExpectedHatchAt Date      `bun:"expected_hatch_at,type:varchar(10),notnull" json:"expectedHatchAt"`
	HatchedAt       *Date     `bun:"hatched_at,type:varchar(10)" json:"hatchedAt,omitempty"`
	Status          EggStatus `bun:"status,notnull" json:"status"`
	ChickID         *string   `bun:"chick_id" json:"chickId,omitempty"`
	Notes           string    `bun:"notes" json:"notes"`
	CreatedAt       time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt       time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}
