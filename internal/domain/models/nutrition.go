package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SupplementType enumerates supplement families.
type SupplementType string

const (
	SupplementVitamin     SupplementType = "VITAMIN"
	SupplementMineral     SupplementType = "MINERAL"
	SupplementProbiotic   SupplementType = "PROBIOTIC"
	SupplementMedication  SupplementType = "MEDICATION"
	SupplementElectrolyte SupplementType = "ELECTROLYTE"
	SupplementOther       SupplementType = "OTHER"
)

// FeedingPlan describes the ration served to a loft.
type FeedingPlan struct {
	bun.BaseModel `bun:"table:feeding_plans,alias:fp"`

	ID            string    `bun:"id,pk" json:"id"`
	LoftID        string    `bun:"loft_id,notnull" json:"loftId"`
	Name          string    `bun:"name,notnull" json:"name"`
	FeedType      string    `bun:"feed_type,notnull" json:"feedType"`
	QuantityGrams float64   `bun:"quantity_grams,notnull" json:"quantityGrams"`
	FeedingTimes  string    `bun:"feeding_times" json:"feedingTimes"`
	StartDate     Date      `bun:"start_date,type:varchar(10),notnull" json:"startDate"`
	EndDate       *Date     `bun:"end_date,type:varchar(10)" json:"endDate,omitempty"`
	Active        bool      `bun:"active,notnull" json:"active"`
	Notes         string    `bun:"notes" json:"notes"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

// Supplement is a vitamin, medication or other additive course given to a loft.
type Supplement struct {
	bun.BaseModel `bun:"table:supplements,alias:sp"`

	ID        string         `bun:"id,pk" json:"id"`
	LoftID    string         `bun:"loft_id,notnull" json:"loftId"`
	Name      string         `bun:"name,notnull" json:"name"`
	Type      SupplementType `bun:"type,notnull" json:"type"`
	Dosage    string         `bun:"dosage" json:"dosage"`
	Frequency string         `bun:"frequency" json:"frequency"`
	StartDate Date           `bun:"start_date,type:varchar(10),notnull" json:"startDate"`
	EndDate   *Date          `bun:"end_date,type:varchar(10)" json:"endDate,omitempty"`
	Notes     string         `bun:"notes" json:"notes"`
	CreatedAt time.Time      `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt time.Time      `bun:"updated_at,notnull" json:"updatedAt"`
}

// WaterSchedule tracks how often a loft's drinkers are refreshed.
type WaterSchedule struct {
	bun.BaseModel `bun:"table:water_schedules,alias:ws"`

	ID                  string     `bun:"id,pk" json:"id"`
	LoftID              string     `bun:"loft_id,notnull" json:"loftId"`
	Additive            string     `bun:"additive" json:"additive"`
	ChangeIntervalHours int        `bun:"change_interval_hours,notnull" json:"changeIntervalHours"`
	LastChangedAt       *time.Time `bun:"last_changed_at,nullzero" json:"lastChangedAt,omitempty"`
	Notes               string     `bun:"notes" json:"notes"`
	CreatedAt           time.Time  `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt           time.Time  `bun:"updated_at,notnull" json:"updatedAt"`

	NextChangeAt *time.Time `bun:"-" json:"nextChangeAt,omitempty"`
	Overdue      bool       `bun:"-" json:"overdue"`
}

// Annotate fills the derived schedule fields relative to now.
func (w *WaterSchedule) Annotate(now time.Time) {
	w.NextChangeAt = nil
	w.Overdue = false
	if w.LastChangedAt == nil {
		return
	}
	next := w.LastChangedAt.Add(time.Duration(w.ChangeIntervalHours) * time.Hour)
	w.NextChangeAt = &next
	w.Overdue = now.After(next)
}
