package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Frequency controls how a task template recurs.
type Frequency string

const (
	FrequencyNone    Frequency = "NONE"
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// TaskCategory groups tasks by the kind of loft work involved.
type TaskCategory string

const (
	CategoryFeeding  TaskCategory = "FEEDING"
	CategoryCleaning TaskCategory = "CLEANING"
	CategoryHealth   TaskCategory = "HEALTH"
	CategoryTraining TaskCategory = "TRAINING"
	CategoryBreeding TaskCategory = "BREEDING"
	CategoryOther    TaskCategory = "OTHER"
)

// Priority orders tasks within a day.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Rank returns a sort key where higher priorities come first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Task is a stored template; occurrences are derived from it per query window.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID          string       `bun:"id,pk" json:"id"`
	UserID      string       `bun:"user_id,notnull" json:"userId"`
	LoftID      *string      `bun:"loft_id" json:"loftId,omitempty"`
	Title       string       `bun:"title,notnull" json:"title"`
	Description string       `bun:"description" json:"description"`
	Category    TaskCategory `bun:"category,notnull" json:"category"`
	Priority    Priority     `bun:"priority,notnull" json:"priority"`
	Frequency   Frequency    `bun:"frequency,notnull" json:"frequency"`
	StartDate   Date         `bun:"start_date,type:varchar(10),notnull" json:"startDate"`
	EndDate     *Date        `bun:"end_date,type:varchar(10)" json:"endDate,omitempty"`
	CreatedAt   time.Time    `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt   time.Time    `bun:"updated_at,notnull" json:"updatedAt"`

	Completions []TaskCompletion `bun:"-" json:"completions,omitempty"`
}

// TaskCompletion marks one occurrence of a task as done. (task_id, date) is unique.
type TaskCompletion struct {
	bun.BaseModel `bun:"table:task_completions,alias:tc"`

	ID          string    `bun:"id,pk" json:"id"`
	TaskID      string    `bun:"task_id,notnull,unique:task_completions_task_date" json:"taskId"`
	Date        Date      `bun:"date,type:varchar(10),notnull,unique:task_completions_task_date" json:"date"`
	Notes       string    `bun:"notes" json:"notes"`
	CompletedAt time.Time `bun:"completed_at,notnull" json:"completedAt"`
}

// Occurrence is one scheduled instance of a task on a specific day, paired
// with its completion state.
type Occurrence struct {
	TaskID      string       `json:"taskId"`
	Date        Date         `json:"date"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    TaskCategory `json:"category"`
	Priority    Priority     `json:"priority"`
	Frequency   Frequency    `json:"frequency"`
	LoftID      *string      `json:"loftId,omitempty"`
	Completed   bool         `json:"completed"`
	Notes       string       `json:"notes,omitempty"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}
