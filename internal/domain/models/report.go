package models

import "time"

// DashboardSummary aggregates the current state of a user's lofts.
type DashboardSummary struct {
	Date           Date               `json:"date"`
	Lofts          int                `json:"lofts"`
	Birds          int                `json:"birds"`
	BirdsByStatus  map[BirdStatus]int `json:"birdsByStatus"`
	BirdsBySex     map[BirdSex]int    `json:"birdsBySex"`
	TasksToday     int                `json:"tasksToday"`
	TasksCompleted int                `json:"tasksCompleted"`
	TasksPending   int                `json:"tasksPending"`
	PendingTasks   []Occurrence       `json:"pendingTasks"`
	ActivePairings int                `json:"activePairings"`
	EggsIncubating int                `json:"eggsIncubating"`
	EggsDueSoon    int                `json:"eggsDueSoon"`
	LowStockItems  int                `json:"lowStockItems"`
	InventoryValue float64            `json:"inventoryValue"`
}

// DailyReport represents the aggregated daily data archived in MongoDB.
type DailyReport struct {
	UserID         string    `bson:"user_id" json:"userId"`
	Date           string    `bson:"date" json:"date"`
	Lofts          int       `bson:"lofts" json:"lofts"`
	Birds          int       `bson:"birds" json:"birds"`
	ActiveBirds    int       `bson:"active_birds" json:"activeBirds"`
	TasksDue       int       `bson:"tasks_due" json:"tasksDue"`
	TasksCompleted int       `bson:"tasks_completed" json:"tasksCompleted"`
	ActivePairings int       `bson:"active_pairings" json:"activePairings"`
	EggsIncubating int       `bson:"eggs_incubating" json:"eggsIncubating"`
	LowStockItems  int       `bson:"low_stock_items" json:"lowStockItems"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// Page holds one page of results along with pagination metadata.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}
