// Package dashboard aggregates the day's state of a user's lofts.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
	"github.com/mamadbah2/loftkeeper/internal/service/inventory"
	"github.com/mamadbah2/loftkeeper/internal/service/tasks"
)

// DueSoonDays is how far ahead an incubating egg counts as due to hatch.
const DueSoonDays = 3

type LoftCounter interface {
	Count(ctx context.Context, userID string) (int, error)
}

type BirdStatter interface {
	Stats(ctx context.Context, userID string) (*models.BirdStats, error)
}

type OccurrenceLister interface {
	ListOccurrences(ctx context.Context, userID, loftID string, w tasks.Window) ([]models.Occurrence, error)
}

type BreedingCounter interface {
	CountActivePairings(ctx context.Context, userID string) (int, error)
	IncubatingEggs(ctx context.Context, userID string) ([]models.Egg, error)
}

type InventoryLister interface {
	List(ctx context.Context, userID string, f inventory.Filter) ([]models.InventoryItem, error)
}

// Sources groups the readers the dashboard draws from.
type Sources struct {
	Lofts     LoftCounter
	Birds     BirdStatter
	Tasks     OccurrenceLister
	Breeding  BreedingCounter
	Inventory InventoryLister
}

type Service struct {
	src    Sources
	logger *zap.Logger
	now    func() time.Time
}

func NewService(src Sources, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{src: src, logger: logger, now: time.Now}
}

// Summary builds the dashboard for the current UTC day.
func (s *Service) Summary(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	return s.SummaryFor(ctx, userID, models.DateOf(s.now().UTC()))
}

// SummaryFor builds the dashboard as of day.
func (s *Service) SummaryFor(ctx context.Context, userID string, day models.Date) (*models.DashboardSummary, error) {
	sum := &models.DashboardSummary{Date: day, PendingTasks: make([]models.Occurrence, 0)}

	lofts, err := s.src.Lofts.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count lofts: %w", err)
	}
	sum.Lofts = lofts

	stats, err := s.src.Birds.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("bird stats: %w", err)
	}
	sum.Birds = stats.Total
	sum.BirdsByStatus = stats.ByStatus
	sum.BirdsBySex = stats.BySex

	occurrences, err := s.src.Tasks.ListOccurrences(ctx, userID, "", tasks.Window{From: day, To: day})
	if err != nil {
		return nil, fmt.Errorf("today's tasks: %w", err)
	}
	sum.TasksToday = len(occurrences)
	for _, occ := range occurrences {
		if occ.Completed {
			sum.TasksCompleted++
			continue
		}
		sum.PendingTasks = append(sum.PendingTasks, occ)
	}
	sum.TasksPending = len(sum.PendingTasks)

	pairings, err := s.src.Breeding.CountActivePairings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count pairings: %w", err)
	}
	sum.ActivePairings = pairings

	eggs, err := s.src.Breeding.IncubatingEggs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("incubating eggs: %w", err)
	}
	sum.EggsIncubating = len(eggs)
	horizon := day.AddDays(DueSoonDays)
	for _, e := range eggs {
		if !e.ExpectedHatchAt.After(horizon) {
			sum.EggsDueSoon++
		}
	}

	items, err := s.src.Inventory.List(ctx, userID, inventory.Filter{})
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}
	for _, item := range items {
		if item.LowStock {
			sum.LowStockItems++
		}
		sum.InventoryValue += item.TotalValue
	}
	return sum, nil
}
