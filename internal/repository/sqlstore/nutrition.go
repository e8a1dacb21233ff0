package sqlstore

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// NutritionRepository persists feeding plans, supplements and water schedules.
type NutritionRepository struct {
	plans       loftScoped[models.FeedingPlan]
	supplements loftScoped[models.Supplement]
	water       loftScoped[models.WaterSchedule]
}

// NewNutritionRepository builds a nutrition repository over db.
func NewNutritionRepository(db bun.IDB) *NutritionRepository {
	return &NutritionRepository{
		plans:       newLoftScoped[models.FeedingPlan](db, "feeding plan"),
		supplements: newLoftScoped[models.Supplement](db, "supplement"),
		water:       newLoftScoped[models.WaterSchedule](db, "water schedule"),
	}
}

func (r *NutritionRepository) ListFeedingPlans(ctx context.Context, userID, loftID string) ([]models.FeedingPlan, error) {
	return r.plans.list(ctx, userID, loftID)
}

func (r *NutritionRepository) GetFeedingPlan(ctx context.Context, userID, id string) (*models.FeedingPlan, error) {
	return r.plans.get(ctx, userID, id)
}

func (r *NutritionRepository) CreateFeedingPlan(ctx context.Context, p *models.FeedingPlan) error {
	return r.plans.insert(ctx, p)
}

func (r *NutritionRepository) UpdateFeedingPlan(ctx context.Context, p *models.FeedingPlan) error {
	return r.plans.update(ctx, p)
}

func (r *NutritionRepository) DeleteFeedingPlan(ctx context.Context, id string) error {
	return r.plans.deleteByID(ctx, id)
}

func (r *NutritionRepository) ListSupplements(ctx context.Context, userID, loftID string) ([]models.Supplement, error) {
	return r.supplements.list(ctx, userID, loftID)
}

func (r *NutritionRepository) GetSupplement(ctx context.Context, userID, id string) (*models.Supplement, error) {
	return r.supplements.get(ctx, userID, id)
}

func (r *NutritionRepository) CreateSupplement(ctx context.Context, s *models.Supplement) error {
	return r.supplements.insert(ctx, s)
}

func (r *NutritionRepository) UpdateSupplement(ctx context.Context, s *models.Supplement) error {
	return r.supplements.update(ctx, s)
}

func (r *NutritionRepository) DeleteSupplement(ctx context.Context, id string) error {
	return r.supplements.deleteByID(ctx, id)
}

func (r *NutritionRepository) ListWaterSchedules(ctx context.Context, userID, loftID string) ([]models.WaterSchedule, error) {
	return r.water.list(ctx, userID, loftID)
}

func (r *NutritionRepository) GetWaterSchedule(ctx context.Context, userID, id string) (*models.WaterSchedule, error) {
	return r.water.get(ctx, userID, id)
}

func (r *NutritionRepository) CreateWaterSchedule(ctx context.Context, w *models.WaterSchedule) error {
	return r.water.insert(ctx, w)
}

func (r *NutritionRepository) UpdateWaterSchedule(ctx context.Context, w *models.WaterSchedule) error {
	return r.water.update(ctx, w)
}

func (r *NutritionRepository) DeleteWaterSchedule(ctx context.Context, id string) error {
	return r.water.deleteByID(ctx, id)
}
