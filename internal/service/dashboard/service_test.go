package dashboard_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore/sqlstoretest"
	"github.com/mamadbah2/loftkeeper/internal/service/birds"
	"github.com/mamadbah2/loftkeeper/internal/service/breeding"
	"github.com/mamadbah2/loftkeeper/internal/service/dashboard"
	"github.com/mamadbah2/loftkeeper/internal/service/inventory"
	"github.com/mamadbah2/loftkeeper/internal/service/lofts"
	"github.com/mamadbah2/loftkeeper/internal/service/tasks"
)

func TestService_SummaryFor(t *testing.T) {
	ctx := context.Background()
	db := sqlstoretest.New(t).DB()
	u := &models.User{ID: uuid.NewString(), Email: "keeper@example.com", PasswordHash: "x"}
	require.NoError(t, sqlstore.NewUserRepository(db).Create(ctx, u))

	loftRepo := sqlstore.NewLoftRepository(db)
	birdRepo := sqlstore.NewBirdRepository(db)
	breedingRepo := sqlstore.NewBreedingRepository(db)
	loftSvc := lofts.NewService(loftRepo, nil)
	birdSvc := birds.NewService(birdRepo, loftRepo, nil)
	taskSvc := tasks.NewService(sqlstore.NewTaskRepository(db), loftRepo, nil)
	breedingSvc := breeding.NewService(breedingRepo, birdRepo, nil)
	inventorySvc := inventory.NewService(sqlstore.NewInventoryRepository(db), nil)

	l, err := loftSvc.Create(ctx, u.ID, lofts.Input{Name: "North"})
	require.NoError(t, err)
	cock, err := birdSvc.Create(ctx, u.ID, birds.Input{LoftID: l.ID, RingNumber: "M-1", Sex: models.SexMale})
	require.NoError(t, err)
	hen, err := birdSvc.Create(ctx, u.ID, birds.Input{LoftID: l.ID, RingNumber: "F-1", Sex: models.SexFemale})
	require.NoError(t, err)

	day := models.NewDate(2024, 5, 10)
	feed, err := taskSvc.Create(ctx, u.ID, tasks.CreateInput{
		Title: "Feed", Category: models.CategoryFeeding, Frequency: models.FrequencyDaily, StartDate: day.AddDays(-5),
	})
	require.NoError(t, err)
	_, err = taskSvc.Create(ctx, u.ID, tasks.CreateInput{
		Title: "Vaccinate", Category: models.CategoryHealth, Priority: models.PriorityHigh,
		Frequency: models.FrequencyNone, StartDate: day,
	})
	require.NoError(t, err)
	_, err = taskSvc.Complete(ctx, u.ID, tasks.CompleteInput{TaskID: feed.ID, Date: day})
	require.NoError(t, err)

	p, err := breedingSvc.CreatePairing(ctx, u.ID, breeding.PairingInput{MaleID: cock.ID, FemaleID: hen.ID, PairedAt: day.AddDays(-30)})
	require.NoError(t, err)
	_, err = breedingSvc.AddEgg(ctx, u.ID, p.ID, breeding.EggInput{LaidAt: day.AddDays(-16)})
	require.NoError(t, err)
	_, err = breedingSvc.AddEgg(ctx, u.ID, p.ID, breeding.EggInput{LaidAt: day.AddDays(-2)})
	require.NoError(t, err)

	_, err = inventorySvc.Create(ctx, u.ID, inventory.Input{
		Name: "Grit", Category: models.InventorySupplement, Quantity: 1, Unit: "kg", MinQuantity: 2, UnitCost: 3,
	})
	require.NoError(t, err)

	svc := dashboard.NewService(dashboard.Sources{
		Lofts:     loftRepo,
		Birds:     birdSvc,
		Tasks:     taskSvc,
		Breeding:  breedingRepo,
		Inventory: inventorySvc,
	}, nil)

	sum, err := svc.SummaryFor(ctx, u.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Lofts)
	assert.Equal(t, 2, sum.Birds)
	assert.Equal(t, 1, sum.BirdsBySex[models.SexFemale])
	assert.Equal(t, 2, sum.TasksToday)
	assert.Equal(t, 1, sum.TasksCompleted)
	assert.Equal(t, 1, sum.TasksPending)
	require.Len(t, sum.PendingTasks, 1)
	assert.Equal(t, "Vaccinate", sum.PendingTasks[0].Title)
	assert.Equal(t, 1, sum.ActivePairings)
	assert.Equal(t, 2, sum.EggsIncubating)
	assert.Equal(t, 1, sum.EggsDueSoon)
	assert.Equal(t, 1, sum.LowStockItems)
	assert.InDelta(t, 3.0, sum.InventoryValue, 1e-9)
}
