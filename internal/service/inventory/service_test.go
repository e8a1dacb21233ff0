package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/loftkeeper/internal/domain/apperr"
	"github.com/mamadbah2/loftkeeper/internal/domain/models"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore/sqlstoretest"
	"github.com/mamadbah2/loftkeeper/internal/service/inventory"
)

func TestService_LowStockAndValue(t *testing.T) {
	ctx := context.Background()
	db := sqlstoretest.New(t).DB()
	u := &models.User{ID: uuid.NewString(), Email: "keeper@example.com", PasswordHash: "x"}
	require.NoError(t, sqlstore.NewUserRepository(db).Create(ctx, u))
	svc := inventory.NewService(sqlstore.NewInventoryRepository(db), nil)

	grain, err := svc.Create(ctx, u.ID, inventory.Input{
		Name: "Grain mix", Category: models.InventoryFeed, Quantity: 5, Unit: "kg", MinQuantity: 10, UnitCost: 2.5,
	})
	require.NoError(t, err)
	assert.True(t, grain.LowStock)
	assert.InDelta(t, 12.5, grain.TotalValue, 1e-9)

	_, err = svc.Create(ctx, u.ID, inventory.Input{
		Name: "Drinkers", Category: models.InventoryEquipment, Quantity: 12, Unit: "pcs", MinQuantity: 2, UnitCost: 4,
	})
	require.NoError(t, err)

	low := true
	items, err := svc.List(ctx, u.ID, inventory.Filter{LowStock: &low})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Grain mix", items[0].Name)

	items, err = svc.List(ctx, u.ID, inventory.Filter{Category: models.InventoryEquipment})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].LowStock)

	restocked := 40.0
	grain, err = svc.Update(ctx, u.ID, grain.ID, inventory.UpdateInput{Quantity: &restocked})
	require.NoError(t, err)
	assert.False(t, grain.LowStock)

	negative := -1.0
	_, err = svc.Update(ctx, u.ID, grain.ID, inventory.UpdateInput{UnitCost: &negative})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, svc.Delete(ctx, u.ID, grain.ID))
	_, err = svc.Get(ctx, u.ID, grain.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
