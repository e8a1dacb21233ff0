package lofts_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/loftkeeper/internal/domain/apperr"
	"github.com/mamadbah2/loftkeeper/internal/domain/models"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore"
	"github.com/mamadbah2/loftkeeper/internal/repository/sqlstore/sqlstoretest"
	"github.com/mamadbah2/loftkeeper/internal/service/lofts"
)

func TestService_DeleteLoftWithBirdsConflicts(t *testing.T) {
	ctx := context.Background()
	db := sqlstoretest.New(t).DB()
	u := &models.User{ID: uuid.NewString(), Email: "keeper@example.com", PasswordHash: "x"}
	require.NoError(t, sqlstore.NewUserRepository(db).Create(ctx, u))
	svc := lofts.NewService(sqlstore.NewLoftRepository(db), nil)

	l, err := svc.Create(ctx, u.ID, lofts.Input{Name: "North", Capacity: 30})
	require.NoError(t, err)

	birds := sqlstore.NewBirdRepository(db)
	require.NoError(t, birds.Create(ctx, &models.Bird{
		ID: uuid.NewString(), LoftID: l.ID, RingNumber: "NL-1", Sex: models.SexMale, Status: models.BirdActive,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	err = svc.Delete(ctx, u.ID, l.ID)
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "loft still has birds")

	got, err := svc.Get(ctx, u.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.BirdCount)
}

func TestService_DeleteLoftWithPairingsConflicts(t *testing.T) {
	ctx := context.Background()
	db := sqlstoretest.New(t).DB()
	u := &models.User{ID: uuid.NewString(), Email: "keeper@example.com", PasswordHash: "x"}
	require.NoError(t, sqlstore.NewUserRepository(db).Create(ctx, u))
	svc := lofts.NewService(sqlstore.NewLoftRepository(db), nil)

	old, err := svc.Create(ctx, u.ID, lofts.Input{Name: "Old"})
	require.NoError(t, err)
	fresh, err := svc.Create(ctx, u.ID, lofts.Input{Name: "New"})
	require.NoError(t, err)

	now := time.Now()
	birds := sqlstore.NewBirdRepository(db)
	male := &models.Bird{ID: uuid.NewString(), LoftID: old.ID, RingNumber: "NL-1", Sex: models.SexMale, Status: models.BirdActive, CreatedAt: now, UpdatedAt: now}
	female := &models.Bird{ID: uuid.NewString(), LoftID: old.ID, RingNumber: "NL-2", Sex: models.SexFemale, Status: models.BirdActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, birds.Create(ctx, male))
	require.NoError(t, birds.Create(ctx, female))
	require.NoError(t, sqlstore.NewBreedingRepository(db).CreatePairing(ctx, &models.Pairing{
		ID: uuid.NewString(), LoftID: old.ID, MaleID: male.ID, FemaleID: female.ID,
		PairedAt: models.DateOf(now), Status: models.PairingActive, CreatedAt: now, UpdatedAt: now,
	}))

	for _, b := range []*models.Bird{male, female} {
		b.LoftID = fresh.ID
		require.NoError(t, birds.Update(ctx, b))
	}

	err = svc.Delete(ctx, u.ID, old.ID)
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "loft still has pairings")
}

func TestService_MineAndUpdate(t *testing.T) {
	ctx := context.Background()
	db := sqlstoretest.New(t).DB()
	u := &models.User{ID: uuid.NewString(), Email: "keeper@example.com", PasswordHash: "x"}
	require.NoError(t, sqlstore.NewUserRepository(db).Create(ctx, u))
	svc := lofts.NewService(sqlstore.NewLoftRepository(db), nil)

	_, err := svc.Mine(ctx, u.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	first, err := svc.Create(ctx, u.ID, lofts.Input{Name: "First"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Create(ctx, u.ID, lofts.Input{Name: "Second"})
	require.NoError(t, err)

	mine, err := svc.Mine(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, mine.ID)

	negative := -1
	_, err = svc.Update(ctx, u.ID, first.ID, lofts.UpdateInput{Capacity: &negative})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	name := "Renamed"
	updated, err := svc.Update(ctx, u.ID, first.ID, lofts.UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	_, err = svc.Create(ctx, u.ID, lofts.Input{Name: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
