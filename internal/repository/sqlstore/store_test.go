package sqlstore_test

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
)

type fixture struct {
	users    *sqlstore.UserRepository
	lofts    *sqlstore.LoftRepository
	birds    *sqlstore.BirdRepository
	tasks    *sqlstore.TaskRepository
	breeding *sqlstore.BreedingRepository
}

func newFixture(t *testing.T) fixture {
	db := sqlstoretest.New(t).DB()
	return fixture{
		users:    sqlstore.NewUserRepository(db),
		lofts:    sqlstore.NewLoftRepository(db),
		birds:    sqlstore.NewBirdRepository(db),
		tasks:    sqlstore.NewTaskRepository(db),
		breeding: sqlstore.NewBreedingRepository(db),
	}
}

func (f fixture) user(t *testing.T, email string) *models.User {
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Ada",
		LastName:     "Loft",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f fixture) loft(t *testing.T, userID, name string) *models.Loft {
	now := time.Now().UTC()
	l := &models.Loft{ID: uuid.NewString(), UserID: userID, Name: name, Capacity: 40, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.lofts.Create(context.Background(), l))
	return l
}

func (f fixture) bird(t *testing.T, loftID, ring string, sex models.BirdSex) *models.Bird {
	now := time.Now().UTC()
	b := &models.Bird{
		ID:         uuid.NewString(),
		LoftID:     loftID,
		RingNumber: ring,
		Name:       "bird " + ring,
		Sex:        sex,
		Status:     models.BirdActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.birds.Create(context.Background(), b))
	return b
}

func TestUserRepository_EmailIsUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.user(t, "Keeper@Example.com")

	got, err := f.users.GetByEmail(ctx, "keeper@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	dup := &models.User{ID: uuid.NewString(), Email: "keeper@example.com", PasswordHash: "x"}
	err = f.users.Create(ctx, dup)
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)
}

func TestLoftRepository_ScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")
	l := f.loft(t, owner.ID, "North")
	f.bird(t, l.ID, "BE-2024-1", models.SexMale)

	got, err := f.lofts.Get(ctx, owner.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.BirdCount)

	_, err = f.lofts.Get(ctx, other.ID, l.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := f.lofts.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLoftRepository_DeleteRestrictedByBirds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "owner@example.com")
	l := f.loft(t, u.ID, "North")
	b := f.bird(t, l.ID, "BE-2024-1", models.SexFemale)

	err := f.lofts.Delete(ctx, l.ID)
	require.ErrorIs(t, err, apperr.ErrForeignKey)

	require.NoError(t, f.birds.Delete(ctx, b.ID))
	require.NoError(t, f.lofts.Delete(ctx, l.ID))

	err = f.lofts.Delete(ctx, l.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBirdRepository_PageAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "owner@example.com")
	north := f.loft(t, u.ID, "North")
	south := f.loft(t, u.ID, "South")
	f.bird(t, north.ID, "A-1", models.SexMale)
	f.bird(t, north.ID, "A-2", models.SexFemale)
	f.bird(t, south.ID, "B-1", models.SexFemale)

	err := f.birds.Create(ctx, &models.Bird{
		ID: uuid.NewString(), LoftID: south.ID, RingNumber: "A-1", Sex: models.SexMale, Status: models.BirdActive,
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)

	items, total, err := f.birds.Page(ctx, u.ID, models.BirdFilter{Sex: models.SexFemale, Page: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "A-2", items[0].RingNumber)

	items, total, err = f.birds.Page(ctx, u.ID, models.BirdFilter{Search: "b-", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, south.ID, items[0].LoftID)

	stats, err := f.birds.Stats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.ByStatus[models.BirdActive])
	assert.Equal(t, 2, stats.BySex[models.SexFemale])
	require.Len(t, stats.ByLoft, 2)
	assert.Equal(t, "North", stats.ByLoft[0].LoftName)
	assert.Equal(t, 2, stats.ByLoft[0].Count)
}

func TestTaskRepository_CompletionUpsertKeepsOneRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "owner@example.com")
	task := &models.Task{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Title:     "Clean drinkers",
		Category:  models.CategoryCleaning,
		Priority:  models.PriorityMedium,
		Frequency: models.FrequencyDaily,
		StartDate: models.NewDate(2024, time.January, 1),
	}
	require.NoError(t, f.tasks.Create(ctx, task))
	day := models.NewDate(2024, time.January, 2)

	first, err := f.tasks.UpsertCompletion(ctx, &models.TaskCompletion{
		ID: uuid.NewString(), TaskID: task.ID, Date: day, Notes: "first", CompletedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	second, err := f.tasks.UpsertCompletion(ctx, &models.TaskCompletion{
		ID: uuid.NewString(), TaskID: task.ID, Date: day, Notes: "second", CompletedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "second", second.Notes)

	rows, err := f.tasks.Completions(ctx, []string{task.ID}, day.AddDays(-1), day.AddDays(1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Date.Equal(day))

	removed, err := f.tasks.DeleteCompletion(ctx, task.ID, day)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.tasks.DeleteCompletion(ctx, task.ID, day)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestBreedingRepository_ActivePairingAndEggs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "owner@example.com")
	l := f.loft(t, u.ID, "North")
	cock := f.bird(t, l.ID, "M-1", models.SexMale)
	hen := f.bird(t, l.ID, "F-1", models.SexFemale)

	p := &models.Pairing{
		ID:       uuid.NewString(),
		LoftID:   l.ID,
		MaleID:   cock.ID,
		FemaleID: hen.ID,
		PairedAt: models.NewDate(2024, time.March, 1),
		Status:   models.PairingActive,
	}
	require.NoError(t, f.breeding.CreatePairing(ctx, p))

	active, err := f.breeding.HasActivePairing(ctx, hen.ID)
	require.NoError(t, err)
	assert.True(t, active)

	laid := models.NewDate(2024, time.March, 10)
	egg := &models.Egg{
		ID:              uuid.NewString(),
		PairingID:       p.ID,
		LaidAt:          laid,
		ExpectedHatchAt: laid.AddDays(models.IncubationDays),
		Status:          models.EggLaid,
	}
	require.NoError(t, f.breeding.CreateEgg(ctx, egg))

	incubating, err := f.breeding.IncubatingEggs(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, incubating, 1)
	assert.Equal(t, "2024-03-28", incubating[0].ExpectedHatchAt.String())

	err = f.birds.Delete(ctx, cock.ID)
	assert.ErrorIs(t, err, apperr.ErrForeignKey)

	require.NoError(t, f.breeding.DeletePairing(ctx, p.ID))
	eggs, err := f.breeding.ListEggs(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, eggs)
}
