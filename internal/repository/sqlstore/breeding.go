package sqlstore

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// BreedingRepository persists pairings and their eggs.
type BreedingRepository struct {
	db       bun.IDB
	pairings loftScoped[models.Pairing]
	eggs     table[models.Egg]
}

// NewBreedingRepository builds a breeding repository over db.
func NewBreedingRepository(db bun.IDB) *BreedingRepository {
	return &BreedingRepository{
		db:       db,
		pairings: newLoftScoped[models.Pairing](db, "pairing"),
		eggs:     newTable[models.Egg](db, "egg"),
	}
}

// ListPairings returns the pairings of userID, newest first, optionally by status.
func (r *BreedingRepository) ListPairings(ctx context.Context, userID string, status models.PairingStatus) ([]models.Pairing, error) {
	pairings := make([]models.Pairing, 0)
	q := r.pairings.owned(&pairings, userID)
	if status != "" {
		q = q.Where("pr.status = ?", status)
	}
	if err := q.Order("pr.paired_at DESC", "pr.id ASC").Scan(ctx); err != nil {
		return nil, translate(err, "list pairings", "pairing")
	}
	return pairings, nil
}

func (r *BreedingRepository) GetPairing(ctx context.Context, userID, id string) (*models.Pairing, error) {
	return r.pairings.get(ctx, userID, id)
}

func (r *BreedingRepository) CreatePairing(ctx context.Context, p *models.Pairing) error {
	return r.pairings.insert(ctx, p)
}

func (r *BreedingRepository) UpdatePairing(ctx context.Context, p *models.Pairing) error {
	return r.pairings.update(ctx, p)
}

// DeletePairing removes a pairing together with its eggs.
func (r *BreedingRepository) DeletePairing(ctx context.Context, id string) error {
	return r.pairings.deleteByID(ctx, id)
}

// HasActivePairing reports whether birdID is part of an ACTIVE pairing.
func (r *BreedingRepository) HasActivePairing(ctx context.Context, birdID string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.Pairing)(nil)).
		Where("pr.status = ?", models.PairingActive).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("pr.male_id = ?", birdID).WhereOr("pr.female_id = ?", birdID)
		}).
		Exists(ctx)
	if err != nil {
		return false, translate(err, "check active pairing", "pairing")
	}
	return exists, nil
}

// CountActivePairings counts the ACTIVE pairings of userID.
func (r *BreedingRepository) CountActivePairings(ctx context.Context, userID string) (int, error) {
	n, err := r.pairings.owned((*models.Pairing)(nil), userID).
		Where("pr.status = ?", models.PairingActive).
		Count(ctx)
	if err != nil {
		return 0, translate(err, "count pairings", "pairing")
	}
	return n, nil
}

// ListEggs returns the eggs of a pairing in laying order.
func (r *BreedingRepository) ListEggs(ctx context.Context, pairingID string) ([]models.Egg, error) {
	eggs := make([]models.Egg, 0)
	err := r.db.NewSelect().
		Model(&eggs).
		Where("e.pairing_id = ?", pairingID).
		Order("e.laid_at ASC", "e.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "list eggs", "egg")
	}
	return eggs, nil
}

// GetEgg loads an egg whose pairing lives in a loft owned by userID.
func (r *BreedingRepository) GetEgg(ctx context.Context, userID, id string) (*models.Egg, error) {
	e := new(models.Egg)
	err := r.db.NewSelect().
		Model(e).
		Join("JOIN pairings AS pr ON pr.id = e.pairing_id").
		Join("JOIN lofts AS l ON l.id = pr.loft_id").
		Where("e.id = ?", id).
		Where("l.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "get egg", "egg")
	}
	return e, nil
}

func (r *BreedingRepository) CreateEgg(ctx context.Context, e *models.Egg) error {
	return r.eggs.insert(ctx, e)
}

func (r *BreedingRepository) UpdateEgg(ctx context.Context, e *models.Egg) error {
	return r.eggs.update(ctx, e)
}

// IncubatingEggs returns the LAID or FERTILE eggs of userID, soonest hatch first.
func (r *BreedingRepository) IncubatingEggs(ctx context.Context, userID string) ([]models.Egg, error) {
	eggs := make([]models.Egg, 0)
	err := r.db.NewSelect().
		Model(&eggs).
		Join("JOIN pairings AS pr ON pr.id = e.pairing_id").
		Join("JOIN lofts AS l ON l.id = pr.loft_id").
		Where("l.user_id = ?", userID).
		Where("e.status IN (?)", bun.In([]models.EggStatus{models.EggLaid, models.EggFertile})).
		Order("e.expected_hatch_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "list incubating eggs", "egg")
	}
	return eggs, nil
}
