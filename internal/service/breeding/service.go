// Package breeding manages pairings and the eggs they produce.
package breeding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/apperr"
	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// Repository is the breeding persistence used by the service.
type Repository interface {
	ListPairings(ctx context.Context, userID string, status models.PairingStatus) ([]models.Pairing, error)
	GetPairing(ctx context.Context, userID, id string) (*models.Pairing, error)
	CreatePairing(ctx context.Context, p *models.Pairing) error
	UpdatePairing(ctx context.Context, p *models.Pairing) error
	DeletePairing(ctx context.Context, id string) error
	HasActivePairing(ctx context.Context, birdID string) (bool, error)

	ListEggs(ctx context.Context, pairingID string) ([]models.Egg, error)
	GetEgg(ctx context.Context, userID, id string) (*models.Egg, error)
	CreateEgg(ctx context.Context, e *models.Egg) error
	UpdateEgg(ctx context.Context, e *models.Egg) error
}

// BirdFinder loads a bird owned by a user.
type BirdFinder interface {
	Get(ctx context.Context, userID, id string) (*models.Bird, error)
}

type PairingInput struct {
	MaleID   string      `json:"maleId" binding:"required"`
	FemaleID string      `json:"femaleId" binding:"required"`
	PairedAt models.Date `json:"pairedAt"`
	Notes    string      `json:"notes"`
}

type PairingUpdate struct {
	Notes       *string      `json:"notes"`
	// End separates the pair.
	End         bool         `json:"end"`
	SeparatedAt *models.Date `json:"separatedAt"`
}

type EggInput struct {
	LaidAt models.Date `json:"laidAt"`
	Notes  string      `json:"notes"`
}

type EggUpdate struct {
	Status    *models.EggStatus `json:"status" binding:"omitempty,oneof=LAID FERTILE INFERTILE HATCHED BROKEN"`
	HatchedAt *models.Date      `json:"hatchedAt"`
	ChickID   *string           `json:"chickId"`
	Notes     *string           `json:"notes"`
}

type Service struct {
	repo   Repository
	birds  BirdFinder
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, birds BirdFinder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, birds: birds, logger: logger, now: time.Now}
}

func (s *Service) ListPairings(ctx context.Context, userID string, status models.PairingStatus) ([]models.Pairing, error) {
	return s.repo.ListPairings(ctx, userID, status)
}

// CreatePairing pairs an active cock with an active hen of the same user.
// Neither bird may already be part of an active pairing.
func (s *Service) CreatePairing(ctx context.Context, userID string, in PairingInput) (*models.Pairing, error) {
	male, err := s.parent(ctx, userID, "maleId", in.MaleID, models.SexMale)
	if err != nil {
		return nil, err
	}
	female, err := s.parent(ctx, userID, "femaleId", in.FemaleID, models.SexFemale)
	if err != nil {
		return nil, err
	}
	for _, b := range []*models.Bird{male, female} {
		busy, err := s.repo.HasActivePairing(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("check pairing: %w", err)
		}
		if busy {
			return nil, apperr.Conflict(fmt.Sprintf("bird %s is already paired", b.RingNumber))
		}
	}

	now := s.now().UTC()
	pairedAt := in.PairedAt
	if pairedAt.IsZero() {
		pairedAt = models.DateOf(now)
	}
	p := &models.Pairing{
		ID:        uuid.NewString(),
		LoftID:    female.LoftID,
		MaleID:    male.ID,
		FemaleID:  female.ID,
		PairedAt:  pairedAt,
		Status:    models.PairingActive,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreatePairing(ctx, p); err != nil {
		return nil, fmt.Errorf("create pairing: %w", err)
	}
	s.logger.Info("pairing created", zap.String("pairing_id", p.ID))
	return p, nil
}

func (s *Service) parent(ctx context.Context, userID, field, id string, sex models.BirdSex) (*models.Bird, error) {
	b, err := s.birds.Get(ctx, userID, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Invalid(field, "exists")
	}
	if err != nil {
		return nil, err
	}
	if b.Sex != sex {
		return nil, apperr.Invalid(field, strings.ToLower(string(sex)))
	}
	if b.Status != models.BirdActive {
		return nil, apperr.Invalid(field, "active")
	}
	return b, nil
}

func (s *Service) UpdatePairing(ctx context.Context, userID, id string, in PairingUpdate) (*models.Pairing, error) {
	p, err := s.repo.GetPairing(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	now := s.now().UTC()
	if in.End && p.Status == models.PairingActive {
		separated := models.DateOf(now)
		if in.SeparatedAt != nil && !in.SeparatedAt.IsZero() {
			separated = *in.SeparatedAt
		}
		if separated.Before(p.PairedAt) {
			return nil, apperr.Invalid("separatedAt", "after_paired")
		}
		p.Status = models.PairingEnded
		p.SeparatedAt = &separated
	}
	p.UpdatedAt = now
	if err := s.repo.UpdatePairing(ctx, p); err != nil {
		return nil, fmt.Errorf("update pairing: %w", err)
	}
	return p, nil
}

func (s *Service) DeletePairing(ctx context.Context, userID, id string) error {
	if _, err := s.repo.GetPairing(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeletePairing(ctx, id)
}

func (s *Service) ListEggs(ctx context.Context, userID, pairingID string) ([]models.Egg, error) {
	if _, err := s.repo.GetPairing(ctx, userID, pairingID); err != nil {
		return nil, err
	}
	return s.repo.ListEggs(ctx, pairingID)
}

// AddEgg records an egg; its expected hatch date is IncubationDays after laying.
func (s *Service) AddEgg(ctx context.Context, userID, pairingID string, in EggInput) (*models.Egg, error) {
	p, err := s.repo.GetPairing(ctx, userID, pairingID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	laid := in.LaidAt
	if laid.IsZero() {
		laid = models.DateOf(now)
	}
	if laid.Before(p.PairedAt) {
		return nil, apperr.Invalid("laidAt", "after_paired")
	}
	e := &models.Egg{
		ID:              uuid.NewString(),
		PairingID:       p.ID,
		LaidAt:          laid,
		ExpectedHatchAt: laid.AddDays(models.IncubationDays),
		Status:          models.EggLaid,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateEgg(ctx, e); err != nil {
		return nil, fmt.Errorf("create egg: %w", err)
	}
	return e, nil
}

func (s *Service) UpdateEgg(ctx context.Context, userID, id string, in EggUpdate) (*models.Egg, error) {
	e, err := s.repo.GetEgg(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		e.Status = *in.Status
	}
	if in.HatchedAt != nil && !in.HatchedAt.IsZero() {
		if in.HatchedAt.Before(e.LaidAt) {
			return nil, apperr.Invalid("hatchedAt", "after_laid")
		}
		h := *in.HatchedAt
		e.HatchedAt = &h
	}
	if e.Status == models.EggHatched && e.HatchedAt == nil {
		h := models.DateOf(s.now().UTC())
		e.HatchedAt = &h
	}
	if in.ChickID != nil {
		if *in.ChickID == "" {
			e.ChickID = nil
		} else {
			if _, err := s.birds.Get(ctx, userID, *in.ChickID); err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					return nil, apperr.Invalid("chickId", "exists")
				}
				return nil, err
			}
			chick := *in.ChickID
			e.ChickID = &chick
		}
	}
	if in.Notes != nil {
		e.Notes = *in.Notes
	}
	e.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateEgg(ctx, e); err != nil {
		return nil, fmt.Errorf("update egg: %w", err)
	}
	return e, nil
}
