// Package birds manages the birds housed in a user's lofts.
package birds

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/apperr"
	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps the row offset inside a 32-bit integer.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Repository is the bird persistence used by the service.
type Repository interface {
	Create(ctx context.Context, b *models.Bird) error
	Get(ctx context.Context, userID, id string) (*models.Bird, error)
	Page(ctx context.Context, userID string, f models.BirdFilter) ([]models.Bird, int, error)
	Stats(ctx context.Context, userID string) (*models.BirdStats, error)
	Update(ctx context.Context, b *models.Bird) error
	Delete(ctx context.Context, id string) error
}

// LoftChecker confirms a loft belongs to a user.
type LoftChecker interface {
	Get(ctx context.Context, userID, id string) (*models.Loft, error)
}

// Input registers a bird.
type Input struct {
	LoftID     string            `json:"loftId" binding:"required"`
	RingNumber string            `json:"ringNumber" binding:"required,max=64"`
	Name       string            `json:"name"`
	Sex        models.BirdSex    `json:"sex" binding:"required,oneof=MALE FEMALE UNKNOWN"`
	Color      string            `json:"color"`
	Breed      string            `json:"breed"`
	BirthDate  *models.Date      `json:"birthDate"`
	Status     models.BirdStatus `json:"status" binding:"omitempty,oneof=ACTIVE SOLD DECEASED LOST RETIRED"`
	FatherID   *string           `json:"fatherId"`
	MotherID   *string           `json:"motherId"`
	Notes      string            `json:"notes"`
}

// UpdateInput carries a partial bird update. An empty parent id clears the link.
type UpdateInput struct {
	LoftID     *string            `json:"loftId"`
	RingNumber *string            `json:"ringNumber" binding:"omitempty,min=1,max=64"`
	Name       *string            `json:"name"`
	Sex        *models.BirdSex    `json:"sex" binding:"omitempty,oneof=MALE FEMALE UNKNOWN"`
	Color      *string            `json:"color"`
	Breed      *string            `json:"breed"`
	BirthDate  *models.Date       `json:"birthDate"`
	Status     *models.BirdStatus `json:"status" binding:"omitempty,oneof=ACTIVE SOLD DECEASED LOST RETIRED"`
	FatherID   *string            `json:"fatherId"`
	MotherID   *string            `json:"motherId"`
	Notes      *string            `json:"notes"`
}

type Service struct {
	repo   Repository
	lofts  LoftChecker
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, lofts LoftChecker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, lofts: lofts, logger: logger, now: time.Now}
}

// List returns one page of birds. Page defaults to 1 and is capped at MaxPage;
// the page size defaults to DefaultPageSize and is capped at MaxPageSize.
func (s *Service) List(ctx context.Context, userID string, f models.BirdFilter) (*models.Page[models.Bird], error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	items, total, err := s.repo.Page(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list birds: %w", err)
	}
	return &models.Page[models.Bird]{Items: items, Page: f.Page, PageSize: f.PageSize, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*models.Bird, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Stats(ctx context.Context, userID string) (*models.BirdStats, error) {
	return s.repo.Stats(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (*models.Bird, error) {
	ring := strings.TrimSpace(in.RingNumber)
	if ring == "" {
		return nil, apperr.Invalid("ringNumber", "required")
	}
	if err := s.checkLoft(ctx, userID, in.LoftID); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = models.BirdActive
	}

	now := s.now().UTC()
	b := &models.Bird{
		ID:         uuid.NewString(),
		LoftID:     in.LoftID,
		RingNumber: ring,
		Name:       in.Name,
		Sex:        in.Sex,
		Color:      in.Color,
		Breed:      in.Breed,
		BirthDate:  birthTime(in.BirthDate),
		Status:     in.Status,
		FatherID:   blankToNil(in.FatherID),
		MotherID:   blankToNil(in.MotherID),
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.checkParents(ctx, userID, b); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, apperr.ErrDuplicateKey) {
			return nil, apperr.Conflict("ring number already registered")
		}
		return nil, fmt.Errorf("create bird: %w", err)
	}
	s.logger.Info("bird registered", zap.String("bird_id", b.ID), zap.String("ring_number", b.RingNumber))
	return b, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*models.Bird, error) {
	b, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.LoftID != nil && *in.LoftID != b.LoftID {
		if err := s.checkLoft(ctx, userID, *in.LoftID); err != nil {
			return nil, err
		}
		b.LoftID = *in.LoftID
	}
	if in.RingNumber != nil {
		ring := strings.TrimSpace(*in.RingNumber)
		if ring == "" {
			return nil, apperr.Invalid("ringNumber", "required")
		}
		b.RingNumber = ring
	}
	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.Sex != nil {
		b.Sex = *in.Sex
	}
	if in.Color != nil {
		b.Color = *in.Color
	}
	if in.Breed != nil {
		b.Breed = *in.Breed
	}
	if in.BirthDate != nil {
		b.BirthDate = birthTime(in.BirthDate)
	}
	if in.Status != nil {
		b.Status = *in.Status
	}
	if in.FatherID != nil {
		b.FatherID = blankToNil(in.FatherID)
	}
	if in.MotherID != nil {
		b.MotherID = blankToNil(in.MotherID)
	}
	if in.Notes != nil {
		b.Notes = *in.Notes
	}
	if err := s.checkParents(ctx, userID, b); err != nil {
		return nil, err
	}
	b.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		if errors.Is(err, apperr.ErrDuplicateKey) {
			return nil, apperr.Conflict("ring number already registered")
		}
		return nil, fmt.Errorf("update bird: %w", err)
	}
	return b, nil
}

// Delete removes a bird. Birds referenced by a pairing cannot be deleted.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.Get(ctx, userID, id); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, apperr.ErrForeignKey):
		return apperr.Conflict("bird is referenced by a pairing")
	case err != nil:
		return fmt.Errorf("delete bird: %w", err)
	}
	return nil
}

func (s *Service) checkLoft(ctx context.Context, userID, loftID string) error {
	if loftID == "" {
		return apperr.Invalid("loftId", "required")
	}
	if _, err := s.lofts.Get(ctx, userID, loftID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Invalid("loftId", "exists")
		}
		return err
	}
	return nil
}

func (s *Service) checkParents(ctx context.Context, userID string, b *models.Bird) error {
	var fields []apperr.FieldError
	check := func(field string, parentID *string, sex models.BirdSex) error {
		if parentID == nil {
			return nil
		}
		if *parentID == b.ID {
			fields = append(fields, apperr.FieldError{Field: field, Constraint: "self"})
			return nil
		}
		parent, err := s.repo.Get(ctx, userID, *parentID)
		if errors.Is(err, apperr.ErrNotFound) {
			fields = append(fields, apperr.FieldError{Field: field, Constraint: "exists"})
			return nil
		}
		if err != nil {
			return err
		}
		if parent.Sex != sex {
			fields = append(fields, apperr.FieldError{Field: field, Constraint: strings.ToLower(string(sex))})
		}
		return nil
	}
	if err := check("fatherId", b.FatherID, models.SexMale); err != nil {
		return err
	}
	if err := check("motherId", b.MotherID, models.SexFemale); err != nil {
		return err
	}
	return apperr.Validation(fields)
}

func blankToNil(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}

func birthTime(d *models.Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
