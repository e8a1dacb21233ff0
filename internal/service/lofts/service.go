// Package lofts manages the lofts a user owns.
package lofts

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

// Repository is the loft persistence used by the service.
type Repository interface {
	Create(ctx context.Context, l *models.Loft) error
	List(ctx context.Context, userID string) ([]models.Loft, error)
	Get(ctx context.Context, userID, id string) (*models.Loft, error)
	First(ctx context.Context, userID string) (*models.Loft, error)
	Update(ctx context.Context, l *models.Loft) error
	Delete(ctx context.Context, id string) error
}

// Input creates a loft.
type Input struct {
	Name        string `json:"name" binding:"required,max=120"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity" binding:"gte=0"`
	Description string `json:"description"`
}

// UpdateInput carries a partial loft update.
type UpdateInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=120"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity" binding:"omitempty,gte=0"`
	Description *string `json:"description"`
}

type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID string) ([]models.Loft, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*models.Loft, error) {
	return s.repo.Get(ctx, userID, id)
}

// Mine returns the user's oldest loft.
func (s *Service) Mine(ctx context.Context, userID string) (*models.Loft, error) {
	return s.repo.First(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (*models.Loft, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("name", "required")
	}
	if in.Capacity < 0 {
		return nil, apperr.Invalid("capacity", "gte")
	}
	now := s.now().UTC()
	l := &models.Loft{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Location:    in.Location,
		Capacity:    in.Capacity,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create loft: %w", err)
	}
	s.logger.Info("loft created", zap.String("loft_id", l.ID), zap.String("user_id", userID))
	return l, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*models.Loft, error) {
	l, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Invalid("name", "required")
		}
		l.Name = name
	}
	if in.Location != nil {
		l.Location = *in.Location
	}
	if in.Capacity != nil {
		if *in.Capacity < 0 {
			return nil, apperr.Invalid("capacity", "gte")
		}
		l.Capacity = *in.Capacity
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	l.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update loft: %w", err)
	}
	return l, nil
}

// Delete removes an empty loft. A loft that still houses birds or pairings is
// a conflict.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.Get(ctx, userID, id); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, apperr.ErrForeignKey):
		return s.deleteConflict(ctx, userID, id)
	case err != nil:
		return fmt.Errorf("delete loft: %w", err)
	}
	s.logger.Info("loft deleted", zap.String("loft_id", id))
	return nil
}

// deleteConflict names what still references the loft. Birds and pairings are
// the only restricting references.
func (s *Service) deleteConflict(ctx context.Context, userID, id string) error {
	l, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("reload loft: %w", err)
	}
	if l.BirdCount > 0 {
		return apperr.Conflict("loft still has birds")
	}
	return apperr.Conflict("loft still has pairings")
}
