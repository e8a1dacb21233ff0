// Package inventory manages the stock kept for a user's lofts.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/apperr"
	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// Repository is the inventory persistence used by the service.
type Repository interface {
	List(ctx context.Context, userID string, category models.InventoryCategory) ([]models.InventoryItem, error)
	Get(ctx context.Context, userID, id string) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, item *models.InventoryItem) error
	Delete(ctx context.Context, id string) error
}

// Filter narrows a listing. A nil LowStock means any.
type Filter struct {
	Category models.InventoryCategory
	LowStock *bool
}

type Input struct {
	Name        string                   `json:"name" binding:"required,max=120"`
	Category    models.InventoryCategory `json:"category" binding:"required,oneof=FEED SUPPLEMENT MEDICATION EQUIPMENT OTHER"`
	Quantity    float64                  `json:"quantity" binding:"gte=0"`
	Unit        string                   `json:"unit" binding:"required,max=32"`
	MinQuantity float64                  `json:"minQuantity" binding:"gte=0"`
	UnitCost    float64                  `json:"unitCost" binding:"gte=0"`
	Notes       string                   `json:"notes"`
}

type UpdateInput struct {
	Name        *string                   `json:"name" binding:"omitempty,min=1,max=120"`
	Category    *models.InventoryCategory `json:"category" binding:"omitempty,oneof=FEED SUPPLEMENT MEDICATION EQUIPMENT OTHER"`
	Quantity    *float64                  `json:"quantity" binding:"omitempty,gte=0"`
	Unit        *string                   `json:"unit" binding:"omitempty,min=1,max=32"`
	MinQuantity *float64                  `json:"minQuantity" binding:"omitempty,gte=0"`
	UnitCost    *float64                  `json:"unitCost" binding:"omitempty,gte=0"`
	Notes       *string                   `json:"notes"`
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

// List returns annotated items matching f.
func (s *Service) List(ctx context.Context, userID string, f Filter) ([]models.InventoryItem, error) {
	items, err := s.repo.List(ctx, userID, f.Category)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, item := range items {
		item.Annotate()
		if f.LowStock != nil && item.LowStock != *f.LowStock {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*models.InventoryItem, error) {
	item, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	item.Annotate()
	return item, nil
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (*models.InventoryItem, error) {
	if err := checkAmounts(in.Quantity, in.MinQuantity, in.UnitCost); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	item := &models.InventoryItem{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		MinQuantity: in.MinQuantity,
		UnitCost:    in.UnitCost,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create inventory item: %w", err)
	}
	item.Annotate()
	if item.LowStock {
		s.logger.Info("inventory item below minimum", zap.String("item_id", item.ID), zap.String("name", item.Name))
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*models.InventoryItem, error) {
	item, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.MinQuantity != nil {
		item.MinQuantity = *in.MinQuantity
	}
	if in.UnitCost != nil {
		item.UnitCost = *in.UnitCost
	}
	if in.Notes != nil {
		item.Notes = *in.Notes
	}
	if err := checkAmounts(item.Quantity, item.MinQuantity, item.UnitCost); err != nil {
		return nil, err
	}
	item.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update inventory item: %w", err)
	}
	item.Annotate()
	return item, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func checkAmounts(quantity, minQuantity, unitCost float64) error {
	var fields []apperr.FieldError
	if quantity < 0 {
		fields = append(fields, apperr.FieldError{Field: "quantity", Constraint: "gte"})
	}
	if minQuantity < 0 {
		fields = append(fields, apperr.FieldError{Field: "minQuantity", Constraint: "gte"})
	}
	if unitCost < 0 {
		fields = append(fields, apperr.FieldError{Field: "unitCost", Constraint: "gte"})
	}
	return apperr.Validation(fields)
}
