// Package nutrition manages feeding plans, supplements and water schedules.
package nutrition

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

// Repository is the nutrition persistence used by the service.
type Repository interface {
	ListFeedingPlans(ctx context.Context, userID, loftID string) ([]models.FeedingPlan, error)
	GetFeedingPlan(ctx context.Context, userID, id string) (*models.FeedingPlan, error)
	CreateFeedingPlan(ctx context.Context, p *models.FeedingPlan) error
	UpdateFeedingPlan(ctx context.Context, p *models.FeedingPlan) error
	DeleteFeedingPlan(ctx context.Context, id string) error

	ListSupplements(ctx context.Context, userID, loftID string) ([]models.Supplement, error)
	GetSupplement(ctx context.Context, userID, id string) (*models.Supplement, error)
	CreateSupplement(ctx context.Context, s *models.Supplement) error
	UpdateSupplement(ctx context.Context, s *models.Supplement) error
	DeleteSupplement(ctx context.Context, id string) error

	ListWaterSchedules(ctx context.Context, userID, loftID string) ([]models.WaterSchedule, error)
	GetWaterSchedule(ctx context.Context, userID, id string) (*models.WaterSchedule, error)
	CreateWaterSchedule(ctx context.Context, w *models.WaterSchedule) error
	UpdateWaterSchedule(ctx context.Context, w *models.WaterSchedule) error
	DeleteWaterSchedule(ctx context.Context, id string) error
}

// LoftChecker confirms a loft belongs to a user.
type LoftChecker interface {
	Get(ctx context.Context, userID, id string) (*models.Loft, error)
}

type FeedingPlanInput struct {
	LoftID        string       `json:"loftId" binding:"required"`
	Name          string       `json:"name" binding:"required,max=120"`
	FeedType      string       `json:"feedType" binding:"required"`
	QuantityGrams float64      `json:"quantityGrams" binding:"gte=0"`
	FeedingTimes  string       `json:"feedingTimes"`
	StartDate     models.Date  `json:"startDate"`
	EndDate       *models.Date `json:"endDate"`
	Active        *bool        `json:"active"`
	Notes         string       `json:"notes"`
}

type FeedingPlanUpdate struct {
	Name          *string      `json:"name" binding:"omitempty,min=1,max=120"`
	FeedType      *string      `json:"feedType" binding:"omitempty,min=1"`
	QuantityGrams *float64     `json:"quantityGrams" binding:"omitempty,gte=0"`
	FeedingTimes  *string      `json:"feedingTimes"`
	StartDate     *models.Date `json:"startDate"`
	EndDate       *models.Date `json:"endDate"`
	Active        *bool        `json:"active"`
	Notes         *string      `json:"notes"`
}

type SupplementInput struct {
	LoftID    string                `json:"loftId" binding:"required"`
	Name      string                `json:"name" binding:"required,max=120"`
	Type      models.SupplementType `json:"type" binding:"required,oneof=VITAMIN MINERAL PROBIOTIC MEDICATION ELECTROLYTE OTHER"`
	Dosage    string                `json:"dosage"`
	Frequency string                `json:"frequency"`
	StartDate models.Date           `json:"startDate"`
	EndDate   *models.Date          `json:"endDate"`
	Notes     string                `json:"notes"`
}

type SupplementUpdate struct {
	Name      *string                `json:"name" binding:"omitempty,min=1,max=120"`
	Type      *models.SupplementType `json:"type" binding:"omitempty,oneof=VITAMIN MINERAL PROBIOTIC MEDICATION ELECTROLYTE OTHER"`
	Dosage    *string                `json:"dosage"`
	Frequency *string                `json:"frequency"`
	StartDate *models.Date           `json:"startDate"`
	EndDate   *models.Date           `json:"endDate"`
	Notes     *string                `json:"notes"`
}

type WaterScheduleInput struct {
	LoftID              string     `json:"loftId" binding:"required"`
	Additive            string     `json:"additive"`
	ChangeIntervalHours int        `json:"changeIntervalHours" binding:"required,gte=1"`
	LastChangedAt       *time.Time `json:"lastChangedAt"`
	Notes               string     `json:"notes"`
}

type WaterScheduleUpdate struct {
	Additive            *string    `json:"additive"`
	ChangeIntervalHours *int       `json:"changeIntervalHours" binding:"omitempty,gte=1"`
	LastChangedAt       *time.Time `json:"lastChangedAt"`
	// ChangedNow stamps lastChangedAt with the current time.
	ChangedNow          bool       `json:"changedNow"`
	Notes               *string    `json:"notes"`
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

func (s *Service) checkLoft(ctx context.Context, userID, loftID string) error {
	if _, err := s.lofts.Get(ctx, userID, loftID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Invalid("loftId", "exists")
		}
		return err
	}
	return nil
}

func (s *Service) ListFeedingPlans(ctx context.Context, userID, loftID string) ([]models.FeedingPlan, error) {
	return s.repo.ListFeedingPlans(ctx, userID, loftID)
}

func (s *Service) CreateFeedingPlan(ctx context.Context, userID string, in FeedingPlanInput) (*models.FeedingPlan, error) {
	if err := s.checkLoft(ctx, userID, in.LoftID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	start := in.StartDate
	if start.IsZero() {
		start = models.DateOf(now)
	}
	if err := checkRange(start, in.EndDate); err != nil {
		return nil, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	p := &models.FeedingPlan{
		ID:            uuid.NewString(),
		LoftID:        in.LoftID,
		Name:          strings.TrimSpace(in.Name),
		FeedType:      in.FeedType,
		QuantityGrams: in.QuantityGrams,
		FeedingTimes:  in.FeedingTimes,
		StartDate:     start,
		EndDate:       nonZero(in.EndDate),
		Active:        active,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateFeedingPlan(ctx, p); err != nil {
		return nil, fmt.Errorf("create feeding plan: %w", err)
	}
	return p, nil
}

func (s *Service) UpdateFeedingPlan(ctx context.Context, userID, id string, in FeedingPlanUpdate) (*models.FeedingPlan, error) {
	p, err := s.repo.GetFeedingPlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.FeedType != nil {
		p.FeedType = *in.FeedType
	}
	if in.QuantityGrams != nil {
		p.QuantityGrams = *in.QuantityGrams
	}
	if in.FeedingTimes != nil {
		p.FeedingTimes = *in.FeedingTimes
	}
	if in.StartDate != nil && !in.StartDate.IsZero() {
		p.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = nonZero(in.EndDate)
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	if err := checkRange(p.StartDate, p.EndDate); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateFeedingPlan(ctx, p); err != nil {
		return nil, fmt.Errorf("update feeding plan: %w", err)
	}
	return p, nil
}

func (s *Service) DeleteFeedingPlan(ctx context.Context, userID, id string) error {
	if _, err := s.repo.GetFeedingPlan(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteFeedingPlan(ctx, id)
}

func (s *Service) ListSupplements(ctx context.Context, userID, loftID string) ([]models.Supplement, error) {
	return s.repo.ListSupplements(ctx, userID, loftID)
}

func (s *Service) CreateSupplement(ctx context.Context, userID string, in SupplementInput) (*models.Supplement, error) {
	if err := s.checkLoft(ctx, userID, in.LoftID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	start := in.StartDate
	if start.IsZero() {
		start = models.DateOf(now)
	}
	if err := checkRange(start, in.EndDate); err != nil {
		return nil, err
	}
	sp := &models.Supplement{
		ID:        uuid.NewString(),
		LoftID:    in.LoftID,
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		Dosage:    in.Dosage,
		Frequency: in.Frequency,
		StartDate: start,
		EndDate:   nonZero(in.EndDate),
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateSupplement(ctx, sp); err != nil {
		return nil, fmt.Errorf("create supplement: %w", err)
	}
	return sp, nil
}

func (s *Service) UpdateSupplement(ctx context.Context, userID, id string, in SupplementUpdate) (*models.Supplement, error) {
	sp, err := s.repo.GetSupplement(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		sp.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		sp.Type = *in.Type
	}
	if in.Dosage != nil {
		sp.Dosage = *in.Dosage
	}
	if in.Frequency != nil {
		sp.Frequency = *in.Frequency
	}
	if in.StartDate != nil && !in.StartDate.IsZero() {
		sp.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		sp.EndDate = nonZero(in.EndDate)
	}
	if in.Notes != nil {
		sp.Notes = *in.Notes
	}
	if err := checkRange(sp.StartDate, sp.EndDate); err != nil {
		return nil, err
	}
	sp.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateSupplement(ctx, sp); err != nil {
		return nil, fmt.Errorf("update supplement: %w", err)
	}
	return sp, nil
}

func (s *Service) DeleteSupplement(ctx context.Context, userID, id string) error {
	if _, err := s.repo.GetSupplement(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteSupplement(ctx, id)
}

// ListWaterSchedules returns the schedules annotated with their next change.
func (s *Service) ListWaterSchedules(ctx context.Context, userID, loftID string) ([]models.WaterSchedule, error) {
	schedules, err := s.repo.ListWaterSchedules(ctx, userID, loftID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range schedules {
		schedules[i].Annotate(now)
	}
	return schedules, nil
}

func (s *Service) CreateWaterSchedule(ctx context.Context, userID string, in WaterScheduleInput) (*models.WaterSchedule, error) {
	if err := s.checkLoft(ctx, userID, in.LoftID); err != nil {
		return nil, err
	}
	if in.ChangeIntervalHours < 1 {
		return nil, apperr.Invalid("changeIntervalHours", "gte")
	}
	now := s.now().UTC()
	w := &models.WaterSchedule{
		ID:                  uuid.NewString(),
		LoftID:              in.LoftID,
		Additive:            in.Additive,
		ChangeIntervalHours: in.ChangeIntervalHours,
		LastChangedAt:       utc(in.LastChangedAt),
		Notes:               in.Notes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.CreateWaterSchedule(ctx, w); err != nil {
		return nil, fmt.Errorf("create water schedule: %w", err)
	}
	w.Annotate(now)
	return w, nil
}

func (s *Service) UpdateWaterSchedule(ctx context.Context, userID, id string, in WaterScheduleUpdate) (*models.WaterSchedule, error) {
	w, err := s.repo.GetWaterSchedule(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if in.Additive != nil {
		w.Additive = *in.Additive
	}
	if in.ChangeIntervalHours != nil {
		if *in.ChangeIntervalHours < 1 {
			return nil, apperr.Invalid("changeIntervalHours", "gte")
		}
		w.ChangeIntervalHours = *in.ChangeIntervalHours
	}
	if in.LastChangedAt != nil {
		w.LastChangedAt = utc(in.LastChangedAt)
	}
	if in.ChangedNow {
		w.LastChangedAt = &now
	}
	if in.Notes != nil {
		w.Notes = *in.Notes
	}
	w.UpdatedAt = now
	if err := s.repo.UpdateWaterSchedule(ctx, w); err != nil {
		return nil, fmt.Errorf("update water schedule: %w", err)
	}
	w.Annotate(now)
	return w, nil
}

func (s *Service) DeleteWaterSchedule(ctx context.Context, userID, id string) error {
	if _, err := s.repo.GetWaterSchedule(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteWaterSchedule(ctx, id)
}

func checkRange(start models.Date, end *models.Date) error {
	if end != nil && !end.IsZero() && end.Before(start) {
		return apperr.Invalid("endDate", "after_start")
	}
	return nil
}

func nonZero(d *models.Date) *models.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	v := *d
	return &v
}

func utc(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}
