// Package tasks manages recurring task templates and their per-day completions.
package tasks

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

// MaxWindowDays bounds the span of a listing window.
const MaxWindowDays = 366

// Repository is the persistence the task service needs.
type Repository interface {
	Create(ctx context.Context, t *models.Task) error
	Get(ctx context.Context, userID, id string) (*models.Task, error)
	List(ctx context.Context, userID, loftID string) ([]models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, id string) error
	Completions(ctx context.Context, taskIDs []string, from, to models.Date) ([]models.TaskCompletion, error)
	UpsertCompletion(ctx context.Context, c *models.TaskCompletion) (*models.TaskCompletion, error)
	CompletionsOf(ctx context.Context, taskID string) ([]models.TaskCompletion, error)
	DeleteCompletion(ctx context.Context, taskID string, date models.Date) (bool, error)
}

// LoftChecker confirms a loft belongs to a user.
type LoftChecker interface {
	Get(ctx context.Context, userID, id string) (*models.Loft, error)
}

// CreateInput describes a new task template.
type CreateInput struct {
	Title       string              `json:"title" binding:"required,max=200"`
	Description string              `json:"description"`
	Category    models.TaskCategory `json:"category" binding:"required,oneof=FEEDING CLEANING HEALTH TRAINING BREEDING OTHER"`
	Priority    models.Priority     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Frequency   models.Frequency    `json:"frequency" binding:"required,oneof=NONE DAILY WEEKLY MONTHLY"`
	StartDate   models.Date         `json:"startDate"`
	EndDate     *models.Date        `json:"endDate"`
	LoftID      *string             `json:"loftId"`
}

// UpdateInput carries a partial task update; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string              `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string              `json:"description"`
	Category    *models.TaskCategory `json:"category" binding:"omitempty,oneof=FEEDING CLEANING HEALTH TRAINING BREEDING OTHER"`
	Priority    *models.Priority     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Frequency   *models.Frequency    `json:"frequency" binding:"omitempty,oneof=NONE DAILY WEEKLY MONTHLY"`
	StartDate   *models.Date         `json:"startDate"`
	EndDate     *models.Date         `json:"endDate"`
	ClearEnd    bool                 `json:"clearEndDate"`
	LoftID      *string              `json:"loftId"`
}

// CompleteInput marks one occurrence as done.
type CompleteInput struct {
	TaskID string      `json:"taskId" binding:"required"`
	Date   models.Date `json:"date"`
	Notes  string      `json:"notes"`
}

// Service implements task template management and occurrence listing.
type Service struct {
	repo   Repository
	lofts  LoftChecker
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a task service.
func NewService(repo Repository, lofts LoftChecker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, lofts: lofts, logger: logger, now: time.Now}
}

// ParseWindow validates the optional from/to query values. Both empty means
// the current week.
func (s *Service) ParseWindow(from, to string) (Window, error) {
	if from == "" && to == "" {
		return CurrentWeek(s.now()), nil
	}

	var fields []apperr.FieldError
	w := CurrentWeek(s.now())
	if from != "" {
		d, err := models.ParseDate(from)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "from", Constraint: "date"})
		}
		w.From = d
	}
	if to != "" {
		d, err := models.ParseDate(to)
		if err != nil {
			fields = append(fields, apperr.FieldError{Field: "to", Constraint: "date"})
		}
		w.To = d
	}
	if from != "" && to == "" {
		w.To = w.From.AddDays(6)
	}
	if to != "" && from == "" {
		w.From = w.To.AddDays(-6)
	}
	if err := apperr.Validation(fields); err != nil {
		return Window{}, err
	}

	if w.From.After(w.To) {
		return Window{}, apperr.Invalid("from", "before_to")
	}
	if w.Days() > MaxWindowDays {
		return Window{}, apperr.Invalid("to", "max_window")
	}
	return w, nil
}

// Create stores a new task template for userID.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Invalid("title", "required")
	}
	if in.StartDate.IsZero() {
		return nil, apperr.Invalid("startDate", "required")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	loftID, err := s.checkLoft(ctx, userID, in.LoftID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		LoftID:      loftID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		Frequency:   in.Frequency,
		StartDate:   in.StartDate,
		EndDate:     nonZero(in.EndDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("frequency", string(task.Frequency)))
	return task, nil
}

// Get returns the template with all its recorded completions.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	task, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	completions, err := s.repo.CompletionsOf(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}
	task.Completions = completions
	return task, nil
}

// ListOccurrences expands the user's tasks over w.
func (s *Service) ListOccurrences(ctx context.Context, userID, loftID string, w Window) ([]models.Occurrence, error) {
	templates, err := s.repo.List(ctx, userID, loftID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	ids := make([]string, 0, len(templates))
	for _, t := range templates {
		ids = append(ids, t.ID)
	}
	completions, err := s.repo.Completions(ctx, ids, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	return Occurrences(templates, completions, w), nil
}

// Update applies a partial update to a template.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*models.Task, error) {
	task, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.Invalid("title", "required")
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Category != nil {
		task.Category = *in.Category
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Frequency != nil {
		task.Frequency = *in.Frequency
	}
	if in.StartDate != nil && !in.StartDate.IsZero() {
		task.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		task.EndDate = nonZero(in.EndDate)
	}
	if in.ClearEnd {
		task.EndDate = nil
	}
	if in.LoftID != nil {
		loftID, err := s.checkLoft(ctx, userID, in.LoftID)
		if err != nil {
			return nil, err
		}
		task.LoftID = loftID
	}
	task.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes a template and its completions.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Complete records the completion of one occurrence. Completing the same
// occurrence again overwrites the notes of the existing record.
func (s *Service) Complete(ctx context.Context, userID string, in CompleteInput) (*models.TaskCompletion, error) {
	task, err := s.repo.Get(ctx, userID, in.TaskID)
	if err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, apperr.Invalid("date", "required")
	}
	if !IsOccurrence(*task, in.Date) {
		return nil, apperr.Invalid("date", "occurrence")
	}

	c := &models.TaskCompletion{
		ID:          uuid.NewString(),
		TaskID:      task.ID,
		Date:        in.Date,
		Notes:       in.Notes,
		CompletedAt: s.now().UTC(),
	}
	stored, err := s.repo.UpsertCompletion(ctx, c)
	if errors.Is(err, apperr.ErrDuplicateKey) {
		// A concurrent insert won the race; update that row instead.
		s.logger.Debug("completion already recorded, updating", zap.String("task_id", task.ID))
		stored, err = s.repo.UpsertCompletion(ctx, c)
	}
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	return stored, nil
}

// Uncomplete removes the completion of one occurrence. A missing completion is
// not an error.
func (s *Service) Uncomplete(ctx context.Context, userID, taskID string, date models.Date) error {
	if date.IsZero() {
		return apperr.Invalid("date", "required")
	}
	if _, err := s.repo.Get(ctx, userID, taskID); err != nil {
		return err
	}
	removed, err := s.repo.DeleteCompletion(ctx, taskID, date)
	if err != nil {
		return fmt.Errorf("uncomplete task: %w", err)
	}
	s.logger.Debug("completion removed",
		zap.String("task_id", taskID),
		zap.String("date", date.String()),
		zap.Bool("existed", removed))
	return nil
}

func (s *Service) checkLoft(ctx context.Context, userID string, loftID *string) (*string, error) {
	if loftID == nil || *loftID == "" {
		return nil, nil
	}
	if _, err := s.lofts.Get(ctx, userID, *loftID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Invalid("loftId", "exists")
		}
		return nil, err
	}
	id := *loftID
	return &id, nil
}

func nonZero(d *models.Date) *models.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	v := *d
	return &v
}
