package sqlstore

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// TaskRepository persists task templates and their per-day completions.
type TaskRepository struct {
	db          bun.IDB
	tasks       table[models.Task]
	completions table[models.TaskCompletion]
}

// NewTaskRepository builds a task repository over db.
func NewTaskRepository(db bun.IDB) *TaskRepository {
	return &TaskRepository{
		db:          db,
		tasks:       newTable[models.Task](db, "task"),
		completions: newTable[models.TaskCompletion](db, "task completion"),
	}
}

// Create inserts a task template.
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	return r.tasks.insert(ctx, t)
}

// Get loads a task owned by userID.
func (r *TaskRepository) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	t := new(models.Task)
	err := r.db.NewSelect().
		Model(t).
		Where("t.id = ?", id).
		Where("t.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "get task", "task")
	}
	return t, nil
}

// List returns the task templates of userID, optionally limited to one loft.
func (r *TaskRepository) List(ctx context.Context, userID, loftID string) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	q := r.db.NewSelect().Model(&tasks).Where("t.user_id = ?", userID)
	if loftID != "" {
		q = q.Where("t.loft_id = ?", loftID)
	}
	if err := q.Order("t.start_date ASC", "t.id ASC").Scan(ctx); err != nil {
		return nil, translate(err, "list tasks", "task")
	}
	return tasks, nil
}

// Update overwrites a task template by primary key.
func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	return r.tasks.update(ctx, t)
}

// Delete removes a task; its completions go with it.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.tasks.deleteByID(ctx, id)
}

// Completions returns the completions of taskIDs dated within [from, to].
func (r *TaskRepository) Completions(ctx context.Context, taskIDs []string, from, to models.Date) ([]models.TaskCompletion, error) {
	rows := make([]models.TaskCompletion, 0)
	if len(taskIDs) == 0 {
		return rows, nil
	}
	err := r.db.NewSelect().
		Model(&rows).
		Where("tc.task_id IN (?)", bun.In(taskIDs)).
		Where("tc.date >= ?", from).
		Where("tc.date <= ?", to).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "list task completions", "task completion")
	}
	return rows, nil
}

// CompletionsOf lists every completion of taskID, oldest first.
func (r *TaskRepository) CompletionsOf(ctx context.Context, taskID string) ([]models.TaskCompletion, error) {
	rows := make([]models.TaskCompletion, 0)
	err := r.db.NewSelect().
		Model(&rows).
		Where("tc.task_id = ?", taskID).
		Order("tc.date ASC").
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "list task completions", "task completion")
	}
	return rows, nil
}

// GetCompletion loads the completion of taskID on date.
func (r *TaskRepository) GetCompletion(ctx context.Context, taskID string, date models.Date) (*models.TaskCompletion, error) {
	c := new(models.TaskCompletion)
	err := r.db.NewSelect().
		Model(c).
		Where("tc.task_id = ?", taskID).
		Where("tc.date = ?", date).
		Scan(ctx)
	if err != nil {
		return nil, translate(err, "get task completion", "task completion")
	}
	return c, nil
}

// UpsertCompletion records c, or overwrites the notes and timestamp of the
// existing completion for the same task and date. It returns the stored row.
func (r *TaskRepository) UpsertCompletion(ctx context.Context, c *models.TaskCompletion) (*models.TaskCompletion, error) {
	err := r.completions.upsert(ctx, c,
		[]string{"task_id", "date"},
		[]string{"notes", "completed_at"})
	if err != nil {
		return nil, err
	}
	return r.GetCompletion(ctx, c.TaskID, c.Date)
}

// DeleteCompletion removes the completion of taskID on date. It reports
// whether a row existed.
func (r *TaskRepository) DeleteCompletion(ctx context.Context, taskID string, date models.Date) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*models.TaskCompletion)(nil)).
		Where("task_id = ?", taskID).
		Where("date = ?", date).
		Exec(ctx)
	if err != nil {
		return false, translate(err, "delete task completion", "task completion")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
