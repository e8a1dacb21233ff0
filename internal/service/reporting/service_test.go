package reporting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

type fakeSummaries struct {
	byUser map[string]*models.DashboardSummary
}

func (f fakeSummaries) SummaryFor(_ context.Context, userID string, day models.Date) (*models.DashboardSummary, error) {
	sum, ok := f.byUser[userID]
	if !ok {
		return nil, errors.New("boom")
	}
	cp := *sum
	cp.Date = day
	return &cp, nil
}

type fakeUsers []models.User

func (f fakeUsers) List(context.Context) ([]models.User, error) { return f, nil }

type recorder struct {
	reports  []models.DailyReport
	messages map[string]string
}

func (r *recorder) SaveDailyReport(_ context.Context, report models.DailyReport) error {
	r.reports = append(r.reports, report)
	return nil
}

func (r *recorder) SendText(_ context.Context, to, body string) error {
	if r.messages == nil {
		r.messages = map[string]string{}
	}
	r.messages[to] = body
	return nil
}

var day = models.NewDate(2024, 5, 10)

func TestArchiveAllContinuesPastFailures(t *testing.T) {
	summaries := fakeSummaries{byUser: map[string]*models.DashboardSummary{
		"u-1": {Lofts: 1, Birds: 10, BirdsByStatus: map[models.BirdStatus]int{models.BirdActive: 9}, TasksToday: 3, TasksCompleted: 1},
	}}
	rec := &recorder{}
	svc := NewService(summaries, fakeUsers{{ID: "u-1"}, {ID: "u-2"}}, Sinks{Archive: rec}, nil)

	err := svc.ArchiveAll(context.Background(), day)
	require.Error(t, err)
	require.Len(t, rec.reports, 1)

	report := rec.reports[0]
	assert.Equal(t, "u-1", report.UserID)
	assert.Equal(t, "2024-05-10", report.Date)
	assert.Equal(t, 9, report.ActiveBirds)
	assert.Equal(t, 3, report.TasksDue)
}

func TestArchiveAllWithoutSinksIsNoop(t *testing.T) {
	svc := NewService(fakeSummaries{}, fakeUsers{{ID: "u-1"}}, Sinks{}, nil)
	assert.NoError(t, svc.ArchiveAll(context.Background(), day))
}

func TestSendRemindersOnlyToUsersWithPendingTasks(t *testing.T) {
	pending := []models.Occurrence{
		{Title: "Medicate", Priority: models.PriorityHigh, Category: models.CategoryHealth},
		{Title: "Clean", Priority: models.PriorityLow, Category: models.CategoryCleaning},
	}
	summaries := fakeSummaries{byUser: map[string]*models.DashboardSummary{
		"busy": {PendingTasks: pending, EggsDueSoon: 1},
		"idle": {},
	}}
	rec := &recorder{}
	users := fakeUsers{
		{ID: "busy", FirstName: "Ada", Phone: "+32470000001"},
		{ID: "idle", FirstName: "Bo", Phone: "+32470000002"},
		{ID: "nophone"},
	}
	svc := NewService(summaries, users, Sinks{Notifier: rec}, nil)

	sent, err := svc.SendReminders(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, rec.messages, 1)

	msg := rec.messages["+32470000001"]
	assert.Contains(t, msg, "Good morning Ada! 2 task(s) for 2024-05-10")
	assert.Contains(t, msg, "! Medicate (health)")
	assert.Contains(t, msg, "- Clean (cleaning)")
	assert.Contains(t, msg, "1 egg(s) due to hatch soon.")
}
