package scheduler

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/loftkeeper/internal/config"
	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

type fakeReporter struct {
	archived []models.Date
	reminded []models.Date
}

func (f *fakeReporter) ArchiveAll(_ context.Context, day models.Date) error {
	f.archived = append(f.archived, day)
	return nil
}

func (f *fakeReporter) SendReminders(_ context.Context, day models.Date) (int, error) {
	f.reminded = append(f.reminded, day)
	return 0, nil
}

func TestJobsUseSchedulerTimezone(t *testing.T) {
	rep := &fakeReporter{}
	s, err := NewScheduler(config.ReportingConfig{
		CronSchedule: "0 20 * * *", ReminderSchedule: "0 7 * * *", Timezone: "Asia/Tokyo",
	}, rep, nil)
	require.NoError(t, err)
	// 2024-05-10 20:30 UTC is already 2024-05-11 in Tokyo.
	s.now = func() time.Time { return time.Date(2024, 5, 10, 20, 30, 0, 0, time.UTC) }

	s.runDailyReports()
	s.runReminders()

	require.Len(t, rep.archived, 1)
	assert.Equal(t, "2024-05-11", rep.archived[0].String())
	require.Len(t, rep.reminded, 1)
	assert.Equal(t, "2024-05-11", rep.reminded[0].String())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{
		CronSchedule: "every evening", ReminderSchedule: "0 7 * * *", Timezone: "UTC",
	}, &fakeReporter{}, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{
		CronSchedule: "0 20 * * *", ReminderSchedule: "0 7 * * *", Timezone: "UTC",
	}, &fakeReporter{}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	s.Stop()
}

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{Timezone: "Mars/Olympus"}, &fakeReporter{}, nil)
	assert.Error(t, err)
}
