// Package reporting snapshots each user's daily state and delivers it to the
// configured sinks: the MongoDB archive, the Google Sheets export and WhatsApp
// reminders.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// SummaryBuilder produces the dashboard of a user as of a day.
type SummaryBuilder interface {
	SummaryFor(ctx context.Context, userID string, day models.Date) (*models.DashboardSummary, error)
}

// UserLister enumerates every account.
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// Archive persists daily reports.
type Archive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Exporter publishes daily reports to an external sheet.
type Exporter interface {
	AppendReport(ctx context.Context, report models.DailyReport) error
}

// Notifier delivers a text message to a phone number.
type Notifier interface {
	SendText(ctx context.Context, to, body string) error
}

// Sinks lists the optional report destinations. Nil sinks are skipped.
type Sinks struct {
	Archive  Archive
	Exporter Exporter
	Notifier Notifier
}

// Service builds daily reports and reminders.
type Service struct {
	summaries SummaryBuilder
	users     UserLister
	sinks     Sinks
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(summaries SummaryBuilder, users UserLister, sinks Sinks, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{summaries: summaries, users: users, sinks: sinks, logger: logger, now: time.Now}
}

// Snapshot builds the daily report of userID for day.
func (s *Service) Snapshot(ctx context.Context, userID string, day models.Date) (models.DailyReport, error) {
	sum, err := s.summaries.SummaryFor(ctx, userID, day)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("summary for %s: %w", userID, err)
	}
	return models.DailyReport{
		UserID:         userID,
		Date:           day.String(),
		Lofts:          sum.Lofts,
		Birds:          sum.Birds,
		ActiveBirds:    sum.BirdsByStatus[models.BirdActive],
		TasksDue:       sum.TasksToday,
		TasksCompleted: sum.TasksCompleted,
		ActivePairings: sum.ActivePairings,
		EggsIncubating: sum.EggsIncubating,
		LowStockItems:  sum.LowStockItems,
		CreatedAt:      s.now().UTC(),
	}, nil
}

// ArchiveAll snapshots every user for day and hands the reports to the
// archive and exporter. A failing user does not stop the others; the errors
// are joined.
func (s *Service) ArchiveAll(ctx context.Context, day models.Date) error {
	if s.sinks.Archive == nil && s.sinks.Exporter == nil {
		s.logger.Debug("no report sink configured, skipping daily reports")
		return nil
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	var errs []error
	archived := 0
	for _, u := range users {
		report, err := s.Snapshot(ctx, u.ID, day)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if s.sinks.Archive != nil {
			if err := s.sinks.Archive.SaveDailyReport(ctx, report); err != nil {
				errs = append(errs, fmt.Errorf("archive report for %s: %w", u.ID, err))
			}
		}
		if s.sinks.Exporter != nil {
			if err := s.sinks.Exporter.AppendReport(ctx, report); err != nil {
				errs = append(errs, fmt.Errorf("export report for %s: %w", u.ID, err))
			}
		}
		archived++
	}
	s.logger.Info("daily reports processed",
		zap.String("date", day.String()),
		zap.Int("users", len(users)),
		zap.Int("reports", archived),
		zap.Int("errors", len(errs)))
	return errors.Join(errs...)
}

// SendReminders texts every user with a phone number the tasks still pending
// on day. It returns the number of messages sent.
func (s *Service) SendReminders(ctx context.Context, day models.Date) (int, error) {
	if s.sinks.Notifier == nil {
		s.logger.Debug("no notifier configured, skipping reminders")
		return 0, nil
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	var errs []error
	sent := 0
	for _, u := range users {
		if strings.TrimSpace(u.Phone) == "" {
			continue
		}
		sum, err := s.summaries.SummaryFor(ctx, u.ID, day)
		if err != nil {
			errs = append(errs, fmt.Errorf("summary for %s: %w", u.ID, err))
			continue
		}
		if len(sum.PendingTasks) == 0 {
			continue
		}
		if err := s.sinks.Notifier.SendText(ctx, u.Phone, ReminderMessage(u, sum)); err != nil {
			errs = append(errs, fmt.Errorf("remind %s: %w", u.ID, err))
			continue
		}
		sent++
	}
	s.logger.Info("task reminders sent", zap.String("date", day.String()), zap.Int("sent", sent), zap.Int("errors", len(errs)))
	return sent, errors.Join(errs...)
}

// ReminderMessage formats the morning digest for u.
func ReminderMessage(u models.User, sum *models.DashboardSummary) string {
	var b strings.Builder
	name := u.FirstName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&b, "Good morning %s! %d task(s) for %s:\n", name, len(sum.PendingTasks), sum.Date.String())
	for _, occ := range sum.PendingTasks {
		marker := "-"
		if occ.Priority == models.PriorityHigh {
			marker = "!"
		}
		fmt.Fprintf(&b, "%s %s (%s)\n", marker, occ.Title, strings.ToLower(string(occ.Category)))
	}
	if sum.EggsDueSoon > 0 {
		fmt.Fprintf(&b, "%d egg(s) due to hatch soon.\n", sum.EggsDueSoon)
	}
	if sum.LowStockItems > 0 {
		fmt.Fprintf(&b, "%d inventory item(s) running low.\n", sum.LowStockItems)
	}
	return strings.TrimRight(b.String(), "\n")
}
