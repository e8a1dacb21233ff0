package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/config"
	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

const jobTimeout = 5 * time.Minute

// Reporter is the reporting surface driven by the scheduler.
type Reporter interface {
	ArchiveAll(ctx context.Context, day models.Date) error
	SendReminders(ctx context.Context, day models.Date) (int, error)
}

// Scheduler manages the recurring report and reminder jobs.
type Scheduler struct {
	cron     *cron.Cron
	reporter Reporter
	cfg      config.ReportingConfig
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, reporter Reporter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reporter: reporter,
		cfg:      cfg,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailyReports); err != nil {
		return fmt.Errorf("schedule daily reports %q: %w", s.cfg.CronSchedule, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.ReminderSchedule, s.runReminders); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", s.cfg.ReminderSchedule, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("reports", s.cfg.CronSchedule),
		zap.String("reminders", s.cfg.ReminderSchedule),
		zap.String("timezone", s.loc.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// today is the current calendar day in the scheduler's timezone.
func (s *Scheduler) today() models.Date {
	return models.DateOf(s.now().In(s.loc))
}

func (s *Scheduler) runDailyReports() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	day := s.today()
	s.logger.Info("generating daily reports", zap.String("date", day.String()))
	if err := s.reporter.ArchiveAll(ctx, day); err != nil {
		s.logger.Error("daily reports finished with errors", zap.Error(err))
	}
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	day := s.today()
	sent, err := s.reporter.SendReminders(ctx, day)
	if err != nil {
		s.logger.Error("reminders finished with errors", zap.Int("sent", sent), zap.Error(err))
	}
}
