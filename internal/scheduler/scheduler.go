package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/config"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// WeeklyReporter builds and archives the weekly report.
type WeeklyReporter interface {
	WeeklyReport(ctx context.Context) (models.WeeklyReport, error)
}

// GoalRefresher recomputes auto-tracked goals.
type GoalRefresher interface {
	Refresh(ctx context.Context) ([]models.Goal, error)
}

// Notifier delivers text to the owner.
type Notifier interface {
	NotifyOwner(ctx context.Context, body string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.ReportingConfig
	reporter WeeklyReporter
	goals    GoalRefresher
	notifier Notifier
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone. notifier
// may be nil, in which case reports are generated but not delivered.
func NewScheduler(cfg config.ReportingConfig, reporter WeeklyReporter, goals GoalRefresher, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	cl := cronLogger{sugar: logger.Sugar()}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		cfg:      cfg,
		reporter: reporter,
		goals:    goals,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("report_schedule", s.cfg.CronSchedule),
		zap.String("goal_refresh_schedule", s.cfg.GoalRefreshCron))

	if s.reporter != nil && s.cfg.CronSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.weeklyReportJob); err != nil {
			return fmt.Errorf("schedule weekly report: %w", err)
		}
	}
	if s.goals != nil && s.cfg.GoalRefreshCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.GoalRefreshCron, s.goalRefreshJob); err != nil {
			return fmt.Errorf("schedule goal refresh: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) weeklyReportJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.RunWeeklyReport(ctx); err != nil {
		s.logger.Error("weekly report job failed", zap.Error(err))
	}
}

func (s *Scheduler) goalRefreshJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.RefreshGoals(ctx); err != nil {
		s.logger.Error("goal refresh job failed", zap.Error(err))
	}
}

// RunWeeklyReport generates the weekly report and sends it to the owner.
func (s *Scheduler) RunWeeklyReport(ctx context.Context) error {
	s.logger.Info("generating weekly report")

	report, err := s.reporter.WeeklyReport(ctx)
	if err != nil {
		return fmt.Errorf("generate weekly report: %w", err)
	}
	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.NotifyOwner(ctx, report.Text); err != nil {
		return fmt.Errorf("send weekly report: %w", err)
	}

	s.logger.Info("weekly report sent successfully")
	return nil
}

// RefreshGoals recomputes auto-tracked goals.
func (s *Scheduler) RefreshGoals(ctx context.Context) error {
	goals, err := s.goals.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh goals: %w", err)
	}
	s.logger.Debug("goals refreshed", zap.Int("goals", len(goals)))
	return nil
}

// cronLogger routes cron's own logging, including recovered job panics, to zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
