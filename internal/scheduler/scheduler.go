package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kasetgo/kaset/internal/config"
	"github.com/kasetgo/kaset/internal/repository/mongodb"
	"github.com/kasetgo/kaset/internal/service/notify"
)

// Scheduler runs the daily harvest-due reminder job.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.ReminderConfig
	plots    mongodb.PlotRepository
	users    mongodb.UserRepository
	notifier *notify.Service
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance in the configured timezone.
func NewScheduler(cfg config.ReminderConfig, plots mongodb.PlotRepository, users mongodb.UserRepository, notifier *notify.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		plots:    plots,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// Start registers the reminder job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendHarvestReminders); err != nil {
		s.logger.Error("failed to schedule harvest reminders", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// sendHarvestReminders notifies every owner whose growing plot comes due
// within the lookahead window. Owners without a linked chat are skipped.
func (s *Scheduler) sendHarvestReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now().UTC()
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, s.cfg.LookaheadDays)

	plots, err := s.plots.ListDueBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("failed to list due plots", zap.Error(err))
		return
	}

	s.logger.Info("harvest reminder sweep", zap.Int("due_plots", len(plots)))

	for _, plot := range plots {
		user, err := s.users.FindByID(ctx, plot.OwnerID)
		if err != nil {
			s.logger.Warn("owner lookup failed", zap.String("plot_id", plot.ID), zap.Error(err))
			continue
		}
		if user.TelegramChatID == "" {
			continue
		}

		if err := s.notifier.SendHarvestDueReminder(ctx, *user, plot); err != nil {
			s.logger.Warn("reminder delivery failed",
				zap.String("plot_id", plot.ID),
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}
}
