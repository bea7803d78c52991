package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockyard/internal/config"
	"github.com/mamadbah2/stockyard/internal/domain/models"
	"github.com/mamadbah2/stockyard/internal/repository/mongodb"
)

// Prefetcher is the bulk price refresh operation the nightly job drives.
type Prefetcher interface {
	Prefetch(ctx context.Context, herds []models.HerdGroup)
}

// Snapshotter produces and persists the daily portfolio snapshot.
type Snapshotter interface {
	Snapshot(ctx context.Context) (models.PortfolioValuation, error)
}

// Scheduler manages the background jobs: the nightly price prefetch shortly
// after the upstream publishes, and the morning portfolio snapshot.
type Scheduler struct {
	cron         *cron.Cron
	herds        mongodb.HerdRepository
	prices       Prefetcher
	portfolioSvc Snapshotter
	cfg          config.SchedulerConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SchedulerConfig, herds mongodb.HerdRepository, prices Prefetcher, portfolioSvc Snapshotter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		herds:        herds,
		prices:       prices,
		portfolioSvc: portfolioSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("prefetch", s.cfg.PrefetchSchedule),
		zap.String("snapshot", s.cfg.SnapshotSchedule))

	if _, err := s.cron.AddFunc(s.cfg.PrefetchSchedule, s.refreshPrices); err != nil {
		s.logger.Error("failed to schedule price prefetch", zap.Error(err))
	}
	if _, err := s.cron.AddFunc(s.cfg.SnapshotSchedule, s.snapshotPortfolio); err != nil {
		s.logger.Error("failed to schedule portfolio snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) refreshPrices() {
	s.logger.Info("running nightly price prefetch")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	allHerds, err := s.herds.ListHerds(ctx)
	if err != nil {
		s.logger.Error("failed to list herds for prefetch", zap.Error(err))
		return
	}

	s.prices.Prefetch(ctx, allHerds)
}

func (s *Scheduler) snapshotPortfolio() {
	s.logger.Info("running daily portfolio snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	snapshot, err := s.portfolioSvc.Snapshot(ctx)
	if err != nil {
		s.logger.Error("failed to snapshot portfolio", zap.Error(err))
		return
	}

	s.logger.Info("portfolio snapshot stored",
		zap.Int("herds", len(snapshot.Herds)),
		zap.Float64("net_realizable", snapshot.TotalNetRealizableValue))
}
