package portfolio

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockyard/internal/domain/models"
	"github.com/mamadbah2/stockyard/internal/repository/mongodb"
	"github.com/mamadbah2/stockyard/internal/repository/sheets"
	"github.com/mamadbah2/stockyard/internal/service/valuation"
)

// Prefetcher is the bulk side of the price resolver: best-effort, never errors.
type Prefetcher interface {
	Prefetch(ctx context.Context, herds []models.HerdGroup)
}

// Service values the whole portfolio: it loads preferences and herds,
// warms the price cache, runs the valuation engine per herd, and persists
// snapshots.
type Service struct {
	herds     mongodb.HerdRepository
	prefs     mongodb.PreferenceRepository
	snapshots mongodb.SnapshotRepository
	exporter  sheets.Exporter // nil when snapshot export is disabled
	engine    *valuation.Engine
	prices    Prefetcher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a portfolio valuation service.
func NewService(
	herds mongodb.HerdRepository,
	prefs mongodb.PreferenceRepository,
	snapshots mongodb.SnapshotRepository,
	exporter sheets.Exporter,
	engine *valuation.Engine,
	prices Prefetcher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		herds:     herds,
		prefs:     prefs,
		snapshots: snapshots,
		exporter:  exporter,
		engine:    engine,
		prices:    prices,
		logger:    logger,
		now:       time.Now,
	}
}

// ValuateHerd values a single herd as of the given date.
func (s *Service) ValuateHerd(ctx context.Context, id string, asOf time.Time, saleyardOverride string) (models.HerdValuation, error) {
	herd, err := s.herds.GetHerd(ctx, id)
	if err != nil {
		return models.HerdValuation{}, err
	}

	prefs, err := s.prefs.LoadPreferences(ctx)
	if err != nil {
		return models.HerdValuation{}, fmt.Errorf("load preferences: %w", err)
	}

	if asOf.IsZero() {
		asOf = s.now().UTC()
	}

	return s.engine.Valuate(ctx, herd, prefs, asOf, saleyardOverride), nil
}

// ValuatePortfolio values every unsold herd as of the given date. The price
// cache is warmed with one bulk prefetch before the herds are valued.
func (s *Service) ValuatePortfolio(ctx context.Context, asOf time.Time) (models.PortfolioValuation, error) {
	allHerds, err := s.herds.ListHerds(ctx)
	if err != nil {
		return models.PortfolioValuation{}, fmt.Errorf("list herds: %w", err)
	}

	prefs, err := s.prefs.LoadPreferences(ctx)
	if err != nil {
		return models.PortfolioValuation{}, fmt.Errorf("load preferences: %w", err)
	}

	if asOf.IsZero() {
		asOf = s.now().UTC()
	}

	s.prices.Prefetch(ctx, allHerds)

	result := models.PortfolioValuation{ValuedAt: asOf, CreatedAt: s.now().UTC()}
	for _, herd := range allHerds {
		if herd.Sold {
			continue
		}
		v := s.engine.Valuate(ctx, herd, prefs, asOf, "")
		result.Herds = append(result.Herds, v)
		result.TotalGrossValue += v.GrossValue
		result.TotalNetValue += v.NetValue
		result.TotalCostToCarry += v.CostToCarry
		result.TotalNetRealizableValue += v.NetRealizableValue
	}

	s.logger.Info("portfolio valued",
		zap.Int("herds", len(result.Herds)),
		zap.Float64("net_realizable", result.TotalNetRealizableValue))
	return result, nil
}

// Snapshot values the portfolio as of now, persists the result, and exports
// the rows to the configured spreadsheet when export is enabled.
func (s *Service) Snapshot(ctx context.Context) (models.PortfolioValuation, error) {
	snapshot, err := s.ValuatePortfolio(ctx, s.now().UTC())
	if err != nil {
		return models.PortfolioValuation{}, err
	}

	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		return models.PortfolioValuation{}, fmt.Errorf("save snapshot: %w", err)
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSnapshot(ctx, snapshot); err != nil {
			// Export is best-effort; the snapshot is already persisted.
			s.logger.Error("failed exporting snapshot to sheet", zap.Error(err))
		}
	}

	return snapshot, nil
}
