package portfolio

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/mamadbah2/stockyard/internal/domain/models"
	"github.com/mamadbah2/stockyard/internal/repository/mongodb"
	"github.com/mamadbah2/stockyard/internal/repository/sheets"
	"github.com/mamadbah2/stockyard/internal/service/valuation"
)

type fakeRepo struct {
	herds     []models.HerdGroup
	prefs     models.ValuationPreferences
	snapshots []models.PortfolioValuation
}

func (f *fakeRepo) CreateHerd(_ context.Context, herd models.HerdGroup) error {
	f.herds = append(f.herds, herd)
	return nil
}

func (f *fakeRepo) GetHerd(_ context.Context, id string) (models.HerdGroup, error) {
	for _, h := range f.herds {
		if h.ID == id {
			return h, nil
		}
	}
	return models.HerdGroup{}, mongodb.ErrHerdNotFound
}

func (f *fakeRepo) ListHerds(_ context.Context) ([]models.HerdGroup, error) {
	return f.herds, nil
}

func (f *fakeRepo) UpdateHerd(_ context.Context, herd models.HerdGroup) error {
	for i, h := range f.herds {
		if h.ID == herd.ID {
			f.herds[i] = herd
			return nil
		}
	}
	return mongodb.ErrHerdNotFound
}

func (f *fakeRepo) DeleteHerd(_ context.Context, id string) error {
	for i, h := range f.herds {
		if h.ID == id {
			f.herds = append(f.herds[:i], f.herds[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrHerdNotFound
}

func (f *fakeRepo) LoadPreferences(_ context.Context) (models.ValuationPreferences, error) {
	return f.prefs, nil
}

func (f *fakeRepo) SavePreferences(_ context.Context, prefs models.ValuationPreferences) error {
	f.prefs = prefs
	return nil
}

func (f *fakeRepo) SaveSnapshot(_ context.Context, snapshot models.PortfolioValuation) error {
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

type fixedResolver struct{ price float64 }

func (r fixedResolver) Resolve(context.Context, string, string, string, string) (float64, string) {
	return r.price, "National"
}

type recordingPrefetcher struct{ calls int }

func (p *recordingPrefetcher) Prefetch(context.Context, []models.HerdGroup) { p.calls++ }

type recordingExporter struct{ snapshots []models.PortfolioValuation }

func (e *recordingExporter) AppendSnapshot(_ context.Context, snapshot models.PortfolioValuation) error {
	e.snapshots = append(e.snapshots, snapshot)
	return nil
}

func testService(repo *fakeRepo, exporter sheets.Exporter, prefetcher *recordingPrefetcher) *Service {
	engine := valuation.NewEngine(fixedResolver{price: 4.00}, nil)
	return NewService(repo, repo, repo, exporter, engine, prefetcher, nil)
}

func portfolioHerds(asOf time.Time) []models.HerdGroup {
	return []models.HerdGroup{
		{
			ID: "h-1", Species: models.SpeciesCattle, Category: "Yearling Steer",
			HeadCount: 50, InitialWeightKg: 300, DailyGainKg: 0.8,
			CreatedAt: asOf.AddDate(0, 0, -100),
		},
		{
			ID: "h-2", Species: models.SpeciesCattle, Category: "Weaner Steer",
			HeadCount: 10, InitialWeightKg: 200, DailyGainKg: 1.0,
			CreatedAt: asOf.AddDate(0, 0, -50),
		},
		{
			ID: "h-3", Species: models.SpeciesCattle, Category: "Grown Steer",
			HeadCount: 20, InitialWeightKg: 500, DailyGainKg: 0.4,
			CreatedAt: asOf.AddDate(0, 0, -10),
			Sold:      true,
		},
	}
}

func TestValuatePortfolio_SkipsSoldAndTotals(t *testing.T) {
	asOf := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{herds: portfolioHerds(asOf)}
	prefetcher := &recordingPrefetcher{}
	svc := testService(repo, nil, prefetcher)

	result, err := svc.ValuatePortfolio(context.Background(), asOf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if prefetcher.calls != 1 {
		t.Errorf("Expected one prefetch, got %d", prefetcher.calls)
	}
	if len(result.Herds) != 2 {
		t.Fatalf("Expected 2 valuations (sold herd skipped), got %d", len(result.Herds))
	}

	// h-1: 50 × 380 × 4 = 76000; h-2: 10 × 250 × 4 = 10000.
	expectedTotal := 86000.0
	if math.Abs(result.TotalGrossValue-expectedTotal) > 0.01 {
		t.Errorf("Expected total gross %f, got %f", expectedTotal, result.TotalGrossValue)
	}
	if math.Abs(result.TotalNetRealizableValue-expectedTotal) > 0.01 {
		t.Errorf("Expected total NRV %f with zero rates, got %f", expectedTotal, result.TotalNetRealizableValue)
	}
}

func TestValuateHerd_UnknownID(t *testing.T) {
	repo := &fakeRepo{}
	svc := testService(repo, nil, &recordingPrefetcher{})

	if _, err := svc.ValuateHerd(context.Background(), "missing", time.Now(), ""); err == nil {
		t.Fatal("Expected error for unknown herd id")
	}
}

func TestSnapshot_PersistsAndExports(t *testing.T) {
	asOf := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{herds: portfolioHerds(asOf)}
	exporter := &recordingExporter{}
	svc := testService(repo, exporter, &recordingPrefetcher{})
	svc.now = func() time.Time { return asOf }

	snapshot, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(repo.snapshots) != 1 {
		t.Fatalf("Expected snapshot persisted, got %d", len(repo.snapshots))
	}
	if len(exporter.snapshots) != 1 {
		t.Fatalf("Expected snapshot exported, got %d", len(exporter.snapshots))
	}
	if len(snapshot.Herds) != 2 {
		t.Errorf("Expected 2 herd valuations in snapshot, got %d", len(snapshot.Herds))
	}
}
