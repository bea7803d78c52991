package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mamadbah2/stockyard/internal/config"
	"github.com/mamadbah2/stockyard/internal/domain/models"
	"github.com/mamadbah2/stockyard/pkg/clients/mla"
)

type fakeClient struct {
	mu      sync.Mutex
	calls   []mla.QuoteQuery
	respond func(query mla.QuoteQuery) ([]models.PriceQuote, error)
}

func (f *fakeClient) FetchQuotes(_ context.Context, query mla.QuoteQuery) ([]models.PriceQuote, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(query)
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testConfig() config.PricesConfig {
	return config.PricesConfig{
		CacheMaxAge:   24 * time.Hour,
		RefreshHour:   1,
		RefreshMinute: 30,
	}
}

func newTestResolver(client mla.Client, now time.Time) *Resolver {
	r := NewResolver(client, testConfig(), nil)
	r.now = func() time.Time { return now }
	return r
}

func testHerds() []models.HerdGroup {
	return []models.HerdGroup{
		{Category: "Yearling Steer", Breed: "Angus", Saleyard: "Roma Saleyards"},
		{Category: "Breeder", Breed: "Angus"},
		{Category: "Yearling Steer", Breed: "Angus", Sold: true},
	}
}

func TestResolve_PrefersSaleyardOverNational(t *testing.T) {
	r := newTestResolver(&fakeClient{}, time.Now())

	r.cache.put(saleyardKey("Yearling Steer", "Angus", "Roma Saleyards"), cacheEntry{PricePerKg: 4.20, Source: SourceSaleyard})
	r.cache.put(nationalKey("Yearling Steer", "Angus"), cacheEntry{PricePerKg: 3.90, Source: SourceNational})

	price, source := r.Resolve(context.Background(), "Yearling Steer", "Angus", "Roma Saleyards", "QLD")
	if price != 4.20 || source != SourceSaleyard {
		t.Errorf("Expected saleyard entry (4.20, Saleyard), got (%f, %s)", price, source)
	}

	// Without a matching saleyard the national entry answers.
	price, source = r.Resolve(context.Background(), "Yearling Steer", "Angus", "", "")
	if price != 3.90 || source != SourceNational {
		t.Errorf("Expected national entry (3.90, National), got (%f, %s)", price, source)
	}
}

func TestResolve_StateTier(t *testing.T) {
	r := newTestResolver(&fakeClient{}, time.Now())

	r.cache.put(stateKey("Yearling Steer", "Angus", "NSW"), cacheEntry{PricePerKg: 4.05, Source: SourceState})

	price, source := r.Resolve(context.Background(), "Yearling Steer", "Angus", "Unknown Yard", "NSW")
	if price != 4.05 || source != SourceState {
		t.Errorf("Expected state entry (4.05, State), got (%f, %s)", price, source)
	}
}

func TestResolve_NeverFails(t *testing.T) {
	client := &fakeClient{respond: func(mla.QuoteQuery) ([]models.PriceQuote, error) {
		return nil, errors.New("upstream exploded")
	}}
	r := newTestResolver(client, time.Now())

	price, source := r.Resolve(context.Background(), "Some Unheard Of Category", "Brahman", "", "")
	if price <= 0 {
		t.Errorf("Expected a positive default price, got %f", price)
	}
	if source != SourceDefaultFallback {
		t.Errorf("Expected source %q, got %q", SourceDefaultFallback, source)
	}
}

func TestResolve_CanonicalMappingAppliedBeforeLookup(t *testing.T) {
	r := newTestResolver(&fakeClient{}, time.Now())

	r.cache.put(nationalKey("Breeding Cow", "Angus"), cacheEntry{PricePerKg: 3.75, Source: SourceNational})

	price, source := r.Resolve(context.Background(), "Breeder", "Angus", "", "")
	if price != 3.75 || source != SourceNational {
		t.Errorf("Expected canonical lookup to hit Breeding Cow entry, got (%f, %s)", price, source)
	}
}

func TestResolve_IndividualFetchCachesQuotes(t *testing.T) {
	client := &fakeClient{respond: func(query mla.QuoteQuery) ([]models.PriceQuote, error) {
		if query.Saleyard != "" {
			return []models.PriceQuote{{
				Category: "Yearling Steer", Breed: "Angus",
				Saleyard: query.Saleyard, PricePerKg: 4.35, Source: "Saleyard",
			}}, nil
		}
		return nil, nil
	}}
	r := newTestResolver(client, time.Now())

	price, source := r.Resolve(context.Background(), "Yearling Steer", "Angus", "Roma Saleyards", "")
	if price != 4.35 || source != SourceSaleyard {
		t.Errorf("Expected fetched saleyard price, got (%f, %s)", price, source)
	}

	// The fetched quote must now serve from cache without another call.
	before := client.callCount()
	price, _ = r.Resolve(context.Background(), "Yearling Steer", "Angus", "Roma Saleyards", "")
	if price != 4.35 {
		t.Errorf("Expected cached price 4.35, got %f", price)
	}
	if client.callCount() != before {
		t.Errorf("Expected no further fetches, got %d extra", client.callCount()-before)
	}
}

func TestPrefetch_PopulatesCacheAndSkipsWhenFresh(t *testing.T) {
	now := time.Date(2026, time.August, 25, 9, 0, 0, 0, time.UTC)
	client := &fakeClient{respond: func(mla.QuoteQuery) ([]models.PriceQuote, error) {
		return []models.PriceQuote{
			{Category: "Yearling Steer", Breed: "Angus", Saleyard: "Roma Saleyards", PricePerKg: 4.25},
			{Category: "Breeding Cow", Breed: "Angus", PricePerKg: 3.70},
		}, nil
	}}
	r := newTestResolver(client, now)

	r.Prefetch(context.Background(), testHerds())
	if r.CacheSize() != 2 {
		t.Fatalf("Expected 2 cached entries, got %d", r.CacheSize())
	}
	if !r.LastRefreshed().Equal(now) {
		t.Errorf("Expected lastRefreshed %v, got %v", now, r.LastRefreshed())
	}

	// Fresh cache: second prefetch must not fetch again.
	r.Prefetch(context.Background(), testHerds())
	if client.callCount() != 1 {
		t.Errorf("Expected a single bulk fetch, got %d", client.callCount())
	}
}

func TestPrefetch_QueriesDistinctCanonicalCategoriesOfUnsoldHerds(t *testing.T) {
	client := &fakeClient{}
	r := newTestResolver(client, time.Now())

	r.Prefetch(context.Background(), testHerds())

	if client.callCount() != 1 {
		t.Fatalf("Expected one bulk fetch, got %d", client.callCount())
	}
	got := client.calls[0].Categories
	want := []string{"Yearling Steer", "Breeding Cow"}
	if len(got) != len(want) {
		t.Fatalf("Expected categories %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected category %q at %d, got %q", want[i], i, got[i])
		}
	}
}

func TestPrefetch_NationalEntrySkippedWhenSaleyardQuoteExists(t *testing.T) {
	client := &fakeClient{respond: func(mla.QuoteQuery) ([]models.PriceQuote, error) {
		return []models.PriceQuote{
			{Category: "Yearling Steer", Breed: "Angus", PricePerKg: 3.90},
			{Category: "Yearling Steer", Breed: "Angus", Saleyard: "Roma Saleyards", PricePerKg: 4.25},
		}, nil
	}}
	r := newTestResolver(client, time.Now())

	r.Prefetch(context.Background(), testHerds())

	if _, ok := r.cache.get(saleyardKey("Yearling Steer", "Angus", "Roma Saleyards")); !ok {
		t.Error("Expected saleyard entry to be cached")
	}
	if _, ok := r.cache.get(nationalKey("Yearling Steer", "Angus")); ok {
		t.Error("Expected national entry to be skipped while a saleyard quote exists")
	}
}

func TestPrefetch_HardFailureSetsOfflineAndKeepsCache(t *testing.T) {
	now := time.Date(2026, time.August, 25, 9, 0, 0, 0, time.UTC)
	failing := errors.New("connection refused by upstream")
	client := &fakeClient{respond: func(mla.QuoteQuery) ([]models.PriceQuote, error) {
		return []models.PriceQuote{{Category: "Yearling Steer", Breed: "Angus", PricePerKg: 3.90}}, nil
	}}
	r := newTestResolver(client, now)

	r.Prefetch(context.Background(), testHerds())
	if r.Offline() {
		t.Fatal("Expected online after successful prefetch")
	}

	// Next day the fetch fails hard: offline set, cache preserved.
	r.now = func() time.Time { return now.AddDate(0, 0, 2) }
	client.respond = func(mla.QuoteQuery) ([]models.PriceQuote, error) { return nil, failing }

	r.Prefetch(context.Background(), testHerds())
	if !r.Offline() {
		t.Error("Expected offline flag after hard failure")
	}
	if r.CacheSize() == 0 {
		t.Error("Expected previous cache preserved after hard failure")
	}

	// Offline with a non-empty cache: no further fetch attempts.
	calls := client.callCount()
	r.Prefetch(context.Background(), testHerds())
	if client.callCount() != calls {
		t.Error("Expected prefetch skipped while offline with cached prices")
	}
}

func TestPrefetch_TransientFailureLeavesOfflineUntouched(t *testing.T) {
	client := &fakeClient{respond: func(mla.QuoteQuery) ([]models.PriceQuote, error) {
		return nil, context.Canceled
	}}
	r := newTestResolver(client, time.Now())

	r.Prefetch(context.Background(), testHerds())
	if r.Offline() {
		t.Error("Expected cancellation to leave offline flag untouched")
	}
	if r.CacheSize() != 0 {
		t.Error("Expected no cache writes on cancellation")
	}
}

func TestPrefetch_SuccessClearsOffline(t *testing.T) {
	client := &fakeClient{respond: func(mla.QuoteQuery) ([]models.PriceQuote, error) {
		return []models.PriceQuote{{Category: "Yearling Steer", Breed: "Angus", PricePerKg: 3.90}}, nil
	}}
	r := newTestResolver(client, time.Now())
	r.setOffline(true)

	r.Prefetch(context.Background(), testHerds())
	if r.Offline() {
		t.Error("Expected successful prefetch to clear the offline flag")
	}
}

func TestPrefetch_SingleFlight(t *testing.T) {
	now := time.Date(2026, time.August, 25, 9, 0, 0, 0, time.UTC)
	client := &fakeClient{respond: func(mla.QuoteQuery) ([]models.PriceQuote, error) {
		time.Sleep(20 * time.Millisecond)
		return []models.PriceQuote{{Category: "Yearling Steer", Breed: "Angus", PricePerKg: 3.90}}, nil
	}}
	r := newTestResolver(client, now)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Prefetch(context.Background(), testHerds())
		}()
	}
	wg.Wait()

	// Late arrivals serialize behind the in-flight prefetch and find the
	// cache fresh.
	if client.callCount() != 1 {
		t.Errorf("Expected one bulk fetch across concurrent prefetches, got %d", client.callCount())
	}
}

func TestStale_AgeBoundary(t *testing.T) {
	now := time.Date(2026, time.August, 25, 9, 0, 0, 0, time.UTC)
	client := &fakeClient{respond: func(mla.QuoteQuery) ([]models.PriceQuote, error) {
		return []models.PriceQuote{{Category: "Yearling Steer", Breed: "Angus", PricePerKg: 3.90}}, nil
	}}
	r := newTestResolver(client, now)
	r.Prefetch(context.Background(), testHerds())

	if r.Stale(now.Add(3 * time.Hour)) {
		t.Error("Expected cache fresh three hours after a 09:00 refresh")
	}
	if !r.Stale(now.Add(25 * time.Hour)) {
		t.Error("Expected cache stale past the 24h age limit")
	}
}

func TestStale_DailyRefreshBoundary(t *testing.T) {
	// Populated at 01:00, queried at 01:45 the same day: only 45 minutes
	// old, but the 01:30 upstream publish has happened in between.
	populated := time.Date(2026, time.August, 25, 1, 0, 0, 0, time.UTC)
	client := &fakeClient{respond: func(mla.QuoteQuery) ([]models.PriceQuote, error) {
		return []models.PriceQuote{{Category: "Yearling Steer", Breed: "Angus", PricePerKg: 3.90}}, nil
	}}
	r := newTestResolver(client, populated)
	r.Prefetch(context.Background(), testHerds())

	if !r.Stale(populated.Add(45 * time.Minute)) {
		t.Error("Expected cache stale after crossing the 01:30 boundary")
	}
	if r.Stale(populated.Add(15 * time.Minute)) {
		t.Error("Expected cache fresh before the 01:30 boundary")
	}
}

func TestStale_EmptyCache(t *testing.T) {
	r := newTestResolver(&fakeClient{}, time.Now())
	if !r.Stale(time.Now()) {
		t.Error("Expected an unpopulated cache to be stale")
	}
}

func TestClearCache(t *testing.T) {
	client := &fakeClient{respond: func(mla.QuoteQuery) ([]models.PriceQuote, error) {
		return []models.PriceQuote{{Category: "Yearling Steer", Breed: "Angus", PricePerKg: 3.90}}, nil
	}}
	r := newTestResolver(client, time.Now())
	r.Prefetch(context.Background(), testHerds())

	if r.CacheSize() == 0 {
		t.Fatal("Expected cache populated before clear")
	}

	r.ClearCache()
	if r.CacheSize() != 0 {
		t.Error("Expected empty cache after clear")
	}
	if !r.Stale(time.Now()) {
		t.Error("Expected cleared cache reported stale")
	}
}

func TestResolve_ConcurrentMissesAreSafe(t *testing.T) {
	client := &fakeClient{respond: func(query mla.QuoteQuery) ([]models.PriceQuote, error) {
		return []models.PriceQuote{{
			Category: query.Categories[0], Breed: query.Breed,
			Saleyard: query.Saleyard, PricePerKg: 4.10,
		}}, nil
	}}
	r := newTestResolver(client, time.Now())

	var wg sync.WaitGroup
	yards := []string{"Roma Saleyards", "Dubbo Regional Livestock Market", "Wagga Wagga Livestock Marketing Centre"}
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			price, _ := r.Resolve(context.Background(), "Yearling Steer", "Angus", yards[i%len(yards)], "")
			if price != 4.10 {
				t.Errorf("Expected 4.10, got %f", price)
			}
		}(i)
	}
	wg.Wait()

	if r.CacheSize() != len(yards) {
		t.Errorf("Expected %d distinct saleyard entries, got %d", len(yards), r.CacheSize())
	}
}
