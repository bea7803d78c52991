package pricing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockyard/internal/config"
	"github.com/mamadbah2/stockyard/internal/domain/models"
	"github.com/mamadbah2/stockyard/pkg/clients/mla"
)

// Source labels attached to resolved prices so callers can tell a confident
// market quote from a heuristic guess.
const (
	SourceSaleyard        = "Saleyard"
	SourceState           = "State"
	SourceNational        = "National"
	SourceDefaultFallback = "Default Fallback"
)

// Resolver produces a price per kilogram for a category/breed/saleyard/state
// tuple. It prefers cached quotes, falls back through individual fetches
// from most to least specific, and bottoms out on the default price table.
// Resolve never fails; the source label says which tier answered.
type Resolver struct {
	client mla.Client
	cache  *priceCache
	logger *zap.Logger
	now    func() time.Time

	cacheMaxAge   time.Duration
	refreshHour   int
	refreshMinute int

	mu      sync.Mutex // guards offline
	offline bool

	prefetchMu sync.Mutex // serializes bulk prefetches
}

// NewResolver wires a resolver against the given market price client.
func NewResolver(client mla.Client, cfg config.PricesConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		client:        client,
		cache:         newPriceCache(),
		logger:        logger,
		now:           time.Now,
		cacheMaxAge:   cfg.CacheMaxAge,
		refreshHour:   cfg.RefreshHour,
		refreshMinute: cfg.RefreshMinute,
	}
}

// Offline reports whether the last non-transient fetch attempt failed.
func (r *Resolver) Offline() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offline
}

func (r *Resolver) setOffline(offline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offline = offline
}

// LastRefreshed returns the time the cache was last repopulated in bulk.
func (r *Resolver) LastRefreshed() time.Time {
	return r.cache.refreshedAt()
}

// CacheSize returns the number of cached quotes.
func (r *Resolver) CacheSize() int {
	return r.cache.size()
}

// ClearCache drops every cached quote, forcing the next resolution to fetch.
func (r *Resolver) ClearCache() {
	r.cache.clear()
	r.logger.Info("price cache cleared")
}

// Stale reports whether the cache needs repopulating at the given time.
// Two conditions apply, whichever is stricter: the cache age exceeds the
// configured maximum, or the daily upstream publish boundary has been
// crossed since the cache was populated. Age alone is not enough: a cache
// built just before the publish time is minutes old yet already outdated
// minutes later.
func (r *Resolver) Stale(now time.Time) bool {
	refreshed := r.cache.refreshedAt()
	if refreshed.IsZero() {
		return true
	}
	if now.Sub(refreshed) >= r.cacheMaxAge {
		return true
	}
	boundary := time.Date(now.Year(), now.Month(), now.Day(), r.refreshHour, r.refreshMinute, 0, 0, now.Location())
	if boundary.After(now) {
		boundary = boundary.AddDate(0, 0, -1)
	}
	return refreshed.Before(boundary)
}

// Prefetch repopulates the cache with one bulk fetch covering every unsold
// herd. It is single-flight: a concurrent call blocks until the in-flight
// one completes and then usually finds the cache fresh. Errors are absorbed
// into the offline flag; Prefetch never returns one.
func (r *Resolver) Prefetch(ctx context.Context, herds []models.HerdGroup) {
	r.prefetchMu.Lock()
	defer r.prefetchMu.Unlock()

	now := r.now()

	if r.cache.size() > 0 && !r.Stale(now) {
		r.logger.Debug("price cache fresh, skipping prefetch")
		return
	}
	if r.Offline() && r.cache.size() > 0 {
		// A stale cache beats no data while the feed is unreachable.
		r.logger.Debug("offline with cached prices, skipping prefetch")
		return
	}

	combos := distinctCombos(herds)
	if len(combos) == 0 {
		return
	}
	categories := comboCategories(combos)

	quotes, err := r.client.FetchQuotes(ctx, mla.QuoteQuery{Categories: categories})
	if err != nil {
		if isTransient(err) {
			r.logger.Warn("price prefetch interrupted", zap.Error(err))
			return
		}
		r.setOffline(true)
		r.logger.Error("price prefetch failed, keeping previous cache", zap.Error(err))
		return
	}

	entries := make(map[quoteKey]cacheEntry, len(quotes))
	// Saleyard-qualified quotes first, then state indicators, then national
	// benchmarks for pairs without a more specific quote.
	for _, q := range quotes {
		if q.Saleyard == "" {
			continue
		}
		entries[saleyardKey(q.Category, q.Breed, q.Saleyard)] = cacheEntry{PricePerKg: q.PricePerKg, Source: SourceSaleyard}
	}
	for _, q := range quotes {
		if q.Saleyard != "" || q.State == "" {
			continue
		}
		entries[stateKey(q.Category, q.Breed, q.State)] = cacheEntry{PricePerKg: q.PricePerKg, Source: SourceState}
	}
	for _, q := range quotes {
		if q.Saleyard != "" || q.State != "" {
			continue
		}
		if hasSaleyardEntry(entries, q.Category, q.Breed) {
			continue
		}
		entries[nationalKey(q.Category, q.Breed)] = cacheEntry{PricePerKg: q.PricePerKg, Source: SourceNational}
	}

	r.cache.replace(entries, now)
	r.setOffline(false)

	r.logger.Info("price cache refreshed",
		zap.Int("quotes", len(quotes)),
		zap.Int("entries", len(entries)),
		zap.Strings("categories", categories))
}

func hasSaleyardEntry(entries map[quoteKey]cacheEntry, category, breed string) bool {
	cat, brd := normalize(category), normalize(breed)
	for key := range entries {
		if key.Saleyard != "" && key.Category == cat && key.Breed == brd {
			return true
		}
	}
	return false
}

// priceCombo is one distinct (canonical category, breed, saleyard) tuple a
// herd needs priced.
type priceCombo struct {
	Category string
	Breed    string
	Saleyard string
}

// distinctCombos collects the price combinations across unsold herds.
func distinctCombos(herds []models.HerdGroup) []priceCombo {
	seen := make(map[priceCombo]struct{})
	var combos []priceCombo
	for _, herd := range herds {
		if herd.Sold {
			continue
		}
		canonical := CanonicalCategory(herd.Category)
		if canonical == "" {
			continue
		}
		combo := priceCombo{Category: canonical, Breed: normalize(herd.Breed), Saleyard: normalize(herd.Saleyard)}
		if _, ok := seen[combo]; ok {
			continue
		}
		seen[combo] = struct{}{}
		combos = append(combos, combo)
	}
	return combos
}

// comboCategories projects the combos onto their category set. The bulk feed
// is filtered by category and returns quotes at every tier, so only the
// categories go on the wire.
func comboCategories(combos []priceCombo) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, combo := range combos {
		if _, ok := seen[combo.Category]; ok {
			continue
		}
		seen[combo.Category] = struct{}{}
		categories = append(categories, combo.Category)
	}
	return categories
}

// Resolve returns a price per kilogram and its source label. Cache tiers
// are consulted from most to least specific; on a full cache miss the same
// tiers are fetched individually, and the default price table answers when
// everything else has failed. Resolve never returns an error.
func (r *Resolver) Resolve(ctx context.Context, category, breed, saleyard, state string) (float64, string) {
	canonical := CanonicalCategory(category)

	if saleyard != "" {
		if entry, ok := r.cache.get(saleyardKey(canonical, breed, saleyard)); ok {
			return entry.PricePerKg, SourceSaleyard
		}
	}
	if state != "" {
		if entry, ok := r.cache.get(stateKey(canonical, breed, state)); ok {
			return entry.PricePerKg, SourceState
		}
	}
	if entry, ok := r.cache.get(nationalKey(canonical, breed)); ok {
		return entry.PricePerKg, SourceNational
	}

	if saleyard != "" {
		if price, ok := r.fetchTier(ctx, canonical, breed, saleyard, ""); ok {
			return price, SourceSaleyard
		}
	}
	if state != "" {
		if price, ok := r.fetchTier(ctx, canonical, breed, "", state); ok {
			return price, SourceState
		}
	}
	if price, ok := r.fetchTier(ctx, canonical, breed, "", ""); ok {
		return price, SourceNational
	}

	price := DefaultPrice(canonical)
	r.logger.Warn("no market price found, using default",
		zap.String("category", canonical),
		zap.String("breed", breed),
		zap.Float64("price", price))
	return price, SourceDefaultFallback
}

// fetchTier performs one individual fetch for a single tier, caches any
// quotes returned, and reports whether the tier produced a usable price.
func (r *Resolver) fetchTier(ctx context.Context, canonical, breed, saleyard, state string) (float64, bool) {
	quotes, err := r.client.FetchQuotes(ctx, mla.QuoteQuery{
		Categories: []string{canonical},
		Breed:      breed,
		Saleyard:   saleyard,
		State:      state,
	})
	if err != nil {
		if isTransient(err) {
			r.logger.Debug("price fetch interrupted", zap.String("category", canonical), zap.Error(err))
		} else {
			r.setOffline(true)
			r.logger.Warn("price fetch failed", zap.String("category", canonical), zap.Error(err))
		}
		return 0, false
	}

	r.setOffline(false)

	var price float64
	for _, q := range quotes {
		switch {
		case q.Saleyard != "":
			r.cache.put(saleyardKey(q.Category, q.Breed, q.Saleyard), cacheEntry{PricePerKg: q.PricePerKg, Source: SourceSaleyard})
		case q.State != "":
			r.cache.put(stateKey(q.Category, q.Breed, q.State), cacheEntry{PricePerKg: q.PricePerKg, Source: SourceState})
		default:
			r.cache.putNational(q.Category, q.Breed, cacheEntry{PricePerKg: q.PricePerKg, Source: SourceNational})
		}
		if price == 0 {
			price = q.PricePerKg
		}
	}

	return price, price > 0
}
