package pricing

import (
	"strings"
	"sync"
	"time"
)

// quoteKey identifies one cached price. Exactly one of Saleyard or State is
// set for the specific tiers; both empty means a national benchmark.
type quoteKey struct {
	Category string
	Breed    string
	Saleyard string
	State    string
}

func saleyardKey(category, breed, saleyard string) quoteKey {
	return quoteKey{Category: normalize(category), Breed: normalize(breed), Saleyard: normalize(saleyard)}
}

func stateKey(category, breed, state string) quoteKey {
	return quoteKey{Category: normalize(category), Breed: normalize(breed), State: normalize(state)}
}

func nationalKey(category, breed string) quoteKey {
	return quoteKey{Category: normalize(category), Breed: normalize(breed)}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// cacheEntry stores a resolved price and its provenance.
type cacheEntry struct {
	PricePerKg float64
	Source     string
}

// priceCache is the in-memory quote store shared between the bulk prefetch
// and individual resolution paths. A single lastRefreshed timestamp covers
// the whole cache; the upstream feed publishes all prices in one daily
// batch, so entries do not age independently.
type priceCache struct {
	mu            sync.RWMutex
	entries       map[quoteKey]cacheEntry
	lastRefreshed time.Time
}

func newPriceCache() *priceCache {
	return &priceCache{entries: make(map[quoteKey]cacheEntry)}
}

func (c *priceCache) get(key quoteKey) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// put stores an entry under its key. Saleyard-qualified keys are distinct
// from state and national keys, so tiers never clobber each other here;
// the national specificity rule lives in putNational.
func (c *priceCache) put(key quoteKey, entry cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// putNational stores a national benchmark entry unless a saleyard-qualified
// entry already exists for the same category and breed. A specific quote is
// always a better answer than the national average that sits behind it.
func (c *priceCache) putNational(category, breed string, entry cacheEntry) {
	key := nationalKey(category, breed)
	c.mu.Lock()
	defer c.mu.Unlock()
	for existing := range c.entries {
		if existing.Saleyard != "" && existing.Category == key.Category && existing.Breed == key.Breed {
			return
		}
	}
	c.entries[key] = entry
}

// replace swaps in a freshly fetched entry set and stamps the refresh time.
func (c *priceCache) replace(entries map[quoteKey]cacheEntry, refreshedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	c.lastRefreshed = refreshedAt
}

func (c *priceCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[quoteKey]cacheEntry)
	c.lastRefreshed = time.Time{}
}

func (c *priceCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *priceCache) refreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefreshed
}
