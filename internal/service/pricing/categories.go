package pricing

import "strings"

// canonicalCategories translates the app's user-facing livestock classes
// into the upstream price feed vocabulary. Categories already in the feed
// vocabulary pass through unchanged.
var canonicalCategories = map[string]string{
	"Breeder":  "Breeding Cow",
	"Cull Cow": "Dry Cow",
	"Cow":      "Breeding Cow",
	"Ewe":      "Breeding Ewe",
	"Wether":   "Mature Wether",
	"Sow":      "Dry Sow",
	"Doe":      "Breeder Doe",
}

// CanonicalCategory maps an app category onto the upstream vocabulary.
// Unknown categories are returned trimmed but otherwise as-is.
func CanonicalCategory(appCategory string) string {
	trimmed := strings.TrimSpace(appCategory)
	if canonical, ok := canonicalCategories[trimmed]; ok {
		return canonical
	}
	return trimmed
}

// fallbackDefaultPrice is the catch-all $/kg used when a category has no
// entry in the default table. Matches the upstream grown-steer benchmark.
const fallbackDefaultPrice = 3.30

// defaultPrices is the price of last resort per canonical category, used
// only when every cache and fetch tier has missed. Values track the
// upstream benchmark multipliers so a heuristic valuation stays in the
// right ballpark for its class.
var defaultPrices = map[string]float64{
	// Cattle
	"Feeder Steer":      3.89,
	"Feeder Heifer":     3.89,
	"Yearling Steer":    4.03,
	"Yearling Bull":     4.03,
	"Grown Steer":       3.30,
	"Grown Bull":        3.30,
	"Weaner Steer":      3.89,
	"Weaner Bull":       3.89,
	"Weaner Heifer":     3.89,
	"Breeding Cow":      3.80,
	"Dry Cow":           3.80,
	"Heifer":            3.80,
	"First Calf Heifer": 3.80,
	"Slaughter Cattle":  3.04,
	"Calves":            4.13,
	// Sheep
	"Breeding Ewe":   10.56,
	"Maiden Ewe":     10.56,
	"Dry Ewe":        10.56,
	"Cull Ewe":       9.24,
	"Slaughter Ewe":  9.24,
	"Weaner Ewe":     3.30,
	"Feeder Ewe":     3.30,
	"Wether Lamb":    11.55,
	"Weaner Lamb":    11.55,
	"Feeder Lamb":    11.55,
	"Slaughter Lamb": 10.89,
	"Lambs":          10.89,
	// Pigs
	"Dry Sow":         2.18,
	"Cull Sow":        1.98,
	"Weaner Pig":      2.31,
	"Feeder Pig":      2.31,
	"Grower Pig":      2.15,
	"Finisher Pig":    2.15,
	"Porker":          2.18,
	"Baconer":         2.18,
	"Grower Barrow":   2.15,
	"Finisher Barrow": 2.15,
	// Goats
	"Breeder Doe":    4.29,
	"Dry Doe":        4.29,
	"Cull Doe":       3.96,
	"Breeder Buck":   4.46,
	"Sale Buck":      4.46,
	"Mature Wether":  4.29,
	"Rangeland Goat": 4.29,
	"Capretto":       5.05,
	"Chevon":         4.13,
}

// DefaultPrice returns the fallback $/kg for a canonical category.
// It never misses; unknown categories get the catch-all benchmark.
func DefaultPrice(canonicalCategory string) float64 {
	if price, ok := defaultPrices[strings.TrimSpace(canonicalCategory)]; ok {
		return price
	}
	return fallbackDefaultPrice
}
