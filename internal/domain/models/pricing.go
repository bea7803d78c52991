package models

import "time"

// PriceQuote is one record returned by the upstream market price source.
// Saleyard and State may be empty when the quote is a state indicator or a
// national benchmark.
type PriceQuote struct {
	Category   string    `json:"category"`
	Breed      string    `json:"breed"`
	Saleyard   string    `json:"saleyard,omitempty"`
	State      string    `json:"state,omitempty"`
	PricePerKg float64   `json:"price_per_kg"`
	Source     string    `json:"source"`
	QuotedAt   time.Time `json:"quoted_at"`
}
