package models

import (
	"errors"
	"strings"
	"time"
)

// Species enumerates the livestock species the valuation engine understands.
type Species string

const (
	SpeciesCattle Species = "cattle"
	SpeciesSheep  Species = "sheep"
	SpeciesGoat   Species = "goat"
	SpeciesPig    Species = "pig"
)

// ParseSpecies normalizes free-form species text into a Species value.
func ParseSpecies(value string) (Species, bool) {
	switch Species(strings.ToLower(strings.TrimSpace(value))) {
	case SpeciesCattle:
		return SpeciesCattle, true
	case SpeciesSheep:
		return SpeciesSheep, true
	case SpeciesGoat:
		return SpeciesGoat, true
	case SpeciesPig:
		return SpeciesPig, true
	default:
		return "", false
	}
}

// HerdGroup represents a group of animals sharing attributes. It is the
// read-only input to the valuation engine; mutation happens through the
// herds service only.
type HerdGroup struct {
	ID       string  `bson:"_id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Species  Species `bson:"species" json:"species"`
	Breed    string  `bson:"breed" json:"breed"`
	Category string  `bson:"category" json:"category"` // e.g. "Yearling Steer"

	HeadCount       int     `bson:"head_count" json:"head_count"`
	InitialWeightKg float64 `bson:"initial_weight_kg" json:"initial_weight_kg"`

	// DailyGainKg is the current daily weight gain. When the gain rate has
	// been changed since creation, PreviousDailyGainKg holds the rate that
	// applied between CreatedAt and GainChangedAt.
	DailyGainKg         float64    `bson:"daily_gain_kg" json:"daily_gain_kg"`
	PreviousDailyGainKg *float64   `bson:"previous_daily_gain_kg,omitempty" json:"previous_daily_gain_kg,omitempty"`
	GainChangedAt       *time.Time `bson:"gain_changed_at,omitempty" json:"gain_changed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	Saleyard  string    `bson:"saleyard,omitempty" json:"saleyard,omitempty"`

	IsBreeder   bool       `bson:"is_breeder" json:"is_breeder"`
	IsPregnant  bool       `bson:"is_pregnant" json:"is_pregnant"`
	JoinedAt    *time.Time `bson:"joined_at,omitempty" json:"joined_at,omitempty"`
	CalvingRate float64    `bson:"calving_rate" json:"calving_rate"` // expected progeny per head

	Sold   bool       `bson:"sold" json:"sold"`
	SoldAt *time.Time `bson:"sold_at,omitempty" json:"sold_at,omitempty"`
}

// Validation errors surfaced to the HTTP layer.
var (
	ErrHeadCountInvalid    = errors.New("head count must be positive")
	ErrSpeciesUnknown      = errors.New("unknown species")
	ErrCategoryMissing     = errors.New("category must be provided")
	ErrJoinedDateMissing   = errors.New("pregnant herd requires a joined date")
	ErrPreviousGainMissing = errors.New("gain change date requires a previous gain rate")
	ErrGainChangeTooEarly  = errors.New("gain change date precedes herd creation")
)

// Validate enforces the structural invariants of a herd group.
func (h HerdGroup) Validate() error {
	if h.HeadCount <= 0 {
		return ErrHeadCountInvalid
	}
	if _, ok := ParseSpecies(string(h.Species)); !ok {
		return ErrSpeciesUnknown
	}
	if strings.TrimSpace(h.Category) == "" {
		return ErrCategoryMissing
	}
	if h.IsPregnant && h.JoinedAt == nil {
		return ErrJoinedDateMissing
	}
	if h.GainChangedAt != nil {
		if h.PreviousDailyGainKg == nil {
			return ErrPreviousGainMissing
		}
		if h.GainChangedAt.Before(h.CreatedAt) {
			return ErrGainChangeTooEarly
		}
	}
	return nil
}
