package models

// ValuationPreferences holds the farm-wide settings the valuation engine
// reads. A single document per installation; defaults apply until the user
// saves their own.
type ValuationPreferences struct {
	State               string  `bson:"state" json:"state"` // e.g. "NSW"
	AnnualMortalityRate float64 `bson:"annual_mortality_rate" json:"annual_mortality_rate"`

	MonthlyAgistmentCost float64 `bson:"monthly_agistment_cost" json:"monthly_agistment_cost"`
	MonthlyFeedCost      float64 `bson:"monthly_feed_cost" json:"monthly_feed_cost"`
	MonthlyVetCost       float64 `bson:"monthly_vet_cost" json:"monthly_vet_cost"`
}

// DefaultPreferences returns the settings applied before the user has saved
// any of their own.
func DefaultPreferences() ValuationPreferences {
	return ValuationPreferences{
		State:               "NSW",
		AnnualMortalityRate: 0.02,
	}
}
