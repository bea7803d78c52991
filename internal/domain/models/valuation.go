package models

import "time"

// HerdValuation is the full breakdown of a single herd's point-in-time
// value. Constructed fresh on every valuation request and never mutated.
type HerdValuation struct {
	HerdID   string `bson:"herd_id" json:"herd_id"`
	HerdName string `bson:"herd_name" json:"herd_name"`

	ProjectedWeightKg float64 `bson:"projected_weight_kg" json:"projected_weight_kg"`
	PricePerKg        float64 `bson:"price_per_kg" json:"price_per_kg"`
	PriceSource       string  `bson:"price_source" json:"price_source"`

	PhysicalValue      float64 `bson:"physical_value" json:"physical_value"`
	BreedingAccrual    float64 `bson:"breeding_accrual" json:"breeding_accrual"`
	GrossValue         float64 `bson:"gross_value" json:"gross_value"`
	MortalityDeduction float64 `bson:"mortality_deduction" json:"mortality_deduction"`
	NetValue           float64 `bson:"net_value" json:"net_value"`
	CostToCarry        float64 `bson:"cost_to_carry" json:"cost_to_carry"`
	NetRealizableValue float64 `bson:"net_realizable_value" json:"net_realizable_value"`

	ValuedAt time.Time `bson:"valued_at" json:"valued_at"`
}

// PortfolioValuation aggregates the valuations of every unsold herd.
type PortfolioValuation struct {
	ValuedAt time.Time       `bson:"valued_at" json:"valued_at"`
	Herds    []HerdValuation `bson:"herds" json:"herds"`

	TotalGrossValue         float64 `bson:"total_gross_value" json:"total_gross_value"`
	TotalNetValue           float64 `bson:"total_net_value" json:"total_net_value"`
	TotalCostToCarry        float64 `bson:"total_cost_to_carry" json:"total_cost_to_carry"`
	TotalNetRealizableValue float64 `bson:"total_net_realizable_value" json:"total_net_realizable_value"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
