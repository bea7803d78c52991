package valuation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockyard/internal/domain/models"
)

// PriceResolver supplies a price per kilogram and a source label for a herd.
// It must never fail; on an unreachable market the implementation answers
// with a default price and labels it accordingly.
type PriceResolver interface {
	Resolve(ctx context.Context, category, breed, saleyard, state string) (price float64, source string)
}

// Engine values herds. It holds no mutable state of its own; all shared
// state lives behind the resolver, so concurrent Valuate calls are safe.
type Engine struct {
	prices PriceResolver
	logger *zap.Logger
}

// NewEngine wires a valuation engine against the given price resolver.
func NewEngine(prices PriceResolver, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{prices: prices, logger: logger}
}

// Valuate computes the full valuation breakdown for one herd as of a date.
// saleyardOverride, when non-empty, takes precedence over the herd's own
// saleyard. Valuate always completes; a missing market price degrades to a
// default, never to an error.
func (e *Engine) Valuate(ctx context.Context, herd models.HerdGroup, prefs models.ValuationPreferences, asOf time.Time, saleyardOverride string) models.HerdValuation {
	projectedKg := ProjectWeight(herd.InitialWeightKg, herd.CreatedAt, herd.GainChangedAt, asOf, herd.PreviousDailyGainKg, herd.DailyGainKg)

	saleyard := saleyardOverride
	if saleyard == "" {
		saleyard = herd.Saleyard
	}

	pricePerKg, priceSource := e.prices.Resolve(ctx, herd.Category, herd.Breed, saleyard, prefs.State)

	physicalValue := float64(herd.HeadCount) * projectedKg * pricePerKg

	var breedingAccrual float64
	if herd.IsBreeder && herd.IsPregnant && herd.JoinedAt != nil {
		profile := profileFor(herd.Species)
		daysPregnant := daysBetween(*herd.JoinedAt, asOf)
		valuePerOffspring := projectedKg * profile.OffspringWeightShare * pricePerKg
		breedingAccrual = BreedingAccrual(herd.HeadCount, herd.CalvingRate, daysPregnant, profile.GestationDays, valuePerOffspring)
	}

	grossValue := physicalValue + breedingAccrual

	daysHeld := daysBetween(herd.CreatedAt, asOf)
	mortalityDeduction := MortalityDeduction(grossValue, prefs.AnnualMortalityRate, daysHeld)
	netValue := grossValue - mortalityDeduction

	costToCarry := CostToCarry(prefs.MonthlyAgistmentCost, prefs.MonthlyFeedCost, prefs.MonthlyVetCost, daysHeld)

	e.logger.Debug("herd valued",
		zap.String("herd_id", herd.ID),
		zap.Float64("projected_kg", projectedKg),
		zap.Float64("price_per_kg", pricePerKg),
		zap.String("price_source", priceSource),
		zap.Float64("net_realizable", netValue-costToCarry))

	return models.HerdValuation{
		HerdID:             herd.ID,
		HerdName:           herd.Name,
		ProjectedWeightKg:  projectedKg,
		PricePerKg:         pricePerKg,
		PriceSource:        priceSource,
		PhysicalValue:      physicalValue,
		BreedingAccrual:    breedingAccrual,
		GrossValue:         grossValue,
		MortalityDeduction: mortalityDeduction,
		NetValue:           netValue,
		CostToCarry:        costToCarry,
		NetRealizableValue: netValue - costToCarry,
		ValuedAt:           asOf,
	}
}
