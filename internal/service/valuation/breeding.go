package valuation

// BreedingAccrual computes the progressively recognized value of expected
// unborn progeny. Value accrues linearly over the gestation cycle and caps
// at full term; this is a deliberate simplification, not a biological model.
func BreedingAccrual(headCount int, calvingRate, daysElapsed float64, cycleDays int, valuePerOffspring float64) float64 {
	if headCount <= 0 || calvingRate <= 0 || cycleDays <= 0 || valuePerOffspring <= 0 {
		return 0
	}

	accruedFraction := daysElapsed / float64(cycleDays)
	if accruedFraction > 1 {
		accruedFraction = 1
	}
	if accruedFraction < 0 {
		accruedFraction = 0
	}

	expectedProgeny := float64(headCount) * calvingRate
	return expectedProgeny * accruedFraction * valuePerOffspring
}
