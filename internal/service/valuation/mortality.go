package valuation

// MortalityDeduction returns the absolute amount discounted from a gross
// value for time-prorated mortality risk. The effective rate is clamped to
// [0, 1]: a herd held long enough for the prorated annual rate to exceed
// 100% is written down to zero, never below it.
func MortalityDeduction(grossValue, annualRate, daysHeld float64) float64 {
	effectiveRate := annualRate * daysHeld / 365
	if effectiveRate < 0 {
		effectiveRate = 0
	}
	if effectiveRate > 1 {
		effectiveRate = 1
	}
	return grossValue * effectiveRate
}
