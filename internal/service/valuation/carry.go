package valuation

// CostToCarry accumulates holding costs since acquisition: the three
// monthly rates summed and prorated over the days held at 30 days a month.
func CostToCarry(monthlyAgistment, monthlyFeed, monthlyVet, daysHeld float64) float64 {
	if daysHeld < 0 {
		daysHeld = 0
	}
	return (monthlyAgistment + monthlyFeed + monthlyVet) * daysHeld / 30
}
