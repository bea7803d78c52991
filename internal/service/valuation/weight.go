package valuation

import "time"

// ProjectWeight projects a herd's current live weight per head. When the
// daily gain rate was changed at some point (changedAt with previousRate),
// the projection is piecewise linear: the previous rate applies from start
// to the change date, the current rate from the change date to asOf.
// Day spans are clamped to zero so out-of-order dates or clock skew can
// only flatten the projection, never reverse it.
func ProjectWeight(initialKg float64, start time.Time, changedAt *time.Time, asOf time.Time, previousRate *float64, currentRate float64) float64 {
	if changedAt != nil && previousRate != nil {
		firstPhase := daysBetween(start, *changedAt)
		secondPhase := daysBetween(*changedAt, asOf)
		return initialKg + *previousRate*firstPhase + currentRate*secondPhase
	}
	return initialKg + currentRate*daysBetween(start, asOf)
}

// daysBetween returns the non-negative span between two instants in days.
func daysBetween(from, to time.Time) float64 {
	days := to.Sub(from).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}
