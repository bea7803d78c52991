package valuation

import (
	"testing"
	"time"
)

var weightEpoch = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func TestProjectWeight_SingleRate(t *testing.T) {
	asOf := weightEpoch.AddDate(0, 0, 10)

	got := ProjectWeight(100, weightEpoch, nil, asOf, nil, 2)
	if got != 120 {
		t.Errorf("Expected 120, got %f", got)
	}
}

func TestProjectWeight_RateChange(t *testing.T) {
	changed := weightEpoch.AddDate(0, 0, 30)
	asOf := weightEpoch.AddDate(0, 0, 50)
	oldRate := 1.0

	// 30 days at 1.0, then 20 days at 0.5.
	got := ProjectWeight(200, weightEpoch, &changed, asOf, &oldRate, 0.5)
	if got != 240 {
		t.Errorf("Expected 240, got %f", got)
	}
}

func TestProjectWeight_ChangeDateEqualsAsOf(t *testing.T) {
	changed := weightEpoch.AddDate(0, 0, 10)
	oldRate := 2.0

	// Phase 2 contributes zero; result matches the single-rate formula
	// using the old rate alone.
	withChange := ProjectWeight(100, weightEpoch, &changed, changed, &oldRate, 5)
	withoutChange := ProjectWeight(100, weightEpoch, nil, changed, nil, oldRate)

	if withChange != withoutChange {
		t.Errorf("Expected continuity at the change date: %f != %f", withChange, withoutChange)
	}
}

func TestProjectWeight_ClampsNegativeSpans(t *testing.T) {
	asOf := weightEpoch.AddDate(0, 0, -5)

	got := ProjectWeight(100, weightEpoch, nil, asOf, nil, 2)
	if got != 100 {
		t.Errorf("Expected initial weight 100 for asOf before start, got %f", got)
	}

	changed := weightEpoch.AddDate(0, 0, 10)
	oldRate := 1.0
	beforeChange := weightEpoch.AddDate(0, 0, 4)

	// asOf before the change date: phase 2 clamps to zero.
	got = ProjectWeight(100, weightEpoch, &changed, beforeChange, &oldRate, 3)
	if got != 110 {
		t.Errorf("Expected 110 (full phase 1, zero phase 2), got %f", got)
	}
}

func TestProjectWeight_MonotonicForPositiveRates(t *testing.T) {
	previous := 0.0
	for days := 0; days <= 365; days += 7 {
		got := ProjectWeight(300, weightEpoch, nil, weightEpoch.AddDate(0, 0, days), nil, 0.8)
		if got < previous {
			t.Fatalf("Projected weight decreased at day %d: %f < %f", days, got, previous)
		}
		previous = got
	}
}
