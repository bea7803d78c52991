package valuation

import (
	"math"
	"testing"
)

func TestMortalityDeduction_Prorated(t *testing.T) {
	// 10% annual rate over 100 days held.
	got := MortalityDeduction(76000, 0.10, 100)
	expected := 76000 * 0.10 * 100 / 365

	if math.Abs(got-expected) > 0.0001 {
		t.Errorf("Expected %f, got %f", expected, got)
	}
}

func TestMortalityDeduction_StrictlyIncreasingBeforeClamp(t *testing.T) {
	previous := -1.0
	for days := 0.0; days <= 365; days += 30 {
		got := MortalityDeduction(1000, 0.5, days)
		if got <= previous {
			t.Fatalf("Deduction not strictly increasing at %f days: %f <= %f", days, got, previous)
		}
		previous = got
	}
}

func TestMortalityDeduction_ClampsAtFullValue(t *testing.T) {
	// 80% annual rate held for 5 years prorates past 100%; the deduction
	// must stop at the gross value so net value never goes negative.
	got := MortalityDeduction(1000, 0.8, 5*365)
	if got != 1000 {
		t.Errorf("Expected deduction clamped to 1000, got %f", got)
	}
}

func TestMortalityDeduction_NegativeInputsClampToZero(t *testing.T) {
	if got := MortalityDeduction(1000, 0.1, -30); got != 0 {
		t.Errorf("Expected zero deduction for negative days held, got %f", got)
	}
	if got := MortalityDeduction(1000, -0.1, 30); got != 0 {
		t.Errorf("Expected zero deduction for negative rate, got %f", got)
	}
}
