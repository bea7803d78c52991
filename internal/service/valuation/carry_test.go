package valuation

import (
	"math"
	"testing"
)

func TestCostToCarry(t *testing.T) {
	// 1200 + 2500 + 400 a month over 60 days is two months of cost.
	got := CostToCarry(1200, 2500, 400, 60)
	expected := (1200 + 2500 + 400) * 2.0

	if math.Abs(got-expected) > 0.0001 {
		t.Errorf("Expected %f, got %f", expected, got)
	}
}

func TestCostToCarry_ZeroAndNegativeDays(t *testing.T) {
	if got := CostToCarry(100, 100, 100, 0); got != 0 {
		t.Errorf("Expected zero cost for zero days, got %f", got)
	}
	if got := CostToCarry(100, 100, 100, -15); got != 0 {
		t.Errorf("Expected zero cost for negative days, got %f", got)
	}
}
