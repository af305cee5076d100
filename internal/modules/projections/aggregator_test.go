package projections

import (
	"math"
	"testing"
)

func TestAggregateEmptyInputReturnsDefaultHorizon(t *testing.T) {
	result, err := Aggregate(nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(result.Combined) != DefaultHorizonYears {
		t.Fatalf("got %d years, want %d", len(result.Combined), DefaultHorizonYears)
	}
	for _, r := range result.Combined {
		if r.TotalValue != 0 || r.Growth != 0 || r.SIPContribution != 0 || r.LumpsumContribution != 0 {
			t.Errorf("year %d not all-zero: %+v", r.Year, r)
		}
	}
	if result.Combined[0].Year != 1 || result.Combined[9].Year != 10 {
		t.Error("year indices must be 1-based and sequential")
	}
}

func TestAggregateSumsElementWise(t *testing.T) {
	a := Input{AssetClass: "stocks", CurrentValue: 100000, AnnualGrowthRate: 12, Years: 10, MonthlySIP: 1000}
	b := Input{AssetClass: "gold", CurrentValue: 50000, AnnualGrowthRate: 8, AnnualInvestment: 5000, Years: 10}

	result, err := Aggregate([]Input{a, b})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	seriesA, _ := ProjectInput(a)
	seriesB, _ := ProjectInput(b)

	if len(result.Combined) != 10 {
		t.Fatalf("got %d combined years, want 10", len(result.Combined))
	}
	for y := 0; y < 10; y++ {
		wantTotal := seriesA[y].TotalValue + seriesB[y].TotalValue
		if math.Abs(result.Combined[y].TotalValue-wantTotal) > 1e-6 {
			t.Errorf("year %d total = %f, want %f", y+1, result.Combined[y].TotalValue, wantTotal)
		}
		wantGrowth := seriesA[y].Growth + seriesB[y].Growth
		if math.Abs(result.Combined[y].Growth-wantGrowth) > 1e-6 {
			t.Errorf("year %d growth = %f, want %f", y+1, result.Combined[y].Growth, wantGrowth)
		}
	}
}

func TestAggregateShorterHorizonStopsContributing(t *testing.T) {
	long := Input{AssetClass: "stocks", CurrentValue: 100000, AnnualGrowthRate: 10, Years: 10}
	short := Input{AssetClass: "fd", CurrentValue: 50000, AnnualGrowthRate: 6, Years: 3}

	result, err := Aggregate([]Input{long, short})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(result.Combined) != 10 {
		t.Fatalf("horizon must be the max across inputs, got %d", len(result.Combined))
	}

	longSeries, _ := ProjectInput(long)
	// From year 4 on only the long row contributes.
	for y := 3; y < 10; y++ {
		if math.Abs(result.Combined[y].TotalValue-longSeries[y].TotalValue) > 1e-6 {
			t.Errorf("year %d total = %f, want long-only %f", y+1, result.Combined[y].TotalValue, longSeries[y].TotalValue)
		}
	}
}

func TestAggregatePropagatesInvalidInput(t *testing.T) {
	if _, err := Aggregate([]Input{{AssetClass: "stocks", Years: 0}}); err == nil {
		t.Error("expected error for zero-year input")
	}
}
