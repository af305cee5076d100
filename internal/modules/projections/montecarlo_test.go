package projections

import (
	"math"
	"testing"
)

func TestMonteCarloPercentilesMonotonic(t *testing.T) {
	result, err := RunMonteCarlo(MonteCarloInput{
		InitialValue:     100000,
		AnnualReturn:     12,
		Volatility:       15,
		AnnualInvestment: 50000,
		Years:            20,
		NumSimulations:   2000,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}

	order := []string{BandP10, BandP25, BandP50, BandP75, BandP90}
	for y := 0; y < 20; y++ {
		for i := 1; i < len(order); i++ {
			lo := result.Percentiles[order[i-1]][y]
			hi := result.Percentiles[order[i]][y]
			if lo > hi {
				t.Errorf("year %d: %s (%f) > %s (%f)", y+1, order[i-1], lo, order[i], hi)
			}
		}
	}

	if result.FinalValues[ScenarioWorstCase] > result.FinalValues[ScenarioBestCase] {
		t.Errorf("worst_case %f > best_case %f",
			result.FinalValues[ScenarioWorstCase], result.FinalValues[ScenarioBestCase])
	}
}

func TestMonteCarloDeterministicForFixedSeed(t *testing.T) {
	in := MonteCarloInput{
		InitialValue:   50000,
		AnnualReturn:   10,
		Volatility:     18,
		Years:          10,
		NumSimulations: 500,
		Seed:           7,
	}

	first, err := RunMonteCarlo(in)
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}
	second, err := RunMonteCarlo(in)
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}

	for band, series := range first.Percentiles {
		for y, v := range series {
			if second.Percentiles[band][y] != v {
				t.Fatalf("band %s year %d differs between runs: %f vs %f",
					band, y+1, v, second.Percentiles[band][y])
			}
		}
	}
}

func TestMonteCarloScenariosMatchFinalYear(t *testing.T) {
	result, err := RunMonteCarlo(MonteCarloInput{
		InitialValue:   10000,
		AnnualReturn:   8,
		Volatility:     10,
		Years:          5,
		NumSimulations: 300,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}

	pairs := map[string]string{
		ScenarioWorstCase:   BandP10,
		ScenarioPessimistic: BandP25,
		ScenarioMostLikely:  BandP50,
		ScenarioOptimistic:  BandP75,
		ScenarioBestCase:    BandP90,
	}
	for scenario, band := range pairs {
		series := result.Percentiles[band]
		if result.FinalValues[scenario] != series[len(series)-1] {
			t.Errorf("%s = %f, want final %s value %f",
				scenario, result.FinalValues[scenario], band, series[len(series)-1])
		}
	}
}

func TestMonteCarloMedianTracksExpectedGrowth(t *testing.T) {
	// With zero volatility every path is identical and the median is exact
	// compound growth.
	result, err := RunMonteCarlo(MonteCarloInput{
		InitialValue:   100000,
		AnnualReturn:   10,
		Volatility:     0,
		Years:          3,
		NumSimulations: 100,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}

	want := 100000 * math.Pow(1.10, 3)
	got := result.Percentiles[BandP50][2]
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("median = %f, want %f", got, want)
	}
}

func TestMonteCarloDefaults(t *testing.T) {
	result, err := RunMonteCarlo(MonteCarloInput{
		InitialValue:   1000,
		AnnualReturn:   8,
		Volatility:     12,
		Years:          2,
		NumSimulations: 100,
	})
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}
	if result.Simulations != 100 {
		t.Errorf("simulations = %d, want 100", result.Simulations)
	}
	if len(result.Years) != 2 || result.Years[0] != 1 || result.Years[1] != 2 {
		t.Errorf("years = %v, want [1 2]", result.Years)
	}
}

func TestMonteCarloRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   MonteCarloInput
	}{
		{"zero years", MonteCarloInput{InitialValue: 1000, Years: 0}},
		{"negative initial", MonteCarloInput{InitialValue: -1, Years: 5}},
		{"negative volatility", MonteCarloInput{InitialValue: 0, Volatility: -1, Years: 5}},
		{"too many simulations", MonteCarloInput{InitialValue: 0, Years: 5, NumSimulations: maxSimulations + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RunMonteCarlo(tt.in); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
