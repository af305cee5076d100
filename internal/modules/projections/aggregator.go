package projections

import "fmt"

// DefaultHorizonYears is the horizon used when the request carries no input
// rows. An empty request still returns a full-length zero series; this
// matches the behavior the API has always had and clients depend on it.
const DefaultHorizonYears = 10

// Aggregate runs the projector once per input row and sums same-year results
// into combined yearly totals. The horizon is the maximum Years across rows;
// rows with shorter horizons simply stop contributing once exhausted.
func Aggregate(inputs []Input) (*WealthProjection, error) {
	if len(inputs) == 0 {
		return emptyProjection(DefaultHorizonYears), nil
	}

	maxYears := 0
	byClass := make([]ClassProjection, 0, len(inputs))
	for i, in := range inputs {
		series, err := ProjectInput(in)
		if err != nil {
			return nil, fmt.Errorf("projection input %d (%s): %w", i, in.AssetClass, err)
		}
		byClass = append(byClass, ClassProjection{AssetClass: in.AssetClass, Years: series})
		if in.Years > maxYears {
			maxYears = in.Years
		}
	}

	combined := make([]YearResult, maxYears)
	for y := 0; y < maxYears; y++ {
		combined[y].Year = y + 1
	}
	for _, cp := range byClass {
		for y, r := range cp.Years {
			combined[y].TotalValue += r.TotalValue
			combined[y].InvestmentAdded += r.InvestmentAdded
			combined[y].Growth += r.Growth
			combined[y].SIPContribution += r.SIPContribution
			combined[y].LumpsumContribution += r.LumpsumContribution
		}
	}

	return &WealthProjection{Combined: combined, ByClass: byClass}, nil
}

func emptyProjection(years int) *WealthProjection {
	combined := make([]YearResult, years)
	for y := range combined {
		combined[y].Year = y + 1
	}
	return &WealthProjection{Combined: combined, ByClass: []ClassProjection{}}
}
