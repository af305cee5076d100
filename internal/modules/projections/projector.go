package projections

import "fmt"

// Project produces the year-by-year value series for a single input row.
//
// Each year runs 12 monthly steps: the current SIP amount is added first,
// then the running value compounds at annualRate/12. The annual lump-sum is
// added once after the 12 months and is not compounded within the year.
// Growth is whatever year-over-year increase is not attributable to
// contributions. When a step-up is configured, the monthly SIP scales by
// (1 + stepUp/100) after each emitted year and compounds year over year.
//
// Pure function of its inputs; safe for concurrent use.
func Project(principal, annualRate, annualInvestment float64, years int, monthlySIP, stepUpPct float64) ([]YearResult, error) {
	if years <= 0 {
		return nil, fmt.Errorf("years must be positive, got %d", years)
	}
	if principal < 0 {
		return nil, fmt.Errorf("principal must be non-negative, got %f", principal)
	}
	if annualInvestment < 0 {
		return nil, fmt.Errorf("annual_investment must be non-negative, got %f", annualInvestment)
	}
	if monthlySIP < 0 {
		return nil, fmt.Errorf("monthly_sip must be non-negative, got %f", monthlySIP)
	}
	if stepUpPct < 0 {
		return nil, fmt.Errorf("step_up_percent must be non-negative, got %f", stepUpPct)
	}

	monthlyRate := annualRate / 100 / 12
	value := principal
	sip := monthlySIP

	results := make([]YearResult, 0, years)
	for year := 1; year <= years; year++ {
		yearStart := value

		sipTotal := 0.0
		for month := 0; month < 12; month++ {
			value += sip
			sipTotal += sip
			value *= 1 + monthlyRate
		}

		value += annualInvestment

		growth := value - yearStart - sipTotal - annualInvestment

		results = append(results, YearResult{
			Year:                year,
			TotalValue:          value,
			InvestmentAdded:     annualInvestment,
			Growth:              growth,
			SIPContribution:     sipTotal,
			LumpsumContribution: annualInvestment,
		})

		if stepUpPct > 0 {
			sip *= 1 + stepUpPct/100
		}
	}

	return results, nil
}

// ProjectInput runs Project over a single request row.
func ProjectInput(in Input) ([]YearResult, error) {
	return Project(in.CurrentValue, in.AnnualGrowthRate, in.AnnualInvestment, in.Years, in.MonthlySIP, in.StepUpPercent)
}
