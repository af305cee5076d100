// Package projections implements the deterministic compound-growth projector,
// the portfolio aggregator, and the Monte Carlo simulator.
package projections

// Input describes one projection row, typically one asset class.
// Supplied per request, never persisted.
type Input struct {
	AssetClass       string  `json:"asset_class"`
	CurrentValue     float64 `json:"current_value"`
	AnnualGrowthRate float64 `json:"annual_growth_rate"`
	AnnualInvestment float64 `json:"annual_investment"`
	Years            int     `json:"years"`
	MonthlySIP       float64 `json:"monthly_sip"`
	StepUpPercent    float64 `json:"step_up_percent"`
}

// YearResult is the state of a projection at the end of one year.
//
// Invariant: TotalValue(y) = TotalValue(y-1) + SIPContribution(y) +
// LumpsumContribution(y) + Growth(y), with TotalValue(0) = principal.
type YearResult struct {
	Year                int     `json:"year"`
	TotalValue          float64 `json:"total_value"`
	InvestmentAdded     float64 `json:"investment_added"`
	Growth              float64 `json:"growth"`
	SIPContribution     float64 `json:"sip_contribution"`
	LumpsumContribution float64 `json:"lumpsum_contribution"`
}

// ClassProjection pairs an input row's label with its projected series.
type ClassProjection struct {
	AssetClass string       `json:"asset_class"`
	Years      []YearResult `json:"years"`
}

// WealthProjection is the aggregator output: the element-wise sum per year
// across all input rows, plus each row's individual series.
type WealthProjection struct {
	Combined []YearResult      `json:"combined"`
	ByClass  []ClassProjection `json:"by_class"`
}

// MonteCarloInput parameterizes one stochastic portfolio simulation.
// AnnualReturn and Volatility are percentages (12 means 12%).
type MonteCarloInput struct {
	InitialValue     float64 `json:"initial_value"`
	AnnualReturn     float64 `json:"annual_return"`
	Volatility       float64 `json:"volatility"`
	AnnualInvestment float64 `json:"annual_investment"`
	Years            int     `json:"years"`
	NumSimulations   int     `json:"num_simulations"`
	Seed             int64   `json:"seed"`
}

// Percentile band labels, ordered worst to best.
const (
	BandP10 = "p10"
	BandP25 = "p25"
	BandP50 = "p50"
	BandP75 = "p75"
	BandP90 = "p90"
)

// Terminal-value scenario labels mapped onto the percentile bands.
const (
	ScenarioWorstCase   = "worst_case"
	ScenarioPessimistic = "pessimistic"
	ScenarioMostLikely  = "most_likely"
	ScenarioOptimistic  = "optimistic"
	ScenarioBestCase    = "best_case"
)

// MonteCarloResult holds per-year percentile bands across all simulations
// and the terminal-value scenarios derived from the final year.
type MonteCarloResult struct {
	Years           []int                `json:"years"`
	Percentiles     map[string][]float64 `json:"percentiles"`
	FinalValues     map[string]float64   `json:"final_values"`
	ConfidenceRange string               `json:"confidence_range"`
	Simulations     int                  `json:"simulations"`
}
