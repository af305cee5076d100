// Package analytics implements the heuristic analyzers over a user's asset
// snapshot: financial health scoring, performance attribution, and tax
// optimization. All analyzers are pure, stateless computations; their
// thresholds live in explicit config structs so tests can override them.
package analytics

// FinancialHealthScore is the weighted heuristic scoring output.
// OverallScore is the sum of five category scores, each capped at 200.
type FinancialHealthScore struct {
	OverallScore        int            `json:"overall_score"`
	CategoryScores      map[string]int `json:"category_scores"`
	Recommendations     []string       `json:"recommendations"`
	Strengths           []string       `json:"strengths"`
	AreasForImprovement []string       `json:"areas_for_improvement"`
}

// Health score category names.
const (
	CategoryDiversification = "diversification"
	CategoryConsistency     = "consistency"
	CategoryPerformance     = "performance"
	CategoryWealth          = "wealth_accumulation"
	CategoryRisk            = "risk_management"
)

// AssetPerformance is one asset's slice of the attribution breakdown.
type AssetPerformance struct {
	AssetID                string  `json:"asset_id"`
	Name                   string  `json:"name"`
	AssetType              string  `json:"asset_type"`
	CurrentValue           float64 `json:"current_value"`
	GainLoss               float64 `json:"gain_loss"`
	ContributionPercentage float64 `json:"contribution_percentage"`
	ReturnPercentage       float64 `json:"return_percentage"`
}

// SectorPerformance summarizes one asset type's allocation and mean return.
type SectorPerformance struct {
	Sector               string  `json:"sector"`
	AllocationPercentage float64 `json:"allocation_percentage"`
	AverageReturn        float64 `json:"average_return"`
	AssetCount           int     `json:"asset_count"`
}

// PerformanceAttribution is the per-asset and per-sector breakdown.
//
// The correlation matrix is produced by a CorrelationProvider; the default
// provider emits synthetic placeholder values and is documented as
// non-predictive.
type PerformanceAttribution struct {
	AssetContributions []AssetPerformance            `json:"asset_contributions"`
	BestPerformers     []AssetPerformance            `json:"best_performers"`
	WorstPerformers    []AssetPerformance            `json:"worst_performers"`
	SectorAnalysis     []SectorPerformance           `json:"sector_analysis"`
	CorrelationMatrix  map[string]map[string]float64 `json:"correlation_matrix"`
}

// Tax suggestion kinds.
const (
	SuggestionHoldForLTCG = "hold_for_ltcg"
	SuggestionHarvestLoss = "harvest_loss"
	SuggestionStagger     = "stagger_booking"
)

// TaxSuggestion is one actionable item from the tax analyzer.
type TaxSuggestion struct {
	Kind            string  `json:"kind"`
	AssetID         string  `json:"asset_id,omitempty"`
	AssetName       string  `json:"asset_name,omitempty"`
	Description     string  `json:"description"`
	PotentialSaving float64 `json:"potential_saving"`
}

// TaxOptimization is the simplified two-bracket capital-gains estimate.
// This is a heuristic model, not statutory tax advice.
type TaxOptimization struct {
	TotalLTCG         float64         `json:"total_ltcg"`
	TotalSTCG         float64         `json:"total_stcg"`
	LTCGTaxable       float64         `json:"ltcg_taxable"`
	LTCGLiability     float64         `json:"ltcg_liability"`
	STCGLiability     float64         `json:"stcg_liability"`
	TotalTaxLiability float64         `json:"total_tax_liability"`
	EffectiveTaxRate  float64         `json:"effective_tax_rate"`
	Suggestions       []TaxSuggestion `json:"suggestions"`
}
