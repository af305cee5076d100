package analytics

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/pkg/formulas"
)

// TaxConfig holds the simplified capital-gains model parameters.
type TaxConfig struct {
	LTCGRate      float64
	STCGRate      float64
	LTCGExemption float64

	// Holding-period thresholds in days before a gain turns long-term.
	EquityThresholdDays int
	OtherThresholdDays  int

	// Assets within this many days of their threshold get a hold suggestion.
	HoldWindowDays int

	// Fraction of a loss counted as harvesting benefit.
	LossOffsetRate float64

	EquityTypes map[assets.Type]bool
}

// DefaultTaxConfig returns the production tax model parameters.
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		LTCGRate:            0.125,
		STCGRate:            0.20,
		LTCGExemption:       125000,
		EquityThresholdDays: 365,
		OtherThresholdDays:  1095,
		HoldWindowDays:      90,
		LossOffsetRate:      0.30,
		EquityTypes: map[assets.Type]bool{
			assets.TypeStocks:         true,
			assets.TypeMutualFunds:    true,
			assets.TypeCryptocurrency: true,
		},
	}
}

// TaxAnalyzer estimates capital-gains liability and produces optimization
// suggestions. The model is a two-bracket heuristic, not statutory advice.
type TaxAnalyzer struct {
	cfg TaxConfig
	log zerolog.Logger
}

// NewTaxAnalyzer creates a tax analyzer with the given model parameters.
func NewTaxAnalyzer(cfg TaxConfig, log zerolog.Logger) *TaxAnalyzer {
	return &TaxAnalyzer{
		cfg: cfg,
		log: log.With().Str("service", "tax_analyzer").Logger(),
	}
}

// ThresholdDays returns the long-term holding threshold for an asset type.
func (t *TaxAnalyzer) ThresholdDays(typ assets.Type) int {
	if t.cfg.EquityTypes[typ] {
		return t.cfg.EquityThresholdDays
	}
	return t.cfg.OtherThresholdDays
}

// Analyze classifies each asset's unrealized gain as long- or short-term as
// of now, applies the exemption to long-term gains, and emits hold, harvest,
// and stagger suggestions.
//
// An asset is long-term only once its holding period strictly exceeds the
// threshold; a sale exactly at the threshold is still short-term.
func (t *TaxAnalyzer) Analyze(list []assets.Asset, now time.Time) TaxOptimization {
	result := TaxOptimization{Suggestions: []TaxSuggestion{}}

	for _, a := range list {
		gain := a.GainLoss()
		holdingDays := int(now.Sub(a.PurchaseDate).Hours() / 24)
		threshold := t.ThresholdDays(a.AssetType)

		if gain > 0 {
			if holdingDays > threshold {
				result.TotalLTCG += gain
			} else {
				result.TotalSTCG += gain
				daysToGo := threshold - holdingDays
				if daysToGo <= t.cfg.HoldWindowDays {
					saving := gain * (t.cfg.STCGRate - t.cfg.LTCGRate)
					result.Suggestions = append(result.Suggestions, TaxSuggestion{
						Kind:            SuggestionHoldForLTCG,
						AssetID:         a.ID,
						AssetName:       a.Name,
						Description:     fmt.Sprintf("Hold %s for %d more days to qualify for the lower long-term rate", a.Name, daysToGo),
						PotentialSaving: formulas.Round(saving, 2),
					})
				}
			}
		} else if gain < 0 {
			benefit := -gain * t.cfg.LossOffsetRate
			result.Suggestions = append(result.Suggestions, TaxSuggestion{
				Kind:            SuggestionHarvestLoss,
				AssetID:         a.ID,
				AssetName:       a.Name,
				Description:     fmt.Sprintf("Harvest the %.0f loss on %s to offset gains elsewhere", -gain, a.Name),
				PotentialSaving: formulas.Round(benefit, 2),
			})
		}
	}

	result.LTCGTaxable = result.TotalLTCG - t.cfg.LTCGExemption
	if result.LTCGTaxable < 0 {
		result.LTCGTaxable = 0
	}
	result.LTCGLiability = result.LTCGTaxable * t.cfg.LTCGRate
	result.STCGLiability = result.TotalSTCG * t.cfg.STCGRate
	result.TotalTaxLiability = result.LTCGLiability + result.STCGLiability

	totalGains := result.TotalLTCG + result.TotalSTCG
	result.EffectiveTaxRate = formulas.SafeDiv(result.TotalTaxLiability, totalGains) * 100

	if result.TotalLTCG > 2*t.cfg.LTCGExemption {
		// Each extra financial year of staggering shelters one more
		// exemption's worth of gains.
		staggerSaving := t.cfg.LTCGExemption * t.cfg.LTCGRate
		result.Suggestions = append(result.Suggestions, TaxSuggestion{
			Kind:            SuggestionStagger,
			Description:     fmt.Sprintf("Long-term gains exceed twice the %.0f exemption; stagger bookings across financial years to use the exemption more than once", t.cfg.LTCGExemption),
			PotentialSaving: formulas.Round(staggerSaving, 2),
		})
	}

	t.log.Debug().
		Float64("ltcg", result.TotalLTCG).
		Float64("stcg", result.TotalSTCG).
		Float64("liability", result.TotalTaxLiability).
		Msg("Tax optimization computed")

	return result
}
