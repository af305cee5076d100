package analytics

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/pkg/formulas"
)

// topPerformerLimit caps the best/worst performer lists.
const topPerformerLimit = 5

// PerformanceAnalyzer builds the per-asset attribution report.
type PerformanceAnalyzer struct {
	correlations CorrelationProvider
	log          zerolog.Logger
}

// NewPerformanceAnalyzer creates an analyzer. A nil provider falls back to
// the seeded placeholder.
func NewPerformanceAnalyzer(provider CorrelationProvider, log zerolog.Logger) *PerformanceAnalyzer {
	if provider == nil {
		provider = &PlaceholderCorrelationProvider{Seed: 1}
	}
	return &PerformanceAnalyzer{
		correlations: provider,
		log:          log.With().Str("service", "performance_analyzer").Logger(),
	}
}

// Analyze attributes portfolio gains to individual assets and sectors.
//
// Contribution is each asset's gain relative to the portfolio's total
// invested capital, so contributions sum to the overall gain percentage.
// Return is the asset's own gain over its purchase value.
func (p *PerformanceAnalyzer) Analyze(list []assets.Asset) PerformanceAttribution {
	result := PerformanceAttribution{
		AssetContributions: []AssetPerformance{},
		BestPerformers:     []AssetPerformance{},
		WorstPerformers:    []AssetPerformance{},
		SectorAnalysis:     []SectorPerformance{},
		CorrelationMatrix:  map[string]map[string]float64{},
	}
	if len(list) == 0 {
		return result
	}

	totalInvestment := 0.0
	for _, a := range list {
		totalInvestment += a.PurchaseValue
	}

	for _, a := range list {
		gain := a.GainLoss()
		result.AssetContributions = append(result.AssetContributions, AssetPerformance{
			AssetID:                a.ID,
			Name:                   a.Name,
			AssetType:              string(a.AssetType),
			CurrentValue:           a.CurrentValue,
			GainLoss:               gain,
			ContributionPercentage: formulas.SafeDiv(gain, totalInvestment) * 100,
			ReturnPercentage:       formulas.SafeDiv(gain, a.PurchaseValue) * 100,
		})
	}

	result.BestPerformers, result.WorstPerformers = rankPerformers(result.AssetContributions)
	result.SectorAnalysis = p.analyzeSectors(list)

	types := make([]assets.Type, 0, len(list))
	for _, a := range list {
		types = append(types, a.AssetType)
	}
	result.CorrelationMatrix = p.correlations.Correlations(types)

	p.log.Debug().
		Int("assets", len(list)).
		Int("sectors", len(result.SectorAnalysis)).
		Msg("Performance attribution computed")

	return result
}

// rankPerformers splits assets into positive and non-positive returns and
// returns the top and bottom lists.
func rankPerformers(contributions []AssetPerformance) (best, worst []AssetPerformance) {
	best = []AssetPerformance{}
	worst = []AssetPerformance{}
	for _, c := range contributions {
		if c.ReturnPercentage > 0 {
			best = append(best, c)
		} else {
			worst = append(worst, c)
		}
	}
	sort.Slice(best, func(i, j int) bool {
		return best[i].ReturnPercentage > best[j].ReturnPercentage
	})
	sort.Slice(worst, func(i, j int) bool {
		return worst[i].ReturnPercentage < worst[j].ReturnPercentage
	})
	if len(best) > topPerformerLimit {
		best = best[:topPerformerLimit]
	}
	if len(worst) > topPerformerLimit {
		worst = worst[:topPerformerLimit]
	}
	return best, worst
}

// analyzeSectors groups assets by type and reports each sector's share of
// current value and mean per-asset return.
func (p *PerformanceAnalyzer) analyzeSectors(list []assets.Asset) []SectorPerformance {
	type bucket struct {
		value      float64
		returnSum  float64
		assetCount int
	}
	buckets := make(map[assets.Type]*bucket)
	totalValue := 0.0
	for _, a := range list {
		b := buckets[a.AssetType]
		if b == nil {
			b = &bucket{}
			buckets[a.AssetType] = b
		}
		b.value += a.CurrentValue
		b.returnSum += formulas.SafeDiv(a.GainLoss(), a.PurchaseValue) * 100
		b.assetCount++
		totalValue += a.CurrentValue
	}

	sectors := make([]SectorPerformance, 0, len(buckets))
	for t, b := range buckets {
		sectors = append(sectors, SectorPerformance{
			Sector:               t.DisplayName(),
			AllocationPercentage: formulas.SafeDiv(b.value, totalValue) * 100,
			AverageReturn:        b.returnSum / float64(b.assetCount),
			AssetCount:           b.assetCount,
		})
	}
	sort.Slice(sectors, func(i, j int) bool {
		return sectors[i].AllocationPercentage > sectors[j].AllocationPercentage
	})
	return sectors
}
