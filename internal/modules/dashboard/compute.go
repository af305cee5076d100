package dashboard

import (
	"sort"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/pkg/formulas"
)

// recentAssetLimit caps the recent-assets list in the summary.
const recentAssetLimit = 5

// Compute builds a Summary from an asset snapshot. Pure function; the
// analytics engine consumes its output directly.
func Compute(list []assets.Asset) Summary {
	summary := Summary{
		AssetAllocation: make(map[string]float64),
		RecentAssets:    []assets.Asset{},
	}
	if len(list) == 0 {
		return summary
	}

	for _, a := range list {
		summary.TotalInvestment += a.PurchaseValue
		summary.TotalNetWorth += a.CurrentValue
		summary.AssetAllocation[string(a.AssetType)] += a.CurrentValue
	}
	summary.TotalGainLoss = summary.TotalNetWorth - summary.TotalInvestment
	summary.GainLossPercentage = formulas.SafeDiv(summary.TotalGainLoss, summary.TotalInvestment) * 100

	recent := make([]assets.Asset, len(list))
	copy(recent, list)
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentAssetLimit {
		recent = recent[:recentAssetLimit]
	}
	summary.RecentAssets = recent

	return summary
}
