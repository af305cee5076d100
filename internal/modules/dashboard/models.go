// Package dashboard computes the aggregate wealth summary for a user.
package dashboard

import (
	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
)

// Summary is the aggregate view over a user's assets. An empty portfolio
// produces an all-zero summary with an empty allocation map.
type Summary struct {
	TotalNetWorth      float64            `json:"total_net_worth"`
	TotalInvestment    float64            `json:"total_investment"`
	TotalGainLoss      float64            `json:"total_gain_loss"`
	GainLossPercentage float64            `json:"gain_loss_percentage"`
	AssetAllocation    map[string]float64 `json:"asset_allocation"`
	RecentAssets       []assets.Asset     `json:"recent_assets"`
}
