package testing

import (
	"time"

	"github.com/google/uuid"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
)

// NewAssetFixtures returns a diversified set of test assets for one user.
// Values are chosen so the portfolio has a mix of gains, losses, SIPs, and
// a gold holding with auto-pricing metadata.
func NewAssetFixtures(userID string) []assets.Asset {
	now := time.Now()
	sipStart := now.AddDate(-2, 0, 0)
	return []assets.Asset{
		{
			ID:            uuid.NewString(),
			UserID:        userID,
			AssetType:     assets.TypeStocks,
			Name:          "Reliance Industries",
			PurchaseValue: 250000,
			CurrentValue:  310000,
			PurchaseDate:  now.AddDate(-2, 0, 0),
			Metadata:      map[string]any{},
			CreatedAt:     now.AddDate(-2, 0, 0),
			UpdatedAt:     now,
		},
		{
			ID:               uuid.NewString(),
			UserID:           userID,
			AssetType:        assets.TypeMutualFunds,
			Name:             "Index Fund SIP",
			PurchaseValue:    240000,
			CurrentValue:     276000,
			PurchaseDate:     sipStart,
			Metadata:         map[string]any{},
			SIPAmount:        10000,
			SIPStartDate:     &sipStart,
			SIPStepUpPercent: 10,
			SIPActive:        true,
			CreatedAt:        sipStart,
			UpdatedAt:        now,
		},
		{
			ID:            uuid.NewString(),
			UserID:        userID,
			AssetType:     assets.TypeCryptocurrency,
			Name:          "Bitcoin",
			PurchaseValue: 100000,
			CurrentValue:  80000,
			PurchaseDate:  now.AddDate(0, -6, 0),
			Metadata:      map[string]any{},
			CreatedAt:     now.AddDate(0, -6, 0),
			UpdatedAt:     now,
		},
		{
			ID:            uuid.NewString(),
			UserID:        userID,
			AssetType:     assets.TypeGold,
			Name:          "Gold Coins",
			PurchaseValue: 150000,
			CurrentValue:  180000,
			PurchaseDate:  now.AddDate(-3, 0, 0),
			Metadata: map[string]any{
				assets.MetaWeightGrams:    25.0,
				assets.MetaPurity:         "24k",
				assets.MetaAutoCalculated: true,
			},
			CreatedAt: now.AddDate(-3, 0, 0),
			UpdatedAt: now,
		},
		{
			ID:            uuid.NewString(),
			UserID:        userID,
			AssetType:     assets.TypeFixedDeposits,
			Name:          "Bank FD",
			PurchaseValue: 200000,
			CurrentValue:  214000,
			PurchaseDate:  now.AddDate(-1, 0, 0),
			Metadata:      map[string]any{},
			CreatedAt:     now.AddDate(-1, 0, 0),
			UpdatedAt:     now,
		},
	}
}
