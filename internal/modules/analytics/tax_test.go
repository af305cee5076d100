package analytics

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
)

func newTaxAsset(id string, typ assets.Type, purchase, current float64, heldDays int, now time.Time) assets.Asset {
	a := newTestAsset(id, typ, purchase, current)
	a.PurchaseDate = now.AddDate(0, 0, -heldDays)
	return a
}

func analyzeTax(t *testing.T, list []assets.Asset, now time.Time) TaxOptimization {
	t.Helper()
	analyzer := NewTaxAnalyzer(DefaultTaxConfig(), zerolog.Nop())
	return analyzer.Analyze(list, now)
}

func TestTaxEmptyPortfolio(t *testing.T) {
	result := analyzeTax(t, nil, time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC))

	assert.Zero(t, result.TotalLTCG)
	assert.Zero(t, result.TotalSTCG)
	assert.Zero(t, result.TotalTaxLiability)
	assert.Zero(t, result.EffectiveTaxRate)
	assert.Empty(t, result.Suggestions)
}

func TestTaxLongTermBelowExemption(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	// 400-day stock holding with a 2000 gain: long-term, fully exempt.
	list := []assets.Asset{newTaxAsset("a", assets.TypeStocks, 10000, 12000, 400, now)}
	result := analyzeTax(t, list, now)

	assert.InDelta(t, 2000, result.TotalLTCG, 1e-9)
	assert.Zero(t, result.TotalSTCG)
	assert.Zero(t, result.LTCGTaxable)
	assert.Zero(t, result.TotalTaxLiability)
}

func TestTaxThresholdIsStrict(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	atThreshold := []assets.Asset{newTaxAsset("a", assets.TypeStocks, 10000, 12000, 365, now)}
	result := analyzeTax(t, atThreshold, now)
	assert.Zero(t, result.TotalLTCG)
	assert.InDelta(t, 2000, result.TotalSTCG, 1e-9)

	pastThreshold := []assets.Asset{newTaxAsset("a", assets.TypeStocks, 10000, 12000, 366, now)}
	result = analyzeTax(t, pastThreshold, now)
	assert.InDelta(t, 2000, result.TotalLTCG, 1e-9)
	assert.Zero(t, result.TotalSTCG)
}

func TestTaxNonEquityThreshold(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	// Real estate held two years is still short-term under the 3-year rule.
	list := []assets.Asset{newTaxAsset("a", assets.TypeRealEstate, 1000000, 1200000, 730, now)}
	result := analyzeTax(t, list, now)

	assert.Zero(t, result.TotalLTCG)
	assert.InDelta(t, 200000, result.TotalSTCG, 1e-9)
	assert.InDelta(t, 40000, result.STCGLiability, 1e-9)
}

func TestTaxExemptionAndLiabilities(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	list := []assets.Asset{
		newTaxAsset("long", assets.TypeStocks, 1000000, 1200000, 500, now), // LTCG 200000
		newTaxAsset("short", assets.TypeStocks, 100000, 150000, 100, now),  // STCG 50000
	}
	result := analyzeTax(t, list, now)

	assert.InDelta(t, 200000, result.TotalLTCG, 1e-9)
	assert.InDelta(t, 50000, result.TotalSTCG, 1e-9)
	assert.InDelta(t, 75000, result.LTCGTaxable, 1e-9)
	assert.InDelta(t, 9375, result.LTCGLiability, 1e-9)
	assert.InDelta(t, 10000, result.STCGLiability, 1e-9)
	assert.InDelta(t, 19375, result.TotalTaxLiability, 1e-9)
	assert.InDelta(t, 19375.0/250000.0*100, result.EffectiveTaxRate, 1e-9)
}

func TestTaxHoldSuggestion(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	// 300 days held: 65 days from the 365-day threshold, inside the window.
	list := []assets.Asset{newTaxAsset("near", assets.TypeStocks, 100000, 140000, 300, now)}
	result := analyzeTax(t, list, now)

	require.Len(t, result.Suggestions, 1)
	suggestion := result.Suggestions[0]
	assert.Equal(t, SuggestionHoldForLTCG, suggestion.Kind)
	assert.Equal(t, "near", suggestion.AssetName)
	// Saving is the rate spread on the 40000 gain.
	assert.InDelta(t, 40000*0.075, suggestion.PotentialSaving, 1e-9)

	// 100 days held: too far from the threshold for a suggestion.
	far := []assets.Asset{newTaxAsset("far", assets.TypeStocks, 100000, 140000, 100, now)}
	result = analyzeTax(t, far, now)
	assert.Empty(t, result.Suggestions)
}

func TestTaxHarvestLossSuggestion(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	list := []assets.Asset{newTaxAsset("loser", assets.TypeMutualFunds, 100000, 80000, 200, now)}
	result := analyzeTax(t, list, now)

	require.Len(t, result.Suggestions, 1)
	suggestion := result.Suggestions[0]
	assert.Equal(t, SuggestionHarvestLoss, suggestion.Kind)
	assert.InDelta(t, 6000, suggestion.PotentialSaving, 1e-9)
}

func TestTaxStaggerSuggestion(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	// LTCG of 300000 exceeds twice the 125000 exemption.
	list := []assets.Asset{newTaxAsset("big", assets.TypeStocks, 1000000, 1300000, 800, now)}
	result := analyzeTax(t, list, now)

	require.NotEmpty(t, result.Suggestions)
	suggestion := result.Suggestions[len(result.Suggestions)-1]
	assert.Equal(t, SuggestionStagger, suggestion.Kind)
	// One extra exemption year shelters 125000 at the 12.5% rate.
	assert.InDelta(t, 15625, suggestion.PotentialSaving, 1e-9)
}
