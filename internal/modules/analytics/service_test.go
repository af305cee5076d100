package analytics_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingisforpros/wealthtrack/internal/modules/analytics"
	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	wttest "github.com/codingisforpros/wealthtrack/internal/testing"
)

// newSeededService persists the standard fixture portfolio and returns an
// analytics service reading it back through the asset service.
func newSeededService(t *testing.T) (*analytics.Service, string) {
	t.Helper()

	db, cleanup := wttest.NewMemoryDB(t, "wealth")
	t.Cleanup(cleanup)

	log := zerolog.Nop()
	repo := assets.NewRepository(db, log)

	const userID = "fixture-user"
	for _, a := range wttest.NewAssetFixtures(userID) {
		asset := a
		require.NoError(t, repo.Create(&asset))
	}

	assetService := assets.NewService(repo, nil, nil, log)
	return analytics.NewService(assetService, log), userID
}

func TestHealthScoreOverFixturePortfolio(t *testing.T) {
	svc, userID := newSeededService(t)

	score, err := svc.HealthScore(userID)
	require.NoError(t, err)

	// Five asset types, one active SIP, ~12.8% overall gain, ~1.06M net
	// worth, and a small crypto share: every category lands mid-to-high.
	assert.Len(t, score.CategoryScores, 5)
	assert.Equal(t, 200, score.CategoryScores[analytics.CategoryDiversification])
	assert.Equal(t, 100, score.CategoryScores[analytics.CategoryConsistency])
	assert.Equal(t, 150, score.CategoryScores[analytics.CategoryPerformance])
	assert.Equal(t, 100, score.CategoryScores[analytics.CategoryWealth])
	assert.Greater(t, score.OverallScore, 600)
	assert.LessOrEqual(t, score.OverallScore, 1000)
}

func TestPerformanceOverFixturePortfolio(t *testing.T) {
	svc, userID := newSeededService(t)

	report, err := svc.Performance(userID)
	require.NoError(t, err)

	assert.Len(t, report.AssetContributions, 5)

	// Contributions sum to the portfolio's overall gain percentage.
	total := 0.0
	for _, c := range report.AssetContributions {
		total += c.ContributionPercentage
	}
	assert.InDelta(t, 120000.0/940000.0*100, total, 0.01)

	// The lone loser (crypto) ranks among the worst performers.
	require.NotEmpty(t, report.WorstPerformers)
	assert.Equal(t, "Bitcoin", report.WorstPerformers[0].Name)
}

func TestTaxOverFixturePortfolio(t *testing.T) {
	svc, userID := newSeededService(t)

	report, err := svc.Tax(userID)
	require.NoError(t, err)

	// Gains across the fixtures: stocks, MF, gold, and FD are up; crypto
	// is the only unrealized loss.
	assert.Positive(t, report.TotalLTCG)
	assert.NotEmpty(t, report.Suggestions)
}
