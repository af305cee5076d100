package analytics

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/internal/modules/dashboard"
	"github.com/codingisforpros/wealthtrack/pkg/formulas"
)

// HealthConfig holds the scoring cutoffs for the financial health model.
// Passed explicitly so tests can tighten or loosen thresholds.
type HealthConfig struct {
	CategoryCap int

	// Diversification: PerAssetPoints per asset plus concentration headroom.
	DiversificationPerAsset float64

	// Consistency: flat bonus for having any active SIP plus per-SIP points.
	ConsistencyPerSIP float64
	ConsistencyBonus  float64

	// Performance tiers checked in order; first match wins.
	PerformanceTiers []ScoreTier
	// Wealth tiers on absolute net worth; WealthFloor applies below all tiers.
	WealthTiers []ScoreTier
	WealthFloor int

	RiskyTypes map[assets.Type]bool
	SafeTypes  map[assets.Type]bool
	// Risky-share cutoffs: above High => HighScore, above Medium =>
	// MediumScore, else LowScore. SafeBonus applies when the safe share is
	// at least SafeSharePct.
	RiskyHighPct     float64
	RiskyMediumPct   float64
	RiskyHighScore   int
	RiskyMediumScore int
	RiskyLowScore    int
	SafeSharePct     float64
	SafeBonus        int

	// Overall banding cutoffs for the closing remark.
	BandExcellent int
	BandGood      int
	BandFair      int
}

// ScoreTier maps a minimum threshold to a score.
type ScoreTier struct {
	Min   float64
	Score int
}

// DefaultHealthConfig returns the production scoring cutoffs.
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		CategoryCap:             200,
		DiversificationPerAsset: 30,
		ConsistencyPerSIP:       50,
		ConsistencyBonus:        50,
		PerformanceTiers: []ScoreTier{
			{Min: 15, Score: 200},
			{Min: 10, Score: 150},
			{Min: 5, Score: 100},
			{Min: 0, Score: 50},
		},
		WealthTiers: []ScoreTier{
			{Min: 10000000, Score: 200},
			{Min: 5000000, Score: 150},
			{Min: 1000000, Score: 100},
			{Min: 500000, Score: 75},
			{Min: 100000, Score: 50},
		},
		WealthFloor: 25,
		RiskyTypes: map[assets.Type]bool{
			assets.TypeCryptocurrency: true,
			assets.TypeStocks:         true,
		},
		SafeTypes: map[assets.Type]bool{
			assets.TypeFixedDeposits: true,
			assets.TypeGold:          true,
		},
		RiskyHighPct:     80,
		RiskyMediumPct:   60,
		RiskyHighScore:   50,
		RiskyMediumScore: 100,
		RiskyLowScore:    150,
		SafeSharePct:     20,
		SafeBonus:        50,
		BandExcellent:    800,
		BandGood:         600,
		BandFair:         400,
	}
}

// HealthScorer computes the weighted financial health score.
type HealthScorer struct {
	cfg HealthConfig
	log zerolog.Logger
}

// NewHealthScorer creates a health scorer with the given cutoffs.
func NewHealthScorer(cfg HealthConfig, log zerolog.Logger) *HealthScorer {
	return &HealthScorer{
		cfg: cfg,
		log: log.With().Str("service", "health_scorer").Logger(),
	}
}

// Score evaluates the five category scores over the asset snapshot and
// summary. Each category is capped individually; the overall score is their
// sum, bounded 0-1000.
func (s *HealthScorer) Score(list []assets.Asset, summary dashboard.Summary) FinancialHealthScore {
	result := FinancialHealthScore{
		CategoryScores:      make(map[string]int, 5),
		Recommendations:     []string{},
		Strengths:           []string{},
		AreasForImprovement: []string{},
	}

	result.CategoryScores[CategoryDiversification] = s.scoreDiversification(list, summary, &result)
	result.CategoryScores[CategoryConsistency] = s.scoreConsistency(list, &result)
	result.CategoryScores[CategoryPerformance] = s.scorePerformance(summary, &result)
	result.CategoryScores[CategoryWealth] = s.scoreWealth(summary, &result)
	result.CategoryScores[CategoryRisk] = s.scoreRisk(list, summary, &result)

	for _, score := range result.CategoryScores {
		result.OverallScore += score
	}

	switch {
	case result.OverallScore >= s.cfg.BandExcellent:
		result.Strengths = append(result.Strengths, "Excellent financial health across all categories")
	case result.OverallScore >= s.cfg.BandGood:
		result.Recommendations = append(result.Recommendations, "Strong financial position with room for minor optimizations")
	case result.OverallScore >= s.cfg.BandFair:
		result.Recommendations = append(result.Recommendations, "Focus on diversification and investment consistency to improve your score")
	default:
		result.Recommendations = append(result.Recommendations, "Significant improvements needed across diversification, consistency, and risk balance")
	}

	s.log.Debug().
		Int("overall", result.OverallScore).
		Int("assets", len(list)).
		Msg("Health score computed")

	return result
}

// scoreDiversification rewards asset count and penalizes concentration.
// A zero allocation scores 0.
func (s *HealthScorer) scoreDiversification(list []assets.Asset, summary dashboard.Summary, out *FinancialHealthScore) int {
	if len(summary.AssetAllocation) == 0 || summary.TotalNetWorth <= 0 {
		out.AreasForImprovement = append(out.AreasForImprovement, "No assets recorded yet; add holdings to start tracking diversification")
		return 0
	}

	maxAlloc := 0.0
	for _, value := range summary.AssetAllocation {
		if value > maxAlloc {
			maxAlloc = value
		}
	}
	maxAllocPct := maxAlloc / summary.TotalNetWorth * 100

	raw := float64(len(list))*s.cfg.DiversificationPerAsset + (100-maxAllocPct)*2
	score := capScore(int(raw), s.cfg.CategoryCap)

	if maxAllocPct > 60 {
		out.AreasForImprovement = append(out.AreasForImprovement,
			fmt.Sprintf("Over %.0f%% of your wealth sits in a single asset class", maxAllocPct))
		out.Recommendations = append(out.Recommendations, "Spread investments across more asset classes to reduce concentration")
	} else if len(summary.AssetAllocation) >= 4 {
		out.Strengths = append(out.Strengths,
			fmt.Sprintf("Well diversified across %d asset classes", len(summary.AssetAllocation)))
	}

	return score
}

// scoreConsistency counts active SIPs: a flat bonus for having at least one,
// plus per-SIP points.
func (s *HealthScorer) scoreConsistency(list []assets.Asset, out *FinancialHealthScore) int {
	active := 0
	for _, a := range list {
		if a.SIPActive {
			active++
		}
	}

	if active == 0 {
		out.Recommendations = append(out.Recommendations, "Start a monthly SIP to build investing consistency")
		return 0
	}

	out.Strengths = append(out.Strengths,
		fmt.Sprintf("%d active SIPs keep investments disciplined", active))
	return capScore(int(float64(active)*s.cfg.ConsistencyPerSIP+s.cfg.ConsistencyBonus), s.cfg.CategoryCap)
}

func (s *HealthScorer) scorePerformance(summary dashboard.Summary, out *FinancialHealthScore) int {
	pct := summary.GainLossPercentage

	score := 0
	for _, tier := range s.cfg.PerformanceTiers {
		if pct >= tier.Min {
			score = tier.Score
			break
		}
	}

	if pct >= 15 {
		out.Strengths = append(out.Strengths,
			fmt.Sprintf("Portfolio returns of %.1f%% are outstanding", pct))
	} else if pct < 0 {
		out.AreasForImprovement = append(out.AreasForImprovement,
			fmt.Sprintf("Portfolio is down %.1f%% overall", -pct))
		out.Recommendations = append(out.Recommendations, "Review underperforming assets and rebalance toward stronger performers")
	}

	return capScore(score, s.cfg.CategoryCap)
}

func (s *HealthScorer) scoreWealth(summary dashboard.Summary, out *FinancialHealthScore) int {
	netWorth := summary.TotalNetWorth

	score := s.cfg.WealthFloor
	for _, tier := range s.cfg.WealthTiers {
		if netWorth >= tier.Min {
			score = tier.Score
			break
		}
	}

	if netWorth >= 1000000 {
		out.Strengths = append(out.Strengths, "Strong wealth accumulation milestone reached")
	} else {
		out.Recommendations = append(out.Recommendations, "Increase regular contributions to accelerate wealth accumulation")
	}

	return capScore(score, s.cfg.CategoryCap)
}

// scoreRisk balances risky against safe holdings. The risky-share tier sets
// the base and a sufficient safe share adds a bonus; the result is capped
// after the bonus.
func (s *HealthScorer) scoreRisk(list []assets.Asset, summary dashboard.Summary, out *FinancialHealthScore) int {
	riskyValue := 0.0
	safeValue := 0.0
	for _, a := range list {
		if s.cfg.RiskyTypes[a.AssetType] {
			riskyValue += a.CurrentValue
		}
		if s.cfg.SafeTypes[a.AssetType] {
			safeValue += a.CurrentValue
		}
	}

	riskyPct := formulas.SafeDiv(riskyValue, summary.TotalNetWorth) * 100
	safePct := formulas.SafeDiv(safeValue, summary.TotalNetWorth) * 100

	var score int
	switch {
	case riskyPct > s.cfg.RiskyHighPct:
		score = s.cfg.RiskyHighScore
		out.AreasForImprovement = append(out.AreasForImprovement,
			fmt.Sprintf("%.0f%% of the portfolio is in high-risk assets", riskyPct))
		out.Recommendations = append(out.Recommendations, "Shift part of the portfolio into fixed deposits or gold to balance risk")
	case riskyPct > s.cfg.RiskyMediumPct:
		score = s.cfg.RiskyMediumScore
	default:
		score = s.cfg.RiskyLowScore
	}

	if safePct >= s.cfg.SafeSharePct {
		score += s.cfg.SafeBonus
		out.Strengths = append(out.Strengths,
			fmt.Sprintf("%.0f%% allocated to stable assets cushions downturns", safePct))
	}

	return capScore(score, s.cfg.CategoryCap)
}

func capScore(score, limit int) int {
	if score > limit {
		return limit
	}
	if score < 0 {
		return 0
	}
	return score
}
