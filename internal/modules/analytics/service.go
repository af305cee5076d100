package analytics

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/internal/modules/dashboard"
)

// Service runs the analytics suite over a user's current portfolio.
type Service struct {
	assets      *assets.Service
	health      *HealthScorer
	performance *PerformanceAnalyzer
	tax         *TaxAnalyzer
	log         zerolog.Logger
}

// NewService creates a new analytics service with the default
// scorer and analyzer configurations.
func NewService(assetSvc *assets.Service, log zerolog.Logger) *Service {
	return &Service{
		assets:      assetSvc,
		health:      NewHealthScorer(DefaultHealthConfig(), log),
		performance: NewPerformanceAnalyzer(nil, log),
		tax:         NewTaxAnalyzer(DefaultTaxConfig(), log),
		log:         log.With().Str("service", "analytics").Logger(),
	}
}

// HealthScore computes the financial health score for a user.
func (s *Service) HealthScore(userID string) (*FinancialHealthScore, error) {
	list, err := s.assets.List(userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	score := s.health.Score(list, dashboard.Compute(list))
	return &score, nil
}

// Performance computes the attribution report for a user.
func (s *Service) Performance(userID string) (*PerformanceAttribution, error) {
	list, err := s.assets.List(userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	report := s.performance.Analyze(list)
	return &report, nil
}

// Tax computes the tax optimization report for a user as of now.
func (s *Service) Tax(userID string) (*TaxOptimization, error) {
	list, err := s.assets.List(userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	report := s.tax.Analyze(list, time.Now().UTC())
	return &report, nil
}
