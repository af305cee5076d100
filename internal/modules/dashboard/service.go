package dashboard

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/internal/modules/milestones"
)

// Service assembles the dashboard summary from the asset service and
// re-evaluates milestones against the freshly computed net worth.
type Service struct {
	assets     *assets.Service
	milestones *milestones.Service
	log        zerolog.Logger
}

// NewService creates a new dashboard service. milestoneSvc may be nil.
func NewService(assetSvc *assets.Service, milestoneSvc *milestones.Service, log zerolog.Logger) *Service {
	return &Service{
		assets:     assetSvc,
		milestones: milestoneSvc,
		log:        log.With().Str("service", "dashboard").Logger(),
	}
}

// Summary computes the aggregate view for a user. Milestones that the
// current net worth crosses flip to achieved as a side effect.
func (s *Service) Summary(userID string) (*Summary, error) {
	list, err := s.assets.List(userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	summary := Compute(list)

	if s.milestones != nil {
		if _, err := s.milestones.Evaluate(userID, summary.TotalNetWorth); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("Milestone evaluation failed")
		}
	}

	return &summary, nil
}
