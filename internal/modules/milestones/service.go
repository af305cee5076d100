package milestones

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/events"
)

// Service implements milestone CRUD and achievement evaluation.
type Service struct {
	repo     *Repository
	eventMgr *events.Manager
	log      zerolog.Logger
}

// NewService creates a new milestone service. eventMgr may be nil.
func NewService(repo *Repository, eventMgr *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventMgr: eventMgr,
		log:      log.With().Str("service", "milestones").Logger(),
	}
}

// Create validates and stores a new milestone.
func (s *Service) Create(userID string, m Milestone) (*Milestone, error) {
	m.ID = uuid.NewString()
	m.UserID = userID
	m.Achieved = false
	m.AchievedAt = nil
	m.CreatedAt = time.Now().UTC()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(&m); err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}

	s.log.Info().Str("milestone_id", m.ID).Float64("target", m.TargetAmount).Msg("Milestone created")
	return &m, nil
}

// List returns a user's milestones with progress computed against the
// current net worth.
func (s *Service) List(userID string, netWorth float64) ([]MilestoneWithProgress, error) {
	milestones, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	out := make([]MilestoneWithProgress, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, MilestoneWithProgress{
			Milestone:          m,
			ProgressPercentage: m.Progress(netWorth),
		})
	}
	return out, nil
}

// Update replaces a milestone's name, target amount, and target date. The
// achieved flag is never rewound, even when the target is raised above the
// current net worth.
func (s *Service) Update(userID, id string, m Milestone) (*Milestone, error) {
	existing, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	existing.Name = m.Name
	existing.TargetAmount = m.TargetAmount
	existing.TargetDate = m.TargetDate

	if err := existing.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}

	s.log.Info().Str("milestone_id", id).Float64("target", existing.TargetAmount).Msg("Milestone updated")
	return existing, nil
}

// Delete removes a user's milestone.
func (s *Service) Delete(userID, id string) error {
	return s.repo.Delete(userID, id)
}

// Evaluate flips any unachieved milestones the net worth now covers and
// emits a MilestoneAchieved event per flip. Returns the newly achieved
// milestones.
func (s *Service) Evaluate(userID string, netWorth float64) ([]Milestone, error) {
	milestones, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones for evaluation: %w", err)
	}

	achieved := []Milestone{}
	now := time.Now().UTC()
	for _, m := range milestones {
		if m.Achieved || netWorth < m.TargetAmount {
			continue
		}
		if err := s.repo.MarkAchieved(m.ID, now); err != nil {
			return nil, err
		}
		m.Achieved = true
		m.AchievedAt = &now
		achieved = append(achieved, m)

		if s.eventMgr != nil {
			s.eventMgr.Emit("milestones", &events.MilestoneAchievedData{
				MilestoneID:  m.ID,
				UserID:       userID,
				Name:         m.Name,
				TargetAmount: m.TargetAmount,
				NetWorth:     netWorth,
			})
		}
		s.log.Info().Str("milestone_id", m.ID).Str("name", m.Name).Msg("Milestone achieved")
	}
	return achieved, nil
}

// MilestoneWithProgress is the list payload: a milestone plus its progress
// toward the target.
type MilestoneWithProgress struct {
	Milestone
	ProgressPercentage float64 `json:"progress_percentage"`
}
