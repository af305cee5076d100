// Package milestones tracks net-worth targets and flags them when reached.
package milestones

import (
	"errors"
	"fmt"
	"time"
)

// ErrMilestoneNotFound is returned when a milestone does not exist or
// belongs to another user.
var ErrMilestoneNotFound = errors.New("milestone not found")

// Milestone is a net-worth target. Achieved flips once, when the user's
// net worth first reaches TargetAmount, and never flips back.
type Milestone struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	TargetAmount float64    `json:"target_amount"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	Achieved     bool       `json:"achieved"`
	AchievedAt   *time.Time `json:"achieved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Validate checks the invariants a new milestone must satisfy.
func (m *Milestone) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("milestone name is required")
	}
	if m.TargetAmount <= 0 {
		return fmt.Errorf("target_amount must be positive")
	}
	return nil
}

// Progress returns how far the net worth is toward the target, 0-100.
func (m *Milestone) Progress(netWorth float64) float64 {
	if m.TargetAmount <= 0 {
		return 0
	}
	progress := netWorth / m.TargetAmount * 100
	if progress > 100 {
		return 100
	}
	if progress < 0 {
		return 0
	}
	return progress
}
