package milestones

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository persists milestones in the wealth database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new milestone repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "milestones").Logger(),
	}
}

const milestoneColumns = `id, user_id, name, target_amount, target_date, achieved, achieved_at, created_at`

// Create inserts a new milestone row.
func (r *Repository) Create(m *Milestone) error {
	_, err := r.db.Exec(
		`INSERT INTO milestones (`+milestoneColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Name, m.TargetAmount, m.TargetDate, m.Achieved, m.AchievedAt, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert milestone: %w", err)
	}
	return nil
}

// ListByUser returns a user's milestones, lowest target first.
func (r *Repository) ListByUser(userID string) ([]Milestone, error) {
	rows, err := r.db.Query(
		`SELECT `+milestoneColumns+` FROM milestones WHERE user_id = ? ORDER BY target_amount ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	milestones := []Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, *m)
	}
	return milestones, rows.Err()
}

// GetByID returns a user's milestone by id.
func (r *Repository) GetByID(userID, id string) (*Milestone, error) {
	row := r.db.QueryRow(
		`SELECT `+milestoneColumns+` FROM milestones WHERE id = ? AND user_id = ?`, id, userID)
	m, err := scanMilestone(row)
	if err == sql.ErrNoRows {
		return nil, ErrMilestoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get milestone: %w", err)
	}
	return m, nil
}

// Update rewrites a milestone's editable fields.
func (r *Repository) Update(m *Milestone) error {
	result, err := r.db.Exec(
		`UPDATE milestones SET name = ?, target_amount = ?, target_date = ? WHERE id = ? AND user_id = ?`,
		m.Name, m.TargetAmount, m.TargetDate, m.ID, m.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update milestone: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}

// MarkAchieved flips a milestone to achieved at the given time. The WHERE
// clause keeps the flip one-way.
func (r *Repository) MarkAchieved(id string, at time.Time) error {
	_, err := r.db.Exec(
		`UPDATE milestones SET achieved = 1, achieved_at = ? WHERE id = ? AND achieved = 0`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark milestone achieved: %w", err)
	}
	return nil
}

// Delete removes a user's milestone.
func (r *Repository) Delete(userID, id string) error {
	result, err := r.db.Exec(`DELETE FROM milestones WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMilestone(s scanner) (*Milestone, error) {
	var (
		m          Milestone
		targetDate sql.NullTime
		achievedAt sql.NullTime
	)
	err := s.Scan(&m.ID, &m.UserID, &m.Name, &m.TargetAmount, &targetDate, &m.Achieved, &achievedAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if targetDate.Valid {
		t := targetDate.Time
		m.TargetDate = &t
	}
	if achievedAt.Valid {
		t := achievedAt.Time
		m.AchievedAt = &t
	}
	return &m, nil
}
