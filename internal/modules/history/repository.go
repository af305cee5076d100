package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Repository persists snapshots in the history database. The allocation map
// is packed with msgpack to keep rows compact.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "history").Logger(),
	}
}

// Upsert writes a snapshot, replacing any earlier snapshot for the same
// user and date. The snapshot job runs daily but may be triggered manually,
// so the same day can be written more than once.
func (r *Repository) Upsert(s *Snapshot) error {
	allocation, err := msgpack.Marshal(s.Allocation)
	if err != nil {
		return fmt.Errorf("failed to encode allocation: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO net_worth_snapshots
			(id, user_id, snapshot_date, total_net_worth, total_investment, total_gain_loss, allocation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, snapshot_date) DO UPDATE SET
			total_net_worth = excluded.total_net_worth,
			total_investment = excluded.total_investment,
			total_gain_loss = excluded.total_gain_loss,
			allocation = excluded.allocation`,
		s.ID, s.UserID, s.SnapshotDate.Format("2006-01-02"),
		s.TotalNetWorth, s.TotalInvestment, s.TotalGainLoss, allocation, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// ListByUserSince returns a user's snapshots from the start date onward,
// oldest first. A zero start returns everything.
func (r *Repository) ListByUserSince(userID string, start time.Time) ([]Snapshot, error) {
	query := `SELECT id, user_id, snapshot_date, total_net_worth, total_investment, total_gain_loss, allocation, created_at
		FROM net_worth_snapshots WHERE user_id = ?`
	args := []interface{}{userID}
	if !start.IsZero() {
		query += ` AND snapshot_date >= ?`
		args = append(args, start.Format("2006-01-02"))
	}
	query += ` ORDER BY snapshot_date ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var (
			s         Snapshot
			dateStr   string
			allocBlob []byte
		)
		if err := rows.Scan(&s.ID, &s.UserID, &dateStr, &s.TotalNetWorth, &s.TotalInvestment,
			&s.TotalGainLoss, &allocBlob, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.SnapshotDate, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot date %q: %w", dateStr, err)
		}
		if len(allocBlob) > 0 {
			if err := msgpack.Unmarshal(allocBlob, &s.Allocation); err != nil {
				return nil, fmt.Errorf("failed to decode allocation: %w", err)
			}
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// Count returns the total number of stored snapshots.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM net_worth_snapshots`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}
