package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/events"
	"github.com/codingisforpros/wealthtrack/internal/modules/dashboard"
	"github.com/codingisforpros/wealthtrack/pkg/formulas"
)

// trendROCPeriod is the lookback for the rate-of-change momentum signal.
const trendROCPeriod = 30

// Service implements snapshot recording and history queries.
type Service struct {
	repo     *Repository
	eventMgr *events.Manager
	log      zerolog.Logger
}

// NewService creates a new history service. eventMgr may be nil.
func NewService(repo *Repository, eventMgr *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventMgr: eventMgr,
		log:      log.With().Str("service", "history").Logger(),
	}
}

// Record writes today's snapshot for a user from their dashboard summary.
// Calling it twice on the same day overwrites the earlier reading.
func (s *Service) Record(userID string, summary dashboard.Summary, at time.Time) (*Snapshot, error) {
	snapshot := &Snapshot{
		ID:              uuid.NewString(),
		UserID:          userID,
		SnapshotDate:    at.UTC().Truncate(24 * time.Hour),
		TotalNetWorth:   summary.TotalNetWorth,
		TotalInvestment: summary.TotalInvestment,
		TotalGainLoss:   summary.TotalGainLoss,
		Allocation:      summary.AssetAllocation,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.repo.Upsert(snapshot); err != nil {
		return nil, fmt.Errorf("failed to record snapshot: %w", err)
	}

	if s.eventMgr != nil {
		s.eventMgr.Emit("history", &events.SnapshotRecordedData{
			UserID:        userID,
			SnapshotDate:  snapshot.SnapshotDate.Format("2006-01-02"),
			TotalNetWorth: snapshot.TotalNetWorth,
		})
	}
	s.log.Debug().Str("user_id", userID).Float64("net_worth", snapshot.TotalNetWorth).Msg("Snapshot recorded")
	return snapshot, nil
}

// Query returns a user's snapshots within a range, oldest first.
func (s *Service) Query(userID string, r Range) ([]Snapshot, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid range: %s", r)
	}
	return s.repo.ListByUserSince(userID, r.Start(time.Now().UTC()))
}

// Aggregate groups a user's snapshots into weekly or monthly buckets and
// returns the mean values per bucket, oldest first.
func (s *Service) Aggregate(userID string, r Range, interval string) ([]AggregatedPoint, error) {
	if interval != "weekly" && interval != "monthly" {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	snapshots, err := s.Query(userID, r)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		netWorth   []float64
		investment []float64
		gainLoss   []float64
	}
	buckets := make(map[string]*bucket)
	for _, snap := range snapshots {
		key := periodKey(snap.SnapshotDate, interval)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.netWorth = append(b.netWorth, snap.TotalNetWorth)
		b.investment = append(b.investment, snap.TotalInvestment)
		b.gainLoss = append(b.gainLoss, snap.TotalGainLoss)
	}

	points := make([]AggregatedPoint, 0, len(buckets))
	for key, b := range buckets {
		points = append(points, AggregatedPoint{
			Period:         key,
			MeanNetWorth:   formulas.Mean(b.netWorth),
			MeanInvestment: formulas.Mean(b.investment),
			MeanGainLoss:   formulas.Mean(b.gainLoss),
			SnapshotCount:  len(b.netWorth),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points, nil
}

// TrendAnalysis computes SMA-7, SMA-30, and 30-point rate of change over
// the full snapshot series. Windows the series cannot fill come back nil.
func (s *Service) TrendAnalysis(userID string) (*Trend, error) {
	snapshots, err := s.repo.ListByUserSince(userID, time.Time{})
	if err != nil {
		return nil, err
	}

	series := make([]float64, 0, len(snapshots))
	for _, snap := range snapshots {
		series = append(series, snap.TotalNetWorth)
	}

	trend := &Trend{
		SMA7:       formulas.SMA(series, 7),
		SMA30:      formulas.SMA(series, 30),
		ROC30:      formulas.ROC(series, trendROCPeriod),
		DataPoints: len(series),
	}
	trend.Direction = direction(trend)
	return trend, nil
}

// direction classifies momentum from the short/long moving-average spread,
// falling back to "insufficient_data" when windows are unfilled.
func direction(t *Trend) string {
	if t.SMA7 == nil || t.SMA30 == nil {
		return "insufficient_data"
	}
	switch {
	case *t.SMA7 > *t.SMA30:
		return "rising"
	case *t.SMA7 < *t.SMA30:
		return "falling"
	default:
		return "flat"
	}
}

func periodKey(date time.Time, interval string) string {
	if interval == "weekly" {
		year, week := date.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return date.Format("2006-01")
}
