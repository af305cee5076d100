// Package history records daily net-worth snapshots and serves trend
// queries over them.
package history

import (
	"time"
)

// Snapshot is one day's net-worth reading for a user. Allocation maps asset
// type to current value and is stored as a msgpack blob.
type Snapshot struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	SnapshotDate    time.Time          `json:"snapshot_date"`
	TotalNetWorth   float64            `json:"total_net_worth"`
	TotalInvestment float64            `json:"total_investment"`
	TotalGainLoss   float64            `json:"total_gain_loss"`
	Allocation      map[string]float64 `json:"allocation"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Range selects how far back a history query reaches.
type Range string

const (
	Range1M  Range = "1M"
	Range3M  Range = "3M"
	Range6M  Range = "6M"
	Range1Y  Range = "1Y"
	Range5Y  Range = "5Y"
	RangeAll Range = "all"
)

// Start returns the inclusive lower bound for the range, or the zero time
// for RangeAll.
func (r Range) Start(now time.Time) time.Time {
	switch r {
	case Range1M:
		return now.AddDate(0, -1, 0)
	case Range3M:
		return now.AddDate(0, -3, 0)
	case Range6M:
		return now.AddDate(0, -6, 0)
	case Range1Y:
		return now.AddDate(-1, 0, 0)
	case Range5Y:
		return now.AddDate(-5, 0, 0)
	default:
		return time.Time{}
	}
}

// Valid reports whether the range is one of the supported values.
func (r Range) Valid() bool {
	switch r {
	case Range1M, Range3M, Range6M, Range1Y, Range5Y, RangeAll:
		return true
	}
	return false
}

// AggregatedPoint is one bucket of the weekly/monthly aggregation: mean
// values over the snapshots falling into the period.
type AggregatedPoint struct {
	Period         string  `json:"period"` // e.g. "2026-W07" or "2026-02"
	MeanNetWorth   float64 `json:"mean_net_worth"`
	MeanInvestment float64 `json:"mean_investment"`
	MeanGainLoss   float64 `json:"mean_gain_loss"`
	SnapshotCount  int     `json:"snapshot_count"`
}

// Trend is the moving-average and momentum view over the snapshot series.
// Pointers are nil when the series is too short for the window.
type Trend struct {
	SMA7       *float64 `json:"sma_7"`
	SMA30      *float64 `json:"sma_30"`
	ROC30      *float64 `json:"roc_30"` // percent change over 30 snapshots
	Direction  string   `json:"direction"`
	DataPoints int      `json:"data_points"`
}
