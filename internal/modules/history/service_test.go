package history

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingisforpros/wealthtrack/internal/events"
	"github.com/codingisforpros/wealthtrack/internal/modules/dashboard"
	apptesting "github.com/codingisforpros/wealthtrack/internal/testing"
)

func newTestService(t *testing.T) (*Service, *events.Bus, func()) {
	t.Helper()
	db, cleanup := apptesting.NewMemoryDB(t, "history")
	repo := NewRepository(db, zerolog.Nop())
	bus := events.NewBus(zerolog.Nop())
	mgr := events.NewManager(bus, zerolog.Nop())
	return NewService(repo, mgr, zerolog.Nop()), bus, cleanup
}

func summaryWith(netWorth float64) dashboard.Summary {
	return dashboard.Summary{
		TotalNetWorth:   netWorth,
		TotalInvestment: netWorth * 0.8,
		TotalGainLoss:   netWorth * 0.2,
		AssetAllocation: map[string]float64{"stocks": netWorth * 0.6, "gold": netWorth * 0.4},
	}
}

func TestRecordAndQuery(t *testing.T) {
	svc, bus, cleanup := newTestService(t)
	defer cleanup()

	recorded := 0
	bus.Subscribe(events.SnapshotRecorded, func(*events.Event) { recorded++ })

	now := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)
	_, err := svc.Record("user-1", summaryWith(100000), now)
	require.NoError(t, err)

	snapshots, err := svc.Query("user-1", RangeAll)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.InDelta(t, 100000, snapshots[0].TotalNetWorth, 1e-9)
	// Allocation survives the msgpack round trip.
	assert.InDelta(t, 60000, snapshots[0].Allocation["stocks"], 1e-9)
	assert.Equal(t, 1, recorded)
}

func TestRecordSameDayOverwrites(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	now := time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)
	_, err := svc.Record("user-1", summaryWith(100000), now)
	require.NoError(t, err)
	_, err = svc.Record("user-1", summaryWith(105000), now.Add(6*time.Hour))
	require.NoError(t, err)

	snapshots, err := svc.Query("user-1", RangeAll)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.InDelta(t, 105000, snapshots[0].TotalNetWorth, 1e-9)
}

func TestQueryRangeBounds(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	now := time.Now().UTC()
	_, err := svc.Record("user-1", summaryWith(1), now.AddDate(0, -2, 0))
	require.NoError(t, err)
	_, err = svc.Record("user-1", summaryWith(2), now.AddDate(0, 0, -10))
	require.NoError(t, err)

	within, err := svc.Query("user-1", Range1M)
	require.NoError(t, err)
	require.Len(t, within, 1)
	assert.InDelta(t, 2, within[0].TotalNetWorth, 1e-9)

	all, err := svc.Query("user-1", RangeAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Query("user-1", Range("2W"))
	assert.Error(t, err)
}

func TestAggregateMonthly(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Record("user-1", summaryWith(100), jan)
	require.NoError(t, err)
	_, err = svc.Record("user-1", summaryWith(200), jan.AddDate(0, 0, 5))
	require.NoError(t, err)
	_, err = svc.Record("user-1", summaryWith(300), jan.AddDate(0, 1, 0))
	require.NoError(t, err)

	points, err := svc.Aggregate("user-1", RangeAll, "monthly")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-01", points[0].Period)
	assert.InDelta(t, 150, points[0].MeanNetWorth, 1e-9)
	assert.Equal(t, 2, points[0].SnapshotCount)
	assert.Equal(t, "2026-02", points[1].Period)
	assert.InDelta(t, 300, points[1].MeanNetWorth, 1e-9)

	_, err = svc.Aggregate("user-1", RangeAll, "hourly")
	assert.Error(t, err)
}

func TestTrendInsufficientData(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := svc.Record("user-1", summaryWith(float64(100+i)), base.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	trend, err := svc.TrendAnalysis("user-1")
	require.NoError(t, err)
	assert.Nil(t, trend.SMA7)
	assert.Nil(t, trend.SMA30)
	assert.Nil(t, trend.ROC30)
	assert.Equal(t, "insufficient_data", trend.Direction)
	assert.Equal(t, 5, trend.DataPoints)
}

func TestTrendRising(t *testing.T) {
	svc, _, cleanup := newTestService(t)
	defer cleanup()

	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		_, err := svc.Record("user-1", summaryWith(float64(100000+i*1000)), base.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	trend, err := svc.TrendAnalysis("user-1")
	require.NoError(t, err)
	require.NotNil(t, trend.SMA7)
	require.NotNil(t, trend.SMA30)
	require.NotNil(t, trend.ROC30)
	assert.Greater(t, *trend.SMA7, *trend.SMA30)
	assert.Positive(t, *trend.ROC30)
	assert.Equal(t, "rising", trend.Direction)
	assert.Equal(t, 40, trend.DataPoints)
}
