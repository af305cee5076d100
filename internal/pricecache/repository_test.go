package pricecache

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptesting "github.com/codingisforpros/wealthtrack/internal/testing"
)

func newTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()
	db, cleanup := apptesting.NewMemoryDB(t, "cache")
	return NewRepository(db, zerolog.Nop()), cleanup
}

func TestStoreAndGetFresh(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	require.NoError(t, repo.Store("24k", 7250.5, "INR", "test", time.Hour))

	entry, err := repo.GetFresh("24k")
	require.NoError(t, err)
	assert.InDelta(t, 7250.5, entry.RatePerGram, 1e-9)
	assert.Equal(t, "INR", entry.Currency)
	assert.False(t, entry.Stale(time.Now().UTC()))
}

func TestGetFreshMiss(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	_, err := repo.GetFresh("22k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestExpiredServedByGetAnyOnly(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	// Negative TTL produces an already-expired row.
	require.NoError(t, repo.Store("24k", 7000, "INR", "test", -time.Minute))

	_, err := repo.GetFresh("24k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	entry, err := repo.GetAny("24k")
	require.NoError(t, err)
	assert.InDelta(t, 7000, entry.RatePerGram, 1e-9)
	assert.True(t, entry.Stale(time.Now().UTC()))
}

func TestStoreReplacesExisting(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	require.NoError(t, repo.Store("24k", 7000, "INR", "test", time.Hour))
	require.NoError(t, repo.Store("24k", 7100, "INR", "test", time.Hour))

	entry, err := repo.GetFresh("24k")
	require.NoError(t, err)
	assert.InDelta(t, 7100, entry.RatePerGram, 1e-9)
}

func TestDeleteExpired(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	// Long-expired row is pruned; recently expired row survives the grace
	// window for stale reads.
	require.NoError(t, repo.Store("old", 6000, "INR", "test", -48*time.Hour))
	require.NoError(t, repo.Store("recent", 7000, "INR", "test", -time.Minute))
	require.NoError(t, repo.Store("fresh", 7100, "INR", "test", time.Hour))

	removed, err := repo.DeleteExpired(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.GetAny("old")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = repo.GetAny("recent")
	assert.NoError(t, err)
	_, err = repo.GetFresh("fresh")
	assert.NoError(t, err)
}
