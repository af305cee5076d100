package gold

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingisforpros/wealthtrack/internal/pricecache"
	wttest "github.com/codingisforpros/wealthtrack/internal/testing"
)

func newCacheRepo(t *testing.T) *pricecache.Repository {
	t.Helper()
	db, cleanup := wttest.NewMemoryDB(t, "cache")
	t.Cleanup(cleanup)
	return pricecache.NewRepository(db, zerolog.Nop())
}

func TestLookupFetchesAndCaches(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rate_per_gram": 7200}`))
	}))
	defer srv.Close()

	repo := newCacheRepo(t)
	client := NewClient(srv.URL, "secret", time.Hour, repo, zerolog.Nop())

	entry, err := client.Lookup("22k")
	require.NoError(t, err)
	assert.InDelta(t, 7200*22.0/24.0, entry.RatePerGram, 1e-9)
	assert.Equal(t, "INR", entry.Currency)

	// Second lookup is served from cache.
	entry2, err := client.Lookup("22k")
	require.NoError(t, err)
	assert.InDelta(t, entry.RatePerGram, entry2.RatePerGram, 1e-9)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLookupStaleCacheWhenSupplierDown(t *testing.T) {
	repo := newCacheRepo(t)
	// Seed an already-expired row.
	require.NoError(t, repo.Store("24k", 6900, "INR", "seed", -time.Minute))

	client := NewClient("http://127.0.0.1:0", "", time.Hour, repo, zerolog.Nop())

	entry, err := client.Lookup("24k")
	require.NoError(t, err)
	assert.InDelta(t, 6900, entry.RatePerGram, 1e-9)
	assert.Equal(t, "seed", entry.Source)
}

func TestLookupStaticFallback(t *testing.T) {
	client := NewClient("", "", time.Hour, newCacheRepo(t), zerolog.Nop())

	entry, err := client.Lookup("18k")
	require.NoError(t, err)
	assert.InDelta(t, fallbackRate24k*18.0/24.0, entry.RatePerGram, 1e-9)
	assert.Equal(t, "static_fallback", entry.Source)

	// The static rate is never cached.
	_, err = client.cacheRepo.GetAny("18k")
	assert.ErrorIs(t, err, pricecache.ErrCacheMiss)
}

func TestLookupUnsupportedPurity(t *testing.T) {
	client := NewClient("", "", time.Hour, nil, zerolog.Nop())

	_, err := client.Lookup("14k")
	require.Error(t, err)
}
