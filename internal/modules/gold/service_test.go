package gold

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codingisforpros/wealthtrack/internal/events"
	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/internal/pricecache"
)

// stubRates serves fixed per-purity entries.
type stubRates struct {
	rates map[string]float64
	err   error
}

func (s *stubRates) Lookup(purity string) (*pricecache.Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	rate, ok := s.rates[purity]
	if !ok {
		return nil, errors.New("unknown purity")
	}
	now := time.Now().UTC()
	return &pricecache.Entry{Purity: purity, RatePerGram: rate, Currency: "INR", Source: "stub", FetchedAt: now, ExpiresAt: now.Add(time.Hour)}, nil
}

// memAssets is an in-memory AssetStore.
type memAssets struct {
	list    []assets.Asset
	updates int
}

func (m *memAssets) ListAllByType(assetType assets.Type) ([]assets.Asset, error) {
	out := []assets.Asset{}
	for _, a := range m.list {
		if a.AssetType == assetType {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAssets) Update(a *assets.Asset) error {
	for i := range m.list {
		if m.list[i].ID == a.ID {
			m.list[i] = *a
			m.updates++
			return nil
		}
	}
	return assets.ErrAssetNotFound
}

func goldAsset(id string, weight float64, purity string) assets.Asset {
	metadata := map[string]any{}
	if weight > 0 {
		metadata[assets.MetaWeightGrams] = weight
	}
	if purity != "" {
		metadata[assets.MetaPurity] = purity
	}
	return assets.Asset{
		ID:        id,
		UserID:    "user-1",
		AssetType: assets.TypeGold,
		Name:      id,
		Metadata:  metadata,
	}
}

func TestRefreshAllRepricesByWeight(t *testing.T) {
	store := &memAssets{list: []assets.Asset{
		goldAsset("a", 10, "24k"),
		goldAsset("b", 20, "22k"),
		goldAsset("no-weight", 0, "24k"),
		{ID: "stock", UserID: "user-1", AssetType: assets.TypeStocks, Name: "stock", Metadata: map[string]any{}},
	}}
	rates := &stubRates{rates: map[string]float64{"24k": 7000, "22k": 6400}}
	bus := events.NewBus(zerolog.Nop())
	mgr := events.NewManager(bus, zerolog.Nop())

	refreshed := 0
	bus.Subscribe(events.GoldPriceRefreshed, func(*events.Event) { refreshed++ })

	svc := NewService(rates, store, mgr, zerolog.Nop())
	updated, err := svc.RefreshAll()
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, 2, store.updates)
	// One event per purity touched.
	assert.Equal(t, 2, refreshed)

	assert.InDelta(t, 70000, store.list[0].CurrentValue, 1e-9)
	assert.InDelta(t, 128000, store.list[1].CurrentValue, 1e-9)
	// Weightless gold is untouched.
	assert.Zero(t, store.list[2].CurrentValue)
}

func TestRefreshAllRateFailureSkips(t *testing.T) {
	store := &memAssets{list: []assets.Asset{goldAsset("a", 10, "24k")}}
	svc := NewService(&stubRates{err: errors.New("down")}, store, nil, zerolog.Nop())

	updated, err := svc.RefreshAll()
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Zero(t, store.updates)
}
