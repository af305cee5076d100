package gold

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/events"
	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
	"github.com/codingisforpros/wealthtrack/internal/pricecache"
)

// RateSource is the lookup surface the service needs; *Client satisfies it.
type RateSource interface {
	Lookup(purity string) (*pricecache.Entry, error)
}

// AssetStore is the slice of the asset repository the refresh uses.
type AssetStore interface {
	ListAllByType(assetType assets.Type) ([]assets.Asset, error)
	Update(a *assets.Asset) error
}

// Service reprices gold assets from the current rate.
type Service struct {
	rates    RateSource
	assets   AssetStore
	eventMgr *events.Manager
	log      zerolog.Logger
}

// NewService creates a new gold service. eventMgr may be nil.
func NewService(rates RateSource, assetStore AssetStore, eventMgr *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		rates:    rates,
		assets:   assetStore,
		eventMgr: eventMgr,
		log:      log.With().Str("service", "gold").Logger(),
	}
}

// CurrentRate returns the rate entry for a purity.
func (s *Service) CurrentRate(purity string) (*pricecache.Entry, error) {
	return s.rates.Lookup(purity)
}

// RefreshAll reprices every gold asset that carries a weight, across all
// users, and emits one GoldPriceRefreshed event per purity touched.
// Returns the number of assets updated.
func (s *Service) RefreshAll() (int, error) {
	goldAssets, err := s.assets.ListAllByType(assets.TypeGold)
	if err != nil {
		return 0, fmt.Errorf("failed to list gold assets: %w", err)
	}

	updated := 0
	perPurity := make(map[string]*pricecache.Entry)
	for i := range goldAssets {
		asset := &goldAssets[i]
		weight, ok := asset.GoldWeightGrams()
		if !ok {
			continue
		}

		purity := asset.GoldPurity()
		entry, ok := perPurity[purity]
		if !ok {
			entry, err = s.rates.Lookup(purity)
			if err != nil {
				s.log.Warn().Err(err).Str("purity", purity).Msg("Skipping purity, no rate available")
				continue
			}
			perPurity[purity] = entry
		}

		asset.CurrentValue = weight * entry.RatePerGram
		asset.Metadata[assets.MetaAutoCalculated] = true
		asset.Metadata[assets.MetaRatePerGram] = entry.RatePerGram
		asset.Metadata[assets.MetaLastPriceSync] = time.Now().UTC().Format(time.RFC3339)
		asset.UpdatedAt = time.Now().UTC()

		if err := s.assets.Update(asset); err != nil {
			s.log.Error().Err(err).Str("asset_id", asset.ID).Msg("Failed to reprice gold asset")
			continue
		}
		updated++
	}

	if s.eventMgr != nil {
		for purity, entry := range perPurity {
			s.eventMgr.Emit("gold", &events.GoldPriceRefreshedData{
				Purity:        purity,
				RatePerGram:   entry.RatePerGram,
				Source:        entry.Source,
				AssetsUpdated: updated,
			})
		}
	}

	s.log.Info().Int("updated", updated).Msg("Gold refresh complete")
	return updated, nil
}
