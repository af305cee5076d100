package assets

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/events"
)

// GoldPricer supplies the current gold rate per gram for a purity. The
// assets service uses it to auto-price gold holdings that carry a
// weight_grams metadata entry.
type GoldPricer interface {
	RatePerGram(purity string) (float64, error)
}

// Service implements asset CRUD with gold auto-pricing and event emission.
type Service struct {
	repo       *Repository
	goldPricer GoldPricer
	eventMgr   *events.Manager
	log        zerolog.Logger
}

// NewService creates a new asset service. goldPricer and eventMgr may be
// nil; auto-pricing and events are then skipped.
func NewService(repo *Repository, goldPricer GoldPricer, eventMgr *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		goldPricer: goldPricer,
		eventMgr:   eventMgr,
		log:        log.With().Str("service", "assets").Logger(),
	}
}

// Create validates and stores a new asset for the user.
func (s *Service) Create(userID string, asset Asset) (*Asset, error) {
	asset.ID = uuid.NewString()
	asset.UserID = userID
	if asset.Metadata == nil {
		asset.Metadata = map[string]any{}
	}
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	if asset.PurchaseDate.IsZero() {
		asset.PurchaseDate = now
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	s.applyGoldPricing(&asset)

	if err := s.repo.Create(&asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	s.emit(events.NewAssetCreatedData(asset.ID, userID, string(asset.AssetType), asset.Name, asset.CurrentValue))
	s.log.Info().Str("asset_id", asset.ID).Str("type", string(asset.AssetType)).Msg("Asset created")
	return &asset, nil
}

// Update validates and rewrites a user's asset.
func (s *Service) Update(userID, assetID string, updated Asset) (*Asset, error) {
	existing, err := s.repo.GetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if updated.Metadata == nil {
		updated.Metadata = existing.Metadata
	}
	if updated.PurchaseDate.IsZero() {
		updated.PurchaseDate = existing.PurchaseDate
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	s.applyGoldPricing(&updated)

	if err := s.repo.Update(&updated); err != nil {
		return nil, err
	}

	s.emit(events.NewAssetUpdatedData(updated.ID, userID, string(updated.AssetType), updated.Name, updated.CurrentValue))
	return &updated, nil
}

// Delete removes a user's asset.
func (s *Service) Delete(userID, assetID string) error {
	if err := s.repo.Delete(userID, assetID); err != nil {
		return err
	}
	s.emit(&events.AssetDeletedData{AssetID: assetID, UserID: userID})
	s.log.Info().Str("asset_id", assetID).Msg("Asset deleted")
	return nil
}

// Get returns one of the user's assets.
func (s *Service) Get(userID, assetID string) (*Asset, error) {
	return s.repo.GetByID(userID, assetID)
}

// List returns all of the user's assets, optionally filtered by type.
func (s *Service) List(userID string, assetType Type) ([]Asset, error) {
	if assetType != "" {
		if !assetType.Valid() {
			return nil, fmt.Errorf("invalid asset type: %s", assetType)
		}
		return s.repo.ListByUserAndType(userID, assetType)
	}
	return s.repo.ListByUser(userID)
}

// applyGoldPricing recomputes the current value of a gold asset from its
// weight and the live rate. Supplier failure is tolerated: the asset keeps
// the caller-provided value and loses nothing.
func (s *Service) applyGoldPricing(asset *Asset) {
	if s.goldPricer == nil || asset.AssetType != TypeGold {
		return
	}
	weight, ok := asset.GoldWeightGrams()
	if !ok {
		return
	}

	rate, err := s.goldPricer.RatePerGram(asset.GoldPurity())
	if err != nil {
		s.log.Warn().Err(err).Str("asset", asset.Name).Msg("Gold rate unavailable, keeping provided value")
		return
	}

	asset.CurrentValue = weight * rate
	asset.Metadata[MetaAutoCalculated] = true
	asset.Metadata[MetaRatePerGram] = rate
	asset.Metadata[MetaLastPriceSync] = time.Now().UTC().Format(time.RFC3339)
}

func (s *Service) emit(data events.EventData) {
	if s.eventMgr != nil {
		s.eventMgr.Emit("assets", data)
	}
}
