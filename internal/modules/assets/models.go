// Package assets provides asset records and CRUD services for the wealth tracker.
package assets

import (
	"fmt"
	"time"
)

// Type is the asset classification. The set is closed; anything that does
// not fit an explicit class goes into TypeOthers.
type Type string

const (
	TypeStocks         Type = "stocks"
	TypeMutualFunds    Type = "mutual_funds"
	TypeCryptocurrency Type = "cryptocurrency"
	TypeRealEstate     Type = "real_estate"
	TypeFixedDeposits  Type = "fixed_deposits"
	TypeGold           Type = "gold"
	TypeOthers         Type = "others"
)

// AllTypes lists every valid asset type.
var AllTypes = []Type{
	TypeStocks,
	TypeMutualFunds,
	TypeCryptocurrency,
	TypeRealEstate,
	TypeFixedDeposits,
	TypeGold,
	TypeOthers,
}

var validTypes = func() map[Type]bool {
	m := make(map[Type]bool, len(AllTypes))
	for _, t := range AllTypes {
		m[t] = true
	}
	return m
}()

// Valid reports whether the type is in the closed set.
func (t Type) Valid() bool {
	return validTypes[t]
}

// DisplayName returns a human-readable label for the type, used by the
// sector analysis and correlation matrix output.
func (t Type) DisplayName() string {
	switch t {
	case TypeStocks:
		return "Stocks"
	case TypeMutualFunds:
		return "Mutual Funds"
	case TypeCryptocurrency:
		return "Cryptocurrency"
	case TypeRealEstate:
		return "Real Estate"
	case TypeFixedDeposits:
		return "Fixed Deposits"
	case TypeGold:
		return "Gold"
	default:
		return "Others"
	}
}

// Asset is a single financial holding owned by a user.
//
// PurchaseValue and CurrentValue are independently mutable; the only derived
// relationship is GainLoss = CurrentValue - PurchaseValue. Metadata carries
// free-form attributes, notably gold weight/purity and auto-pricing markers.
type Asset struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	AssetType     Type           `json:"asset_type"`
	Name          string         `json:"name"`
	PurchaseValue float64        `json:"purchase_value"`
	CurrentValue  float64        `json:"current_value"`
	PurchaseDate  time.Time      `json:"purchase_date"`
	Metadata      map[string]any `json:"metadata"`

	// SIP block: systematic monthly contribution settings.
	SIPAmount        float64    `json:"sip_amount"`
	SIPStartDate     *time.Time `json:"sip_start_date,omitempty"`
	SIPStepUpPercent float64    `json:"sip_step_up_percent"`
	SIPActive        bool       `json:"sip_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GainLoss returns the unrealized gain (positive) or loss (negative).
func (a *Asset) GainLoss() float64 {
	return a.CurrentValue - a.PurchaseValue
}

// Validate checks the invariants a new or updated asset must satisfy.
func (a *Asset) Validate() error {
	if !a.AssetType.Valid() {
		return fmt.Errorf("invalid asset type: %s", a.AssetType)
	}
	if a.Name == "" {
		return fmt.Errorf("asset name is required")
	}
	if a.PurchaseValue < 0 {
		return fmt.Errorf("purchase_value must be non-negative")
	}
	if a.CurrentValue < 0 {
		return fmt.Errorf("current_value must be non-negative")
	}
	if a.SIPAmount < 0 {
		return fmt.Errorf("sip_amount must be non-negative")
	}
	if a.SIPStepUpPercent < 0 {
		return fmt.Errorf("sip_step_up_percent must be non-negative")
	}
	return nil
}

// Metadata keys written by the gold auto-pricing flow.
const (
	MetaWeightGrams    = "weight_grams"
	MetaPurity         = "purity"
	MetaAutoCalculated = "auto_calculated"
	MetaRatePerGram    = "rate_per_gram"
	MetaLastPriceSync  = "last_price_sync"
)

// GoldWeightGrams extracts the gold weight from metadata, if present.
// JSON decoding produces float64 for numbers; ints are tolerated for
// callers that construct metadata in code.
func (a *Asset) GoldWeightGrams() (float64, bool) {
	raw, ok := a.Metadata[MetaWeightGrams]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, v > 0
	case int:
		return float64(v), v > 0
	default:
		return 0, false
	}
}

// GoldPurity extracts the purity marker from metadata, defaulting to "24k".
func (a *Asset) GoldPurity() string {
	if raw, ok := a.Metadata[MetaPurity]; ok {
		if s, ok := raw.(string); ok && s != "" {
			return s
		}
	}
	return "24k"
}
