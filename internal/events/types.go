// Package events provides event management functionality.
package events

import (
	"time"
)

// EventType represents different event types
type EventType string

const (
	AssetCreated       EventType = "ASSET_CREATED"
	AssetUpdated       EventType = "ASSET_UPDATED"
	AssetDeleted       EventType = "ASSET_DELETED"
	GoldPriceRefreshed EventType = "GOLD_PRICE_REFRESHED"
	MilestoneAchieved  EventType = "MILESTONE_ACHIEVED"
	SnapshotRecorded   EventType = "SNAPSHOT_RECORDED"
	BackupCompleted    EventType = "BACKUP_COMPLETED"
)

// AllTypes lists every event type the stream endpoints subscribe to.
var AllTypes = []EventType{
	AssetCreated,
	AssetUpdated,
	AssetDeleted,
	GoldPriceRefreshed,
	MilestoneAchieved,
	SnapshotRecorded,
	BackupCompleted,
}

// EventData is the interface that all event data types must implement
// This allows for type-safe event data while maintaining flexibility
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// Event represents a system event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Data      EventData `json:"data,omitempty"`
}

// AssetChangedData contains data for AssetCreated and AssetUpdated events
type AssetChangedData struct {
	AssetID      string  `json:"asset_id"`
	UserID       string  `json:"user_id"`
	AssetType    string  `json:"asset_type"`
	Name         string  `json:"name"`
	CurrentValue float64 `json:"current_value"`

	created bool
}

// NewAssetCreatedData builds the payload for an AssetCreated event.
func NewAssetCreatedData(assetID, userID, assetType, name string, currentValue float64) *AssetChangedData {
	return &AssetChangedData{
		AssetID:      assetID,
		UserID:       userID,
		AssetType:    assetType,
		Name:         name,
		CurrentValue: currentValue,
		created:      true,
	}
}

// NewAssetUpdatedData builds the payload for an AssetUpdated event.
func NewAssetUpdatedData(assetID, userID, assetType, name string, currentValue float64) *AssetChangedData {
	return &AssetChangedData{
		AssetID:      assetID,
		UserID:       userID,
		AssetType:    assetType,
		Name:         name,
		CurrentValue: currentValue,
	}
}

// EventType returns the event type for AssetChangedData
func (d *AssetChangedData) EventType() EventType {
	if d.created {
		return AssetCreated
	}
	return AssetUpdated
}

// AssetDeletedData contains data for AssetDeleted events
type AssetDeletedData struct {
	AssetID string `json:"asset_id"`
	UserID  string `json:"user_id"`
}

// EventType returns the event type for AssetDeletedData
func (d *AssetDeletedData) EventType() EventType {
	return AssetDeleted
}

// GoldPriceRefreshedData contains data for GoldPriceRefreshed events
type GoldPriceRefreshedData struct {
	Purity        string  `json:"purity"`
	RatePerGram   float64 `json:"rate_per_gram"`
	Source        string  `json:"source"`
	AssetsUpdated int     `json:"assets_updated"`
}

// EventType returns the event type for GoldPriceRefreshedData
func (d *GoldPriceRefreshedData) EventType() EventType {
	return GoldPriceRefreshed
}

// MilestoneAchievedData contains data for MilestoneAchieved events
type MilestoneAchievedData struct {
	MilestoneID  string  `json:"milestone_id"`
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	NetWorth     float64 `json:"net_worth"`
}

// EventType returns the event type for MilestoneAchievedData
func (d *MilestoneAchievedData) EventType() EventType {
	return MilestoneAchieved
}

// SnapshotRecordedData contains data for SnapshotRecorded events
type SnapshotRecordedData struct {
	UserID        string  `json:"user_id"`
	SnapshotDate  string  `json:"snapshot_date"`
	TotalNetWorth float64 `json:"total_net_worth"`
}

// EventType returns the event type for SnapshotRecordedData
func (d *SnapshotRecordedData) EventType() EventType {
	return SnapshotRecorded
}

// BackupCompletedData contains data for BackupCompleted events
type BackupCompletedData struct {
	Archive   string `json:"archive"`
	SizeBytes int64  `json:"size_bytes"`
	Databases int    `json:"databases"`
}

// EventType returns the event type for BackupCompletedData
func (d *BackupCompletedData) EventType() EventType {
	return BackupCompleted
}
