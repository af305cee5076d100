package assets

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrAssetNotFound is returned when an asset does not exist or belongs to
// another user.
var ErrAssetNotFound = errors.New("asset not found")

// Repository persists assets in the wealth database. All queries are scoped
// by user id; ownership is enforced at this layer, not in handlers.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new asset repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "assets").Logger(),
	}
}

const assetColumns = `id, user_id, asset_type, name, purchase_value, current_value, purchase_date,
	metadata, sip_amount, sip_start_date, sip_step_up_percent, sip_active, created_at, updated_at`

// Create inserts a new asset row.
func (r *Repository) Create(a *Asset) error {
	metadata, err := marshalMetadata(a.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO assets (`+assetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, string(a.AssetType), a.Name, a.PurchaseValue, a.CurrentValue, a.PurchaseDate,
		metadata, a.SIPAmount, a.SIPStartDate, a.SIPStepUpPercent, a.SIPActive, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}
	return nil
}

// Update rewrites a user's asset row. Returns ErrAssetNotFound when the row
// does not exist for that user.
func (r *Repository) Update(a *Asset) error {
	metadata, err := marshalMetadata(a.Metadata)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(
		`UPDATE assets SET asset_type = ?, name = ?, purchase_value = ?, current_value = ?,
			purchase_date = ?, metadata = ?, sip_amount = ?, sip_start_date = ?,
			sip_step_up_percent = ?, sip_active = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		string(a.AssetType), a.Name, a.PurchaseValue, a.CurrentValue,
		a.PurchaseDate, metadata, a.SIPAmount, a.SIPStartDate,
		a.SIPStepUpPercent, a.SIPActive, a.UpdatedAt,
		a.ID, a.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return checkAffected(result)
}

// Delete removes a user's asset.
func (r *Repository) Delete(userID, assetID string) error {
	result, err := r.db.Exec(`DELETE FROM assets WHERE id = ? AND user_id = ?`, assetID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return checkAffected(result)
}

// GetByID returns a user's asset by id.
func (r *Repository) GetByID(userID, assetID string) (*Asset, error) {
	row := r.db.QueryRow(
		`SELECT `+assetColumns+` FROM assets WHERE id = ? AND user_id = ?`, assetID, userID)
	asset, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return asset, nil
}

// ListByUser returns all assets for a user, newest first.
func (r *Repository) ListByUser(userID string) ([]Asset, error) {
	return r.list(`SELECT `+assetColumns+` FROM assets WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

// ListByUserAndType returns a user's assets of one type.
func (r *Repository) ListByUserAndType(userID string, assetType Type) ([]Asset, error) {
	return r.list(
		`SELECT `+assetColumns+` FROM assets WHERE user_id = ? AND asset_type = ? ORDER BY created_at DESC`,
		userID, string(assetType))
}

// ListAllByType returns every user's assets of one type. Used by the gold
// refresh job to reprice auto-calculated holdings.
func (r *Repository) ListAllByType(assetType Type) ([]Asset, error) {
	return r.list(
		`SELECT `+assetColumns+` FROM assets WHERE asset_type = ? ORDER BY created_at DESC`,
		string(assetType))
}

// UserIDs returns the distinct users that own at least one asset. Used by
// the snapshot job.
func (r *Repository) UserIDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT user_id FROM assets`)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset owners: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the total number of assets across all users.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM assets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return count, nil
}

func (r *Repository) list(query string, args ...interface{}) ([]Asset, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := []Asset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(s scanner) (*Asset, error) {
	var (
		a            Asset
		assetType    string
		metadataJSON string
		sipStart     sql.NullTime
	)
	err := s.Scan(
		&a.ID, &a.UserID, &assetType, &a.Name, &a.PurchaseValue, &a.CurrentValue, &a.PurchaseDate,
		&metadataJSON, &a.SIPAmount, &sipStart, &a.SIPStepUpPercent, &a.SIPActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.AssetType = Type(assetType)
	if sipStart.Valid {
		t := sipStart.Time
		a.SIPStartDate = &t
	}
	if metadataJSON == "" {
		metadataJSON = "{}"
	}
	if err := json.Unmarshal([]byte(metadataJSON), &a.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode asset metadata: %w", err)
	}
	return &a, nil
}

func marshalMetadata(metadata map[string]any) (string, error) {
	if metadata == nil {
		return "{}", nil
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode asset metadata: %w", err)
	}
	return string(encoded), nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAssetNotFound
	}
	return nil
}
