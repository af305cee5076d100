// Package pricecache provides persistent TTL caching for gold rates in the
// cache database. Reads are cache-first: GetFresh honors the TTL, GetAny
// serves stale rows when the supplier is unavailable.
package pricecache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrCacheMiss is returned when no row exists for a purity.
var ErrCacheMiss = errors.New("price cache miss")

// Entry is one cached gold rate.
type Entry struct {
	Purity      string    `json:"purity"`
	RatePerGram float64   `json:"rate_per_gram"`
	Currency    string    `json:"currency"`
	Source      string    `json:"source"`
	FetchedAt   time.Time `json:"fetched_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Stale reports whether the entry's TTL has lapsed.
func (e *Entry) Stale(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Repository provides cache operations for gold rates.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new price cache repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "pricecache").Logger(),
	}
}

// Store upserts a rate with expiration = now + ttl.
func (r *Repository) Store(purity string, ratePerGram float64, currency, source string, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(
		`INSERT OR REPLACE INTO gold_price_cache (purity, rate_per_gram, currency, source, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		purity, ratePerGram, currency, source, now, now.Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("failed to store gold rate: %w", err)
	}
	return nil
}

// GetFresh returns the cached rate for a purity only if its TTL has not
// lapsed; expired and missing rows both come back as ErrCacheMiss.
func (r *Repository) GetFresh(purity string) (*Entry, error) {
	entry, err := r.get(purity)
	if err != nil {
		return nil, err
	}
	if entry.Stale(time.Now().UTC()) {
		return nil, ErrCacheMiss
	}
	return entry, nil
}

// GetAny returns the cached rate regardless of age. Fallback for when the
// supplier is down and a stale rate beats no rate.
func (r *Repository) GetAny(purity string) (*Entry, error) {
	return r.get(purity)
}

// DeleteExpired prunes rows whose TTL lapsed more than the grace period
// ago, keeping a stale-read window. Returns the number of rows removed.
func (r *Repository) DeleteExpired(grace time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-grace)
	result, err := r.db.Exec(`DELETE FROM gold_price_cache WHERE expires_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune price cache: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if removed > 0 {
		r.log.Info().Int64("removed", removed).Msg("Pruned expired gold rates")
	}
	return removed, nil
}

func (r *Repository) get(purity string) (*Entry, error) {
	var e Entry
	err := r.db.QueryRow(
		`SELECT purity, rate_per_gram, currency, source, fetched_at, expires_at
		 FROM gold_price_cache WHERE purity = ?`, purity,
	).Scan(&e.Purity, &e.RatePerGram, &e.Currency, &e.Source, &e.FetchedAt, &e.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read gold rate: %w", err)
	}
	return &e, nil
}
