// Package gold provides gold rate fetching, caching, and asset repricing.
package gold

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/pricecache"
)

// purityFactors scale the 24k rate down for lower purities.
var purityFactors = map[string]float64{
	"24k": 1.0,
	"22k": 22.0 / 24.0,
	"18k": 18.0 / 24.0,
}

// fallbackRate24k is the static last-resort rate per gram (INR) used when
// both the supplier and the cache are empty.
const fallbackRate24k = 7000.0

// Client fetches gold rates cache-first from a configured supplier.
// If the API fails, stale cached data is served when available
// (stale data > no data), then the static fallback.
type Client struct {
	apiURL    string
	apiKey    string
	ttl       time.Duration
	client    *http.Client
	cacheRepo *pricecache.Repository
	log       zerolog.Logger
}

// NewClient creates a new gold rate client.
// cacheRepo is optional - if nil, caching is disabled.
func NewClient(apiURL, apiKey string, ttl time.Duration, cacheRepo *pricecache.Repository, log zerolog.Logger) *Client {
	return &Client{
		apiURL:    apiURL,
		apiKey:    apiKey,
		ttl:       ttl,
		client:    &http.Client{Timeout: 10 * time.Second},
		cacheRepo: cacheRepo,
		log:       log.With().Str("client", "gold").Logger(),
	}
}

// RatePerGram returns the current rate for a purity. Lookup order: fresh
// cache, supplier, stale cache, static fallback scaled by purity.
func (c *Client) RatePerGram(purity string) (float64, error) {
	entry, err := c.Lookup(purity)
	if err != nil {
		return 0, err
	}
	return entry.RatePerGram, nil
}

// Lookup returns the full cache entry for a purity, fetching on miss.
func (c *Client) Lookup(purity string) (*pricecache.Entry, error) {
	factor, ok := purityFactors[purity]
	if !ok {
		return nil, fmt.Errorf("unsupported gold purity: %s", purity)
	}

	if c.cacheRepo != nil {
		if entry, err := c.cacheRepo.GetFresh(purity); err == nil {
			c.log.Debug().Str("purity", purity).Float64("rate", entry.RatePerGram).Msg("Cache hit")
			return entry, nil
		}
	}

	rate24k, source, err := c.fetchRate24k()
	if err != nil {
		// Supplier down - serve stale, then the static rate.
		if c.cacheRepo != nil {
			if entry, err := c.cacheRepo.GetAny(purity); err == nil {
				c.log.Warn().Str("purity", purity).Float64("rate", entry.RatePerGram).
					Msg("Supplier failed, using stale cached rate")
				return entry, nil
			}
		}
		c.log.Warn().Err(err).Str("purity", purity).Msg("Supplier failed, using static fallback rate")
		rate24k, source = fallbackRate24k, "static_fallback"
	}

	rate := rate24k * factor
	now := time.Now().UTC()
	if c.cacheRepo != nil && source != "static_fallback" {
		if err := c.cacheRepo.Store(purity, rate, "INR", source, c.ttl); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache gold rate")
		}
	}

	return &pricecache.Entry{
		Purity:      purity,
		RatePerGram: rate,
		Currency:    "INR",
		Source:      source,
		FetchedAt:   now,
		ExpiresAt:   now.Add(c.ttl),
	}, nil
}

// fetchRate24k calls the configured supplier for the 24k rate per gram.
func (c *Client) fetchRate24k() (float64, string, error) {
	if c.apiURL == "" {
		return 0, "", fmt.Errorf("no gold supplier configured")
	}

	endpoint := c.apiURL
	if c.apiKey != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return 0, "", fmt.Errorf("invalid gold supplier URL: %w", err)
		}
		q := u.Query()
		q.Set("api_key", c.apiKey)
		u.RawQuery = q.Encode()
		endpoint = u.String()
	}

	resp, err := c.client.Get(endpoint)
	if err != nil {
		return 0, "", fmt.Errorf("supplier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("supplier returned status %d", resp.StatusCode)
	}

	var result struct {
		RatePerGram float64 `json:"rate_per_gram"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, "", fmt.Errorf("failed to parse supplier response: %w", err)
	}
	if result.RatePerGram <= 0 {
		return 0, "", fmt.Errorf("supplier returned non-positive rate")
	}

	return result.RatePerGram, c.apiURL, nil
}
