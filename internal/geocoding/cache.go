package geocoding

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache
type CachedGeocoder struct {
	inner Geocoder
	cache *lru.Cache
}

// NewCachedGeocoder creates a cache decorator around a geocoder
func NewCachedGeocoder(inner Geocoder, maxEntries int) (*CachedGeocoder, error) {
	cache, err := lru.New(maxEntries)
	if err != nil {
		return nil, fmt.Errorf("creating geocode cache: %w", err)
	}
	return &CachedGeocoder{inner: inner, cache: cache}, nil
}

// Search returns cached candidates for query or asks the wrapped geocoder
func (c *CachedGeocoder) Search(ctx context.Context, query string) ([]Candidate, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if v, ok := c.cache.Get(key); ok {
		return append([]Candidate(nil), v.([]Candidate)...), nil
	}

	candidates, err := c.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	// Empty results are not cached so a later retry can still succeed.
	if len(candidates) > 0 {
		c.cache.Add(key, append([]Candidate(nil), candidates...))
	}
	return candidates, nil
}
