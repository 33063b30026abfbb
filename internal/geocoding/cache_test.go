package geocoding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGeocoder struct {
	calls   int
	results map[string][]Candidate
	err     error
}

func (c *countingGeocoder) Search(ctx context.Context, query string) ([]Candidate, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.results[query], nil
}

func TestCachedGeocoder_CachesHits(t *testing.T) {
	inner := &countingGeocoder{results: map[string][]Candidate{
		"fowey harbour": {{DisplayName: "Fowey", Lat: 50.336, Lon: -4.638}},
	}}
	cached, err := NewCachedGeocoder(inner, 8)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := cached.Search(ctx, "fowey harbour")
	require.NoError(t, err)
	second, err := cached.Search(ctx, "Fowey Harbour ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedGeocoder_DoesNotCacheMissesOrErrors(t *testing.T) {
	inner := &countingGeocoder{results: map[string][]Candidate{}}
	cached, err := NewCachedGeocoder(inner, 8)
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = cached.Search(ctx, "atlantis")
	_, _ = cached.Search(ctx, "atlantis")
	assert.Equal(t, 2, inner.calls)

	inner.err = errors.New("offline")
	_, err = cached.Search(ctx, "atlantis")
	assert.Error(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestNewCachedGeocoder_InvalidSize(t *testing.T) {
	_, err := NewCachedGeocoder(&countingGeocoder{}, 0)
	assert.Error(t, err)
}
