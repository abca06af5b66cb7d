package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prvrbot/internal/breezeway"
)

func TestBestSelectsNearExactSubstring(t *testing.T) {
	properties := []breezeway.Property{
		{ID: 1, Name: "Pool House"},
		{ID: 2, Name: "Main House"},
	}

	result, ok := Best("pool house needs a new filter", properties)
	require.True(t, ok)

	assert.Equal(t, 1, result.PropertyID)
	assert.Equal(t, "Pool House", result.Name)
	assert.Greater(t, result.Score, float64(ConfidenceThreshold))
	assert.True(t, result.Confident())
}

func TestBestIsDeterministic(t *testing.T) {
	properties := []breezeway.Property{
		{ID: 1, Name: "Beach Cottage"},
		{ID: 2, Name: "The Barn"},
		{ID: 3, Name: "Lake View Lodge"},
	}

	first, ok := Best("someone left the barn door open", properties)
	require.True(t, ok)
	second, ok := Best("someone left the barn door open", properties)
	require.True(t, ok)

	assert.Equal(t, first, second)
}

func TestBestLowScoreIsNotConfident(t *testing.T) {
	properties := []breezeway.Property{
		{ID: 1, Name: "Beach Cottage"},
	}

	result, ok := Best("qqq zzz xxx", properties)
	require.True(t, ok)
	assert.False(t, result.Confident())
}

func TestBestWeightFavorsLongerName(t *testing.T) {
	// Both names contain the full query; the longer, more specific one must win.
	properties := []breezeway.Property{
		{ID: 1, Name: "House"},
		{ID: 2, Name: "Pool House"},
	}

	result, ok := Best("pool house", properties)
	require.True(t, ok)
	assert.Equal(t, 2, result.PropertyID)
}

func TestBestTieKeepsFirstSeen(t *testing.T) {
	properties := []breezeway.Property{
		{ID: 1, Name: "The Barn"},
		{ID: 2, Name: "The Barn"},
	}

	result, ok := Best("the barn sink is leaking", properties)
	require.True(t, ok)
	assert.Equal(t, 1, result.PropertyID)
}

func TestBestEmptyPropertyList(t *testing.T) {
	_, ok := Best("anything", nil)
	assert.False(t, ok)
}
