package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEntry_IsValid(t *testing.T) {
	fetched := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	entry := &CacheEntry{Timestamp: fetched}
	ttl := time.Hour

	tests := []struct {
		name     string
		now      time.Time
		expected bool
	}{
		{"just fetched", fetched, true},
		{"one ms before expiry", fetched.Add(ttl - time.Millisecond), true},
		{"exactly at ttl", fetched.Add(ttl), false},
		{"past ttl", fetched.Add(2 * ttl), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, entry.IsValid(tt.now, ttl))
		})
	}

	t.Run("nil entry is never valid", func(t *testing.T) {
		var e *CacheEntry
		assert.False(t, e.IsValid(fetched, ttl))
	})
}

func TestCacheEntry_Age(t *testing.T) {
	fetched := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	entry := &CacheEntry{Timestamp: fetched}

	assert.Equal(t, 90*time.Second, entry.Age(fetched.Add(90*time.Second)))
}

func TestGameCard_JSON(t *testing.T) {
	t.Run("absent optionals encode as null", func(t *testing.T) {
		card := GameCard{
			ID:        "9NBLGGH4R315",
			Title:     "Unknown Game",
			Platforms: []string{},
			Genres:    []string{},
		}

		data, err := json.Marshal(card)
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"id": "9NBLGGH4R315",
			"title": "Unknown Game",
			"description": "",
			"platforms": [],
			"genres": [],
			"coverUrl": null,
			"releaseDate": null
		}`, string(data))
	})

	t.Run("camelCase field names", func(t *testing.T) {
		cover := "https://store-images.s-microsoft.com/poster.jpg"
		released := "2021-11-15T00:00:00.0000000Z"
		card := GameCard{ID: "a", CoverURL: &cover, ReleaseDate: &released}

		data, err := json.Marshal(card)
		require.NoError(t, err)

		assert.Contains(t, string(data), `"coverUrl":"https://store-images.s-microsoft.com/poster.jpg"`)
		assert.Contains(t, string(data), `"releaseDate":"2021-11-15T00:00:00.0000000Z"`)
	})
}
