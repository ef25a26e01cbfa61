package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = Defaults{Market: "BR", Language: "pt-BR"}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		raw      string
		expected Platform
		wantErr  bool
	}{
		{"", PlatformAll, false},
		{"console", PlatformConsole, false},
		{"pc", PlatformPC, false},
		{"cloud", PlatformCloud, false},
		{"eaplay", PlatformEAPlay, false},
		{"all", PlatformAll, false},
		{"xbox", "", true},
		{"PC", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p, err := ParsePlatform(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPlatform))

				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, CodeInvalidPlatform, ve.Code)
				assert.Equal(t, "Platform must be one of: console, pc, cloud, eaplay, all", ve.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestResolveOptions(t *testing.T) {
	tests := []struct {
		name     string
		partial  QueryOptions
		expected QueryOptions
	}{
		{
			name:     "empty uses every default",
			partial:  QueryOptions{},
			expected: QueryOptions{Platform: PlatformAll, Market: "BR", Language: "pt-BR"},
		},
		{
			name:     "explicit values win",
			partial:  QueryOptions{Platform: PlatformPC, Market: "US", Language: "en-US"},
			expected: QueryOptions{Platform: PlatformPC, Market: "US", Language: "en-US"},
		},
		{
			name:     "partial market only",
			partial:  QueryOptions{Market: "US"},
			expected: QueryOptions{Platform: PlatformAll, Market: "US", Language: "pt-BR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveOptions(tt.partial, testDefaults))
		})
	}
}

func TestCacheKey(t *testing.T) {
	t.Run("formats platform-market-language", func(t *testing.T) {
		key := CacheKey(QueryOptions{Platform: PlatformPC, Market: "US", Language: "en-US"}, testDefaults)
		assert.Equal(t, "pc-US-en-US", key)
	})

	t.Run("defaults are applied before keying", func(t *testing.T) {
		assert.Equal(t, "all-BR-pt-BR", CacheKey(QueryOptions{}, testDefaults))
		assert.Equal(t,
			CacheKey(QueryOptions{}, testDefaults),
			CacheKey(QueryOptions{Platform: PlatformAll, Market: "BR", Language: "pt-BR"}, testDefaults))
	})

	t.Run("deterministic", func(t *testing.T) {
		opts := QueryOptions{Platform: PlatformConsole}
		assert.Equal(t, CacheKey(opts, testDefaults), CacheKey(opts, testDefaults))
	})

	t.Run("differing options give differing keys", func(t *testing.T) {
		assert.NotEqual(t,
			CacheKey(QueryOptions{Platform: PlatformPC}, testDefaults),
			CacheKey(QueryOptions{Platform: PlatformConsole}, testDefaults))
	})
}
