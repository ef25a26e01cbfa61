package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "already normalized",
			input:    "https://catalog.gamepass.com",
			expected: "https://catalog.gamepass.com",
		},
		{
			name:     "add https scheme",
			input:    "displaycatalog.mp.microsoft.com",
			expected: "https://displaycatalog.mp.microsoft.com",
		},
		{
			name:     "keep explicit http and port",
			input:    "http://localhost:4000/",
			expected: "http://localhost:4000",
		},
		{
			name:     "lowercase host",
			input:    "https://Catalog.GamePass.com",
			expected: "https://catalog.gamepass.com",
		},
		{
			name:     "remove default https port",
			input:    "https://catalog.gamepass.com:443",
			expected: "https://catalog.gamepass.com",
		},
		{
			name:     "remove default http port",
			input:    "http://localhost:80",
			expected: "http://localhost",
		},
		{
			name:     "strip query and fragment",
			input:    "https://example.com/api/?x=1#top",
			expected: "https://example.com/api",
		},
		{
			name:    "empty",
			input:   "  ",
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			input:   "ftp://example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := NormalizeBaseURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestJoinURL(t *testing.T) {
	t.Parallel()

	q := url.Values{}
	q.Set("platform", "pc")
	q.Set("market", "US")

	assert.Equal(t, "http://localhost:4000/api/gamepass/games?market=US&platform=pc",
		JoinURL("http://localhost:4000/", "/api/gamepass/games", q))
	assert.Equal(t, "https://catalog.gamepass.com/sigls/v2",
		JoinURL("https://catalog.gamepass.com", "sigls/v2", nil))
}
