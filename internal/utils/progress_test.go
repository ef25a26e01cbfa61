package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressBar(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		description string
	}{
		{"listing with unknown total", -1, DescListing},
		{"fetching with known total", 12, DescFetching},
		{"zero total", 0, DescFetching},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewProgressBarTo(&bytes.Buffer{}, tt.total, tt.description)
			require.NotNil(t, bar)
			assert.Equal(t, int64(tt.total), bar.GetMax64())
		})
	}
}

func TestProgressBar_RendersToWriter(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBarTo(&buf, 4, DescFetching)

	require.NoError(t, bar.Set(2))
	assert.Contains(t, buf.String(), DescFetching)

	assert.NotPanics(t, func() {
		_ = bar.Finish()
	})
}

func TestProgressBar_Spinner(t *testing.T) {
	bar := NewProgressBarTo(&bytes.Buffer{}, -1, DescListing)

	assert.NotPanics(t, func() {
		_ = bar.Add(1)
		_ = bar.Finish()
	})
}
