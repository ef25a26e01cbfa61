package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticScores(t *testing.T) {
	ctx := context.Background()
	var p ScoreProvider = StaticScores{}

	t.Run("known title", func(t *testing.T) {
		s, err := p.Score(ctx, "Ori and the Will of the Wisps")
		require.NoError(t, err)

		assert.Equal(t, ScoreAvailable, s.Status)
		assert.Equal(t, 90, *s.Value)
		assert.Equal(t, "https://www.metacritic.com/game/ori-and-the-will-of-the-wisps", s.URL)
	})

	t.Run("unknown title is derived from its length", func(t *testing.T) {
		s, err := p.Score(ctx, "Avowed")
		require.NoError(t, err)

		assert.Equal(t, 60+(6*3)%30, *s.Value)
		assert.Empty(t, s.URL)
	})

	t.Run("stable", func(t *testing.T) {
		a, _ := p.Score(ctx, "Some Indie Game")
		b, _ := p.Score(ctx, "Some Indie Game")
		assert.Equal(t, *a.Value, *b.Value)
		assert.GreaterOrEqual(t, *a.Value, 60)
		assert.Less(t, *a.Value, 90)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := p.Score(cctx, "Minecraft")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
