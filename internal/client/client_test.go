package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/fetcher"
	"github.com/quantmind-br/gamepass-catalog/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const gamesBody = `{"success":true,"count":2,"games":[
	{"id":"A","title":"Forza Horizon 5","description":"","platforms":["Console","PC"],"genres":["Racing & flying"],"coverUrl":"//store-images.s-microsoft.com/a.jpg","releaseDate":"2021-11-09T00:00:00.0000000Z"},
	{"id":"B","title":"Unknown Game","description":"","platforms":[],"genres":[],"coverUrl":null,"releaseDate":null}
]}`

// facade is a fake catalog API counting its requests
type facade struct {
	*httptest.Server
	requests atomic.Int32
	lastURL  atomic.Value
}

func newFacade(t *testing.T, handler http.HandlerFunc) *facade {
	t.Helper()
	f := &facade{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		f.lastURL.Store(r.URL.String())
		handler(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func okGames(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(gamesBody))
}

func newTestClient(t *testing.T, baseURL string, f domain.Fetcher) (*Client, *testClock) {
	t.Helper()
	if f == nil {
		httpClient, err := fetcher.NewClient(fetcher.ClientOptions{Timeout: 5 * time.Second})
		require.NoError(t, err)
		f = httpClient
	}
	clock := &testClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	lc := NewLocalCache(LocalCacheOptions{KV: newMemoryKV(t), Now: clock.Now})

	c, err := New(Options{
		BaseURL:  baseURL,
		Market:   "BR",
		Language: "pt-BR",
		Fetcher:  f,
		Cache:    lc,
	})
	require.NoError(t, err)
	return c, clock
}

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	lc := NewLocalCache(LocalCacheOptions{KV: newMemoryKV(t)})

	_, err := New(Options{BaseURL: "http://localhost:4000", Cache: lc})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "http://localhost:4000", Fetcher: mocks.NewMockFetcher(ctrl)})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "ftp://x", Fetcher: mocks.NewMockFetcher(ctrl), Cache: lc})
	assert.Error(t, err)
}

func TestClient_Games(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches then serves from cache", func(t *testing.T) {
		api := newFacade(t, okGames)
		c, clock := newTestClient(t, api.URL, nil)

		first, err := c.Games(ctx, "")
		require.NoError(t, err)
		assert.False(t, first.FromCache)
		assert.False(t, first.Fallback)
		require.Len(t, first.Games, 2)
		assert.Contains(t, api.lastURL.Load(), "platform=console")
		assert.Contains(t, api.lastURL.Load(), "market=BR")
		assert.Contains(t, api.lastURL.Load(), "language=pt-BR")

		clock.Advance(10 * time.Minute)
		second, err := c.Games(ctx, "")
		require.NoError(t, err)
		assert.True(t, second.FromCache)
		assert.Equal(t, 10, second.AgeMinutes)
		assert.Equal(t, first.Games, second.Games)
		assert.Equal(t, int32(1), api.requests.Load())
	})

	t.Run("cache expires after thirty minutes", func(t *testing.T) {
		api := newFacade(t, okGames)
		c, clock := newTestClient(t, api.URL, nil)

		_, err := c.Games(ctx, "pc")
		require.NoError(t, err)
		clock.Advance(31 * time.Minute)
		res, err := c.Games(ctx, "pc")
		require.NoError(t, err)

		assert.False(t, res.FromCache)
		assert.Equal(t, int32(2), api.requests.Load())
	})

	t.Run("platforms are cached separately", func(t *testing.T) {
		api := newFacade(t, okGames)
		c, _ := newTestClient(t, api.URL, nil)

		_, err := c.Games(ctx, "pc")
		require.NoError(t, err)
		_, err = c.Games(ctx, "console")
		require.NoError(t, err)

		assert.Equal(t, int32(2), api.requests.Load())
	})

	t.Run("display defaults are filled", func(t *testing.T) {
		api := newFacade(t, okGames)
		c, _ := newTestClient(t, api.URL, nil)

		res, err := c.Games(ctx, "all")
		require.NoError(t, err)

		assert.Equal(t, "https://store-images.s-microsoft.com/a.jpg", res.Games[0].CoverURL)
		assert.Equal(t, "2021-11-09T00:00:00.0000000Z", res.Games[0].ReleaseDate)
		assert.Equal(t, DefaultCoverURL, res.Games[1].CoverURL)
		assert.Equal(t, []string{domain.LabelConsole}, res.Games[1].Platforms)
		assert.Empty(t, res.Games[1].ReleaseDate)
	})

	t.Run("api failure falls back to sample data", func(t *testing.T) {
		api := newFacade(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"UPSTREAM_ERROR"}`, http.StatusBadGateway)
		})
		c, clock := newTestClient(t, api.URL, nil)

		res, err := c.Games(ctx, "console")
		require.NoError(t, err)
		assert.True(t, res.Fallback)

		sample, err := SampleGames()
		require.NoError(t, err)
		assert.Equal(t, sample, res.Games)

		clock.Advance(4 * time.Minute)
		res, err = c.Games(ctx, "console")
		require.NoError(t, err)
		assert.True(t, res.FromCache)
		assert.Equal(t, int32(1), api.requests.Load())

		clock.Advance(2 * time.Minute)
		_, err = c.Games(ctx, "console")
		require.NoError(t, err)
		assert.Equal(t, int32(2), api.requests.Load())
	})

	t.Run("malformed response falls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		f := mocks.NewMockFetcher(ctrl)
		f.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.Response{StatusCode: 200, Body: []byte(`{"success":true}`)}, nil)
		c, _ := newTestClient(t, "http://localhost:4000", f)

		res, err := c.Games(ctx, "console")
		require.NoError(t, err)
		assert.True(t, res.Fallback)
	})

	t.Run("transport failure falls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		f := mocks.NewMockFetcher(ctrl)
		f.EXPECT().Get(gomock.Any(), "http://localhost:4000/api/gamepass/games?language=pt-BR&market=BR&platform=eaplay").
			Return(nil, errors.New("connection refused"))
		c, _ := newTestClient(t, "http://localhost:4000", f)

		res, err := c.Games(ctx, "eaplay")
		require.NoError(t, err)
		assert.True(t, res.Fallback)
		assert.NotEmpty(t, res.Games)
	})
}

func TestClient_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := newFacade(t, okGames)
		c, _ := newTestClient(t, api.URL, nil)

		games := c.Search(ctx, "forza horizon")
		assert.Len(t, games, 2)
		assert.Contains(t, api.lastURL.Load(), "q=forza+horizon")
	})

	t.Run("failure yields empty list", func(t *testing.T) {
		api := newFacade(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		c, _ := newTestClient(t, api.URL, nil)

		games := c.Search(ctx, "halo")
		assert.NotNil(t, games)
		assert.Empty(t, games)
	})
}

func TestClient_ClearCache(t *testing.T) {
	ctx := context.Background()
	api := newFacade(t, okGames)
	c, _ := newTestClient(t, api.URL, nil)

	_, err := c.Games(ctx, "console")
	require.NoError(t, err)
	require.NoError(t, c.ClearCache(ctx))

	res, err := c.Games(ctx, "console")
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, int32(2), api.requests.Load())
}

// flakyScores fails for one title
type flakyScores struct {
	failing string
}

func (f flakyScores) Score(ctx context.Context, title string) (Score, error) {
	if title == f.failing {
		return Score{}, errors.New("lookup failed")
	}
	return StaticScores{}.Score(ctx, title)
}

func TestClient_WithScores(t *testing.T) {
	ctrl := gomock.NewController(t)
	lc := NewLocalCache(LocalCacheOptions{KV: newMemoryKV(t)})
	c, err := New(Options{
		BaseURL: "http://localhost:4000",
		Fetcher: mocks.NewMockFetcher(ctrl),
		Cache:   lc,
		Scores:  flakyScores{failing: "Starfield"},
	})
	require.NoError(t, err)

	games := []Game{{ID: "1", Title: "Halo Infinite"}, {ID: "2", Title: "Starfield"}, {ID: "3", Title: "Minecraft"}}
	scored := c.WithScores(context.Background(), games)

	require.Len(t, scored, 3)
	assert.Nil(t, games[0].Score)

	assert.Equal(t, ScoreAvailable, scored[0].Score.Status)
	assert.Equal(t, 87, *scored[0].Score.Value)
	assert.Equal(t, ScoreNotFound, scored[1].Score.Status)
	assert.Nil(t, scored[1].Score.Value)
	assert.Equal(t, 93, *scored[2].Score.Value)
}

func TestFromCard_Cover(t *testing.T) {
	tests := []struct {
		name     string
		cover    *string
		expected string
	}{
		{"protocol-relative", strPtr("//store-images.s-microsoft.com/image/apps.1"), "https://store-images.s-microsoft.com/image/apps.1"},
		{"absolute", strPtr("http://img/a.jpg"), "http://img/a.jpg"},
		{"empty", strPtr(""), DefaultCoverURL},
		{"missing", nil, DefaultCoverURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := fromCard(domain.GameCard{ID: "a", CoverURL: tt.cover})
			assert.Equal(t, tt.expected, g.CoverURL)
		})
	}
}

func strPtr(s string) *string { return &s }
