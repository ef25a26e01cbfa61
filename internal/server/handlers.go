package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/pkg/version"
)

// GamesResponse is the body of GET /api/gamepass/games
type GamesResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Games   []domain.GameCard `json:"games"`
}

// GameResponse is the body of GET /api/gamepass/games/:id
type GameResponse struct {
	Success bool             `json:"success"`
	Game    *domain.GameCard `json:"game"`
}

// SearchResponse is the body of GET /api/gamepass/search
type SearchResponse struct {
	Success bool              `json:"success"`
	Query   string            `json:"query"`
	Count   int               `json:"count"`
	Games   []domain.GameCard `json:"games"`
}

// MessageResponse is the body of POST /api/gamepass/refresh
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	CacheEntries int    `json:"cacheEntries"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:       "ok",
		Version:      version.Short(),
		CacheEntries: s.catalog.Stats().Entries,
	})
}

// scope reads market and language from the query string
func scope(c echo.Context) domain.QueryOptions {
	return domain.QueryOptions{
		Market:   c.QueryParam("market"),
		Language: c.QueryParam("language"),
	}
}

func (s *Server) listGames(c echo.Context) error {
	platform, err := domain.ParsePlatform(c.QueryParam("platform"))
	if err != nil {
		return err
	}
	opts := scope(c)
	opts.Platform = platform

	games, err := s.catalog.GetAllGames(c.Request().Context(), opts)
	if err != nil {
		return upstreamFailure(err, msgFetchCatalog)
	}

	return c.JSON(http.StatusOK, GamesResponse{
		Success: true,
		Count:   len(games),
		Games:   games,
	})
}

func (s *Server) getGame(c echo.Context) error {
	id := c.Param("id")

	game, err := s.catalog.GetGameByID(c.Request().Context(), id, scope(c))
	if err != nil {
		return upstreamFailure(err, msgFetchGame)
	}
	if game == nil {
		return gameNotFound(id)
	}

	return c.JSON(http.StatusOK, GameResponse{Success: true, Game: game})
}

func (s *Server) searchGames(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return domain.NewValidationError("q", domain.CodeMissingQuery,
			`Query parameter "q" is required`, domain.ErrMissingQuery)
	}

	games, err := s.catalog.SearchGames(c.Request().Context(), q, scope(c))
	if err != nil {
		return upstreamFailure(err, msgSearch)
	}

	return c.JSON(http.StatusOK, SearchResponse{
		Success: true,
		Query:   q,
		Count:   len(games),
		Games:   games,
	})
}

func (s *Server) refresh(c echo.Context) error {
	if err := s.authorize(c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
		s.logger.Warn().
			Str("request_id", requestID(c)).
			Str("reason", err.Reason).
			Msg("Rejected cache refresh")
		return err
	}

	if err := s.catalog.ClearCache(c.Request().Context()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "Cache cleared successfully",
	})
}

// authorize checks a bearer Authorization header against the refresh token.
// An unset token rejects every request.
func (s *Server) authorize(header string) *domain.AuthError {
	if s.cfg.RefreshToken == "" {
		return &domain.AuthError{Reason: "refresh token not configured"}
	}
	if header == "" {
		return &domain.AuthError{Reason: "missing authorization header"}
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.RefreshToken)) != 1 {
		return &domain.AuthError{Reason: "token mismatch"}
	}
	return nil
}
