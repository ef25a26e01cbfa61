package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) registerMiddleware() {
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(s.accessLog)
	s.echo.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisablePrintStack: true,
		LogErrorFunc: func(c echo.Context, err error, _ []byte) error {
			s.logger.Error().
				Err(err).
				Str("request_id", requestID(c)).
				Str("path", c.Request().URL.Path).
				Msg("Recovered from panic")
			return err
		},
	}))
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{s.cfg.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))
}

// accessLog logs one line per request after the error handler has written
// the final status
func (s *Server) accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		req, res := c.Request(), c.Response()
		s.logger.Info().
			Str("request_id", requestID(c)).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", res.Status).
			Int64("bytes", res.Size).
			Dur("duration", time.Since(start)).
			Msg("Request")
		return nil
	}
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
