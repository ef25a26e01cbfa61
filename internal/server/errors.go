package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
)

const (
	msgEndpointNotFound = "Endpoint not found"
	msgInternal         = "An unexpected error occurred"
	msgUnauthorized     = "Invalid or missing refresh token"
	msgFetchCatalog     = "Failed to fetch Game Pass catalog from Microsoft"
	msgFetchGame        = "Failed to fetch game details"
	msgSearch           = "Failed to search games"
)

// APIError is the JSON body of every error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func gameNotFound(id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    domain.CodeNotFound,
		Message: fmt.Sprintf("Game with ID %s not found", id),
	}
}

// upstreamFailure turns an upstream error, or a catalog fetch cut short by
// cancellation or deadline, into a 502 carrying message. Other errors pass
// through to the 500 path.
func upstreamFailure(err error, message string) error {
	if !domain.IsUpstream(err) && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &APIError{
		Status:  http.StatusBadGateway,
		Code:    domain.CodeUpstream,
		Message: message,
		Details: err.Error(),
	}
}

// toAPIError classifies err into a response
func (s *Server) toAPIError(err error) *APIError {
	var (
		apiErr  *APIError
		valErr  *domain.ValidationError
		authErr *domain.AuthError
		upErr   *domain.UpstreamError
		httpErr *echo.HTTPError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &valErr):
		return &APIError{Status: http.StatusBadRequest, Code: valErr.Code, Message: valErr.Message}
	case errors.As(err, &authErr):
		return &APIError{Status: http.StatusUnauthorized, Code: domain.CodeUnauthorized, Message: msgUnauthorized}
	case errors.As(err, &upErr):
		return &APIError{Status: http.StatusBadGateway, Code: domain.CodeUpstream, Message: msgFetchCatalog, Details: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Code: domain.CodeNotFound, Message: err.Error()}
	case errors.As(err, &httpErr):
		switch httpErr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return &APIError{Status: http.StatusNotFound, Code: domain.CodeNotFound, Message: msgEndpointNotFound}
		case http.StatusUnauthorized:
			return &APIError{Status: http.StatusUnauthorized, Code: domain.CodeUnauthorized, Message: msgUnauthorized}
		}
		if httpErr.Code < http.StatusInternalServerError {
			return &APIError{Status: httpErr.Code, Code: "BAD_REQUEST", Message: fmt.Sprint(httpErr.Message)}
		}
	}

	internal := &APIError{Status: http.StatusInternalServerError, Code: domain.CodeInternal, Message: msgInternal}
	if !s.cfg.IsProduction() {
		internal.Details = err.Error()
	}
	return internal
}

// handleError is the echo HTTPErrorHandler
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	apiErr := s.toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		s.logger.Error().
			Err(err).
			Str("request_id", requestID(c)).
			Str("code", apiErr.Code).
			Msg("Request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(apiErr.Status)
	} else {
		err = c.JSON(apiErr.Status, apiErr)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to write error response")
	}
}
