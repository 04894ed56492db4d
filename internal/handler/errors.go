// Package handler contains the HTTP handlers of the oauth-server,
// company-api and stats-api services.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/siren-services/internal/apperror"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error       string `json:"error" example:"invalid_grant"`
	Description string `json:"error_description,omitempty" example:"refresh token expired"`
}

// ErrorHandler renders errors returned by handlers and middleware as
// ErrorResponse. Errors without a known kind become internal_error; their
// cause is logged and never sent to the client.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		kind, desc := classify(err)
		if kind == apperror.Internal {
			log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			desc = "internal server error"
		}

		status := kind.Status()
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, ErrorResponse{Error: string(kind), Description: desc})
		}
		if werr != nil {
			log.Warn("write error response", zap.Error(werr))
		}
	}
}

func classify(err error) (apperror.Kind, string) {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		if !ae.Kind.Known() {
			return apperror.Internal, ""
		}
		return ae.Kind, ae.Description
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		desc, _ := he.Message.(string)
		switch he.Code {
		case http.StatusNotFound:
			return apperror.NotFound, desc
		case http.StatusBadRequest, http.StatusMethodNotAllowed,
			http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
			return apperror.InvalidRequest, desc
		case http.StatusUnauthorized:
			return apperror.MissingToken, desc
		case http.StatusTooManyRequests:
			return apperror.TooManyRequests, desc
		case http.StatusServiceUnavailable:
			return apperror.VerificationUnavailable, desc
		}
	}
	return apperror.Internal, ""
}
