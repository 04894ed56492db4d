package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/siren-services/internal/apperror"
	"github.com/iliyamo/siren-services/internal/metrics"
	"github.com/iliyamo/siren-services/internal/model"
)

// TokenLookup resolves access tokens issued by this process.
type TokenLookup interface {
	FindByAccessToken(tok string) (model.TokenRecord, bool)
}

// Verifier resolves access tokens held by another process.
type Verifier interface {
	Verify(ctx context.Context, token string) (model.Identity, error)
}

// Guard protects routes of the issuing service by looking bearer tokens up
// in its own store. now may be nil, in which case time.Now is used.
func Guard(tokens TokenLookup, now func() time.Time, m *metrics.Metrics) echo.MiddlewareFunc {
	if now == nil {
		now = time.Now
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, err := ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return reject(c, m, metrics.ModeLocal, err)
			}
			rec, ok := tokens.FindByAccessToken(tok)
			if !ok {
				return reject(c, m, metrics.ModeLocal, apperror.New(apperror.InvalidToken, "unknown access token"))
			}
			if rec.AccessExpired(now()) {
				return reject(c, m, metrics.ModeLocal, apperror.New(apperror.ExpiredToken, "access token expired"))
			}
			m.ObserveVerification(metrics.ModeLocal, metrics.ResultSuccess)
			SetIdentity(c, model.Identity{
				ClientID:  rec.ClientID,
				SubjectID: rec.SubjectID,
				ExpiresAt: rec.AccessTokenExpiresAt,
			})
			return next(c)
		}
	}
}

// RemoteGuard protects routes of a resource service by asking the issuer to
// resolve every bearer token. Nothing is cached between requests.
func RemoteGuard(v Verifier, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, err := ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return reject(c, m, metrics.ModeRemote, err)
			}
			id, err := v.Verify(c.Request().Context(), tok)
			if err != nil {
				return reject(c, m, metrics.ModeRemote, err)
			}
			m.ObserveVerification(metrics.ModeRemote, metrics.ResultSuccess)
			SetIdentity(c, id)
			return next(c)
		}
	}
}

func reject(c echo.Context, m *metrics.Metrics, mode string, err error) error {
	kind := apperror.KindOf(err)
	m.ObserveVerification(mode, string(kind))
	if kind.Status() == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, fmt.Sprintf(`Bearer error=%q`, kind))
	}
	return err
}
