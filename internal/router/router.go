// Package router assembles the echo instance of each service: the shared
// middleware stack first, then the service's routes.
package router

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/siren-services/docs"
	"github.com/iliyamo/siren-services/internal/handler"
	"github.com/iliyamo/siren-services/internal/metrics"
	"github.com/iliyamo/siren-services/internal/middleware"
)

// New returns an echo instance with the middleware every service runs,
// plus /metrics and /swagger/doc.json. docInstance names the swag document;
// m must not be nil.
func New(log *zap.Logger, m *metrics.Metrics, docInstance string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(m.Middleware())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(echomw.BodyLimit("1M"))

	e.GET("/metrics", m.Handler())
	e.GET("/swagger/doc.json", docs.Handler(docInstance))
	return e
}

// OAuth wires the token issuer.
type OAuth struct {
	Token     *handler.TokenHandler
	Tokens    middleware.TokenLookup
	Now       func() time.Time
	RateLimit echo.MiddlewareFunc
	Health    handler.Health
	Metrics   *metrics.Metrics
}

// RegisterOAuth mounts the token endpoint under /v1/oauth/token and the
// guarded /v1/secure and /v1/me. The unversioned paths are kept as aliases.
func RegisterOAuth(e *echo.Echo, d OAuth) {
	rl := d.RateLimit
	if rl == nil {
		rl = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	guard := middleware.Guard(d.Tokens, d.Now, d.Metrics)

	e.GET("/healthz", d.Health.Check)
	e.GET("/", handler.Info(map[string]any{
		"service":       "oauth-server",
		"version":       d.Health.Version,
		"documentation": "/swagger/doc.json",
		"health":        "/healthz",
		"endpoints": map[string]string{
			"token":  "/v1/oauth/token",
			"secure": "/v1/secure",
			"me":     "/v1/me",
		},
	}))

	for _, prefix := range []string{"/v1", ""} {
		e.POST(prefix+"/oauth/token", d.Token.Token, rl)
		e.GET(prefix+"/secure", handler.Secure, guard)
	}
	e.GET("/v1/me", handler.Me, guard)
}

// Company wires the company lookup API.
type Company struct {
	Handler   *handler.CompanyHandler
	Guard     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
	Health    handler.Health
}

// RegisterCompany mounts /health, / and the guarded /v1/entreprises group.
func RegisterCompany(e *echo.Echo, d Company) {
	e.GET("/health", d.Health.Check)
	e.GET("/", handler.Info(map[string]any{
		"service":       "SIREN company API",
		"version":       d.Health.Version,
		"documentation": "/swagger/doc.json",
		"health":        "/health",
		"endpoints": map[string]string{
			"by_siren":    "/v1/entreprises/siren/{siren}",
			"by_activite": "/v1/entreprises/activite/{code}",
			"search":      "/v1/entreprises/search?nom={term}",
		},
	}))

	g := e.Group("/v1/entreprises", guarded(d.Guard, d.RateLimit, d.Cache)...)
	g.GET("/siren/:siren", d.Handler.BySiren)
	g.GET("/activite/:code", d.Handler.ByActivity)
	g.GET("/search", d.Handler.Search)
}

// Stats wires the statistics API.
type Stats struct {
	Handler   *handler.StatsHandler
	Guard     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
	Health    handler.Health
}

// RegisterStats mounts /v1/health, /v1/ and the guarded /v1/stats/activites group.
func RegisterStats(e *echo.Echo, d Stats) {
	e.GET("/v1/health", d.Health.Check)
	e.GET("/v1/", handler.Info(map[string]any{
		"service":       "SIREN statistics API",
		"version":       d.Health.Version,
		"documentation": "/swagger/doc.json",
		"health":        "/v1/health",
		"endpoints": map[string]string{
			"count_by_activity":  "/v1/stats/activites/count",
			"filter_by_activity": "/v1/stats/activites/filter?code={code}",
			"top_activities":     "/v1/stats/activites/top",
			"bottom_activities":  "/v1/stats/activites/bottom",
		},
	}))

	g := e.Group("/v1/stats/activites", guarded(d.Guard, d.RateLimit, d.Cache)...)
	g.GET("/count", d.Handler.Count)
	g.GET("/filter", d.Handler.Filter)
	g.GET("/top", d.Handler.Top)
	g.GET("/bottom", d.Handler.Bottom)
}

// guarded puts the guard first so rate limit keys see the client and cached
// responses are only ever served to authenticated callers.
func guarded(guard echo.MiddlewareFunc, rest ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	mw := []echo.MiddlewareFunc{guard}
	for _, m := range rest {
		if m != nil {
			mw = append(mw, m)
		}
	}
	return mw
}
