package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/siren-services/internal/middleware"
	"github.com/iliyamo/siren-services/internal/model"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		health   Health
		status   string
		database string
	}{
		{"no database", Health{Service: "oauth-server", Version: "1.0.0"}, "OK", ""},
		{"database up", Health{Service: "company-api", Version: "1.0.0", DB: pinger{}}, "OK", "connected"},
		{"database down", Health{Service: "company-api", Version: "1.0.0", DB: pinger{err: errors.New("refused")}}, "DEGRADED", "unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho()
			e.GET("/health", tt.health.Check)

			rec := do(e, http.MethodGet, "/health", "", "")
			require.Equal(t, http.StatusOK, rec.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.database, body.Database)
			assert.Equal(t, tt.health.Service, body.Service)
			assert.Nil(t, body.Tokens)
		})
	}
}

func TestHealth_ReportsTokenCount(t *testing.T) {
	e := newEcho()
	e.GET("/healthz", Health{Service: "oauth-server", Tokens: func() int { return 7 }}.Check)

	rec := do(e, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tokens":7`)
}

func TestInfo(t *testing.T) {
	e := newEcho()
	e.GET("/", Info(map[string]any{"service": "stats-api"}))
	rec := do(e, http.MethodGet, "/", "", "")
	assert.JSONEq(t, `{"service":"stats-api"}`, rec.Body.String())
}

func TestSecureAndMe(t *testing.T) {
	exp := time.Date(2026, 5, 1, 13, 0, 0, 0, time.UTC)
	withIdentity := func(next func(c echo.Context) error) func(c echo.Context) error {
		return func(c echo.Context) error {
			middleware.SetIdentity(c, model.Identity{ClientID: "client-app", SubjectID: "1", ExpiresAt: exp})
			return next(c)
		}
	}
	e := newEcho()
	e.GET("/secure", withIdentity(Secure))
	e.GET("/me", withIdentity(Me))
	e.GET("/anon", Secure)

	rec := do(e, http.MethodGet, "/secure", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"access granted","access_token_expires_at":"2026-05-01T13:00:00Z",
		"client":{"id":"client-app"},"user":{"id":"1"}}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/me", "", "")
	assert.JSONEq(t, `{"client_id":"client-app","subject_id":"1"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/anon", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_token")
}
