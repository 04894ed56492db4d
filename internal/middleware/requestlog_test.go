package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/siren-services/internal/model"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mw := RequestLogger(zap.New(core))

	ok := mw(func(c echo.Context) error {
		SetIdentity(c, model.Identity{ClientID: "client-app", SubjectID: "u-1"})
		return c.NoContent(http.StatusNoContent)
	})
	c, _ := newContext(http.MethodGet, "/v1/me", "Bearer secret-token")
	require.NoError(t, ok(c))

	failing := mw(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway)
	})
	c, rec := newContext(http.MethodGet, "/fail", "")
	require.NoError(t, failing(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusNoContent), first["status"])
	assert.Equal(t, "client-app", first["client_id"])
	for _, v := range first {
		assert.NotEqual(t, "Bearer secret-token", v)
	}

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusBadGateway), entries[1].ContextMap()["status"])
}
