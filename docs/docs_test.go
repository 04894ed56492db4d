package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag/v2"
)

func TestRegisteredDocsAreValidJSON(t *testing.T) {
	for _, name := range []string{OAuth, Company, Stats} {
		t.Run(name, func(t *testing.T) {
			doc, err := swag.ReadDoc(name)
			require.NoError(t, err)

			var parsed struct {
				Info  map[string]string `json:"info"`
				Paths map[string]any    `json:"paths"`
			}
			require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
			assert.NotEmpty(t, parsed.Info["title"])
			assert.NotEmpty(t, parsed.Paths)
		})
	}
}

func TestHandlerServesDocument(t *testing.T) {
	e := echo.New()
	e.GET("/swagger/doc.json", Handler(OAuth))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/oauth/token")
}
