package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/siren-services/internal/apperror"
	"github.com/iliyamo/siren-services/internal/model"
	"github.com/iliyamo/siren-services/internal/repository"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"bearer abc123", "", false},
		{"Basic abc123", "", false},
		{"Bearer  abc123", "", false},
		{"Bearer abc 123", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if !tt.ok {
				require.Error(t, err)
				assert.Equal(t, apperror.MissingToken, apperror.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newContext(method, target, auth string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	id, _ := IdentityFrom(c)
	return c.String(http.StatusOK, id.ClientID+"/"+id.SubjectID)
}

func TestGuard(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := repository.NewTokenStore()
	store.Save(model.TokenRecord{
		AccessToken: "live", AccessTokenExpiresAt: now.Add(time.Minute),
		ClientID: "client-app", SubjectID: "u-1",
	})
	store.Save(model.TokenRecord{
		AccessToken: "stale", AccessTokenExpiresAt: now,
		ClientID: "client-app", SubjectID: "u-1",
	})
	h := Guard(store, func() time.Time { return now }, nil)(okHandler)

	tests := []struct {
		name string
		auth string
		kind apperror.Kind
	}{
		{"missing header", "", apperror.MissingToken},
		{"unknown token", "Bearer nope", apperror.InvalidToken},
		{"expired at boundary", "Bearer stale", apperror.ExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/v1/secure", tt.auth)
			err := h(c)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
			assert.Contains(t, rec.Header().Get(echo.HeaderWWWAuthenticate), string(tt.kind))
		})
	}

	t.Run("valid", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/v1/secure", "Bearer live")
		require.NoError(t, h(c))
		assert.Equal(t, "client-app/u-1", rec.Body.String())
	})
}

type stubVerifier struct {
	id    model.Identity
	err   error
	calls int
}

func (s *stubVerifier) Verify(_ context.Context, token string) (model.Identity, error) {
	s.calls++
	return s.id, s.err
}

func TestRemoteGuard(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v := &stubVerifier{id: model.Identity{ClientID: "client-app", SubjectID: "system"}}
		c, rec := newContext(http.MethodGet, "/v1/entreprises/siren/123456789", "Bearer tok")
		require.NoError(t, RemoteGuard(v, nil)(okHandler)(c))
		assert.Equal(t, "client-app/system", rec.Body.String())
	})

	t.Run("missing header skips the issuer", func(t *testing.T) {
		v := &stubVerifier{}
		c, _ := newContext(http.MethodGet, "/", "")
		err := RemoteGuard(v, nil)(okHandler)(c)
		assert.Equal(t, apperror.MissingToken, apperror.KindOf(err))
		assert.Zero(t, v.calls)
	})

	t.Run("every request is verified", func(t *testing.T) {
		v := &stubVerifier{id: model.Identity{ClientID: "client-app"}}
		h := RemoteGuard(v, nil)(okHandler)
		for i := 0; i < 3; i++ {
			c, _ := newContext(http.MethodGet, "/", "Bearer tok")
			require.NoError(t, h(c))
		}
		assert.Equal(t, 3, v.calls)
	})

	t.Run("issuer unavailable", func(t *testing.T) {
		v := &stubVerifier{err: apperror.New(apperror.VerificationUnavailable, "")}
		c, rec := newContext(http.MethodGet, "/", "Bearer tok")
		err := RemoteGuard(v, nil)(okHandler)(c)
		assert.Equal(t, apperror.VerificationUnavailable, apperror.KindOf(err))
		assert.Empty(t, rec.Header().Get(echo.HeaderWWWAuthenticate))
	})

	t.Run("expired passes through", func(t *testing.T) {
		v := &stubVerifier{err: apperror.New(apperror.ExpiredToken, "")}
		c, _ := newContext(http.MethodGet, "/", "Bearer tok")
		err := RemoteGuard(v, nil)(okHandler)(c)
		assert.Equal(t, apperror.ExpiredToken, apperror.KindOf(err))
	})
}
