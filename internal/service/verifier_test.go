package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/siren-services/internal/apperror"
)

func issuer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteVerifier_Valid(t *testing.T) {
	exp := time.Date(2026, 5, 1, 13, 0, 0, 0, time.UTC)
	srv := issuer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, SecurePath, r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		var sr SecureResponse
		sr.Message = "access granted"
		sr.AccessTokenExpiresAt = exp
		sr.Client.ID = "client-app"
		sr.User.ID = "u-1"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sr)
	})

	id, err := NewRemoteVerifier(srv.URL+"/", time.Second).Verify(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "client-app", id.ClientID)
	assert.Equal(t, "u-1", id.SubjectID)
	assert.True(t, exp.Equal(id.ExpiresAt))
}

func TestRemoteVerifier_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   apperror.Kind
	}{
		{"expired", http.StatusUnauthorized, `{"error":"expired_token"}`, apperror.ExpiredToken},
		{"missing", http.StatusUnauthorized, `{"error":"missing_token"}`, apperror.MissingToken},
		{"invalid", http.StatusUnauthorized, `{"error":"invalid_token"}`, apperror.InvalidToken},
		{"unparseable 401", http.StatusUnauthorized, `nope`, apperror.InvalidToken},
		{"server error", http.StatusInternalServerError, `{"error":"internal_error"}`, apperror.VerificationUnavailable},
		{"ok without client", http.StatusOK, `{"message":"x"}`, apperror.VerificationUnavailable},
		{"ok with garbage", http.StatusOK, `<html>`, apperror.VerificationUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := issuer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := NewRemoteVerifier(srv.URL, time.Second).Verify(context.Background(), "tok")
			require.Error(t, err)
			assert.Equal(t, tt.want, apperror.KindOf(err))
		})
	}
}

func TestRemoteVerifier_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := issuer(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
	})
	defer close(release)

	_, err := NewRemoteVerifier(srv.URL, 50*time.Millisecond).Verify(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperror.VerificationUnavailable, apperror.KindOf(err))
}

func TestRemoteVerifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRemoteVerifier(url, time.Second).Verify(context.Background(), "tok")
	assert.Equal(t, apperror.VerificationUnavailable, apperror.KindOf(err))
}
