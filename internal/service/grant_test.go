package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/siren-services/internal/apperror"
	"github.com/iliyamo/siren-services/internal/model"
	"github.com/iliyamo/siren-services/internal/repository"
	"github.com/iliyamo/siren-services/internal/utils"
)

const (
	testSecret   = "client-secret"
	testPassword = "password1"
)

var (
	appClient = ClientAuth{ID: "client-app", Secret: testSecret}
	webClient = ClientAuth{ID: "web-app", Secret: testSecret}
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testCredentials(t *testing.T) *repository.CredentialStore {
	t.Helper()
	hash, err := utils.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)

	all := map[model.GrantType]bool{
		model.GrantPassword: true, model.GrantRefreshToken: true, model.GrantClientCredentials: true,
	}
	userOnly := map[model.GrantType]bool{model.GrantPassword: true, model.GrantRefreshToken: true}

	s, err := repository.NewCredentialStore(
		[]model.Client{
			{ID: "client-app", SecretDigest: utils.DigestSecret(testSecret), AllowedGrants: all},
			{ID: "web-app", SecretDigest: utils.DigestSecret(testSecret), AllowedGrants: userOnly},
		},
		[]model.User{{ID: "u-1", Username: "user1", PasswordHash: hash}},
	)
	require.NoError(t, err)
	return s
}

func newTestProcessor(t *testing.T, opts ...GrantOption) (*GrantProcessor, *repository.TokenStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := repository.NewTokenStore()
	opts = append([]GrantOption{WithClock(clock.Now)}, opts...)
	return NewGrantProcessor(testCredentials(t), tokens, opts...), tokens, clock
}

func requireKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.KindOf(err), "error: %v", err)
}

func TestProcess_PasswordGrant(t *testing.T) {
	p, tokens, clock := newTestProcessor(t)

	rec, err := p.Process(appClient, PasswordGrant{Username: "user1", Password: testPassword})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.AccessToken)
	assert.NotEmpty(t, rec.RefreshToken)
	assert.NotEqual(t, rec.AccessToken, rec.RefreshToken)
	assert.Equal(t, "u-1", rec.SubjectID)
	assert.Equal(t, "client-app", rec.ClientID)
	assert.Equal(t, clock.Now().Add(DefaultAccessTTL), rec.AccessTokenExpiresAt)
	assert.Equal(t, clock.Now().Add(DefaultRefreshTTL), rec.RefreshTokenExpiresAt)

	stored, ok := tokens.FindByAccessToken(rec.AccessToken)
	require.True(t, ok)
	assert.Equal(t, rec, stored)
}

func TestProcess_ClientCredentialsGrant(t *testing.T) {
	p, _, _ := newTestProcessor(t)

	rec, err := p.Process(appClient, ClientCredentialsGrant{})
	require.NoError(t, err)
	assert.Equal(t, model.SystemSubject, rec.SubjectID)
	assert.False(t, rec.HasRefresh())
	assert.True(t, rec.RefreshTokenExpiresAt.IsZero())
}

func TestProcess_ClientAuthenticatedFirst(t *testing.T) {
	p, _, _ := newTestProcessor(t)

	tests := []struct {
		name   string
		client ClientAuth
		req    GrantRequest
		kind   apperror.Kind
	}{
		{"unknown client", ClientAuth{ID: "nope", Secret: testSecret}, PasswordGrant{"user1", testPassword}, apperror.InvalidClient},
		{"wrong secret", ClientAuth{ID: "client-app", Secret: "bad"}, PasswordGrant{"user1", testPassword}, apperror.InvalidClient},
		{"wrong secret and bad user", ClientAuth{ID: "client-app", Secret: "bad"}, PasswordGrant{"ghost", "x"}, apperror.InvalidClient},
		{"grant not allowed", webClient, ClientCredentialsGrant{}, apperror.UnauthorizedClient},
		{"bad password", appClient, PasswordGrant{"user1", "wrong"}, apperror.InvalidGrant},
		{"unknown user", appClient, PasswordGrant{"ghost", testPassword}, apperror.InvalidGrant},
		{"unknown refresh token", appClient, RefreshTokenGrant{"missing"}, apperror.InvalidGrant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Process(tt.client, tt.req)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestProcess_GrantGatingIgnoresValidSecret(t *testing.T) {
	p, tokens, _ := newTestProcessor(t)

	_, err := p.Process(webClient, ClientCredentialsGrant{})
	requireKind(t, err, apperror.UnauthorizedClient)
	assert.Zero(t, tokens.Len())

	// The same client may still use the grants it is registered for.
	_, err = p.Process(webClient, PasswordGrant{Username: "user1", Password: testPassword})
	require.NoError(t, err)
}

func TestProcess_AccessTokensAreUnique(t *testing.T) {
	p, tokens, _ := newTestProcessor(t)

	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		rec, err := p.Process(appClient, ClientCredentialsGrant{})
		require.NoError(t, err)
		_, dup := seen[rec.AccessToken]
		require.False(t, dup, "access token collision after %d issuances", i)
		seen[rec.AccessToken] = struct{}{}
	}
	assert.Equal(t, n, tokens.Len())
}

func TestProcess_RefreshRotation(t *testing.T) {
	p, tokens, _ := newTestProcessor(t)

	first, err := p.Process(appClient, PasswordGrant{Username: "user1", Password: testPassword})
	require.NoError(t, err)

	second, err := p.Process(appClient, RefreshTokenGrant{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, "u-1", second.SubjectID)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The old record is gone, access token included.
	_, ok := tokens.FindByAccessToken(first.AccessToken)
	assert.False(t, ok)

	_, err = p.Process(appClient, RefreshTokenGrant{RefreshToken: first.RefreshToken})
	requireKind(t, err, apperror.InvalidGrant)

	third, err := p.Process(appClient, RefreshTokenGrant{RefreshToken: second.RefreshToken})
	require.NoError(t, err)

	_, err = p.Process(appClient, RefreshTokenGrant{RefreshToken: second.RefreshToken})
	requireKind(t, err, apperror.InvalidGrant)

	_, ok = tokens.FindByRefreshToken(third.RefreshToken)
	assert.True(t, ok)
}

func TestProcess_RefreshExpired(t *testing.T) {
	p, _, clock := newTestProcessor(t)

	rec, err := p.Process(appClient, PasswordGrant{Username: "user1", Password: testPassword})
	require.NoError(t, err)

	clock.Advance(DefaultRefreshTTL)
	_, err = p.Process(appClient, RefreshTokenGrant{RefreshToken: rec.RefreshToken})
	requireKind(t, err, apperror.InvalidGrant)
}

func TestProcess_RefreshBoundToClient(t *testing.T) {
	p, _, _ := newTestProcessor(t)

	rec, err := p.Process(appClient, PasswordGrant{Username: "user1", Password: testPassword})
	require.NoError(t, err)

	_, err = p.Process(webClient, RefreshTokenGrant{RefreshToken: rec.RefreshToken})
	requireKind(t, err, apperror.InvalidGrant)

	// The rightful client can still rotate it.
	_, err = p.Process(appClient, RefreshTokenGrant{RefreshToken: rec.RefreshToken})
	require.NoError(t, err)
}

func TestProcess_ConcurrentRefreshHasOneWinner(t *testing.T) {
	for round := 0; round < 50; round++ {
		p, _, _ := newTestProcessor(t)
		rec, err := p.Process(appClient, PasswordGrant{Username: "user1", Password: testPassword})
		require.NoError(t, err)

		var (
			wg    sync.WaitGroup
			start = make(chan struct{})
			errs  = make([]error, 2)
		)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, errs[i] = p.Process(appClient, RefreshTokenGrant{RefreshToken: rec.RefreshToken})
			}(i)
		}
		close(start)
		wg.Wait()

		var okCount, invalid int
		for _, err := range errs {
			switch {
			case err == nil:
				okCount++
			case apperror.KindOf(err) == apperror.InvalidGrant:
				invalid++
			}
		}
		require.Equal(t, 1, okCount, "round %d: %v", round, errs)
		require.Equal(t, 1, invalid, "round %d: %v", round, errs)
	}
}

func TestProcess_ZeroTTLIsImmediatelyExpired(t *testing.T) {
	p, _, clock := newTestProcessor(t, WithTTL(0, 0))

	rec, err := p.Process(appClient, PasswordGrant{Username: "user1", Password: testPassword})
	require.NoError(t, err)
	assert.True(t, rec.AccessExpired(clock.Now()))
	assert.True(t, rec.RefreshExpired(clock.Now()))
}

func TestProcess_GeneratorFailureIsInternal(t *testing.T) {
	p, tokens, _ := newTestProcessor(t, WithTokenGenerator(func() (string, error) {
		return "", errors.New("entropy exhausted")
	}))

	_, err := p.Process(appClient, ClientCredentialsGrant{})
	requireKind(t, err, apperror.Internal)
	assert.Zero(t, tokens.Len())
}
