// Package service holds the OAuth grant processing, the client used by
// resource servers to verify bearer tokens remotely, and the publisher of
// token lifecycle events.
package service

import (
	"fmt"
	"time"

	"github.com/iliyamo/siren-services/internal/apperror"
	"github.com/iliyamo/siren-services/internal/model"
	"github.com/iliyamo/siren-services/internal/utils"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 24 * time.Hour
)

// GrantRequest is one of PasswordGrant, ClientCredentialsGrant or
// RefreshTokenGrant. The unexported method closes the set.
type GrantRequest interface {
	GrantType() model.GrantType
	isGrant()
}

// PasswordGrant exchanges a user's credentials for tokens.
type PasswordGrant struct {
	Username string
	Password string
}

// ClientCredentialsGrant issues an access token to the client itself.
type ClientCredentialsGrant struct{}

// RefreshTokenGrant rotates a refresh token into a new token pair.
type RefreshTokenGrant struct {
	RefreshToken string
}

func (PasswordGrant) GrantType() model.GrantType          { return model.GrantPassword }
func (ClientCredentialsGrant) GrantType() model.GrantType { return model.GrantClientCredentials }
func (RefreshTokenGrant) GrantType() model.GrantType      { return model.GrantRefreshToken }

func (PasswordGrant) isGrant()          {}
func (ClientCredentialsGrant) isGrant() {}
func (RefreshTokenGrant) isGrant()      {}

// ClientAuth is the application identity presented with a grant request.
type ClientAuth struct {
	ID     string
	Secret string
}

// Credentials looks up registered clients and users.
type Credentials interface {
	FindClient(clientID string, secret *string) (model.Client, bool)
	FindUser(username, password string) (model.User, bool)
}

// TokenRepository persists token records.
type TokenRepository interface {
	Save(rec model.TokenRecord) model.TokenRecord
	FindByRefreshToken(tok string) (model.TokenRecord, bool)
	Revoke(refreshToken string) bool
}

// GrantProcessor validates grant requests and mints tokens.
type GrantProcessor struct {
	creds      Credentials
	tokens     TokenRepository
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	newToken   func() (string, error)
}

// GrantOption configures a GrantProcessor.
type GrantOption func(*GrantProcessor)

// WithTTL overrides the access and refresh token lifetimes. A zero TTL
// produces tokens that are expired as soon as they are issued.
func WithTTL(access, refresh time.Duration) GrantOption {
	return func(p *GrantProcessor) {
		p.accessTTL = access
		p.refreshTTL = refresh
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) GrantOption {
	return func(p *GrantProcessor) { p.now = now }
}

// WithTokenGenerator replaces the random token source.
func WithTokenGenerator(gen func() (string, error)) GrantOption {
	return func(p *GrantProcessor) { p.newToken = gen }
}

// NewGrantProcessor returns a processor with the default TTLs, time.Now and
// random opaque tokens, overridden by opts.
func NewGrantProcessor(creds Credentials, tokens TokenRepository, opts ...GrantOption) *GrantProcessor {
	p := &GrantProcessor{
		creds:      creds,
		tokens:     tokens,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
		newToken:   utils.NewOpaqueToken,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process runs one grant request to completion. The client is always
// authenticated before any subject credential is looked at.
func (p *GrantProcessor) Process(client ClientAuth, req GrantRequest) (model.TokenRecord, error) {
	c, ok := p.creds.FindClient(client.ID, &client.Secret)
	if !ok {
		return model.TokenRecord{}, apperror.New(apperror.InvalidClient, "client authentication failed")
	}
	if !c.Allows(req.GrantType()) {
		return model.TokenRecord{}, apperror.New(apperror.UnauthorizedClient,
			fmt.Sprintf("client is not allowed to use grant type %s", req.GrantType()))
	}

	var subject string
	switch g := req.(type) {
	case PasswordGrant:
		u, ok := p.creds.FindUser(g.Username, g.Password)
		if !ok {
			return model.TokenRecord{}, apperror.New(apperror.InvalidGrant, "invalid user credentials")
		}
		subject = u.ID
	case ClientCredentialsGrant:
		subject = model.SystemSubject
	case RefreshTokenGrant:
		s, err := p.rotate(c.ID, g.RefreshToken)
		if err != nil {
			return model.TokenRecord{}, err
		}
		subject = s
	default:
		return model.TokenRecord{}, apperror.New(apperror.UnsupportedGrantType, "unsupported grant type")
	}

	return p.mint(c.ID, subject, req.GrantType())
}

// rotate consumes a refresh token and returns the subject it was issued to.
// Revoke is the atomic step: of two requests presenting the same token only
// one sees it succeed.
func (p *GrantProcessor) rotate(clientID, refreshToken string) (string, error) {
	rec, ok := p.tokens.FindByRefreshToken(refreshToken)
	if !ok {
		return "", apperror.New(apperror.InvalidGrant, "invalid refresh token")
	}
	if rec.ClientID != clientID {
		return "", apperror.New(apperror.InvalidGrant, "refresh token was issued to another client")
	}
	if rec.RefreshExpired(p.now()) {
		return "", apperror.New(apperror.InvalidGrant, "refresh token expired")
	}
	if !p.tokens.Revoke(refreshToken) {
		return "", apperror.New(apperror.InvalidGrant, "invalid refresh token")
	}
	return rec.SubjectID, nil
}

func (p *GrantProcessor) mint(clientID, subject string, grant model.GrantType) (model.TokenRecord, error) {
	now := p.now()
	access, err := p.newToken()
	if err != nil {
		return model.TokenRecord{}, apperror.Wrap(apperror.Internal, "", fmt.Errorf("generate access token: %w", err))
	}
	rec := model.TokenRecord{
		AccessToken:          access,
		AccessTokenExpiresAt: now.Add(p.accessTTL),
		ClientID:             clientID,
		SubjectID:            subject,
		GrantType:            grant,
		IssuedAt:             now,
	}
	if grant != model.GrantClientCredentials {
		refresh, err := p.newToken()
		if err != nil {
			return model.TokenRecord{}, apperror.Wrap(apperror.Internal, "", fmt.Errorf("generate refresh token: %w", err))
		}
		rec.RefreshToken = refresh
		rec.RefreshTokenExpiresAt = now.Add(p.refreshTTL)
	}
	return p.tokens.Save(rec), nil
}
