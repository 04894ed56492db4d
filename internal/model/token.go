package model

import "time"

// SystemSubject is the subject attached to tokens issued through the
// client_credentials grant, where no user is involved.
const SystemSubject = "system"

// TokenRecord models one issuance event held by the token store. An access
// token is expired once the current time reaches AccessTokenExpiresAt.
// RefreshToken is empty for client_credentials grants.
type TokenRecord struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	ClientID              string
	SubjectID             string
	GrantType             GrantType
	IssuedAt              time.Time
}

// HasRefresh reports whether the record carries a refresh token.
func (r TokenRecord) HasRefresh() bool { return r.RefreshToken != "" }

// AccessExpired reports whether the access token is expired at now.
func (r TokenRecord) AccessExpired(now time.Time) bool {
	return !now.Before(r.AccessTokenExpiresAt)
}

// RefreshExpired reports whether the refresh token is expired at now.
func (r TokenRecord) RefreshExpired(now time.Time) bool {
	return !now.Before(r.RefreshTokenExpiresAt)
}
