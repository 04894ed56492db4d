package model

// GrantType names an OAuth2 flow a client may use to obtain tokens.
type GrantType string

const (
	GrantPassword          GrantType = "password"
	GrantClientCredentials GrantType = "client_credentials"
	GrantRefreshToken      GrantType = "refresh_token"
)

// ParseGrantType returns the GrantType named by s and whether it is one of
// the three supported flows.
func ParseGrantType(s string) (GrantType, bool) {
	switch g := GrantType(s); g {
	case GrantPassword, GrantClientCredentials, GrantRefreshToken:
		return g, true
	}
	return "", false
}

// Client represents a registered application permitted to request tokens.
// SecretDigest holds the SHA-256 digest of the client secret; the raw secret
// is only kept in the credentials file.
type Client struct {
	ID            string
	SecretDigest  [32]byte
	AllowedGrants map[GrantType]bool
	RedirectURIs  []string
}

// Allows reports whether the client is registered for grant g.
func (c Client) Allows(g GrantType) bool {
	return c.AllowedGrants[g]
}
