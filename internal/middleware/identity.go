package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/siren-services/internal/model"
)

const identityKey = "identity"

// SetIdentity stores the resolved bearer identity in the request context.
func SetIdentity(c echo.Context, id model.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity placed by Guard or RemoteGuard.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	return id, ok
}

// clientID is used for rate limit keys and logs; "anon" before a guard ran.
func clientID(c echo.Context) string {
	if id, ok := IdentityFrom(c); ok && id.ClientID != "" {
		return id.ClientID
	}
	return "anon"
}
