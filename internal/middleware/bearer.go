package middleware

import (
	"strings"

	"github.com/iliyamo/siren-services/internal/apperror"
)

const bearerPrefix = "Bearer "

// ParseBearer extracts the token from an Authorization header of the exact
// form "Bearer <value>". Anything else, including a lower-case scheme or an
// empty value, is reported as missing_token.
func ParseBearer(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", apperror.New(apperror.MissingToken, "missing bearer token")
	}
	tok := header[len(bearerPrefix):]
	if tok == "" || strings.ContainsAny(tok, " \t") {
		return "", apperror.New(apperror.MissingToken, "malformed bearer token")
	}
	return tok, nil
}
