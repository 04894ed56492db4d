// Package docs registers the OpenAPI documents of the HTTP services with
// swag. Each service serves its own document at /swagger/doc.json.
package docs

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag/v2"
)

// Instance names, one per service.
const (
	OAuth   = "oauth"
	Company = "company"
	Stats   = "stats"
)

// SwaggerInfoOAuth describes the token issuer.
var SwaggerInfoOAuth = &swag.Spec{
	Version:          "1.0.0",
	Title:            "OAuth2 token server",
	Description:      "Issues opaque bearer tokens for the password, client_credentials and refresh_token grants and resolves them for resource services.",
	InfoInstanceName: OAuth,
	SwaggerTemplate:  oauthTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// SwaggerInfoCompany describes the company lookup API.
var SwaggerInfoCompany = &swag.Spec{
	Version:          "1.0.0",
	Title:            "SIREN company API",
	Description:      "Looks up French legal units by SIREN, activity code or name. Responses are JSON-LD with Hydra pagination.",
	InfoInstanceName: Company,
	SwaggerTemplate:  companyTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// SwaggerInfoStats describes the statistics API.
var SwaggerInfoStats = &swag.Spec{
	Version:          "v1",
	Title:            "SIREN statistics API",
	Description:      "Counts legal units per main activity code.",
	InfoInstanceName: Stats,
	SwaggerTemplate:  statsTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfoOAuth.InstanceName(), SwaggerInfoOAuth)
	swag.Register(SwaggerInfoCompany.InstanceName(), SwaggerInfoCompany)
	swag.Register(SwaggerInfoStats.InstanceName(), SwaggerInfoStats)
}

// Handler serves the named document.
func Handler(instance string) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := swag.ReadDoc(instance)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(doc))
	}
}
