package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger checks a backing store.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse reports liveness and, for database backed services, the
// state of the connection.
type HealthResponse struct {
	Status   string `json:"status" example:"OK"`
	Service  string `json:"service" example:"company-api"`
	Version  string `json:"version" example:"1.0.0"`
	Database string `json:"database,omitempty" example:"connected"`
	Tokens   *int   `json:"tokens,omitempty"`
}

// Health answers health probes. It never requires authentication.
type Health struct {
	Service string
	Version string
	DB      Pinger
	// Tokens reports the token store size on the issuer.
	Tokens func() int
}

// Check returns 200 while the process is up; a broken database is reported
// in the body so the endpoint stays usable as a liveness probe.
//
//	@Summary	Service health
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (h Health) Check(c echo.Context) error {
	resp := HealthResponse{Status: "OK", Service: h.Service, Version: h.Version}
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), queryTimeout)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			resp.Status = "DEGRADED"
			resp.Database = "unreachable"
		} else {
			resp.Database = "connected"
		}
	}
	if h.Tokens != nil {
		n := h.Tokens()
		resp.Tokens = &n
	}
	return c.JSON(http.StatusOK, resp)
}

// Info serves a static description of the service.
func Info(body map[string]any) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, body)
	}
}
