package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/siren-services/internal/apperror"
	"github.com/iliyamo/siren-services/internal/middleware"
	"github.com/iliyamo/siren-services/internal/service"
)

// Secure resolves the caller's bearer token. Resource services call it to
// verify tokens remotely.
//
//	@Summary	Resolve the presented bearer token
//	@Tags		oauth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	service.SecureResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/v1/secure [get]
func Secure(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperror.New(apperror.MissingToken, "")
	}
	var resp service.SecureResponse
	resp.Message = "access granted"
	resp.AccessTokenExpiresAt = id.ExpiresAt
	resp.Client.ID = id.ClientID
	resp.User.ID = id.SubjectID
	return c.JSON(http.StatusOK, resp)
}

// MeResponse identifies the caller.
type MeResponse struct {
	ClientID  string `json:"client_id"`
	SubjectID string `json:"subject_id"`
}

// Me returns who the bearer token was issued to.
//
//	@Summary	Current identity
//	@Tags		oauth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	MeResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/v1/me [get]
func Me(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return apperror.New(apperror.MissingToken, "")
	}
	return c.JSON(http.StatusOK, MeResponse{ClientID: id.ClientID, SubjectID: id.SubjectID})
}
