package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/siren-services/internal/apperror"
	"github.com/iliyamo/siren-services/internal/logging"
	"github.com/iliyamo/siren-services/internal/metrics"
	"github.com/iliyamo/siren-services/internal/model"
	"github.com/iliyamo/siren-services/internal/queue"
	"github.com/iliyamo/siren-services/internal/service"
)

const publishTimeout = 5 * time.Second

// GrantIssuer runs one grant request.
type GrantIssuer interface {
	Process(client service.ClientAuth, req service.GrantRequest) (model.TokenRecord, error)
}

// TokenHandler serves the token endpoint.
type TokenHandler struct {
	Grants  GrantIssuer
	Events  service.EventPublisher
	Metrics *metrics.Metrics
	Log     *zap.Logger
	Now     func() time.Time
}

func NewTokenHandler(g GrantIssuer, ev service.EventPublisher, m *metrics.Metrics, log *zap.Logger) *TokenHandler {
	if ev == nil {
		ev = service.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenHandler{Grants: g, Events: ev, Metrics: m, Log: log, Now: time.Now}
}

// tokenRequest accepts both form-encoded and JSON bodies.
type tokenRequest struct {
	GrantType    string `form:"grant_type" json:"grant_type"`
	ClientID     string `form:"client_id" json:"client_id"`
	ClientSecret string `form:"client_secret" json:"client_secret"`
	Username     string `form:"username" json:"username"`
	Password     string `form:"password" json:"password"`
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

type idRef struct {
	ID string `json:"id"`
}

// TokenResponse is returned by a successful grant.
type TokenResponse struct {
	AccessToken           string     `json:"access_token"`
	TokenType             string     `json:"token_type" example:"Bearer"`
	ExpiresIn             int64      `json:"expires_in" example:"3600"`
	AccessTokenExpiresAt  time.Time  `json:"access_token_expires_at"`
	RefreshToken          string     `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt *time.Time `json:"refresh_token_expires_at,omitempty"`
	Client                idRef      `json:"client"`
	User                  idRef      `json:"user"`
}

// Token issues tokens for the password, client_credentials and
// refresh_token grants.
//
//	@Summary	Issue an access token
//	@Tags		oauth
//	@Accept		x-www-form-urlencoded,json
//	@Produce	json
//	@Param		grant_type		formData	string	true	"password, client_credentials or refresh_token"
//	@Param		client_id		formData	string	true	"client id"
//	@Param		client_secret	formData	string	true	"client secret"
//	@Param		username		formData	string	false	"required for the password grant"
//	@Param		password		formData	string	false	"required for the password grant"
//	@Param		refresh_token	formData	string	false	"required for the refresh_token grant"
//	@Success	200				{object}	TokenResponse
//	@Failure	400				{object}	ErrorResponse
//	@Failure	401				{object}	ErrorResponse
//	@Router		/v1/oauth/token [post]
func (h *TokenHandler) Token(c echo.Context) error {
	grantLabel := "unknown"
	rec, err := h.token(c, &grantLabel)
	if err != nil {
		h.Metrics.ObserveGrant(grantLabel, string(apperror.KindOf(err)))
		return err
	}
	h.Metrics.ObserveGrant(grantLabel, metrics.ResultSuccess)
	h.Log.Debug("token issued",
		zap.String("client_id", rec.ClientID),
		zap.String("subject_id", rec.SubjectID),
		zap.String("grant_type", string(rec.GrantType)),
	)
	h.publish(rec)

	resp := TokenResponse{
		AccessToken:          rec.AccessToken,
		TokenType:            "Bearer",
		ExpiresIn:            int64(rec.AccessTokenExpiresAt.Sub(rec.IssuedAt) / time.Second),
		AccessTokenExpiresAt: rec.AccessTokenExpiresAt,
		Client:               idRef{ID: rec.ClientID},
		User:                 idRef{ID: rec.SubjectID},
	}
	if rec.HasRefresh() {
		exp := rec.RefreshTokenExpiresAt
		resp.RefreshToken = rec.RefreshToken
		resp.RefreshTokenExpiresAt = &exp
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	c.Response().Header().Set("Pragma", "no-cache")
	return c.JSON(http.StatusOK, resp)
}

func (h *TokenHandler) token(c echo.Context, grantLabel *string) (model.TokenRecord, error) {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return model.TokenRecord{}, apperror.Wrap(apperror.InvalidRequest, "malformed request body", err)
	}
	if req.GrantType == "" {
		return model.TokenRecord{}, apperror.New(apperror.InvalidRequest, "grant_type is required")
	}
	gt, ok := model.ParseGrantType(req.GrantType)
	if !ok {
		return model.TokenRecord{}, apperror.New(apperror.UnsupportedGrantType, "unsupported grant_type")
	}
	*grantLabel = string(gt)

	// HTTP Basic client authentication is accepted when the body has none.
	if req.ClientID == "" && req.ClientSecret == "" {
		if id, secret, ok := c.Request().BasicAuth(); ok {
			req.ClientID, req.ClientSecret = id, secret
		}
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		return model.TokenRecord{}, apperror.New(apperror.InvalidRequest, "client_id and client_secret are required")
	}

	var grant service.GrantRequest
	switch gt {
	case model.GrantPassword:
		if req.Username == "" || req.Password == "" {
			return model.TokenRecord{}, apperror.New(apperror.InvalidRequest, "username and password are required")
		}
		grant = service.PasswordGrant{Username: req.Username, Password: req.Password}
	case model.GrantClientCredentials:
		grant = service.ClientCredentialsGrant{}
	case model.GrantRefreshToken:
		if req.RefreshToken == "" {
			return model.TokenRecord{}, apperror.New(apperror.InvalidRequest, "refresh_token is required")
		}
		grant = service.RefreshTokenGrant{RefreshToken: req.RefreshToken}
	}

	rec, err := h.Grants.Process(service.ClientAuth{ID: req.ClientID, Secret: req.ClientSecret}, grant)
	if err != nil && gt == model.GrantRefreshToken {
		h.Log.Debug("refresh rejected",
			zap.String("client_id", req.ClientID),
			zap.String("refresh_token", logging.Redact(req.RefreshToken)),
			zap.Error(err),
		)
	}
	return rec, err
}

// publish sends lifecycle events in the background; a broker outage never
// fails or slows down a grant.
func (h *TokenHandler) publish(rec model.TokenRecord) {
	now := h.Now().UTC()
	events := make([]queue.TokenEvent, 0, 2)
	if rec.GrantType == model.GrantRefreshToken {
		events = append(events, queue.TokenEvent{
			Event:      queue.EventTokenRevoked,
			ClientID:   rec.ClientID,
			SubjectID:  rec.SubjectID,
			GrantType:  string(rec.GrantType),
			OccurredAt: now,
		})
	}
	events = append(events, queue.TokenEvent{
		Event:                queue.EventTokenIssued,
		ClientID:             rec.ClientID,
		SubjectID:            rec.SubjectID,
		GrantType:            string(rec.GrantType),
		AccessTokenExpiresAt: rec.AccessTokenExpiresAt,
		OccurredAt:           now,
	})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		for _, ev := range events {
			if err := h.Events.Publish(ctx, ev); err != nil {
				h.Log.Warn("publish token event", zap.String("event", ev.Event), zap.Error(err))
				return
			}
		}
	}()
}
