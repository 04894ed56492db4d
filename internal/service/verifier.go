package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/siren-services/internal/apperror"
	"github.com/iliyamo/siren-services/internal/model"
)

// DefaultVerifyTimeout bounds one verification round trip.
const DefaultVerifyTimeout = 5 * time.Second

// SecurePath is the issuer endpoint that resolves a bearer token.
const SecurePath = "/v1/secure"

// SecureResponse is the body the issuer returns for a valid token.
type SecureResponse struct {
	Message              string    `json:"message"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
	Client               struct {
		ID string `json:"id"`
	} `json:"client"`
	User struct {
		ID string `json:"id"`
	} `json:"user"`
}

type errorBody struct {
	Error string `json:"error"`
}

// RemoteVerifier resolves bearer tokens by calling the issuing service. It
// performs one network round trip per call and caches nothing.
type RemoteVerifier struct {
	baseURL string
	client  *http.Client
}

// NewRemoteVerifier returns a verifier for the issuer at baseURL. A zero
// timeout selects DefaultVerifyTimeout.
func NewRemoteVerifier(baseURL string, timeout time.Duration) *RemoteVerifier {
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	return &RemoteVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Verify asks the issuer to resolve token. Rejections from the issuer keep
// their error kind; transport failures and unexpected answers are reported
// as verification_unavailable.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (model.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+SecurePath, nil)
	if err != nil {
		return model.Identity{}, apperror.Wrap(apperror.VerificationUnavailable, "token verification failed", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return model.Identity{}, apperror.Wrap(apperror.VerificationUnavailable, "token verification failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return model.Identity{}, apperror.Wrap(apperror.VerificationUnavailable, "token verification failed", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var sr SecureResponse
		if err := json.Unmarshal(body, &sr); err != nil || sr.Client.ID == "" {
			return model.Identity{}, apperror.Wrap(apperror.VerificationUnavailable,
				"token verification failed", fmt.Errorf("decode issuer response: %v", err))
		}
		return model.Identity{
			ClientID:  sr.Client.ID,
			SubjectID: sr.User.ID,
			ExpiresAt: sr.AccessTokenExpiresAt,
		}, nil
	case http.StatusUnauthorized:
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		switch kind := apperror.Kind(eb.Error); kind {
		case apperror.MissingToken, apperror.ExpiredToken:
			return model.Identity{}, apperror.New(kind, "")
		default:
			return model.Identity{}, apperror.New(apperror.InvalidToken, "")
		}
	default:
		return model.Identity{}, apperror.Wrap(apperror.VerificationUnavailable,
			"token verification failed", fmt.Errorf("issuer answered %d", resp.StatusCode))
	}
}
