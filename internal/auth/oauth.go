package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"resty.dev/v3"

	"github.com/kuromaru/simplynote/internal/note"
)

const (
	// oauthRefreshLead is how far before the stored absolute expiry the
	// proactive refresh fires for the Drive backend.
	oauthRefreshLead = 5 * time.Minute

	googleAuthEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"
	driveScope         = "https://www.googleapis.com/auth/drive.file"
)

// OAuthStore persists the Drive backend's OAuth session: access token,
// absolute expiry computed at login from expires_in, and refresh token.
type OAuthStore interface {
	DriveAccessToken() (string, error)
	DriveRefreshToken() (string, error)
	DriveTokenExpiry() (time.Time, error)
	SetDriveAccessToken(token string, expiry time.Time) error
	SetDriveSession(access, refresh string, expiry time.Time) error
	ClearCredentials() error
}

// OAuthManager manages the OAuth2 authorization-code lifecycle for the
// Drive backend. Token exchanges go through a trusted relay endpoint so
// the client never holds the OAuth client secret.
type OAuthManager struct {
	store    OAuthStore
	clientID string
	relayURL string
	http     *resty.Client
	now      func() time.Time
}

var _ CredentialManager = (*OAuthManager)(nil)

// NewOAuthManager creates an OAuth2 authorization-code credential manager.
func NewOAuthManager(store OAuthStore, clientID, relayURL string) *OAuthManager {
	return &OAuthManager{
		store:    store,
		clientID: clientID,
		relayURL: relayURL,
		http:     resty.New(),
		now:      time.Now,
	}
}

// Close releases the underlying transport.
func (m *OAuthManager) Close() error {
	return m.http.Close()
}

// AuthURL builds the authorization-code consent URL. The state nonce ties
// the pasted code back to this login attempt.
func (m *OAuthManager) AuthURL(redirectURI string) (authURL, state string) {
	state = uuid.NewString()
	params := url.Values{
		"client_id":              {m.clientID},
		"redirect_uri":           {redirectURI},
		"response_type":          {"code"},
		"scope":                  {driveScope},
		"access_type":            {"offline"},
		"include_granted_scopes": {"true"},
		"state":                  {state},
	}
	return googleAuthEndpoint + "?" + params.Encode(), state
}

type relayTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (m *OAuthManager) relayExchange(ctx context.Context, form map[string]string) (relayTokenResponse, error) {
	var tokens relayTokenResponse
	res, err := m.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&tokens).
		Post(m.relayURL)
	if err != nil {
		return relayTokenResponse{}, fmt.Errorf("%w: %v", note.ErrTransport, err)
	}
	if res.StatusCode() == 401 || res.StatusCode() == 400 {
		return relayTokenResponse{}, note.ErrUnauthorized
	}
	if res.IsError() {
		return relayTokenResponse{}, fmt.Errorf("%w: relay status %d: %s", note.ErrTransport, res.StatusCode(), res.String())
	}
	if tokens.AccessToken == "" {
		return relayTokenResponse{}, fmt.Errorf("%w: relay returned no access token", note.ErrTransport)
	}
	return tokens, nil
}

// Exchange trades an authorization code for a token session and persists
// it, including the absolute expiry computed from expires_in.
func (m *OAuthManager) Exchange(ctx context.Context, code, redirectURI string) error {
	tokens, err := m.relayExchange(ctx, map[string]string{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": redirectURI,
	})
	if err != nil {
		return fmt.Errorf("authorization code exchange: %w", err)
	}
	expiry := m.now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	if err := m.store.SetDriveSession(tokens.AccessToken, tokens.RefreshToken, expiry); err != nil {
		return fmt.Errorf("store.SetDriveSession > %w", err)
	}
	return nil
}

// RefreshAccessToken exchanges the stored refresh token at the relay and
// persists the renewed access token. Without a refresh token the session
// cannot be renewed and the user must re-auth.
func (m *OAuthManager) RefreshAccessToken(ctx context.Context) (string, error) {
	refreshToken, err := m.store.DriveRefreshToken()
	if err != nil || refreshToken == "" {
		return "", fmt.Errorf("no drive refresh token: %w", note.ErrUnauthorized)
	}

	var access string
	err = retry.Do(
		func() error {
			tokens, err := m.relayExchange(ctx, map[string]string{
				"grant_type":    "refresh_token",
				"refresh_token": refreshToken,
			})
			if err != nil {
				if errors.Is(err, note.ErrTransport) {
					return err
				}
				return retry.Unrecoverable(err)
			}
			access = tokens.AccessToken
			expiry := m.now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
			if err := m.store.SetDriveAccessToken(access, expiry); err != nil {
				return retry.Unrecoverable(fmt.Errorf("store.SetDriveAccessToken > %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(refreshAttempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("refresh token exchange: %w", err)
	}
	return access, nil
}

// Refresh implements CredentialManager.
func (m *OAuthManager) Refresh(ctx context.Context) error {
	_, err := m.RefreshAccessToken(ctx)
	return err
}

// RefreshDelay schedules five minutes ahead of the stored absolute
// expiry, floored at five seconds. Without a refresh token proactive
// scheduling is disabled entirely: the token is either long-lived or the
// user re-auths manually.
func (m *OAuthManager) RefreshDelay() (time.Duration, bool) {
	if refreshToken, err := m.store.DriveRefreshToken(); err != nil || refreshToken == "" {
		return 0, false
	}
	expiry, err := m.store.DriveTokenExpiry()
	if err != nil || expiry.IsZero() {
		return 0, false
	}
	return scheduleDelay(expiry.Sub(m.now()), oauthRefreshLead), true
}

// ClearCredentials wipes the stored session.
func (m *OAuthManager) ClearCredentials() error {
	return m.store.ClearCredentials()
}
