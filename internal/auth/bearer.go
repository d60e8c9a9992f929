package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kuromaru/simplynote/internal/note"
)

// bearerRefreshLead is how far before the decoded expiry the proactive
// refresh fires for the API backend's JWT.
const bearerRefreshLead = time.Minute

// refreshAttempts bounds transient-transport retries of a single refresh
// exchange. Auth failures are never retried.
const refreshAttempts = 3

// BearerStore persists the API backend's token pair.
type BearerStore interface {
	AccessToken() (string, error)
	ClearCredentials() error
}

// BearerManager manages the bearer/refresh-token JWT lifecycle. The
// token's expiry claim is decoded locally, without a server round-trip,
// so scheduling needs no extra request.
type BearerManager struct {
	store    BearerStore
	exchange func(ctx context.Context) (string, error)
	now      func() time.Time
}

var _ CredentialManager = (*BearerManager)(nil)

// NewBearerManager creates a bearer-JWT credential manager. exchange
// performs the actual refresh call and persists the renewed token; the
// API repository's RefreshToken satisfies it.
func NewBearerManager(store BearerStore, exchange func(ctx context.Context) (string, error)) *BearerManager {
	return &BearerManager{store: store, exchange: exchange, now: time.Now}
}

// Refresh renews the access token, retrying transient transport failures
// only.
func (m *BearerManager) Refresh(ctx context.Context) error {
	err := retry.Do(
		func() error {
			if _, err := m.exchange(ctx); err != nil {
				if errors.Is(err, note.ErrTransport) {
					return err
				}
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(refreshAttempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("bearer refresh: %w", err)
	}
	return nil
}

// RefreshDelay decodes the stored token's exp claim and schedules the
// refresh one minute ahead of it, floored at five seconds. A missing or
// undecodable token disables proactive scheduling.
func (m *BearerManager) RefreshDelay() (time.Duration, bool) {
	token, err := m.store.AccessToken()
	if err != nil || token == "" {
		return 0, false
	}
	expiry, err := decodeExpiry(token)
	if err != nil {
		return 0, false
	}
	return scheduleDelay(expiry.Sub(m.now()), bearerRefreshLead), true
}

// ClearCredentials wipes the stored tokens.
func (m *BearerManager) ClearCredentials() error {
	return m.store.ClearCredentials()
}

// decodeExpiry reads the exp claim without verifying the signature. The
// client only schedules from it; the server remains the authority on
// whether the token is actually valid.
func decodeExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("jwt.ParseUnverified > %w", err)
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, fmt.Errorf("token has no exp claim")
	}
	return expiry.Time, nil
}
