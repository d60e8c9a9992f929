// Package auth unifies the two credential lifecycles (bearer/refresh-token
// JWT for the API backend, OAuth2 authorization-code for Drive) behind one
// refresh contract, and provides the retry-once repository decorator.
package auth

import (
	"context"
	"time"
)

// minRefreshDelay floors every proactive schedule so a nearly expired
// token still gets one refresh attempt instead of a zero-delay spin.
const minRefreshDelay = 5 * time.Second

// CredentialManager is the polymorphic capability over one credential
// lifecycle. The scheduler and the CLI depend only on this interface.
type CredentialManager interface {
	// Refresh renews the access credential reactively.
	Refresh(ctx context.Context) error

	// RefreshDelay returns how long to wait before the next proactive
	// refresh. ok is false when proactive scheduling is disabled, e.g.
	// no credential is stored or no refresh token exists.
	RefreshDelay() (delay time.Duration, ok bool)

	// ClearCredentials wipes every stored credential for both flows.
	ClearCredentials() error
}

// scheduleDelay turns a time-to-expiry and a lead window into a proactive
// refresh delay, floored at minRefreshDelay.
func scheduleDelay(untilExpiry, lead time.Duration) time.Duration {
	delay := untilExpiry - lead
	if delay < minRefreshDelay {
		return minRefreshDelay
	}
	return delay
}
