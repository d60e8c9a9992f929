package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuromaru/simplynote/internal/note"
	"github.com/kuromaru/simplynote/internal/testutil"
)

type memoryBearerStore struct {
	token   string
	cleared bool
}

func (s *memoryBearerStore) AccessToken() (string, error) {
	return s.token, nil
}

func (s *memoryBearerStore) ClearCredentials() error {
	s.cleared = true
	return nil
}

func TestBearerManagerRefreshDelay(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		token     func(t *testing.T) string
		wantDelay time.Duration
		wantOK    bool
	}{
		{
			name: "one minute lead before expiry",
			token: func(t *testing.T) string {
				return testutil.SignedJWT(t, now.Add(10*time.Minute))
			},
			wantDelay: 9 * time.Minute,
			wantOK:    true,
		},
		{
			name: "nearly expired token is floored",
			token: func(t *testing.T) string {
				return testutil.SignedJWT(t, now.Add(30*time.Second))
			},
			wantDelay: 5 * time.Second,
			wantOK:    true,
		},
		{
			name: "already expired token is floored",
			token: func(t *testing.T) string {
				return testutil.SignedJWT(t, now.Add(-time.Hour))
			},
			wantDelay: 5 * time.Second,
			wantOK:    true,
		},
		{
			name:  "missing token disables scheduling",
			token: func(t *testing.T) string { return "" },
		},
		{
			name:  "undecodable token disables scheduling",
			token: func(t *testing.T) string { return "not-a-jwt" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryBearerStore{token: tt.token(t)}
			manager := NewBearerManager(store, nil)
			manager.now = func() time.Time { return now }

			delay, ok := manager.RefreshDelay()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantDelay, delay)
			}
		})
	}
}

func TestBearerManagerRefresh(t *testing.T) {
	tests := []struct {
		name          string
		exchangeErrs  []error
		wantCalls     int
		wantErr       error
	}{
		{
			name:         "success on first attempt",
			exchangeErrs: []error{nil},
			wantCalls:    1,
		},
		{
			name:         "transient transport failures are retried",
			exchangeErrs: []error{note.ErrTransport, note.ErrTransport, nil},
			wantCalls:    3,
		},
		{
			name:         "auth failure is not retried",
			exchangeErrs: []error{note.ErrUnauthorized},
			wantCalls:    1,
			wantErr:      note.ErrUnauthorized,
		},
		{
			name:         "persistent transport failure exhausts attempts",
			exchangeErrs: []error{note.ErrTransport, note.ErrTransport, note.ErrTransport},
			wantCalls:    3,
			wantErr:      note.ErrTransport,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			exchange := func(ctx context.Context) (string, error) {
				err := tt.exchangeErrs[calls]
				calls++
				if err != nil {
					return "", fmt.Errorf("exchange: %w", err)
				}
				return "token-2", nil
			}

			manager := NewBearerManager(&memoryBearerStore{token: "x"}, exchange)
			err := manager.Refresh(context.Background())
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBearerManagerClearCredentials(t *testing.T) {
	store := &memoryBearerStore{token: "x"}
	manager := NewBearerManager(store, nil)
	require.NoError(t, manager.ClearCredentials())
	assert.True(t, store.cleared)
}
