package auth

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuromaru/simplynote/internal/note"
)

// stubManager is a CredentialManager with scripted behavior.
type stubManager struct {
	delay       time.Duration
	schedulable bool
	refreshErr  error

	refreshes atomic.Int32
	cleared   atomic.Bool
}

func (m *stubManager) Refresh(ctx context.Context) error {
	m.refreshes.Add(1)
	return m.refreshErr
}

func (m *stubManager) RefreshDelay() (time.Duration, bool) {
	return m.delay, m.schedulable
}

func (m *stubManager) ClearCredentials() error {
	m.cleared.Store(true)
	return nil
}

func TestSchedulerRefreshesAndReschedules(t *testing.T) {
	manager := &stubManager{delay: 5 * time.Millisecond, schedulable: true}
	scheduler := NewScheduler(manager, nil, nil)
	t.Cleanup(scheduler.Stop)

	scheduler.Start(context.Background())

	// A successful refresh reschedules, so the count keeps rising.
	require.Eventually(t, func() bool {
		return manager.refreshes.Load() >= 2
	}, time.Second, time.Millisecond)
	assert.False(t, manager.cleared.Load())
}

func TestSchedulerFailureForcesLogout(t *testing.T) {
	manager := &stubManager{
		delay:       5 * time.Millisecond,
		schedulable: true,
		refreshErr:  note.ErrUnauthorized,
	}
	var loggedOut atomic.Bool
	scheduler := NewScheduler(manager, func() { loggedOut.Store(true) }, nil)
	t.Cleanup(scheduler.Stop)

	scheduler.Start(context.Background())

	require.Eventually(t, func() bool {
		return loggedOut.Load()
	}, time.Second, time.Millisecond)
	assert.True(t, manager.cleared.Load())
	// A failed refresh must not reschedule.
	assert.Equal(t, int32(1), manager.refreshes.Load())
}

func TestSchedulerUnschedulableManagerNeverFires(t *testing.T) {
	manager := &stubManager{schedulable: false}
	scheduler := NewScheduler(manager, nil, nil)
	t.Cleanup(scheduler.Stop)

	scheduler.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, manager.refreshes.Load())
}

func TestSchedulerStopCancelsPendingRefresh(t *testing.T) {
	manager := &stubManager{delay: 50 * time.Millisecond, schedulable: true}
	scheduler := NewScheduler(manager, nil, nil)

	scheduler.Start(context.Background())
	scheduler.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, manager.refreshes.Load())
}
