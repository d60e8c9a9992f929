package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler keeps credentials fresh ahead of expiry. After Start it asks
// the manager for the next refresh delay, sleeps, refreshes, and
// reschedules from the new expiry. A manager that cannot schedule (no
// decodable expiry, no refresh token) simply never fires proactively; the
// reactive retry path still covers those sessions.
type Scheduler struct {
	manager  CredentialManager
	onLogout func()
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

func NewScheduler(manager CredentialManager, onLogout func(), logger *slog.Logger) *Scheduler {
	if onLogout == nil {
		onLogout = func() {}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{manager: manager, onLogout: onLogout, logger: logger}
}

// Start arms the first timer. Safe to call again after a login to pick up
// the new credential's expiry.
func (s *Scheduler) Start(ctx context.Context) {
	s.schedule(ctx)
}

// Stop cancels any pending refresh. The scheduler cannot be restarted
// after Stop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) schedule(ctx context.Context) {
	delay, ok := s.manager.RefreshDelay()
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.logger.Debug("scheduled credential refresh", "delay", delay)
	s.timer = time.AfterFunc(delay, func() {
		s.fire(ctx)
	})
}

func (s *Scheduler) fire(ctx context.Context) {
	if err := s.manager.Refresh(ctx); err != nil {
		s.logger.Warn("scheduled credential refresh failed", "error", err)
		if clearErr := s.manager.ClearCredentials(); clearErr != nil {
			s.logger.Warn("clear credentials failed", "error", clearErr)
		}
		s.onLogout()
		return
	}
	s.schedule(ctx)
}
