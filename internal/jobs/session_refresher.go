package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/forgo/taskflow/internal/service"
)

// SessionToucher refreshes the stored profile's last-login stamp once it is
// older than staleAfter. It reports whether a write happened.
type SessionToucher interface {
	RefreshIfStale(ctx context.Context, staleAfter time.Duration) (bool, error)
}

// SessionRefresherConfig holds configuration for the session refresher
type SessionRefresherConfig struct {
	Profiles     SessionToucher
	Interval     time.Duration
	StaleAfter   time.Duration
	InitialDelay time.Duration
	Logger       *slog.Logger
}

// SessionRefresher keeps LastLogin current while a long-running session
// (the HTTP server) is up
// - Checks the profile every Interval
// - Rewrites LastLogin when it is older than StaleAfter
// - A missing profile is not an error; the user simply hasn't signed up
type SessionRefresher struct {
	profiles     SessionToucher
	interval     time.Duration
	staleAfter   time.Duration
	initialDelay time.Duration
	logger       *slog.Logger
	stopCh       chan struct{}
	wg           sync.WaitGroup
	running      bool
	mu           sync.Mutex
}

// NewSessionRefresher creates a new session refresher job
func NewSessionRefresher(cfg SessionRefresherConfig) *SessionRefresher {
	if cfg.Interval == 0 {
		cfg.Interval = 1 * time.Minute // Default check every minute
	}
	if cfg.StaleAfter == 0 {
		cfg.StaleAfter = 1 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &SessionRefresher{
		profiles:     cfg.Profiles,
		interval:     cfg.Interval,
		staleAfter:   cfg.StaleAfter,
		initialDelay: cfg.InitialDelay,
		logger:       cfg.Logger.With("job", "session_refresher"),
		stopCh:       make(chan struct{}),
	}
}

// Start begins the session refresher job
func (r *SessionRefresher) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run()
	r.logger.Info("session refresher started", "interval", r.interval, "stale_after", r.staleAfter)
}

// Stop gracefully stops the session refresher job
func (r *SessionRefresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	r.wg.Wait()
	r.logger.Info("session refresher stopped")
}

// run is the main loop
func (r *SessionRefresher) run() {
	defer r.wg.Done()

	if r.initialDelay > 0 {
		select {
		case <-time.After(r.initialDelay):
		case <-r.stopCh:
			return
		}
	}
	r.refresh()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh()
		case <-r.stopCh:
			return
		}
	}
}

func (r *SessionRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.RunOnce(ctx); err != nil {
		r.logger.Warn("session refresh failed", "error", err)
	}
}

// RunOnce runs a single refresh (for testing or manual trigger)
func (r *SessionRefresher) RunOnce(ctx context.Context) error {
	touched, err := r.profiles.RefreshIfStale(ctx, r.staleAfter)
	if errors.Is(err, service.ErrProfileNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if touched {
		r.logger.Debug("last login refreshed")
	}
	return nil
}

// IsRunning returns whether the refresher is running
func (r *SessionRefresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
