package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/store"
)

// DefaultTokenRetention is how long an expired token stays on its user
// before housekeeping clears it.
const DefaultTokenRetention = 24 * time.Hour

// HousekeepingService periodically clears tokens that expired longer than
// Retention ago, freeing them from the unique token index.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// Now is the clock; nil means time.Now.
	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour and a non-positive retention to
// DefaultTokenRetention.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultTokenRetention
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs cleanup now and then every Interval until Stop is called.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("retention", s.Retention))
}

// Stop shuts down the worker and waits for an in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	n, err := s.Cleanup(context.Background())
	if err != nil {
		s.Logger.Error("failed to clear expired tokens", slog.Any("error", err))
		return
	}
	s.Logger.Info("housekeeping cleanup completed", slog.Int64("tokens_cleared", n))
}

// Cleanup clears tokens that expired before now minus Retention and returns
// how many were cleared.
func (s *HousekeepingService) Cleanup(ctx context.Context) (int64, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return s.Store.Users().ClearExpiredTokens(ctx, now.Add(-s.Retention))
}
