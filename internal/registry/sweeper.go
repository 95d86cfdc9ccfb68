package registry

import (
	"time"

	"github.com/snaplinkhq/snaplink/internal/domain"
)

// Sweeper periodically purges expired records from a registry. Sweeps run
// on a single goroutine, so one pass always finishes before the next tick
// is handled.
type Sweeper struct {
	registry *Registry
	clock    domain.Clock
	interval time.Duration
	started  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSweeper returns a sweeper that cleans reg every interval. An
// interval of 0 disables sweeping.
func NewSweeper(reg *Registry, clock domain.Clock, interval time.Duration) *Sweeper {
	return &Sweeper{
		registry: reg,
		clock:    clock,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background ticker. Call Stop to end it.
func (s *Sweeper) Start() {
	if s.interval <= 0 {
		return
	}

	s.started = true
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		defer close(s.doneCh)
		for {
			select {
			case <-ticker.C:
				s.registry.CleanupExpired(s.clock.Now())
			case <-s.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the background ticker and waits for the current sweep,
// if any, to finish. Safe to call even when Start never ran.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	if s.started {
		<-s.doneCh
	}
}
