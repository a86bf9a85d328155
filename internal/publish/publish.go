package publish

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Destination is the interface for a publish target (file, S3, git).
type Destination interface {
	// Write sends the rendered graph document to the destination.
	Write(ctx context.Context, data []byte) error
}

// BuildFunc produces a fresh graph document. Watch mode rebuilds from the
// tracker on every tick rather than re-sending a stale document.
type BuildFunc func(ctx context.Context) ([]byte, error)

// Scheduler periodically rebuilds the graph and fans it out to one or more
// destinations.
type Scheduler struct {
	build        BuildFunc
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that rebuilds via build and publishes to
// the given destinations at the specified interval.
func NewScheduler(build BuildFunc, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		build:        build,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic publishing. It runs an initial build immediately,
// then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current publish (if any) to
// finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	// Run once immediately at startup.
	s.publishOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.publishOnce(ctx)
		}
	}
}

func (s *Scheduler) publishOnce(ctx context.Context) {
	data, err := s.build(ctx)
	if err != nil {
		// An incomplete graph is worse than a stale one; destinations
		// keep whatever the last good build produced.
		s.logger.Error("graph build failed", "err", err)
		return
	}

	for i, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("publish destination write failed", "destination", fmt.Sprintf("%d", i), "err", err)
		}
	}

	s.logger.Info("publish completed", "destinations", len(s.destinations), "bytes", len(data))
}
