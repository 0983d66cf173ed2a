package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/riisdev/updatebot/internal/source"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Scheduler drives the recurring fan-out over all configured sources. An
// immediate tick runs at start, then one per interval. Ticks are
// fire-and-continue: a new tick may begin while a slow one is still in
// flight. That overlap is safe because each pipeline re-reads the latest
// persisted row and the decision is idempotent.
type Scheduler struct {
	pipeline *Pipeline
	sources  []source.Source
	interval time.Duration
	maxConc  int
	logger   zerolog.Logger

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	active     bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(pipeline *Pipeline, sources []source.Source, interval time.Duration, maxConcurrent int, logger zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Scheduler{
		pipeline:   pipeline,
		sources:    sources,
		interval:   interval,
		maxConc:    maxConcurrent,
		logger:     logger.With().Str("component", "Scheduler").Logger(),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start begins the scheduler loop. It returns immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		s.logger.Warn().Msg("Scheduler already active")
		return
	}
	s.active = true
	s.mu.Unlock()

	s.logger.Info().
		Dur("interval", s.interval).
		Int("sources", len(s.sources)).
		Int("max_concurrent", s.maxConc).
		Msg("Starting scheduler")

	// Initial tick at process start, in addition to the timer cadence.
	s.dispatchTick()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info().Msg("Scheduler loop stopping")
				return
			case <-ticker.C:
				s.dispatchTick()
			}
		}
	}()
}

// dispatchTick launches one concurrent batch over all sources and returns
// without waiting for it.
func (s *Scheduler) dispatchTick() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunTick(s.ctx)
	}()
}

// RunTick runs every configured source through the pipeline with bounded
// concurrency and waits for the batch to complete. Pipelines handle their
// own failures, so one bad source never blocks or aborts its siblings.
func (s *Scheduler) RunTick(ctx context.Context) {
	start := time.Now()
	s.logger.Debug().Msg("Tick started")

	group := new(errgroup.Group)
	group.SetLimit(s.maxConc)
	for _, src := range s.sources {
		src := src
		group.Go(func() error {
			s.pipeline.Run(ctx, src)
			return nil
		})
	}
	_ = group.Wait()

	s.logger.Debug().Dur("elapsed", time.Since(start)).Msg("Tick completed")
}

// Stop cancels the scheduler loop and waits for in-flight ticks to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping scheduler")
	s.cancelFunc()
	s.wg.Wait()
	s.logger.Info().Msg("Scheduler stopped")
}
