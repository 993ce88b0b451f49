// Package poll drives the fixed-interval fetch loop. One tick issues one
// asynchronous fetch per tracked resource while a session is active; a
// resource whose previous fetch is still in flight skips the tick rather than
// queueing behind it.
package poll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"relic-exchange/internal/session"
	"relic-exchange/internal/state"
)

// Fetch performs one fetch of one resource and returns its snapshot value.
type Fetch func(ctx context.Context, r state.Resource) (interface{}, error)

// Scheduler owns the poll cadence. Results are delivered on a channel for the
// controller goroutine to reconcile; the scheduler itself never touches the
// view model.
type Scheduler struct {
	interval time.Duration
	sessions *session.Store
	fetch    Fetch
	results  chan state.Result
	log      *zap.SugaredLogger

	mu       sync.Mutex
	inFlight map[state.Resource]bool
}

// NewScheduler creates a scheduler ticking at interval.
func NewScheduler(interval time.Duration, sessions *session.Store, fetch Fetch, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		interval: interval,
		sessions: sessions,
		fetch:    fetch,
		results:  make(chan state.Result, len(state.PolledResources)*2),
		log:      log,
	}
}

// Results is the stream of completed fetches, successes and failures alike.
func (s *Scheduler) Results() <-chan state.Result {
	return s.results
}

// Run ticks until ctx is cancelled. In-flight fetches are not cancelled on
// logout; their results carry the generation they were issued under and the
// reconciler drops the stale ones.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.sessions.Active() {
				continue
			}
			generation := s.sessions.Generation()
			for _, r := range state.PolledResources {
				s.dispatch(ctx, r, generation)
			}
		}
	}
}

// dispatch launches one fetch unless the previous one for this resource has
// not completed yet.
func (s *Scheduler) dispatch(ctx context.Context, r state.Resource, generation uint64) {
	s.mu.Lock()
	if s.inFlight == nil {
		s.inFlight = make(map[state.Resource]bool)
	}
	if s.inFlight[r] {
		s.mu.Unlock()
		s.log.Debugw("tick skipped, fetch in flight", "resource", r)
		return
	}
	s.inFlight[r] = true
	s.mu.Unlock()

	go func() {
		value, err := s.fetch(ctx, r)

		s.mu.Lock()
		s.inFlight[r] = false
		s.mu.Unlock()

		select {
		case s.results <- state.Result{Resource: r, Generation: generation, Value: value, Err: err}:
		case <-ctx.Done():
		}
	}()
}
