package poll

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relic-exchange/internal/session"
	"relic-exchange/internal/state"
)

func TestNoFetchesWithoutSession(t *testing.T) {
	sessions := session.NewStore()

	var mu sync.Mutex
	calls := 0
	fetch := func(ctx context.Context, r state.Resource) (interface{}, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil, nil
	}

	s := NewScheduler(5*time.Millisecond, sessions, fetch, zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, calls, "an inactive session polls nothing")
}

func TestResultsCarryGenerationAndValue(t *testing.T) {
	sessions := session.NewStore()
	gen := sessions.SetToken("tok")

	fetch := func(ctx context.Context, r state.Resource) (interface{}, error) {
		return string(r), nil
	}

	s := NewScheduler(5*time.Millisecond, sessions, fetch, zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	seen := map[state.Resource]bool{}
	deadline := time.After(2 * time.Second)
	for len(seen) < len(state.PolledResources) {
		select {
		case res := <-s.Results():
			require.NoError(t, res.Err)
			assert.Equal(t, gen, res.Generation)
			assert.Equal(t, string(res.Resource), res.Value)
			seen[res.Resource] = true
		case <-deadline:
			t.Fatalf("timed out; saw %d of %d resources", len(seen), len(state.PolledResources))
		}
	}
}

func TestInFlightFetchSkipsTicks(t *testing.T) {
	sessions := session.NewStore()
	sessions.SetToken("tok")

	release := make(chan struct{})
	var mu sync.Mutex
	started := map[state.Resource]int{}
	fetch := func(ctx context.Context, r state.Resource) (interface{}, error) {
		mu.Lock()
		started[r]++
		mu.Unlock()
		<-release
		return nil, nil
	}

	s := NewScheduler(5*time.Millisecond, sessions, fetch, zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// Many ticks pass while every fetch hangs; none may be issued twice.
	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	for r, n := range started {
		assert.Equal(t, 1, n, "resource %s fetched while previous fetch in flight", r)
	}
	mu.Unlock()

	close(release)

	// Once the hung fetches complete, polling resumes.
	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		resumed := started[state.ResourceAccount] > 1
		mu.Unlock()
		if resumed {
			break
		}
		select {
		case <-s.Results():
		case <-deadline:
			t.Fatal("polling never resumed after fetches completed")
		case <-time.After(time.Millisecond):
		}
	}
}
