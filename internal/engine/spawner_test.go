package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primeburn/internal/stats"
)

// stubChild mimics a short-lived child process without exec'ing anything.
func stubChild(cost time.Duration, ops uint64) ChildRunner {
	return func() (uint64, error) {
		time.Sleep(cost)
		return ops, nil
	}
}

func TestSpawnerAccumulatesPerCycle(t *testing.T) {
	var counter stats.Counter
	sp := newProcessSpawner(4, stubChild(time.Millisecond, 50), []opSink{&counter},
		stats.NewSafeHistogram(), zerolog.Nop(), nil)

	sp.Start()
	require.Eventually(t, func() bool { return counter.Load() >= 200 },
		2*time.Second, 5*time.Millisecond, "spawner never accumulated child counts")
	sp.Stop()

	// Multiple cycles per slot, each contributing exactly the child count.
	assert.Zero(t, counter.Load()%50, "counts must arrive in whole child units")
}

func TestSpawnerStopWaitsForInFlightChild(t *testing.T) {
	var counter stats.Counter
	const childCost = 150 * time.Millisecond
	sp := newProcessSpawner(1, stubChild(childCost, 10), []opSink{&counter},
		stats.NewSafeHistogram(), zerolog.Nop(), nil)

	sp.Start()
	time.Sleep(20 * time.Millisecond) // mid-flight

	start := time.Now()
	sp.Stop()
	waited := time.Since(start)

	// The in-flight child is never killed: Stop blocks until its cycle
	// ends, and its completed count is still attributed.
	assert.Greater(t, waited, 50*time.Millisecond, "Stop returned before the in-flight child finished")
	assert.Positive(t, counter.Load())

	settled := counter.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, counter.Load(), "spawning continued after Stop")
}

func TestSpawnerRetriesFailedSpawns(t *testing.T) {
	var counter stats.Counter
	var failures atomic.Int64

	failing := func() (uint64, error) {
		return 0, errors.New("fork: resource temporarily unavailable")
	}
	sp := newProcessSpawner(2, failing, []opSink{&counter},
		stats.NewSafeHistogram(), zerolog.Nop(), func() { failures.Add(1) })

	sp.Start()
	time.Sleep(350 * time.Millisecond)
	sp.Stop()

	// Each slot keeps retrying with backoff instead of crashing the loop.
	assert.GreaterOrEqual(t, failures.Load(), int64(4), "expected repeated backoff retries")
	assert.Zero(t, counter.Load(), "failed spawns must not count as operations")
}

func TestSpawnerQuiesceBound(t *testing.T) {
	sp := newProcessSpawner(1, stubChild(500*time.Millisecond, 1), nil,
		stats.NewSafeHistogram(), zerolog.Nop(), nil)
	sp.quiesceBound = 20 * time.Millisecond

	sp.Start()
	time.Sleep(10 * time.Millisecond)

	start := time.Now()
	sp.Stop()
	// Past the bound, Stop gives up waiting rather than blocking control.
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}
