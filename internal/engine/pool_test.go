package engine

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primeburn/internal/stats"
)

func TestWorkerPoolProducesOps(t *testing.T) {
	var counter stats.Counter
	hist := stats.NewSafeHistogram()
	p := newWorkerPool(2, 200, &counter, hist, zerolog.Nop())

	p.Start()
	require.Eventually(t, func() bool { return counter.Load() > 0 },
		2*time.Second, 5*time.Millisecond, "pool never incremented the counter")
	p.Stop()

	assert.Positive(t, hist.TotalCount(), "unit durations should be recorded")
}

func TestWorkerPoolStopQuiesces(t *testing.T) {
	var counter stats.Counter
	p := newWorkerPool(4, 200, &counter, stats.NewSafeHistogram(), zerolog.Nop())

	p.Start()
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	p.Stop()
	// Stop latency is bounded by one tiny unit per worker.
	assert.Less(t, time.Since(start), time.Second, "stop took too long")

	// After Stop returns no worker may still be incrementing.
	settled := counter.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, counter.Load(), "increments after Stop returned")
}
