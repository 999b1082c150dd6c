package stats

import "sync/atomic"

// Counter is a lock-free accumulator of completed workload operations.
// Workers of one generation add to it concurrently on their hot path; the
// sampler alone swaps it back to zero once per interval.
type Counter struct {
	v atomic.Uint64
}

func (c *Counter) Add(n uint64) {
	c.v.Add(n)
}

// Swap0 captures the current total and resets it to zero in one step.
func (c *Counter) Swap0() uint64 {
	return c.v.Swap(0)
}

func (c *Counter) Load() uint64 {
	return c.v.Load()
}
