package stats

import (
	"sync/atomic"
	"time"
)

// PerfSample is the externally visible throughput reading. It is
// overwritten every sampling interval; last write wins, no history.
type PerfSample struct {
	OpsPerSecond uint64    `json:"ops_per_second"`
	Timestamp    time.Time `json:"timestamp"`
}

// Collector owns the live counters and histogram for the current generation
// and the latest published samples. The controller installs fresh instances
// on every transition; workers from a superseded generation keep a reference
// to the old ones, so their late writes land in instances no query ever reads.
type Collector struct {
	counter atomic.Pointer[Counter]
	burst   atomic.Pointer[BurstMeter]
	hist    atomic.Pointer[SafeHistogram]

	sample      atomic.Pointer[PerfSample]
	burstSample atomic.Pointer[PerfSample]
}

func NewCollector() *Collector {
	c := &Collector{}
	c.counter.Store(&Counter{})
	c.burst.Store(&BurstMeter{})
	c.hist.Store(NewSafeHistogram())
	zero := &PerfSample{Timestamp: time.Now()}
	c.sample.Store(zero)
	c.burstSample.Store(zero)
	return c
}

// Attach installs and returns fresh counters and a fresh histogram for a new
// generation.
func (c *Collector) Attach() (*Counter, *BurstMeter, *SafeHistogram) {
	ctr := &Counter{}
	bm := &BurstMeter{}
	h := NewSafeHistogram()
	c.counter.Store(ctr)
	c.burst.Store(bm)
	c.hist.Store(h)
	return ctr, bm, h
}

// Histogram returns the current generation's unit-duration histogram.
func (c *Collector) Histogram() *SafeHistogram {
	return c.hist.Load()
}

// Live returns the counters currently being sampled.
func (c *Collector) Live() (*Counter, *BurstMeter) {
	return c.counter.Load(), c.burst.Load()
}

// Sample returns the latest all-mode throughput sample. Valid in any run
// state; decays to zero within one interval of the load stopping.
func (c *Collector) Sample() PerfSample {
	return *c.sample.Load()
}

// BurstSample returns the latest burst-scoped throughput sample. Reads as
// zero outside bursty mode.
func (c *Collector) BurstSample() PerfSample {
	return *c.burstSample.Load()
}

func (c *Collector) publish(all, burst PerfSample) {
	c.sample.Store(&all)
	c.burstSample.Store(&burst)
}
