package stats

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSampleInterval is the period of the throughput sampler.
const DefaultSampleInterval = time.Second

// Sampler periodically swaps the live counter and publishes throughput
// samples. It runs for the whole process lifetime regardless of run state,
// so a stopped generator publishes 0 after one idle interval rather than a
// stale reading.
type Sampler struct {
	collector *Collector
	interval  time.Duration
	log       zerolog.Logger

	// Observe, when set, receives every published sample pair plus the raw
	// op count of the interval. Used to feed prometheus gauges.
	Observe func(all, burst PerfSample, intervalOps uint64)
}

func NewSampler(collector *Collector, interval time.Duration, log zerolog.Logger) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Sampler{
		collector: collector,
		interval:  interval,
		log:       log.With().Str("component", "sampler").Logger(),
	}
}

// Run blocks until ctx is cancelled, ticking once per interval. The ticker
// fires relative to wall clock so drift does not accumulate; elapsed time is
// still measured per tick to keep the ops/sec division honest under delay.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("sampler stopped")
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			if elapsed <= 0 {
				elapsed = s.interval.Seconds()
			}
			last = now

			counter, meter := s.collector.Live()
			ops := counter.Swap0()

			all := PerfSample{
				OpsPerSecond: uint64(float64(ops) / elapsed),
				Timestamp:    now,
			}
			burst := PerfSample{
				OpsPerSecond: meter.Throughput(),
				Timestamp:    now,
			}
			s.collector.publish(all, burst)

			if s.Observe != nil {
				s.Observe(all, burst, ops)
			}
		}
	}
}
