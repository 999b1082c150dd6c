package stats

import (
	"sync/atomic"
	"time"
)

// BurstMeter accumulates operations completed during burst windows and the
// cumulative burst-window wall-clock time. The burst-scoped throughput is
// total burst ops divided by total burst time, not by total elapsed time,
// so idle windows do not dilute it.
type BurstMeter struct {
	ops       atomic.Uint64
	burstNano atomic.Int64
}

// Add records ops completed during a burst window. Satisfies the same sink
// shape as Counter so a spawner can feed both.
func (m *BurstMeter) Add(n uint64) {
	m.ops.Add(n)
}

// AddBurstTime records the actual wall-clock length of a finished burst window.
func (m *BurstMeter) AddBurstTime(d time.Duration) {
	if d > 0 {
		m.burstNano.Add(int64(d))
	}
}

func (m *BurstMeter) Snapshot() (ops uint64, burst time.Duration) {
	return m.ops.Load(), time.Duration(m.burstNano.Load())
}

// Throughput returns cumulative burst ops per second of burst time, or 0
// before any burst window has completed.
func (m *BurstMeter) Throughput() uint64 {
	ops, burst := m.Snapshot()
	if burst <= 0 {
		return 0
	}
	return uint64(float64(ops) / burst.Seconds())
}
