package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// SafeHistogram is a thread-safe wrapper around hdrhistogram, tracking
// workload-unit durations in microseconds. It is off the workers' hot path:
// one record per completed unit, not per candidate tested.
type SafeHistogram struct {
	hist *hdrhistogram.Histogram
	mu   sync.Mutex
}

func NewSafeHistogram() *SafeHistogram {
	// 1us to 1min, 3 significant figures
	h := hdrhistogram.New(1, int64(time.Minute/time.Microsecond), 3)
	return &SafeHistogram{hist: h}
}

// RecordValue records a unit duration in microseconds.
func (h *SafeHistogram) RecordValue(v int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.RecordValue(v)
}

func (h *SafeHistogram) ValueAtQuantile(q float64) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.ValueAtQuantile(q)
}

func (h *SafeHistogram) Mean() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.Mean()
}

func (h *SafeHistogram) Max() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.Max()
}

func (h *SafeHistogram) TotalCount() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.TotalCount()
}

// Reset clears all recorded values.
func (h *SafeHistogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hist.Reset()
}

// UnitDurations is a point-in-time percentile summary in milliseconds.
type UnitDurations struct {
	Count  int64   `json:"count"`
	P50Ms  float64 `json:"p50_ms"`
	P90Ms  float64 `json:"p90_ms"`
	P99Ms  float64 `json:"p99_ms"`
	MaxMs  float64 `json:"max_ms"`
	MeanMs float64 `json:"mean_ms"`
}

func (h *SafeHistogram) Summary() UnitDurations {
	h.mu.Lock()
	defer h.mu.Unlock()
	return UnitDurations{
		Count:  h.hist.TotalCount(),
		P50Ms:  float64(h.hist.ValueAtQuantile(50)) / 1000.0,
		P90Ms:  float64(h.hist.ValueAtQuantile(90)) / 1000.0,
		P99Ms:  float64(h.hist.ValueAtQuantile(99)) / 1000.0,
		MaxMs:  float64(h.hist.Max()) / 1000.0,
		MeanMs: h.hist.Mean() / 1000.0,
	}
}
