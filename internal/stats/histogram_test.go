package stats

import "testing"

func TestSafeHistogramSummary(t *testing.T) {
	h := NewSafeHistogram()
	for v := int64(1000); v <= 10000; v += 1000 {
		if err := h.RecordValue(v); err != nil {
			t.Fatalf("RecordValue(%d): %v", v, err)
		}
	}

	s := h.Summary()
	if s.Count != 10 {
		t.Fatalf("Count = %d, want 10", s.Count)
	}
	if s.P50Ms <= 0 || s.P50Ms > s.P99Ms || s.P99Ms > s.MaxMs {
		t.Errorf("percentiles out of order: p50=%.2f p99=%.2f max=%.2f", s.P50Ms, s.P99Ms, s.MaxMs)
	}

	h.Reset()
	if got := h.TotalCount(); got != 0 {
		t.Fatalf("TotalCount after Reset = %d, want 0", got)
	}
}
