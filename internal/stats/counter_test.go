package stats

import (
	"sync"
	"testing"
)

func TestCounterConcurrentAdds(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	const goroutines = 16
	const addsPerGoroutine = 10000

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < addsPerGoroutine; j++ {
				c.Add(3)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * addsPerGoroutine * 3)
	if got := c.Load(); got != want {
		t.Fatalf("lost updates: got %d, want %d", got, want)
	}
}

func TestCounterSwap0(t *testing.T) {
	var c Counter
	c.Add(42)

	if got := c.Swap0(); got != 42 {
		t.Fatalf("Swap0 = %d, want 42", got)
	}
	if got := c.Load(); got != 0 {
		t.Fatalf("counter not reset after Swap0: %d", got)
	}
	if got := c.Swap0(); got != 0 {
		t.Fatalf("second Swap0 = %d, want 0", got)
	}
}

func TestCollectorAttachDiscardsStaleWrites(t *testing.T) {
	col := NewCollector()

	old, oldMeter, oldHist := col.Attach()
	old.Add(100)
	oldMeter.Add(100)
	if err := oldHist.RecordValue(5000); err != nil {
		t.Fatalf("RecordValue: %v", err)
	}

	// New generation: stale workers still hold the old instances.
	fresh, _, _ := col.Attach()
	old.Add(999)
	oldMeter.Add(999)
	if err := oldHist.RecordValue(9000); err != nil {
		t.Fatalf("RecordValue: %v", err)
	}

	live, liveMeter := col.Live()
	if live != fresh {
		t.Fatal("Live() did not return the freshly attached counter")
	}
	if got := live.Load(); got != 0 {
		t.Fatalf("stale increments leaked into new generation: %d", got)
	}
	if ops, _ := liveMeter.Snapshot(); ops != 0 {
		t.Fatalf("stale burst ops leaked into new generation: %d", ops)
	}
	if got := col.Histogram().TotalCount(); got != 0 {
		t.Fatalf("stale durations leaked into new generation's histogram: %d", got)
	}
}
