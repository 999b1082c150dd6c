package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"primeburn/internal/stats"
	"primeburn/internal/workload"
)

// loadSource is the capability set every execution strategy exposes to the
// controller: start the run loops, stop and quiesce.
type loadSource interface {
	Start()
	Stop()
}

// workerPool drives threaded mode: one long-running goroutine per core
// slot, each looping workload units and accumulating into the generation's
// counter. Cancellation is cooperative at unit boundaries.
type workerPool struct {
	workers   int
	batchSize int
	counter   *stats.Counter
	hist      *stats.SafeHistogram
	log       zerolog.Logger

	stop chan struct{}
	wg   sync.WaitGroup
}

func newWorkerPool(workers, batchSize int, counter *stats.Counter, hist *stats.SafeHistogram, log zerolog.Logger) *workerPool {
	return &workerPool{
		workers:   workers,
		batchSize: batchSize,
		counter:   counter,
		hist:      hist,
		log:       log.With().Str("component", "workerpool").Logger(),
		stop:      make(chan struct{}),
	}
}

func (p *workerPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Debug().Int("workers", p.workers).Msg("worker pool started")
}

func (p *workerPool) worker(slot int) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			// The slot is abandoned; remaining workers keep running and
			// Stop is still honored for them.
			p.log.Error().Int("slot", slot).Interface("panic", r).Msg("worker failed")
		}
	}()

	unit := workload.NewUnit(p.batchSize)
	for {
		select {
		case <-p.stop:
			return
		default:
			start := time.Now()
			n := unit.Run()
			p.counter.Add(n)
			p.hist.RecordValue(time.Since(start).Microseconds())
		}
	}
}

// Stop signals all workers and waits until each has drained its current
// unit, bounding restart latency by one unit duration.
func (p *workerPool) Stop() {
	close(p.stop)
	p.wg.Wait()
	p.log.Debug().Msg("worker pool stopped")
}
