package engine

import (
	"context"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"primeburn/internal/stats"
)

const (
	burstMean = 1500 * time.Millisecond
	burstMin  = 500 * time.Millisecond
	burstMax  = 5 * time.Second
)

// burstScheduler drives bursty mode: fresh-process load alternating between
// burst and idle windows so the long-run burst-time fraction approximates
// utilization/100. Burst durations are drawn from an exponential
// distribution with mean burstMean, clamped to [burstMin, burstMax]; the
// idle window is derived as idle = burst * (100-u)/u. Each instance seeds
// its own rand sequence so independently started generators desynchronize.
type burstScheduler struct {
	utilization    int
	slots          int
	run            ChildRunner
	counter        *stats.Counter
	meter          *stats.BurstMeter
	hist           *stats.SafeHistogram
	log            zerolog.Logger
	onSpawnFailure func()
	rng            *rand.Rand

	// window bounds, fields so tests can shrink them
	mean, min, max time.Duration
	quiesceBound   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newBurstScheduler(utilization, slots int, run ChildRunner, counter *stats.Counter, meter *stats.BurstMeter, hist *stats.SafeHistogram, log zerolog.Logger, onSpawnFailure func()) *burstScheduler {
	return &burstScheduler{
		utilization:    utilization,
		slots:          slots,
		run:            run,
		counter:        counter,
		meter:          meter,
		hist:           hist,
		log:            log.With().Str("component", "burst").Logger(),
		onSpawnFailure: onSpawnFailure,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(os.Getpid())<<16)),
		mean:           burstMean,
		min:            burstMin,
		max:            burstMax,
		quiesceBound:   defaultQuiesceBound,
	}
}

func (b *burstScheduler) Start() {
	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.wg.Add(1)
	go b.loop()
	b.log.Debug().Int("utilization", b.utilization).Msg("burst scheduler started")
}

func (b *burstScheduler) loop() {
	defer b.wg.Done()

	if b.utilization == 0 {
		// Permanent idle, the burst metric stays at zero.
		<-b.ctx.Done()
		return
	}

	for b.ctx.Err() == nil {
		window := b.nextBurstWindow()

		sp := newProcessSpawner(b.slots, b.run, []opSink{b.counter, b.meter}, b.hist, b.log, b.onSpawnFailure)
		sp.quiesceBound = b.quiesceBound
		sp.Start()
		windowStart := time.Now()

		select {
		case <-b.ctx.Done():
		case <-time.After(window):
		}
		sp.Stop()

		// Actual wall clock including the drain of in-flight children, so
		// the burst metric divides by the time ops could really accrue.
		b.meter.AddBurstTime(time.Since(windowStart))

		if b.ctx.Err() != nil {
			return
		}
		if b.utilization >= 100 {
			// No idle window, continuous fresh-process load.
			continue
		}

		idle := time.Duration(float64(window) * float64(100-b.utilization) / float64(b.utilization))
		select {
		case <-b.ctx.Done():
			return
		case <-time.After(idle):
		}
	}
}

func (b *burstScheduler) nextBurstWindow() time.Duration {
	d := time.Duration(b.rng.ExpFloat64() * float64(b.mean))
	if d < b.min {
		d = b.min
	}
	if d > b.max {
		d = b.max
	}
	return d
}

func (b *burstScheduler) Stop() {
	b.cancel()
	b.wg.Wait()
	b.log.Debug().Msg("burst scheduler stopped")
}
