package engine

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"primeburn/internal/stats"
)

const (
	// spawnBackoff is the retry delay after a failed child spawn, e.g.
	// under transient resource exhaustion.
	spawnBackoff = 100 * time.Millisecond

	// defaultQuiesceBound limits how long Stop waits for in-flight
	// children before giving up on observability and returning.
	defaultQuiesceBound = 10 * time.Second
)

// ChildRunner launches one fresh OS process that performs exactly one
// workload unit and returns its completed-operation count. Implementations
// must let an in-flight child finish; stopping is never preemptive.
type ChildRunner func() (uint64, error)

// opSink receives completed-operation counts. Counter and BurstMeter both
// satisfy it, which lets bursty mode feed two meters from one spawner.
type opSink interface {
	Add(n uint64)
}

// SelfExecRunner builds the default ChildRunner: re-exec the current binary
// with the hidden unit subcommand and read the op count from its stdout.
func SelfExecRunner(batchSize int) (ChildRunner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, errors.Wrap(err, "resolve executable for child spawning")
	}
	batch := strconv.Itoa(batchSize)
	return func() (uint64, error) {
		out, err := exec.Command(exe, "unit", "--batch", batch).Output()
		if err != nil {
			return 0, errors.Wrap(err, "spawn unit child")
		}
		n, err := strconv.ParseUint(strings.TrimSpace(string(out)), 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, "parse unit child output")
		}
		return n, nil
	}, nil
}

// processSpawner drives fresh-process mode: one control loop per core slot,
// each cycle spawning a short-lived child for a single unit and immediately
// replacing it once it reports back.
type processSpawner struct {
	slots          int
	run            ChildRunner
	sinks          []opSink
	hist           *stats.SafeHistogram
	log            zerolog.Logger
	onSpawnFailure func()
	quiesceBound   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newProcessSpawner(slots int, run ChildRunner, sinks []opSink, hist *stats.SafeHistogram, log zerolog.Logger, onSpawnFailure func()) *processSpawner {
	return &processSpawner{
		slots:          slots,
		run:            run,
		sinks:          sinks,
		hist:           hist,
		log:            log.With().Str("component", "spawner").Logger(),
		onSpawnFailure: onSpawnFailure,
		quiesceBound:   defaultQuiesceBound,
	}
}

func (s *processSpawner) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	for i := 0; i < s.slots; i++ {
		s.wg.Add(1)
		go s.loop(i)
	}
	s.log.Debug().Int("slots", s.slots).Msg("process spawner started")
}

func (s *processSpawner) loop(slot int) {
	defer s.wg.Done()

	for s.ctx.Err() == nil {
		start := time.Now()
		n, err := s.run()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.log.Warn().Err(err).Int("slot", slot).Msg("child spawn failed, backing off")
			if s.onSpawnFailure != nil {
				s.onSpawnFailure()
			}
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(spawnBackoff):
			}
			continue
		}
		for _, sink := range s.sinks {
			sink.Add(n)
		}
		s.hist.RecordValue(time.Since(start).Microseconds())
	}
}

// Stop halts spawning and waits for in-flight children to finish their
// single unit; children are never killed. Past the quiesce bound the wait
// is abandoned: stragglers report into counters of a generation that is no
// longer sampled, so only observability is affected, not correctness.
func (s *processSpawner) Stop() {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Debug().Msg("process spawner stopped")
	case <-time.After(s.quiesceBound):
		s.log.Warn().Dur("waited", s.quiesceBound).Msg("spawner quiesce exceeded expected bound")
	}
}
