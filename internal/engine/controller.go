package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/cpu"

	"primeburn/internal/metrics"
	"primeburn/internal/stats"
)

// Config carries construction-time settings for the controller.
type Config struct {
	// BatchSize is the candidates-per-unit size handed to workers and to
	// spawned children. Zero means the workload default.
	BatchSize int

	// Workers overrides the slot count. Zero means one per logical core.
	Workers int

	// RunUnit overrides child process execution, used by tests. Defaults
	// to re-execing the current binary's unit subcommand.
	RunUnit ChildRunner
}

// Controller owns the run state machine: Stopped, or Running(mode,
// generation). All control operations serialize under one mutex, so
// concurrent start/stop/switch requests linearize and two modes never have
// workers incrementing counters at the same time. The counters themselves
// stay lock-free; this is the only cross-cutting lock in the system.
type Controller struct {
	mu sync.Mutex

	collector *stats.Collector
	metrics   *metrics.Metrics
	log       zerolog.Logger

	workers   int
	batchSize int
	runUnit   ChildRunner

	running    loadSource
	mode       Mode
	generation uint64
	runID      string
	startedAt  time.Time
}

// New resolves the core count and child-exec path up front; a failure here
// fails process startup rather than surfacing mid-run.
func New(cfg Config, collector *stats.Collector, m *metrics.Metrics, log zerolog.Logger) (*Controller, error) {
	workers := cfg.Workers
	if workers <= 0 {
		n, err := cpu.Counts(true)
		if err != nil {
			return nil, errors.Wrap(err, "detect logical core count")
		}
		workers = n
	}

	runUnit := cfg.RunUnit
	if runUnit == nil {
		var err error
		runUnit, err = SelfExecRunner(cfg.BatchSize)
		if err != nil {
			return nil, err
		}
	}

	if m == nil {
		m = metrics.New()
	}

	return &Controller{
		collector: collector,
		metrics:   m,
		log:       log.With().Str("component", "controller").Logger(),
		workers:   workers,
		batchSize: cfg.BatchSize,
		runUnit:   runUnit,
	}, nil
}

// StartCPU transitions to Running(mode, gen+1). Starting while already
// running performs a synchronous restart: the old mode's components are
// fully stopped before the new generation's are built, never an error and
// never an overlap.
func (c *Controller) StartCPU(mode Mode) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running != nil {
		c.stopLocked()
	}

	c.generation++
	c.runID = uuid.NewString()
	// Fresh counters and histogram per generation: a straggler child that
	// outlives the quiesce bound records into its own generation's
	// instances, never the new one's.
	counter, meter, hist := c.collector.Attach()

	log := c.log.With().
		Uint64("generation", c.generation).
		Str("run_id", c.runID).
		Stringer("mode", mode).
		Logger()

	var src loadSource
	switch mode.Kind {
	case ModeThreaded:
		src = newWorkerPool(c.workers, c.batchSize, counter, hist, log)
	case ModeProcess:
		src = newProcessSpawner(c.workers, c.runUnit, []opSink{counter}, hist, log, c.spawnFailed)
	case ModeBursty:
		src = newBurstScheduler(mode.Utilization, c.workers, c.runUnit, counter, meter, hist, log, c.spawnFailed)
	}
	src.Start()

	c.running = src
	c.mode = mode
	c.startedAt = time.Now()

	c.metrics.ActiveWorkers.Set(float64(c.workers))
	c.metrics.Generation.Set(float64(c.generation))
	log.Info().Int("workers", c.workers).Msg("cpu load started")
	return nil
}

// EndCPU transitions to Stopped. Ending an already stopped generator is a
// no-op. The published sample decays to zero at the next tick.
func (c *Controller) EndCPU() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running == nil {
		return nil
	}
	c.stopLocked()
	return nil
}

// stopLocked tears down the running components and installs fresh counters
// and histogram, so straggler writes from the ended generation never surface.
func (c *Controller) stopLocked() {
	c.running.Stop()
	c.running = nil
	c.collector.Attach()
	c.metrics.ActiveWorkers.Set(0)
	c.log.Info().Uint64("generation", c.generation).Msg("cpu load stopped")
}

func (c *Controller) spawnFailed() {
	c.metrics.SpawnFailures.Inc()
}

// Status is a point-in-time view of the state machine.
type Status struct {
	Running     bool       `json:"running"`
	Mode        string     `json:"mode,omitempty"`
	Utilization int        `json:"utilization,omitempty"`
	Generation  uint64     `json:"generation"`
	RunID       string     `json:"run_id,omitempty"`
	Workers     int        `json:"workers"`
	Cores       int        `json:"cores"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Generation: c.generation,
		Cores:      c.workers,
	}
	if c.running != nil {
		st.Running = true
		st.Mode = c.mode.Kind.String()
		if c.mode.Kind == ModeBursty {
			st.Utilization = c.mode.Utilization
		}
		st.RunID = c.runID
		st.Workers = c.workers
		started := c.startedAt
		st.StartedAt = &started
	}
	return st
}
