package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownMode rejects a control request naming no known strategy.
	ErrUnknownMode = errors.New("unknown load mode")
	// ErrInvalidUtilization rejects bursty utilization outside [0,100].
	ErrInvalidUtilization = errors.New("utilization must be within [0,100]")
)

// ModeKind selects the execution strategy of a run.
type ModeKind uint8

const (
	// ModeThreaded runs one long-lived in-process worker per core slot.
	ModeThreaded ModeKind = iota
	// ModeProcess runs each workload unit in a freshly spawned OS process,
	// so no execution context accumulates scheduler history.
	ModeProcess
	// ModeBursty alternates fresh-process load between randomized burst and
	// idle windows targeting a utilization percentage.
	ModeBursty
)

func (k ModeKind) String() string {
	switch k {
	case ModeThreaded:
		return "threaded"
	case ModeProcess:
		return "process"
	case ModeBursty:
		return "bursty"
	}
	return "unknown"
}

func ParseModeKind(s string) (ModeKind, error) {
	switch s {
	case "threaded":
		return ModeThreaded, nil
	case "process":
		return ModeProcess, nil
	case "bursty":
		return ModeBursty, nil
	}
	return 0, errors.Wrapf(ErrUnknownMode, "%q", s)
}

// Mode is immutable once a run starts; switching requires a full restart
// under a new generation. Utilization is read by bursty mode only.
type Mode struct {
	Kind        ModeKind
	Utilization int
}

func (m Mode) Validate() error {
	if m.Kind > ModeBursty {
		return ErrUnknownMode
	}
	if m.Kind == ModeBursty && (m.Utilization < 0 || m.Utilization > 100) {
		return errors.Wrapf(ErrInvalidUtilization, "got %d", m.Utilization)
	}
	return nil
}

func (m Mode) String() string {
	if m.Kind == ModeBursty {
		return fmt.Sprintf("bursty(%d%%)", m.Utilization)
	}
	return m.Kind.String()
}

// ModeFromRequest maps a wire-level mode selection onto a validated Mode.
func ModeFromRequest(kind string, utilization *int) (Mode, error) {
	k, err := ParseModeKind(kind)
	if err != nil {
		return Mode{}, err
	}
	m := Mode{Kind: k}
	if k == ModeBursty {
		if utilization == nil {
			return Mode{}, errors.Wrap(ErrInvalidUtilization, "bursty mode requires utilization")
		}
		m.Utilization = *utilization
	}
	return m, m.Validate()
}
