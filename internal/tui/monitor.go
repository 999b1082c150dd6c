package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"primeburn/internal/api"
	"primeburn/internal/tui/components"
	"primeburn/internal/tui/styles"
)

const pollInterval = time.Second

type tickMsg time.Time

type snapshotMsg struct {
	status api.StatusResponse
	perf   uint64
	burst  uint64
	err    error
}

type controlResultMsg struct {
	err error
}

// Model is the live monitor behind `primeburn top`: it polls the control
// api once per second and renders throughput sparklines plus run state,
// with hotkeys to switch modes.
type Model struct {
	client *api.Client
	addr   string

	PerfLine   components.Sparkline
	BurstLine  components.Sparkline
	Saturation progress.Model

	status  api.StatusResponse
	lastErr error

	Width    int
	Height   int
	Quitting bool
}

func NewModel(addr string) Model {
	return Model{
		client:     api.NewClient(addr),
		addr:       addr,
		PerfLine:   components.NewSparkline(40, "Ops/sec (all)", styles.Active),
		BurstLine:  components.NewSparkline(40, "Ops/sec (burst)", styles.Warn),
		Saturation: progress.New(progress.WithDefaultGradient()),
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		st, err := client.Status()
		if err != nil {
			return snapshotMsg{err: err}
		}
		perf, err := client.CPUPerf()
		if err != nil {
			return snapshotMsg{err: err}
		}
		burst, err := client.BurstPerf()
		if err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{status: st, perf: perf, burst: burst}
	}
}

func (m Model) control(do func(*api.Client) error) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return controlResultMsg{err: do(client)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

		half := (msg.Width / 2) - 4
		if half < 10 {
			half = 10
		}
		m.PerfLine.Width = half
		m.BurstLine.Width = half
		m.Saturation.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		case "t":
			return m, m.control(func(c *api.Client) error { return c.StartCPU("threaded", nil) })
		case "p":
			return m, m.control(func(c *api.Client) error { return c.StartCPU("process", nil) })
		case "b":
			util := 50
			return m, m.control(func(c *api.Client) error { return c.StartCPU("bursty", &util) })
		case "e":
			return m, m.control(func(c *api.Client) error { return c.EndCPU() })
		}
		return m, nil

	case tickMsg:
		return m, m.fetch()

	case snapshotMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, tickCmd()
		}
		m.lastErr = nil
		m.status = msg.status
		m.PerfLine.Add(msg.perf)
		m.BurstLine.Add(msg.burst)
		return m, tickCmd()

	case controlResultMsg:
		m.lastErr = msg.err
		return m, m.fetch()
	}

	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return "Bye.\n"
	}

	s := strings.Builder{}

	state := styles.Subtle.Render("STOPPED")
	mode := "-"
	if m.status.Running {
		state = styles.Success.Render("RUNNING")
		mode = m.status.Mode
		if m.status.Mode == "bursty" {
			mode = fmt.Sprintf("%s %d%%", m.status.Mode, m.status.Utilization)
		}
	}

	col1 := fmt.Sprintf("STATE: %s\nMODE: %s", state, mode)
	col2 := fmt.Sprintf("GEN: %d\nWORKERS: %d/%d", m.status.Generation, m.status.Workers, m.status.Cores)
	col3 := fmt.Sprintf(
		"ALL: %s\nBURST: %s",
		styles.Value.Render(fmt.Sprintf("%d ops/s", m.PerfLine.Last())),
		styles.Value.Render(fmt.Sprintf("%d ops/s", m.BurstLine.Last())),
	)

	grid := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Box.Render(col1),
		styles.Box.Render(col2),
		styles.Box.Render(col3),
	)
	s.WriteString(styles.Title.Render("primeburn @ " + m.addr))
	s.WriteString("\n\n")
	s.WriteString(grid)
	s.WriteString("\n\n")

	sat := 0.0
	if m.status.Cores > 0 {
		sat = float64(m.status.Workers) / float64(m.status.Cores)
	}
	s.WriteString(styles.Subtle.Render("Core saturation"))
	s.WriteString("\n")
	s.WriteString(m.Saturation.ViewAs(sat))
	s.WriteString("\n\n")

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Box.Render(m.PerfLine.View()),
		styles.Box.Render(m.BurstLine.View()),
	))
	s.WriteString("\n\n")

	if m.lastErr != nil {
		s.WriteString(styles.Error.Render("! " + m.lastErr.Error()))
		s.WriteString("\n\n")
	}

	footer := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.RenderKey("t", "threaded"), "  ",
		styles.RenderKey("p", "process"), "  ",
		styles.RenderKey("b", "bursty 50%"), "  ",
		styles.RenderKey("e", "end"), "  ",
		styles.RenderKey("q", "quit"),
	)
	s.WriteString(styles.FooterBase.Render(footer))

	return s.String()
}
