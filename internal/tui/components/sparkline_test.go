package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSparklineWindowTrim(t *testing.T) {
	s := NewSparkline(3, "ops", lipgloss.NewStyle())
	for _, v := range []uint64{1, 2, 3, 4, 5} {
		s.Add(v)
	}

	if len(s.Data) != 3 {
		t.Fatalf("window not trimmed: len=%d, want 3", len(s.Data))
	}
	if s.Data[0] != 3 || s.Data[2] != 5 {
		t.Errorf("unexpected window contents: %v", s.Data)
	}
	if s.Max != 5 {
		t.Errorf("Max = %d, want 5", s.Max)
	}
	if s.Last() != 5 {
		t.Errorf("Last = %d, want 5", s.Last())
	}
}

func TestSparklineRescalesAfterDrop(t *testing.T) {
	s := NewSparkline(2, "ops", lipgloss.NewStyle())
	s.Add(1000)
	s.Add(10)
	s.Add(20)

	// The big sample scrolled out; the window max must follow.
	if s.Max != 20 {
		t.Fatalf("Max = %d, want 20 after window scroll", s.Max)
	}
}

func TestSparklineViewPadsToWidth(t *testing.T) {
	s := NewSparkline(10, "ops", lipgloss.NewStyle())
	s.Add(5)

	lines := strings.Split(s.View(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected label + graph lines, got %d", len(lines))
	}
	if got := len([]rune(lines[1])); got != 10 {
		t.Errorf("graph width = %d runes, want 10", got)
	}
}

func TestSparklineEmptyLast(t *testing.T) {
	s := NewSparkline(5, "ops", lipgloss.NewStyle())
	if s.Last() != 0 {
		t.Errorf("Last on empty sparkline = %d, want 0", s.Last())
	}
}
