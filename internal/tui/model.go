package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"winnow/internal/processor"
)

// Model renders a live progress bar while per-file notices scroll above it.
type Model struct {
	updates  <-chan processor.ProgressUpdate
	cancel   context.CancelFunc
	started  time.Time
	width    int
	dryRun   bool
	total    int
	kept     int
	deleted  int
	errors   int
	quitting bool
}

type doneMsg struct{}

type updateMsg processor.ProgressUpdate

// NewModel reads updates until the channel closes. cancel, if non-nil, is
// called when the operator presses ctrl+c, since the terminal is in raw mode
// and no SIGINT reaches the process.
func NewModel(updates <-chan processor.ProgressUpdate, dryRun bool, cancel context.CancelFunc) Model {
	return Model{updates: updates, cancel: cancel, started: time.Now(), dryRun: dryRun}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		var lines []string
		if msg.TotalDelta > 0 {
			m.total += msg.TotalDelta
			lines = append(lines, FoundLine(msg.TotalDelta))
		}
		if msg.Result != nil {
			switch msg.Result.Outcome {
			case processor.OutcomeKept:
				m.kept++
			case processor.OutcomeDeleted, processor.OutcomeWouldDelete:
				m.deleted++
			default:
				m.errors++
			}
			lines = append(lines, RenderNotice(*msg.Result))
		}
		if len(lines) == 0 {
			return m, listenForUpdates(m.updates)
		}
		// Sequence keeps notices in arrival order.
		return m, tea.Sequence(tea.Println(strings.Join(lines, "\n")), listenForUpdates(m.updates))
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) processed() int {
	return m.kept + m.deleted + m.errors
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.processed()) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	deletedLabel := "Deleted"
	if m.dryRun {
		deletedLabel = "Would delete"
	}

	bar := renderBar(barWidth, ratio)
	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("winnow 🌾"),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", m.processed(), m.total)) + dimStyle.Render(fmt.Sprintf("  errors:%d", m.errors)),
		labelStyle.Render(fmt.Sprintf("Kept: %d  %s: %d", m.kept, deletedLabel, m.deleted)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(bar),
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan processor.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	barStyle   = lipgloss.NewStyle().Foreground(ColorAccent)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)
