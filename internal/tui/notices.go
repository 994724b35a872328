package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"winnow/internal/processor"
)

var (
	keptStyle    = lipgloss.NewStyle().Foreground(ColorSuccess)
	deletedStyle = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
	wouldStyle   = lipgloss.NewStyle().Foreground(ColorAccentAlt)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	headerStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	warningStyle = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
)

const rule = "--------------------------------------------------"

// RenderNotice styles the per-file notice by outcome.
func RenderNotice(res processor.Result) string {
	notice := res.Notice()
	switch res.Outcome {
	case processor.OutcomeKept:
		return keptStyle.Render(notice)
	case processor.OutcomeDeleted:
		return deletedStyle.Render(notice)
	case processor.OutcomeWouldDelete:
		return wouldStyle.Render(notice)
	default:
		return errorStyle.Render(notice)
	}
}

func FoundLine(n int) string {
	return fmt.Sprintf("Found %d image files to process...\n", n)
}

// RenderHeader describes the run before any file is touched.
func RenderHeader(folder string, threshold processor.Threshold, dryRun bool) string {
	lines := []string{
		headerStyle.Render("Scanning folder: " + folder),
		headerStyle.Render(fmt.Sprintf("Minimum size: %s pixels", threshold)),
	}
	if dryRun {
		lines = append(lines, warningStyle.Render("DRY RUN MODE - No files will actually be deleted"))
	}
	lines = append(lines, dimStyle.Render(rule))
	return strings.Join(lines, "\n")
}

// RenderWarning is shown before the confirmation prompt of a destructive run.
func RenderWarning(folder string, threshold processor.Threshold) string {
	return warningStyle.Render(fmt.Sprintf("WARNING: This will permanently delete images smaller than %s pixels", threshold)) +
		"\n" + labelStyle.Render("from folder: "+folder)
}

// Print writes notices line by line until updates closes. It is used when
// stdout is not a terminal or the progress view is disabled.
func Print(w io.Writer, updates <-chan processor.ProgressUpdate) {
	for update := range updates {
		if update.TotalDelta > 0 {
			fmt.Fprintln(w, FoundLine(update.TotalDelta))
		}
		if update.Result != nil {
			fmt.Fprintln(w, RenderNotice(*update.Result))
		}
	}
}
