package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"winnow/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

// SummaryRows lists the counters of a finished run; errors appear only when nonzero.
func SummaryRows(summary processor.Summary) []SummaryRow {
	deletedLabel := "Files deleted"
	if summary.DryRun {
		deletedLabel = "Files that would be deleted"
	}

	rows := []SummaryRow{
		{Label: "Total image files", Value: fmt.Sprintf("%d", summary.Considered)},
		{Label: deletedLabel, Value: fmt.Sprintf("%d", summary.Deleted)},
		{Label: "Files kept", Value: fmt.Sprintf("%d", summary.Kept)},
	}
	if summary.Errored > 0 {
		rows = append(rows, SummaryRow{Label: "Files with errors", Value: fmt.Sprintf("%d", summary.Errored)})
	}
	return rows
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{titleStyle.Render("SUMMARY:"), hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
)
