package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mcsim/internal/diag"
)

// TracePlot draws values as an asciigraph line chart width columns wide.
func TracePlot(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// HistogramBars draws one horizontal bar per bin, scaled to the fullest bin.
func HistogramBars(h *diag.Histogram, width int) string {
	maxCount := 0.0
	for _, c := range h.Counts {
		if c > maxCount {
			maxCount = c
		}
	}

	bar := lipgloss.NewStyle().Foreground(CurrentTheme.Primary)
	label := mutedStyle()

	var b strings.Builder
	for i, c := range h.Counts {
		n := 0
		if maxCount > 0 {
			n = int(c / maxCount * float64(width))
		}
		edges := fmt.Sprintf("[%9.4f, %9.4f)", h.Edges[i], h.Edges[i+1])
		b.WriteString(label.Render(edges) + " " + bar.Render(strings.Repeat("█", n)) + fmt.Sprintf(" %d\n", int(c)))
	}
	return b.String()
}

// SummaryTable renders per-dimension statistics as an aligned table.
func SummaryTable(s diag.Summary) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Accent)
	cell := lipgloss.NewStyle().Foreground(CurrentTheme.Text).Width(12).Align(lipgloss.Right)
	name := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Width(6)

	cols := []string{"mean", "std", "q05", "median", "q95", "tau"}

	var b strings.Builder
	b.WriteString(name.Render(""))
	for _, c := range cols {
		b.WriteString(header.Width(12).Align(lipgloss.Right).Render(c))
	}
	b.WriteString("\n")

	for d, ds := range s.Dims {
		b.WriteString(name.Render(fmt.Sprintf("x%d", d)))
		for _, v := range []float64{ds.Mean, ds.StdDev, ds.Q05, ds.Median, ds.Q95, ds.AutoCorr} {
			b.WriteString(cell.Render(fmt.Sprintf("%.4f", v)))
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle().Render(fmt.Sprintf("%d samples", s.Samples)) + "\n")
	return b.String()
}
