package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(CurrentTheme.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(CurrentTheme.Muted)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(12)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true)
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
}

func accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
}

// levelStyle colors a value in [0, 1] from low to high.
func levelStyle(v float64) lipgloss.Style {
	switch {
	case v > 0.7:
		return lipgloss.NewStyle().Foreground(CurrentTheme.High)
	case v > 0.3:
		return lipgloss.NewStyle().Foreground(CurrentTheme.Mid)
	default:
		return lipgloss.NewStyle().Foreground(CurrentTheme.Low)
	}
}

// ProgressBar renders a fraction in [0, 1] as a filled bar.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return levelStyle(fraction).Render(bar)
}

// Sparkline renders values in [0, 1], keeping only the last width entries.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return mutedStyle().Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for _, v := range values {
		idx := int(v * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteString(levelStyle(v).Render(string(chars[idx])))
	}
	return b.String()
}
