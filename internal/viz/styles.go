package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func titleStyle() lipgloss.Style   { return fg(CurrentTheme.Primary).Bold(true) }
func labelStyle() lipgloss.Style   { return fg(CurrentTheme.Muted).Width(10) }
func valueStyle() lipgloss.Style   { return fg(CurrentTheme.Text) }
func keyStyle() lipgloss.Style     { return fg(CurrentTheme.Accent).Bold(true) }
func hintStyle() lipgloss.Style    { return fg(CurrentTheme.Muted).Italic(true) }
func warningStyle() lipgloss.Style { return fg(CurrentTheme.Warning).Bold(true) }
func errorStyle() lipgloss.Style   { return fg(CurrentTheme.Error).Bold(true) }

func statusStyle(status string) lipgloss.Style {
	switch {
	case strings.HasPrefix(status, "RUNNING"):
		return fg(CurrentTheme.Success).Bold(true)
	case strings.HasPrefix(status, "HALTED"):
		return errorStyle()
	default:
		return warningStyle()
	}
}

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(46)
	helpBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(1, 2)
)

// Sparkline renders values as block characters scaled between their min
// and max, sampling down to width.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(1, len(values)/width)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / span
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(len(chars)-1, idx))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

func keyHints(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, keyStyle().Render(pairs[i])+hintStyle().Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}
