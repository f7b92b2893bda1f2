package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// Bar is one row of a BarChart.
type Bar struct {
	Label string
	Value float64
	// Color overrides the chart color when set.
	Color lipgloss.Color
}

// BarChart renders labelled horizontal bars scaled to the largest value or
// to a fixed maximum.
type BarChart struct {
	title string
	bars  []Bar
	max   float64
	width int
	empty string
}

// NewBarChart creates a new BarChart component.
func NewBarChart(title string) *BarChart {
	return &BarChart{title: title, width: 40, empty: "No data yet"}
}

// SetBars replaces the bars.
func (c *BarChart) SetBars(bars []Bar) {
	c.bars = bars
}

// Bars returns the bars.
func (c *BarChart) Bars() []Bar {
	return c.bars
}

// SetMax fixes the scale, e.g. 100 for scores. Zero scales to the data.
func (c *BarChart) SetMax(max float64) {
	c.max = max
}

// SetWidth sets the total chart width.
func (c *BarChart) SetWidth(width int) {
	c.width = width
}

// SetEmptyText sets what is shown when there are no bars.
func (c *BarChart) SetEmptyText(s string) {
	c.empty = s
}

// View renders the chart.
func (c *BarChart) View() string {
	var b strings.Builder
	if c.title != "" {
		b.WriteString(styles.CardTitleStyle.Render(c.title))
		b.WriteString("\n")
	}
	if len(c.bars) == 0 {
		b.WriteString(styles.MutedTextStyle.Render(c.empty))
		return b.String()
	}

	labelWidth := 0
	scale := c.max
	for _, bar := range c.bars {
		labelWidth = max(labelWidth, lipgloss.Width(bar.Label))
		if c.max == 0 {
			scale = max(scale, bar.Value)
		}
	}
	labelWidth = min(labelWidth, 20)

	barWidth := c.width - labelWidth - 10
	if barWidth < 5 {
		barWidth = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(styles.MutedLight).Width(labelWidth)
	for i, bar := range c.bars {
		filled := 0
		if scale > 0 && bar.Value > 0 {
			filled = int(bar.Value / scale * float64(barWidth))
			filled = max(min(filled, barWidth), 1)
		}
		color := bar.Color
		if color == "" {
			color = styles.Primary
		}

		label := bar.Label
		if lipgloss.Width(label) > labelWidth {
			label = string([]rune(label)[:labelWidth-1]) + "…"
		}

		b.WriteString(labelStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)))
		b.WriteString(styles.MutedTextStyle.Render(strings.Repeat("░", barWidth-filled)))
		b.WriteString(" ")
		b.WriteString(styles.TextStyle.Render(formatValue(bar.Value)))
		if i < len(c.bars)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
