package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/report"
	"github.com/pulseesg/pulse/internal/tui/components"
	"github.com/pulseesg/pulse/internal/tui/styles"
)

// card renders one stats card.
func card(title, value, caption string, width int) string {
	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(styles.KPIValueStyle.Render(value))
	if caption != "" {
		b.WriteString("\n")
		b.WriteString(styles.MutedTextStyle.Render(caption))
	}
	return styles.BoxStyle.Width(width).Render(b.String())
}

// cardRow lays out cards side by side, sharing width.
func cardRow(width int, cards ...[3]string) string {
	if len(cards) == 0 {
		return ""
	}
	w := max(width/len(cards)-4, 14)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = card(c[0], c[1], c[2], w)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// section renders a titled box spanning width.
func section(title, content string, width int) string {
	return styles.BoxStyle.Width(max(width-4, 20)).Render(
		styles.CardTitleStyle.Render(title) + "\n" + content)
}

// companyFilter builds the company selector of a filtered view.
func companyFilter() *components.Select {
	return components.NewSelect("company", "Company", components.Option{Label: "All companies", Value: esg.FilterAll})
}

// riskFilter builds the risk selector of a filtered view.
func riskFilter() *components.Select {
	opts := []components.Option{{Label: "All levels", Value: esg.FilterAll}}
	for _, level := range esg.RiskLevels {
		opts = append(opts, components.Option{Label: string(level), Value: string(level)})
	}
	return components.NewSelect("risk", "Risk", opts...)
}

// syncCompanyFilter offers every company that has analyses.
func syncCompanyFilter(s *components.Select, analyses []esg.AnalysisResult) {
	opts := []components.Option{{Label: "All companies", Value: esg.FilterAll}}
	for _, name := range esg.CompanyNames(analyses) {
		opts = append(opts, components.Option{Label: name, Value: name})
	}
	s.SetOptions(opts)
}

// levelBars turns a distribution into colored bars.
func levelBars(counts []esg.LevelCount) []components.Bar {
	bars := make([]components.Bar, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, components.Bar{
			Label: string(c.Level),
			Value: float64(c.Count),
			Color: styles.RiskColor(c.Level),
		})
	}
	return bars
}

// trendBars turns monthly averages into bars.
func trendBars(points []esg.TrendPoint) []components.Bar {
	bars := make([]components.Bar, 0, len(points))
	for _, p := range points {
		bars = append(bars, components.Bar{
			Label: p.Label(),
			Value: float64(int(p.Average*10+0.5)) / 10,
			Color: styles.RiskColor(esg.DeriveRiskLevel(p.Average)),
		})
	}
	return bars
}

// chart renders bars with a title.
func chart(title string, bars []components.Bar, fixedMax float64, width int) string {
	c := components.NewBarChart(title)
	c.SetEmptyText("No analyses yet")
	c.SetWidth(max(width-6, 20))
	if fixedMax > 0 {
		c.SetMax(fixedMax)
	}
	c.SetBars(bars)
	return styles.BoxStyle.Width(max(width-4, 20)).Render(c.View())
}

// analysisRows renders analyses as table rows.
func analysisRows(list []esg.AnalysisResult) [][]string {
	rows := make([][]string, len(list))
	for i, a := range list {
		rows[i] = []string{
			a.CompanyName,
			report.FormatScore(a.Score),
			string(esg.EffectiveRisk(a)),
			a.DisplayDate(),
		}
	}
	return rows
}

func analysisTable(width, height int) *components.Table {
	t := components.NewTable(
		components.Column{Title: "Company", Weight: 3},
		components.Column{Title: "Score", Weight: 1},
		components.Column{Title: "Risk", Weight: 1},
		components.Column{Title: "Date", Weight: 2},
	)
	t.SetEmptyText("No analyses match the filters")
	t.SetWidth(max(width-6, 30))
	t.SetHeight(height)
	return t
}

// statusLine explains why a view has nothing to show yet.
func statusLine(sh *shared) string {
	switch {
	case sh.loadErr != "":
		return styles.ErrorTextStyle.Render(sh.loadErr) + styles.MutedTextStyle.Render("  (r to retry)")
	case sh.loading && !sh.loaded:
		return styles.MutedTextStyle.Render("Loading...")
	default:
		return ""
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
