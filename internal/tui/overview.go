package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/report"
	"github.com/pulseesg/pulse/internal/tui/components"
	"github.com/pulseesg/pulse/internal/tui/styles"
)

// overviewView is the portfolio summary.
type overviewView struct {
	sh      *shared
	company *components.Select
	risk    *components.Select
	data    report.Overview
}

func newOverviewView(sh *shared) *overviewView {
	v := &overviewView{sh: sh, company: companyFilter(), risk: riskFilter()}
	v.Sync()
	return v
}

func (v *overviewView) Enter() tea.Cmd { return nil }

func (v *overviewView) Leave() {}

func (v *overviewView) Capturing() bool { return false }

func (v *overviewView) Shortcuts() []components.ShortcutDef {
	return components.FilterShortcuts
}

func (v *overviewView) Sync() {
	syncCompanyFilter(v.company, v.sh.analyses)
	v.rebuild()
}

func (v *overviewView) rebuild() {
	v.data = report.BuildOverview(v.sh.companies, v.sh.analyses,
		v.company.Value(), esg.RiskLevel(v.risk.Value()))
}

func (v *overviewView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "c":
		v.company.Next()
	case "C":
		v.company.Prev()
	case "f":
		v.risk.Next()
	case "F":
		v.risk.Prev()
	default:
		return nil
	}
	v.rebuild()
	return nil
}

func (v *overviewView) View() string {
	w := v.sh.width
	d := v.data
	var b strings.Builder

	if line := statusLine(v.sh); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(cardRow(w,
		[3]string{"Total Companies", fmt.Sprint(d.TotalCompanies), "tracked"},
		[3]string{"Average ESG Score", fmt.Sprint(d.AverageScore), plural(d.Risk.Total(), "analysis", "analyses")},
		[3]string{"High Risk", fmt.Sprint(d.Risk.High), "need attention"},
		[3]string{"Medium / Low", fmt.Sprintf("%d / %d", d.Risk.Medium, d.Risk.Low), "monitored"},
	))
	b.WriteString("\n")

	table := analysisTable(w, report.RecentLimit+1)
	table.SetRows(analysisRows(d.Recent))
	b.WriteString(section("Recent Analyses",
		v.company.View()+"   "+v.risk.View()+"\n\n"+table.View(), w))
	b.WriteString("\n")

	b.WriteString(chart("Risk Distribution", levelBars(d.Distribution), 0, w))
	b.WriteString("\n")

	scores := make([]components.Bar, 0, len(d.TopScores))
	for _, s := range d.TopScores {
		scores = append(scores, components.Bar{
			Label: s.Company,
			Value: s.Score,
			Color: styles.RiskColor(esg.DeriveRiskLevel(s.Score)),
		})
	}
	b.WriteString(chart("ESG Scores", scores, 100, w))
	b.WriteString("\n")

	b.WriteString(chart("Monthly Trend", trendBars(d.Trend), 100, w))
	b.WriteString("\n")

	b.WriteString(section("Latest by Company", v.latestView(), w))
	return b.String()
}

func (v *overviewView) latestView() string {
	if len(v.data.Latest) == 0 {
		return styles.MutedTextStyle.Render("No analyses yet")
	}
	lines := make([]string, 0, len(v.data.Latest))
	for _, a := range v.data.Latest {
		lines = append(lines, fmt.Sprintf("%s  %s  %s  %s",
			styles.TextStyle.Width(24).Render(a.CompanyName),
			styles.KPIValueStyle.Render(report.FormatScore(a.Score)),
			styles.RiskBadge(esg.EffectiveRisk(a)),
			styles.MutedTextStyle.Render(a.DisplayDate()),
		))
	}
	return strings.Join(lines, "\n")
}
