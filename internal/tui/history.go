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

// HistoryTab is a sub-view of the history page.
type HistoryTab int

const (
	HistoryTabOverview HistoryTab = iota
	HistoryTabTrends
	HistoryTabTable
)

var historyTabs = []string{"Overview", "Trends", "Table"}

type historyView struct {
	sh      *shared
	tab     HistoryTab
	company *components.Select
	risk    *components.Select
	data    report.History
}

func newHistoryView(sh *shared) *historyView {
	v := &historyView{sh: sh, company: companyFilter(), risk: riskFilter()}
	v.Sync()
	return v
}

func (v *historyView) Enter() tea.Cmd { return nil }

func (v *historyView) Leave() {}

func (v *historyView) Capturing() bool { return false }

func (v *historyView) Shortcuts() []components.ShortcutDef {
	shortcuts := []components.ShortcutDef{{Key: "[ ]", Desc: "tab"}}
	if v.tab == HistoryTabTable {
		shortcuts = append(shortcuts, components.FilterShortcuts...)
	}
	return shortcuts
}

func (v *historyView) Sync() {
	syncCompanyFilter(v.company, v.sh.analyses)
	v.rebuild()
}

func (v *historyView) rebuild() {
	v.data = report.BuildHistory(v.sh.analyses, v.company.Value(), esg.RiskLevel(v.risk.Value()))
}

// Tab returns the selected sub-view.
func (v *historyView) Tab() HistoryTab {
	return v.tab
}

func (v *historyView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	n := HistoryTab(len(historyTabs))
	switch key.String() {
	case "]", "right":
		v.tab = (v.tab + 1) % n
	case "[", "left":
		v.tab = (v.tab + n - 1) % n
	case "c":
		v.company.Next()
		v.rebuild()
	case "C":
		v.company.Prev()
		v.rebuild()
	case "f":
		v.risk.Next()
		v.rebuild()
	case "F":
		v.risk.Prev()
		v.rebuild()
	}
	return nil
}

func (v *historyView) View() string {
	w := v.sh.width
	s := v.data.Stats
	var b strings.Builder

	if line := statusLine(v.sh); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	trend := "No data"
	if s.Total > 0 {
		trend = "Needs attention"
		if s.Improving {
			trend = "Improving"
		}
	}
	b.WriteString(cardRow(w,
		[3]string{"Total Analyses", fmt.Sprint(s.Total), "all companies"},
		[3]string{"Average Score", fmt.Sprint(s.Average), "out of 100"},
		[3]string{"High Risk", fmt.Sprint(s.HighRisk), fmt.Sprintf("%d%% of analyses", s.HighShare())},
		[3]string{"Low Risk", fmt.Sprint(s.LowRisk), fmt.Sprintf("%d%% of analyses", s.LowShare())},
		[3]string{"Trend", trend, fmt.Sprintf("average above %d", esg.ImprovingThreshold)},
	))
	b.WriteString("\n")

	tabs := make([]string, len(historyTabs))
	for i, name := range historyTabs {
		if HistoryTab(i) == v.tab {
			tabs[i] = styles.ActiveTabStyle.Render(name)
		} else {
			tabs[i] = styles.TabStyle.Render(name)
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	switch v.tab {
	case HistoryTabOverview:
		b.WriteString(chart("Risk Levels", levelBars(v.data.RiskDistribution), 0, w))
		b.WriteString("\n")
		b.WriteString(chart("Score Distribution", levelBars(v.data.ScoreDistribution), 0, w))

	case HistoryTabTrends:
		timeline := make([]components.Bar, 0, len(v.data.Timeline))
		for _, p := range v.data.Timeline {
			label := p.Company
			if !p.Time.IsZero() {
				label = p.Time.Format("Jan 2") + " " + p.Company
			}
			timeline = append(timeline, components.Bar{
				Label: label,
				Value: p.Score,
				Color: styles.RiskColor(esg.DeriveRiskLevel(p.Score)),
			})
		}
		b.WriteString(chart("Score Timeline", timeline, 100, w))
		b.WriteString("\n")

		averages := make([]components.Bar, 0, len(v.data.CompanyAverages))
		for _, a := range v.data.CompanyAverages {
			averages = append(averages, components.Bar{
				Label: a.Company,
				Value: float64(a.Average),
				Color: styles.RiskColor(a.RiskLevel),
			})
		}
		b.WriteString(chart("Company Averages", averages, 100, w))
		b.WriteString("\n")
		b.WriteString(chart("Monthly Trend", trendBars(v.data.Trend), 100, w))

	case HistoryTabTable:
		table := analysisTable(w, max(len(v.data.Records)+1, 3))
		table.SetRows(analysisRows(v.data.Records))
		content := v.company.View() + "   " + v.risk.View() + "\n" +
			styles.MutedTextStyle.Render(plural(len(v.data.Records), "record", "records")) + "\n\n" +
			table.View()
		b.WriteString(section("Analysis History", content, w))
	}
	return b.String()
}
