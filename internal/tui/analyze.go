package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/report"
	"github.com/pulseesg/pulse/internal/tui/components"
	"github.com/pulseesg/pulse/internal/tui/styles"
)

// analyzeView submits news text for scoring and shows the result card.
//
// Every submission starts a new generation. The loading timers and the
// request result carry it, and anything from an older generation is
// dropped. Leaving the view bumps the generation without cancelling the
// request.
type analyzeView struct {
	sh      *shared
	company *components.Select
	text    *components.TextArea
	loading *components.Loading

	gen    int
	step   int
	result *esg.AnalysisResult
	err    string

	renderer    *glamour.TermRenderer
	rendererKey string
}

func newAnalyzeView(sh *shared) *analyzeView {
	company := components.NewSelect("company", "Company")
	company.SetPlaceholder("No companies yet")
	text := components.NewTextArea("news", "ESG news")
	text.SetPlaceholder("Paste a news article, press release or incident report...")

	v := &analyzeView{sh: sh, company: company, text: text, loading: components.NewLoading()}
	v.Sync()
	return v
}

func (v *analyzeView) Enter() tea.Cmd {
	v.company.Focus()
	return nil
}

// Leave stops the loading indicator. A result arriving later is not shown,
// though a successful one still refreshes the dashboard data.
func (v *analyzeView) Leave() {
	v.text.Blur()
	v.company.Blur()
	if v.loading.Active() {
		v.gen++
		v.loading.Stop()
	}
}

func (v *analyzeView) Capturing() bool {
	return v.text.Focused()
}

func (v *analyzeView) Shortcuts() []components.ShortcutDef {
	return components.AnalyzeShortcuts
}

// Sync offers every known company, keeping the current choice.
func (v *analyzeView) Sync() {
	opts := make([]components.Option, 0, len(v.sh.companies))
	for _, c := range v.sh.companies {
		opts = append(opts, components.Option{Label: c.Name, Value: fmt.Sprint(c.ID)})
	}
	v.company.SetOptions(opts)
}

func (v *analyzeView) selectedCompany() (esg.Company, bool) {
	for _, c := range v.sh.companies {
		if fmt.Sprint(c.ID) == v.company.Value() {
			return c, true
		}
	}
	return esg.Company{}, false
}

func (v *analyzeView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case analyzeDoneMsg:
		if msg.gen != v.gen {
			if msg.err == nil && msg.result != nil {
				return func() tea.Msg { return refreshMsg{} }
			}
			return nil
		}
		v.loading.Stop()
		if msg.err != nil {
			logging.Warn("analysis failed", "status", errors.StatusOf(msg.err), "error", msg.err)
			v.err = errors.UserMessage(msg.err)
			return nil
		}
		v.result = msg.result
		v.err = ""
		v.text.Reset()
		return func() tea.Msg { return refreshMsg{} }

	case analyzeRotateMsg:
		if msg.gen != v.gen || !v.loading.Active() {
			return nil
		}
		v.step++
		v.loading.SetMessage(report.LoadingMessage(v.step))
		return v.rotateTick()

	case analyzeElapsedMsg:
		if msg.gen != v.gen || !v.loading.Active() {
			return nil
		}
		v.loading.SetElapsed(v.loading.Elapsed() + time.Second)
		return v.elapsedTick()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	_, cmd := v.loading.Update(msg)
	if v.text.Focused() {
		var textCmd tea.Cmd
		_, textCmd = v.text.Update(msg)
		cmd = tea.Batch(cmd, textCmd)
	}
	return cmd
}

func (v *analyzeView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		return v.submit()
	case "esc":
		if v.text.Focused() {
			v.text.Blur()
			return v.company.Focus()
		}
		return nil
	case "enter", "i":
		if !v.text.Focused() {
			v.company.Blur()
			return v.text.Focus()
		}
	}

	if v.text.Focused() {
		_, cmd := v.text.Update(msg)
		return cmd
	}
	_, cmd := v.company.Update(msg)
	return cmd
}

// submit validates the form and starts a new generation.
func (v *analyzeView) submit() tea.Cmd {
	if v.loading.Active() {
		return nil
	}
	company, _ := v.selectedCompany()
	req := esg.AnalyzeRequest{CompanyID: company.ID, NewsText: strings.TrimSpace(v.text.Value())}
	if err := req.Validate(); err != nil {
		v.err = errors.UserMessage(err)
		return nil
	}

	v.gen++
	v.step = 0
	v.err = ""
	v.result = nil
	gen := v.gen
	spin := v.loading.Start(report.LoadingMessage(0))

	backend := v.sh.deps.Backend
	call := func() tea.Msg {
		ctx := logging.WithView(context.Background(), "analyze")
		result, err := backend.Analyze(ctx, req)
		return analyzeDoneMsg{gen: gen, result: result, err: err}
	}
	return tea.Batch(call, spin, v.rotateTick(), v.elapsedTick())
}

func (v *analyzeView) rotateTick() tea.Cmd {
	gen := v.gen
	interval := v.sh.deps.Config.UI.LoadingInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return analyzeRotateMsg{gen: gen}
	})
}

func (v *analyzeView) elapsedTick() tea.Cmd {
	gen := v.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return analyzeElapsedMsg{gen: gen}
	})
}

func (v *analyzeView) View() string {
	w := v.sh.width
	v.text.SetSize(max(w-8, 30), 6)

	var b strings.Builder
	form := v.company.View() + "\n\n" + v.text.View()
	if v.err != "" {
		form += "\n\n" + styles.ErrorTextStyle.Render("✗ "+v.err)
	}
	if v.loading.Active() {
		form += "\n\n" + v.loading.View()
	}
	b.WriteString(section("Analyze ESG News", form, w))

	if v.result != nil {
		b.WriteString("\n")
		b.WriteString(v.resultView(*v.result, w))
	}
	return b.String()
}

// resultView renders the result card.
func (v *analyzeView) resultView(r esg.AnalysisResult, width int) string {
	var b strings.Builder
	level := esg.EffectiveRisk(r)
	fmt.Fprintf(&b, "%s  %s  %s\n",
		styles.KPIValueStyle.Render(r.CompanyName),
		styles.KPIValueStyle.Render(report.FormatScore(r.Score)+"/100"),
		styles.RiskBadge(level))
	if r.HasTimestamp() {
		b.WriteString(styles.MutedTextStyle.Render(r.DisplayDate()))
		b.WriteString("\n")
	}

	if r.Explanation != "" {
		b.WriteString(v.markdown(r.Explanation, width-8))
	}

	if len(r.Pillars) > 0 {
		b.WriteString(styles.CardTitleStyle.Render("Pillar Scores"))
		b.WriteString("\n")
		for _, p := range esg.Pillars {
			pa, ok := r.Pillars[p]
			if !ok {
				continue
			}
			risk := pa.Risk
			if risk == "" {
				risk = esg.DeriveRiskLevel(pa.Score)
			}
			fmt.Fprintf(&b, "  %s %s %s\n",
				styles.TextStyle.Width(15).Render(p.Name()),
				styles.KPIValueStyle.Width(5).Render(report.FormatScore(pa.Score)),
				styles.RiskBadge(risk))
		}
		b.WriteString("\n")
	}

	b.WriteString(signalsView("Positive Signals", r.Signals.Positive, styles.SuccessTextStyle.Render("+")))
	b.WriteString(signalsView("Risk Signals", r.Signals.Risk, styles.ErrorTextStyle.Render("!")))

	if len(r.Incidents) > 0 {
		b.WriteString(styles.CardTitleStyle.Render("Key Incidents"))
		b.WriteString("\n")
		for _, inc := range r.Incidents {
			fmt.Fprintf(&b, "  [%s] %s %s\n",
				inc.Pillar,
				styles.WarningTextStyle.Render(strings.ToUpper(inc.Severity)),
				styles.TextStyle.Render(inc.Incident))
		}
		b.WriteString("\n")
	}

	if r.GovernanceRisk != "" || len(r.GovernanceConcerns) > 0 {
		b.WriteString(styles.CardTitleStyle.Render("Governance"))
		if r.GovernanceRisk != "" {
			b.WriteString("  " + styles.RiskBadge(r.GovernanceRisk))
		}
		b.WriteString("\n")
		for _, c := range r.GovernanceConcerns {
			b.WriteString("  • " + c + "\n")
		}
	}

	return section("Analysis Result", strings.TrimRight(b.String(), "\n"), width)
}

func signalsView(title string, signals map[esg.Pillar][]string, bullet string) string {
	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render(title))
	b.WriteString("\n")

	pillars := make([]string, 0, len(signals))
	for p, list := range signals {
		if len(list) > 0 {
			pillars = append(pillars, string(p))
		}
	}
	sort.Strings(pillars)
	if len(pillars) == 0 {
		b.WriteString(styles.MutedTextStyle.Render("  None detected"))
		b.WriteString("\n\n")
		return b.String()
	}
	for _, p := range pillars {
		for _, s := range signals[esg.Pillar(p)] {
			fmt.Fprintf(&b, "  %s %s %s\n", bullet, styles.MutedTextStyle.Render(p), s)
		}
	}
	b.WriteString("\n")
	return b.String()
}

// markdown renders the explanation with glamour, falling back to plain text.
func (v *analyzeView) markdown(text string, width int) string {
	width = max(width, 20)
	key := fmt.Sprintf("%s/%d", styles.GlamourStyle(), width)
	if v.renderer == nil || v.rendererKey != key {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(styles.GlamourStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			logging.Debug("markdown renderer unavailable", "error", err)
			return text + "\n\n"
		}
		v.renderer, v.rendererKey = r, key
	}
	out, err := v.renderer.Render(text)
	if err != nil {
		return text + "\n\n"
	}
	return out
}
