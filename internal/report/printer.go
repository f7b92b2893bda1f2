// Package report renders dashboard data for the headless commands, either
// as aligned text tables or as indented JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pulseesg/pulse/internal/esg"
)

// Format is the output format of the headless commands.
type Format string

const (
	// FormatText is the default human-readable output.
	FormatText Format = "text"
	// FormatJSON produces structured JSON output.
	FormatJSON Format = "json"
)

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, json)", s)
	}
}

const rule = "────────────────────────────────────────────────────────────"

// Printer writes reports to w.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a Printer. An empty format means text.
func NewPrinter(w io.Writer, format Format) *Printer {
	if format == "" {
		format = FormatText
	}
	return &Printer{w: w, format: format}
}

// JSON reports whether the printer emits JSON.
func (p *Printer) JSON() bool {
	return p.format == FormatJSON
}

func (p *Printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Printer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
}

// Message prints a status line, or {"message": ...} in JSON mode.
func (p *Printer) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.JSON() {
		return p.encode(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

// Companies prints the company list.
func (p *Printer) Companies(list []esg.Company) error {
	if p.JSON() {
		return p.encode(list)
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(p.w, "No companies yet. Add one with: pulse companies add")
		return err
	}
	tw := p.table()
	fmt.Fprintln(tw, "ID\tNAME\tSECTOR\tCOUNTRY")
	for _, c := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Sector, c.Country)
	}
	return tw.Flush()
}

// Analysis prints one analysis result card.
func (p *Printer) Analysis(a *esg.AnalysisResult) error {
	if p.JSON() {
		return p.encode(a)
	}

	w := p.w
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Company:  %s\n", a.CompanyName)
	fmt.Fprintf(w, "Score:    %s\n", FormatScore(a.Score))
	fmt.Fprintf(w, "Risk:     %s\n", esg.EffectiveRisk(*a))
	fmt.Fprintf(w, "Date:     %s\n", a.DisplayDate())

	if a.Explanation != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, a.Explanation)
	}

	if len(a.Pillars) > 0 {
		fmt.Fprintln(w)
		tw := p.table()
		fmt.Fprintln(tw, "PILLAR\tSCORE\tRISK\tDRIVERS")
		for _, pillar := range esg.Pillars {
			pa, ok := a.Pillars[pillar]
			if !ok {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", pillar.Name(), FormatScore(pa.Score), pa.Risk, strings.Join(pa.Drivers, ", "))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	printSignals(w, "Positive signals", a.Signals.Positive)
	printSignals(w, "Risk signals", a.Signals.Risk)

	if len(a.Incidents) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Key incidents:")
		for _, inc := range a.Incidents {
			fmt.Fprintf(w, "  [%s] %s (%s)\n", inc.Pillar, inc.Incident, inc.Severity)
		}
	}
	if a.GovernanceRisk != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Governance risk: %s", a.GovernanceRisk)
		if len(a.GovernanceConcerns) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(a.GovernanceConcerns, ", "))
		}
		fmt.Fprintln(w)
	}
	_, err := fmt.Fprintln(w, rule)
	return err
}

func printSignals(w io.Writer, title string, signals map[esg.Pillar][]string) {
	if len(signals) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", title)
	for _, pillar := range sortedPillars(signals) {
		for _, s := range signals[pillar] {
			fmt.Fprintf(w, "  %s  %s\n", pillar, s)
		}
	}
}

// sortedPillars returns E, S, G first, then any other key alphabetically.
func sortedPillars(m map[esg.Pillar][]string) []esg.Pillar {
	out := make([]esg.Pillar, 0, len(m))
	for _, p := range esg.Pillars {
		if _, ok := m[p]; ok {
			out = append(out, p)
		}
	}
	var extra []esg.Pillar
	for p := range m {
		if p != esg.PillarE && p != esg.PillarS && p != esg.PillarG {
			extra = append(extra, p)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// History prints the stats cards and the filtered table.
func (p *Printer) History(h History) error {
	if p.JSON() {
		return p.encode(h)
	}

	w := p.w
	s := h.Stats
	trend := "stable"
	if s.Improving {
		trend = "improving"
	}
	fmt.Fprintf(w, "Analyses: %d   Average: %d   High risk: %d (%d%%)   Low risk: %d (%d%%)   Trend: %s\n",
		s.Total, s.Average, s.HighRisk, s.HighShare(), s.LowRisk, s.LowShare(), trend)
	fmt.Fprintln(w)

	if len(h.Records) == 0 {
		_, err := fmt.Fprintln(w, "No analyses match the current filters.")
		return err
	}
	return p.analysesTable(h.Records)
}

func (p *Printer) analysesTable(list []esg.AnalysisResult) error {
	tw := p.table()
	fmt.Fprintln(tw, "DATE\tCOMPANY\tSCORE\tRISK")
	for _, a := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.DisplayDate(), a.CompanyName, FormatScore(a.Score), esg.EffectiveRisk(a))
	}
	return tw.Flush()
}

// Overview prints the KPI row, recent analyses and monthly trend.
func (p *Printer) Overview(o Overview) error {
	if p.JSON() {
		return p.encode(o)
	}

	w := p.w
	fmt.Fprintf(w, "Companies: %d   Average ESG score: %d   High risk: %d   Medium/Low: %d/%d\n",
		o.TotalCompanies, o.AverageScore, o.Risk.High, o.Risk.Medium, o.Risk.Low)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Recent analyses")
	if len(o.Recent) == 0 {
		fmt.Fprintln(w, "  none")
	} else if err := p.analysesTable(o.Recent); err != nil {
		return err
	}

	if len(o.Trend) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Monthly trend")
		tw := p.table()
		for _, pt := range o.Trend {
			fmt.Fprintf(tw, "%s\t%.1f\t(%d)\n", pt.Label(), pt.Average, pt.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Profile prints the signed-in user.
func (p *Printer) Profile(pr Profile) error {
	if p.JSON() {
		return p.encode(pr)
	}
	tw := p.table()
	fmt.Fprintf(tw, "Email:\t%s\n", orDash(pr.Email))
	fmt.Fprintf(tw, "Role:\t%s\n", orDash(pr.Role))
	fmt.Fprintf(tw, "Theme:\t%s\n", orDash(pr.Theme))
	fmt.Fprintf(tw, "Backend:\t%s\n", orDash(pr.BaseURL))
	if !pr.ExpiresAt.IsZero() {
		fmt.Fprintf(tw, "Session expires:\t%s\n", pr.ExpiresAt.Local().Format("Jan 2, 2006 15:04"))
	}
	return tw.Flush()
}

// FormatScore prints whole scores without decimals.
func FormatScore(score float64) string {
	if score == float64(int64(score)) {
		return fmt.Sprintf("%d", int64(score))
	}
	return fmt.Sprintf("%.1f", score)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
