package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/report"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show analysis history with summary stats",
		Long: `Show the summary stats over every analysis and a table of the
analyses matching the filters.

Examples:
  pulse history
  pulse history --company "Northwind Energy" --risk high
  pulse history -o json`,
		Args: cobra.NoArgs,
		RunE: a.runHistory,
	}
	addFilterFlags(cmd)
	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, args []string) error {
	ctx := logging.WithView(cmd.Context(), "history")
	companies, analyses, err := a.loadAll(ctx)
	if err != nil {
		return err
	}
	company, risk, err := filters(cmd, companies)
	if err != nil {
		return err
	}
	return a.printer.History(report.BuildHistory(analyses, company, risk))
}

func newOverviewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show the portfolio KPIs and monthly trend",
		Args:  cobra.NoArgs,
		RunE:  a.runOverview,
	}
	addFilterFlags(cmd)
	return cmd
}

func (a *app) runOverview(cmd *cobra.Command, args []string) error {
	ctx := logging.WithView(cmd.Context(), "overview")
	companies, analyses, err := a.loadAll(ctx)
	if err != nil {
		return err
	}
	company, risk, err := filters(cmd, companies)
	if err != nil {
		return err
	}
	return a.printer.Overview(report.BuildOverview(companies, analyses, company, risk))
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			theme := a.store.Theme()
			if theme == "" {
				theme = string(a.cfg.UI.Theme)
			}
			return a.printer.Profile(report.BuildProfile(a.store.Token(), a.store.Role(), theme, a.client.BaseURL()))
		},
	}
}

// loadAll fetches the companies and then every company's history.
func (a *app) loadAll(ctx context.Context) ([]esg.Company, []esg.AnalysisResult, error) {
	if err := a.requireLogin(); err != nil {
		return nil, nil, err
	}
	companies, err := a.client.ListCompanies(ctx)
	if err != nil {
		return nil, nil, err
	}
	analyses, err := a.client.AllHistory(ctx, companies)
	if err != nil {
		return nil, nil, err
	}
	return companies, analyses, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("company", "c", esg.FilterAll, "company id or name, or ALL")
	cmd.Flags().StringP("risk", "r", esg.FilterAll, "HIGH, MEDIUM, LOW or ALL")
}

// filters returns the company name and risk level selected by the flags.
func filters(cmd *cobra.Command, companies []esg.Company) (string, esg.RiskLevel, error) {
	ref, _ := cmd.Flags().GetString("company")
	rawRisk, _ := cmd.Flags().GetString("risk")

	company := esg.FilterAll
	if ref = strings.TrimSpace(ref); ref != "" && !strings.EqualFold(ref, esg.FilterAll) {
		c, err := resolveCompany(companies, ref)
		if err != nil {
			return "", "", err
		}
		company = c.Name
	}

	risk := esg.ParseRiskLevel(rawRisk)
	if risk != "" && risk != esg.FilterAll && !risk.IsValid() {
		return "", "", errors.Validation("risk", fmt.Sprintf("unknown risk level %q (valid: HIGH, MEDIUM, LOW, ALL)", rawRisk))
	}
	return company, risk, nil
}
