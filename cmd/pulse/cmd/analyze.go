package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/report"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score news text for one company",
		Long: `Submit ESG-related news text for AI risk analysis.

The text comes from --text, from --file, or from stdin. Analyses can take
several minutes while the AI service warms up; a spinner with the elapsed
time is shown on a terminal.

Examples:
  pulse analyze --company 1 --text "Regulator fines company for spill"
  pulse analyze --company "Northwind Energy" --file article.txt
  curl -s https://news.example/article | pulse analyze -c 1 -o json`,
		Args: cobra.NoArgs,
		RunE: a.runAnalyze,
	}
	cmd.Flags().StringP("company", "c", "", "company id or exact name")
	cmd.Flags().StringP("text", "t", "", "news text to analyze")
	cmd.Flags().StringP("file", "f", "", "read news text from a file (- for stdin)")
	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	ctx := logging.WithView(cmd.Context(), "analyze")

	ref, _ := cmd.Flags().GetString("company")
	text, err := newsText(cmd)
	if err != nil {
		return err
	}

	var companyID int64
	if strings.TrimSpace(ref) != "" {
		companies, err := a.client.ListCompanies(ctx)
		if err != nil {
			return err
		}
		company, err := resolveCompany(companies, ref)
		if err != nil {
			return err
		}
		companyID = company.ID
	}

	req := esg.AnalyzeRequest{CompanyID: companyID, NewsText: text}
	if err := req.Validate(); err != nil {
		return err
	}

	spinner := report.NewSpinner(cmd.ErrOrStderr(), a.cfg.UI.LoadingInterval)
	spinner.Start()
	result, err := a.client.Analyze(ctx, req)
	spinner.Stop()
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info("analysis complete", "company_id", companyID, "score", result.Score)
	return a.printer.Analysis(result)
}

// newsText reads --text, --file or piped stdin, in that order.
func newsText(cmd *cobra.Command) (string, error) {
	if text, _ := cmd.Flags().GetString("text"); strings.TrimSpace(text) != "" {
		return text, nil
	}

	path, _ := cmd.Flags().GetString("file")
	var r io.Reader
	switch {
	case path == "-":
		r = cmd.InOrStdin()
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open news file: %w", err)
		}
		defer f.Close()
		r = f
	default:
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && report.IsInteractive(f) {
			return "", nil
		}
		r = in
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read news text: %w", err)
	}
	return string(data), nil
}

// resolveCompany finds a company by id or by case-insensitive name.
func resolveCompany(companies []esg.Company, ref string) (esg.Company, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, c := range companies {
			if c.ID == id {
				return c, nil
			}
		}
	}
	for _, c := range companies {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return esg.Company{}, errors.WithSuggestion(errors.ErrNotFound,
		fmt.Sprintf("company %q not found", ref),
		"List the tracked companies with: pulse companies list")
}
