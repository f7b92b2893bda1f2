package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/logging"
)

func newCompaniesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Manage tracked companies",
		Long: `List, add and delete the companies the dashboard tracks.

Examples:
  pulse companies list
  pulse companies list --search energy
  pulse companies add --name "Northwind Energy" --sector Utilities --country Germany
  pulse companies delete 3 --yes`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List companies",
		Args:  cobra.NoArgs,
		RunE:  a.runCompaniesList,
	}
	list.Flags().StringP("search", "s", "", "only companies whose name, sector or country contains this text")

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a company",
		Args:  cobra.NoArgs,
		RunE:  a.runCompaniesAdd,
	}
	add.Flags().StringP("name", "n", "", "company name")
	add.Flags().String("sector", "", "industry sector")
	add.Flags().String("country", "", "country of incorporation")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a company",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runCompaniesDelete,
	}
	del.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, add, del)
	return cmd
}

func (a *app) runCompaniesList(cmd *cobra.Command, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	companies, err := a.client.ListCompanies(cmd.Context())
	if err != nil {
		return err
	}
	search, _ := cmd.Flags().GetString("search")
	return a.printer.Companies(esg.SearchCompanies(companies, search))
}

func (a *app) runCompaniesAdd(cmd *cobra.Command, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	var in esg.CompanyInput
	in.Name, _ = cmd.Flags().GetString("name")
	in.Sector, _ = cmd.Flags().GetString("sector")
	in.Country, _ = cmd.Flags().GetString("country")
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return err
	}

	company, err := a.client.CreateCompany(cmd.Context(), in)
	if err != nil {
		return err
	}
	logging.Info("company created", "id", company.ID, "name", company.Name)
	return a.printer.Message("✓ Added %s (id %d)", company.Name, company.ID)
}

func (a *app) runCompaniesDelete(cmd *cobra.Command, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return errors.Validation("id", fmt.Sprintf("invalid company id %q", args[0]))
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		fmt.Fprintf(cmd.ErrOrStderr(), "Delete company %d? This cannot be undone. [y/N] ", id)
		answer, err := readLine(bufio.NewReader(cmd.InOrStdin()))
		if err != nil {
			return err
		}
		if answer = strings.ToLower(answer); answer != "y" && answer != "yes" {
			return a.printer.Message("Cancelled.")
		}
	}

	if err := a.client.DeleteCompany(cmd.Context(), id); err != nil {
		return err
	}
	logging.Info("company deleted", "id", id)
	return a.printer.Message("✓ Deleted company %d", id)
}
