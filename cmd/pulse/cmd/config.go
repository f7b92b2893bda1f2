package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulseesg/pulse/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initC := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write config.yaml with every setting at its default value.

The file is written to --config, or to ` + config.DefaultPath() + `.
Use --force to overwrite an existing file.

Examples:
  pulse config init
  pulse config init --config ./pulse.yaml --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStandalone: "true"},
		RunE:        a.runConfigInit,
	}
	initC.Flags().BoolP("force", "f", false, "overwrite an existing file")

	cmd.AddCommand(initC)
	return cmd
}

func (a *app) runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := a.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Save(config.NewConfig(), path); err != nil {
		return err
	}

	cmd.Printf("✓ Wrote %s\n", path)
	cmd.Println("Edit it to point api.base_url at your backend, then run 'pulse login'.")
	return nil
}
