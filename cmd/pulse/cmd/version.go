package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show detailed version information for pulse.

Displays the current version, commit hash, build date,
and Go/platform information. With --check, also asks the configured
backend which API revision it serves.

Examples:
  pulse version           # Show detailed version info
  pulse version --check   # Check the backend is compatible`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStandalone: "true"},
		RunE:        a.runVersion,
	}
	cmd.Flags().BoolP("check", "c", false, "check the configured backend is compatible")
	return cmd
}

func (a *app) runVersion(cmd *cobra.Command, args []string) error {
	info := version.NewInfo(Version, Commit, Date)
	cmd.Println(info.FullString())

	if check, _ := cmd.Flags().GetBool("check"); !check {
		return nil
	}
	if err := a.connect(cmd); err != nil {
		return err
	}

	cmd.Println("")
	cmd.Printf("Checking backend at %s...\n", a.client.BaseURL())
	backend, err := a.client.BackendVersion(cmd.Context())
	if err != nil {
		return err
	}

	result := version.Check(*backend)
	logging.Info("backend version", "version", backend.Version, "api", backend.API, "compatible", result.OK)
	cmd.Println(result.String())
	return nil
}
