package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/mockapi"
)

func newDemoServerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo-server",
		Short: "Run an in-memory demo backend",
		Long: `Run a local backend that implements the PulseESG API in memory.

Analyses are scored by a keyword model instead of the AI service, so the
dashboard can be tried offline. Point pulse at it with
PULSE_API_BASE_URL=http://localhost:8080/api.

Seeded account: ` + mockapi.DemoEmail + ` / ` + mockapi.DemoPassword + `

Examples:
  pulse demo-server
  pulse demo-server --addr :9090 --analyze-delay 5s`,
		Args: cobra.NoArgs,
		RunE: a.runDemoServer,
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Bool("seed", true, "add the demo users and companies")
	cmd.Flags().Duration("analyze-delay", 0, "delay every analysis to mimic a slow AI service")
	cmd.Flags().String("secret", "", "token signing secret (random when empty)")
	return cmd
}

func (a *app) runDemoServer(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	seed, _ := cmd.Flags().GetBool("seed")
	delay, _ := cmd.Flags().GetDuration("analyze-delay")
	secret, _ := cmd.Flags().GetString("secret")

	srv, err := mockapi.New(mockapi.Options{
		Secret:       secret,
		TokenTTL:     24 * time.Hour,
		AnalyzeDelay: delay,
		Seed:         seed,
		Logger:       logging.Global(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Demo backend listening on %s (Ctrl+C to stop)\n", addr)
	if seed {
		cmd.Printf("Sign in with %s / %s\n", mockapi.DemoEmail, mockapi.DemoPassword)
	}
	return srv.Run(ctx, addr)
}
