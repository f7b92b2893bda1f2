// Package cmd provides the CLI commands for pulse.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pulseesg/pulse/internal/api"
	"github.com/pulseesg/pulse/internal/config"
	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/report"
	"github.com/pulseesg/pulse/internal/session"
	"github.com/pulseesg/pulse/internal/tui"
)

// Version information - set via ldflags at build time in main.go.
// These are exported so main.go can set them before Execute().
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// annotationStandalone marks commands that run without config, logging or
// an API client.
const annotationStandalone = "pulse/standalone"

// app holds what the persistent pre-run builds for every subcommand.
type app struct {
	configPath string
	verbose    bool
	output     string

	cfg     *config.Config
	store   *session.Store
	client  *api.Client
	printer *report.Printer
	logOpen bool

	// expired is the status of the response that cleared the session.
	expired int
}

// newRootCmd builds the full command hierarchy. Each call returns a fresh
// tree because cobra commands keep flag state between runs.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "pulse",
		Short: "PulseESG - ESG risk analytics dashboard",
		Long: `Pulse is a terminal dashboard for ESG risk analytics.

It signs in to a PulseESG backend, tracks companies, submits news text
for AI risk analysis and charts the resulting scores over time.

Run without a subcommand to open the dashboard. The subcommands expose the
same data for scripting; add --output json for machine-readable output.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runDashboard,
	}
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	root.SetVersionTemplate("pulse {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")
	flags.StringVarP(&a.output, "output", "o", string(report.FormatText), "output format: text or json")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newCompaniesCmd(a),
		newAnalyzeCmd(a),
		newHistoryCmd(a),
		newOverviewCmd(a),
		newProfileCmd(a),
		newDemoServerCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)

	return root, a
}

// setup prepares everything but standalone commands.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[annotationStandalone] != "" {
		return nil
	}
	return a.connect(cmd)
}

// connect loads configuration, opens the log file and builds the session
// store and API client.
func (a *app) connect(cmd *cobra.Command) error {
	format, err := report.ParseFormat(a.output)
	if err != nil {
		return errors.Validation("output", err.Error())
	}
	a.printer = report.NewPrinter(cmd.OutOrStdout(), format)

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return configError(err)
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return errors.ConfigValidationError("log.level", err.Error(), []string{"debug", "info", "warn", "error"})
	}
	if a.verbose {
		level = logging.LevelDebug
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.LogDir = cfg.Log.Dir
	logCfg.JSONFormat = cfg.Log.JSON
	logCfg.Console = false
	if err := logging.InitGlobal(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	a.logOpen = true
	logging.Info("pulse starting", "version", Version, "command", cmd.CommandPath())
	if a.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Logging to %s\n", logging.Global().LogPath())
	}

	a.store = session.NewStore(cfg.Session.Path)
	if err := a.store.Load(); err != nil {
		return err
	}

	a.client = api.New(api.OptionsFromConfig(cfg, a.store))
	a.client.OnSessionExpired(func(status int) {
		a.expired = status
	})
	return nil
}

// close releases what setup opened.
func (a *app) close() {
	if a.logOpen {
		_ = logging.CloseGlobal()
		a.logOpen = false
	}
}

// requireLogin fails fast when there is no stored token.
func (a *app) requireLogin() error {
	if !a.store.LoggedIn() {
		return errors.NotLoggedIn()
	}
	return nil
}

// runDashboard starts the TUI.
func (a *app) runDashboard(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("starting dashboard", "base_url", a.cfg.API.BaseURL)
	runner := tui.NewRunner(ctx, a.cfg, a.store, a.client,
		tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
	if err := runner.Run(); err != nil {
		return fmt.Errorf("dashboard exited: %w", err)
	}
	return nil
}

// configError turns a config.LoadError into a pulse error with a suggestion.
func configError(err error) error {
	var loadErr *config.LoadError
	if !errors.As(err, &loadErr) {
		return err
	}
	var verrs config.ValidationErrors
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		return errors.ConfigValidationError(verrs[0].Field, verrs.Error(), nil)
	case os.IsNotExist(loadErr.Err):
		return errors.ConfigNotFound(loadErr.Path)
	default:
		return errors.ConfigParseError(loadErr.Path, loadErr.Err)
	}
}

// Execute runs the root command and prints errors with their suggestions.
// This is called by main.main().
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, a := newRootCmd()
	defer a.close()

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.fail(stderr, err)
		return 1
	}
	return 0
}

// fail logs err and prints it. An auth failure that cleared the session is
// reported as an expired session.
func (a *app) fail(w io.Writer, err error) {
	if a.expired != 0 && errors.IsAuth(err) {
		err = errors.SessionExpired(a.expired).WithCause(err)
	}

	switch {
	case errors.IsValidation(err):
		logging.Debug("input rejected", "error", err)
	case errors.IsConnectivity(err):
		logging.Warn("backend unreachable", "error", err)
	default:
		logging.Error("command failed", "status", errors.StatusOf(err), "error", err)
	}
	printError(w, err)
}

// printError writes err, using the detailed format for pulse errors.
func printError(w io.Writer, err error) {
	var perr *errors.Error
	if errors.As(err, &perr) {
		fmt.Fprintln(w, perr.Format())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
