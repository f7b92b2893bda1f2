package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pulseesg/pulse/internal/errors"
)

func newLoginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the PulseESG backend",
		Long: `Sign in and store the session token for later commands.

Missing credentials are prompted for; the password is read without echo
when stdin is a terminal.

Examples:
  pulse login --email analyst@pulse.dev
  echo "$PASSWORD" | pulse login --email analyst@pulse.dev`,
		Args: cobra.NoArgs,
		RunE: a.runLogin,
	}
	cmd.Flags().StringP("email", "e", "", "account email")
	cmd.Flags().StringP("password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func (a *app) runLogin(cmd *cobra.Command, args []string) error {
	email, password, err := credentials(cmd)
	if err != nil {
		return err
	}

	// A rejected login is not an expired session.
	a.client.OnSessionExpired(nil)
	resp, err := a.client.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	return a.printer.Message("✓ Signed in as %s (%s)", email, resp.Role)
}

func newRegisterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account on the backend. Registering does not sign you in;
run pulse login afterwards.`,
		Args: cobra.NoArgs,
		RunE: a.runRegister,
	}
	cmd.Flags().StringP("email", "e", "", "account email")
	cmd.Flags().StringP("password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func (a *app) runRegister(cmd *cobra.Command, args []string) error {
	email, password, err := credentials(cmd)
	if err != nil {
		return err
	}
	a.client.OnSessionExpired(nil)
	if _, err := a.client.Register(cmd.Context(), email, password); err != nil {
		return err
	}
	return a.printer.Message("✓ Registered %s. Sign in with: pulse login --email %s", email, email)
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			return a.printer.Message("✓ Signed out.")
		},
	}
}

// credentials reads --email and --password, prompting for what is missing.
func credentials(cmd *cobra.Command) (string, string, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	in := bufio.NewReader(cmd.InOrStdin())
	var err error
	if strings.TrimSpace(email) == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
		if email, err = readLine(in); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		if password, err = readPassword(cmd.InOrStdin(), in); err != nil {
			return "", "", err
		}
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", "", errors.Validation("", errors.MsgCredentialsRequired)
	}
	return email, password, nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo from a terminal, or a plain line otherwise.
func readPassword(raw io.Reader, buffered *bufio.Reader) (string, error) {
	if f, ok := raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	line, err := buffered.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
