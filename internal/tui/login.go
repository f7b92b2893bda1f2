package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/tui/components"
	"github.com/pulseesg/pulse/internal/tui/styles"
)

// msgInvalidCredentials is shown for any rejected sign-in.
const msgInvalidCredentials = "Invalid credentials"

type loginView struct {
	sh       *shared
	form     *components.Form
	email    *components.TextInput
	password *components.TextInput
	pending  bool
	// notice explains why the user landed here, e.g. an expired session.
	notice string
}

func newLoginView(sh *shared) *loginView {
	email := components.NewTextInput("email", "Email")
	email.SetPlaceholder("you@company.com")
	password := components.NewTextInput("password", "Password")
	password.SetPassword(true)

	form := components.NewForm("login", "Sign in to PulseESG")
	form.AddFields(email, password)
	form.SetWidth(50)

	return &loginView{sh: sh, form: form, email: email, password: password}
}

func (v *loginView) Enter() tea.Cmd {
	v.pending = false
	return v.form.Focus()
}

func (v *loginView) Leave() {
	v.form.Blur()
}

func (v *loginView) Sync() {}

func (v *loginView) Capturing() bool {
	return true
}

func (v *loginView) Shortcuts() []components.ShortcutDef {
	return components.LoginShortcuts
}

func (v *loginView) Update(msg tea.Msg) tea.Cmd {
	if v.pending {
		return nil
	}
	if submitted, ok := msg.(components.FormSubmittedMsg); ok && submitted.FormID == "login" {
		return v.submit()
	}
	_, cmd := v.form.Update(msg)
	return cmd
}

// submit signs in with the form values.
func (v *loginView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	v.notice = ""

	if email == "" || password == "" {
		v.form.SetError(errors.MsgCredentialsRequired)
		v.form.FocusField(0)
		return nil
	}

	v.pending = true
	v.form.SetError("")
	backend := v.sh.deps.Backend
	return func() tea.Msg {
		ctx := logging.WithView(context.Background(), "login")
		resp, err := backend.Login(ctx, email, password)
		return loginDoneMsg{resp: resp, err: err}
	}
}

// fail reports a rejected sign-in and lets the user retry.
func (v *loginView) fail(err error) {
	v.pending = false
	v.password.SetValue("")
	if errors.IsAuth(err) {
		v.form.SetError(msgInvalidCredentials)
	} else {
		v.form.SetError(errors.UserMessage(err))
	}
	v.form.FocusField(1)
}

// reset clears the form after a successful sign-in.
func (v *loginView) reset() {
	v.pending = false
	v.notice = ""
	v.form.Reset()
	v.form.Blur()
}

func (v *loginView) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("PulseESG"))
	b.WriteString("  ")
	b.WriteString(styles.MutedTextStyle.Render("ESG risk analytics"))
	b.WriteString("\n\n")
	if v.notice != "" {
		b.WriteString(styles.WarningTextStyle.Render(v.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(v.form.View())
	if v.pending {
		b.WriteString("\n")
		b.WriteString(styles.MutedTextStyle.Render("Signing in..."))
	}
	b.WriteString("\n\n")
	b.WriteString(components.NewShortcutBar(v.Shortcuts()...).View())
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
