package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulseesg/pulse/internal/api"
	"github.com/pulseesg/pulse/internal/config"
	"github.com/pulseesg/pulse/internal/session"
)

// Runner runs the dashboard and bridges API client callbacks into it.
type Runner struct {
	model   *Model
	program *tea.Program
}

// NewRunner creates the dashboard program for client. A 401/403 seen by
// the client is forwarded as SessionExpiredMsg.
func NewRunner(ctx context.Context, cfg *config.Config, store *session.Store, client *api.Client, opts ...tea.ProgramOption) *Runner {
	model := New(Deps{Config: cfg, Session: store, Backend: client})
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(model, opts...)

	client.OnSessionExpired(func(status int) {
		program.Send(SessionExpiredMsg{Status: status})
	})

	return &Runner{model: model, program: program}
}

// Run blocks until the user quits or ctx is cancelled.
func (r *Runner) Run() error {
	_, err := r.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Program returns the tea.Program for external access.
func (r *Runner) Program() *tea.Program {
	return r.program
}

// Model returns the dashboard model.
func (r *Runner) Model() *Model {
	return r.model
}
