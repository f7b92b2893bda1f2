package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/report"
	"github.com/pulseesg/pulse/internal/tui/styles"
)

// Loading shows an animated spinner, a status message and an elapsed
// counter. The owner drives the message and the counter.
type Loading struct {
	spinner spinner.Model
	message string
	elapsed time.Duration
	active  bool
	width   int
}

// NewLoading creates a new Loading component.
func NewLoading() *Loading {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &Loading{spinner: s}
}

// Start activates the indicator and returns the spinner animation command.
func (l *Loading) Start(message string) tea.Cmd {
	l.active = true
	l.message = message
	l.elapsed = 0
	return l.spinner.Tick
}

// Stop deactivates the indicator. Pending spinner ticks are then ignored.
func (l *Loading) Stop() {
	l.active = false
}

// Active reports whether the indicator is running.
func (l *Loading) Active() bool {
	return l.active
}

// SetMessage sets the status text.
func (l *Loading) SetMessage(message string) {
	l.message = message
}

// Message returns the status text.
func (l *Loading) Message() string {
	return l.message
}

// SetElapsed sets the elapsed counter.
func (l *Loading) SetElapsed(d time.Duration) {
	l.elapsed = d
}

// Elapsed returns the elapsed counter.
func (l *Loading) Elapsed() time.Duration {
	return l.elapsed
}

// SetWidth sets the width of the component.
func (l *Loading) SetWidth(width int) {
	l.width = width
}

// Update advances the spinner animation while active.
func (l *Loading) Update(msg tea.Msg) (*Loading, tea.Cmd) {
	if !l.active {
		return l, nil
	}
	if _, ok := msg.(spinner.TickMsg); !ok {
		return l, nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the spinner with status text and elapsed time.
func (l *Loading) View() string {
	if !l.active {
		return ""
	}

	l.spinner.Style = lipgloss.NewStyle().Foreground(styles.Secondary)
	line := fmt.Sprintf("%s %s %s",
		l.spinner.View(),
		styles.TextStyle.Render(l.message),
		styles.MutedTextStyle.Render("("+report.FormatElapsed(l.elapsed)+")"),
	)

	if l.width > 0 {
		return lipgloss.NewStyle().Width(l.width).Padding(0, 1).Render(line)
	}
	return line
}
