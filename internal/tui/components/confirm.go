package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// ConfirmAction represents the action being confirmed.
type ConfirmAction string

const (
	// ConfirmActionDeleteCompany is for deleting a company.
	ConfirmActionDeleteCompany ConfirmAction = "delete-company"
	// ConfirmActionLogout is for signing out.
	ConfirmActionLogout ConfirmAction = "logout"
)

// ConfirmDialog displays a confirmation prompt for destructive actions.
type ConfirmDialog struct {
	visible     bool
	action      ConfirmAction
	target      int64
	title       string
	message     string
	width       int
	destructive bool
}

// NewConfirmDialog creates a new ConfirmDialog component.
func NewConfirmDialog() *ConfirmDialog {
	return &ConfirmDialog{width: 50}
}

// Show displays the dialog with the given action, title, and message.
func (c *ConfirmDialog) Show(action ConfirmAction, title, message string, destructive bool) {
	c.visible = true
	c.action = action
	c.title = title
	c.message = message
	c.destructive = destructive
	c.target = 0
}

// ShowDeleteCompany asks before deleting company id.
func (c *ConfirmDialog) ShowDeleteCompany(id int64, name string) {
	c.Show(ConfirmActionDeleteCompany, "Delete Company?",
		"Delete "+name+"?\nIts analysis history will no longer be shown.",
		true)
	c.target = id
}

// ShowLogout asks before signing out.
func (c *ConfirmDialog) ShowLogout() {
	c.Show(ConfirmActionLogout, "Sign Out?",
		"Your session token will be removed from this machine.",
		false)
}

// Hide hides the dialog.
func (c *ConfirmDialog) Hide() {
	c.visible = false
}

// IsVisible returns whether the dialog is visible.
func (c *ConfirmDialog) IsVisible() bool {
	return c.visible
}

// Action returns the current action being confirmed.
func (c *ConfirmDialog) Action() ConfirmAction {
	return c.action
}

// SetSize sets the dialog width.
func (c *ConfirmDialog) SetSize(width int) {
	c.width = width
}

// Update handles input messages.
func (c *ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	if !c.visible {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch strings.ToLower(msg.String()) {
		case "y", "enter":
			action, target := c.action, c.target
			c.Hide()
			return func() tea.Msg {
				return ConfirmYesMsg{Action: action, Target: target}
			}
		case "n", "esc":
			c.Hide()
			return func() tea.Msg {
				return ConfirmNoMsg{}
			}
		}
	}
	return nil
}

// View renders the confirmation dialog.
func (c *ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	var b strings.Builder

	accent := styles.Warning
	if c.destructive {
		accent = styles.Error
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Background(accent).
		Bold(true).
		Padding(0, 1).
		Width(c.width - 4)
	b.WriteString(titleStyle.Render("  " + c.title))
	b.WriteString("\n\n")

	msgStyle := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Width(c.width - 8)
	b.WriteString(msgStyle.Render(c.message))
	b.WriteString("\n\n")

	yesStyle := styles.ButtonDangerStyle
	if !c.destructive {
		yesStyle = styles.ButtonPrimaryStyle
	}
	b.WriteString(yesStyle.Render("[Y]es"))
	b.WriteString("  ")
	b.WriteString(styles.ButtonSecondaryUnfocusedStyle.Render("[N]o"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(accent).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}

// ConfirmYesMsg is sent when the user confirms.
type ConfirmYesMsg struct {
	Action ConfirmAction
	// Target is the company id for deletes.
	Target int64
}

// ConfirmNoMsg is sent when the user cancels.
type ConfirmNoMsg struct{}
