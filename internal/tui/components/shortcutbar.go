package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// ShortcutDef defines a single keyboard shortcut.
type ShortcutDef struct {
	Key  string
	Desc string
}

// ShortcutBar is a component that displays contextual keyboard shortcuts.
type ShortcutBar struct {
	shortcuts []ShortcutDef
	width     int
	centered  bool
}

// NewShortcutBar creates a new ShortcutBar with the given shortcuts.
func NewShortcutBar(shortcuts ...ShortcutDef) *ShortcutBar {
	return &ShortcutBar{shortcuts: shortcuts}
}

// SetShortcuts replaces all shortcuts.
func (s *ShortcutBar) SetShortcuts(shortcuts ...ShortcutDef) {
	s.shortcuts = shortcuts
}

// SetWidth sets the bar width for alignment.
func (s *ShortcutBar) SetWidth(width int) {
	s.width = width
}

// SetCentered controls whether the bar content is centered.
func (s *ShortcutBar) SetCentered(centered bool) {
	s.centered = centered
}

// View renders the shortcut bar.
func (s *ShortcutBar) View() string {
	if len(s.shortcuts) == 0 {
		return ""
	}

	parts := make([]string, 0, len(s.shortcuts))
	for _, sc := range s.shortcuts {
		parts = append(parts, styles.KeyStyle.Render(sc.Key)+styles.HelpStyle.Render(":"+sc.Desc))
	}
	content := strings.Join(parts, lipgloss.NewStyle().Foreground(styles.Muted).Render(" │ "))

	if s.centered && s.width > 0 {
		return lipgloss.NewStyle().Width(s.width).Align(lipgloss.Center).Render(content)
	}
	return content
}

// Predefined shortcut sets for the dashboard views.
var (
	// GlobalShortcuts are shown on every signed-in view.
	GlobalShortcuts = []ShortcutDef{
		{"1-5", "views"},
		{"r", "refresh"},
		{"t", "theme"},
		{"?", "help"},
		{"q", "quit"},
	}

	// LoginShortcuts are shortcuts for the login form.
	LoginShortcuts = []ShortcutDef{
		{"Tab", "next"},
		{"Enter", "sign in"},
		{"Ctrl+C", "quit"},
	}

	// FilterShortcuts are shortcuts for views with company/risk filters.
	FilterShortcuts = []ShortcutDef{
		{"c", "company"},
		{"f", "risk filter"},
	}

	// AnalyzeShortcuts are shortcuts for the analyze form.
	AnalyzeShortcuts = []ShortcutDef{
		{"←→", "company"},
		{"Enter", "edit text"},
		{"Ctrl+S", "analyze"},
		{"Esc", "leave input"},
	}

	// CompaniesShortcuts are shortcuts for the company list.
	CompaniesShortcuts = []ShortcutDef{
		{"↑↓", "select"},
		{"/", "search"},
		{"a", "add"},
		{"d", "delete"},
	}

	// InputShortcuts are shown while a text field has focus.
	InputShortcuts = []ShortcutDef{
		{"Enter", "submit"},
		{"Esc", "cancel"},
	}
)
