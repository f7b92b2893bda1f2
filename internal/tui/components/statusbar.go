package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// NoticeKind selects the color of a status bar notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// StatusBarData contains the data to display in the status bar.
type StatusBarData struct {
	Theme      string
	Notice     string
	NoticeKind NoticeKind
	Shortcuts  []ShortcutDef
}

// StatusBar shows the current notice on the left and shortcuts on the right.
type StatusBar struct {
	data  StatusBarData
	width int
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetData updates the status bar data.
func (s *StatusBar) SetData(data StatusBarData) {
	s.data = data
}

// SetNotice sets the message on the left. Empty clears it.
func (s *StatusBar) SetNotice(msg string, kind NoticeKind) {
	s.data.Notice = msg
	s.data.NoticeKind = kind
}

// Notice returns the current message.
func (s *StatusBar) Notice() string {
	return s.data.Notice
}

// SetTheme sets the theme name shown on the left.
func (s *StatusBar) SetTheme(theme string) {
	s.data.Theme = theme
}

// SetShortcuts replaces the shortcuts on the right.
func (s *StatusBar) SetShortcuts(shortcuts []ShortcutDef) {
	s.data.Shortcuts = shortcuts
}

// SetWidth sets the width of the status bar.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	sep := lipgloss.NewStyle().Foreground(styles.Muted).Render(" │ ")

	left := ""
	if s.data.Theme != "" {
		left = styles.HeaderLabelStyle.Render("Theme: ") + styles.TextStyle.Render(s.data.Theme)
	}
	if s.data.Notice != "" {
		style := styles.MutedTextStyle.Italic(true)
		switch s.data.NoticeKind {
		case NoticeSuccess:
			style = styles.SuccessTextStyle
		case NoticeError:
			style = styles.ErrorTextStyle
		}
		if left != "" {
			left += sep
		}
		left += style.Render(s.data.Notice)
	}

	right := NewShortcutBar(s.data.Shortcuts...).View()

	container := lipgloss.NewStyle().Background(styles.Background).Padding(0, 1)
	if s.width > 0 {
		container = container.Width(s.width)
		padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		if padding > 0 {
			return container.Render(left + strings.Repeat(" ", padding) + right)
		}
	}
	return container.Render(left + "  " + right)
}
