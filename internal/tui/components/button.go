package components

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// ButtonStyle represents the visual style of a button.
type ButtonStyle int

const (
	// ButtonStylePrimary is the default button style.
	ButtonStylePrimary ButtonStyle = iota
	// ButtonStyleSecondary is a less prominent button style.
	ButtonStyleSecondary
	// ButtonStyleDanger is for destructive actions.
	ButtonStyleDanger
)

// Button is a clickable button component.
type Button struct {
	label    string
	focused  bool
	disabled bool
	id       string
	style    ButtonStyle
}

// NewButton creates a new Button component.
func NewButton(id, label string) *Button {
	return &Button{
		label: label,
		id:    id,
		style: ButtonStylePrimary,
	}
}

// ID returns the component's unique identifier.
func (b *Button) ID() string {
	return b.id
}

// Focus focuses the button.
func (b *Button) Focus() tea.Cmd {
	b.focused = true
	return nil
}

// Blur removes focus from the button.
func (b *Button) Blur() {
	b.focused = false
}

// Focused returns whether the button is focused.
func (b *Button) Focused() bool {
	return b.focused
}

// SetStyle sets the button style.
func (b *Button) SetStyle(style ButtonStyle) {
	b.style = style
}

// SetLabel sets the button label.
func (b *Button) SetLabel(label string) {
	b.label = label
}

// Label returns the button label.
func (b *Button) Label() string {
	return b.label
}

// SetDisabled prevents activation, e.g. while a request is in flight.
func (b *Button) SetDisabled(disabled bool) {
	b.disabled = disabled
}

// Disabled reports whether the button ignores activation.
func (b *Button) Disabled() bool {
	return b.disabled
}

// Update handles messages for the button.
// Returns true if the button was activated.
func (b *Button) Update(msg tea.Msg) (*Button, tea.Cmd, bool) {
	if !b.focused || b.disabled {
		return b, nil, false
	}

	activated := false
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", " ":
			activated = true
		}
	}

	return b, nil, activated
}

// View renders the button.
func (b *Button) View() string {
	if b.disabled {
		return styles.ButtonSecondaryUnfocusedStyle.Render(b.label)
	}

	if b.focused {
		switch b.style {
		case ButtonStyleSecondary:
			return styles.ButtonSecondaryStyle.Render(b.label)
		case ButtonStyleDanger:
			return styles.ButtonDangerStyle.Render(b.label)
		default:
			return styles.ButtonPrimaryStyle.Render(b.label)
		}
	}

	switch b.style {
	case ButtonStyleSecondary:
		return styles.ButtonSecondaryUnfocusedStyle.Render(b.label)
	case ButtonStyleDanger:
		return styles.ButtonDangerUnfocusedStyle.Render(b.label)
	default:
		return styles.ButtonPrimaryUnfocusedStyle.Render(b.label)
	}
}
