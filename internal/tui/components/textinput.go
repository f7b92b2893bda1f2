// Package components provides reusable TUI components for the dashboard.
package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// TextInput is a wrapper around the bubbles textinput component
// that integrates with our form system.
type TextInput struct {
	model   textinput.Model
	label   string
	focused bool
	width   int
	id      string
}

// NewTextInput creates a new TextInput component.
func NewTextInput(id, label string) *TextInput {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 30

	return &TextInput{
		model: ti,
		label: label,
		id:    id,
	}
}

// ID returns the component's unique identifier.
func (t *TextInput) ID() string {
	return t.id
}

// Focus focuses the text input.
func (t *TextInput) Focus() tea.Cmd {
	t.focused = true
	return t.model.Focus()
}

// Blur removes focus from the text input.
func (t *TextInput) Blur() {
	t.focused = false
	t.model.Blur()
}

// Focused returns whether the text input is focused.
func (t *TextInput) Focused() bool {
	return t.focused
}

// SetValue sets the text input value.
func (t *TextInput) SetValue(value string) {
	t.model.SetValue(value)
}

// Value returns the current text input value.
func (t *TextInput) Value() string {
	return t.model.Value()
}

// SetPlaceholder sets the placeholder text.
func (t *TextInput) SetPlaceholder(placeholder string) {
	t.model.Placeholder = placeholder
}

// SetPassword masks the input.
func (t *TextInput) SetPassword(on bool) {
	if on {
		t.model.EchoMode = textinput.EchoPassword
		t.model.EchoCharacter = '•'
		return
	}
	t.model.EchoMode = textinput.EchoNormal
}

// SetWidth sets the width of the text input.
func (t *TextInput) SetWidth(width int) {
	t.width = width
	t.model.Width = width - len(t.label) - 5 // Account for label and padding
	if t.model.Width < 10 {
		t.model.Width = 10
	}
}

// SetCharLimit sets the character limit.
func (t *TextInput) SetCharLimit(limit int) {
	t.model.CharLimit = limit
}

// Update handles messages for the text input.
func (t *TextInput) Update(msg tea.Msg) (*TextInput, tea.Cmd) {
	if !t.focused {
		return t, nil
	}

	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t *TextInput) View() string {
	labelStyle := styles.FormLabelStyle
	inputStyle := styles.FormInputStyle
	if t.focused {
		labelStyle = styles.FormLabelFocusedStyle
		inputStyle = styles.FormInputFocusedStyle
	}

	return labelStyle.Render(t.label+": ") + inputStyle.Render(t.model.View())
}

// Reset clears the text input value.
func (t *TextInput) Reset() {
	t.model.Reset()
}
