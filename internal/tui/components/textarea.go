package components

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// TextArea is a multi-line input for news text.
type TextArea struct {
	model   textarea.Model
	label   string
	id      string
	focused bool
}

// NewTextArea creates a new TextArea component.
func NewTextArea(id, label string) *TextArea {
	ta := textarea.New()
	ta.CharLimit = 20000
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(6)

	return &TextArea{model: ta, label: label, id: id}
}

// ID returns the component's unique identifier.
func (t *TextArea) ID() string {
	return t.id
}

// Focus focuses the text area.
func (t *TextArea) Focus() tea.Cmd {
	t.focused = true
	return t.model.Focus()
}

// Blur removes focus from the text area.
func (t *TextArea) Blur() {
	t.focused = false
	t.model.Blur()
}

// Focused returns whether the text area is focused.
func (t *TextArea) Focused() bool {
	return t.focused
}

// Value returns the text.
func (t *TextArea) Value() string {
	return t.model.Value()
}

// SetValue replaces the text.
func (t *TextArea) SetValue(s string) {
	t.model.SetValue(s)
}

// SetPlaceholder sets the placeholder text.
func (t *TextArea) SetPlaceholder(s string) {
	t.model.Placeholder = s
}

// SetSize sets the editing area size.
func (t *TextArea) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	t.model.SetWidth(width)
	t.model.SetHeight(height)
}

// Reset clears the text.
func (t *TextArea) Reset() {
	t.model.Reset()
}

// Update handles messages for the text area.
func (t *TextArea) Update(msg tea.Msg) (*TextArea, tea.Cmd) {
	if !t.focused {
		return t, nil
	}
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return t, cmd
}

// View renders the label above the editing area.
func (t *TextArea) View() string {
	labelStyle := styles.FormLabelStyle
	box := styles.BoxStyle
	if t.focused {
		labelStyle = styles.FormLabelFocusedStyle
		box = styles.FocusedBoxStyle
	}
	return labelStyle.Render(t.label+":") + "\n" + box.Render(t.model.View())
}
