package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// FormField is the interface that all form fields must implement.
type FormField interface {
	ID() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	View() string
}

// FormSubmittedMsg is sent when a form is submitted.
type FormSubmittedMsg struct {
	FormID string
}

// FormCanceledMsg is sent when a form is canceled.
type FormCanceledMsg struct {
	FormID string
}

// Form is a container for form fields with navigation support.
type Form struct {
	id         string
	title      string
	fields     []FormField
	focusIndex int
	width      int
	submitted  bool
	canceled   bool
	showHelp   bool
	err        string
}

// NewForm creates a new Form container.
func NewForm(id, title string) *Form {
	return &Form{
		id:       id,
		title:    title,
		fields:   []FormField{},
		showHelp: true,
	}
}

// ID returns the form's unique identifier.
func (f *Form) ID() string {
	return f.id
}

// AddField adds a field to the form.
func (f *Form) AddField(field FormField) {
	f.fields = append(f.fields, field)
}

// AddFields adds multiple fields to the form.
func (f *Form) AddFields(fields ...FormField) {
	f.fields = append(f.fields, fields...)
}

// SetWidth sets the form width.
func (f *Form) SetWidth(width int) {
	f.width = width
	for _, field := range f.fields {
		if ti, ok := field.(*TextInput); ok {
			ti.SetWidth(width)
		}
	}
}

// SetShowHelp sets whether to show help text.
func (f *Form) SetShowHelp(show bool) {
	f.showHelp = show
}

// SetError shows an inline error under the fields. Empty clears it.
func (f *Form) SetError(msg string) {
	f.err = msg
}

// Error returns the inline error.
func (f *Form) Error() string {
	return f.err
}

// FocusIndex returns the current focus index.
func (f *Form) FocusIndex() int {
	return f.focusIndex
}

// FocusedField returns the currently focused field, or nil if none.
func (f *Form) FocusedField() FormField {
	if f.focusIndex >= 0 && f.focusIndex < len(f.fields) {
		return f.fields[f.focusIndex]
	}
	return nil
}

// GetField returns a field by ID.
func (f *Form) GetField(id string) FormField {
	for _, field := range f.fields {
		if field.ID() == id {
			return field
		}
	}
	return nil
}

// Value returns the text of the input, text area or select with the given ID.
func (f *Form) Value(id string) string {
	switch field := f.GetField(id).(type) {
	case *TextInput:
		return field.Value()
	case *TextArea:
		return field.Value()
	case *Select:
		return field.Value()
	default:
		return ""
	}
}

// Fields returns all form fields.
func (f *Form) Fields() []FormField {
	return f.fields
}

// Focus focuses the form (focuses first field).
func (f *Form) Focus() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.Blur()
	f.focusIndex = 0
	return f.fields[0].Focus()
}

// Blur blurs all fields in the form.
func (f *Form) Blur() {
	for _, field := range f.fields {
		field.Blur()
	}
}

// Focused reports whether any field has focus.
func (f *Form) Focused() bool {
	for _, field := range f.fields {
		if field.Focused() {
			return true
		}
	}
	return false
}

// NextField moves focus to the next field.
func (f *Form) NextField() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	return f.FocusField((f.focusIndex + 1) % len(f.fields))
}

// PrevField moves focus to the previous field.
func (f *Form) PrevField() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	return f.FocusField((f.focusIndex - 1 + len(f.fields)) % len(f.fields))
}

// FocusField focuses a specific field by index.
func (f *Form) FocusField(index int) tea.Cmd {
	if index < 0 || index >= len(f.fields) {
		return nil
	}

	if f.focusIndex >= 0 && f.focusIndex < len(f.fields) {
		f.fields[f.focusIndex].Blur()
	}

	f.focusIndex = index
	return f.fields[f.focusIndex].Focus()
}

// Submitted returns whether the form was submitted.
func (f *Form) Submitted() bool {
	return f.submitted
}

// Canceled returns whether the form was canceled.
func (f *Form) Canceled() bool {
	return f.canceled
}

// Reset clears every input and the error, and resets the form state.
func (f *Form) Reset() {
	f.submitted = false
	f.canceled = false
	f.err = ""
	f.focusIndex = 0
	for _, field := range f.fields {
		switch field := field.(type) {
		case *TextInput:
			field.Reset()
		case *TextArea:
			field.Reset()
		}
	}
}

func (f *Form) submit() tea.Cmd {
	f.submitted = true
	id := f.id
	return func() tea.Msg {
		return FormSubmittedMsg{FormID: id}
	}
}

// Update handles messages for the form.
// It handles Tab/Shift+Tab navigation and delegates other messages to focused field.
// Enter in a single-line input moves on, or submits from the last input.
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab":
			return f, f.NextField()

		case "shift+tab":
			return f, f.PrevField()

		case "esc":
			f.canceled = true
			id := f.id
			return f, func() tea.Msg {
				return FormCanceledMsg{FormID: id}
			}

		case "enter":
			if _, ok := f.FocusedField().(*TextInput); ok {
				if f.focusIndex == f.lastInputIndex() && !f.hasButton() {
					return f, f.submit()
				}
				return f, f.NextField()
			}
		}
	}

	if f.focusIndex >= 0 && f.focusIndex < len(f.fields) {
		switch typedField := f.fields[f.focusIndex].(type) {
		case *TextInput:
			updatedField, cmd := typedField.Update(msg)
			f.fields[f.focusIndex] = updatedField
			cmds = append(cmds, cmd)
		case *TextArea:
			updatedField, cmd := typedField.Update(msg)
			f.fields[f.focusIndex] = updatedField
			cmds = append(cmds, cmd)
		case *Select:
			updatedField, cmd := typedField.Update(msg)
			f.fields[f.focusIndex] = updatedField
			cmds = append(cmds, cmd)
		case *Button:
			updatedField, cmd, activated := typedField.Update(msg)
			f.fields[f.focusIndex] = updatedField
			cmds = append(cmds, cmd)
			if activated {
				cmds = append(cmds, f.submit())
			}
		}
	}

	return f, tea.Batch(cmds...)
}

func (f *Form) lastInputIndex() int {
	last := -1
	for i, field := range f.fields {
		if _, ok := field.(*TextInput); ok {
			last = i
		}
	}
	return last
}

func (f *Form) hasButton() bool {
	for _, field := range f.fields {
		if _, ok := field.(*Button); ok {
			return true
		}
	}
	return false
}

// View renders the form.
func (f *Form) View() string {
	var b strings.Builder

	if f.title != "" {
		b.WriteString(styles.FormTitleStyle.Render(f.title))
		b.WriteString("\n\n")
	}

	for i, field := range f.fields {
		b.WriteString("  ")
		b.WriteString(field.View())
		if i < len(f.fields)-1 {
			b.WriteString("\n")
		}
	}

	if f.err != "" {
		b.WriteString("\n\n  ")
		b.WriteString(styles.ErrorTextStyle.Render("✗ " + f.err))
	}

	if f.showHelp {
		b.WriteString("\n\n")
		sep := styles.HelpStyle.Render(" │ ")
		help := styles.KeyStyle.Render("Tab") + styles.HelpStyle.Render(": next field") + sep +
			styles.KeyStyle.Render("Shift+Tab") + styles.HelpStyle.Render(": prev field") + sep +
			styles.KeyStyle.Render("Enter") + styles.HelpStyle.Render(": submit") + sep +
			styles.KeyStyle.Render("Esc") + styles.HelpStyle.Render(": cancel")
		b.WriteString("  " + help)
	}

	return b.String()
}
