package components

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// Option is one choice of a Select.
type Option struct {
	Label string
	Value string
}

// SelectChangedMsg is sent when the selection of a Select changes.
type SelectChangedMsg struct {
	ID    string
	Value string
}

// Select cycles through a fixed set of options with ←/→.
type Select struct {
	id          string
	label       string
	options     []Option
	index       int
	focused     bool
	placeholder string
}

// NewSelect creates a new Select component.
func NewSelect(id, label string, options ...Option) *Select {
	return &Select{id: id, label: label, options: options}
}

// ID returns the component's unique identifier.
func (s *Select) ID() string {
	return s.id
}

// Focus focuses the select.
func (s *Select) Focus() tea.Cmd {
	s.focused = true
	return nil
}

// Blur removes focus from the select.
func (s *Select) Blur() {
	s.focused = false
}

// Focused returns whether the select is focused.
func (s *Select) Focused() bool {
	return s.focused
}

// SetPlaceholder sets the text shown when there are no options.
func (s *Select) SetPlaceholder(p string) {
	s.placeholder = p
}

// SetOptions replaces the options, keeping the current value if still present.
func (s *Select) SetOptions(options []Option) {
	prev := s.Value()
	s.options = options
	s.index = 0
	for i, o := range options {
		if o.Value == prev {
			s.index = i
			break
		}
	}
}

// Options returns the options.
func (s *Select) Options() []Option {
	return s.options
}

// Value returns the selected value, or "" when there are no options.
func (s *Select) Value() string {
	if s.index < 0 || s.index >= len(s.options) {
		return ""
	}
	return s.options[s.index].Value
}

// SetValue selects the option with value v. It returns false if none matches.
func (s *Select) SetValue(v string) bool {
	for i, o := range s.options {
		if o.Value == v {
			s.index = i
			return true
		}
	}
	return false
}

// Next selects the following option, wrapping around.
func (s *Select) Next() {
	if len(s.options) > 0 {
		s.index = (s.index + 1) % len(s.options)
	}
}

// Prev selects the previous option, wrapping around.
func (s *Select) Prev() {
	if len(s.options) > 0 {
		s.index = (s.index - 1 + len(s.options)) % len(s.options)
	}
}

// Update handles ←/→ (and h/l) while focused.
func (s *Select) Update(msg tea.Msg) (*Select, tea.Cmd) {
	if !s.focused {
		return s, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	before := s.index
	switch key.String() {
	case "right", "l":
		s.Next()
	case "left", "h":
		s.Prev()
	}
	if s.index == before {
		return s, nil
	}
	id, value := s.id, s.Value()
	return s, func() tea.Msg { return SelectChangedMsg{ID: id, Value: value} }
}

// View renders "Label: ‹ value ›".
func (s *Select) View() string {
	labelStyle := styles.FormLabelStyle
	valueStyle := styles.FormInputStyle
	if s.focused {
		labelStyle = styles.FormLabelFocusedStyle
		valueStyle = styles.FormInputFocusedStyle
	}

	current := s.placeholder
	if s.index < len(s.options) && len(s.options) > 0 {
		current = s.options[s.index].Label
	}
	if current == "" {
		current = "—"
	}
	return labelStyle.Render(s.label+": ") + valueStyle.Render("‹ "+current+" ›")
}
