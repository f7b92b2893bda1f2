package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestButtonFocus(t *testing.T) {
	btn := NewButton("btn-id", "Submit")
	if btn.ID() != "btn-id" || btn.Label() != "Submit" {
		t.Fatalf("unexpected button %+v", btn)
	}
	if btn.Focused() {
		t.Error("Button should not be focused initially")
	}

	btn.Focus()
	if !btn.Focused() {
		t.Error("Button should be focused after Focus()")
	}
	btn.Blur()
	if btn.Focused() {
		t.Error("Button should not be focused after Blur()")
	}
}

func TestButtonActivation(t *testing.T) {
	tests := []struct {
		name     string
		focused  bool
		disabled bool
		key      tea.KeyMsg
		want     bool
	}{
		{"enter while focused", true, false, tea.KeyMsg{Type: tea.KeyEnter}, true},
		{"space while focused", true, false, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, true},
		{"other key", true, false, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, false},
		{"unfocused", false, false, tea.KeyMsg{Type: tea.KeyEnter}, false},
		{"disabled", true, true, tea.KeyMsg{Type: tea.KeyEnter}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			btn := NewButton("b", "Go")
			if tt.focused {
				btn.Focus()
			}
			btn.SetDisabled(tt.disabled)
			_, _, activated := btn.Update(tt.key)
			if activated != tt.want {
				t.Errorf("activated = %v, want %v", activated, tt.want)
			}
		})
	}
}

func TestButtonViewAllStyles(t *testing.T) {
	btn := NewButton("b", "Delete")
	for _, style := range []ButtonStyle{ButtonStylePrimary, ButtonStyleSecondary, ButtonStyleDanger} {
		btn.SetStyle(style)
		btn.Blur()
		if btn.View() == "" {
			t.Errorf("style %d unfocused view is empty", style)
		}
		btn.Focus()
		if btn.View() == "" {
			t.Errorf("style %d focused view is empty", style)
		}
	}
}
