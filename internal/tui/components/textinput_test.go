package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTextInputTyping(t *testing.T) {
	ti := NewTextInput("email", "Email")

	ti.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if ti.Value() != "" {
		t.Error("unfocused input should ignore keys")
	}

	ti.Focus()
	ti.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a@b.c")})
	if ti.Value() != "a@b.c" {
		t.Errorf("Value() = %q", ti.Value())
	}

	ti.Reset()
	if ti.Value() != "" {
		t.Error("Reset should clear the value")
	}
}

func TestTextInputPassword(t *testing.T) {
	ti := NewTextInput("password", "Password")
	ti.SetPassword(true)
	ti.SetValue("hunter2")
	ti.Focus()

	view := ti.View()
	if strings.Contains(view, "hunter2") {
		t.Error("password should be masked")
	}
	if ti.Value() != "hunter2" {
		t.Error("masking should not change the value")
	}
}

func TestTextInputSetWidth(t *testing.T) {
	ti := NewTextInput("x", "A very long label")
	ti.SetWidth(5)
	if ti.model.Width != 10 {
		t.Errorf("width should clamp to 10, got %d", ti.model.Width)
	}
}
