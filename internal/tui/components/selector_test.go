package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func riskSelect() *Select {
	return NewSelect("risk", "Risk",
		Option{Label: "All", Value: "ALL"},
		Option{Label: "High", Value: "HIGH"},
		Option{Label: "Low", Value: "LOW"},
	)
}

func TestSelectCycle(t *testing.T) {
	s := riskSelect()
	if s.Value() != "ALL" {
		t.Fatalf("initial value = %q", s.Value())
	}

	s.Next()
	s.Next()
	s.Next()
	if s.Value() != "ALL" {
		t.Errorf("Next should wrap, got %q", s.Value())
	}

	s.Prev()
	if s.Value() != "LOW" {
		t.Errorf("Prev should wrap, got %q", s.Value())
	}
}

func TestSelectUpdate(t *testing.T) {
	s := riskSelect()

	if _, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRight}); cmd != nil {
		t.Error("unfocused select should ignore keys")
	}

	s.Focus()
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRight})
	if cmd == nil {
		t.Fatal("expected SelectChangedMsg")
	}
	msg := cmd().(SelectChangedMsg)
	if msg.ID != "risk" || msg.Value != "HIGH" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestSelectSetOptionsKeepsValue(t *testing.T) {
	s := riskSelect()
	s.SetValue("LOW")

	s.SetOptions([]Option{{Label: "Low", Value: "LOW"}, {Label: "Medium", Value: "MEDIUM"}})
	if s.Value() != "LOW" {
		t.Errorf("value should survive SetOptions, got %q", s.Value())
	}

	s.SetOptions([]Option{{Label: "Medium", Value: "MEDIUM"}})
	if s.Value() != "MEDIUM" {
		t.Errorf("missing value should reset to first option, got %q", s.Value())
	}

	if s.SetValue("NOPE") {
		t.Error("SetValue should fail for unknown values")
	}
}

func TestSelectEmpty(t *testing.T) {
	s := NewSelect("company", "Company")
	s.SetPlaceholder("No companies")
	if s.Value() != "" {
		t.Errorf("Value() = %q, want empty", s.Value())
	}
	if !strings.Contains(s.View(), "No companies") {
		t.Errorf("View() = %q", s.View())
	}
}
