package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTableEmpty(t *testing.T) {
	tbl := NewTable(Column{Title: "Name", Weight: 2}, Column{Title: "Sector", Weight: 1})
	tbl.SetEmptyText("No companies found")
	if tbl.Cursor() != -1 {
		t.Errorf("Cursor() = %d, want -1", tbl.Cursor())
	}
	if !strings.Contains(tbl.View(), "No companies found") {
		t.Error("empty table should show the empty text")
	}
}

func TestTableRowsAndCursor(t *testing.T) {
	tbl := NewTable(Column{Title: "Name", Weight: 2}, Column{Title: "Sector", Weight: 1})
	tbl.SetRows([][]string{{"Acme", "Energy"}, {"Beta", "Banking"}, {"Gamma", "Retail"}})
	tbl.Focus()

	tbl.Update(tea.KeyMsg{Type: tea.KeyDown})
	tbl.Update(tea.KeyMsg{Type: tea.KeyDown})
	if tbl.Cursor() != 2 {
		t.Fatalf("Cursor() = %d, want 2", tbl.Cursor())
	}

	tbl.SetRows([][]string{{"Acme", "Energy"}})
	if tbl.Cursor() != 0 {
		t.Errorf("cursor should clamp after rows shrink, got %d", tbl.Cursor())
	}

	view := tbl.View()
	if !strings.Contains(view, "Name") || !strings.Contains(view, "Acme") {
		t.Errorf("View() missing content:\n%s", view)
	}
}

func TestTableCursorAfterEmpty(t *testing.T) {
	tbl := NewTable(Column{Title: "Name", Weight: 1})
	tbl.SetRows(nil)
	if tbl.Cursor() != -1 {
		t.Fatalf("Cursor() = %d, want -1", tbl.Cursor())
	}

	tbl.SetRows([][]string{{"Acme"}, {"Beta"}})
	if tbl.Cursor() != 0 {
		t.Fatalf("Cursor() = %d after rows arrive, want 0", tbl.Cursor())
	}

	tbl.Focus()
	tbl.Update(tea.KeyMsg{Type: tea.KeyDown})
	if tbl.Cursor() != 1 {
		t.Errorf("first down should select the second row, got %d", tbl.Cursor())
	}
}
