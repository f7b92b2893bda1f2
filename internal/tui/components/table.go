package components

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// Column is a table column with a relative width.
type Column struct {
	Title string
	// Weight is the share of the available width, at least 1.
	Weight int
}

// Table wraps the bubbles table with theme styling and weighted columns.
type Table struct {
	model   table.Model
	columns []Column
	rows    [][]string
	empty   string
	width   int
}

// NewTable creates a new Table component.
func NewTable(columns ...Column) *Table {
	t := &Table{
		columns: columns,
		empty:   "Nothing to show",
		model:   table.New(table.WithHeight(10)),
	}
	t.SetWidth(80)
	return t
}

// SetEmptyText sets what is shown when there are no rows.
func (t *Table) SetEmptyText(s string) {
	t.empty = s
}

// SetWidth distributes width across the columns.
func (t *Table) SetWidth(width int) {
	t.width = width
	total := 0
	for _, c := range t.columns {
		total += max(c.Weight, 1)
	}
	avail := width - 2*len(t.columns)
	cols := make([]table.Column, len(t.columns))
	for i, c := range t.columns {
		w := avail * max(c.Weight, 1) / max(total, 1)
		cols[i] = table.Column{Title: c.Title, Width: max(w, 4)}
	}
	t.model.SetColumns(cols)
	t.model.SetWidth(width)
}

// SetHeight sets the visible row count.
func (t *Table) SetHeight(height int) {
	t.model.SetHeight(max(height, 3))
}

// SetRows replaces the rows, keeping the cursor in range.
func (t *Table) SetRows(rows [][]string) {
	t.rows = rows
	trs := make([]table.Row, len(rows))
	for i, r := range rows {
		trs[i] = table.Row(r)
	}
	t.model.SetRows(trs)
	if len(rows) == 0 {
		return
	}
	// bubbles parks the cursor at -1 while the table is empty.
	if c := t.model.Cursor(); c < 0 {
		t.model.SetCursor(0)
	} else if c >= len(rows) {
		t.model.SetCursor(len(rows) - 1)
	}
}

// Rows returns the rows.
func (t *Table) Rows() [][]string {
	return t.rows
}

// Cursor returns the selected row index, or -1 when empty.
func (t *Table) Cursor() int {
	if len(t.rows) == 0 {
		return -1
	}
	return t.model.Cursor()
}

// Focus enables row selection.
func (t *Table) Focus() {
	t.model.Focus()
}

// Blur disables row selection.
func (t *Table) Blur() {
	t.model.Blur()
}

// Update handles navigation keys while focused.
func (t *Table) Update(msg tea.Msg) (*Table, tea.Cmd) {
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return t, cmd
}

// View renders the table.
func (t *Table) View() string {
	if len(t.rows) == 0 {
		return styles.MutedTextStyle.Render(t.empty)
	}

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.BorderColor).
		BorderBottom(true).
		Foreground(styles.MutedLight).
		Bold(true)
	s.Cell = s.Cell.Foreground(styles.Foreground)
	s.Selected = s.Selected.Foreground(styles.Background).Background(styles.Primary).Bold(false)
	if !t.model.Focused() {
		s.Selected = s.Cell
	}
	t.model.SetStyles(s)
	return t.model.View()
}
