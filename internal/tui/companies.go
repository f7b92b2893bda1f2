package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/tui/components"
	"github.com/pulseesg/pulse/internal/tui/styles"
)

// noticeDuration is how long a success message stays on the companies view.
const noticeDuration = 3 * time.Second

type companiesMode int

const (
	companiesBrowse companiesMode = iota
	companiesSearch
	companiesAdd
)

type companiesView struct {
	sh     *shared
	mode   companiesMode
	table  *components.Table
	search *components.TextInput
	form   *components.Form

	visible []esg.Company
	saving  bool
	err     string

	notice    string
	noticeSeq int
}

func newCompaniesView(sh *shared) *companiesView {
	table := components.NewTable(
		components.Column{Title: "ID", Weight: 1},
		components.Column{Title: "Name", Weight: 4},
		components.Column{Title: "Sector", Weight: 3},
		components.Column{Title: "Country", Weight: 3},
	)
	table.SetEmptyText("No companies found")

	search := components.NewTextInput("search", "Search")
	search.SetPlaceholder("name, sector or country")

	form := components.NewForm("company", "Add Company")
	save := components.NewButton("save", "Save")
	form.AddFields(
		components.NewTextInput("name", "Name"),
		components.NewTextInput("sector", "Sector"),
		components.NewTextInput("country", "Country"),
		save,
	)

	v := &companiesView{sh: sh, table: table, search: search, form: form}
	v.Sync()
	return v
}

func (v *companiesView) Enter() tea.Cmd {
	v.table.Focus()
	return nil
}

func (v *companiesView) Leave() {
	v.table.Blur()
	v.search.Blur()
	if v.mode == companiesAdd {
		v.form.Blur()
	}
	v.mode = companiesBrowse
}

func (v *companiesView) Capturing() bool {
	return v.mode != companiesBrowse
}

func (v *companiesView) Shortcuts() []components.ShortcutDef {
	if v.mode == companiesBrowse {
		return components.CompaniesShortcuts
	}
	return components.InputShortcuts
}

// Sync refilters the list after a reload.
func (v *companiesView) Sync() {
	v.visible = esg.SearchCompanies(v.sh.companies, v.search.Value())
	rows := make([][]string, len(v.visible))
	for i, c := range v.visible {
		rows[i] = []string{fmt.Sprint(c.ID), c.Name, c.Sector, c.Country}
	}
	v.table.SetRows(rows)
}

// Selected returns the company under the cursor.
func (v *companiesView) Selected() (esg.Company, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.visible) {
		return esg.Company{}, false
	}
	return v.visible[i], true
}

func (v *companiesView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case companySavedMsg:
		v.saving = false
		if msg.err != nil {
			v.form.SetError(errors.UserMessage(msg.err))
			return nil
		}
		logging.Info("company added", "id", msg.company.ID)
		v.closeForm()
		return tea.Batch(v.flash("Company added successfully"), refresh)

	case companyDeletedMsg:
		if msg.err != nil {
			v.err = errors.UserMessage(msg.err)
			return nil
		}
		logging.Info("company deleted", "id", msg.id)
		v.err = ""
		return tea.Batch(v.flash("Company deleted successfully"), refresh)

	case noticeExpiredMsg:
		if msg.seq == v.noticeSeq {
			v.notice = ""
		}
		return nil

	case components.ConfirmYesMsg:
		if msg.Action != components.ConfirmActionDeleteCompany {
			return nil
		}
		return v.remove(msg.Target)

	case components.FormSubmittedMsg:
		if msg.FormID == "company" && v.mode == companiesAdd {
			return v.save()
		}
		return nil

	case components.FormCanceledMsg:
		if msg.FormID == "company" {
			v.closeForm()
		}
		return nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	switch v.mode {
	case companiesSearch:
		_, cmd := v.search.Update(msg)
		return cmd
	case companiesAdd:
		_, cmd := v.form.Update(msg)
		return cmd
	}
	return nil
}

func (v *companiesView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch v.mode {
	case companiesSearch:
		switch msg.String() {
		case "enter":
			v.search.Blur()
			v.mode = companiesBrowse
			v.table.Focus()
			return nil
		case "esc":
			v.search.Reset()
			v.search.Blur()
			v.mode = companiesBrowse
			v.table.Focus()
			v.Sync()
			return nil
		}
		_, cmd := v.search.Update(msg)
		v.Sync()
		return cmd

	case companiesAdd:
		if v.saving {
			return nil
		}
		_, cmd := v.form.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "/":
		v.mode = companiesSearch
		v.table.Blur()
		return v.search.Focus()
	case "a":
		v.mode = companiesAdd
		v.err = ""
		v.table.Blur()
		v.form.Reset()
		return v.form.Focus()
	case "d", "delete":
		if c, ok := v.Selected(); ok {
			v.sh.confirm.ShowDeleteCompany(c.ID, c.Name)
		}
		return nil
	case "esc":
		if v.search.Value() != "" {
			v.search.Reset()
			v.Sync()
		}
		return nil
	}

	_, cmd := v.table.Update(msg)
	return cmd
}

// save validates the form locally and creates the company.
// A blank field never reaches the network.
func (v *companiesView) save() tea.Cmd {
	in := esg.CompanyInput{
		Name:    v.form.Value("name"),
		Sector:  v.form.Value("sector"),
		Country: v.form.Value("country"),
	}.Normalize()
	if err := in.Validate(); err != nil {
		v.form.SetError(errors.UserMessage(err))
		return nil
	}

	v.saving = true
	v.form.SetError("")
	backend := v.sh.deps.Backend
	return func() tea.Msg {
		ctx := logging.WithView(context.Background(), "companies")
		c, err := backend.CreateCompany(ctx, in)
		return companySavedMsg{company: c, err: err}
	}
}

func (v *companiesView) remove(id int64) tea.Cmd {
	backend := v.sh.deps.Backend
	return func() tea.Msg {
		ctx := logging.WithView(context.Background(), "companies")
		return companyDeletedMsg{id: id, err: backend.DeleteCompany(ctx, id)}
	}
}

func (v *companiesView) closeForm() {
	v.saving = false
	v.form.Reset()
	v.form.Blur()
	v.mode = companiesBrowse
	v.table.Focus()
}

// flash shows msg and clears it after noticeDuration unless replaced.
func (v *companiesView) flash(msg string) tea.Cmd {
	v.noticeSeq++
	seq := v.noticeSeq
	v.notice = msg
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func refresh() tea.Msg {
	return refreshMsg{}
}

func (v *companiesView) View() string {
	w := v.sh.width
	v.table.SetWidth(max(w-6, 40))
	v.table.SetHeight(max(v.sh.height-14, 5))
	var b strings.Builder

	if line := statusLine(v.sh); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if v.notice != "" {
		b.WriteString(styles.SuccessTextStyle.Render("✓ " + v.notice))
		b.WriteString("\n")
	}
	if v.err != "" {
		b.WriteString(styles.ErrorTextStyle.Render("✗ " + v.err))
		b.WriteString("\n")
	}

	if v.mode == companiesAdd {
		form := v.form.View()
		if v.saving {
			form += "\n\n" + styles.MutedTextStyle.Render("Saving...")
		}
		b.WriteString(styles.FocusedBoxStyle.Render(form))
		b.WriteString("\n")
	}

	header := v.search.View()
	if v.mode != companiesSearch && v.search.Value() == "" {
		header = styles.MutedTextStyle.Render("/ to search")
	}
	header += "   " + styles.MutedTextStyle.Render(plural(len(v.visible), "company", "companies"))
	b.WriteString(section("Companies", header+"\n\n"+v.table.View(), w))
	return b.String()
}
