package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/config"
	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/tui/components"
	"github.com/pulseesg/pulse/internal/tui/styles"
)

// ViewID identifies a dashboard view.
type ViewID int

const (
	ViewOverview ViewID = iota
	ViewAnalyze
	ViewHistory
	ViewCompanies
	ViewProfile
	ViewLogin
)

var viewNames = []string{"Overview", "Analyze", "History", "Companies", "Profile"}

// String returns the tab name of the view.
func (v ViewID) String() string {
	if v >= 0 && int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "Login"
}

// page is one dashboard view.
type page interface {
	// Update handles messages routed to the view.
	Update(msg tea.Msg) tea.Cmd
	View() string
	// Capturing reports whether keys should go to the view before global shortcuts.
	Capturing() bool
	Shortcuts() []components.ShortcutDef
	// Enter is called when the view becomes active.
	Enter() tea.Cmd
	// Leave is called when another view becomes active.
	Leave()
	// Sync is called after companies and history were reloaded.
	Sync()
}

// shared is the state every view reads.
type shared struct {
	deps      Deps
	confirm   *components.ConfirmDialog
	companies []esg.Company
	analyses  []esg.AnalysisResult
	loaded    bool
	loading   bool
	loadErr   string
	width     int
	height    int
}

// Model is the Bubble Tea model for the pulse dashboard.
type Model struct {
	sh *shared

	// Components
	header      *components.Header
	statusBar   *components.StatusBar
	helpOverlay *components.HelpOverlay
	confirmDlg  *components.ConfirmDialog
	body        viewport.Model

	// Views
	login     *loginView
	overview  *overviewView
	analyze   *analyzeView
	history   *historyView
	companies *companiesView
	profile   *profileView

	active   ViewID
	dataGen  int
	quitting bool
}

// New creates the dashboard model. It opens on the login view unless a
// session is already stored.
func New(deps Deps) *Model {
	if deps.Config == nil {
		deps.Config = config.NewConfig()
	}

	confirm := components.NewConfirmDialog()
	sh := &shared{deps: deps, confirm: confirm, width: 100, height: 30}

	m := &Model{
		sh:          sh,
		header:      components.NewHeader(viewNames...),
		statusBar:   components.NewStatusBar(),
		helpOverlay: components.NewHelpOverlay(),
		confirmDlg:  confirm,
		body:        viewport.New(100, 27),
		login:       newLoginView(sh),
		overview:    newOverviewView(sh),
		analyze:     newAnalyzeView(sh),
		history:     newHistoryView(sh),
		companies:   newCompaniesView(sh),
		profile:     newProfileView(sh),
		active:      ViewLogin,
	}

	theme := config.Theme(deps.Session.Theme())
	if theme == "" {
		theme = deps.Config.UI.Theme
	}
	styles.Apply(theme)
	m.statusBar.SetTheme(string(styles.Current()))

	if deps.Session.LoggedIn() {
		m.active = ViewOverview
	}
	m.updateHeader()
	return m
}

// Init is the Bubble Tea initialization function.
func (m *Model) Init() tea.Cmd {
	if m.active == ViewLogin {
		return m.login.Enter()
	}
	return m.loadData()
}

// Active returns the active view.
func (m *Model) Active() ViewID {
	return m.active
}

func (m *Model) page(id ViewID) page {
	switch id {
	case ViewOverview:
		return m.overview
	case ViewAnalyze:
		return m.analyze
	case ViewHistory:
		return m.history
	case ViewCompanies:
		return m.companies
	case ViewProfile:
		return m.profile
	default:
		return m.login
	}
}

func (m *Model) current() page {
	return m.page(m.active)
}

// scrollable reports whether the active view renders inside the scrolling body.
func (m *Model) scrollable() bool {
	switch m.active {
	case ViewOverview, ViewHistory, ViewProfile:
		return true
	case ViewAnalyze:
		return !m.analyze.Capturing()
	default:
		return false
	}
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.update(msg)
	m.refreshBody()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.sh.width = msg.Width
		m.sh.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.helpOverlay.SetSize(60, 25)
		m.confirmDlg.SetSize(50)
		m.body.Width = msg.Width
		m.body.Height = m.bodyHeight()
		return m, nil

	case SessionExpiredMsg:
		// A failed sign-in also answers 401; the login view reports it itself.
		if m.active == ViewLogin {
			return m, nil
		}
		return m, m.expire()

	case loginDoneMsg:
		if msg.err != nil {
			m.login.fail(msg.err)
			return m, nil
		}
		m.login.reset()
		m.statusBar.SetNotice("", components.NoticeInfo)
		m.updateHeader()
		m.switchTo(ViewOverview)
		return m, m.loadData()

	case refreshMsg:
		return m, m.loadData()

	case dataLoadedMsg:
		if msg.gen != m.dataGen {
			return m, nil
		}
		m.sh.loading = false
		if msg.err != nil {
			if errors.IsAuth(msg.err) {
				return m, m.expire()
			}
			m.sh.loadErr = errors.UserMessage(msg.err)
			m.statusBar.SetNotice(m.sh.loadErr, components.NoticeError)
			return m, nil
		}
		m.sh.companies = msg.companies
		m.sh.analyses = msg.analyses
		m.sh.loaded = true
		m.sh.loadErr = ""
		for id := ViewOverview; id <= ViewProfile; id++ {
			m.page(id).Sync()
		}
		return m, nil

	case analyzeDoneMsg:
		if errors.IsAuth(msg.err) && m.active != ViewLogin {
			return m, m.expire()
		}
		return m, m.analyze.Update(msg)

	case companySavedMsg:
		if errors.IsAuth(msg.err) && m.active != ViewLogin {
			return m, m.expire()
		}
		return m, m.companies.Update(msg)

	case companyDeletedMsg:
		if errors.IsAuth(msg.err) && m.active != ViewLogin {
			return m, m.expire()
		}
		return m, m.companies.Update(msg)

	case components.ConfirmYesMsg:
		switch msg.Action {
		case components.ConfirmActionLogout:
			return m, m.logout()
		case components.ConfirmActionDeleteCompany:
			return m, m.companies.Update(msg)
		}
		return m, nil

	case components.ConfirmNoMsg, components.HelpClosedMsg:
		return m, nil
	}

	// Timers and async results owned by a single view.
	switch msg.(type) {
	case analyzeRotateMsg, analyzeElapsedMsg:
		return m, m.analyze.Update(msg)
	case noticeExpiredMsg:
		return m, m.companies.Update(msg)
	}

	cmd := m.current().Update(msg)
	if m.active != ViewAnalyze {
		// Spinner ticks belong to the analyze view even while it is hidden.
		cmd = tea.Batch(cmd, m.analyze.Update(msg))
	}
	return m, cmd
}

// handleKeyPress handles keyboard input.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Overlays capture input when visible.
	if m.confirmDlg.IsVisible() {
		return m, m.confirmDlg.Update(msg)
	}
	if m.helpOverlay.IsVisible() {
		return m, m.helpOverlay.Update(msg)
	}

	if m.active == ViewLogin || m.current().Capturing() {
		return m, m.current().Update(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.helpOverlay.Toggle()
		return m, nil

	case "1", "2", "3", "4", "5":
		return m, m.switchTo(ViewID(msg.String()[0] - '1'))

	case "tab":
		return m, m.switchTo((m.active + 1) % ViewID(len(viewNames)))

	case "shift+tab":
		return m, m.switchTo((m.active + ViewID(len(viewNames)) - 1) % ViewID(len(viewNames)))

	case "t":
		m.toggleTheme()
		return m, nil

	case "r":
		return m, m.loadData()

	case "L":
		m.confirmDlg.ShowLogout()
		return m, nil
	}

	cmd := m.current().Update(msg)
	if m.scrollable() {
		var scrollCmd tea.Cmd
		m.body, scrollCmd = m.body.Update(msg)
		cmd = tea.Batch(cmd, scrollCmd)
	}
	return m, cmd
}

// switchTo makes id the active view.
func (m *Model) switchTo(id ViewID) tea.Cmd {
	if id == m.active {
		return nil
	}
	m.current().Leave()
	m.active = id
	m.updateHeader()
	m.body.GotoTop()
	return m.current().Enter()
}

// loadData reloads companies and the full history. Results of earlier
// loads are dropped.
func (m *Model) loadData() tea.Cmd {
	if m.active == ViewLogin {
		return nil
	}
	m.dataGen++
	gen := m.dataGen
	m.sh.loading = true
	backend := m.sh.deps.Backend
	return func() tea.Msg {
		ctx := logging.WithView(context.Background(), "dashboard")
		companies, err := backend.ListCompanies(ctx)
		if err != nil {
			return dataLoadedMsg{gen: gen, err: err}
		}
		analyses, err := backend.AllHistory(ctx, companies)
		if err != nil {
			return dataLoadedMsg{gen: gen, err: err}
		}
		return dataLoadedMsg{gen: gen, companies: companies, analyses: analyses}
	}
}

// expire returns to the login view after the backend rejected the session.
func (m *Model) expire() tea.Cmd {
	logging.Info("session rejected, returning to login")
	if err := m.sh.deps.Session.Clear(); err != nil {
		logging.Warn("failed to clear session", "error", err)
	}
	cmd := m.signedOut()
	m.login.notice = "Session expired. Please sign in again."
	return cmd
}

// logout clears the session after the user confirmed.
func (m *Model) logout() tea.Cmd {
	if err := m.sh.deps.Session.Clear(); err != nil {
		m.statusBar.SetNotice(errors.UserMessage(err), components.NoticeError)
		return nil
	}
	logging.Info("logged out")
	return m.signedOut()
}

func (m *Model) signedOut() tea.Cmd {
	m.dataGen++
	m.current().Leave()
	m.sh.companies = nil
	m.sh.analyses = nil
	m.sh.loaded = false
	m.sh.loading = false
	m.sh.loadErr = ""
	m.confirmDlg.Hide()
	m.helpOverlay.Hide()
	m.statusBar.SetNotice("", components.NoticeInfo)
	for id := ViewOverview; id <= ViewProfile; id++ {
		m.page(id).Sync()
	}
	m.active = ViewLogin
	m.updateHeader()
	return m.login.Enter()
}

// toggleTheme switches light/dark and persists the choice.
func (m *Model) toggleTheme() {
	next := styles.Current().Toggle()
	styles.Apply(next)
	m.statusBar.SetTheme(string(next))
	if err := m.sh.deps.Session.SetTheme(string(next)); err != nil {
		logging.Warn("failed to persist theme", "error", err)
		m.statusBar.SetNotice("Theme not saved: "+errors.UserMessage(err), components.NoticeError)
	}
}

func (m *Model) updateHeader() {
	if m.active == ViewLogin {
		m.header.SetActive(-1)
		m.header.SetUser("")
		return
	}
	m.header.SetActive(int(m.active))
	m.header.SetUser(m.profile.email())
}

func (m *Model) bodyHeight() int {
	return max(m.sh.height-3, 3)
}

func (m *Model) refreshBody() {
	if m.scrollable() {
		m.body.SetContent(m.current().View())
	}
}

// View renders the dashboard.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.active == ViewLogin {
		return lipgloss.Place(m.sh.width, m.sh.height, lipgloss.Center, lipgloss.Center, m.login.View())
	}

	var b strings.Builder
	b.WriteString(m.header.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(styles.BorderColor).Render(strings.Repeat("─", max(m.sh.width, 1))))
	b.WriteString("\n")

	var body string
	switch {
	case m.confirmDlg.IsVisible():
		body = lipgloss.Place(m.sh.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.confirmDlg.View())
	case m.helpOverlay.IsVisible():
		body = lipgloss.Place(m.sh.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.helpOverlay.View())
	case m.scrollable():
		body = m.body.View()
	default:
		body = lipgloss.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(m.current().View())
	}
	b.WriteString(body)
	b.WriteString("\n")

	shortcuts := append([]components.ShortcutDef{}, m.current().Shortcuts()...)
	if !m.current().Capturing() {
		shortcuts = append(shortcuts, components.GlobalShortcuts...)
	}
	m.statusBar.SetShortcuts(shortcuts)
	b.WriteString(m.statusBar.View())
	return b.String()
}
