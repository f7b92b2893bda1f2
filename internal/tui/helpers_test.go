package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pulseesg/pulse/internal/api"
	"github.com/pulseesg/pulse/internal/config"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/session"
	"github.com/pulseesg/pulse/internal/tui/styles"
)

// fakeBackend is an in-memory Backend. Login stores the session like the
// real client does.
type fakeBackend struct {
	mu    sync.Mutex
	store *session.Store

	companies []esg.Company
	analyses  []esg.AnalysisResult
	nextID    int64

	loginErr   error
	listErr    error
	createErr  error
	deleteErr  error
	analyzeErr error

	logins   int
	created  []esg.CompanyInput
	deleted  []int64
	analyzed []esg.AnalyzeRequest
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func newFakeBackend(store *session.Store) *fakeBackend {
	return &fakeBackend{
		store: store,
		companies: []esg.Company{
			{ID: 1, Name: "Northwind Energy", Sector: "Utilities", Country: "Germany"},
			{ID: 2, Name: "Fabrikam Bank", Sector: "Financials", Country: "United Kingdom"},
		},
		analyses: []esg.AnalysisResult{
			{ID: 3, CompanyName: "Fabrikam Bank", Score: 82, RiskLevel: esg.RiskLow, Timestamp: day(2025, 2, 10)},
			{ID: 2, CompanyName: "Northwind Energy", Score: 30, RiskLevel: esg.RiskHigh, Timestamp: day(2025, 1, 20)},
			{ID: 1, CompanyName: "Northwind Energy", Score: 50, Timestamp: day(2025, 1, 5)},
		},
		nextID: 3,
	}
}

func testToken(email string) string {
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  email,
		"role": "ANALYST",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	return token
}

func (f *fakeBackend) Login(_ context.Context, email, _ string) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	resp := &api.AuthResponse{Token: testToken(email), Role: "ANALYST"}
	if err := f.store.SetLogin(resp.Token, resp.Role); err != nil {
		return nil, err
	}
	return resp, nil
}

func (f *fakeBackend) ListCompanies(context.Context) ([]esg.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]esg.Company{}, f.companies...), nil
}

func (f *fakeBackend) CreateCompany(_ context.Context, in esg.CompanyInput) (*esg.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	c := esg.Company{ID: f.nextID, Name: in.Name, Sector: in.Sector, Country: in.Country}
	f.companies = append(f.companies, c)
	return &c, nil
}

func (f *fakeBackend) DeleteCompany(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, c := range f.companies {
		if c.ID == id {
			f.companies = append(f.companies[:i], f.companies[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) Analyze(_ context.Context, req esg.AnalyzeRequest) (*esg.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzed = append(f.analyzed, req)
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	name := ""
	for _, c := range f.companies {
		if c.ID == req.CompanyID {
			name = c.Name
		}
	}
	r := esg.AnalysisResult{
		ID:          int64(len(f.analyses) + 1),
		CompanyID:   req.CompanyID,
		CompanyName: name,
		Score:       52,
		RiskLevel:   esg.RiskMedium,
		Explanation: "A **toxic spill** was reported.",
		Signals: esg.Signals{
			Risk: map[esg.Pillar][]string{esg.PillarE: {"toxic spill"}},
		},
		Pillars: map[esg.Pillar]esg.PillarAssessment{
			esg.PillarE: {Score: 16, Risk: esg.RiskHigh},
		},
		Timestamp: day(2025, 3, 1),
	}
	f.analyses = append([]esg.AnalysisResult{r}, f.analyses...)
	return &r, nil
}

func (f *fakeBackend) AllHistory(context.Context, []esg.Company) ([]esg.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]esg.AnalysisResult{}, f.analyses...), nil
}

// newTestModel builds a dashboard over a fake backend. With signedIn the
// session holds a token for analyst@pulse.dev and data is loaded.
func newTestModel(t *testing.T, signedIn bool) (*Model, *fakeBackend, *session.Store) {
	t.Helper()
	t.Cleanup(func() { styles.Apply(config.ThemeDark) })

	store := session.NewStoreInDir(t.TempDir())
	if signedIn {
		if err := store.SetLogin(testToken("analyst@pulse.dev"), "ANALYST"); err != nil {
			t.Fatal(err)
		}
	}
	backend := newFakeBackend(store)
	cfg := config.NewConfig()
	cfg.API.BaseURL = "http://localhost:8080/api"

	m := New(Deps{Config: cfg, Session: store, Backend: backend})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	run(m, m.Init())
	return m, backend, store
}

// run executes cmd and feeds the resulting messages back into m. Commands
// that do not answer quickly (timers, cursor blinks) are dropped.
func run(m *Model, cmd tea.Cmd) {
	runDepth(m, cmd, 0)
}

func runDepth(m *Model, cmd tea.Cmd, depth int) {
	if cmd == nil || depth > 8 {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return
	}

	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			runDepth(m, c, depth+1)
		}
	case tea.QuitMsg:
	default:
		_, next := m.Update(msg)
		runDepth(m, next, depth+1)
	}
}

// press sends one key and runs what it triggers.
func press(m *Model, keys ...string) {
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		run(m, cmd)
	}
}

// typeText sends s one rune at a time.
func typeText(m *Model, s string) {
	for _, r := range s {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		run(m, cmd)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}
