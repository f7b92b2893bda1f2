package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulseesg/pulse/internal/config"
	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/tui/styles"
)

func TestNew_WithoutSessionOpensLogin(t *testing.T) {
	m, backend, _ := newTestModel(t, false)

	if m.Active() != ViewLogin {
		t.Errorf("Active() = %v, want Login", m.Active())
	}
	if m.sh.loaded {
		t.Error("data should not load before sign-in")
	}
	if backend.logins != 0 {
		t.Error("no login should happen on start")
	}
	if !strings.Contains(m.View(), "Sign in to PulseESG") {
		t.Error("login view should render the form")
	}
}

func TestNew_WithSessionLoadsData(t *testing.T) {
	m, _, _ := newTestModel(t, true)

	if m.Active() != ViewOverview {
		t.Fatalf("Active() = %v, want Overview", m.Active())
	}
	if !m.sh.loaded {
		t.Fatal("Init should load companies and history")
	}
	if got := m.overview.data.TotalCompanies; got != 2 {
		t.Errorf("TotalCompanies = %d, want 2", got)
	}
	if got := m.overview.data.AverageScore; got != 54 {
		t.Errorf("AverageScore = %d, want 54", got)
	}
	if !strings.Contains(m.View(), "analyst@pulse.dev") {
		t.Error("header should show the signed-in email")
	}
}

func TestLogin_Success(t *testing.T) {
	m, backend, store := newTestModel(t, false)

	typeText(m, "analyst@pulse.dev")
	press(m, "enter")
	typeText(m, "password")
	press(m, "enter")

	if backend.logins != 1 {
		t.Fatalf("logins = %d, want 1", backend.logins)
	}
	if !store.LoggedIn() {
		t.Error("session should be stored")
	}
	if m.Active() != ViewOverview {
		t.Errorf("Active() = %v, want Overview", m.Active())
	}
	if !m.sh.loaded {
		t.Error("data should load after sign-in")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	m, backend, _ := newTestModel(t, false)
	backend.loginErr = errors.HTTPStatus(401, "Invalid credentials")

	typeText(m, "analyst@pulse.dev")
	press(m, "enter")
	typeText(m, "wrong")
	press(m, "enter")

	if m.Active() != ViewLogin {
		t.Fatalf("Active() = %v, want Login", m.Active())
	}
	if got := m.login.form.Error(); got != msgInvalidCredentials {
		t.Errorf("form error = %q, want %q", got, msgInvalidCredentials)
	}
	if m.login.password.Value() != "" {
		t.Error("password should be cleared after a failed sign-in")
	}

	// The client hook fires for the same 401; it must not replace the message.
	m.Update(SessionExpiredMsg{Status: 401})
	if m.login.form.Error() != msgInvalidCredentials || m.login.notice != "" {
		t.Error("SessionExpiredMsg on the login view should be ignored")
	}
}

func TestLogin_NetworkErrorShowsMessage(t *testing.T) {
	m, backend, _ := newTestModel(t, false)
	backend.loginErr = errors.NetworkUnavailable("localhost", nil)

	typeText(m, "a@b.c")
	press(m, "enter")
	typeText(m, "pw")
	press(m, "enter")

	if got := m.login.form.Error(); got != errors.MsgNetwork {
		t.Errorf("form error = %q, want %q", got, errors.MsgNetwork)
	}
}

func TestLogin_BlankFieldsSkipNetwork(t *testing.T) {
	m, backend, _ := newTestModel(t, false)

	press(m, "enter", "enter")

	if backend.logins != 0 {
		t.Error("blank credentials should not reach the backend")
	}
	if m.login.form.Error() == "" {
		t.Error("expected an inline error")
	}
}

func TestSessionExpired_ReturnsToLogin(t *testing.T) {
	m, _, store := newTestModel(t, true)
	press(m, "4")

	m.Update(SessionExpiredMsg{Status: 403})

	if m.Active() != ViewLogin {
		t.Fatalf("Active() = %v, want Login", m.Active())
	}
	if store.LoggedIn() {
		t.Error("session should be cleared")
	}
	if m.sh.loaded || len(m.sh.analyses) != 0 {
		t.Error("cached data should be dropped")
	}
	if !strings.Contains(m.View(), "Session expired") {
		t.Error("login view should explain the redirect")
	}
}

func TestDataLoad_AuthErrorExpiresSession(t *testing.T) {
	m, backend, store := newTestModel(t, true)
	backend.listErr = errors.HTTPStatus(401, "")

	press(m, "r")

	if m.Active() != ViewLogin {
		t.Errorf("Active() = %v, want Login", m.Active())
	}
	if store.LoggedIn() {
		t.Error("session should be cleared")
	}
}

func TestDataLoad_ErrorKeepsData(t *testing.T) {
	m, backend, _ := newTestModel(t, true)
	backend.listErr = errors.HTTPStatus(503, "")

	press(m, "r")

	if m.sh.loadErr != errors.StatusMessage(503) {
		t.Errorf("loadErr = %q", m.sh.loadErr)
	}
	if len(m.sh.analyses) != 3 {
		t.Error("a failed reload should keep the previous data")
	}
	if !strings.Contains(m.View(), "busy") {
		t.Error("the error should be shown")
	}
}

func TestDataLoad_StaleGenerationDropped(t *testing.T) {
	m, _, _ := newTestModel(t, true)

	m.Update(dataLoadedMsg{gen: m.dataGen - 1})
	if !m.sh.loaded || len(m.sh.companies) != 2 {
		t.Error("a stale load should not replace data")
	}
}

func TestGlobalKeys_SwitchViews(t *testing.T) {
	m, _, _ := newTestModel(t, true)

	tests := []struct {
		key  string
		want ViewID
	}{
		{"2", ViewAnalyze},
		{"3", ViewHistory},
		{"4", ViewCompanies},
		{"5", ViewProfile},
		{"tab", ViewOverview},
		{"shift+tab", ViewProfile},
		{"1", ViewOverview},
	}
	for _, tt := range tests {
		press(m, tt.key)
		if m.Active() != tt.want {
			t.Errorf("after %q Active() = %v, want %v", tt.key, m.Active(), tt.want)
		}
	}
}

func TestGlobalKeys_ThemeTogglePersists(t *testing.T) {
	m, _, store := newTestModel(t, true)

	press(m, "t")
	if styles.Current() != config.ThemeLight {
		t.Errorf("theme = %q, want light", styles.Current())
	}
	if store.Theme() != "light" {
		t.Errorf("stored theme = %q, want light", store.Theme())
	}

	press(m, "t")
	if store.Theme() != "dark" {
		t.Errorf("stored theme = %q, want dark", store.Theme())
	}
}

func TestGlobalKeys_StoredThemeApplied(t *testing.T) {
	m, _, store := newTestModel(t, true)
	if err := store.SetTheme("light"); err != nil {
		t.Fatal(err)
	}

	New(m.sh.deps)
	if styles.Current() != config.ThemeLight {
		t.Errorf("stored theme should win over config, got %q", styles.Current())
	}
}

func TestGlobalKeys_Quit(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		m, _, _ := newTestModel(t, true)
		_, cmd := m.Update(keyMsg(key))
		if !m.quitting {
			t.Errorf("%q should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q should return tea.Quit", key)
		}
	}
}

func TestGlobalKeys_HelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t, true)

	press(m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help should be shown")
	}
	press(m, "2")
	if m.Active() != ViewOverview {
		t.Error("keys should go to the help overlay while it is open")
	}
	press(m, "esc")
	if m.helpOverlay.IsVisible() {
		t.Error("esc should close help")
	}
}

func TestLogout_AfterConfirm(t *testing.T) {
	m, _, store := newTestModel(t, true)

	press(m, "L")
	if !m.confirmDlg.IsVisible() {
		t.Fatal("logout should ask for confirmation")
	}
	press(m, "n")
	if !store.LoggedIn() || m.Active() != ViewOverview {
		t.Fatal("declining should keep the session")
	}

	press(m, "L", "y")
	if store.LoggedIn() {
		t.Error("session should be cleared")
	}
	if m.Active() != ViewLogin {
		t.Errorf("Active() = %v, want Login", m.Active())
	}
	if m.login.notice != "" {
		t.Error("a deliberate logout should not claim the session expired")
	}
}

func TestView_EveryViewRenders(t *testing.T) {
	m, _, _ := newTestModel(t, true)

	wants := map[string]string{
		"1": "Recent Analyses",
		"2": "Analyze ESG News",
		"3": "Total Analyses",
		"4": "Fabrikam Bank",
		"5": "analyst@pulse.dev",
	}
	for key, want := range wants {
		press(m, key)
		if view := m.View(); !strings.Contains(view, want) {
			t.Errorf("view %s missing %q", key, want)
		}
	}
}

func TestView_EmptyStates(t *testing.T) {
	m, backend, _ := newTestModel(t, true)
	backend.analyses = nil
	press(m, "r")

	if got := m.overview.data.AverageScore; got != 0 {
		t.Errorf("AverageScore = %d, want 0", got)
	}
	if !strings.Contains(m.View(), "No analyses yet") {
		t.Error("overview should show the empty state")
	}
	press(m, "3")
	if !strings.Contains(m.View(), "No data") {
		t.Error("history should show the empty trend card")
	}
}

func TestStatusBarShortcutsFollowView(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	press(m, "4")

	if !strings.Contains(m.View(), "search") {
		t.Error("companies shortcuts should be shown")
	}
	press(m, "/")
	if strings.Contains(m.View(), "quit") {
		t.Error("global shortcuts should be hidden while typing")
	}
}
