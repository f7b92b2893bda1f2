package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulseesg/pulse/internal/config"
	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/mockapi"
	"github.com/pulseesg/pulse/internal/report"
	"github.com/pulseesg/pulse/internal/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// testEnv is a demo backend plus a config file pointing at it.
type testEnv struct {
	configPath  string
	sessionPath string
	logDir      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	srv, err := mockapi.New(mockapi.Options{
		Secret:     "test-secret",
		BcryptCost: bcrypt.MinCost,
		Seed:       true,
		Logger:     logging.NewNoop(),
	})
	if err != nil {
		t.Fatalf("mockapi.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.API.BaseURL = ts.URL + "/api"
	cfg.Session.Path = filepath.Join(dir, "session.json")
	cfg.Log.Dir = filepath.Join(dir, "logs")

	env := &testEnv{
		configPath:  filepath.Join(dir, "config.yaml"),
		sessionPath: cfg.Session.Path,
		logDir:      cfg.Log.Dir,
	}
	if err := config.Save(cfg, env.configPath); err != nil {
		t.Fatalf("config.Save() error = %v", err)
	}
	return env
}

// execute runs a fresh command tree with stdin and returns stdout, stderr
// (including the printed error) and the error.
func (e *testEnv) execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root, a := newRootCmd()
	defer a.close()

	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := root.ExecuteContext(context.Background())
	if err != nil {
		a.fail(&stderr, err)
	}
	return stdout.String(), stderr.String(), err
}

// unreachableConfig writes a config sharing the session and log directory
// but pointing at a port nothing listens on.
func (e *testEnv) unreachableConfig(t *testing.T) string {
	t.Helper()
	cfg := config.NewConfig()
	cfg.API.BaseURL = "http://127.0.0.1:1/api"
	cfg.Session.Path = e.sessionPath
	cfg.Log.Dir = e.logDir

	path := filepath.Join(filepath.Dir(e.configPath), "unreachable.yaml")
	if err := config.Save(cfg, path); err != nil {
		t.Fatalf("config.Save() error = %v", err)
	}
	return path
}

// readLogs returns the contents of every log file written so far.
func (e *testEnv) readLogs(t *testing.T) string {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(e.logDir, "*.log"))
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		sb.Write(data)
	}
	return sb.String()
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	if _, stderr, err := e.execute(t, "", "login", "--email", mockapi.DemoEmail, "--password", mockapi.DemoPassword); err != nil {
		t.Fatalf("login failed: %v\n%s", err, stderr)
	}
}

func (e *testEnv) session(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(e.sessionPath)
	if err := store.Load(); err != nil {
		t.Fatalf("session Load() error = %v", err)
	}
	return store
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "help flag",
			args:       []string{"--help"},
			wantOutput: "Available Commands:",
		},
		{
			name:       "help lists analyze",
			args:       []string{"--help"},
			wantOutput: "analyze",
		},
		{
			name:       "version flag",
			args:       []string{"--version"},
			wantOutput: "pulse dev",
		},
		{
			name:    "unknown command",
			args:    []string{"unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			cmd, a := newRootCmd()
			defer a.close()
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantOutput != "" && !bytes.Contains(buf.Bytes(), []byte(tt.wantOutput)) {
				t.Errorf("Output = %q, want to contain %q", buf.String(), tt.wantOutput)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd, a := newRootCmd()
	defer a.close()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"pulse dev", "Commit:", "OS/Arch:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Output = %q, want to contain %q", buf.String(), want)
		}
	}
}

func TestVersionCheck(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.execute(t, "", "version", "--check")
	if err != nil {
		t.Fatalf("version --check error = %v", err)
	}
	for _, want := range []string{"pulse dev", "Checking backend at", "✓ Backend dev (API revision 1) is compatible."} {
		if !strings.Contains(out, want) {
			t.Errorf("Output = %q, want to contain %q", out, want)
		}
	}

	_, stderr, err := env.execute(t, "", "version", "--check", "--config", env.unreachableConfig(t))
	if err == nil {
		t.Fatal("expected an error for an unreachable backend")
	}
	if !strings.Contains(stderr, "Network error") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	runInit := func(args ...string) (string, error) {
		buf := new(bytes.Buffer)
		cmd, a := newRootCmd()
		defer a.close()
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(append([]string{"--config", path, "config", "init"}, args...))
		err := cmd.Execute()
		return buf.String(), err
	}

	out, err := runInit()
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Errorf("Output = %q", out)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.API.BaseURL != config.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}

	if _, err := runInit(); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("second init should refuse to overwrite, got %v", err)
	}
	if _, err := runInit("--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	cmd, a := newRootCmd()
	defer a.close()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "companies", "list"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for a missing --config file")
	}
	if !strings.Contains(err.Error(), "configuration file not found") {
		t.Errorf("error = %v", err)
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.execute(t, "", "--output", "xml", "companies", "list")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("error = %v", err)
	}
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.execute(t, "", "login", "--email", mockapi.DemoEmail, "--password", mockapi.DemoPassword)
	if err != nil {
		t.Fatalf("login error = %v", err)
	}
	if !strings.Contains(out, "Signed in as "+mockapi.DemoEmail) {
		t.Errorf("Output = %q", out)
	}

	store := env.session(t)
	if !store.LoggedIn() {
		t.Fatal("login should persist the token")
	}
	if store.Role() != mockapi.RoleAnalyst {
		t.Errorf("Role = %q, want %q", store.Role(), mockapi.RoleAnalyst)
	}

	out, _, err = env.execute(t, "", "logout")
	if err != nil {
		t.Fatalf("logout error = %v", err)
	}
	if !strings.Contains(out, "Signed out") {
		t.Errorf("Output = %q", out)
	}
	if env.session(t).LoggedIn() {
		t.Error("logout should clear the token")
	}
}

func TestLogin_PromptsForMissingCredentials(t *testing.T) {
	env := newTestEnv(t)

	stdin := mockapi.DemoEmail + "\n" + mockapi.DemoPassword + "\n"
	_, stderr, err := env.execute(t, stdin, "login")
	if err != nil {
		t.Fatalf("login error = %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "Email: ") || !strings.Contains(stderr, "Password: ") {
		t.Errorf("stderr = %q, want prompts", stderr)
	}
	if !env.session(t).LoggedIn() {
		t.Error("prompted login should persist the token")
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{
			name:    "wrong password",
			args:    []string{"login", "--email", mockapi.DemoEmail, "--password", "nope"},
			wantErr: "Invalid credentials",
		},
		{
			name:    "blank credentials",
			stdin:   "\n\n",
			args:    []string{"login"},
			wantErr: "Email and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, stderr, err := env.execute(t, tt.stdin, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want to contain %q", stderr, tt.wantErr)
			}
			if strings.Contains(strings.ToLower(stderr), "session expired") {
				t.Error("a rejected login should not report an expired session")
			}
			if env.session(t).LoggedIn() {
				t.Error("failed login should not store a token")
			}
		})
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.execute(t, "", "register", "--email", "new@pulse.dev", "--password", "secret1")
	if err != nil {
		t.Fatalf("register error = %v", err)
	}
	if !strings.Contains(out, "Registered new@pulse.dev") {
		t.Errorf("Output = %q", out)
	}
	if env.session(t).LoggedIn() {
		t.Error("register should not sign in")
	}

	if _, _, err := env.execute(t, "", "login", "--email", "new@pulse.dev", "--password", "secret1"); err != nil {
		t.Errorf("login with the new account failed: %v", err)
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{
		{"companies", "list"},
		{"history"},
		{"overview"},
		{"profile"},
		{"analyze", "--company", "1", "--text", "x"},
	} {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			_, stderr, err := env.execute(t, "", args...)
			if err == nil {
				t.Fatal("expected an error without a session")
			}
			if !strings.Contains(stderr, "pulse login") {
				t.Errorf("stderr = %q, want a login suggestion", stderr)
			}
		})
	}
}

func TestCompanies(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	out, _, err := env.execute(t, "", "companies", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "Northwind Energy") {
		t.Errorf("Output = %q, want seeded companies", out)
	}

	out, _, err = env.execute(t, "", "companies", "add", "--name", "  Acme Corp ", "--sector", "Industrials", "--country", "France")
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	if !strings.Contains(out, "Added Acme Corp") {
		t.Errorf("Output = %q", out)
	}

	out, _, err = env.execute(t, "", "-o", "json", "companies", "list", "--search", "acme")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	var found []esg.Company
	if err := json.Unmarshal([]byte(out), &found); err != nil {
		t.Fatalf("list -o json is not JSON: %v\n%s", err, out)
	}
	if len(found) != 1 || found[0].Name != "Acme Corp" {
		t.Fatalf("search result = %+v", found)
	}

	out, _, err = env.execute(t, "n\n", "companies", "delete", jsonID(found[0]))
	if err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if !strings.Contains(out, "Cancelled") {
		t.Errorf("declined delete output = %q", out)
	}

	out, _, err = env.execute(t, "", "companies", "delete", jsonID(found[0]), "--yes")
	if err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if !strings.Contains(out, "Deleted company") {
		t.Errorf("Output = %q", out)
	}

	out, _, _ = env.execute(t, "", "companies", "list")
	if strings.Contains(out, "Acme Corp") {
		t.Error("deleted company should no longer be listed")
	}
}

func jsonID(c esg.Company) string {
	b, _ := json.Marshal(c.ID)
	return string(b)
}

func TestCompaniesAdd_BlankFieldSkipsRequest(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, stderr, err := env.execute(t, "", "companies", "add", "--name", "Acme", "--sector", "  ", "--country", "France")
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(stderr, esg.MsgCompanyFieldsRequired) {
		t.Errorf("stderr = %q", stderr)
	}

	out, _, _ := env.execute(t, "", "companies", "list")
	if strings.Contains(out, "Acme") {
		t.Error("invalid company should not be created")
	}
}

func TestAnalyzeAndReports(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	news := "Regulator fines Northwind Energy over an oil spill and worker injuries."
	out, stderr, err := env.execute(t, "", "analyze", "--company", "northwind energy", "--text", news)
	if err != nil {
		t.Fatalf("analyze error = %v\n%s", err, stderr)
	}
	for _, want := range []string{"Company:  Northwind Energy", "Score:", "Risk:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output = %q, want to contain %q", out, want)
		}
	}

	if _, _, err := env.execute(t, news, "analyze", "--company", "1", "--file", "-"); err != nil {
		t.Fatalf("analyze from stdin error = %v", err)
	}

	out, _, err = env.execute(t, "", "-o", "json", "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	var h report.History
	if err := json.Unmarshal([]byte(out), &h); err != nil {
		t.Fatalf("history -o json is not JSON: %v\n%s", err, out)
	}
	if h.Stats.Total != 2 || len(h.Records) != 2 {
		t.Errorf("history Total = %d, Records = %d, want 2 and 2", h.Stats.Total, len(h.Records))
	}

	out, _, err = env.execute(t, "", "history", "--company", "Contoso Mining")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "No analyses match") {
		t.Errorf("filtered history output = %q", out)
	}

	out, _, err = env.execute(t, "", "-o", "json", "overview")
	if err != nil {
		t.Fatalf("overview error = %v", err)
	}
	var o report.Overview
	if err := json.Unmarshal([]byte(out), &o); err != nil {
		t.Fatalf("overview -o json is not JSON: %v\n%s", err, out)
	}
	if o.TotalCompanies != 3 {
		t.Errorf("TotalCompanies = %d, want 3", o.TotalCompanies)
	}
	if len(o.Recent) != 2 {
		t.Errorf("Recent = %d, want 2", len(o.Recent))
	}
}

func TestAnalyze_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "no text",
			args:    []string{"analyze", "--company", "1"},
			wantErr: esg.MsgAnalyzeInputRequired,
		},
		{
			name:    "no company",
			args:    []string{"analyze", "--text", "oil spill"},
			wantErr: esg.MsgAnalyzeInputRequired,
		},
		{
			name:    "unknown company",
			args:    []string{"analyze", "--company", "Nobody Inc", "--text", "oil spill"},
			wantErr: `company "Nobody Inc" not found`,
		},
	}

	env := newTestEnv(t)
	env.login(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := env.execute(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want to contain %q", stderr, tt.wantErr)
			}
		})
	}
}

func TestHistory_InvalidRisk(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, stderr, err := env.execute(t, "", "history", "--risk", "extreme")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(stderr, "unknown risk level") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	out, _, err := env.execute(t, "", "profile")
	if err != nil {
		t.Fatalf("profile error = %v", err)
	}
	for _, want := range []string{mockapi.DemoEmail, mockapi.RoleAnalyst, "dark"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output = %q, want to contain %q", out, want)
		}
	}
}

func TestSessionExpired(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	store := env.session(t)
	if err := store.SetLogin("not-a-valid-token", "ANALYST"); err != nil {
		t.Fatalf("SetLogin() error = %v", err)
	}
	if err := store.SetTheme("light"); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}

	_, stderr, err := env.execute(t, "", "companies", "list")
	if err == nil {
		t.Fatal("expected an auth error")
	}
	if !errors.IsAuth(err) {
		t.Errorf("error = %v, want an auth error", err)
	}
	for _, want := range []string{"Error: session expired (HTTP 401)", "Sign in again: pulse login"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr = %q, want to contain %q", stderr, want)
		}
	}
	if n := strings.Count(stderr, "Error:"); n != 1 {
		t.Errorf("stderr reports %d errors, want 1:\n%s", n, stderr)
	}

	after := env.session(t)
	if after.LoggedIn() || after.Role() != "" {
		t.Error("401 should clear token and role")
	}
	if after.Theme() != "light" {
		t.Error("clearing the session should keep the theme")
	}
}

func TestVerboseReportsLogFile(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, stderr, err := env.execute(t, "", "-v", "profile")
	if err != nil {
		t.Fatalf("profile error = %v", err)
	}
	if !strings.Contains(stderr, "Logging to "+env.logDir) {
		t.Errorf("stderr = %q, want the log file under %s", stderr, env.logDir)
	}
}

func TestFailuresAreLogged(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	if _, _, err := env.execute(t, "", "-v", "history", "--risk", "extreme"); err == nil {
		t.Fatal("expected a validation error")
	}
	if _, _, err := env.execute(t, "", "companies", "list", "--search", "x", "--config", env.unreachableConfig(t)); err == nil {
		t.Fatal("expected a network error")
	}

	logs := env.readLogs(t)
	for _, want := range []string{"input rejected", "backend unreachable"} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %q:\n%s", want, logs)
		}
	}
}
