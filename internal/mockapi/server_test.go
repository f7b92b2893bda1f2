package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulseesg/pulse/internal/api"
	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/session"
	"github.com/pulseesg/pulse/internal/version"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type testServer struct {
	*Server
	router *gin.Engine
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{now: fixedNow}
	s, err := New(Options{
		Secret:     "test-secret",
		BcryptCost: bcrypt.MinCost,
		Seed:       true,
		Now:        func() time.Time { return ts.now },
		Logger:     logging.NewNoop(),
	})
	require.NoError(t, err)
	ts.Server = s
	ts.router = s.Router()
	return ts
}

func (ts *testServer) call(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	w := ts.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": DemoEmail, "password": DemoPassword})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, RoleAnalyst, resp.Role)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	claims, err := session.ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, DemoEmail, claims.Subject)
	assert.Equal(t, RoleAnalyst, claims.Role)
	assert.Equal(t, fixedNow.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := newTestServer(t)

	w := ts.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": DemoEmail, "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", errorBody(t, w))

	w = ts.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": DemoEmail})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	w := ts.call(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "New@Example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "new@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.call(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "new@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.call(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "bad", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVersion_NoTokenNeeded(t *testing.T) {
	ts := newTestServer(t)

	w := ts.call(t, http.MethodGet, "/api/version", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var b version.Backend
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, version.Backend{Version: "dev", API: version.APIRevision}, b)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	w := ts.call(t, http.MethodGet, "/api/companies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing bearer token", errorBody(t, w))

	w = ts.call(t, http.MethodGet, "/api/companies", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid token", errorBody(t, w))
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	ts.now = fixedNow.Add(25 * time.Hour)
	w := ts.call(t, http.MethodGet, "/api/companies", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCompanies_CRUD(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	w := ts.call(t, http.MethodGet, "/api/companies", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var companies []esg.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &companies))
	assert.Len(t, companies, 3)

	w = ts.call(t, http.MethodPost, "/api/companies", token, gin.H{"name": "  Tailspin Toys ", "sector": "Retail", "country": "USA"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created esg.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Tailspin Toys", created.Name)
	assert.NotZero(t, created.ID)

	w = ts.call(t, http.MethodPost, "/api/companies", token, gin.H{"name": "tailspin toys", "sector": "Retail", "country": "USA"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.call(t, http.MethodPost, "/api/companies", token, gin.H{"name": "X", "sector": " ", "country": "USA"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, esg.MsgCompanyFieldsRequired, errorBody(t, w))

	w = ts.call(t, http.MethodDelete, "/api/companies/1", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.call(t, http.MethodDelete, "/api/companies/1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = ts.call(t, http.MethodDelete, "/api/companies/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	w := ts.call(t, http.MethodPost, "/api/esg/analyze", token, gin.H{"companyId": 2, "newsText": "Toxic spill reported"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Contoso Mining", resp["company"])
	assert.Equal(t, "2025-03-01T10:00:00", resp["timestamp"])
	for _, key := range []string{"overallAssessment", "pillarAssessment", "keyIncidents", "governanceAssessment", "analystSummary"} {
		assert.Contains(t, resp, key)
	}
}

func TestAnalyze_AcceptsTextField(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	w := ts.call(t, http.MethodPost, "/api/analyze", token, gin.H{"companyId": 1, "text": "fraud"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyze_Rejects(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	w := ts.call(t, http.MethodPost, "/api/esg/analyze", token, gin.H{"companyId": 1, "newsText": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.call(t, http.MethodPost, "/api/esg/analyze", token, gin.H{"companyId": 99, "newsText": "fraud"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistory_NewestFirst(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	ts.call(t, http.MethodPost, "/api/esg/analyze", token, gin.H{"companyId": 1, "newsText": "neutral"})
	ts.now = fixedNow.Add(time.Hour)
	ts.call(t, http.MethodPost, "/api/esg/analyze", token, gin.H{"companyId": 1, "newsText": "fraud"})
	ts.call(t, http.MethodPost, "/api/esg/analyze", token, gin.H{"companyId": 2, "newsText": "spill"})

	w := ts.call(t, http.MethodGet, "/api/esg/history/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []historyRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-01T11:00:00", rows[0].Timestamp)
	assert.Equal(t, 60, rows[0].ESGScore)
	assert.Equal(t, "Northwind Energy", rows[1].CompanyName)
	assert.Equal(t, 70, rows[1].ESGScore)
}

func TestHistory_EmptyAndMissing(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	w := ts.call(t, http.MethodGet, "/api/esg/history/3", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = ts.call(t, http.MethodGet, "/api/esg/history/42", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCompany_DropsHistory(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	ts.call(t, http.MethodPost, "/api/esg/analyze", token, gin.H{"companyId": 1, "newsText": "fraud"})
	ts.call(t, http.MethodDelete, "/api/companies/1", token, nil)

	assert.Empty(t, ts.store.history(1))
}

func TestAnalyze_DelayHonoursCancellation(t *testing.T) {
	ts := newTestServer(t)
	ts.opts.AnalyzeDelay = time.Minute
	token := ts.login(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/esg/analyze", bytes.NewBufferString(`{"companyId":1,"newsText":"fraud"}`)).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	done := make(chan struct{})
	go func() {
		ts.router.ServeHTTP(httptest.NewRecorder(), req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("analyze did not return after the request was cancelled")
	}
	assert.Empty(t, ts.store.history(1))
}

// TestClientRoundTrip drives the real API client against the demo backend.
func TestClientRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	store := session.NewStoreInDir(t.TempDir())
	client := api.New(api.Options{
		BaseURL: srv.URL + "/api",
		Timeout: 10 * time.Second,
		Session: store,
		Logger:  logging.NewNoop(),
	})
	ctx := context.Background()

	_, err := client.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	assert.True(t, store.LoggedIn())

	companies, err := client.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 3)

	result, err := client.Analyze(ctx, esg.AnalyzeRequest{CompanyID: companies[0].ID, NewsText: "Toxic spill reported"})
	require.NoError(t, err)
	assert.Equal(t, float64(52), result.Score)
	assert.Equal(t, esg.RiskMedium, result.RiskLevel)
	assert.Equal(t, companies[0].ID, result.CompanyID)
	assert.True(t, result.Timestamp.Equal(fixedNow))

	all, err := client.AllHistory(ctx, companies)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Northwind Energy", all[0].CompanyName)
	assert.Equal(t, float64(52), all[0].Score)
}

func TestClientRoundTrip_RejectedTokenClearsSession(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	store := session.NewStoreInDir(t.TempDir())
	require.NoError(t, store.SetLogin("stale-token", RoleAnalyst))

	var expired int
	client := api.New(api.Options{
		BaseURL:          srv.URL + "/api",
		Session:          store,
		Logger:           logging.NewNoop(),
		OnSessionExpired: func(status int) { expired = status },
	})

	_, err := client.ListCompanies(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAuth(err))
	assert.Equal(t, http.StatusUnauthorized, expired)
	assert.False(t, store.LoggedIn())
}
