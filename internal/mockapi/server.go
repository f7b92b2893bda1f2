// Package mockapi is an in-memory stand-in for the PulseESG backend. It
// serves the same endpoints under /api so the dashboard can run offline.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/version"
)

// Demo credentials seeded at startup.
const (
	DemoEmail      = "analyst@pulse.dev"
	DemoAdminEmail = "admin@pulse.dev"
	DemoPassword   = "password"
)

// localDateTime is how the backend serializes timestamps: no zone.
const localDateTime = "2006-01-02T15:04:05.999999"

const ctxUserEmail = "userEmail"

// Options configures a Server.
type Options struct {
	// Secret signs tokens. A random one is used when empty.
	Secret string
	// TokenTTL is the token lifetime (default 24h).
	TokenTTL time.Duration
	// AnalyzeDelay slows analyze calls to mimic the AI service.
	AnalyzeDelay time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// Seed adds the demo users and a few companies.
	Seed bool
	// Now defaults to time.Now.
	Now func() time.Time
	// Logger receives gin's request log.
	Logger *logging.Logger
	// Version is reported by GET /api/version (default "dev").
	Version string
}

// Server is the demo backend.
type Server struct {
	store  *store
	secret []byte
	opts   Options
	logger *logging.Logger
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if opts.Secret == "" {
		opts.Secret = uuid.NewString()
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Global()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		store:  newStore(opts.BcryptCost),
		secret: []byte(opts.Secret),
		opts:   opts,
		logger: opts.Logger.With("component", "mockapi"),
	}
	if opts.Seed {
		if err := s.seed(); err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}
	return s, nil
}

func (s *Server) seed() error {
	if err := s.store.addUser(DemoEmail, DemoPassword, RoleAnalyst); err != nil {
		return err
	}
	if err := s.store.addUser(DemoAdminEmail, DemoPassword, RoleAdmin); err != nil {
		return err
	}
	for _, in := range []esg.CompanyInput{
		{Name: "Northwind Energy", Sector: "Utilities", Country: "Germany"},
		{Name: "Contoso Mining", Sector: "Materials", Country: "Chile"},
		{Name: "Fabrikam Bank", Sector: "Financials", Country: "United Kingdom"},
	} {
		if _, err := s.store.addCompany(in); err != nil {
			return err
		}
	}
	return nil
}

// Router builds the gin engine with every route mounted under /api.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(s.logger.Writer(logging.LevelInfo)), gin.Recovery())

	api := r.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)
	api.GET("/version", s.apiVersion)

	authed := api.Group("")
	authed.Use(s.authRequired())
	authed.GET("/companies", s.listCompanies)
	authed.POST("/companies", s.createCompany)
	authed.DELETE("/companies/:id", s.deleteCompany)
	authed.POST("/esg/analyze", s.analyze)
	authed.POST("/analyze", s.analyze)
	authed.GET("/esg/history/:companyId", s.history)

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("demo backend listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) issueToken(email, role string) (string, error) {
	now := s.opts.Now()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.opts.TokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// authRequired rejects requests without a valid bearer token with 401 JSON.
func (s *Server) authRequired() gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.opts.Now),
	)
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		token, err := parser.Parse(strings.TrimPrefix(auth, "Bearer "), func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if sub, err := token.Claims.GetSubject(); err == nil {
			c.Set(ctxUserEmail, sub)
		}
		c.Next()
	}
}

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	u, err := s.store.authenticate(req.Email, req.Password)
	if err != nil {
		s.logger.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	token, err := s.issueToken(u.email, u.role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": u.role})
}

func (s *Server) register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil || !strings.Contains(req.Email, "@") || len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email and a password of at least 6 characters are required"})
		return
	}
	if err := s.store.addUser(req.Email, req.Password, RoleAnalyst); err != nil {
		if errors.Is(err, errUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	token, err := s.issueToken(email, RoleAnalyst)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "role": RoleAnalyst})
}

func (s *Server) apiVersion(c *gin.Context) {
	c.JSON(http.StatusOK, version.Backend{Version: s.opts.Version, API: version.APIRevision})
}

func (s *Server) listCompanies(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listCompanies())
}

func (s *Server) createCompany(c *gin.Context) {
	var in esg.CompanyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": esg.MsgCompanyFieldsRequired})
		return
	}
	company, err := s.store.addCompany(in)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Company already exists"})
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (s *Server) deleteCompany(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}
	if err := s.store.deleteCompany(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// analyzeRequest accepts the text under either name.
type analyzeRequest struct {
	CompanyID int64  `json:"companyId"`
	NewsText  string `json:"newsText"`
	Text      string `json:"text"`
}

type analyzeResponse struct {
	Company string `json:"company"`
	Assessment
	Timestamp string `json:"timestamp"`
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	text := req.NewsText
	if strings.TrimSpace(text) == "" {
		text = req.Text
	}
	if req.CompanyID <= 0 || strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companyId and newsText are required"})
		return
	}
	company, ok := s.store.company(req.CompanyID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	if d := s.opts.AnalyzeDelay; d > 0 {
		select {
		case <-time.After(d):
		case <-c.Request.Context().Done():
			return
		}
	}

	assessment := Score(text)
	rec := s.store.addAnalysis(company.ID, assessment, s.opts.Now())

	email, _ := c.Get(ctxUserEmail)
	s.logger.Info("analysis stored", "company", company.Name, "score", assessment.OverallAssessment.ESGScore, "user", email)

	c.JSON(http.StatusOK, analyzeResponse{
		Company:    company.Name,
		Assessment: assessment,
		Timestamp:  rec.at.Format(localDateTime),
	})
}

type historyRow struct {
	AnalysisID      int64         `json:"analysisId"`
	CompanyName     string        `json:"companyName"`
	ESGScore        int           `json:"esgScore"`
	RiskLevel       esg.RiskLevel `json:"riskLevel"`
	AnalysisPayload Assessment    `json:"analysisPayload"`
	Timestamp       string        `json:"timestamp"`
}

func (s *Server) history(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("companyId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}
	company, ok := s.store.company(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	rows := []historyRow{}
	for _, a := range s.store.history(id) {
		rows = append(rows, historyRow{
			AnalysisID:      a.id,
			CompanyName:     company.Name,
			ESGScore:        a.assessment.OverallAssessment.ESGScore,
			RiskLevel:       a.assessment.OverallAssessment.RiskLevel,
			AnalysisPayload: a.assessment,
			Timestamp:       a.at.Format(localDateTime),
		})
	}
	c.JSON(http.StatusOK, rows)
}
