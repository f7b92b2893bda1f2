package tui

import (
	"context"

	"github.com/pulseesg/pulse/internal/api"
	"github.com/pulseesg/pulse/internal/config"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/session"
)

// Backend is the part of the API client the dashboard calls.
// *api.Client implements it.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	ListCompanies(ctx context.Context) ([]esg.Company, error)
	CreateCompany(ctx context.Context, in esg.CompanyInput) (*esg.Company, error)
	DeleteCompany(ctx context.Context, id int64) error
	Analyze(ctx context.Context, req esg.AnalyzeRequest) (*esg.AnalysisResult, error)
	AllHistory(ctx context.Context, companies []esg.Company) ([]esg.AnalysisResult, error)
}

var _ Backend = (*api.Client)(nil)

// Deps are the collaborators of the dashboard.
type Deps struct {
	Config  *config.Config
	Session *session.Store
	Backend Backend
}
