package api

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/pulseesg/pulse/internal/errors"
	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/logging"
	"github.com/pulseesg/pulse/internal/version"
)

// Credentials is the login and register payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is what login and register return.
type AuthResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	if c.session != nil {
		if err := c.session.SetLogin(resp.Token, resp.Role); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}
	logging.FromContext(ctx).Info("logged in", "role", resp.Role)
	return &resp, nil
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BackendVersion asks the backend which API revision it serves. A backend
// without the route reports an empty Backend.
func (c *Client) BackendVersion(ctx context.Context) (*version.Backend, error) {
	var b version.Backend
	if err := c.do(ctx, http.MethodGet, "/version", nil, &b); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return &version.Backend{}, nil
		}
		return nil, err
	}
	return &b, nil
}

// ListCompanies returns all companies.
func (c *Client) ListCompanies(ctx context.Context) ([]esg.Company, error) {
	var companies []esg.Company
	if err := c.do(ctx, http.MethodGet, "/companies", nil, &companies); err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []esg.Company{}
	}
	return companies, nil
}

// CreateCompany validates in and creates the company. Invalid input never
// reaches the network.
func (c *Client) CreateCompany(ctx context.Context, in esg.CompanyInput) (*esg.Company, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var company esg.Company
	if err := c.do(ctx, http.MethodPost, "/companies", in.Normalize(), &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// DeleteCompany deletes the company with id.
func (c *Client) DeleteCompany(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/companies/%d", id), nil, nil)
}

// Analyze validates req and asks the backend to score the text.
// The call can take minutes; it is bounded only by the client timeout and ctx.
func (c *Client) Analyze(ctx context.Context, req esg.AnalyzeRequest) (*esg.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var result esg.AnalysisResult
	if err := c.do(ctx, http.MethodPost, c.analyzePath, req, &result); err != nil {
		return nil, err
	}
	if result.CompanyID == 0 {
		result.CompanyID = req.CompanyID
	}
	return &result, nil
}

// History returns the analyses of one company.
func (c *Client) History(ctx context.Context, companyID int64) ([]esg.AnalysisResult, error) {
	var list []esg.AnalysisResult
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/esg/history/%d", companyID), nil, &list); err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].CompanyID == 0 {
			list[i].CompanyID = companyID
		}
	}
	if list == nil {
		list = []esg.AnalysisResult{}
	}
	return list, nil
}

// AllHistory loads the history of every company in parallel. The join is
// all-or-nothing: the first failure cancels the rest and no partial result
// is returned. Records are concatenated in company order.
func (c *Client) AllHistory(ctx context.Context, companies []esg.Company) ([]esg.AnalysisResult, error) {
	results := make([][]esg.AnalysisResult, len(companies))

	g, gctx := errgroup.WithContext(ctx)
	for i, company := range companies {
		g.Go(func() error {
			list, err := c.History(gctx, company.ID)
			if err != nil {
				return err
			}
			for j := range list {
				if list[j].CompanyName == "" {
					list[j].CompanyName = company.Name
				}
			}
			results[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := []esg.AnalysisResult{}
	for _, list := range results {
		all = append(all, list...)
	}
	return all, nil
}
