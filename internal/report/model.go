package report

import (
	"time"

	"github.com/pulseesg/pulse/internal/esg"
	"github.com/pulseesg/pulse/internal/session"
)

// Chart sizes shared by the dashboard and the headless commands.
const (
	RecentLimit          = 5
	TopScoresLimit       = 6
	TimelineLimit        = 10
	CompanyAveragesLimit = 8
)

// Overview is everything the overview page shows.
type Overview struct {
	TotalCompanies int                  `json:"totalCompanies"`
	AverageScore   int                  `json:"averageScore"`
	Risk           esg.RiskCounts       `json:"risk"`
	Distribution   []esg.LevelCount     `json:"distribution"`
	Recent         []esg.AnalysisResult `json:"recent"`
	TopScores      []esg.ScoreBar       `json:"topScores"`
	Trend          []esg.TrendPoint     `json:"trend"`
	Latest         []esg.AnalysisResult `json:"latest"`
}

// BuildOverview aggregates the portfolio. The company and risk filters only
// narrow the recent analyses table.
func BuildOverview(companies []esg.Company, analyses []esg.AnalysisResult, company string, risk esg.RiskLevel) Overview {
	recent := esg.Filter(analyses, company, risk)
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return Overview{
		TotalCompanies: len(companies),
		AverageScore:   esg.MeanScore(analyses),
		Risk:           esg.CountByRisk(analyses),
		Distribution:   esg.ScoreDistribution(analyses),
		Recent:         recent,
		TopScores:      esg.TopScores(analyses, TopScoresLimit),
		Trend:          esg.MonthlyTrend(analyses),
		Latest:         esg.LatestByCompany(analyses),
	}
}

// History is everything the history page shows.
type History struct {
	Stats             esg.Summary          `json:"stats"`
	RiskDistribution  []esg.LevelCount     `json:"riskDistribution"`
	ScoreDistribution []esg.LevelCount     `json:"scoreDistribution"`
	Timeline          []esg.TimelinePoint  `json:"timeline"`
	CompanyAverages   []esg.CompanyAverage `json:"companyAverages"`
	Trend             []esg.TrendPoint     `json:"trend"`
	Records           []esg.AnalysisResult `json:"records"`
}

// BuildHistory aggregates every analysis. Records holds the filtered table rows.
func BuildHistory(analyses []esg.AnalysisResult, company string, risk esg.RiskLevel) History {
	return History{
		Stats:             esg.Stats(analyses),
		RiskDistribution:  esg.RiskDistribution(analyses),
		ScoreDistribution: esg.ScoreDistribution(analyses),
		Timeline:          esg.Timeline(analyses, TimelineLimit),
		CompanyAverages:   esg.CompanyAverages(analyses, CompanyAveragesLimit),
		Trend:             esg.MonthlyTrend(analyses),
		Records:           esg.Filter(analyses, company, risk),
	}
}

// Profile is the signed-in user as the profile page shows it.
type Profile struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Theme     string    `json:"theme"`
	BaseURL   string    `json:"baseUrl"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// BuildProfile describes the user behind token. The email comes from the
// token subject; the role from the token, falling back to the stored one.
// An undecodable token leaves email and expiry empty.
func BuildProfile(token, storedRole, theme, baseURL string) Profile {
	p := Profile{Role: storedRole, Theme: theme, BaseURL: baseURL}
	claims, err := session.ParseClaims(token)
	if err != nil {
		return p
	}
	p.Email = claims.Subject
	if claims.Role != "" {
		p.Role = claims.Role
	}
	p.ExpiresAt = claims.ExpiresAt
	return p
}
