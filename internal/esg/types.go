// Package esg provides the ESG domain model and the aggregations the
// dashboard views chart: risk buckets, averages, trends and rankings.
package esg

import (
	"strings"
	"time"
)

// RiskLevel is the categorical bucket accompanying an ESG score.
type RiskLevel string

const (
	RiskHigh    RiskLevel = "HIGH"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskLow     RiskLevel = "LOW"
	RiskUnknown RiskLevel = "UNKNOWN"
)

// RiskLevels lists the known buckets from worst to best.
var RiskLevels = []RiskLevel{RiskHigh, RiskMedium, RiskLow}

// ParseRiskLevel normalizes a backend risk string. Empty input stays empty.
func ParseRiskLevel(s string) RiskLevel {
	return RiskLevel(strings.ToUpper(strings.TrimSpace(s)))
}

// IsValid returns true if the level is HIGH, MEDIUM or LOW.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the level.
func (r RiskLevel) String() string {
	return string(r)
}

// Pillar is one of the Environmental, Social or Governance dimensions.
type Pillar string

const (
	PillarE Pillar = "E"
	PillarS Pillar = "S"
	PillarG Pillar = "G"
)

// Pillars lists the dimensions in display order.
var Pillars = []Pillar{PillarE, PillarS, PillarG}

// Name returns the long name of the pillar.
func (p Pillar) Name() string {
	switch p {
	case PillarE:
		return "Environmental"
	case PillarS:
		return "Social"
	case PillarG:
		return "Governance"
	default:
		return string(p)
	}
}

// Company is a tracked organization.
type Company struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	Country string `json:"country"`
}

// CompanyInput is the payload of the add-company form.
type CompanyInput struct {
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	Country string `json:"country"`
}

// AnalyzeRequest asks the backend to score news text for one company.
type AnalyzeRequest struct {
	CompanyID int64  `json:"companyId"`
	NewsText  string `json:"newsText"`
}

// PillarAssessment is the per-pillar part of an analysis.
type PillarAssessment struct {
	Score   float64   `json:"score"`
	Risk    RiskLevel `json:"risk,omitempty"`
	Drivers []string  `json:"drivers,omitempty"`
}

// Incident is a notable event the analysis found in the text.
type Incident struct {
	Pillar   Pillar   `json:"pillar"`
	Incident string   `json:"incident"`
	Severity string   `json:"severity"`
	Evidence []string `json:"evidence,omitempty"`
}

// Signals groups the evidence phrases behind a score, keyed by pillar.
type Signals struct {
	Positive map[Pillar][]string `json:"positive,omitempty"`
	Risk     map[Pillar][]string `json:"negative,omitempty"`
}

// Empty reports whether no signal was found in either group.
func (s Signals) Empty() bool {
	return countSignals(s.Positive) == 0 && countSignals(s.Risk) == 0
}

func countSignals(m map[Pillar][]string) int {
	n := 0
	for _, v := range m {
		n += len(v)
	}
	return n
}

// AnalysisResult is one scored analysis as returned by the backend.
// It is immutable once decoded.
type AnalysisResult struct {
	ID          int64     `json:"id,omitempty"`
	CompanyID   int64     `json:"companyId,omitempty"`
	CompanyName string    `json:"companyName"`
	Score       float64   `json:"esgScore"`
	RiskLevel   RiskLevel `json:"riskLevel,omitempty"`
	Explanation string    `json:"explanation,omitempty"`
	Signals     Signals   `json:"signals"`

	Pillars            map[Pillar]PillarAssessment `json:"pillars,omitempty"`
	Incidents          []Incident                  `json:"incidents,omitempty"`
	GovernanceRisk     RiskLevel                   `json:"governanceRisk,omitempty"`
	GovernanceConcerns []string                    `json:"governanceConcerns,omitempty"`

	// Timestamp is zero when the backend sent none or an unparseable one.
	Timestamp time.Time `json:"timestamp"`
}

// HasTimestamp reports whether the record carries a usable time.
func (a AnalysisResult) HasTimestamp() bool {
	return !a.Timestamp.IsZero()
}

// DisplayDate formats the timestamp for tables, or "—" when unknown.
func (a AnalysisResult) DisplayDate() string {
	if !a.HasTimestamp() {
		return "—"
	}
	return a.Timestamp.Format("Jan 2, 2006")
}
