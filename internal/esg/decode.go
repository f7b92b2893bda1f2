package esg

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// wireResult accepts every analysis shape the backend has been seen to
// send: the flat record, the analyze response (overallAssessment,
// pillarAssessment, keyIncidents) and the history row (analysisPayload).
type wireResult struct {
	ID          json.RawMessage `json:"id"`
	AnalysisID  json.RawMessage `json:"analysisId"`
	CompanyID   json.RawMessage `json:"companyId"`
	CompanyName string          `json:"companyName"`
	Company     string          `json:"company"`
	ESGScore    json.RawMessage `json:"esgScore"`
	RiskLevel   string          `json:"riskLevel"`

	Explanation    string          `json:"explanation"`
	AnalystSummary string          `json:"analystSummary"`
	Signals        json.RawMessage `json:"signals"`

	Pillars            map[Pillar]wirePillar `json:"pillars"`
	PillarAssessment   map[Pillar]wirePillar `json:"pillarAssessment"`
	Incidents          []Incident            `json:"incidents"`
	KeyIncidents       []Incident            `json:"keyIncidents"`
	GovernanceRisk     string                `json:"governanceRisk"`
	GovernanceConcerns []string              `json:"governanceConcerns"`

	OverallAssessment *struct {
		ESGScore  json.RawMessage `json:"esgScore"`
		RiskLevel string          `json:"riskLevel"`
	} `json:"overallAssessment"`
	GovernanceAssessment *struct {
		OverallRisk string   `json:"overallRisk"`
		Concerns    []string `json:"concerns"`
	} `json:"governanceAssessment"`

	AnalysisPayload json.RawMessage `json:"analysisPayload"`

	Timestamp      json.RawMessage `json:"timestamp"`
	Date           json.RawMessage `json:"date"`
	CreatedAt      json.RawMessage `json:"createdAt"`
	CreatedAtSnake json.RawMessage `json:"created_at"`
	AnalysisDate   json.RawMessage `json:"analysisDate"`
}

type wirePillar struct {
	Score   json.RawMessage `json:"score"`
	Risk    string          `json:"risk"`
	Drivers []string        `json:"drivers"`
}

// UnmarshalJSON decodes any known analysis shape. Missing fields fall back
// in order: explanation to analystSummary, company name to company,
// signals to pillar drivers, timestamp through date, createdAt,
// created_at and analysisDate.
func (a *AnalysisResult) UnmarshalJSON(data []byte) error {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var payload *wireResult
	if raw := unquoteObject(w.AnalysisPayload); len(raw) > 0 {
		var p wireResult
		// A malformed payload only loses the detail it would have added.
		if json.Unmarshal(raw, &p) == nil {
			payload = &p
		}
	}

	*a = AnalysisResult{}
	a.fill(&w)
	if payload != nil {
		a.fillMissing(payload)
	}
	return nil
}

func (a *AnalysisResult) fill(w *wireResult) {
	a.ID = firstInt(w.ID, w.AnalysisID)
	a.CompanyID = firstInt(w.CompanyID)
	a.CompanyName = firstString(w.CompanyName, w.Company)
	a.Explanation = firstString(w.Explanation, w.AnalystSummary)

	score, ok := parseNumber(w.ESGScore)
	level := w.RiskLevel
	if w.OverallAssessment != nil {
		if !ok {
			score, _ = parseNumber(w.OverallAssessment.ESGScore)
		}
		level = firstString(level, w.OverallAssessment.RiskLevel)
	}
	a.Score = score
	a.RiskLevel = ParseRiskLevel(level)

	a.Pillars = decodePillars(w.Pillars)
	if a.Pillars == nil {
		a.Pillars = decodePillars(w.PillarAssessment)
	}

	a.Incidents = w.Incidents
	if len(a.Incidents) == 0 {
		a.Incidents = w.KeyIncidents
	}

	a.GovernanceRisk = ParseRiskLevel(w.GovernanceRisk)
	a.GovernanceConcerns = w.GovernanceConcerns
	if g := w.GovernanceAssessment; g != nil {
		if a.GovernanceRisk == "" {
			a.GovernanceRisk = ParseRiskLevel(g.OverallRisk)
		}
		if len(a.GovernanceConcerns) == 0 {
			a.GovernanceConcerns = g.Concerns
		}
	}

	a.Signals = decodeSignals(w.Signals)
	if a.Signals.Empty() {
		a.Signals = signalsFromDrivers(a.Pillars)
	}

	a.Timestamp = firstTime(w.Timestamp, w.Date, w.CreatedAt, w.CreatedAtSnake, w.AnalysisDate)
}

// fillMissing copies from the nested payload whatever the outer record lacks.
func (a *AnalysisResult) fillMissing(w *wireResult) {
	var inner AnalysisResult
	inner.fill(w)

	if a.CompanyName == "" {
		a.CompanyName = inner.CompanyName
	}
	if a.CompanyID == 0 {
		a.CompanyID = inner.CompanyID
	}
	if a.Score == 0 {
		a.Score = inner.Score
	}
	if a.RiskLevel == "" {
		a.RiskLevel = inner.RiskLevel
	}
	if a.Explanation == "" {
		a.Explanation = inner.Explanation
	}
	if a.Pillars == nil {
		a.Pillars = inner.Pillars
	}
	if len(a.Incidents) == 0 {
		a.Incidents = inner.Incidents
	}
	if a.GovernanceRisk == "" {
		a.GovernanceRisk = inner.GovernanceRisk
	}
	if len(a.GovernanceConcerns) == 0 {
		a.GovernanceConcerns = inner.GovernanceConcerns
	}
	if a.Signals.Empty() {
		a.Signals = inner.Signals
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = inner.Timestamp
	}
}

func decodePillars(in map[Pillar]wirePillar) map[Pillar]PillarAssessment {
	if len(in) == 0 {
		return nil
	}
	out := make(map[Pillar]PillarAssessment, len(in))
	for p, w := range in {
		score, _ := parseNumber(w.Score)
		out[Pillar(strings.ToUpper(string(p)))] = PillarAssessment{
			Score:   score,
			Risk:    ParseRiskLevel(w.Risk),
			Drivers: w.Drivers,
		}
	}
	return out
}

// decodeSignals accepts {pillar: [..]} (treated as risk signals) or
// {positive: {pillar: [..]}, negative: {pillar: [..]}}.
func decodeSignals(raw json.RawMessage) Signals {
	if len(raw) == 0 {
		return Signals{}
	}
	var grouped struct {
		Positive map[Pillar][]string `json:"positive"`
		Negative map[Pillar][]string `json:"negative"`
	}
	if json.Unmarshal(raw, &grouped) == nil && (grouped.Positive != nil || grouped.Negative != nil) {
		return Signals{Positive: grouped.Positive, Risk: grouped.Negative}
	}
	var flat map[Pillar][]string
	if json.Unmarshal(raw, &flat) == nil && len(flat) > 0 {
		return Signals{Risk: flat}
	}
	return Signals{}
}

func signalsFromDrivers(pillars map[Pillar]PillarAssessment) Signals {
	var risk map[Pillar][]string
	for p, pa := range pillars {
		if len(pa.Drivers) == 0 {
			continue
		}
		if risk == nil {
			risk = make(map[Pillar][]string)
		}
		risk[p] = pa.Drivers
	}
	return Signals{Risk: risk}
}

// timeLayouts are tried in order. The backend serializes LocalDateTime
// without a zone, with or without fractional seconds.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats seen from the backend.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstTime(candidates ...json.RawMessage) time.Time {
	for _, raw := range candidates {
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if t, ok := ParseTimestamp(s); ok {
				return t
			}
			continue
		}
		// Epoch milliseconds
		if ms, ok := parseNumber(raw); ok && ms > 0 {
			return time.UnixMilli(int64(ms)).UTC()
		}
	}
	return time.Time{}
}

// parseNumber reads a JSON number or a numeric string.
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f, true
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func firstInt(candidates ...json.RawMessage) int64 {
	for _, raw := range candidates {
		if f, ok := parseNumber(raw); ok {
			return int64(f)
		}
	}
	return 0
}

func firstString(candidates ...string) string {
	for _, s := range candidates {
		if s != "" {
			return s
		}
	}
	return ""
}

// unquoteObject returns the object bytes whether raw is an object or a
// string holding one.
func unquoteObject(raw json.RawMessage) []byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '{':
		return raw
	case '"':
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.HasPrefix(strings.TrimSpace(s), "{") {
			return []byte(s)
		}
	}
	return nil
}
