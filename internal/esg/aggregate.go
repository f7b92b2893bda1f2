package esg

import (
	"math"
	"sort"
	"strings"
	"time"
)

// MeanScore returns the rounded mean score, or 0 for an empty list.
func MeanScore(list []AnalysisResult) int {
	if len(list) == 0 {
		return 0
	}
	var sum float64
	for _, a := range list {
		sum += a.Score
	}
	return int(math.Round(sum / float64(len(list))))
}

// LatestByCompany returns each company's most recent record, sorted by company name.
// Undated records only win when a company has no dated one.
func LatestByCompany(list []AnalysisResult) []AnalysisResult {
	latest := make(map[string]AnalysisResult)
	for _, a := range list {
		cur, ok := latest[a.CompanyName]
		if !ok || a.Timestamp.After(cur.Timestamp) {
			latest[a.CompanyName] = a
		}
	}

	out := make([]AnalysisResult, 0, len(latest))
	for _, a := range latest {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompanyName < out[j].CompanyName
	})
	return out
}

// TrendMonths is how many months MonthlyTrend keeps.
const TrendMonths = 6

// TrendPoint is the average score for one calendar month.
type TrendPoint struct {
	Month   time.Time `json:"month"`
	Average float64   `json:"average"`
	Count   int       `json:"count"`
}

// Label formats the month as "Jan 2025".
func (p TrendPoint) Label() string {
	return p.Month.Format("Jan 2006")
}

// MonthlyTrend groups dated records by year-month, averages each group and
// returns the last six months in ascending order.
func MonthlyTrend(list []AnalysisResult) []TrendPoint {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[time.Time]*bucket)
	for _, a := range list {
		if !a.HasTimestamp() {
			continue
		}
		month := time.Date(a.Timestamp.Year(), a.Timestamp.Month(), 1, 0, 0, 0, 0, time.UTC)
		b, ok := buckets[month]
		if !ok {
			b = &bucket{}
			buckets[month] = b
		}
		b.sum += a.Score
		b.count++
	}

	out := make([]TrendPoint, 0, len(buckets))
	for month, b := range buckets {
		out = append(out, TrendPoint{Month: month, Average: b.sum / float64(b.count), Count: b.count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	if len(out) > TrendMonths {
		out = out[len(out)-TrendMonths:]
	}
	return out
}

// TimelinePoint is one analysis on the history timeline.
type TimelinePoint struct {
	Time    time.Time `json:"time"`
	Score   float64   `json:"score"`
	Company string    `json:"company"`
}

// Timeline returns the last n records in chronological order.
func Timeline(list []AnalysisResult, n int) []TimelinePoint {
	sorted := make([]AnalysisResult, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}

	out := make([]TimelinePoint, len(sorted))
	for i, a := range sorted {
		out[i] = TimelinePoint{Time: a.Timestamp, Score: a.Score, Company: a.CompanyName}
	}
	return out
}

// CompanyAverage summarizes all analyses of one company.
type CompanyAverage struct {
	Company   string    `json:"company"`
	Average   int       `json:"average"`
	RiskLevel RiskLevel `json:"riskLevel"`
	Count     int       `json:"count"`
}

// CompanyAverages returns per-company rounded averages with the most common
// risk level, highest average first, at most n entries.
// Ties keep the order in which companies first appear.
func CompanyAverages(list []AnalysisResult, n int) []CompanyAverage {
	type acc struct {
		name   string
		sum    float64
		count  int
		levels []LevelCount
	}
	var order []*acc
	byName := make(map[string]*acc)

	for _, a := range list {
		c, ok := byName[a.CompanyName]
		if !ok {
			c = &acc{name: a.CompanyName}
			byName[a.CompanyName] = c
			order = append(order, c)
		}
		c.sum += a.Score
		c.count++

		level := a.RiskLevel
		if level == "" {
			level = RiskUnknown
		}
		found := false
		for i := range c.levels {
			if c.levels[i].Level == level {
				c.levels[i].Count++
				found = true
				break
			}
		}
		if !found {
			c.levels = append(c.levels, LevelCount{Level: level, Count: 1})
		}
	}

	out := make([]CompanyAverage, 0, len(order))
	for _, c := range order {
		common := RiskUnknown
		best := 0
		for _, lc := range c.levels {
			if lc.Count > best {
				common, best = lc.Level, lc.Count
			}
		}
		out = append(out, CompanyAverage{
			Company:   c.name,
			Average:   int(math.Round(c.sum / float64(c.count))),
			RiskLevel: common,
			Count:     c.count,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Average > out[j].Average
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ScoreBar is one bar of the top-scores chart.
type ScoreBar struct {
	Company string  `json:"company"`
	Score   float64 `json:"score"`
}

// TopScores returns the first n records as bars, in list order.
func TopScores(list []AnalysisResult, n int) []ScoreBar {
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	out := make([]ScoreBar, len(list))
	for i, a := range list {
		out[i] = ScoreBar{Company: a.CompanyName, Score: a.Score}
	}
	return out
}

// Summary holds the history stats cards.
type Summary struct {
	Total     int  `json:"total"`
	Average   int  `json:"average"`
	HighRisk  int  `json:"highRisk"`
	LowRisk   int  `json:"lowRisk"`
	Improving bool `json:"improving"`
}

// HighShare returns the HIGH share of all records as a rounded percentage.
func (s Summary) HighShare() int {
	return percent(s.HighRisk, s.Total)
}

// LowShare returns the LOW share of all records as a rounded percentage.
func (s Summary) LowShare() int {
	return percent(s.LowRisk, s.Total)
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// ImprovingThreshold is the average above which the history counts as improving.
const ImprovingThreshold = 50

// Stats computes the history stats cards. HIGH and LOW count only records
// whose backend level says so.
func Stats(list []AnalysisResult) Summary {
	s := Summary{Total: len(list), Average: MeanScore(list)}
	for _, a := range list {
		switch a.RiskLevel {
		case RiskHigh:
			s.HighRisk++
		case RiskLow:
			s.LowRisk++
		}
	}
	s.Improving = s.Total > 0 && s.Average > ImprovingThreshold
	return s
}

// FilterAll is the selector value that disables a filter.
const FilterAll = "ALL"

func matchesAll(v string) bool {
	return v == "" || strings.EqualFold(v, FilterAll)
}

// Filter keeps records of company at risk level. An empty or ALL value
// disables that criterion. Records without a level match their derived one.
func Filter(list []AnalysisResult, company string, risk RiskLevel) []AnalysisResult {
	out := []AnalysisResult{}
	for _, a := range list {
		if !matchesAll(company) && a.CompanyName != company {
			continue
		}
		if !matchesAll(string(risk)) && EffectiveRisk(a) != ParseRiskLevel(string(risk)) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// CompanyNames returns the distinct company names in order of first appearance.
func CompanyNames(list []AnalysisResult) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, a := range list {
		if a.CompanyName == "" || seen[a.CompanyName] {
			continue
		}
		seen[a.CompanyName] = true
		out = append(out, a.CompanyName)
	}
	return out
}

// SearchCompanies returns the companies whose name, sector or country
// contains term, ignoring case. An empty term matches all.
func SearchCompanies(list []Company, term string) []Company {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []Company{}
	for _, c := range list {
		if term == "" ||
			strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Sector), term) ||
			strings.Contains(strings.ToLower(c.Country), term) {
			out = append(out, c)
		}
	}
	return out
}
