package esg

// Score thresholds for deriving a risk level when the backend omits one.
const (
	HighRiskMax   = 35
	MediumRiskMax = 65
)

// DeriveRiskLevel buckets a score: ≤35 HIGH, ≤65 MEDIUM, else LOW.
func DeriveRiskLevel(score float64) RiskLevel {
	switch {
	case score <= HighRiskMax:
		return RiskHigh
	case score <= MediumRiskMax:
		return RiskMedium
	default:
		return RiskLow
	}
}

// EffectiveRisk returns the record's own level, or one derived from its score.
func EffectiveRisk(a AnalysisResult) RiskLevel {
	if a.RiskLevel != "" {
		return a.RiskLevel
	}
	return DeriveRiskLevel(a.Score)
}

// RiskCounts holds the number of records per known bucket.
type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Total returns the sum of all buckets.
func (c RiskCounts) Total() int {
	return c.High + c.Medium + c.Low
}

// Get returns the count for level.
func (c RiskCounts) Get(level RiskLevel) int {
	switch level {
	case RiskHigh:
		return c.High
	case RiskMedium:
		return c.Medium
	case RiskLow:
		return c.Low
	default:
		return 0
	}
}

// CountByRisk counts records per bucket, deriving missing levels from the score.
// Levels outside HIGH/MEDIUM/LOW are not counted.
func CountByRisk(list []AnalysisResult) RiskCounts {
	var c RiskCounts
	for _, a := range list {
		switch EffectiveRisk(a) {
		case RiskHigh:
			c.High++
		case RiskMedium:
			c.Medium++
		case RiskLow:
			c.Low++
		}
	}
	return c
}

// LevelCount is one slice of a risk distribution.
type LevelCount struct {
	Level RiskLevel `json:"level"`
	Count int       `json:"count"`
}

// RiskDistribution counts records by the level the backend sent, in order of
// first appearance. Records without a level count as UNKNOWN.
func RiskDistribution(list []AnalysisResult) []LevelCount {
	out := []LevelCount{}
	index := make(map[RiskLevel]int)
	for _, a := range list {
		level := a.RiskLevel
		if level == "" {
			level = RiskUnknown
		}
		i, ok := index[level]
		if !ok {
			i = len(out)
			index[level] = i
			out = append(out, LevelCount{Level: level})
		}
		out[i].Count++
	}
	return out
}

// ScoreDistribution counts records per known bucket by the level the backend
// sent. HIGH, MEDIUM and LOW are always present, in that order.
func ScoreDistribution(list []AnalysisResult) []LevelCount {
	out := make([]LevelCount, len(RiskLevels))
	for i, level := range RiskLevels {
		out[i].Level = level
	}
	for _, a := range list {
		for i := range out {
			if a.RiskLevel == out[i].Level {
				out[i].Count++
			}
		}
	}
	return out
}
