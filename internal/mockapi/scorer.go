package mockapi

import (
	"sort"
	"strings"

	"github.com/pulseesg/pulse/internal/esg"
)

// maxTextLength is how much of the news text the scorer reads.
const maxTextLength = 4000

// basePillarScore is every pillar's score before penalties and bonuses.
const basePillarScore = 70

type keyword struct {
	term     string
	severity int
}

// negativeEvents is the incident taxonomy per pillar.
var negativeEvents = []struct {
	pillar   esg.Pillar
	keywords []keyword
}{
	{esg.PillarE, []keyword{{"toxic", 5}, {"contamination", 5}, {"pollution", 4}, {"emissions", 4}, {"spill", 4}}},
	{esg.PillarS, []keyword{{"injury", 3}, {"fatality", 4}, {"harassment", 4}, {"discrimination", 4}, {"unsafe", 3}, {"illness", 3}}},
	{esg.PillarG, []keyword{{"fraud", 5}, {"bribery", 5}, {"investigation", 4}, {"audit", 3}, {"regulatory", 4}, {"whistleblower", 4}}},
}

var positiveSignals = []string{
	"policy approved", "policy introduced", "committee formed", "board-level",
	"compliance settlement", "paid all fines", "third-party verification",
	"publicly disclosed", "bonuses linked", "whistleblower protection",
	"remediation completed", "monitoring installed",
}

var resolutionTerms = []string{
	"completed", "resolved", "settled", "approved", "introduced",
	"closed", "launched", "confirmed", "signed", "implemented",
}

var ongoingRiskTerms = []string{
	"lawsuit", "class action", "alleged", "pending", "claims", "ongoing investigation",
}

const analystSummary = "The entity exhibits ESG exposure driven by a mix of historical incidents, " +
	"ongoing disputes, and subsequent remediation actions, with governance reforms " +
	"moderating risk when verified."

// scoreRisk buckets a scorer score: <30 HIGH, <55 MEDIUM, else LOW.
// The AI service uses stricter cut-offs than the dashboard's fallback.
func scoreRisk(score int) esg.RiskLevel {
	switch {
	case score < 30:
		return esg.RiskHigh
	case score < 55:
		return esg.RiskMedium
	default:
		return esg.RiskLow
	}
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// Assessment is the analysis payload in the AI service's shape.
type Assessment struct {
	OverallAssessment    OverallAssessment           `json:"overallAssessment"`
	PillarAssessment     map[esg.Pillar]PillarResult `json:"pillarAssessment"`
	KeyIncidents         []esg.Incident              `json:"keyIncidents"`
	GovernanceAssessment GovernanceAssessment        `json:"governanceAssessment"`
	AnalystSummary       string                      `json:"analystSummary"`
}

// OverallAssessment is the headline score.
type OverallAssessment struct {
	ESGScore  int           `json:"esgScore"`
	RiskLevel esg.RiskLevel `json:"riskLevel"`
}

// PillarResult is one pillar's score and the keywords that drove it.
type PillarResult struct {
	Score   int           `json:"score"`
	Risk    esg.RiskLevel `json:"risk"`
	Drivers []string      `json:"drivers"`
}

// GovernanceAssessment mirrors the G pillar.
type GovernanceAssessment struct {
	OverallRisk esg.RiskLevel `json:"overallRisk"`
	Concerns    []string      `json:"concerns"`
}

// Score runs the keyword scorer over text. Each matched incident keyword
// costs severity×6 points on its pillar. Confirmed remediation without an
// ongoing dispute cuts that to 35%; an ongoing dispute adds 5 (S, G) or
// 3 (E). Verified positive actions add 8 to G and 3 to E.
func Score(text string) Assessment {
	clean := strings.ToLower(text)
	if len(clean) > maxTextLength {
		clean = clean[:maxTextLength]
	}

	hasResolution := containsAny(clean, resolutionTerms)
	hasOngoingRisk := containsAny(clean, ongoingRiskTerms)

	penalty := map[esg.Pillar]int{}
	bonus := map[esg.Pillar]int{}
	drivers := map[esg.Pillar][]string{}
	incidents := []esg.Incident{}

	for _, group := range negativeEvents {
		for _, kw := range group.keywords {
			if !strings.Contains(clean, kw.term) {
				continue
			}
			p := kw.severity * 6
			if hasResolution && !hasOngoingRisk {
				p = p * 35 / 100
			}
			if hasOngoingRisk {
				if group.pillar == esg.PillarE {
					p += 3
				} else {
					p += 5
				}
			}
			penalty[group.pillar] += p
			drivers[group.pillar] = append(drivers[group.pillar], kw.term)

			severity := "MEDIUM"
			if kw.severity >= 4 {
				severity = "HIGH"
			}
			incidents = append(incidents, esg.Incident{
				Pillar:   group.pillar,
				Incident: kw.term + " related issue",
				Severity: severity,
				Evidence: []string{kw.term},
			})
		}
	}

	if !hasOngoingRisk {
		for _, signal := range positiveSignals {
			if strings.Contains(clean, signal) {
				bonus[esg.PillarG] += 8
				bonus[esg.PillarE] += 3
			}
		}
	}

	pillars := make(map[esg.Pillar]PillarResult, len(esg.Pillars))
	total := 0
	for _, p := range esg.Pillars {
		score := min(max(basePillarScore-penalty[p]+bonus[p], 0), 100)
		d := drivers[p]
		if d == nil {
			d = []string{}
		}
		sort.Strings(d)
		pillars[p] = PillarResult{Score: score, Risk: scoreRisk(score), Drivers: d}
		total += score
	}
	overall := total / len(esg.Pillars)

	return Assessment{
		OverallAssessment: OverallAssessment{ESGScore: overall, RiskLevel: scoreRisk(overall)},
		PillarAssessment:  pillars,
		KeyIncidents:      incidents,
		GovernanceAssessment: GovernanceAssessment{
			OverallRisk: pillars[esg.PillarG].Risk,
			Concerns:    pillars[esg.PillarG].Drivers,
		},
		AnalystSummary: analystSummary,
	}
}
