package types

import "strings"

// Recommendation is the categorical verdict attached to a MatchResult.
type Recommendation string

// Recommendation values
const (
	StrongMatch    Recommendation = "Strong Match"
	GoodMatch      Recommendation = "Good Match"
	ModerateMatch  Recommendation = "Moderate Match"
	WeakMatch      Recommendation = "Weak Match"
	ReviewManually Recommendation = "Review Manually"
)

// Recommendations lists every valid recommendation in descending strength.
var Recommendations = []Recommendation{StrongMatch, GoodMatch, ModerateMatch, WeakMatch, ReviewManually}

// ParseRecommendation matches s case-insensitively against the known labels.
func ParseRecommendation(s string) (Recommendation, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Recommendations {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

// MatchResult is the scored comparison between one job and one candidate profile.
// Score and SkillMatchPercentage are expected in [0,100] but are not clamped.
type MatchResult struct {
	Score                   int            `json:"score"`
	Reasoning               string         `json:"reasoning"`
	Pros                    []string       `json:"pros"`
	Cons                    []string       `json:"cons"`
	SkillMatchPercentage    int            `json:"skill_match_percentage"`
	Recommendation          Recommendation `json:"recommendation"`
	StrongMatches           []string       `json:"strong_matches"`
	Gaps                    []string       `json:"gaps"`
	StrategicConsiderations []string       `json:"strategic_considerations"`
	// Degraded marks a substitute result produced after an extraction failure.
	Degraded bool `json:"degraded,omitempty"`
}
