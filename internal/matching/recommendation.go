package matching

import "github.com/jonathan/job-scout/internal/types"

// Score thresholds for deriving a recommendation
const (
	StrongMatchThreshold   = 80
	GoodMatchThreshold     = 60
	ModerateMatchThreshold = 40
)

// RecommendationForScore maps a score onto the fixed recommendation table.
func RecommendationForScore(score int) types.Recommendation {
	switch {
	case score >= StrongMatchThreshold:
		return types.StrongMatch
	case score >= GoodMatchThreshold:
		return types.GoodMatch
	case score >= ModerateMatchThreshold:
		return types.ModerateMatch
	default:
		return types.WeakMatch
	}
}
