package matching

import (
	"errors"

	"github.com/jonathan/job-scout/internal/llm"
	"github.com/jonathan/job-scout/internal/types"
)

// Reasoning strings carried by degraded results
const (
	ReasoningParseError      = "Error analyzing match - please review manually"
	ReasoningAPIError        = "API error occurred - please try again later"
	ReasoningUnexpectedError = "Unexpected error - please review manually"
)

// DegradedResult builds the substitute MatchResult returned when scoring fails.
func DegradedResult(err error) types.MatchResult {
	result := types.MatchResult{
		Score:                   0,
		Pros:                    []string{},
		SkillMatchPercentage:    0,
		Recommendation:          types.ReviewManually,
		StrongMatches:           []string{},
		Gaps:                    []string{},
		StrategicConsiderations: []string{},
		Degraded:                true,
	}

	var parseErr *llm.ExtractionParseError
	var apiErr *llm.ExtractionAPIError
	switch {
	case errors.As(err, &parseErr):
		result.Reasoning = ReasoningParseError
		result.Pros = []string{"Could not analyze automatically"}
		result.Cons = []string{"JSON parsing error"}
	case errors.As(err, &apiErr):
		result.Reasoning = ReasoningAPIError
		result.Cons = []string{"API connection error"}
	default:
		result.Reasoning = ReasoningUnexpectedError
		result.Cons = []string{"Analysis error"}
	}
	return result
}
