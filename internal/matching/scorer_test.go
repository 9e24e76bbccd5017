package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/job-scout/internal/llm"
	"github.com/jonathan/job-scout/internal/types"
)

func TestRecommendationForScore(t *testing.T) {
	tests := []struct {
		score int
		want  types.Recommendation
	}{
		{100, types.StrongMatch},
		{80, types.StrongMatch},
		{79, types.GoodMatch},
		{60, types.GoodMatch},
		{59, types.ModerateMatch},
		{40, types.ModerateMatch},
		{39, types.WeakMatch},
		{0, types.WeakMatch},
		{-10, types.WeakMatch},
		{150, types.StrongMatch},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score %d", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, RecommendationForScore(tt.score))
		})
	}
}

func TestScorer_FencedResponse(t *testing.T) {
	extractor := &countingExtractor{response: "```json\n{\"score\":90,\"recommendation\":\"Strong Match\"}\n```"}
	scorer := NewScorer(extractor)

	result := scorer.Score(context.Background(), testJob("https://example.com/job/1"), testProfile("cv.txt"))

	assert.Equal(t, 90, result.Score)
	assert.Equal(t, types.StrongMatch, result.Recommendation)
	assert.Equal(t, []string{}, result.Pros)
	assert.Equal(t, []string{}, result.Cons)
	assert.Equal(t, []string{}, result.StrongMatches)
	assert.Equal(t, []string{}, result.Gaps)
	assert.Equal(t, []string{}, result.StrategicConsiderations)
	assert.False(t, result.Degraded)
}

func TestScorer_DerivesRecommendation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     types.Recommendation
	}{
		{"missing", `{"score": 65}`, types.GoodMatch},
		{"unknown label", `{"score": 45, "recommendation": "Perfect fit"}`, types.ModerateMatch},
		{"review manually from model", `{"score": 20, "recommendation": "Review Manually"}`, types.WeakMatch},
		{"case-insensitive label kept", `{"score": 10, "recommendation": "strong match"}`, types.StrongMatch},
		{"missing score", `{}`, types.WeakMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewScorer(&countingExtractor{response: tt.response})
			result := scorer.Score(context.Background(), testJob("https://example.com/job/1"), testProfile("cv.txt"))
			assert.Equal(t, tt.want, result.Recommendation)
		})
	}
}

func TestScorer_OutOfRangePassesThrough(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	scorer := NewScorer(&countingExtractor{response: `{"score": 120, "skill_match_percentage": -4}`}, WithLogger(zap.New(core)))

	result := scorer.Score(context.Background(), testJob("https://example.com/job/1"), testProfile("cv.txt"))

	assert.Equal(t, 120, result.Score)
	assert.Equal(t, -4, result.SkillMatchPercentage)
	assert.Equal(t, types.StrongMatch, result.Recommendation)
	assert.Equal(t, 1, logs.FilterMessage("score outside 0-100 passed through").Len())
}

func TestScorer_CachesByJobAndProfile(t *testing.T) {
	extractor := &countingExtractor{response: `{"score": 70}`}
	scorer := NewScorer(extractor)
	ctx := context.Background()

	first := scorer.Score(ctx, testJob("https://example.com/job/1"), testProfile("cv.txt"))
	second := scorer.Score(ctx, testJob("https://example.com/job/1"), testProfile("cv.txt"))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, extractor.Calls())

	scorer.Score(ctx, testJob("https://example.com/job/2"), testProfile("cv.txt"))
	assert.Equal(t, 2, extractor.Calls())

	scorer.Score(ctx, testJob("https://example.com/job/1"), testProfile("other.txt"))
	assert.Equal(t, 3, extractor.Calls())
}

func TestScorer_DegradedResults(t *testing.T) {
	tests := []struct {
		name          string
		extractor     llm.StructuredExtractor
		wantReasoning string
		wantCons      []string
		wantPros      []string
	}{
		{
			name:          "malformed json",
			extractor:     &countingExtractor{response: "this is not json"},
			wantReasoning: ReasoningParseError,
			wantCons:      []string{"JSON parsing error"},
			wantPros:      []string{"Could not analyze automatically"},
		},
		{
			name:          "api failure",
			extractor:     &countingExtractor{err: &llm.ExtractionAPIError{Attempts: 3, Cause: errors.New("503")}},
			wantReasoning: ReasoningAPIError,
			wantCons:      []string{"API connection error"},
			wantPros:      []string{},
		},
		{
			name:          "unexpected error",
			extractor:     &countingExtractor{err: errors.New("something else")},
			wantReasoning: ReasoningUnexpectedError,
			wantCons:      []string{"Analysis error"},
			wantPros:      []string{},
		},
		{
			name:          "panic",
			extractor:     panickingExtractor{},
			wantReasoning: ReasoningUnexpectedError,
			wantCons:      []string{"Analysis error"},
			wantPros:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewScorer(tt.extractor)

			result := scorer.Score(context.Background(), testJob("https://example.com/job/1"), testProfile("cv.txt"))

			assert.Equal(t, 0, result.Score)
			assert.Equal(t, types.ReviewManually, result.Recommendation)
			assert.Equal(t, tt.wantReasoning, result.Reasoning)
			assert.Equal(t, tt.wantCons, result.Cons)
			assert.Equal(t, tt.wantPros, result.Pros)
			assert.True(t, result.Degraded)
		})
	}
}

func TestScorer_DegradedResultIsCached(t *testing.T) {
	extractor := &countingExtractor{response: "{broken"}
	scorer := NewScorer(extractor)
	ctx := context.Background()

	scorer.Score(ctx, testJob("https://example.com/job/1"), testProfile("cv.txt"))
	result := scorer.Score(ctx, testJob("https://example.com/job/1"), testProfile("cv.txt"))

	assert.True(t, result.Degraded)
	assert.Equal(t, 1, extractor.Calls())
}

func TestScorer_BuildPrompt(t *testing.T) {
	profile := testProfile("cv.txt")
	profile.Skills = nil
	for i := 1; i <= 20; i++ {
		profile.Skills = append(profile.Skills, fmt.Sprintf("skill%02d", i))
	}
	profile.Industries = []string{"a", "b", "c", "d"}
	profile.Education = []string{"PhD", "MSc", "BSc"}

	job := testJob("https://example.com/job/1")
	job.FullDescription = strings.Repeat("Long description sentence. ", 200)
	job.Salary = ""

	scorer := NewScorer(&countingExtractor{}, WithMaxDescription(100))
	prompt, err := scorer.BuildPrompt(job, profile)
	require.NoError(t, err)

	assert.Contains(t, prompt, "expert career advisor")
	assert.Contains(t, prompt, "skill15\n")
	assert.NotContains(t, prompt, "skill16")
	assert.Contains(t, prompt, "Industries: a, b, c\n")
	assert.Contains(t, prompt, "Education: PhD, MSc\n")
	assert.Contains(t, prompt, "Experience: 6 years")
	assert.Contains(t, prompt, "Salary: Not specified")
	assert.Contains(t, prompt, `"recommendation": "string"`)

	descLine := prompt[strings.Index(prompt, "Description: "):]
	descLine = descLine[:strings.Index(descLine, "\n")]
	assert.LessOrEqual(t, len(descLine), len("Description: ")+100)
}

func TestScorer_BuildPrompt_FallsBackToShortDescription(t *testing.T) {
	job := testJob("https://example.com/job/1")
	job.FullDescription = types.DescriptionFetchError

	prompt, err := NewScorer(&countingExtractor{}).BuildPrompt(job, testProfile("cv.txt"))
	require.NoError(t, err)

	assert.Contains(t, prompt, "Description: Build backend services in Go.")
	assert.NotContains(t, prompt, types.DescriptionFetchError)
}

type failingCache struct{}

func (failingCache) Get(context.Context, Key) (types.MatchResult, bool, error) {
	return types.MatchResult{}, false, errors.New("cache down")
}

func (failingCache) Set(context.Context, Key, types.MatchResult) error {
	return errors.New("cache down")
}

func (failingCache) InvalidateProfile(context.Context, string) error {
	return errors.New("cache down")
}

func TestScorer_CacheFailuresDoNotFailScoring(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	scorer := NewScorer(&countingExtractor{response: `{"score": 85}`}, WithCache(failingCache{}), WithLogger(zap.New(core)))

	result := scorer.Score(context.Background(), testJob("https://example.com/job/1"), testProfile("cv.txt"))

	assert.Equal(t, 85, result.Score)
	require.Equal(t, 1, logs.FilterMessage("match cache read failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("match cache write failed").Len())
}
