// Package matching scores jobs against a candidate profile with the structured
// extractor and caches the results per (job, profile) pair.
package matching

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/llm"
	"github.com/jonathan/job-scout/internal/prompts"
	"github.com/jonathan/job-scout/internal/types"
)

// Prompt bounds
const (
	MaxSkillsInPrompt        = 15
	MaxTitlesInPrompt        = 5
	MaxIndustriesInPrompt    = 3
	MaxEducationInPrompt     = 2
	DefaultMaxDescriptionLen = 2000
)

// Scorer computes MatchResults. Score never fails; extraction problems become
// degraded results.
type Scorer struct {
	extractor      llm.StructuredExtractor
	cache          Cache
	maxDescription int
	logger         *zap.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithCache replaces the default in-memory cache.
func WithCache(cache Cache) ScorerOption {
	return func(s *Scorer) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithMaxDescription sets the description budget in characters.
func WithMaxDescription(n int) ScorerOption {
	return func(s *Scorer) {
		if n > 0 {
			s.maxDescription = n
		}
	}
}

// WithLogger sets the scorer's logger.
func WithLogger(logger *zap.Logger) ScorerOption {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer creates a scorer backed by an in-memory cache unless overridden.
func NewScorer(extractor llm.StructuredExtractor, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		extractor:      extractor,
		cache:          NewMemoryCache(),
		maxDescription: DefaultMaxDescriptionLen,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the cache in use.
func (s *Scorer) Cache() Cache {
	return s.cache
}

// Score returns the match between job and profile. A cached result for the
// same (job URL, profile ID) pair is returned without calling the model.
func (s *Scorer) Score(ctx context.Context, job types.JobRecord, profile *types.CandidateProfile) types.MatchResult {
	if profile == nil {
		profile = &types.CandidateProfile{}
	}
	key := Key{JobURL: job.URL, ProfileID: profile.ID}
	log := s.logger.With(zap.String("job_url", job.URL), zap.String("profile", profile.ID))

	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn("match cache read failed", zap.Error(err))
	} else if ok {
		log.Debug("match cache hit")
		return cached
	}

	result := s.compute(ctx, job, profile, log)

	if err := s.cache.Set(ctx, key, result); err != nil {
		log.Warn("match cache write failed", zap.Error(err))
	}
	return result
}

func (s *Scorer) compute(ctx context.Context, job types.JobRecord, profile *types.CandidateProfile, log *zap.Logger) (result types.MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("scoring panicked", zap.Any("panic", r))
			result = DegradedResult(fmt.Errorf("panic: %v", r))
		}
	}()

	prompt, err := s.BuildPrompt(job, profile)
	if err != nil {
		log.Error("failed to build scoring prompt", zap.Error(err))
		return DegradedResult(err)
	}

	obj, err := s.extractor.Extract(ctx, prompt, llm.MatchResultSchema())
	if err != nil {
		log.Warn("job scoring degraded", zap.Error(err))
		return DegradedResult(err)
	}

	if err := llm.DecodeInto(obj, &result); err != nil {
		log.Warn("job scoring degraded", zap.Error(err))
		return DegradedResult(err)
	}
	normalizeResult(&result, log)

	log.Info("scored job",
		zap.String("title", job.Title),
		zap.Int("score", result.Score),
		zap.String("recommendation", string(result.Recommendation)))
	return result
}

// normalizeResult fills list defaults and re-derives unknown recommendations.
func normalizeResult(result *types.MatchResult, log *zap.Logger) {
	for _, list := range []*[]string{&result.Pros, &result.Cons, &result.StrongMatches, &result.Gaps, &result.StrategicConsiderations} {
		if *list == nil {
			*list = []string{}
		}
	}

	if rec, ok := types.ParseRecommendation(string(result.Recommendation)); ok && rec != types.ReviewManually {
		result.Recommendation = rec
	} else {
		if result.Recommendation != "" {
			log.Debug("unknown recommendation label, deriving from score", zap.String("label", string(result.Recommendation)))
		}
		result.Recommendation = RecommendationForScore(result.Score)
	}

	if outOfRange(result.Score) || outOfRange(result.SkillMatchPercentage) {
		log.Debug("score outside 0-100 passed through",
			zap.Int("score", result.Score),
			zap.Int("skill_match_percentage", result.SkillMatchPercentage))
	}
}

func outOfRange(v int) bool {
	return v < 0 || v > 100
}

// BuildPrompt renders the scoring prompt for job and profile.
func (s *Scorer) BuildPrompt(job types.JobRecord, profile *types.CandidateProfile) (string, error) {
	description := job.FullDescription
	if !job.HasDescription() {
		description = job.ShortDescription
	}
	if strings.TrimSpace(description) == "" {
		description = types.NotAvailable
	}

	matchContext, err := prompts.Render(prompts.ScoringFile, prompts.KeyMatchContext, map[string]string{
		"Skills":          joinTop(profile.Skills, MaxSkillsInPrompt),
		"ExperienceYears": strconv.Itoa(profile.ExperienceYears),
		"Titles":          joinTop(profile.PreviousTitles, MaxTitlesInPrompt),
		"Industries":      joinTop(profile.Industries, MaxIndustriesInPrompt),
		"Education":       joinTop(profile.Education, MaxEducationInPrompt),
		"Title":           orNA(job.Title),
		"Company":         orNA(job.Company),
		"Location":        orNA(job.Location),
		"Salary":          orDefault(job.Salary, types.SalaryUnspecified),
		"Description":     llm.SmartTruncate(description, s.maxDescription),
	})
	if err != nil {
		return "", err
	}

	schema := llm.MatchResultSchema()
	schema.Description = prompts.MustGet(prompts.ScoringFile, prompts.KeyScoreJobMatch)
	return llm.BuildExtractionPrompt(schema, matchContext), nil
}

func joinTop(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

func orNA(s string) string {
	return orDefault(s, types.NotAvailable)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
