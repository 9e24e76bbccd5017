// Package parsing turns resume text into a structured CandidateProfile using
// LLM extraction.
package parsing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/llm"
	"github.com/jonathan/job-scout/internal/prompts"
	"github.com/jonathan/job-scout/internal/types"
)

// DefaultMaxResumeChars is the resume budget sent to the model.
const DefaultMaxResumeChars = 5000

// Parser extracts candidate profiles from resume text.
type Parser struct {
	extractor llm.StructuredExtractor
	maxChars  int
	logger    *zap.Logger
}

// NewParser creates a parser. maxChars <= 0 uses DefaultMaxResumeChars.
func NewParser(extractor llm.StructuredExtractor, maxChars int, logger *zap.Logger) *Parser {
	if maxChars <= 0 {
		maxChars = DefaultMaxResumeChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{extractor: extractor, maxChars: maxChars, logger: logger}
}

// ParseCandidateProfile extracts a profile from resume text. name identifies
// the source document and becomes the profile ID.
func (p *Parser) ParseCandidateProfile(ctx context.Context, name, text string) (*types.CandidateProfile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ProfileError{Document: name, Stage: StageInput, Cause: ErrEmptyResume}
	}

	prompt := buildProfilePrompt(llm.SmartTruncate(text, p.maxChars))

	obj, err := p.extractor.Extract(ctx, prompt, llm.CandidateProfileSchema())
	if err != nil {
		var apiErr *llm.ExtractionAPIError
		if errors.As(err, &apiErr) {
			return nil, &ProfileError{Document: name, Stage: StageModel, Cause: err}
		}
		return nil, &ProfileError{Document: name, Stage: StageDecode, Cause: err}
	}

	var profile types.CandidateProfile
	if err := llm.DecodeInto(obj, &profile); err != nil {
		return nil, &ProfileError{Document: name, Stage: StageDecode, Cause: fmt.Errorf("decode candidate profile: %w", err)}
	}
	profile.ID = name
	postProcessProfile(&profile)

	p.logger.Info("parsed candidate profile",
		zap.String("document", name),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("experience_years", profile.ExperienceYears))

	return &profile, nil
}

// buildProfilePrompt wraps resume text in the extraction prompt
func buildProfilePrompt(resumeText string) string {
	schema := llm.CandidateProfileSchema()
	schema.Description = prompts.MustGet(prompts.ParsingFile, prompts.KeyParseResume)
	return llm.BuildExtractionPrompt(schema, resumeText)
}

// postProcessProfile applies normalization and range rules
func postProcessProfile(profile *types.CandidateProfile) {
	profile.Skills = NormalizeSkills(profile.Skills)
	profile.Education = NormalizeList(profile.Education)
	profile.PreviousTitles = NormalizeList(profile.PreviousTitles)
	profile.Industries = NormalizeList(profile.Industries)
	profile.Achievements = NormalizeList(profile.Achievements)
	profile.PreferredRoles = NormalizeList(profile.PreferredRoles)

	if profile.ExperienceYears < 0 {
		profile.ExperienceYears = 0
	}

	profile.Location = strings.TrimSpace(profile.Location)
	if profile.Location == "" {
		profile.Location = "Unknown"
	}
}
