package matching

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/types"
)

// ProfileParser produces a profile for a named document.
type ProfileParser interface {
	ParseCandidateProfile(ctx context.Context, name, text string) (*types.CandidateProfile, error)
}

// ProfileSession holds the current candidate profile. Uploading a document
// with a new name replaces the profile and drops the old profile's scores.
type ProfileSession struct {
	mu      sync.Mutex
	parser  ProfileParser
	cache   Cache
	current *types.CandidateProfile
	logger  *zap.Logger
}

// NewProfileSession creates a session. cache may be nil.
func NewProfileSession(parser ProfileParser, cache Cache, logger *zap.Logger) *ProfileSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileSession{parser: parser, cache: cache, logger: logger}
}

// Profile returns the profile for the named document, parsing it only when
// the name differs from the current profile's.
func (s *ProfileSession) Profile(ctx context.Context, name, text string) (*types.CandidateProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.ID == name {
		return s.current, nil
	}

	profile, err := s.parser.ParseCandidateProfile(ctx, name, text)
	if err != nil {
		return nil, err
	}

	if s.current != nil && s.cache != nil {
		if err := s.cache.InvalidateProfile(ctx, s.current.ID); err != nil {
			s.logger.Warn("failed to invalidate previous profile", zap.String("profile", s.current.ID), zap.Error(err))
		}
	}
	s.current = profile
	return profile, nil
}

// Current returns the active profile, or nil before the first upload.
func (s *ProfileSession) Current() *types.CandidateProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
