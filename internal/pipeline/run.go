// Package pipeline orchestrates a job search run: listing pages, job details
// and match scoring, processed one job at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/antiblock"
	"github.com/jonathan/job-scout/internal/browser"
	"github.com/jonathan/job-scout/internal/logger"
	"github.com/jonathan/job-scout/internal/pipeline/steps"
	"github.com/jonathan/job-scout/internal/scraper"
	"github.com/jonathan/job-scout/internal/search"
	"github.com/jonathan/job-scout/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// DescriptionFetcher loads the full description of one job.
type DescriptionFetcher interface {
	FetchFullDescription(ctx context.Context, jobURL string) string
}

// JobScorer scores one job against a profile.
type JobScorer interface {
	Score(ctx context.Context, job types.JobRecord, profile *types.CandidateProfile) types.MatchResult
}

// Deps are the collaborators a Pipeline drives.
type Deps struct {
	Builder  search.Builder
	Manager  *browser.Manager
	Listing  *scraper.ListingScraper
	Details  DescriptionFetcher
	Scorer   JobScorer
	Strategy *antiblock.Strategy
	Logger   *zap.Logger
}

// RunOptions holds configuration for running the pipeline. Jobs are scored
// only when Profile is set.
type RunOptions struct {
	Title        string
	Location     string
	Filters      search.Filters
	MaxJobs      int
	MaxJobsLimit int
	MaxPages     int
	Profile      *types.CandidateProfile
	SkipDetails  bool
	OnProgress   ProgressCallback
}

// Result is the outcome of a run. Jobs keeps listing order.
type Result struct {
	RunID     string             `json:"run_id"`
	SearchURL string             `json:"search_url"`
	Jobs      []types.ScoredJob  `json:"jobs"`
	Steps     []steps.StepResult `json:"steps"`
	Cancelled bool               `json:"cancelled"`
	StartedAt time.Time          `json:"started_at"`
	Duration  time.Duration      `json:"duration"`
}

// Ranked returns the jobs ordered by descending score; unscored jobs come last.
func (r *Result) Ranked() []types.ScoredJob {
	ranked := make([]types.ScoredJob, len(r.Jobs))
	copy(ranked, r.Jobs)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Match, ranked[j].Match
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Score > b.Score
		}
	})
	return ranked
}

// Pipeline runs searches.
type Pipeline struct {
	builder  search.Builder
	manager  *browser.Manager
	listing  *scraper.ListingScraper
	details  DescriptionFetcher
	scorer   JobScorer
	strategy *antiblock.Strategy
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a pipeline. A nil Strategy uses antiblock.DefaultConfig.
func New(deps Deps) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	strategy := deps.Strategy
	if strategy == nil {
		strategy = antiblock.NewStrategy(antiblock.DefaultConfig(), log)
	}
	builder := deps.Builder
	if builder.BaseURL == "" {
		builder = search.NewBuilder("")
	}
	return &Pipeline{
		builder:  builder,
		manager:  deps.Manager,
		listing:  deps.Listing,
		details:  deps.Details,
		scorer:   deps.Scorer,
		strategy: strategy,
		logger:   log,
		now:      time.Now,
	}
}

// Run executes one search. Input errors and a browser that cannot start are
// returned as errors. A first listing page that never loads yields an empty
// result. Everything after that degrades per job: a missing description
// becomes a sentinel and a failed score a degraded result.
//
// Cancelling ctx stops the run at the next job boundary; the job in flight
// completes and the partial result is returned with Cancelled set.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	runID := uuid.NewString()
	log := logger.WithFields(p.logger, zap.String(logger.FieldRunID, runID))
	tracker := steps.NewTracker()
	result := &Result{RunID: runID, Jobs: []types.ScoredJob{}, StartedAt: p.now()}
	finish := func() {
		result.Steps = tracker.Results()
		result.Duration = p.now().Sub(result.StartedAt)
	}
	defer finish()

	emit := func(step, message string, content any) {
		if opts.OnProgress == nil {
			return
		}
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: steps.StepRegistry[step].Category,
			Message:  message,
			RunID:    runID,
			Content:  content,
		})
	}

	// Build URL
	_ = tracker.Start(steps.BuildURL)
	maxJobs, err := search.ValidateMaxJobs(opts.MaxJobs, opts.MaxJobsLimit)
	if err != nil {
		tracker.Finish(steps.BuildURL, steps.StatusFailed, 0, err)
		return result, err
	}
	if maxJobs < opts.MaxJobs {
		log.Warn("max jobs capped", zap.Int("requested", opts.MaxJobs), zap.Int("limit", maxJobs))
	}
	searchURL, err := p.builder.Build(opts.Title, opts.Location, opts.Filters, 1)
	if err != nil {
		tracker.Finish(steps.BuildURL, steps.StatusFailed, 0, err)
		return result, err
	}
	result.SearchURL = searchURL
	tracker.Finish(steps.BuildURL, steps.StatusCompleted, 1, nil)
	emit(steps.BuildURL, "Search URL built", searchURL)
	log.Info("starting job search", zap.String("url", searchURL), zap.Int("max_jobs", maxJobs))

	// Listing
	if err := tracker.Start(steps.FetchListing); err != nil {
		return result, err
	}
	summaries, cancelled, err := p.collectListings(ctx, log, opts, maxJobs)
	var loadErr *scraper.PageLoadError
	if errors.As(err, &loadErr) {
		log.Warn("listing page failed, no jobs found",
			zap.String("url", loadErr.URL),
			zap.Int("attempts", loadErr.Attempts),
			zap.Error(loadErr.Cause))
		tracker.Finish(steps.FetchListing, steps.StatusFailed, 0, err)
		tracker.Finish(steps.FetchDetails, steps.StatusSkipped, 0, nil)
		tracker.Finish(steps.ScoreJobs, steps.StatusSkipped, 0, nil)
		emit(steps.FetchListing, "Listing page failed to load, found 0 jobs", 0)
		return result, nil
	}
	if err != nil {
		tracker.Finish(steps.FetchListing, steps.StatusFailed, 0, err)
		return result, err
	}
	if cancelled {
		tracker.Finish(steps.FetchListing, steps.StatusCancelled, len(summaries), nil)
	} else {
		tracker.Finish(steps.FetchListing, steps.StatusCompleted, len(summaries), nil)
	}
	emit(steps.FetchListing, fmt.Sprintf("Found %d jobs", len(summaries)), len(summaries))

	// Details and scoring, one job at a time
	fetchDetails := !opts.SkipDetails && p.details != nil
	score := opts.Profile != nil && p.scorer != nil
	if fetchDetails {
		_ = tracker.Start(steps.FetchDetails)
	}
	if score {
		_ = tracker.Start(steps.ScoreJobs)
	}

	jobStep := steps.FetchDetails
	if !fetchDetails {
		jobStep = steps.ScoreJobs
	}

	described, scored := 0, 0
	for i, summary := range summaries {
		if cancelled {
			break
		}
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		// Work on a job is never interrupted once started.
		jobCtx := context.WithoutCancel(ctx)
		record := types.NewJobRecord(summary)

		if fetchDetails {
			p.strategy.BeforeRequest(ctx)
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			record.FullDescription = p.details.FetchFullDescription(jobCtx, summary.URL)
			if record.HasDescription() {
				described++
			}
		}

		job := types.ScoredJob{Job: record}
		if score {
			match := p.scorer.Score(jobCtx, record, opts.Profile)
			job.Match = &match
			scored++
		}
		result.Jobs = append(result.Jobs, job)

		emit(jobStep, fmt.Sprintf("Processed job %d/%d: %s", i+1, len(summaries), summary.Title), job)
	}

	status := steps.StatusCompleted
	if cancelled {
		status = steps.StatusCancelled
		log.Info("run cancelled at job boundary", zap.Int("processed", len(result.Jobs)), zap.Int("found", len(summaries)))
	}
	if fetchDetails {
		tracker.Finish(steps.FetchDetails, status, described, nil)
	} else {
		tracker.Finish(steps.FetchDetails, steps.StatusSkipped, 0, nil)
	}
	if score {
		tracker.Finish(steps.ScoreJobs, status, scored, nil)
	} else {
		tracker.Finish(steps.ScoreJobs, steps.StatusSkipped, 0, nil)
	}
	result.Cancelled = cancelled

	log.Info("job search finished",
		zap.Int("jobs", len(result.Jobs)),
		zap.Int("described", described),
		zap.Int("scored", scored),
		zap.Bool("cancelled", cancelled))
	return result, nil
}

// collectListings walks result pages on one browser session until maxJobs
// unique jobs are found, a page comes back empty, or MaxPages is reached.
// Only a failure before any job is found is returned as an error.
func (p *Pipeline) collectListings(ctx context.Context, log *zap.Logger, opts RunOptions, maxJobs int) ([]types.JobSummary, bool, error) {
	maxPages := opts.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}

	id := p.strategy.NewSession()
	driver, err := p.manager.Open(ctx, id)
	if err != nil {
		return nil, false, err
	}
	defer func() { p.manager.Release(driver) }()

	jobs := make([]types.JobSummary, 0, maxJobs)
	seen := make(map[string]bool, maxJobs)

	for page := 1; page <= maxPages && len(jobs) < maxJobs; page++ {
		if page > 1 && ctx.Err() != nil {
			return jobs, true, nil
		}

		pageURL, err := p.builder.Build(opts.Title, opts.Location, opts.Filters, page)
		if err != nil {
			return nil, false, err
		}

		p.strategy.BeforeRequest(ctx)
		found, err := p.listing.FetchListingWith(context.WithoutCancel(ctx), driver, pageURL, 0)
		rotate := p.strategy.AfterRequest(id, err)
		if err != nil {
			if len(jobs) == 0 {
				return nil, false, err
			}
			log.Warn("listing page failed, keeping earlier pages", zap.Int("page", page), zap.Error(err))
			break
		}
		if len(found) == 0 {
			break
		}

		for _, job := range found {
			if seen[job.URL] {
				continue
			}
			seen[job.URL] = true
			jobs = append(jobs, job)
			if len(jobs) == maxJobs {
				break
			}
		}

		if rotate && page < maxPages && len(jobs) < maxJobs {
			p.manager.Release(driver)
			id = p.strategy.NewSession()
			driver, err = p.manager.Open(ctx, id)
			if err != nil {
				driver = nil
				log.Warn("could not rotate listing session", zap.Error(err))
				break
			}
		}
	}

	return jobs, false, nil
}
