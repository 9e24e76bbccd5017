package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/antiblock"
	"github.com/jonathan/job-scout/internal/browser"
	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/export"
	"github.com/jonathan/job-scout/internal/llm"
	"github.com/jonathan/job-scout/internal/matching"
	"github.com/jonathan/job-scout/internal/observability"
	"github.com/jonathan/job-scout/internal/pipeline"
	"github.com/jonathan/job-scout/internal/scraper"
	"github.com/jonathan/job-scout/internal/search"
	"github.com/jonathan/job-scout/internal/types"
)

var errAborted = errors.New("aborted by user")

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for jobs and optionally score them against a resume",
	Long: `Search the listings site for a title and location, fetch each job's full
description and, when --resume is given, score every job against the parsed
resume. Results are saved as CSV (or JSON with a .json --output).

Interrupting the run stops it after the job in progress; the jobs processed
so far are still saved.`,
	RunE: runSearch,
}

var (
	searchTitle       string
	searchLocation    string
	searchMaxJobs     int
	searchMaxPages    int
	searchResume      string
	searchOutput      string
	searchSkipDetails bool
	searchConfirm     bool
	searchVerbose     bool
	searchFilters     searchFilterFlags
)

// confirm asks the user a yes/no question; tests replace it.
var confirm = func(label string) (bool, error) {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func init() {
	searchCmd.Flags().StringVarP(&searchTitle, "title", "t", "", "Job title to search for (required)")
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "Location to search in (required)")
	searchCmd.Flags().IntVarP(&searchMaxJobs, "max-jobs", "n", 0, "Maximum jobs to collect (default from scraping.default_max_jobs)")
	searchCmd.Flags().IntVar(&searchMaxPages, "max-pages", 0, "Maximum result pages to walk (default from scraping.max_pages)")
	searchCmd.Flags().StringVarP(&searchResume, "resume", "r", "", "Resume file to score jobs against")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "Output file, .csv or .json (default jobs_<run id>.csv)")
	searchCmd.Flags().BoolVar(&searchSkipDetails, "skip-details", false, "Do not open each job's page for its full description")
	searchCmd.Flags().BoolVarP(&searchConfirm, "confirm", "y", false, "Ask before spending language model calls on scoring")
	searchCmd.Flags().BoolVarP(&searchVerbose, "verbose", "v", false, "Print every scored job")
	searchFilters.register(searchCmd)

	_ = searchCmd.MarkFlagRequired("title")
	_ = searchCmd.MarkFlagRequired("location")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log := appConfig, appLogger
	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	filters, err := searchFilters.filters()
	if err != nil {
		return err
	}
	maxJobs := searchMaxJobs
	if !cmd.Flags().Changed("max-jobs") {
		maxJobs = cfg.Scraping.DefaultMaxJobs
	}
	maxPages := searchMaxPages
	if !cmd.Flags().Changed("max-pages") {
		maxPages = cfg.Scraping.MaxPages
	}

	var (
		profile *types.CandidateProfile
		scorer  pipeline.JobScorer
	)
	if searchResume != "" {
		extractor, client, err := newExtractor(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		cache, closeCache, err := newCache(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeCache()

		session := newProfileSession(extractor, cache, cfg, log)
		profile, err = parseProfile(ctx, session, searchResume, cfg, log)
		if err != nil {
			return err
		}
		printer.PrintCandidateProfile(profile)

		if searchConfirm {
			ok, err := confirm(fmt.Sprintf("Score up to %d jobs with %s", maxJobs, client.GetModel(llm.TierStandard)))
			if err != nil {
				return err
			}
			if !ok {
				return errAborted
			}
		}

		scorer = matching.NewScorer(extractor,
			matching.WithCache(cache),
			matching.WithMaxDescription(cfg.LLM.MaxJobDescriptionChars),
			matching.WithLogger(log))
	}

	result, err := newPipeline(cfg, scorer, log).Run(ctx, pipeline.RunOptions{
		Title:        searchTitle,
		Location:     searchLocation,
		Filters:      filters,
		MaxJobs:      maxJobs,
		MaxJobsLimit: cfg.Scraping.MaxJobsLimit,
		MaxPages:     maxPages,
		Profile:      profile,
		SkipDetails:  searchSkipDetails,
		OnProgress: func(event pipeline.ProgressEvent) {
			log.Info(event.Message, zap.String("step", event.Step), zap.String("run_id", event.RunID))
		},
	})
	if err != nil {
		return err
	}

	ranked := result.Ranked()
	if searchVerbose {
		for _, job := range ranked {
			printer.PrintMatchResult(job)
		}
	}
	printer.PrintRunSummary(result.SearchURL, ranked, result.Cancelled)

	return saveResults(out, result.RunID, ranked)
}

// saveResults writes jobs to --output, or to jobs_<runID>.csv when unset.
func saveResults(out io.Writer, runID string, jobs []types.ScoredJob) error {
	path := searchOutput
	if path == "" {
		path = export.FileName(runID, "csv")
	}
	if err := export.SaveFile(path, jobs); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Saved %d jobs to %s\n", len(jobs), path)
	return nil
}

func newPipeline(cfg *config.Config, scorer pipeline.JobScorer, log *zap.Logger) *pipeline.Pipeline {
	strategy := antiblock.NewStrategy(cfg.AntiBlockStrategy(), log)
	manager := browser.NewManager(newLauncher(cfg, log), log)
	return pipeline.New(pipeline.Deps{
		Builder:  search.NewBuilder(cfg.Scraping.BaseURL),
		Manager:  manager,
		Listing:  scraper.NewListingScraper(manager, strategy, cfg.ListingConfig(), log),
		Details:  scraper.NewDetailFetcher(manager, strategy, log),
		Scorer:   scorer,
		Strategy: strategy,
		Logger:   log,
	})
}
