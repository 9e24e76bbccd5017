// Package scraper turns listing-site HTML into job summaries and full descriptions.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/antiblock"
	"github.com/jonathan/job-scout/internal/browser"
	"github.com/jonathan/job-scout/internal/types"
	"github.com/jonathan/job-scout/internal/utils"
)

// Card selectors for the listings site.
const (
	PrimaryCardSelector  = `article[data-card-type="JobCard"]`
	FallbackCardSelector = "article"

	titleLinkSelector        = `a[data-automation="jobTitle"]`
	companySelector          = `[data-automation="jobCompany"]`
	locationSelector         = `[data-automation="jobLocation"]`
	salarySelector           = `[data-automation="jobSalary"]`
	shortDescriptionSelector = `[data-automation="jobShortDescription"]`
)

// IdentitySource supplies the browser identity for each new session.
type IdentitySource interface {
	NewSession() antiblock.Identity
}

// ListingConfig bounds listing page loads.
type ListingConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultListingConfig returns three attempts two seconds apart.
func DefaultListingConfig() ListingConfig {
	return ListingConfig{MaxRetries: 3, RetryDelay: 2 * time.Second}
}

// ListingScraper loads search result pages and parses their job cards.
type ListingScraper struct {
	manager *browser.Manager
	ids     IdentitySource
	cfg     ListingConfig
	sleep   utils.SleepFunc
	logger  *zap.Logger
}

// NewListingScraper creates a scraper. ids may be nil, in which case sessions use a blank identity.
func NewListingScraper(manager *browser.Manager, ids IdentitySource, cfg ListingConfig, logger *zap.Logger) *ListingScraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &ListingScraper{manager: manager, ids: ids, cfg: cfg, sleep: utils.WaitFor, logger: logger}
}

// FetchListing opens a session, loads pageURL and returns at most maxCount job summaries.
func (s *ListingScraper) FetchListing(ctx context.Context, pageURL string, maxCount int) ([]types.JobSummary, error) {
	var jobs []types.JobSummary
	err := s.manager.WithSession(ctx, s.identity(), func(d browser.Driver) error {
		var err error
		jobs, err = s.FetchListingWith(ctx, d, pageURL, maxCount)
		return err
	})
	return jobs, err
}

// FetchListingWith loads pageURL on an existing session. Page loads are retried
// up to the configured budget before failing with PageLoadError. No matching
// cards yields an empty slice and no error.
func (s *ListingScraper) FetchListingWith(ctx context.Context, d browser.Driver, pageURL string, maxCount int) ([]types.JobSummary, error) {
	page, err := s.loadPage(ctx, d, pageURL)
	if err != nil {
		return nil, err
	}

	jobs, err := ParseListing(page, pageURL, s.logger)
	if err != nil {
		return nil, err
	}

	if maxCount > 0 && len(jobs) > maxCount {
		jobs = jobs[:maxCount]
	}
	s.logger.Info("parsed listing page", zap.String("url", pageURL), zap.Int("jobs", len(jobs)))
	return jobs, nil
}

func (s *ListingScraper) loadPage(ctx context.Context, d browser.Driver, pageURL string) (string, error) {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		attempts = attempt
		page, err := navigateAndRead(ctx, d, pageURL)
		if err == nil {
			return page, nil
		}
		lastErr = err

		s.logger.Warn("listing page load failed",
			zap.String("url", pageURL),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.cfg.MaxRetries),
			zap.Error(err))

		if attempt < s.cfg.MaxRetries {
			if werr := s.sleep(ctx, s.cfg.RetryDelay); werr != nil {
				lastErr = werr
				break
			}
		}
	}
	return "", &PageLoadError{URL: pageURL, Attempts: attempts, Cause: lastErr}
}

func (s *ListingScraper) identity() antiblock.Identity {
	return SessionIdentity(s.ids)
}

// SessionIdentity draws a session identity from ids, or a blank one when ids is nil.
func SessionIdentity(ids IdentitySource) antiblock.Identity {
	if ids == nil {
		return antiblock.Identity{}
	}
	return ids.NewSession()
}

func navigateAndRead(ctx context.Context, d browser.Driver, pageURL string) (string, error) {
	if err := d.Navigate(ctx, pageURL); err != nil {
		return "", err
	}
	return d.HTML(ctx)
}

// ParseListing extracts job summaries from a results page in page order.
// Cards that fail to parse are logged and skipped, and repeated URLs are dropped.
func ParseListing(page, pageURL string, logger *zap.Logger) ([]types.JobSummary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}

	doc, err := parseDocument(page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	cards := ExtractJobCards(doc)
	if cards.Length() == 0 {
		logger.Info("no job cards found", zap.String("url", pageURL))
		return []types.JobSummary{}, nil
	}

	jobs := make([]types.JobSummary, 0, cards.Length())
	seen := make(map[string]bool, cards.Length())
	cards.Each(func(i int, card *goquery.Selection) {
		job, err := ParseJobCard(i, card, base)
		if err != nil {
			logger.Warn("skipping job card", zap.Error(err))
			return
		}
		if seen[job.URL] {
			logger.Debug("skipping duplicate job", zap.String("url", job.URL))
			return
		}
		seen[job.URL] = true
		jobs = append(jobs, job)
	})

	return jobs, nil
}

// ExtractJobCards locates job cards with the primary selector, falling back to
// any article whose markup mentions "job".
func ExtractJobCards(doc *goquery.Document) *goquery.Selection {
	cards := doc.Find(PrimaryCardSelector)
	if cards.Length() > 0 {
		return cards
	}

	return doc.Find(FallbackCardSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		markup, err := goquery.OuterHtml(s)
		if err != nil {
			return false
		}
		return strings.Contains(strings.ToLower(markup), "job")
	})
}

// ParseJobCard builds a JobSummary from one card. Relative links are resolved against base.
func ParseJobCard(index int, card *goquery.Selection, base *url.URL) (types.JobSummary, error) {
	var title, href string

	if link := card.Find(titleLinkSelector).First(); link.Length() > 0 {
		title = blockText(link)
		href, _ = link.Attr("href")
	} else {
		title = firstText(card, "h3, h2")
		href, _ = card.Find("a[href]").First().Attr("href")
	}

	if title == "" {
		return types.JobSummary{}, &CardParseError{Index: index, Message: "missing title"}
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return types.JobSummary{}, &CardParseError{Index: index, Message: "missing job link"}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return types.JobSummary{}, &CardParseError{Index: index, Message: fmt.Sprintf("invalid job link %q", href)}
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return types.JobSummary{}, &CardParseError{Index: index, Message: fmt.Sprintf("unsupported job link %q", href)}
	}

	return types.JobSummary{
		Title:            title,
		URL:              abs.String(),
		Company:          orDefault(firstText(card, companySelector), types.NotAvailable),
		Location:         orDefault(firstText(card, locationSelector), types.NotAvailable),
		Salary:           orDefault(firstText(card, salarySelector), types.SalaryUnspecified),
		ShortDescription: orDefault(firstText(card, shortDescriptionSelector), types.NotAvailable),
	}, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
