package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/browser"
	"github.com/jonathan/job-scout/internal/search"
	"github.com/jonathan/job-scout/internal/types"
)

// DescriptionStrategy is one way of locating a job description in a detail page.
// Extract returns "" when the strategy finds nothing.
type DescriptionStrategy struct {
	Name    string
	Extract func(doc *goquery.Document) string
}

// DefaultDescriptionStrategies returns the strategies in the order they are tried:
// the site's own description container, any div whose class mentions
// "job-description", and finally the block-level element with the most text.
func DefaultDescriptionStrategies() []DescriptionStrategy {
	return []DescriptionStrategy{
		{Name: "job-ad-details", Extract: selectorStrategy(`div[data-automation="jobAdDetails"]`)},
		{Name: "description-class", Extract: classContainsStrategy("div", "job-description")},
		{Name: "largest-block", Extract: largestBlock},
	}
}

func selectorStrategy(selector string) func(*goquery.Document) string {
	return func(doc *goquery.Document) string {
		return blockText(doc.Find(selector).First())
	}
}

func classContainsStrategy(element, fragment string) func(*goquery.Document) string {
	return func(doc *goquery.Document) string {
		var text string
		doc.Find(element + "[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			if !strings.Contains(strings.ToLower(class), fragment) {
				return true
			}
			text = blockText(s)
			return text == ""
		})
		return text
	}
}

func largestBlock(doc *goquery.Document) string {
	var best string
	doc.Find("div, section, article, main").Each(func(_ int, s *goquery.Selection) {
		if text := blockText(s); len(text) > len(best) {
			best = text
		}
	})
	return best
}

// ExtractDescription runs strategies in order against page and returns the first
// non-empty result with the name of the strategy that produced it.
func ExtractDescription(page string, strategies []DescriptionStrategy) (text, strategy string, err error) {
	doc, err := parseDocument(page)
	if err != nil {
		return "", "", err
	}
	doc.Find(noiseSelector).Remove()

	for _, st := range strategies {
		if text := st.Extract(doc); text != "" {
			return text, st.Name, nil
		}
	}
	return "", "", nil
}

// DetailFetcher loads individual job pages for their full description.
type DetailFetcher struct {
	manager    *browser.Manager
	ids        IdentitySource
	strategies []DescriptionStrategy
	logger     *zap.Logger
}

// NewDetailFetcher creates a fetcher using DefaultDescriptionStrategies.
func NewDetailFetcher(manager *browser.Manager, ids IdentitySource, logger *zap.Logger) *DetailFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailFetcher{
		manager:    manager,
		ids:        ids,
		strategies: DefaultDescriptionStrategies(),
		logger:     logger,
	}
}

// FetchFullDescription loads jobURL in a fresh session and extracts its description.
// It never fails: a page with no description yields types.DescriptionUnavailable
// and an invalid URL or any load or browser error yields types.DescriptionFetchError.
func (f *DetailFetcher) FetchFullDescription(ctx context.Context, jobURL string) string {
	if !search.IsValidURL(jobURL) {
		f.logger.Warn("refusing to fetch invalid job URL", zap.String("url", jobURL))
		return types.DescriptionFetchError
	}
	id := SessionIdentity(f.ids)
	description := types.DescriptionUnavailable

	err := f.manager.WithSession(ctx, id, func(d browser.Driver) error {
		page, err := navigateAndRead(ctx, d, jobURL)
		if err != nil {
			return err
		}

		text, strategy, err := ExtractDescription(page, f.strategies)
		if err != nil {
			return err
		}
		if text == "" {
			f.logger.Info("no description found", zap.String("url", jobURL))
			return nil
		}

		f.logger.Debug("description extracted",
			zap.String("url", jobURL),
			zap.String("strategy", strategy),
			zap.Int("chars", len(text)))
		description = text
		return nil
	})
	if err != nil {
		f.logger.Warn("failed to fetch job description", zap.String("url", jobURL), zap.Error(err))
		return types.DescriptionFetchError
	}
	return description
}
