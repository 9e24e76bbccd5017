// Package types provides type definitions for structured data used throughout the job-scout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Placeholder values written into job fields the listing site did not provide.
const (
	NotAvailable      = "N/A"
	SalaryUnspecified = "Not specified"
)

// Sentinels stored in JobRecord.FullDescription. Both are terminal, user-visible outcomes.
const (
	DescriptionUnavailable = "Description not available"
	DescriptionFetchError  = "Error fetching description"
)

// JobSummary represents a single job card parsed from a search results page.
// URL is absolute and unique within a result set.
type JobSummary struct {
	Title            string `json:"title"`
	URL              string `json:"url"`
	Company          string `json:"company"`
	Location         string `json:"location"`
	Salary           string `json:"salary"`
	ShortDescription string `json:"short_description"`
}

// JobRecord is a JobSummary enriched with the full description from the job's own page.
type JobRecord struct {
	JobSummary
	FullDescription string `json:"full_description"`
}

// NewJobRecord wraps a summary with the "not yet fetched" description placeholder.
func NewJobRecord(summary JobSummary) JobRecord {
	return JobRecord{JobSummary: summary, FullDescription: NotAvailable}
}

// HasDescription reports whether FullDescription holds real text rather than a placeholder or sentinel.
func (r JobRecord) HasDescription() bool {
	switch r.FullDescription {
	case "", NotAvailable, DescriptionUnavailable, DescriptionFetchError:
		return false
	}
	return true
}

// ScoredJob pairs a job with its match result. Match is nil when no profile was supplied.
type ScoredJob struct {
	Job   JobRecord    `json:"job"`
	Match *MatchResult `json:"match,omitempty"`
}
