// Package search builds canonical listing-site search URLs from user input.
package search

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultBaseURL is the listings site every search is issued against.
const DefaultBaseURL = "https://www.seek.com.au"

// Filters narrows a search. Zero values and unrecognized labels add nothing to the URL.
type Filters struct {
	WorkType   string // full-time, part-time, contract-temp, casual-vacation
	Remote     string // remote, hybrid, on-site
	SalaryMin  int    // minimum annual salary
	DatePosted string // "today", a day count, or "last N days"
}

var workTypeParams = map[string]string{
	"full-time":       "fullTime=true",
	"part-time":       "partTime=true",
	"contract-temp":   "contract=true",
	"casual-vacation": "casual=true",
}

var remoteParams = map[string]string{
	"remote":         "worktype=work-from-home",
	"work-from-home": "worktype=work-from-home",
	"hybrid":         "worktype=hybrid",
	"on-site":        "worktype=office",
	"onsite":         "worktype=office",
}

var dateRangePattern = regexp.MustCompile(`^(?:last-)?(\d+)(?:-days?)?$`)

// normalizeFilterKey folds display labels ("Contract/Temp", "Full time") onto table keys.
func normalizeFilterKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("/", "-", "_", "-").Replace(s)
	return strings.Join(strings.Fields(s), "-")
}

// queryParams returns the filter fragments in a fixed order:
// work type, remote mode, salary, date range.
func (f Filters) queryParams() []string {
	var params []string

	if p, ok := workTypeParams[normalizeFilterKey(f.WorkType)]; ok {
		params = append(params, p)
	}
	if p, ok := remoteParams[normalizeFilterKey(f.Remote)]; ok {
		params = append(params, p)
	}
	if f.SalaryMin > 0 {
		params = append(params, fmt.Sprintf("salarytype=annual&salaryrange=%d-", f.SalaryMin))
	}

	date := normalizeFilterKey(f.DatePosted)
	if date == "today" {
		params = append(params, "daterange=1")
	} else if m := dateRangePattern.FindStringSubmatch(date); m != nil {
		if days, err := strconv.Atoi(m[1]); err == nil && days > 0 {
			params = append(params, "daterange="+strconv.Itoa(days))
		}
	}

	return params
}

// Builder builds search URLs against a configurable base URL.
type Builder struct {
	BaseURL string
}

// NewBuilder returns a Builder for baseURL, falling back to DefaultBaseURL when empty.
func NewBuilder(baseURL string) Builder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return Builder{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Build returns the search URL for title in location. The output depends only on
// its inputs. The page fragment is added only when page > 1.
func (b Builder) Build(title, location string, filters Filters, page int) (string, error) {
	term, err := SanitizeTerm("search term", title)
	if err != nil {
		return "", err
	}
	loc, err := SanitizeTerm("location", location)
	if err != nil {
		return "", err
	}

	base := b.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(base, "/"))
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(term))
	sb.WriteString("-jobs/in-")
	sb.WriteString(url.PathEscape(loc))

	params := filters.queryParams()
	if page > 1 {
		params = append(params, "page="+strconv.Itoa(page))
	}
	if len(params) > 0 {
		sb.WriteString("?")
		sb.WriteString(strings.Join(params, "&"))
	}

	return sb.String(), nil
}

// BuildSearchURL builds a search URL against DefaultBaseURL.
func BuildSearchURL(title, location string, filters Filters, page int) (string, error) {
	return NewBuilder(DefaultBaseURL).Build(title, location, filters, page)
}

// ValidateMaxJobs checks a requested job count. Counts below one are rejected;
// counts above limit are capped to limit.
func ValidateMaxJobs(n, limit int) (int, error) {
	if n < 1 {
		return 0, &InvalidInputError{Field: "max jobs", Value: strconv.Itoa(n), Message: "must be at least 1"}
	}
	if limit > 0 && n > limit {
		return limit, nil
	}
	return n, nil
}
