package search

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var repeatedHyphens = regexp.MustCompile(`-{2,}`)

// SanitizeTerm turns free text into a URL path segment: accents are folded,
// anything other than letters, digits, whitespace and hyphens is dropped,
// whitespace runs become single hyphens and the result is lowercased.
// field names the input in the returned InvalidInputError.
func SanitizeTerm(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", &InvalidInputError{Field: field, Value: value, Message: "cannot be empty"}
	}

	var b strings.Builder
	for _, r := range foldDiacritics(value) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	term := strings.Join(strings.Fields(b.String()), "-")
	term = repeatedHyphens.ReplaceAllString(term, "-")
	term = strings.Trim(term, "-")

	if term == "" {
		return "", &InvalidInputError{Field: field, Value: value, Message: "contains no letters or digits"}
	}
	return term, nil
}

// foldDiacritics strips combining marks so "Zürich" becomes "Zurich".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// CleanText collapses every whitespace run to a single space and trims the ends.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsValidURL reports whether s is an absolute http(s) URL with a host.
func IsValidURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ParseSalaryFilter converts labels such as "80K+", "$120,000" or "150k" into
// an annual amount. ok is false when the label carries no number ("Any").
func ParseSalaryFilter(label string) (amount int, ok bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.NewReplacer("$", "", ",", "", "+", "", " ", "").Replace(s)

	multiplier := 1
	if strings.HasSuffix(s, "k") {
		multiplier = 1000
		s = strings.TrimSuffix(s, "k")
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n * multiplier, true
}
