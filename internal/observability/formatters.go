// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-scout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to limit bulleted items under heading.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintCandidateProfile outputs a human-readable summary of the parsed resume.
func (p *Printer) PrintCandidateProfile(profile *types.CandidateProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	if profile.ID != "" {
		sb.WriteString(fmt.Sprintf("Resume:     %s\n", profile.ID))
	}
	sb.WriteString(fmt.Sprintf("Experience: %d years\n", profile.ExperienceYears))
	sb.WriteString(fmt.Sprintf("Location:   %s\n", profile.Location))
	sb.WriteString("\n")

	writeList(&sb, "Skills", profile.Skills, maxItemsToShow)
	writeList(&sb, "Previous titles", profile.PreviousTitles, 3)
	writeList(&sb, "Education", profile.Education, 2)
	writeList(&sb, "Preferred roles", profile.PreferredRoles, 3)

	p.printBox("CANDIDATE PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchResult outputs one scored job.
func (p *Printer) PrintMatchResult(job types.ScoredJob) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Job.Company))
	sb.WriteString(fmt.Sprintf("Location: %s\n", job.Job.Location))
	sb.WriteString(fmt.Sprintf("Salary:   %s\n", job.Job.Salary))

	if job.Match == nil {
		sb.WriteString("\nNot scored")
		p.printBox(job.Job.Title, sb.String())
		return
	}

	m := job.Match
	sb.WriteString(fmt.Sprintf("Score:    %d/100 (%s)\n", m.Score, m.Recommendation))
	sb.WriteString(fmt.Sprintf("Skills:   %d%% match\n", m.SkillMatchPercentage))
	if m.Degraded {
		sb.WriteString("⚠ automatic analysis failed\n")
	}
	sb.WriteString("\n")

	writeList(&sb, "Pros", m.Pros, 3)
	writeList(&sb, "Cons", m.Cons, 3)
	writeList(&sb, "Gaps", m.Gaps, 3)

	p.printBox(job.Job.Title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs a ranked overview of a finished search.
func (p *Printer) PrintRunSummary(searchURL string, ranked []types.ScoredJob, cancelled bool) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Search: %s\n", searchURL))
	sb.WriteString(fmt.Sprintf("Jobs found: %d\n", len(ranked)))
	if cancelled {
		sb.WriteString("Run cancelled, results are partial\n")
	}

	if len(ranked) > 0 {
		sb.WriteString("\n")
	}
	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := ranked[i]
		score := "  -"
		if job.Match != nil {
			score = fmt.Sprintf("%3d", job.Match.Score)
		}
		sb.WriteString(fmt.Sprintf("%s  %s @ %s\n", score, job.Job.Title, job.Job.Company))
	}
	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more jobs\n", len(ranked)-maxItemsToShow))
	}

	p.printBox("SEARCH RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}
