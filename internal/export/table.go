// Package export turns scored jobs into a table and writes it to CSV or JSON.
package export

import (
	"strconv"
	"strings"

	"github.com/jonathan/job-scout/internal/types"
)

// ListSeparator joins list-valued fields inside a single cell.
const ListSeparator = "; "

// Columns is the fixed column order: job fields first, then match fields.
var Columns = []string{
	"title",
	"company",
	"location",
	"salary",
	"url",
	"short_description",
	"full_description",
	"score",
	"recommendation",
	"skill_match_percentage",
	"reasoning",
	"pros",
	"cons",
	"strong_matches",
	"gaps",
	"strategic_considerations",
}

// Table is a rectangular view of scored jobs.
type Table struct {
	Columns []string
	Rows    [][]string
}

// BuildTable renders jobs in input order. Jobs without a match leave the
// match columns empty.
func BuildTable(jobs []types.ScoredJob) Table {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, row(job))
	}
	columns := make([]string, len(Columns))
	copy(columns, Columns)
	return Table{Columns: columns, Rows: rows}
}

func row(job types.ScoredJob) []string {
	r := []string{
		job.Job.Title,
		job.Job.Company,
		job.Job.Location,
		job.Job.Salary,
		job.Job.URL,
		job.Job.ShortDescription,
		job.Job.FullDescription,
	}
	if job.Match == nil {
		return append(r, make([]string, len(Columns)-len(r))...)
	}
	m := job.Match
	return append(r,
		strconv.Itoa(m.Score),
		string(m.Recommendation),
		strconv.Itoa(m.SkillMatchPercentage),
		m.Reasoning,
		strings.Join(m.Pros, ListSeparator),
		strings.Join(m.Cons, ListSeparator),
		strings.Join(m.StrongMatches, ListSeparator),
		strings.Join(m.Gaps, ListSeparator),
		strings.Join(m.StrategicConsiderations, ListSeparator),
	)
}
