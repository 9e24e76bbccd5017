package matching

import (
	"context"
	"sync"

	"github.com/jonathan/job-scout/internal/llm"
	"github.com/jonathan/job-scout/internal/types"
)

// countingExtractor parses a canned response and counts calls.
type countingExtractor struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *countingExtractor) Extract(_ context.Context, prompt string, schema llm.ExtractionSchema) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	obj, _, err := llm.ParseResponse(f.response, schema)
	return obj, err
}

func (f *countingExtractor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type panickingExtractor struct{}

func (panickingExtractor) Extract(context.Context, string, llm.ExtractionSchema) (map[string]any, error) {
	panic("boom")
}

func testJob(url string) types.JobRecord {
	job := types.NewJobRecord(types.JobSummary{
		Title:            "Senior Go Developer",
		URL:              url,
		Company:          "Acme",
		Location:         "Sydney NSW",
		Salary:           types.SalaryUnspecified,
		ShortDescription: "Build backend services in Go.",
	})
	job.FullDescription = "We are hiring a Go developer to build distributed systems. You will own services end to end."
	return job
}

func testProfile(id string) *types.CandidateProfile {
	return &types.CandidateProfile{
		ID:              id,
		Skills:          []string{"Go", "SQL", "Kubernetes"},
		ExperienceYears: 6,
		Education:       []string{"BSc Computer Science"},
		PreviousTitles:  []string{"Backend Engineer"},
		Industries:      []string{"Fintech"},
		Location:        "Sydney",
	}
}
