// Package steps defines the stages of a job search run, their dependencies,
// and a tracker recording how each stage finished.
package steps

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Step categories
const (
	CategorySearch   = "search"
	CategoryScraping = "scraping"
	CategoryMatching = "matching"
)

// Step names
const (
	BuildURL     = "build_url"
	FetchListing = "fetch_listing"
	FetchDetails = "fetch_details"
	ScoreJobs    = "score_jobs"
)

// Step statuses
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusSkipped    = "skipped"
	StatusCancelled  = "cancelled"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     []string
}

// StepResult represents the outcome of one step in a run
type StepResult struct {
	Step     string        `json:"step"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
	Items    int           `json:"items"`
	Error    string        `json:"error,omitempty"`
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	BuildURL: {
		Name:         BuildURL,
		Category:     CategorySearch,
		Dependencies: []string{},
		Optional:     []string{},
	},
	FetchListing: {
		Name:         FetchListing,
		Category:     CategoryScraping,
		Dependencies: []string{BuildURL},
		Optional:     []string{},
	},
	FetchDetails: {
		Name:         FetchDetails,
		Category:     CategoryScraping,
		Dependencies: []string{FetchListing},
		Optional:     []string{},
	},
	ScoreJobs: {
		Name:         ScoreJobs,
		Category:     CategoryMatching,
		Dependencies: []string{FetchListing},
		Optional:     []string{FetchDetails},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// Tracker records step outcomes for a single run.
type Tracker struct {
	mu      sync.Mutex
	now     func() time.Time
	started map[string]time.Time
	results map[string]*StepResult
	order   []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		now:     time.Now,
		started: make(map[string]time.Time),
		results: make(map[string]*StepResult),
	}
}

// Start validates the step's dependencies and marks it in progress.
func (t *Tracker) Start(stepName string) error {
	if err := t.ValidateDependencies(stepName); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, seen := t.results[stepName]; !seen {
		t.order = append(t.order, stepName)
	}
	t.started[stepName] = t.now()
	t.results[stepName] = &StepResult{Step: stepName, Status: StatusInProgress}
	return nil
}

// Finish closes a started step with status. err, when set, is recorded as text.
func (t *Tracker) Finish(stepName, status string, items int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	result, ok := t.results[stepName]
	if !ok {
		t.order = append(t.order, stepName)
		result = &StepResult{Step: stepName}
		t.results[stepName] = result
	}
	result.Status = status
	result.Items = items
	if start, ok := t.started[stepName]; ok {
		result.Duration = t.now().Sub(start)
	}
	if err != nil {
		result.Error = err.Error()
	}
}

// Status returns the recorded status for stepName, or "" if it never ran.
func (t *Tracker) Status(stepName string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if result, ok := t.results[stepName]; ok {
		return result.Status
	}
	return ""
}

// Results returns step results in the order they were started.
func (t *Tracker) Results() []StepResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]StepResult, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.results[name])
	}
	return out
}

// ValidateDependencies checks if all required dependencies for a step are completed
func (t *Tracker) ValidateDependencies(stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if t.Status(dep) != StatusCompleted {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// AvailableSteps returns steps not yet started whose dependencies are met, sorted by name.
func (t *Tracker) AvailableSteps() []string {
	var available []string
	for stepName := range StepRegistry {
		if t.Status(stepName) != "" {
			continue
		}
		if err := t.ValidateDependencies(stepName); err != nil {
			continue
		}
		available = append(available, stepName)
	}
	sort.Strings(available)
	return available
}
