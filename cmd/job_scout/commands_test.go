package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-scout/internal/resume"
)

func stubConfirm(t *testing.T, fn func(string) (bool, error)) {
	original := confirm
	confirm = fn
	t.Cleanup(func() { confirm = original })
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "job_scout dev\n", out)
}

func TestBuildURLCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{
			name: "title and location",
			args: []string{"build-url", "--title", "Data Scientist", "--location", "New South Wales"},
			want: "https://www.seek.com.au/data-scientist-jobs/in-new-south-wales\n",
		},
		{
			name: "with filters and page",
			args: []string{"build-url", "-t", "Go Developer", "-l", "Sydney", "--work-type", "Full time", "--salary", "80K+", "--page", "2"},
			want: "https://www.seek.com.au/go-developer-jobs/in-sydney?fullTime=true&salarytype=annual&salaryrange=80000-&page=2\n",
		},
		{
			name:    "missing title",
			args:    []string{"build-url", "--location", "Sydney"},
			wantErr: `required flag(s) "title" not set`,
		},
		{
			name:    "bad salary",
			args:    []string{"build-url", "-t", "Go", "-l", "Sydney", "--salary", "lots"},
			wantErr: "salary",
		},
		{
			name:    "empty title",
			args:    []string{"build-url", "-t", "???", "-l", "Sydney"},
			wantErr: "search term",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestParseResumeCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	model := newModelServer(t)
	cfg := testConfig(t, dir, "https://example.com", model.URL)
	resumePath := writeFile(t, dir, "cv.txt", "Jane Doe\nBackend Engineer, 6 years of Go and PostgreSQL\n")
	outPath := filepath.Join(dir, "profile.json")

	out, err := execute(t, "--config", cfg, "parse-resume", "--resume", resumePath, "--out", outPath)
	require.NoError(t, err)

	assert.Contains(t, out, "CANDIDATE PROFILE")
	assert.Contains(t, out, "cv.txt")
	assert.Contains(t, out, "6 years")
	assert.Equal(t, int32(1), model.profileCalls.Load())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var profile map[string]any
	require.NoError(t, json.Unmarshal(data, &profile))
	assert.Equal(t, []any{"Go", "PostgreSQL", "Docker"}, profile["skills"])
}

func TestParseResumeCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	model := newModelServer(t)
	cfg := testConfig(t, dir, "https://example.com", model.URL)

	_, err := execute(t, "--config", cfg, "parse-resume", "--resume", writeFile(t, dir, "cv.pdf", "%PDF"))
	require.ErrorIs(t, err, resume.ErrUnsupportedFormat)

	_, err = execute(t, "--config", cfg, "parse-resume", "--resume", writeFile(t, dir, "blank.txt", "   \n"))
	require.ErrorIs(t, err, resume.ErrReadError)

	assert.Zero(t, model.profileCalls.Load())
}

func TestSearchCommand_ScoresAndExports(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	site := newListingSite(t)
	model := newModelServer(t)
	cfg := testConfig(t, dir, site.URL, model.URL)
	resumePath := writeFile(t, dir, "cv.md", "# Jane Doe\n\n- Go\n- PostgreSQL\n")
	outPath := filepath.Join(dir, "results", "jobs.csv")

	asked := ""
	stubConfirm(t, func(label string) (bool, error) {
		asked = label
		return true, nil
	})

	out, err := execute(t, "--config", cfg, "search", "-t", "Go Engineer", "-l", "Sydney", "-n", "2", "-r", resumePath, "-o", outPath, "--confirm", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, asked, "Score up to 2 jobs")
	assert.Contains(t, out, "SEARCH RESULTS")
	assert.Contains(t, out, "82/100 (Strong Match)")
	assert.Contains(t, out, "Saved 2 jobs to "+outPath)
	assert.Equal(t, int32(1), model.profileCalls.Load())
	assert.Equal(t, int32(2), model.matchCalls.Load())

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "title", rows[0][0])
	assert.Equal(t, "Go Engineer 1", rows[1][0])
	assert.Equal(t, "We need Go and Kafka.", rows[1][6])
	assert.Equal(t, "82", rows[1][7])
}

func TestSearchCommand_DeclinedConfirmation(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	site := newListingSite(t)
	model := newModelServer(t)
	cfg := testConfig(t, dir, site.URL, model.URL)
	resumePath := writeFile(t, dir, "cv.txt", "Go developer")

	stubConfirm(t, func(string) (bool, error) { return false, nil })

	_, err := execute(t, "--config", cfg, "search", "-t", "Go", "-l", "Sydney", "-r", resumePath, "--confirm")
	require.ErrorIs(t, err, errAborted)
	assert.Zero(t, model.matchCalls.Load())
}

func TestSearchCommand_WithoutResume(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	site := newListingSite(t)
	cfg := testConfig(t, dir, site.URL, "http://127.0.0.1:1")

	out, err := execute(t, "--config", cfg, "search", "-t", "Go", "-l", "Sydney", "--skip-details", "-o", "jobs.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Jobs found: 3")

	data, err := os.ReadFile(filepath.Join(dir, "jobs.json"))
	require.NoError(t, err)
	var jobs []map[string]any
	require.NoError(t, json.Unmarshal(data, &jobs))
	require.Len(t, jobs, 3)
	assert.NotContains(t, jobs[0], "match")
}
