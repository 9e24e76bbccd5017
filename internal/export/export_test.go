package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-scout/internal/types"
)

func sampleJobs() []types.ScoredJob {
	scored := types.NewJobRecord(types.JobSummary{
		Title:            "Go Developer",
		URL:              "https://www.seek.com.au/job/1",
		Company:          "Acme, Inc.",
		Location:         "Sydney NSW",
		Salary:           "$150k",
		ShortDescription: "Build \"fast\" services",
	})
	scored.FullDescription = "Line one\nLine two"

	unscored := types.NewJobRecord(types.JobSummary{
		Title:   "Data Engineer",
		URL:     "https://www.seek.com.au/job/2",
		Company: types.NotAvailable,
		Salary:  types.SalaryUnspecified,
	})

	return []types.ScoredJob{
		{
			Job: scored,
			Match: &types.MatchResult{
				Score:                82,
				Reasoning:            "Strong Go background.",
				Pros:                 []string{"Go", "Kubernetes"},
				Cons:                 []string{},
				SkillMatchPercentage: 75,
				Recommendation:       types.StrongMatch,
				Gaps:                 []string{"Rust"},
			},
		},
		{Job: unscored},
	}
}

func TestBuildTable(t *testing.T) {
	table := BuildTable(sampleJobs())

	assert.Equal(t, Columns, table.Columns)
	require.Len(t, table.Rows, 2)
	for _, r := range table.Rows {
		assert.Len(t, r, len(Columns))
	}

	first := table.Rows[0]
	assert.Equal(t, "Go Developer", first[0])
	assert.Equal(t, "82", first[7])
	assert.Equal(t, "Strong Match", first[8])
	assert.Equal(t, "75", first[9])
	assert.Equal(t, "Go; Kubernetes", first[11])
	assert.Equal(t, "", first[12])
	assert.Equal(t, "Rust", first[14])

	second := table.Rows[1]
	assert.Equal(t, types.NotAvailable, second[6])
	assert.Equal(t, "", second[7])
}

func TestBuildTable_ColumnsAreACopy(t *testing.T) {
	table := BuildTable(nil)
	table.Columns[0] = "changed"

	assert.Equal(t, "title", Columns[0])
	assert.Empty(t, table.Rows)
}

func TestWriteCSV_RoundTripsQuoting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, BuildTable(sampleJobs())))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Columns, records[0])
	assert.Equal(t, "Acme, Inc.", records[1][1])
	assert.Equal(t, "Build \"fast\" services", records[1][5])
	assert.Equal(t, "Line one\nLine two", records[1][6])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleJobs()))

	var decoded []types.ScoredJob
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 82, decoded[0].Match.Score)
	assert.Nil(t, decoded[1].Match)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "out", FileName("run-1", "csv"))
	require.NoError(t, SaveFile(csvPath, sampleJobs()))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title,company,location")

	jsonPath := filepath.Join(dir, FileName("run-1", "json"))
	require.NoError(t, SaveFile(jsonPath, sampleJobs()))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "jobs_abc.csv", FileName("abc", "csv"))
}
