package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendation(t *testing.T) {
	tests := []struct {
		input string
		want  Recommendation
		ok    bool
	}{
		{"Strong Match", StrongMatch, true},
		{"  good match ", GoodMatch, true},
		{"MODERATE MATCH", ModerateMatch, true},
		{"Weak Match", WeakMatch, true},
		{"Review Manually", ReviewManually, true},
		{"Excellent", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRecommendation(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchResult_JSONMarshaling(t *testing.T) {
	result := MatchResult{
		Score:          85,
		Reasoning:      "Strong Go background",
		Pros:           []string{"Go"},
		Cons:           []string{},
		Recommendation: StrongMatch,
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"score":85`)
	assert.Contains(t, string(data), `"recommendation":"Strong Match"`)
	assert.NotContains(t, string(data), `"degraded"`)
}

func TestJobRecord_HasDescription(t *testing.T) {
	summary := JobSummary{Title: "Engineer", URL: "https://example.com/job/1"}

	record := NewJobRecord(summary)
	assert.Equal(t, NotAvailable, record.FullDescription)
	assert.False(t, record.HasDescription())

	record.FullDescription = DescriptionUnavailable
	assert.False(t, record.HasDescription())

	record.FullDescription = DescriptionFetchError
	assert.False(t, record.HasDescription())

	record.FullDescription = "Build services in Go."
	assert.True(t, record.HasDescription())
}

func TestJobRecord_EmbedsSummaryFieldsInJSON(t *testing.T) {
	record := JobRecord{
		JobSummary:      JobSummary{Title: "Engineer", URL: "https://example.com/job/1"},
		FullDescription: "desc",
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title":"Engineer"`)
	assert.Contains(t, string(data), `"full_description":"desc"`)
}
