package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"collapses spaces", "Go \t  developer", "Go developer"},
		{"drops paragraph indentation", "   Summary line", "Summary line"},
		{"keeps bullet indentation", "Skills\n    * Go\n    • SQL", "Skills\n    * Go\n    • SQL"},
		{"limits blank lines", "a\n \n\t\n\n\nb", "a\n\nb"},
		{"trims document", "\n\n  a  \n\n", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}
