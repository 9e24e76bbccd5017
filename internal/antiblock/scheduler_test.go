package antiblock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeScheduler_Multiplier(t *testing.T) {
	s := NewTimeScheduler(time.UTC)

	tests := []struct {
		name     string
		at       time.Time
		business bool
		want     float64
	}{
		{"weekday morning", time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC), true, 1.5},
		{"weekday lunch peak", time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC), true, 2.0},
		{"weekday evening", time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC), false, 1.0},
		{"saturday morning", time.Date(2026, 10, 24, 10, 0, 0, 0, time.UTC), false, 1.0},
		{"saturday lunch", time.Date(2026, 10, 24, 13, 0, 0, 0, time.UTC), false, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.business, s.IsBusinessHours(tt.at))
			assert.Equal(t, tt.want, s.Multiplier(tt.at))
		})
	}
}

func TestTimeScheduler_Adjust(t *testing.T) {
	s := NewTimeScheduler(time.UTC)
	at := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 3*time.Second, s.Adjust(2*time.Second, at))
}
